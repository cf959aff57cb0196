package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRuleInfo(t *testing.T) {
	ris, err := DecodeRuleInfo([]byte(`[
		{"ri_type": "qa", "caption": "A1.1", "content": [
			{"answers": [["Informational.", "ASLJ"]]},
			{"question": "Q?", "image": "q1.png", "answers": [["A.", "MMP"], ["B.", "Perry"]], "see_other": "A2"}
		]},
		{"ri_type": "errata", "ruleid": "A1.1", "content": "Fix it", "source": "ASLJ 12"},
		{"ri_type": "user-anno", "ruleid": "A1.1", "content": "Mine"},
		{"ri_type": "shrug"}
	]`))
	require.NoError(t, err)
	require.Len(t, ris, 4)

	qa, ok := ris[0].(*QAEntry)
	require.True(t, ok)
	assert.Equal(t, "qa", qa.Tag())
	assert.Nil(t, qa.Content[0].Question)
	assert.Equal(t, "Q?", *qa.Content[1].Question)
	assert.Equal(t, "A2", qa.Content[1].SeeOther)
	assert.Equal(t, []QAAnswer{{HTML: "A.", Source: "MMP"}, {HTML: "B.", Source: "Perry"}}, qa.Content[1].Answers)

	errata, ok := ris[1].(*Annotation)
	require.True(t, ok)
	assert.Equal(t, "errata", errata.Tag())
	assert.Equal(t, "ASLJ 12", errata.Source)

	assert.Equal(t, "user-anno", ris[2].Tag())
	assert.Equal(t, "shrug", ris[3].Tag())
}

func TestDecodeRuleInfo_Invalid(t *testing.T) {
	_, err := DecodeRuleInfo([]byte(`{}`))
	assert.Error(t, err)

	_, err = DecodeRuleInfo([]byte(`[{"ri_type": "qa", "content": [{"answers": ["not a pair"]}]}]`))
	assert.Error(t, err)
}

func TestQAAnswer_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(QAAnswer{HTML: "Yes.", Source: "MMP"})
	require.NoError(t, err)
	assert.JSONEq(t, `["Yes.", "MMP"]`, string(data))
}
