package core

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSearchResults(t *testing.T) {
	srs, err := DecodeSearchResults([]byte(`[
		{"sr_type": "index", "cset_id": "asl-rb", "title": "!@:Tank:@!s", "ruleids": ["D1.1"],
		 "rulerefs": [{"caption": "Armor", "ruleids": ["D1.2"]}]},
		{"sr_type": "qa", "caption": "A1.1", "content": [
			{"question": "Is a !@:tank:@! a vehicle?", "answers": [["Yes, a !@:tank:@!.", "MMP"]]}
		]},
		{"sr_type": "errata", "ruleid": "A2", "content": "Change !@:tank:@!"},
		{"sr_type": "user-anno", "ruleid": "A3", "content": "note"},
		{"sr_type": "asop-entry", "section_id": "rally-1", "content": "!@:x:@!"},
		{"sr_type": "mystery"}
	]`))
	require.NoError(t, err)
	require.Len(t, srs, 6)

	types := make([]SRType, 0, len(srs))
	for _, sr := range srs {
		types = append(types, sr.Type())
		sr.Hilite()
	}

	assert.Equal(t, []SRType{SRIndex, SRQA, SRErrata, SRUserAnno, SRASOPEntry, "mystery"}, types)

	idx, ok := srs[0].(*IndexSR)
	require.True(t, ok)
	require.NotNil(t, idx.Title)
	assert.Equal(t, "<span class='hilite'>Tank</span>s", *idx.Title)
	assert.Nil(t, idx.Subtitle)
	assert.Nil(t, idx.Content)
	assert.Equal(t, []Ruleref{{Caption: "Armor", Ruleids: []string{"D1.2"}}}, idx.Rulerefs)

	qa, ok := srs[1].(*QASR)
	require.True(t, ok)
	assert.Equal(t, "Is a <span class='hilite'>tank</span> a vehicle?", *qa.Content[0].Question)
	assert.Equal(t, QAAnswer{HTML: "Yes, a <span class='hilite'>tank</span>.", Source: "MMP"}, qa.Content[0].Answers[0])

	errata, ok := srs[2].(*AnnotationSR)
	require.True(t, ok)
	assert.Equal(t, AnnotationErrata, errata.Kind)
	assert.Equal(t, "Change <span class='hilite'>tank</span>", errata.Content)

	asop, ok := srs[4].(*ASOPEntrySR)
	require.True(t, ok)
	assert.Equal(t, "rally-1", asop.SectionID)
	assert.Equal(t, "<span class='hilite'>x</span>", asop.Content)
}

func TestDecodeSearchResults_Error(t *testing.T) {
	_, err := DecodeSearchResults([]byte(`{"error": "Bad query."}`))

	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, "Bad query.", searchErr.Error())

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "null error", body: `{"error": null}`, want: "Unknown error."},
		{name: "empty error", body: `{"error": ""}`, want: "Unknown error."},
		{name: "non-string error", body: `{"error": {"code": 3}}`, want: "Unknown error."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSearchResults([]byte(tt.body))

			var searchErr *SearchError
			require.ErrorAs(t, err, &searchErr)
			assert.Equal(t, tt.want, searchErr.Error())
		})
	}

	_, err = DecodeSearchResults([]byte(`{"foo": 1}`))
	assert.Error(t, err)

	_, err = DecodeSearchResults([]byte(`not json`))
	assert.Error(t, err)
}

func TestSRType_Capability(t *testing.T) {
	assert.Equal(t, "content-sets", SRIndex.Capability())
	assert.Equal(t, "asop", SRASOPEntry.Capability())
	assert.Equal(t, "qa", SRQA.Capability())
	assert.Equal(t, "errata", SRErrata.Capability())
}

func TestDecodeSearchResults_UnknownTypeLoggedOnce(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer

	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	srs, err := DecodeSearchResults([]byte(`[{"sr_type": "mystery"}]`))
	require.NoError(t, err)
	require.Len(t, srs, 1)

	srs[0].Hilite()
	srs[0].Hilite()

	assert.Equal(t, 1, strings.Count(buf.String(), "unknown search result type"))
	assert.Contains(t, buf.String(), "sr_type=mystery")
}
