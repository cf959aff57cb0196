package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppState_CopyOnWrite(t *testing.T) {
	empty := NewAppState()
	assert.Nil(t, empty.Targets.Resolve("A1.1", ""))

	loaded := empty.WithContentDocs(testDocs(t))
	assert.Nil(t, empty.Targets.Resolve("A1.1", ""), "old state is untouched")
	assert.Len(t, loaded.Targets.Resolve("A1.1", ""), 1)

	withCfg := loaded.WithConfig(&AppConfig{CollapsibleThreshold: 10})
	assert.Nil(t, loaded.Config)
	assert.Equal(t, 10, withCfg.Config.Threshold())
	assert.Same(t, loaded.Targets, withCfg.Targets)

	doc, ok := withCfg.ContentDoc("kgs")
	require.True(t, ok)
	assert.Equal(t, "Kampfgruppe Scherer", doc.Title)

	_, ok = withCfg.ContentDoc("missing")
	assert.False(t, ok)

	assert.Len(t, withCfg.ContentDocs(), 2)
}

func TestAppState_ASOP(t *testing.T) {
	state := NewAppState()
	assert.False(t, state.HasASOP())

	state = state.WithASOP(&ASOP{Chapters: []ASOPChapter{
		{ChapterID: "rally", Caption: "Rally Phase", Sections: []ASOPSection{
			{SectionID: "rally-1", Caption: "Reinforcements"},
			{SectionID: "rally-2", Caption: "Recovery"},
		}},
	}})
	assert.True(t, state.HasASOP())

	ch, sect, ok := state.ASOPSection("rally-2")
	require.True(t, ok)
	assert.Equal(t, "rally", ch.ChapterID)
	assert.Equal(t, "Recovery", sect.Caption)

	_, _, ok = state.ASOPSection("rally-9")
	assert.False(t, ok)

	_, _, ok = state.ASOPSection("prep-1")
	assert.False(t, ok)

	_, ok = state.ASOPChapter("prep")
	assert.False(t, ok)
}

func TestAppState_Nil(t *testing.T) {
	var state *AppState

	assert.Nil(t, state.ContentDocs())
	assert.False(t, state.HasASOP())

	next := state.WithFootnotes(FootnoteIndex{})
	require.NotNil(t, next)
	assert.NotNil(t, next.Targets)
}
