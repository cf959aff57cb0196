package webapp

import (
	"testing"

	"github.com/ksysoev/rulebook/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func takeSnapshot(t *testing.T, app *App) *Snapshot {
	t.Helper()

	var snap *Snapshot

	dispatch(t, app, func(a *App) { snap = a.Snapshot() })
	require.NotNil(t, snap)

	return snap
}

func TestSnapshot_SearchResults(t *testing.T) {
	fb := newFakeBackend()
	fb.search = searchJSON(`[
		{"sr_type": "index", "title": "!@:Tank:@!s", "cset_id": "asl-rb", "ruleids": ["A1.1", "Q9"],
		 "rulerefs": [{"caption": "see", "ruleids": ["A12.3"]}]},
		{"sr_type": "qa", "caption": "Tanks", "content": [
			{"question": "Can !@:tanks:@! fly?", "image": "tank.png", "answers": [["No.", "ASLJ"]]},
			{"answers": [["Informational.", "AM"]]}
		]},
		{"sr_type": "errata", "ruleid": "KGS_CG3", "content": "Fixed."},
		{"sr_type": "asop-entry", "section_id": "rally-1", "content": "x"},
		{"sr_type": "vassal", "content": "?"}
	]`)

	app := startApp(t, fb, Options{})
	dispatch(t, app, func(a *App) {
		a.Search("tanks")
		require.NoError(t, a.SetSRFilter(core.SRErrata, false))
	})

	snap := takeSnapshot(t, app)
	search := snap.Nav.Search

	assert.True(t, snap.Loaded)
	assert.Equal(t, "tanks", search.Query)
	assert.Equal(t, "4/5", search.Count)
	require.Len(t, search.Results, 5)

	idx := search.Results[0].Index
	require.NotNil(t, idx)
	assert.Equal(t, "<span class='hilite'>Tank</span>s", *idx.SR.Title)
	require.Len(t, idx.Ruleids, 2)
	assert.True(t, idx.Ruleids[0].Resolved)
	assert.Equal(t, core.Target{CSetID: "asl-rb", CDocID: "asl-rb", Ruleid: "A1.1"}, idx.Ruleids[0].Target)
	assert.Equal(t, "A", idx.Ruleids[0].ChapterID)
	assert.Equal(t, "/icons/a.png", idx.Ruleids[0].IconURL)
	assert.False(t, idx.Ruleids[1].Resolved)
	require.Len(t, idx.Rulerefs, 1)
	assert.Equal(t, "A12.3", idx.Rulerefs[0].Ruleids[0].Target.Ruleid)

	qa := search.Results[1].QA
	require.NotNil(t, qa)
	require.Len(t, qa.Content, 2)
	assert.True(t, qa.Content[0].HasQuestion)
	assert.Equal(t, "Can <span class='hilite'>tanks</span> fly?", qa.Content[0].Question)
	assert.Equal(t, "/qa/image/tank.png", qa.Content[0].ImageURL)
	assert.False(t, qa.Content[1].HasQuestion)

	anno := search.Results[2].Anno
	require.NotNil(t, anno)
	assert.Equal(t, core.AnnotationErrata, anno.Kind)
	assert.Equal(t, "KGS", anno.Ruleid.ChapterID)
	assert.True(t, anno.Ruleid.Resolved)
	assert.False(t, search.Results[2].Visible)

	assert.NotNil(t, search.Results[3].ASOP)
	assert.True(t, search.Results[3].Visible)

	assert.Equal(t, "vassal", search.Results[4].Unknown)
	assert.True(t, search.Results[4].Visible)
}

func TestSnapshot_Popups(t *testing.T) {
	fb := newFakeBackend()
	fb.footnotes = core.FootnoteIndex{"asl-rb": {"A1.1": {{
		FootnoteID: "7",
		Content:    "A footnote.",
		Captions:   []core.FootnoteCaption{{Ruleid: "A12.3", Caption: "Concealment"}},
	}}}}
	fb.ruleInfo = map[string][]core.RuleInfo{
		"A1.1": {
			&core.Annotation{Kind: core.AnnotationUser, Ruleid: "A1.1", Content: "Mine."},
			&core.UnknownRuleInfo{RIType: "vassal"},
		},
	}

	app := startApp(t, fb, Options{})
	dispatch(t, app, func(a *App) { require.NoError(t, a.GoTo("", "A1.1", "")) })

	snap := takeSnapshot(t, app)

	require.NotNil(t, snap.Footnotes)
	assert.Equal(t, "A1.1", snap.Footnotes.Ruleid)
	require.Len(t, snap.Footnotes.Footnotes, 1)
	assert.Equal(t, "Concealment", snap.Footnotes.Footnotes[0].Captions[0].Caption)
	assert.True(t, snap.Footnotes.Footnotes[0].Captions[0].Resolved)

	assert.Equal(t, "A1.1", snap.RuleInfoRuleid)
	require.Len(t, snap.RuleInfo, 2)
	assert.Equal(t, "Mine.", snap.RuleInfo[0].Anno.Content)
	assert.Equal(t, "user-anno:A1.1", snap.RuleInfo[0].Collapser.ID)
	assert.Equal(t, core.DefaultCollapsibleHeight, snap.RuleInfo[0].Collapser.Height)
	assert.Equal(t, "vassal", snap.RuleInfo[1].Unknown)

	require.Len(t, snap.Content.Docs, 2)
	assert.True(t, snap.Content.Docs[0].Visible)
	assert.Equal(t, "/content/asl-rb.pdf#nameddest=A1.1", snap.Content.Docs[0].URL)
	assert.False(t, snap.Content.Docs[1].Visible)

	assert.Nil(t, snap.ASOP)
	assert.Equal(t, "search", snap.Nav.Tabs.Active)
	require.Len(t, snap.Nav.Chapters.Panes, 2)
}

func TestSnapshot_ASOP(t *testing.T) {
	app := startApp(t, asopBackend(), Options{})

	dispatch(t, app, func(a *App) { a.ActivateTab(navTabGroup, navTabASOP) })

	snap := takeSnapshot(t, app)

	require.NotNil(t, snap.ASOP)
	assert.Equal(t, asopIntroTitle, snap.ASOP.Title)
	assert.Equal(t, []string{"<p>Welcome</p>"}, snap.ASOP.Sections)
	assert.Equal(t, asopPreambleHeight, snap.ASOP.Collapser.Height)
	assert.Len(t, snap.Nav.Tabs.Tabs, 3)
	assert.Equal(t, "<p>Footer</p>", snap.Nav.Footer)
}
