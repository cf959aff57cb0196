package webapp

import "github.com/ksysoev/rulebook/pkg/core"

// RuleLink is a ruleid mentioned in content. A resolved link can be clicked
// to open its target; an unresolved one is shown as plain text.
type RuleLink struct {
	Ruleid        string
	Caption       string
	ChapterID     string
	IconURL       string
	BackgroundURL string
	Target        core.Target
	Resolved      bool
}

// linkRuleid resolves a ruleid and picks the cosmetic styling of the chapter
// it appears to belong to.
func linkRuleid(state *core.AppState, ruleid, csetID string) RuleLink {
	link := RuleLink{Ruleid: ruleid, Caption: ruleid}

	if tgt, ok := state.Targets.First(ruleid, csetID); ok {
		link.Target = tgt
		link.Resolved = true
	}

	if chapterID, ok := core.InferChapterIDFromRuleid(ruleid); ok {
		link.ChapterID = chapterID
		link.IconURL = state.Resources.URL(core.ResourceIcon, chapterID)
		link.BackgroundURL = state.Resources.URL(core.ResourceBackground, chapterID)
	}

	return link
}

func linkRuleids(state *core.AppState, ruleids []string, csetID string) []RuleLink {
	if len(ruleids) == 0 {
		return nil
	}

	out := make([]RuleLink, 0, len(ruleids))
	for _, r := range ruleids {
		out = append(out, linkRuleid(state, r, csetID))
	}

	return out
}
