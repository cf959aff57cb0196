package webapp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/ksysoev/rulebook/pkg/core"
)

// RuleInfoEntry is one entry of the rule info popup with its collapser.
type RuleInfoEntry struct {
	Info      core.RuleInfo
	Collapser *Collapser
}

// RuleInfoPopup shows the Q+A, errata and annotations of the target that was opened.
type RuleInfoPopup struct {
	env     *env
	ruleid  string
	entries []RuleInfoEntry
	subs    subscriptions
	seq     int
}

func newRuleInfoPopup(e *env) *RuleInfoPopup {
	p := &RuleInfoPopup{env: e}

	p.subs.add(bus.On(e.bus, p.onShowTarget))

	return p
}

func (p *RuleInfoPopup) onShowTarget(ev bus.ShowTarget) {
	if ev.SuppressRuleInfo {
		return
	}

	cfg := p.env.config()
	if cfg == nil || bool(cfg.DisableAutoShowRuleInfo) {
		return
	}

	p.seq++
	seq := p.seq
	ruleid := ev.Ruleid

	fetch(p.env, func(ctx context.Context) ([]core.RuleInfo, error) {
		return p.env.backend.RuleInfo(ctx, ruleid)
	}, func(infos []core.RuleInfo, err error) {
		if seq != p.seq {
			slog.Debug("dropping stale rule info", "ruleid", ruleid)
			return
		}

		if err != nil {
			p.env.notes.Warning("Couldn't get the Q+A for "+ruleid+".", err.Error())
			return
		}

		if len(infos) > 0 {
			p.open(ruleid, infos)
		}
	})
}

func (p *RuleInfoPopup) open(ruleid string, infos []core.RuleInfo) {
	p.dropCollapsers()

	p.ruleid = ruleid
	p.entries = make([]RuleInfoEntry, 0, len(infos))

	cfg := p.env.config()
	seen := make(map[string]int)

	for _, ri := range infos {
		id := ruleInfoCollapserID(ri)
		if n := seen[id]; n > 0 {
			seen[id] = n + 1
			id = fmt.Sprintf("%s-%d", id, n+1)
		} else {
			seen[id] = 1
		}

		c := newCollapser(p.env, id)
		c.Init(cfg, &Collapsible{Content: ruleInfoText(ri)}, nil)

		p.entries = append(p.entries, RuleInfoEntry{Info: ri, Collapser: c})
	}
}

// ruleInfoCollapserID derives a stable collapser id from an entry, so that
// reopening the same entry restores its collapsed state.
func ruleInfoCollapserID(ri core.RuleInfo) string {
	switch v := ri.(type) {
	case *core.QAEntry:
		return "qa:" + v.Caption
	case *core.Annotation:
		return string(v.Kind) + ":" + v.Ruleid
	default:
		return "ri:" + ri.Tag()
	}
}

func ruleInfoText(ri core.RuleInfo) string {
	switch v := ri.(type) {
	case *core.QAEntry:
		var sb strings.Builder

		for _, c := range v.Content {
			if c.Question != nil {
				sb.WriteString(*c.Question)
			}

			for _, a := range c.Answers {
				sb.WriteString(a.HTML)
			}
		}

		return sb.String()
	case *core.Annotation:
		return v.Content
	default:
		slog.Warn("unknown rule info type", "ri_type", ri.Tag())
		return ""
	}
}

// Open reports whether the popup is showing.
func (p *RuleInfoPopup) Open() bool { return len(p.entries) > 0 }

// Ruleid returns the ruleid the popup is showing.
func (p *RuleInfoPopup) Ruleid() string { return p.ruleid }

// Entries returns the entries being shown.
func (p *RuleInfoPopup) Entries() []RuleInfoEntry { return p.entries }

// Close hides the popup and reports whether it was open.
func (p *RuleInfoPopup) Close() bool {
	wasOpen := p.Open()

	p.dropCollapsers()
	p.entries = nil
	p.ruleid = ""

	return wasOpen
}

func (p *RuleInfoPopup) dropCollapsers() {
	for _, e := range p.entries {
		if cur, ok := p.env.collapsers[e.Collapser.ID()]; ok && cur == e.Collapser {
			delete(p.env.collapsers, e.Collapser.ID())
		}
	}
}

// Detach stops the popup reacting to events.
func (p *RuleInfoPopup) Detach() { p.subs.close() }
