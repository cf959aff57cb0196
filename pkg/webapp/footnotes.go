package webapp

import (
	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/ksysoev/rulebook/pkg/core"
)

// FootnotePopup shows the footnotes attached to the target that was opened.
type FootnotePopup struct {
	env       *env
	cdocID    string
	ruleid    string
	footnotes []core.Footnote
	subs      subscriptions
}

func newFootnotePopup(e *env) *FootnotePopup {
	p := &FootnotePopup{env: e}

	p.subs.add(bus.On(e.bus, func(ev bus.ShowTarget) {
		p.Close()

		fns := e.state().Footnotes.Lookup(ev.CDocID, ev.Ruleid)
		if len(fns) == 0 {
			return
		}

		p.cdocID = ev.CDocID
		p.ruleid = ev.Ruleid
		p.footnotes = fns
	}))

	return p
}

// Open reports whether footnotes are being shown.
func (p *FootnotePopup) Open() bool { return len(p.footnotes) > 0 }

// Footnotes returns the footnotes being shown.
func (p *FootnotePopup) Footnotes() []core.Footnote { return p.footnotes }

// Target returns the content doc and ruleid the footnotes belong to.
func (p *FootnotePopup) Target() (cdocID, ruleid string) { return p.cdocID, p.ruleid }

// Close hides the footnotes and reports whether any were shown.
func (p *FootnotePopup) Close() bool {
	wasOpen := p.Open()

	p.footnotes = nil
	p.cdocID = ""
	p.ruleid = ""

	return wasOpen
}

// Detach stops the popup reacting to events.
func (p *FootnotePopup) Detach() { p.subs.close() }
