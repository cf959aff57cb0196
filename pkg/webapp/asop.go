package webapp

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/ksysoev/rulebook/pkg/core"
)

const (
	asopIntroTitle     = "Advanced Sequence Of Play"
	asopIntroID        = "intro"
	asopPreambleID     = "asop-preamble"
	asopPreambleHeight = 5
	sniperDagger       = "<sup><span title='Sniper Attacks/Checks are possible during this phase.'>&dagger;</span></sup>"
)

// SectionOverrides caches ASOP section bodies that came with search
// highlights. It is emptied whenever a new search starts.
type SectionOverrides struct {
	content map[string]string
}

// NewSectionOverrides creates an empty cache.
func NewSectionOverrides() *SectionOverrides {
	return &SectionOverrides{content: make(map[string]string)}
}

// Get returns the override for a section.
func (o *SectionOverrides) Get(sectionID string) (string, bool) {
	c, ok := o.content[sectionID]
	return c, ok && c != ""
}

// Set stores the override for a section.
func (o *SectionOverrides) Set(sectionID, content string) { o.content[sectionID] = content }

// Clear drops every override.
func (o *SectionOverrides) Clear() { o.content = make(map[string]string) }

// Len returns the number of overrides.
func (o *SectionOverrides) Len() int { return len(o.content) }

// ASOPViewer shows the intro, a whole chapter or a single section of the ASOP.
type ASOPViewer struct {
	env       *env
	overrides *SectionOverrides
	preamble  *Collapser
	title     string
	text      string
	chapterID string
	sections  []string
	subs      subscriptions
	view      int
	active    bool
	single    bool
}

func newASOPViewer(e *env) *ASOPViewer {
	v := &ASOPViewer{env: e, overrides: NewSectionOverrides()}
	v.preamble = newCollapser(e, asopPreambleID)

	v.subs.add(bus.On(e.bus, func(ev bus.TabActivated) {
		if ev.Group == navTabGroup {
			v.active = ev.Tab == navTabASOP
		}
	}))
	v.subs.add(bus.On(e.bus, func(bus.ShowTarget) { v.active = false }))
	v.subs.add(bus.On(e.bus, func(ev bus.ASOPChapterExpanded) { v.showChapter(ev.ChapterID, ev.UserClick) }))
	v.subs.add(bus.On(e.bus, func(ev bus.ShowASOPSection) { v.showSection(ev.SectionID) }))
	v.subs.add(bus.On(e.bus, func(ev bus.ShowASOPEntrySR) { v.showSearchResult(ev.SectionID, ev.Content) }))
	v.subs.add(bus.On(e.bus, func(bus.Search) { v.overrides.Clear() }))

	return v
}

// showIntro shows the ASOP introduction.
func (v *ASOPViewer) showIntro() {
	view := v.reset(asopIntroTitle, "", asopIntroID, true)

	fetch(v.env, v.env.backend.ASOPIntro, func(resp string, err error) {
		if view != v.view {
			return
		}

		if err != nil {
			v.sections = []string{withDetail("Couldn't get the ASOP intro.", err.Error())}
			return
		}

		v.sections = []string{fixupASOPContent(resp)}
	})
}

func (v *ASOPViewer) showChapter(chapterID string, userClick bool) {
	if !userClick {
		return
	}

	chapter, ok := v.env.state().ASOPChapter(chapterID)
	if !ok {
		slog.Warn("unknown ASOP chapter", "chapter_id", chapterID)
		return
	}

	v.active = true
	view := v.reset(makeASOPTitle(chapter, chapter.Caption), chapter.Preamble, chapter.ChapterID, false)
	v.sections = make([]string, len(chapter.Sections))

	for i := range chapter.Sections {
		caption := chapter.Sections[i].Caption
		sectionID := chapter.ChapterID + "-" + strconv.Itoa(i+1)

		setContent := func(content string) {
			v.sections[i] = "<div class='caption'>" + caption + "</div>" + fixupASOPContent(content)
		}

		if override, ok := v.overrides.Get(sectionID); ok {
			setContent(override)
			continue
		}

		fetch(v.env, func(ctx context.Context) (string, error) {
			return v.env.backend.ASOPSection(ctx, sectionID)
		}, func(resp string, err error) {
			if view != v.view {
				slog.Debug("dropping ASOP section for a chapter no longer shown", "section_id", sectionID)
				return
			}

			if err != nil {
				v.sections[i] = withDetail("Couldn't get ASOP section <tt>"+sectionID+"</tt>.", err.Error())
				return
			}

			setContent(resp)
		})
	}
}

func (v *ASOPViewer) showSection(sectionID string) {
	chapter, section, ok := v.env.state().ASOPSection(sectionID)
	if !ok {
		slog.Warn("unknown ASOP section", "section_id", sectionID)
		return
	}

	view := v.showSingle(chapter, section, "")

	fetch(v.env, func(ctx context.Context) (string, error) {
		return v.env.backend.ASOPSection(ctx, sectionID)
	}, func(resp string, err error) {
		if view != v.view {
			return
		}

		if err != nil {
			v.sections = []string{withDetail("Couldn't get ASOP section <tt>"+sectionID+"</tt>.", err.Error())}
			return
		}

		v.showSingle(chapter, section, resp)
	})
}

func (v *ASOPViewer) showSearchResult(sectionID, content string) {
	chapterID, _ := core.ASOPChapterIDFromSectionID(sectionID)

	chapter, section, ok := v.env.state().ASOPSection(sectionID)
	if !ok {
		slog.Warn("can't find ASOP section for search result", "section_id", sectionID, "chapter_id", chapterID)
		return
	}

	v.overrides.Set(sectionID, content)
	v.showSingle(chapter, section, content)
}

func (v *ASOPViewer) showSingle(chapter *core.ASOPChapter, section *core.ASOPSection, content string) int {
	v.active = true
	view := v.reset(makeASOPTitle(chapter, section.Caption), chapter.Preamble, chapter.ChapterID, true)

	if override, ok := v.overrides.Get(section.SectionID); ok {
		content = override
	}

	v.sections = []string{fixupASOPContent(content)}

	return view
}

// reset starts a new view and returns its number. Fetches started for an
// older view are ignored when they complete.
func (v *ASOPViewer) reset(title, preamble, chapterID string, single bool) int {
	v.view++
	v.title = title
	v.text = fixupASOPContent(preamble)
	v.chapterID = chapterID
	v.single = single
	v.sections = nil

	v.preamble.Init(v.env.config(), &Collapsible{Content: v.text, Height: asopPreambleHeight}, nil)

	return v.view
}

func makeASOPTitle(chapter *core.ASOPChapter, caption string) string {
	if chapter.SniperPhase {
		return caption + sniperDagger
	}

	return caption
}

func fixupASOPContent(content string) string {
	return core.WrapExceptions(content)
}

// Active reports whether the viewer is shown.
func (v *ASOPViewer) Active() bool { return v.active }

// Title returns the HTML title of what is being shown.
func (v *ASOPViewer) Title() string { return v.title }

// Preamble returns the chapter preamble HTML and its collapser.
func (v *ASOPViewer) Preamble() (string, *Collapser) { return v.text, v.preamble }

// Sections returns the HTML of the sections being shown. A section still
// being fetched is empty.
func (v *ASOPViewer) Sections() []string { return v.sections }

// ChapterID returns the id of the chapter being shown, or "intro".
func (v *ASOPViewer) ChapterID() string { return v.chapterID }

// Single reports whether a single section, rather than a whole chapter, is shown.
func (v *ASOPViewer) Single() bool { return v.single }

// Overrides returns the search-highlighted section cache.
func (v *ASOPViewer) Overrides() *SectionOverrides { return v.overrides }

// Close detaches the viewer from the bus.
func (v *ASOPViewer) Close() { v.subs.close() }
