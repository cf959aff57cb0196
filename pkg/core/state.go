package core

// AppState is the application data loaded at startup. Values are never
// mutated in place: each With* method returns a new state, so a component
// holding an older state keeps a consistent view of it.
type AppState struct {
	Config    *AppConfig
	Targets   *TargetIndex
	Resources *ChapterResources
	Footnotes FootnoteIndex
	ASOP      *ASOP
	docs      []ContentDoc
	docsByID  map[string]int
}

// NewAppState returns an empty state. Lookups on it find nothing.
func NewAppState() *AppState {
	return &AppState{
		Targets:   BuildTargetIndex(nil),
		Resources: BuildChapterResources(nil),
	}
}

func (s *AppState) clone() *AppState {
	if s == nil {
		return NewAppState()
	}

	cp := *s

	return &cp
}

// WithConfig returns a copy of the state carrying cfg.
func (s *AppState) WithConfig(cfg *AppConfig) *AppState {
	cp := s.clone()
	cp.Config = cfg

	return cp
}

// WithContentDocs returns a copy of the state carrying docs, with the target
// index and chapter resources rebuilt from them.
func (s *AppState) WithContentDocs(docs []ContentDoc) *AppState {
	cp := s.clone()
	cp.docs = make([]ContentDoc, len(docs))
	copy(cp.docs, docs)

	cp.docsByID = make(map[string]int, len(docs))
	for i, d := range cp.docs {
		if _, ok := cp.docsByID[d.CDocID]; !ok {
			cp.docsByID[d.CDocID] = i
		}
	}

	cp.Targets = BuildTargetIndex(cp.docs)
	cp.Resources = BuildChapterResources(cp.docs)

	return cp
}

// WithFootnotes returns a copy of the state carrying the footnote index.
func (s *AppState) WithFootnotes(fi FootnoteIndex) *AppState {
	cp := s.clone()
	cp.Footnotes = fi

	return cp
}

// WithASOP returns a copy of the state carrying the ASOP.
func (s *AppState) WithASOP(asop *ASOP) *AppState {
	cp := s.clone()
	cp.ASOP = asop

	return cp
}

// ContentDocs returns the content docs in registration order.
func (s *AppState) ContentDocs() []ContentDoc {
	if s == nil {
		return nil
	}

	return s.docs
}

// ContentDoc returns the content doc with the given id.
func (s *AppState) ContentDoc(cdocID string) (*ContentDoc, bool) {
	if s == nil {
		return nil, false
	}

	i, ok := s.docsByID[cdocID]
	if !ok {
		return nil, false
	}

	return &s.docs[i], true
}

// ASOPChapter returns the ASOP chapter with the given id.
func (s *AppState) ASOPChapter(chapterID string) (*ASOPChapter, bool) {
	if s == nil || s.ASOP == nil {
		return nil, false
	}

	for i := range s.ASOP.Chapters {
		if s.ASOP.Chapters[i].ChapterID == chapterID {
			return &s.ASOP.Chapters[i], true
		}
	}

	return nil, false
}

// ASOPSection returns the ASOP section with the given id and the chapter that owns it.
func (s *AppState) ASOPSection(sectionID string) (*ASOPChapter, *ASOPSection, bool) {
	chapterID, ok := ASOPChapterIDFromSectionID(sectionID)
	if !ok {
		return nil, nil, false
	}

	chapter, ok := s.ASOPChapter(chapterID)
	if !ok {
		return nil, nil, false
	}

	for i := range chapter.Sections {
		if chapter.Sections[i].SectionID == sectionID {
			return chapter, &chapter.Sections[i], true
		}
	}

	return chapter, nil, false
}

// HasASOP reports whether an ASOP with at least one chapter is loaded.
func (s *AppState) HasASOP() bool {
	return s != nil && s.ASOP != nil && len(s.ASOP.Chapters) > 0
}
