package core

// ASOP is the Advanced Sequence of Play: chapters split into sections.
type ASOP struct {
	Chapters []ASOPChapter `json:"chapters,omitempty"`
}

// ASOPChapter is one phase of the sequence of play.
type ASOPChapter struct {
	ChapterID   string        `json:"chapter_id"`
	Caption     string        `json:"caption"`
	Preamble    string        `json:"preamble,omitempty"`
	Sections    []ASOPSection `json:"sections,omitempty"`
	SniperPhase bool          `json:"sniper_phase,omitempty"`
}

// ASOPSection is a section of an ASOP chapter. Its id has the form "<chapterId>-<n>".
type ASOPSection struct {
	SectionID string `json:"section_id"`
	Caption   string `json:"caption"`
}
