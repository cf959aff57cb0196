package core

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// SRType is the sr_type discriminator of a search result.
type SRType string

const (
	SRIndex     SRType = "index"
	SRQA        SRType = "qa"
	SRErrata    SRType = "errata"
	SRUserAnno  SRType = "user-anno"
	SRASOPEntry SRType = "asop-entry"
)

// FilterableSRTypes lists the result types the user can show or hide, in display order.
var FilterableSRTypes = []SRType{SRIndex, SRQA, SRErrata, SRASOPEntry}

// Capability returns the backend capability that has to be enabled for
// results of this type to exist.
func (t SRType) Capability() string {
	switch t {
	case SRIndex:
		return "content-sets"
	case SRASOPEntry:
		return "asop"
	default:
		return string(t)
	}
}

// SearchResult is one entry returned by the search endpoint.
type SearchResult interface {
	// Type returns the sr_type discriminator.
	Type() SRType
	// Hilite converts the highlight markers in every text field into spans.
	Hilite()
	searchResult()
}

// Ruleref is a cross-reference listed under an index entry.
type Ruleref struct {
	Caption string   `json:"caption,omitempty"`
	Ruleids []string `json:"ruleids,omitempty"`
}

// IndexSR is a hit in a content set's index.
type IndexSR struct {
	Title    *string   `json:"title,omitempty"`
	Subtitle *string   `json:"subtitle,omitempty"`
	Content  *string   `json:"content,omitempty"`
	CSetID   string    `json:"cset_id,omitempty"`
	Ruleids  []string  `json:"ruleids,omitempty"`
	SeeAlso  []string  `json:"see_also,omitempty"`
	Rulerefs []Ruleref `json:"rulerefs,omitempty"`
}

// QASR is a Q+A entry that matched the query.
type QASR struct {
	QAEntry
}

// AnnotationSR is an erratum or user annotation that matched the query.
type AnnotationSR struct {
	Annotation
}

// ASOPEntrySR is an ASOP section that matched the query.
type ASOPEntrySR struct {
	SectionID string `json:"section_id"`
	Caption   string `json:"caption,omitempty"`
	Content   string `json:"content"`
}

// UnknownSR stands in for a result with an unrecognized sr_type.
type UnknownSR struct {
	SRType SRType
}

func (*IndexSR) searchResult()      {}
func (*QASR) searchResult()         {}
func (*AnnotationSR) searchResult() {}
func (*ASOPEntrySR) searchResult()  {}
func (*UnknownSR) searchResult()    {}

// Type implements SearchResult.
func (*IndexSR) Type() SRType { return SRIndex }

// Type implements SearchResult.
func (*QASR) Type() SRType { return SRQA }

// Type implements SearchResult.
func (sr *AnnotationSR) Type() SRType { return SRType(sr.Kind) }

// Type implements SearchResult.
func (*ASOPEntrySR) Type() SRType { return SRASOPEntry }

// Type implements SearchResult.
func (sr *UnknownSR) Type() SRType { return sr.SRType }

// Hilite implements SearchResult.
func (sr *IndexSR) Hilite() {
	sr.Title = FixupSearchHilites(sr.Title)
	sr.Subtitle = FixupSearchHilites(sr.Subtitle)
	sr.Content = FixupSearchHilites(sr.Content)
}

// Hilite implements SearchResult.
func (sr *QASR) Hilite() {
	for i := range sr.Content {
		c := &sr.Content[i]
		c.Question = FixupSearchHilites(c.Question)

		for j := range c.Answers {
			c.Answers[j].HTML = fixupHilites(c.Answers[j].HTML)
		}
	}
}

// Hilite implements SearchResult.
func (sr *AnnotationSR) Hilite() {
	sr.Content = fixupHilites(sr.Content)
}

// Hilite implements SearchResult.
func (sr *ASOPEntrySR) Hilite() {
	sr.Content = fixupHilites(sr.Content)
}

// Hilite implements SearchResult. An unknown result has nothing to highlight.
func (*UnknownSR) Hilite() {}

// SearchError is the {"error": "..."} body the search endpoint returns on failure.
type SearchError struct {
	Message string
}

func (e *SearchError) Error() string {
	if e.Message == "" {
		return "Unknown error."
	}

	return e.Message
}

// DecodeSearchResults decodes a search response. A response of the form
// {"error": ...} is returned as a *SearchError; an error value that is not a
// string gives the generic message.
func DecodeSearchResults(data []byte) ([]SearchResult, error) {
	var errResp map[string]json.RawMessage

	if err := json.Unmarshal(data, &errResp); err == nil {
		raw, ok := errResp["error"]
		if !ok {
			return nil, fmt.Errorf("unexpected search response: not a list")
		}

		searchErr := &SearchError{}
		_ = json.Unmarshal(raw, &searchErr.Message)

		return nil, searchErr
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	out := make([]SearchResult, 0, len(raws))

	for i, raw := range raws {
		var head struct {
			SRType SRType `json:"sr_type"`
		}

		if err := json.Unmarshal(raw, &head); err != nil {
			return nil, fmt.Errorf("failed to decode search result %d: %w", i, err)
		}

		sr, err := decodeSearchResult(head.SRType, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode search result %d: %w", i, err)
		}

		out = append(out, sr)
	}

	return out, nil
}

func decodeSearchResult(t SRType, raw json.RawMessage) (SearchResult, error) {
	switch t {
	case SRIndex:
		var sr IndexSR
		if err := json.Unmarshal(raw, &sr); err != nil {
			return nil, err
		}

		return &sr, nil
	case SRQA:
		var sr QASR
		if err := json.Unmarshal(raw, &sr.QAEntry); err != nil {
			return nil, err
		}

		return &sr, nil
	case SRErrata, SRUserAnno:
		sr := AnnotationSR{Annotation: Annotation{Kind: AnnotationKind(t)}}
		if err := json.Unmarshal(raw, &sr.Annotation); err != nil {
			return nil, err
		}

		return &sr, nil
	case SRASOPEntry:
		var sr ASOPEntrySR
		if err := json.Unmarshal(raw, &sr); err != nil {
			return nil, err
		}

		return &sr, nil
	default:
		slog.Warn("unknown search result type", "sr_type", t)
		return &UnknownSR{SRType: t}, nil
	}
}
