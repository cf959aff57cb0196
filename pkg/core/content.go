// Package core provides the rulebook data model and the pure lookup helpers
// built on top of it: the target index, chapter resources, ruleid parsing and
// search highlight handling.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ContentDoc is one browsable document, e.g. a rulebook PDF.
type ContentDoc struct {
	CDocID       string       `json:"cdoc_id"`
	Title        string       `json:"title"`
	URL          string       `json:"url,omitempty"`
	ParentCSetID string       `json:"parent_cset_id,omitempty"`
	Targets      []TargetInfo `json:"-"`
	Chapters     []Chapter    `json:"chapters,omitempty"`
}

// TargetInfo describes a ruleid that can be jumped to inside a content doc.
type TargetInfo struct {
	Ruleid  string `json:"ruleid"`
	Caption string `json:"caption,omitempty"`
	PageNo  int    `json:"page_no,omitempty"`
}

// Chapter is a chapter of a content doc, shown as a pane in the chapters accordion.
type Chapter struct {
	Icon       OptionalString `json:"-"`
	Background OptionalString `json:"-"`
	ChapterID  string         `json:"chapter_id"`
	Title      string         `json:"title"`
	Sections   []ChapterEntry `json:"sections,omitempty"`
	PageNo     int            `json:"page_no,omitempty"`
}

// ChapterEntry is one line in a chapter pane. It either points at a ruleid or at a page.
type ChapterEntry struct {
	Caption string `json:"caption"`
	Ruleid  string `json:"ruleid,omitempty"`
	PageNo  int    `json:"page_no,omitempty"`
}

// OptionalString distinguishes a key that was absent from the payload (Set is false)
// from one that was present, possibly with a JSON null (Set is true, Value is empty).
type OptionalString struct {
	Value string
	Set   bool
}

// UnmarshalJSON decodes a content doc, keeping the payload order of its targets.
func (d *ContentDoc) UnmarshalJSON(data []byte) error {
	type contentDocAlias ContentDoc

	var aux struct {
		contentDocAlias
		Targets json.RawMessage `json:"targets"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("failed to decode content doc: %w", err)
	}

	*d = ContentDoc(aux.contentDocAlias)
	d.Targets = nil

	err := decodeOrderedObject(aux.Targets, func(ruleid string, raw json.RawMessage) error {
		info, err := decodeTargetInfo(raw)
		if err != nil {
			return fmt.Errorf("target %s: %w", ruleid, err)
		}

		info.Ruleid = ruleid
		d.Targets = append(d.Targets, info)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to decode targets of %s: %w", d.CDocID, err)
	}

	return nil
}

// decodeTargetInfo accepts either a bare caption string or an object with caption and page_no.
func decodeTargetInfo(raw json.RawMessage) (TargetInfo, error) {
	var info TargetInfo

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return info, nil
	}

	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &info.Caption); err != nil {
			return info, err
		}

		return info, nil
	}

	if err := json.Unmarshal(raw, &info); err != nil {
		return info, err
	}

	return info, nil
}

// UnmarshalJSON decodes a chapter and records which optional resources were present.
func (c *Chapter) UnmarshalJSON(data []byte) error {
	type chapterAlias Chapter

	var alias chapterAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return fmt.Errorf("failed to decode chapter: %w", err)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("failed to decode chapter: %w", err)
	}

	*c = Chapter(alias)

	var err error

	if c.Icon, err = optionalString(keys, "icon"); err != nil {
		return fmt.Errorf("chapter %s: %w", c.ChapterID, err)
	}

	if c.Background, err = optionalString(keys, "background"); err != nil {
		return fmt.Errorf("chapter %s: %w", c.ChapterID, err)
	}

	return nil
}

func optionalString(keys map[string]json.RawMessage, key string) (OptionalString, error) {
	raw, ok := keys[key]
	if !ok {
		return OptionalString{}, nil
	}

	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return OptionalString{}, fmt.Errorf("invalid %s: %w", key, err)
	}

	opt := OptionalString{Set: true}
	if s != nil {
		opt.Value = *s
	}

	return opt, nil
}

// DecodeContentDocs decodes the content-docs payload, a JSON object keyed by
// cdoc id, preserving the order in which the documents appear.
func DecodeContentDocs(data []byte) ([]ContentDoc, error) {
	var docs []ContentDoc

	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var doc ContentDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}

		if doc.CDocID == "" {
			doc.CDocID = key
		}

		docs = append(docs, doc)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode content docs: %w", err)
	}

	return docs, nil
}

// decodeOrderedObject walks the members of a JSON object in document order.
// An empty input or a JSON null is treated as an empty object.
func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if tok == nil {
		return nil
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read JSON key: %w", err)
		}

		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected JSON key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to read JSON value for %s: %w", key, err)
		}

		if err := fn(key, raw); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	return nil
}
