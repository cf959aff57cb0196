package core

import (
	"encoding/json"
	"fmt"
)

// RuleInfo is one entry of the popup shown for a target: a Q+A entry, an
// erratum or a user annotation. Unrecognized entries decode to UnknownRuleInfo.
type RuleInfo interface {
	// Tag returns the ri_type discriminator of the entry.
	Tag() string
	ruleInfo()
}

// AnnotationKind tells errata apart from user annotations.
type AnnotationKind string

const (
	AnnotationErrata AnnotationKind = "errata"
	AnnotationUser   AnnotationKind = "user-anno"
)

// QAEntry is a Q+A entry: a caption and one or more question/answers blocks.
type QAEntry struct {
	Caption string      `json:"caption"`
	Content []QAContent `json:"content"`
}

// QAContent is a question (absent for informational entries) with its answers.
type QAContent struct {
	Question *string    `json:"question,omitempty"`
	Image    string     `json:"image,omitempty"`
	SeeOther string     `json:"see_other,omitempty"`
	Answers  []QAAnswer `json:"answers,omitempty"`
}

// QAAnswer is an answer and the tag of its source. On the wire it is a
// two-element array [answerHtml, sourceTag].
type QAAnswer struct {
	HTML   string
	Source string
}

// Annotation is free-form content attached to a ruleid, either an erratum or a user note.
type Annotation struct {
	Kind    AnnotationKind `json:"-"`
	Ruleid  string         `json:"ruleid"`
	Content string         `json:"content"`
	Source  string         `json:"source,omitempty"`
}

// UnknownRuleInfo stands in for an entry with an unrecognized ri_type.
type UnknownRuleInfo struct {
	RIType string
}

func (*QAEntry) ruleInfo()         {}
func (*Annotation) ruleInfo()      {}
func (*UnknownRuleInfo) ruleInfo() {}

// Tag implements RuleInfo.
func (*QAEntry) Tag() string { return "qa" }

// Tag implements RuleInfo.
func (a *Annotation) Tag() string { return string(a.Kind) }

// Tag implements RuleInfo.
func (u *UnknownRuleInfo) Tag() string { return u.RIType }

// UnmarshalJSON decodes the [html, source] pair.
func (a *QAAnswer) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid Q+A answer: %w", err)
	}

	*a = QAAnswer{}

	if len(pair) > 0 {
		a.HTML = pair[0]
	}

	if len(pair) > 1 {
		a.Source = pair[1]
	}

	return nil
}

// MarshalJSON encodes the answer back into its [html, source] pair.
func (a QAAnswer) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{a.HTML, a.Source})
}

// DecodeRuleInfo decodes a rule-info response into its variants.
func DecodeRuleInfo(data []byte) ([]RuleInfo, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode rule info: %w", err)
	}

	out := make([]RuleInfo, 0, len(raws))

	for i, raw := range raws {
		var head struct {
			RIType string `json:"ri_type"`
		}

		if err := json.Unmarshal(raw, &head); err != nil {
			return nil, fmt.Errorf("failed to decode rule info entry %d: %w", i, err)
		}

		ri, err := decodeRuleInfoEntry(head.RIType, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode rule info entry %d: %w", i, err)
		}

		out = append(out, ri)
	}

	return out, nil
}

func decodeRuleInfoEntry(tag string, raw json.RawMessage) (RuleInfo, error) {
	switch tag {
	case "qa":
		var qa QAEntry
		if err := json.Unmarshal(raw, &qa); err != nil {
			return nil, err
		}

		return &qa, nil
	case string(AnnotationErrata), string(AnnotationUser):
		anno := Annotation{Kind: AnnotationKind(tag)}
		if err := json.Unmarshal(raw, &anno); err != nil {
			return nil, err
		}

		return &anno, nil
	default:
		return &UnknownRuleInfo{RIType: tag}, nil
	}
}
