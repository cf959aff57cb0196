package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultCollapsibleThreshold is the text length at which a collapser becomes active.
	DefaultCollapsibleThreshold = 100
	// DefaultCollapsibleHeight is the height, in pixels, of a collapsed region.
	DefaultCollapsibleHeight = 50
)

// AppConfig holds the settings and feature flags the backend publishes to the front end.
type AppConfig struct {
	Capabilities            map[string]bool `json:"capabilities,omitempty"`
	InitialQueryString      string          `json:"INITIAL_QUERY_STRING,omitempty"`
	DisableAutoShowRuleInfo Flag            `json:"WEBAPP_DISABLE_AUTO_SHOW_RULE_INFO,omitempty"`
	CollapsibleThreshold    int             `json:"WEBAPP_COLLAPSIBLE_THRESHOLD,omitempty"`
	CollapsibleHeight       int             `json:"WEBAPP_COLLAPSIBLE_HEIGHT,omitempty"`
}

// HasCapability reports whether the backend advertises a capability.
func (c *AppConfig) HasCapability(name string) bool {
	if c == nil {
		return false
	}

	return c.Capabilities[name]
}

// Threshold returns the collapsible threshold, falling back to the default.
func (c *AppConfig) Threshold() int {
	if c == nil || c.CollapsibleThreshold <= 0 {
		return DefaultCollapsibleThreshold
	}

	return c.CollapsibleThreshold
}

// Height returns the collapsed height, falling back to the default.
func (c *AppConfig) Height() int {
	if c == nil || c.CollapsibleHeight <= 0 {
		return DefaultCollapsibleHeight
	}

	return c.CollapsibleHeight
}

// Flag is a boolean setting that tolerates the loose encodings config files
// produce: true/false, 0/1, or strings such as "yes".
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = n != 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid flag value %s", data)
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "off":
		*f = false
	default:
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*f = v != 0
			return nil
		}

		*f = true
	}

	return nil
}

// Footnote is a footnote attached to one or more ruleids of a content doc.
type Footnote struct {
	FootnoteID string            `json:"footnote_id,omitempty"`
	Content    string            `json:"content"`
	Captions   []FootnoteCaption `json:"captions,omitempty"`
}

// FootnoteCaption names a ruleid a footnote refers to.
type FootnoteCaption struct {
	Ruleid  string `json:"ruleid"`
	Caption string `json:"caption"`
}

// FootnoteIndex maps cdoc id, then ruleid, to the footnotes for that ruleid.
type FootnoteIndex map[string]map[string][]Footnote

// Lookup returns the footnotes for a ruleid in a content doc.
func (fi FootnoteIndex) Lookup(cdocID, ruleid string) []Footnote {
	return fi[cdocID][ruleid]
}

// StartupMsgs are the messages the backend collected while starting up.
type StartupMsgs struct {
	Info    []StartupMsg `json:"info,omitempty"`
	Warning []StartupMsg `json:"warning,omitempty"`
	Error   []StartupMsg `json:"error,omitempty"`
}

// StartupMsg is a message with optional detail. On the wire it is either a
// string or a [message, detail] pair.
type StartupMsg struct {
	Text   string
	Detail string
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *StartupMsg) UnmarshalJSON(data []byte) error {
	*m = StartupMsg{}

	if err := json.Unmarshal(data, &m.Text); err == nil {
		return nil
	}

	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid startup message: %w", err)
	}

	if len(pair) > 0 {
		m.Text = pair[0]
	}

	if len(pair) > 1 {
		m.Detail = pair[1]
	}

	return nil
}
