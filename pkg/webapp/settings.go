package webapp

import (
	"strings"

	"github.com/ksysoev/rulebook/pkg/core"
)

// Settings are the user's preferences for one session.
type Settings struct {
	hidden map[string]bool
}

// NewSettings creates settings with everything at its default.
func NewSettings() *Settings {
	return &Settings{hidden: make(map[string]bool)}
}

// settingKey returns the name a search result filter is stored under,
// e.g. HIDE_ASOP_ENTRY_SR.
func settingKey(t core.SRType) string {
	return "HIDE_" + strings.ToUpper(strings.ReplaceAll(string(t), "-", "_")) + "_SR"
}

// HideSR reports whether the user hid results of the given type.
func (s *Settings) HideSR(t core.SRType) bool {
	return s.hidden[settingKey(t)]
}

// SetHideSR records whether results of the given type are hidden.
func (s *Settings) SetHideSR(t core.SRType, hide bool) {
	s.hidden[settingKey(t)] = hide
}

// Values returns the settings as name/value pairs.
func (s *Settings) Values() map[string]bool {
	out := make(map[string]bool, len(s.hidden))
	for k, v := range s.hidden {
		out[k] = v
	}

	return out
}
