package policy

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// WeekPolicy is the per-weekday override document stored for a region.
// Absent fields fall back to the default Monday-Friday calendar.
type WeekPolicy struct {
	Mon *bool         `json:"mon,omitempty"`
	Tue *bool         `json:"tue,omitempty"`
	Wed *bool         `json:"wed,omitempty"`
	Thu *bool         `json:"thu,omitempty"`
	Fri *bool         `json:"fri,omitempty"`
	Sat *SaturdayRule `json:"sat,omitempty"`
	Sun *bool         `json:"sun,omitempty"`
}

// SaturdayRule is either a plain boolean or a set of ordinal labels such as
// "1st,3rd", meaning the region works only those Saturdays of the month.
type SaturdayRule struct {
	Working  *bool
	Ordinals []string
}

func (s *SaturdayRule) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		s.Working = &b
		s.Ordinals = nil
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Working = nil
		s.Ordinals = splitOrdinals(str)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		s.Working = nil
		s.Ordinals = normalizeOrdinals(list)
		return nil
	}

	return fmt.Errorf("saturday rule must be a boolean, a label string, or a label list")
}

func (s SaturdayRule) MarshalJSON() ([]byte, error) {
	if s.Working != nil {
		return json.Marshal(*s.Working)
	}
	return json.Marshal(s.Ordinals)
}

// Contains reports whether the ordinal label (e.g. "3rd") is in the rule set.
func (s SaturdayRule) Contains(label string) bool {
	for _, o := range s.Ordinals {
		if o == label {
			return true
		}
	}
	return false
}

func splitOrdinals(raw string) []string {
	return normalizeOrdinals(strings.Split(raw, ","))
}

func normalizeOrdinals(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// WorkweekPolicy binds a region code to its weekday overrides.
type WorkweekPolicy struct {
	ID        string
	Region    string
	Week      WeekPolicy
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Holiday is one calendar entry. Region is nil for global holidays; a
// region-specific entry wins over a global one on the same date.
type Holiday struct {
	ID             string
	Date           time.Time
	Name           string
	IsPaid         bool
	Region         *string
	RecursAnnually bool
	CreatedAt      time.Time
}
