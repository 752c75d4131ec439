package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// NullTime is an optional timestamp that also remembers whether the key
// was present in the decoded JSON at all. Null and "" both decode to a
// present-but-empty value.
type NullTime struct {
	Time  time.Time
	Valid bool
	Set   bool
}

// NewNullTime returns a present, valid NullTime.
func NewNullTime(t time.Time) NullTime {
	return NullTime{Time: t, Valid: true, Set: true}
}

// Ptr returns the time as a pointer, nil when empty.
func (n NullTime) Ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

func (n *NullTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	n.Valid = false
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	n.Time = t
	n.Valid = true
	return nil
}

func (n NullTime) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Time)
}

// ParseDate accepts full ISO-8601 timestamps as well as the shorter forms
// produced by HTML date inputs.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
