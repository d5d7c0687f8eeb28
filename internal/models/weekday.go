package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday maps a lowercase English weekday name to time.Weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// WeekdaySet is the set of weekdays a client can receive deliveries on.
// Stored as a JSON array of lowercase names (["monday","wednesday"]).
type WeekdaySet []time.Weekday

// Contains reports whether d is in the set.
func (s WeekdaySet) Contains(d time.Weekday) bool {
	for _, w := range s {
		if w == d {
			return true
		}
	}
	return false
}

// Empty reports whether no weekday is allowed.
func (s WeekdaySet) Empty() bool { return len(s) == 0 }

// Names returns the lowercase names, in set order.
func (s WeekdaySet) Names() []string {
	out := make([]string, 0, len(s))
	for _, w := range s {
		out = append(out, strings.ToLower(w.String()))
	}
	return out
}

// ParseWeekdaySet builds a set from weekday names, skipping unknown ones
// and duplicates.
func ParseWeekdaySet(names []string) WeekdaySet {
	var s WeekdaySet
	for _, n := range names {
		if d, ok := ParseWeekday(n); ok && !s.Contains(d) {
			s = append(s, d)
		}
	}
	return s
}

// Value implements driver.Valuer.
func (s WeekdaySet) Value() (driver.Value, error) {
	b, err := json.Marshal(s.Names())
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *WeekdaySet) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("weekday set: unsupported column type")
	}
	if len(raw) == 0 {
		*s = nil
		return nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return err
	}
	*s = ParseWeekdaySet(names)
	return nil
}
