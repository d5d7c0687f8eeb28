package models

import (
	"testing"
	"time"
)

func TestParseWeekdaySet(t *testing.T) {
	s := ParseWeekdaySet([]string{"monday", " Friday ", "monday", "someday"})
	if len(s) != 2 {
		t.Fatalf("got %d days, want 2 (dedup, unknown skipped): %v", len(s), s.Names())
	}
	if !s.Contains(time.Monday) || !s.Contains(time.Friday) {
		t.Fatalf("set = %v", s.Names())
	}
	if s.Contains(time.Tuesday) {
		t.Fatal("Tuesday should not be in the set")
	}
}

func TestWeekdaySetNames(t *testing.T) {
	s := WeekdaySet{time.Tuesday, time.Friday}
	names := s.Names()
	if len(names) != 2 || names[0] != "tuesday" || names[1] != "friday" {
		t.Fatalf("names = %v", names)
	}
}

func TestWeekdaySetScanValue(t *testing.T) {
	orig := WeekdaySet{time.Wednesday, time.Saturday}
	v, err := orig.Value()
	if err != nil {
		t.Fatal(err)
	}
	var back WeekdaySet
	if err := back.Scan(v); err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 || !back.Contains(time.Wednesday) || !back.Contains(time.Saturday) {
		t.Fatalf("round trip = %v", back.Names())
	}

	var fromNil WeekdaySet
	if err := fromNil.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if !fromNil.Empty() {
		t.Fatalf("nil column gave %v", fromNil.Names())
	}
}
