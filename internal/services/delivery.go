package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/dvanheule/comptoir/internal/models"
)

// NextDeliveryDate computes the earliest valid delivery date from now:
// the date must fall on an allowed weekday and lie at least offsetDays
// ahead, plus one extra day when the current time is already past the
// cutoff. The result is normalized to local midnight so it serializes
// as a plain calendar date.
//
// ok is false when the allowed set is empty: no delivery can be
// scheduled and callers must not fall back to a guessed date.
func NextDeliveryDate(now time.Time, allowed models.WeekdaySet, cutoff string, offsetDays int) (time.Time, bool) {
	if allowed.Empty() {
		return time.Time{}, false
	}
	if offsetDays < 0 {
		offsetDays = 0
	}

	candidate := midnight(now).AddDate(0, 0, offsetDays)
	if h, m, ok := parseCutoff(cutoff); ok {
		nowMinutes := now.Hour()*60 + now.Minute()
		if nowMinutes >= h*60+m {
			candidate = candidate.AddDate(0, 0, 1)
		}
	}

	// Weekdays repeat weekly, so at most 7 steps.
	for i := 0; i < 7; i++ {
		if allowed.Contains(candidate.Weekday()) {
			return candidate, true
		}
		candidate = candidate.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseCutoff parses "HH:MM". An unparseable cutoff is ignored (no
// extra shift) rather than guessed.
func parseCutoff(s string) (hour, minute int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
