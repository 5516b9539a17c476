// Package classifier decides the direction of raw terminal punches.
//
// Terminals report an undirected stream of scans; the direction of each
// punch is derived from the employee's previous accepted punch and, when
// configured, their shift window. The classifier is pure: callers own the
// per-employee state and apply the returned direction to it.
package classifier

import (
	"time"

	"github.com/Palindrome-NT/attendance-logs-script/internal/models"
)

// DedupWindow is the spacing under which two punches for the same employee
// are considered one physical scan. Terminal firmware may emit several
// records per scan.
const DedupWindow = 30 * time.Second

// IsDuplicate reports whether punch falls within the dedup window of the
// employee's last accepted punch. A nil prior never dedupes.
func IsDuplicate(punch models.RawPunch, prior *models.LogState) bool {
	if prior == nil {
		return false
	}
	return punch.Timestamp.Sub(prior.LogTime) <= DedupWindow
}

// Classify returns the direction for punch given the employee's prior
// accepted state and shift configuration. Either pointer may be nil: no
// prior state means a fresh tracking window, no config means the default
// alternation rules. The function is total; it never fails.
func Classify(punch models.RawPunch, prior *models.LogState, cfg *models.ShiftConfig) models.Direction {
	if prior == nil {
		// First observed punch for this employee is always an entry.
		return models.DirectionIn
	}

	if cfg == nil || !cfg.SpansMidnight {
		// A new calendar day restarts the cycle; within a day punches
		// alternate.
		if newCalendarDay(punch.Timestamp, prior.LogTime) {
			return models.DirectionIn
		}
		return prior.Direction.Opposite()
	}

	// Midnight-spanning shift: date comparison is meaningless across the
	// boundary, so resolve the shift window the prior punch belongs to and
	// test both punches against it.
	lo, hi := resolveShiftWindow(prior.LogTime, cfg)
	priorInShift := inWindow(prior.LogTime, lo, hi)
	currentInShift := inWindow(punch.Timestamp, lo, hi)

	switch {
	case priorInShift && !currentInShift:
		// Prior shift ended; this punch starts a new one.
		return models.DirectionIn
	case currentInShift:
		return prior.Direction.Opposite()
	default:
		// Neither punch falls in a resolvable window. Treat as a new shift.
		return models.DirectionIn
	}
}

// resolveShiftWindow returns the midnight-spanning window containing the
// prior punch: [priorDate start, priorDate+1 end], or, when the prior punch
// is not inside that, [priorDate-1 start, priorDate end]. The fallback
// window is returned even when the prior punch lies in neither.
func resolveShiftWindow(prior time.Time, cfg *models.ShiftConfig) (time.Time, time.Time) {
	lo := combine(prior, 0, cfg.Start)
	hi := combine(prior, 1, cfg.End)
	if inWindow(prior, lo, hi) {
		return lo, hi
	}
	return combine(prior, -1, cfg.Start), combine(prior, 0, cfg.End)
}

// inWindow tests t against a window with inclusive bounds.
func inWindow(t, lo, hi time.Time) bool {
	return !t.Before(lo) && !t.After(hi)
}

// combine places a clock-only value on t's calendar date shifted by days.
func combine(t time.Time, days int, clock time.Time) time.Time {
	return time.Date(
		t.Year(), t.Month(), t.Day()+days,
		clock.Hour(), clock.Minute(), clock.Second(), 0,
		t.Location(),
	)
}

// newCalendarDay reports whether cur falls on a later calendar date than
// prev on the same timeline.
func newCalendarDay(cur, prev time.Time) bool {
	return dateOnly(cur).After(dateOnly(prev))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
