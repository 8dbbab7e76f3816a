// Package schedule implements the show scheduling rules: the fixed
// show duration, the end-time derivation and the room/day overlap
// test.  The package is pure; persistence and locking live in the
// repository layer, which uses this package as its single source of
// truth for what counts as a conflict.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// ShowDuration is the fixed length of every screening.  End times are
// always BeginTime + ShowDuration and are never supplied by callers.
const ShowDuration = 2 * time.Hour

// beginCutoff is the first wall-clock start that no longer keeps the
// derived end time on the same calendar day.  A 22:00 start would end
// exactly at midnight, which the TIME column stores as 00:00:00 and
// the overlap scan would read back as an inverted interval, so the
// cutoff is exclusive: shows must begin strictly before it.
var beginCutoff = mustClock("22:00:00")

// ErrCrossesMidnight is returned when a proposed begin time plus the
// show duration would reach or roll over into the next calendar day.
var ErrCrossesMidnight = errors.New("show must start before 22:00")

// ConflictError reports that a proposed show overlaps an existing
// active show in the same room on the same day.
type ConflictError struct {
	Existing model.ShowSchedule
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("show %d already occupies room %d on %s from %s to %s",
		e.Existing.ID, e.Existing.Room, e.Existing.ShowDay,
		e.Existing.BeginTime, e.Existing.EndTime)
}

// clockLayout is the wall-clock format used by the TIME columns.
const clockLayout = "15:04:05"

// ParseClock parses a wall-clock time string.  Both "15:04:05" and
// the short "15:04" form are accepted.
func ParseClock(s string) (time.Time, error) {
	if t, err := time.Parse(clockLayout, s); err == nil {
		return t, nil
	}
	return time.Parse("15:04", s)
}

// FormatClock renders a wall-clock time in the DB TIME format.
func FormatClock(t time.Time) string { return t.Format(clockLayout) }

func mustClock(s string) time.Time {
	t, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return t
}

// EndTime derives the end of a show from its begin time.  It returns
// ErrCrossesMidnight when the computed end would reach midnight or
// beyond; the caller surfaces that as a validation error.
func EndTime(begin time.Time) (time.Time, error) {
	if !begin.Before(beginCutoff) {
		return time.Time{}, ErrCrossesMidnight
	}
	return begin.Add(ShowDuration), nil
}

// Overlaps is the half-open interval test: [aBegin, aEnd) and
// [bBegin, bEnd) overlap exactly when each begins before the other
// ends.  Back-to-back shows (aEnd == bBegin) do not overlap.
func Overlaps(aBegin, aEnd, bBegin, bEnd time.Time) bool {
	return aBegin.Before(bEnd) && bBegin.Before(aEnd)
}

// FindConflict scans existing shows for one that would collide with a
// candidate interval in the given room on the given day.  Inactive
// shows never conflict, and the show identified by excludeID is
// skipped so that an update does not conflict with itself (pass 0 on
// create).  A stored row with unparseable times is an error, never a
// free slot: this scan is the sole semantic guard under the row lock.
// It returns (nil, nil) when the slot is free.
func FindConflict(existing []model.ShowSchedule, day string, room int, begin, end time.Time, excludeID uint64) (*model.ShowSchedule, error) {
	for i := range existing {
		s := &existing[i]
		if !s.IsActive || s.ID == excludeID {
			continue
		}
		if s.ShowDay != day || s.Room != room {
			continue
		}
		sb, err := ParseClock(s.BeginTime)
		if err != nil {
			return nil, fmt.Errorf("stored show %d has malformed begin time %q: %w", s.ID, s.BeginTime, err)
		}
		se, err := ParseClock(s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("stored show %d has malformed end time %q: %w", s.ID, s.EndTime, err)
		}
		// A row written before the midnight cutoff existed may carry an
		// end at or past midnight, stored as a smaller clock value.
		// Restore the ordering so the row still blocks its slot.
		if !se.After(sb) {
			se = se.Add(24 * time.Hour)
		}
		if Overlaps(begin, end, sb, se) {
			return s, nil
		}
	}
	return nil, nil
}

// Propose validates a candidate slot against existing shows and, when
// it is free, returns the derived end time.  It is the contract of
// the conflict checker: EndTime policy first, then the overlap scan.
func Propose(existing []model.ShowSchedule, day string, room int, beginClock string, excludeID uint64) (string, error) {
	begin, err := ParseClock(beginClock)
	if err != nil {
		return "", fmt.Errorf("invalid begin time %q: %w", beginClock, err)
	}
	end, err := EndTime(begin)
	if err != nil {
		return "", err
	}
	c, err := FindConflict(existing, day, room, begin, end, excludeID)
	if err != nil {
		return "", err
	}
	if c != nil {
		return "", &ConflictError{Existing: *c}
	}
	return FormatClock(end), nil
}
