package schedule

import (
	"errors"
	"testing"

	"github.com/iliyamo/cinema-booking/internal/model"
)

func mkShow(id uint64, day string, room int, begin, end string) model.ShowSchedule {
	return model.ShowSchedule{
		ID:        id,
		FilmID:    1,
		ShowDay:   day,
		BeginTime: begin,
		EndTime:   end,
		Room:      room,
		IsActive:  true,
	}
}

func TestEndTimeDerivation(t *testing.T) {
	begin, err := ParseClock("10:00:00")
	if err != nil {
		t.Fatalf("ParseClock failed: %v", err)
	}
	end, err := EndTime(begin)
	if err != nil {
		t.Fatalf("EndTime failed: %v", err)
	}
	if got := FormatClock(end); got != "12:00:00" {
		t.Errorf("expected end 12:00:00, got %s", got)
	}
}

func TestEndTimeRejectsCrossMidnight(t *testing.T) {
	begin, err := ParseClock("22:30:00")
	if err != nil {
		t.Fatalf("ParseClock failed: %v", err)
	}
	if _, err := EndTime(begin); !errors.Is(err, ErrCrossesMidnight) {
		t.Errorf("expected ErrCrossesMidnight, got %v", err)
	}

	// 22:00 exactly would end at midnight, which a TIME column stores
	// as 00:00:00 and the overlap scan would read back inverted, so it
	// is rejected too.
	begin, _ = ParseClock("22:00:00")
	if _, err := EndTime(begin); !errors.Is(err, ErrCrossesMidnight) {
		t.Errorf("22:00 start must be rejected, got %v", err)
	}

	// 21:59 is the last start whose end still fits the day.
	begin, _ = ParseClock("21:59:00")
	end, err := EndTime(begin)
	if err != nil {
		t.Fatalf("21:59 start should be allowed, got %v", err)
	}
	if got := FormatClock(end); got != "23:59:00" {
		t.Errorf("expected end 23:59:00, got %s", got)
	}
}

func TestProposeRejectsMidnightStartRoundTrip(t *testing.T) {
	// No accepted proposal may ever store an interval the scan cannot
	// read back: a 22:00 start is refused outright, so a later 21:00
	// proposal only has well-formed rows to check against.
	if _, err := Propose(nil, "2026-09-01", 1, "22:00:00", 0); !errors.Is(err, ErrCrossesMidnight) {
		t.Fatalf("expected ErrCrossesMidnight for 22:00 start, got %v", err)
	}

	end, err := Propose(nil, "2026-09-01", 1, "21:59:00", 0)
	if err != nil {
		t.Fatalf("21:59 start should be accepted, got %v", err)
	}
	existing := []model.ShowSchedule{mkShow(1, "2026-09-01", 1, "21:59:00", end)}

	// 21:00 falls inside the stored [21:59, 23:59) interval.
	_, err = Propose(existing, "2026-09-01", 1, "21:00:00", 0)
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError against the stored late show, got %v", err)
	}
}

func TestFindConflictHandlesWrappedEndTime(t *testing.T) {
	// Rows written before the midnight cutoff may hold end 00:00:00.
	// Such a row must still block its slot, not vanish from the scan.
	legacy := []model.ShowSchedule{mkShow(3, "2026-09-01", 1, "22:00:00", "00:00:00")}

	_, err := Propose(legacy, "2026-09-01", 1, "21:00:00", 0)
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError against wrapped row, got %v", err)
	}
	if ce.Existing.ID != 3 {
		t.Errorf("conflict should name show 3, got %d", ce.Existing.ID)
	}
}

func TestProposeFailsOnMalformedStoredTimes(t *testing.T) {
	broken := []model.ShowSchedule{mkShow(5, "2026-09-01", 1, "not-a-time", "12:00:00")}

	// A row the scan cannot parse must surface as an error, never free
	// up its slot.
	if _, err := Propose(broken, "2026-09-01", 1, "10:00:00", 0); err == nil {
		t.Fatal("expected error for malformed stored begin time")
	}
}

func TestProposeRejectsOverlap(t *testing.T) {
	existing := []model.ShowSchedule{
		mkShow(1, "2026-09-01", 2, "10:00:00", "12:00:00"),
	}

	// 11:00 falls inside [10:00, 12:00) in the same room and day.
	_, err := Propose(existing, "2026-09-01", 2, "11:00:00", 0)
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ce.Existing.ID != 1 {
		t.Errorf("conflict should name show 1, got %d", ce.Existing.ID)
	}
}

func TestProposeAllowsBackToBack(t *testing.T) {
	existing := []model.ShowSchedule{
		mkShow(1, "2026-09-01", 2, "10:00:00", "12:00:00"),
	}

	end, err := Propose(existing, "2026-09-01", 2, "12:00:00", 0)
	if err != nil {
		t.Fatalf("back-to-back show should be accepted, got %v", err)
	}
	if end != "14:00:00" {
		t.Errorf("expected derived end 14:00:00, got %s", end)
	}
}

func TestProposeIgnoresOtherRoomAndDay(t *testing.T) {
	existing := []model.ShowSchedule{
		mkShow(1, "2026-09-01", 2, "10:00:00", "12:00:00"),
	}

	if _, err := Propose(existing, "2026-09-01", 3, "10:00:00", 0); err != nil {
		t.Errorf("same slot in another room should be free, got %v", err)
	}
	if _, err := Propose(existing, "2026-09-02", 2, "10:00:00", 0); err != nil {
		t.Errorf("same slot on another day should be free, got %v", err)
	}
}

func TestProposeIgnoresInactiveShows(t *testing.T) {
	inactive := mkShow(1, "2026-09-01", 2, "10:00:00", "12:00:00")
	inactive.IsActive = false

	if _, err := Propose([]model.ShowSchedule{inactive}, "2026-09-01", 2, "10:30:00", 0); err != nil {
		t.Errorf("inactive shows must not conflict, got %v", err)
	}
}

func TestProposeExcludesSelfOnUpdate(t *testing.T) {
	existing := []model.ShowSchedule{
		mkShow(7, "2026-09-01", 2, "10:00:00", "12:00:00"),
	}

	// Re-saving show 7 into its own slot must not conflict with itself.
	if _, err := Propose(existing, "2026-09-01", 2, "10:00:00", 7); err != nil {
		t.Errorf("update must exclude the edited show, got %v", err)
	}

	// But moving another show into that slot still conflicts.
	if _, err := Propose(existing, "2026-09-01", 2, "10:00:00", 8); err == nil {
		t.Error("expected conflict for a different show in the same slot")
	}
}

func TestPairwiseDisjointAfterSequence(t *testing.T) {
	// Any sequence of accepted proposals keeps [begin, end) intervals
	// pairwise disjoint per room and day.
	var shows []model.ShowSchedule
	var nextID uint64 = 1
	attempts := []struct {
		day   string
		room  int
		begin string
	}{
		{"2026-09-01", 1, "10:00:00"},
		{"2026-09-01", 1, "12:00:00"},
		{"2026-09-01", 1, "11:00:00"}, // rejected
		{"2026-09-01", 2, "11:00:00"},
		{"2026-09-01", 1, "14:00:00"},
		{"2026-09-01", 1, "13:30:00"}, // rejected
	}
	for _, a := range attempts {
		end, err := Propose(shows, a.day, a.room, a.begin, 0)
		if err != nil {
			continue
		}
		shows = append(shows, mkShow(nextID, a.day, a.room, a.begin, end))
		nextID++
	}
	if len(shows) != 4 {
		t.Fatalf("expected 4 accepted shows, got %d", len(shows))
	}
	for i := range shows {
		for j := i + 1; j < len(shows); j++ {
			a, b := shows[i], shows[j]
			if a.ShowDay != b.ShowDay || a.Room != b.Room {
				continue
			}
			ab, _ := ParseClock(a.BeginTime)
			ae, _ := ParseClock(a.EndTime)
			bb, _ := ParseClock(b.BeginTime)
			be, _ := ParseClock(b.EndTime)
			if Overlaps(ab, ae, bb, be) {
				t.Errorf("shows %d and %d overlap in room %d", a.ID, b.ID, a.Room)
			}
		}
	}
}
