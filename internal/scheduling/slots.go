// Package scheduling generates interview slots from availability windows.
package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/jobboard/internal/types"
)

// DefaultSlotMinutes is used when a window does not specify a slot length.
const DefaultSlotMinutes = 20

// Lunch break boundaries, as hours of the day in the interview time zone.
const (
	lunchStartHour = 13
	lunchEndHour   = 14
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the half-open intervals share any instant.
func (iv Interval) Overlaps(other Interval) bool {
	return !(iv.End.Compare(other.Start) <= 0 || iv.Start.Compare(other.End) >= 0)
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Window is a validated availability window on one date.
type Window struct {
	Date        types.Date
	Start       time.Time
	End         time.Time
	SlotMinutes int
}

// LunchBreak returns [13:00, 14:00) on the given date in the date's location.
func LunchBreak(date types.Date) Interval {
	y, m, d := date.Date()
	loc := date.Location()
	return Interval{
		Start: time.Date(y, m, d, lunchStartHour, 0, 0, 0, loc),
		End:   time.Date(y, m, d, lunchEndHour, 0, 0, 0, loc),
	}
}

// NewWindow validates raw window input. date is YYYY-MM-DD, start and end are
// HH:MM (or full RFC 3339 timestamps) interpreted in loc. A nil slotMinutes
// selects DefaultSlotMinutes.
func NewWindow(date, start, end string, slotMinutes *int, loc *time.Location) (*Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := types.ParseDate(strings.TrimSpace(date), loc)
	if err != nil {
		return nil, &types.ValidationError{Field: "date", Message: "Invalid date"}
	}
	startAt, err := parseClock(day, start)
	if err != nil {
		return nil, &types.ValidationError{Field: "start_time", Message: "Invalid time window"}
	}
	endAt, err := parseClock(day, end)
	if err != nil {
		return nil, &types.ValidationError{Field: "end_time", Message: "Invalid time window"}
	}
	if !endAt.After(startAt) {
		return nil, &types.ValidationError{Field: "end_time", Message: "Invalid time window"}
	}

	minutes := DefaultSlotMinutes
	if slotMinutes != nil {
		minutes = *slotMinutes
	}
	if minutes <= 0 {
		return nil, &types.ValidationError{Field: "slot_minutes", Message: "must be greater than 0"}
	}

	return &Window{Date: day, Start: startAt, End: endAt, SlotMinutes: minutes}, nil
}

// parseClock resolves a clock time against day. Full timestamps are accepted
// and converted into day's location.
func parseClock(day types.Date, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.In(day.Location()), nil
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if clock, err := time.Parse(layout, value); err == nil {
			y, m, d := day.Date()
			return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), 0, day.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid clock time %q", value)
}

// Generate cuts the window into consecutive slots of SlotMinutes. A slot that
// would run past End stops generation. Slots overlapping the lunch break are
// dropped and the cursor still advances past them.
func (w *Window) Generate() []Interval {
	length := time.Duration(w.SlotMinutes) * time.Minute
	if length <= 0 {
		return nil
	}
	lunch := LunchBreak(w.Date)

	var slots []Interval
	for cursor := w.Start; cursor.Before(w.End); {
		slot := Interval{Start: cursor, End: cursor.Add(length)}
		if slot.End.After(w.End) {
			break
		}
		if !slot.Overlaps(lunch) {
			slots = append(slots, slot)
		}
		cursor = slot.End
	}
	return slots
}

// GenerateSlots is a convenience wrapper around NewWindow and Generate.
func GenerateSlots(date, start, end string, slotMinutes *int, loc *time.Location) (*Window, []Interval, error) {
	w, err := NewWindow(date, start, end, slotMinutes, loc)
	if err != nil {
		return nil, nil, err
	}
	return w, w.Generate(), nil
}

// ValidateRange checks that a replacement slot range ends after it starts.
func ValidateRange(startsAt, endsAt time.Time) error {
	if startsAt.IsZero() || endsAt.IsZero() || !endsAt.After(startsAt) {
		return &types.ValidationError{Field: "ends_at", Message: "Invalid time range"}
	}
	return nil
}
