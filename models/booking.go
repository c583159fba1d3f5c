package models

import (
	"math"
	"time"
)

// Booking statuses.
const (
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusNoShow    = "no-show"
	StatusCancelled = "cancelled"
)

// SlotSize is the smallest bookable unit, in hours.
const SlotSize = 0.5

type Booking struct {
	ID               int64     `json:"id"`
	Court            string    `json:"court"`
	Date             time.Time `json:"date"`
	Time             float64   `json:"time"`
	Duration         float64   `json:"duration"`
	Renter           string    `json:"renter"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Paid             bool      `json:"paid"`
	Amount           float64   `json:"amount"`
	Status           string    `json:"status"`
	Recurring        bool      `json:"recurring"`
	RecurringGroupID string    `json:"recurringGroupId,omitempty"`
}

// End returns the fractional hour at which the booking finishes.
func (b Booking) End() float64 { return b.Time + b.Duration }

// StartsAt is the booking's start as a wall-clock instant on its date.
func (b Booking) StartsAt() time.Time { return atHour(b.Date, b.Time) }

// EndsAt is the booking's end as a wall-clock instant on its date.
func (b Booking) EndsAt() time.Time { return atHour(b.Date, b.End()) }

func atHour(day time.Time, h float64) time.Time {
	return Day(day).Add(time.Duration(math.Round(h * float64(time.Hour))))
}

// EffectiveStatus treats an empty status as confirmed.
func (b Booking) EffectiveStatus() string {
	if b.Status == "" {
		return StatusConfirmed
	}
	return b.Status
}

// OnDay reports whether the booking is on the given court and calendar day.
func (b Booking) OnDay(court string, day time.Time) bool {
	return b.Court == court && SameDay(b.Date, day)
}

// Overlaps reports whether [start, start+duration) intersects the booking.
func (b Booking) Overlaps(start, duration float64) bool {
	return start < b.End() && b.Time < start+duration
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WallClock keeps t's local date and clock reading but places it in UTC, the
// zone booking dates and hours are expressed in.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// OnGrid reports whether v is a whole multiple of SlotSize.
func OnGrid(v float64) bool {
	q := v / SlotSize
	return math.Abs(q-math.Round(q)) < 1e-9
}

func ValidStatus(s string) bool {
	switch s {
	case StatusConfirmed, StatusCompleted, StatusNoShow, StatusCancelled:
		return true
	}
	return false
}
