package models

import (
	"time"

	"gorm.io/datatypes"
)

// BookingRow is the bookings table layout.
type BookingRow struct {
	ID               int64          `gorm:"primaryKey;autoIncrement"`
	Court            string         `gorm:"size:32;uniqueIndex:idx_court_slot;index:idx_court_day"`
	Date             datatypes.Date `gorm:"uniqueIndex:idx_court_slot;index:idx_court_day"`
	Time             float64        `gorm:"uniqueIndex:idx_court_slot"`
	Duration         float64
	Renter           string `gorm:"size:255"`
	Email            string `gorm:"size:255"`
	Phone            string `gorm:"size:64"`
	Paid             bool   `gorm:"default:false"`
	Amount           float64
	Status           string  `gorm:"size:32;default:confirmed"`
	Recurring        bool    `gorm:"default:false"`
	RecurringGroupID *string `gorm:"size:64;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (BookingRow) TableName() string { return "bookings" }

// BookingRowFrom maps a booking onto its table row.
func BookingRowFrom(b Booking) BookingRow {
	r := BookingRow{
		ID:        b.ID,
		Court:     b.Court,
		Date:      datatypes.Date(Day(b.Date)),
		Time:      b.Time,
		Duration:  b.Duration,
		Renter:    b.Renter,
		Email:     b.Email,
		Phone:     b.Phone,
		Paid:      b.Paid,
		Amount:    b.Amount,
		Status:    b.EffectiveStatus(),
		Recurring: b.Recurring,
	}
	if b.RecurringGroupID != "" {
		g := b.RecurringGroupID
		r.RecurringGroupID = &g
	}
	return r
}

func (r BookingRow) ToBooking() Booking {
	b := Booking{
		ID:        r.ID,
		Court:     r.Court,
		Date:      Day(time.Time(r.Date)),
		Time:      r.Time,
		Duration:  r.Duration,
		Renter:    r.Renter,
		Email:     r.Email,
		Phone:     r.Phone,
		Paid:      r.Paid,
		Amount:    r.Amount,
		Status:    r.Status,
		Recurring: r.Recurring,
	}
	if r.RecurringGroupID != nil {
		b.RecurringGroupID = *r.RecurringGroupID
	}
	return b
}
