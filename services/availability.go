package services

import (
	"context"
	"time"

	"court-booking/models"
)

// SlotHit describes how a booking occupies a queried slot.
type SlotHit int

const (
	HitNone SlotHit = iota
	// HitDirect: the slot is the booking's start; render its summary here.
	HitDirect
	// HitCovering: the slot lies inside the booking but is not its start.
	HitCovering
)

func (h SlotHit) String() string {
	switch h {
	case HitDirect:
		return "start"
	case HitCovering:
		return "covered"
	default:
		return "free"
	}
}

// AvailabilityResolver answers slot-occupancy questions against a BookingStore.
type AvailabilityResolver struct {
	store BookingStore
}

func NewAvailabilityResolver(store BookingStore) *AvailabilityResolver {
	return &AvailabilityResolver{store: store}
}

// FindOccupant returns the booking occupying court/date/at, if any.
func (r *AvailabilityResolver) FindOccupant(ctx context.Context, court string, date time.Time, at float64) (models.Booking, SlotHit, error) {
	all, err := r.store.All(ctx)
	if err != nil {
		return models.Booking{}, HitNone, err
	}
	b, hit := FindOccupant(all, court, date, at)
	return b, hit, nil
}

// IsFirstSlot reports whether a booking starts exactly at court/date/at.
func (r *AvailabilityResolver) IsFirstSlot(ctx context.Context, court string, date time.Time, at float64) (bool, error) {
	_, hit, err := r.FindOccupant(ctx, court, date, at)
	return hit == HitDirect, err
}

// FindOccupant scans bookings for a direct hit first, then a covering hit.
func FindOccupant(bookings []models.Booking, court string, date time.Time, at float64) (models.Booking, SlotHit) {
	for _, b := range bookings {
		if b.OnDay(court, date) && b.Time == at {
			return b, HitDirect
		}
	}
	for _, b := range bookings {
		if b.OnDay(court, date) && at > b.Time && at < b.End() {
			return b, HitCovering
		}
	}
	return models.Booking{}, HitNone
}

// CourtFree probes every half-hour sub-slot of [start, start+duration) on the
// court for an intersecting booking.
func CourtFree(bookings []models.Booking, court string, date time.Time, start, duration float64) bool {
	for probe := start; probe < start+duration; probe += models.SlotSize {
		for _, b := range bookings {
			if !b.OnDay(court, date) {
				continue
			}
			if (b.Time <= probe && probe < b.End()) || (probe <= b.Time && b.Time < probe+duration) {
				return false
			}
		}
	}
	return true
}
