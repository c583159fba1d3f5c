package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"court-booking/models"
)

// BookingStore owns the authoritative booking list.
//
// Add assigns ids itself (ids on input are ignored) and rejects the whole call
// with ErrSlotOverlap if any booking would overlap an existing one or another
// booking of the same call. Operations on unknown ids return ErrBookingNotFound.
type BookingStore interface {
	Add(ctx context.Context, bookings ...models.Booking) ([]models.Booking, error)
	Get(ctx context.Context, id int64) (models.Booking, error)
	Remove(ctx context.Context, ids ...int64) error
	RemoveGroupFrom(ctx context.Context, groupID string, from time.Time) ([]int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) (models.Booking, error)
	SetPaid(ctx context.Context, id int64, paid bool) (models.Booking, error)
	// SetRecurring sets the group id, or clears recurrence when groupID is empty.
	SetRecurring(ctx context.Context, id int64, groupID string) (models.Booking, error)
	All(ctx context.Context) ([]models.Booking, error)
	NextID(ctx context.Context) (int64, error)
}

// MemoryBookingStore keeps bookings in insertion order. lastID is a high-water
// mark so ids of deleted bookings are never handed out again.
type MemoryBookingStore struct {
	mu       sync.RWMutex
	bookings []models.Booking
	lastID   int64
}

func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{}
}

func (s *MemoryBookingStore) Add(_ context.Context, bookings ...models.Booking) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Booking, 0, len(bookings))
	for i, b := range bookings {
		b.Date = models.Day(b.Date)
		if b.Status == "" {
			b.Status = models.StatusConfirmed
		}
		if c, ok := firstConflict(s.bookings, b); ok {
			return nil, fmt.Errorf("%w: %s %s %.1f conflicts with booking %d", ErrSlotOverlap, b.Court, b.Date.Format("2006-01-02"), b.Time, c.ID)
		}
		if c, ok := firstConflict(out, b); ok {
			return nil, fmt.Errorf("%w: batch item %d conflicts with batch item for %s at %.1f", ErrSlotOverlap, i, c.Court, c.Time)
		}
		out = append(out, b)
	}

	next := s.nextIDLocked()
	for i := range out {
		out[i].ID = next + int64(i)
	}
	if len(out) > 0 {
		s.lastID = out[len(out)-1].ID
	}
	s.bookings = append(s.bookings, out...)
	return append([]models.Booking(nil), out...), nil
}

func (s *MemoryBookingStore) Get(_ context.Context, id int64) (models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Booking{}, fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
	}
	return s.bookings[i], nil
}

// Remove deletes exactly the given ids. Nothing is removed if any id is unknown.
func (s *MemoryBookingStore) Remove(_ context.Context, ids ...int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if s.indexOf(id) < 0 {
			return fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
		}
		drop[id] = struct{}{}
	}
	kept := s.bookings[:0]
	for _, b := range s.bookings {
		if _, ok := drop[b.ID]; !ok {
			kept = append(kept, b)
		}
	}
	s.bookings = kept
	return nil
}

func (s *MemoryBookingStore) RemoveGroupFrom(_ context.Context, groupID string, from time.Time) ([]int64, error) {
	if groupID == "" {
		return nil, fmt.Errorf("%w: empty recurring group id", ErrInvalidBooking)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	from = models.Day(from)
	var removed []int64
	kept := s.bookings[:0]
	for _, b := range s.bookings {
		if b.RecurringGroupID == groupID && !b.Date.Before(from) {
			removed = append(removed, b.ID)
			continue
		}
		kept = append(kept, b)
	}
	s.bookings = kept
	return removed, nil
}

func (s *MemoryBookingStore) UpdateStatus(_ context.Context, id int64, status string) (models.Booking, error) {
	if !models.ValidStatus(status) {
		return models.Booking{}, fmt.Errorf("%w: unknown status %q", ErrInvalidBooking, status)
	}
	return s.mutate(id, func(b *models.Booking) { b.Status = status })
}

func (s *MemoryBookingStore) SetPaid(_ context.Context, id int64, paid bool) (models.Booking, error) {
	return s.mutate(id, func(b *models.Booking) { b.Paid = paid })
}

func (s *MemoryBookingStore) SetRecurring(_ context.Context, id int64, groupID string) (models.Booking, error) {
	return s.mutate(id, func(b *models.Booking) {
		b.RecurringGroupID = groupID
		b.Recurring = groupID != ""
	})
}

func (s *MemoryBookingStore) All(_ context.Context) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out, nil
}

func (s *MemoryBookingStore) NextID(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextIDLocked(), nil
}

func (s *MemoryBookingStore) nextIDLocked() int64 {
	max := s.lastID
	for _, b := range s.bookings {
		if b.ID > max {
			max = b.ID
		}
	}
	return max + 1
}

func (s *MemoryBookingStore) indexOf(id int64) int {
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryBookingStore) mutate(id int64, fn func(*models.Booking)) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Booking{}, fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
	}
	fn(&s.bookings[i])
	return s.bookings[i], nil
}

// firstConflict returns the first booking in list on the same court and day
// whose interval intersects b.
func firstConflict(list []models.Booking, b models.Booking) (models.Booking, bool) {
	for _, e := range list {
		if e.OnDay(b.Court, b.Date) && e.Overlaps(b.Time, b.Duration) {
			return e, true
		}
	}
	return models.Booking{}, false
}
