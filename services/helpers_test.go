package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"court-booking/models"
)

var march30 = time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC)

type recordedEvent struct {
	Key     string
	Payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *fakePublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Key: key, Payload: v})
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Key)
	}
	return out
}

func booking(court string, day time.Time, start, dur float64) models.Booking {
	return models.Booking{
		Court: court, Date: day, Time: start, Duration: dur,
		Renter: "Test Renter", Email: "t@example.com", Amount: 15 * dur,
	}
}

func fixedGroups(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

type testEnv struct {
	store *MemoryBookingStore
	pub   *fakePublisher
	svc   *BookingService
}

func fourCourts() models.FacilityConfig {
	return models.FacilityConfig{OpeningTime: "09:00", ClosingTime: "23:00", PricePerHour: 15, TotalCourts: 4}
}

func newTestEnv(t *testing.T, opts BookingOptions, seed ...models.Booking) testEnv {
	t.Helper()
	return newTestEnvWith(t, fourCourts(), opts, seed...)
}

func newTestEnvWith(t *testing.T, cfg models.FacilityConfig, opts BookingOptions, seed ...models.Booking) testEnv {
	t.Helper()
	store := NewMemoryBookingStore()
	if len(seed) > 0 {
		_, err := store.Add(context.Background(), seed...)
		require.NoError(t, err)
	}
	pub := &fakePublisher{}
	settings := NewSettingsService(NewMemorySettingsRepo(cfg))
	svc := NewBookingService(store, settings, NewRecurrenceExpander(), pub, opts)
	return testEnv{store: store, pub: pub, svc: svc}
}
