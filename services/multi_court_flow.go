package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"court-booking/models"
)

type FlowState string

const (
	StateSelectingCriteria FlowState = "selecting_criteria"
	StateReviewingDetails  FlowState = "reviewing_details"
	StateSubmitting        FlowState = "submitting"
	StateDone              FlowState = "done"
)

type BatchCriteria struct {
	Date      time.Time `json:"date"`
	Time      float64   `json:"time"`
	Duration  float64   `json:"duration"`
	Courts    int       `json:"courts"`
	Recurring bool      `json:"recurring"`
	Weeks     int       `json:"weeks"`
}

type RenterDetails struct {
	Renter string `json:"renter"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

// FlowSession is a snapshot of one multi-court booking wizard.
type FlowSession struct {
	ID            string           `json:"id"`
	State         FlowState        `json:"state"`
	Criteria      BatchCriteria    `json:"criteria"`
	Plan          BatchPlan        `json:"plan"`
	AcceptPartial bool             `json:"acceptPartial"`
	Created       []models.Booking `json:"created,omitempty"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// DefaultSessionTTL is how long an untouched wizard session is kept.
const DefaultSessionTTL = 30 * time.Minute

// MultiCourtFlow tracks wizard sessions. Nothing reaches the booking store
// until a session's Submit succeeds.
type MultiCourtFlow struct {
	svc   *BookingService
	delay time.Duration
	ttl   time.Duration
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*FlowSession
}

// NewMultiCourtFlow builds the wizard; delay is an artificial pause in the
// Submitting state and sessions untouched for ttl are dropped.
func NewMultiCourtFlow(svc *BookingService, delay, ttl time.Duration) *MultiCourtFlow {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MultiCourtFlow{svc: svc, delay: delay, ttl: ttl, now: time.Now, sessions: make(map[string]*FlowSession)}
}

func (f *MultiCourtFlow) Start(ctx context.Context, c BatchCriteria) (FlowSession, error) {
	s := &FlowSession{ID: uuid.NewString(), State: StateSelectingCriteria, Criteria: c}
	if err := f.replan(ctx, s); err != nil {
		return FlowSession{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expireLocked()
	s.UpdatedAt = f.now()
	f.sessions[s.ID] = s
	return *s, nil
}

// expireLocked drops sessions idle longer than the ttl. A session mid-submit
// is kept until its commit finishes.
func (f *MultiCourtFlow) expireLocked() {
	cutoff := f.now().Add(-f.ttl)
	for id, s := range f.sessions {
		if s.State != StateSubmitting && s.UpdatedAt.Before(cutoff) {
			delete(f.sessions, id)
		}
	}
}

// Len reports how many sessions are held.
func (f *MultiCourtFlow) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func (f *MultiCourtFlow) Get(id string) (FlowSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return FlowSession{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return *s, nil
}

// UpdateCriteria replaces the criteria and recomputes the court plan.
func (f *MultiCourtFlow) UpdateCriteria(ctx context.Context, id string, c BatchCriteria) (FlowSession, error) {
	return f.step(id, func(s *FlowSession) error {
		if s.State != StateSelectingCriteria {
			return fmt.Errorf("%w: criteria can only change while selecting", ErrInvalidTransition)
		}
		s.Criteria = c
		return f.replan(ctx, s)
	})
}

// Next moves to ReviewingDetails once a date is set and at least one court is
// free. A partial selection needs acceptPartial.
func (f *MultiCourtFlow) Next(ctx context.Context, id string, acceptPartial bool) (FlowSession, error) {
	return f.step(id, func(s *FlowSession) error {
		if s.State != StateSelectingCriteria {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, StateReviewingDetails)
		}
		if s.Criteria.Date.IsZero() {
			return fmt.Errorf("%w: date is required", ErrInvalidBooking)
		}
		if err := f.replan(ctx, s); err != nil {
			return err
		}
		if len(s.Plan.Selected) == 0 {
			return ErrNoCourtsAvailable
		}
		if s.Plan.Partial(s.Criteria.Courts) && !acceptPartial {
			return fmt.Errorf("%w: only %d court(s) free", ErrPartialCourts, len(s.Plan.Selected))
		}
		s.AcceptPartial = acceptPartial
		s.State = StateReviewingDetails
		return nil
	})
}

// Back returns to SelectingCriteria keeping the entered criteria.
func (f *MultiCourtFlow) Back(id string) (FlowSession, error) {
	return f.step(id, func(s *FlowSession) error {
		if s.State != StateReviewingDetails {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, StateSelectingCriteria)
		}
		s.State = StateSelectingCriteria
		return nil
	})
}

// Submit commits the batch. A second Submit while one is in flight fails with
// ErrSubmitInProgress; a failed commit returns the session to ReviewingDetails.
func (f *MultiCourtFlow) Submit(ctx context.Context, id string, d RenterDetails) (FlowSession, error) {
	var crit BatchCriteria
	var accept bool
	_, err := f.step(id, func(s *FlowSession) error {
		switch s.State {
		case StateSubmitting:
			return ErrSubmitInProgress
		case StateReviewingDetails:
		default:
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, StateSubmitting)
		}
		if strings.TrimSpace(d.Renter) == "" {
			return fmt.Errorf("%w: renter name is required", ErrInvalidBooking)
		}
		s.State = StateSubmitting
		crit, accept = s.Criteria, s.AcceptPartial
		return nil
	})
	if err != nil {
		return FlowSession{}, err
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			f.setState(id, StateReviewingDetails)
			return FlowSession{}, ctx.Err()
		}
	}

	created, plan, err := f.svc.CreateBatch(ctx, BatchRequest{
		Date: crit.Date, Time: crit.Time, Duration: crit.Duration, Courts: crit.Courts,
		Renter: d.Renter, Email: d.Email, Phone: d.Phone,
		Recurring: crit.Recurring, Weeks: crit.Weeks, AcceptPartial: accept,
	})
	return f.step(id, func(s *FlowSession) error {
		s.Plan = plan
		if err != nil {
			s.State = StateReviewingDetails
			return err
		}
		s.Created = created
		s.State = StateDone
		return nil
	})
}

// Discard drops a session and its uncommitted form state.
func (f *MultiCourtFlow) Discard(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(f.sessions, id)
	return nil
}

func (f *MultiCourtFlow) replan(ctx context.Context, s *FlowSession) error {
	if s.Criteria.Date.IsZero() {
		s.Plan = BatchPlan{Available: []string{}, Selected: []string{}}
		return nil
	}
	plan, err := f.svc.PlanBatch(ctx, s.Criteria.Date, s.Criteria.Time, s.Criteria.Duration, s.Criteria.Courts)
	if err != nil {
		return err
	}
	s.Plan = plan
	return nil
}

// step runs fn on the live session under the lock. On error the session keeps
// whatever fn already changed.
func (f *MultiCourtFlow) step(id string, fn func(*FlowSession) error) (FlowSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return FlowSession{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.UpdatedAt = f.now()
	if err := fn(s); err != nil {
		return *s, err
	}
	return *s, nil
}

func (f *MultiCourtFlow) setState(id string, st FlowState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[id]; ok {
		s.State = st
	}
}
