package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"court-booking/events"
	"court-booking/models"
	"court-booking/utils"
)

type BookingOptions struct {
	// PlaceholderEmails synthesizes name@example.com when no email is given.
	PlaceholderEmails bool
	DefaultWeeks      int
}

// BookingService wraps the store with validation, pricing, recurrence and
// batch planning, and announces every mutation to the publisher.
type BookingService struct {
	store    BookingStore
	settings *SettingsService
	expander *RecurrenceExpander
	pub      events.Publisher
	opts     BookingOptions
}

func NewBookingService(store BookingStore, settings *SettingsService, expander *RecurrenceExpander, pub events.Publisher, opts BookingOptions) *BookingService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if expander == nil {
		expander = NewRecurrenceExpander()
	}
	if opts.DefaultWeeks < 1 {
		opts.DefaultWeeks = DefaultRecurringWeeks
	}
	return &BookingService{store: store, settings: settings, expander: expander, pub: pub, opts: opts}
}

type CreateBookingRequest struct {
	Court     string
	Date      time.Time
	Time      float64
	Duration  float64
	Renter    string
	Email     string
	Phone     string
	Recurring bool
	Weeks     int
}

type BatchRequest struct {
	Date          time.Time
	Time          float64
	Duration      float64
	Courts        int
	Renter        string
	Email         string
	Phone         string
	Recurring     bool
	Weeks         int
	AcceptPartial bool
}

func (s *BookingService) List(ctx context.Context) ([]models.Booking, error) {
	return s.store.All(ctx)
}

func (s *BookingService) Get(ctx context.Context, id int64) (models.Booking, error) {
	return s.store.Get(ctx, id)
}

// Create books one court, or a weekly series of it when req.Recurring is set.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) ([]models.Booking, error) {
	fac, err := s.settings.Facility(ctx)
	if err != nil {
		return nil, err
	}
	if !fac.HasCourt(req.Court) {
		return nil, fmt.Errorf("%w: unknown court %q", ErrInvalidBooking, req.Court)
	}
	if err := validateRange(fac, req.Date, req.Time, req.Duration); err != nil {
		return nil, err
	}
	tmpl, err := s.template(fac, req.Date, req.Time, req.Duration, req.Renter, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	tmpl.Court = req.Court

	next, err := s.store.NextID(ctx)
	if err != nil {
		return nil, err
	}
	var pending []models.Booking
	if req.Recurring {
		pending = s.expander.Expand(tmpl, s.weeks(req.Weeks), next)
	} else {
		tmpl.ID = next
		pending = []models.Booking{tmpl}
	}

	created, err := s.store.Add(ctx, pending...)
	if err != nil {
		return nil, err
	}
	log.Printf("[booking] %s booked %s on %s at %s (%d instance(s))",
		tmpl.Renter, tmpl.Court, tmpl.Date.Format(utils.DateLayout), utils.HoursToHHMM(tmpl.Time), len(created))
	s.announce(ctx, events.KeyBookingCreated, created)
	return created, nil
}

// PlanBatch reports which courts are free for the whole requested range.
func (s *BookingService) PlanBatch(ctx context.Context, date time.Time, start, duration float64, courts int) (BatchPlan, error) {
	fac, err := s.settings.Facility(ctx)
	if err != nil {
		return BatchPlan{}, err
	}
	if err := validateRange(fac, date, start, duration); err != nil {
		return BatchPlan{}, err
	}
	if courts < 1 || courts > fac.TotalCourts {
		return BatchPlan{}, fmt.Errorf("%w: court count must be between 1 and %d", ErrInvalidBooking, fac.TotalCourts)
	}
	all, err := s.store.All(ctx)
	if err != nil {
		return BatchPlan{}, err
	}
	return PlanBatch(date, start, duration, courts, all, fac.TotalCourts), nil
}

// CreateBatch books the same range on several courts at once. When fewer courts
// are free than requested it fails with ErrPartialCourts unless AcceptPartial.
func (s *BookingService) CreateBatch(ctx context.Context, req BatchRequest) ([]models.Booking, BatchPlan, error) {
	plan, err := s.PlanBatch(ctx, req.Date, req.Time, req.Duration, req.Courts)
	if err != nil {
		return nil, plan, err
	}
	if len(plan.Selected) == 0 {
		return nil, plan, ErrNoCourtsAvailable
	}
	if plan.Partial(req.Courts) && !req.AcceptPartial {
		return nil, plan, fmt.Errorf("%w: %d of %d requested", ErrPartialCourts, len(plan.Selected), req.Courts)
	}

	fac, err := s.settings.Facility(ctx)
	if err != nil {
		return nil, plan, err
	}
	tmpl, err := s.template(fac, req.Date, req.Time, req.Duration, req.Renter, req.Email, req.Phone)
	if err != nil {
		return nil, plan, err
	}
	next, err := s.store.NextID(ctx)
	if err != nil {
		return nil, plan, err
	}
	pending := Materialize(plan.Selected, tmpl, req.Recurring, s.weeks(req.Weeks), next, s.expander)
	created, err := s.store.Add(ctx, pending...)
	if err != nil {
		return nil, plan, err
	}
	log.Printf("[booking] %s booked %d court(s) on %s at %s", tmpl.Renter, len(plan.Selected),
		tmpl.Date.Format(utils.DateLayout), utils.HoursToHHMM(tmpl.Time))
	s.announce(ctx, events.KeyBookingCreated, created)
	return created, plan, nil
}

// Delete removes one booking, or with allFuture the booking and every later
// instance of its recurring group.
func (s *BookingService) Delete(ctx context.Context, id int64, allFuture bool) ([]int64, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var removed []int64
	if allFuture && b.Recurring && b.RecurringGroupID != "" {
		removed, err = s.store.RemoveGroupFrom(ctx, b.RecurringGroupID, b.Date)
	} else {
		err = s.store.Remove(ctx, id)
		removed = []int64{id}
	}
	if err != nil {
		return nil, err
	}
	s.announce(ctx, events.KeyBookingDeleted, removed)
	return removed, nil
}

func (s *BookingService) MarkPaid(ctx context.Context, id int64) (models.Booking, error) {
	b, err := s.store.SetPaid(ctx, id, true)
	if err != nil {
		return b, err
	}
	s.announce(ctx, "", nil)
	return b, nil
}

func (s *BookingService) MarkNoShow(ctx context.Context, id int64) (models.Booking, error) {
	return s.UpdateStatus(ctx, id, models.StatusNoShow)
}

func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status string) (models.Booking, error) {
	b, err := s.store.UpdateStatus(ctx, id, strings.ToLower(strings.TrimSpace(status)))
	if err != nil {
		return b, err
	}
	s.announce(ctx, "", nil)
	return b, nil
}

// ToggleRecurring turns a one-off booking into a weekly series (adding weeks
// future instances) or, when on is false, cuts the series after this booking.
func (s *BookingService) ToggleRecurring(ctx context.Context, id int64, on bool, weeks int) ([]models.Booking, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if on {
		if b.Recurring {
			return nil, fmt.Errorf("%w: booking %d is already recurring", ErrInvalidBooking, id)
		}
		next, err := s.store.NextID(ctx)
		if err != nil {
			return nil, err
		}
		anchor, future := s.expander.ToggleOn(b, s.weeks(weeks), next)
		updated, err := s.store.SetRecurring(ctx, id, anchor.RecurringGroupID)
		if err != nil {
			return nil, err
		}
		added, err := s.store.Add(ctx, future...)
		if err != nil {
			if _, rerr := s.store.SetRecurring(ctx, id, ""); rerr != nil {
				log.Printf("[booking] revert recurrence on %d: %v", id, rerr)
			}
			return nil, err
		}
		s.announce(ctx, events.KeyBookingCreated, added)
		return append([]models.Booking{updated}, added...), nil
	}

	if !b.Recurring {
		return []models.Booking{b}, nil
	}
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	_, drop := s.expander.ToggleOff(b, all)
	if len(drop) > 0 {
		if err := s.store.Remove(ctx, drop...); err != nil {
			return nil, err
		}
	}
	updated, err := s.store.SetRecurring(ctx, id, "")
	if err != nil {
		return nil, err
	}
	s.announce(ctx, events.KeyBookingDeleted, drop)
	return []models.Booking{updated}, nil
}

// SlotView is one half-hour cell of the calendar grid.
type SlotView struct {
	Time      float64         `json:"time"`
	Label     string          `json:"label"`
	State     string          `json:"state"`
	BookingID int64           `json:"bookingId,omitempty"`
	Booking   *models.Booking `json:"booking,omitempty"`
}

type CourtSchedule struct {
	Court string     `json:"court"`
	Slots []SlotView `json:"slots"`
}

type DaySchedule struct {
	Date   string          `json:"date"`
	Courts []CourtSchedule `json:"courts"`
}

// DaySchedule renders every court's bookable half-hour slots between opening
// and closing. Start slots carry the booking itself; covered slots carry only
// its id.
func (s *BookingService) DaySchedule(ctx context.Context, date time.Time) (DaySchedule, error) {
	fac, err := s.settings.Facility(ctx)
	if err != nil {
		return DaySchedule{}, err
	}
	all, err := s.store.All(ctx)
	if err != nil {
		return DaySchedule{}, err
	}
	byCourt := make(map[string][]models.Booking)
	for _, b := range all {
		if models.SameDay(b.Date, date) {
			byCourt[b.Court] = append(byCourt[b.Court], b)
		}
	}

	out := DaySchedule{Date: models.Day(date).Format(utils.DateLayout)}
	for _, court := range fac.Courts() {
		cs := CourtSchedule{Court: court}
		for t := firstSlot(fac.Open); t+models.SlotSize <= fac.Close; t += models.SlotSize {
			b, hit := FindOccupant(byCourt[court], court, date, t)
			sv := SlotView{Time: t, Label: utils.HoursToHHMM(t), State: hit.String()}
			if hit != HitNone {
				sv.BookingID = b.ID
			}
			if hit == HitDirect {
				bc := b
				sv.Booking = &bc
			}
			cs.Slots = append(cs.Slots, sv)
		}
		out.Courts = append(out.Courts, cs)
	}
	return out, nil
}

// firstSlot rounds an opening time up to the half-hour grid bookings start on.
func firstSlot(open float64) float64 {
	return math.Ceil(open/models.SlotSize-1e-9) * models.SlotSize
}

func (s *BookingService) weeks(w int) int {
	if w < 1 {
		return s.opts.DefaultWeeks
	}
	return w
}

func (s *BookingService) template(fac Facility, date time.Time, start, duration float64, renter, email, phone string) (models.Booking, error) {
	renter = strings.TrimSpace(renter)
	if renter == "" {
		return models.Booking{}, fmt.Errorf("%w: renter name is required", ErrInvalidBooking)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		if !s.opts.PlaceholderEmails {
			return models.Booking{}, fmt.Errorf("%w: email is required", ErrInvalidBooking)
		}
		email = utils.PlaceholderEmail(renter)
	}
	return models.Booking{
		Date:     models.Day(date),
		Time:     start,
		Duration: duration,
		Renter:   renter,
		Email:    email,
		Phone:    strings.TrimSpace(phone),
		Amount:   math.Round(duration * fac.PricePerHour),
		Status:   models.StatusConfirmed,
	}, nil
}

func validateRange(fac Facility, date time.Time, start, duration float64) error {
	switch {
	case date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidBooking)
	case !models.OnGrid(start) || !models.OnGrid(duration):
		return fmt.Errorf("%w: time and duration must be in half-hour steps", ErrInvalidBooking)
	case duration < models.SlotSize:
		return fmt.Errorf("%w: duration must be at least 30 minutes", ErrInvalidBooking)
	case start < fac.Open || start+duration > fac.Close:
		return fmt.Errorf("%w: %s-%s is outside opening hours %s-%s", ErrInvalidBooking,
			utils.HoursToHHMM(start), utils.HoursToHHMM(start+duration), fac.OpeningTime, fac.ClosingTime)
	}
	return nil
}

// announce publishes an optional specific event followed by the full list.
// Publishing is best-effort and never fails the mutation.
func (s *BookingService) announce(ctx context.Context, key string, payload any) {
	if key != "" {
		if err := s.pub.PublishJSON(ctx, key, payload); err != nil {
			log.Printf("[booking] publish %s: %v", key, err)
		}
	}
	all, err := s.store.All(ctx)
	if err != nil {
		log.Printf("[booking] snapshot for %s: %v", events.KeyBookingChanged, err)
		return
	}
	if err := s.pub.PublishJSON(ctx, events.KeyBookingChanged, all); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[booking] publish %s: %v", events.KeyBookingChanged, err)
	}
}
