package services

import (
	"github.com/google/uuid"

	"court-booking/models"
)

// DefaultRecurringWeeks is how many future instances toggling recurrence on adds.
const DefaultRecurringWeeks = 4

// RecurrenceExpander turns a template booking into a weekly series. It does not
// check availability; callers do that before committing.
type RecurrenceExpander struct {
	NewGroupID func() string
}

func NewRecurrenceExpander() *RecurrenceExpander {
	return &RecurrenceExpander{NewGroupID: uuid.NewString}
}

// Expand produces weeks instances. Instance i is dated template.Date + i weeks,
// every instance shares one fresh group id, and ids run from firstID upward.
func (e *RecurrenceExpander) Expand(template models.Booking, weeks int, firstID int64) []models.Booking {
	if weeks < 1 {
		weeks = 1
	}
	group := e.NewGroupID()
	out := make([]models.Booking, 0, weeks)
	for i := 0; i < weeks; i++ {
		b := template
		b.ID = firstID + int64(i)
		b.Date = models.Day(template.Date).AddDate(0, 0, 7*i)
		b.Recurring = true
		b.RecurringGroupID = group
		out = append(out, b)
	}
	return out
}

// ToggleOn converts a one-off booking into a series: the returned anchor carries
// a new group id and weeks additional instances follow it, one per week.
func (e *RecurrenceExpander) ToggleOn(anchor models.Booking, weeks int, firstID int64) (models.Booking, []models.Booking) {
	if weeks < 1 {
		weeks = DefaultRecurringWeeks
	}
	group := e.NewGroupID()
	anchor.Recurring = true
	anchor.RecurringGroupID = group

	future := make([]models.Booking, 0, weeks)
	for i := 1; i <= weeks; i++ {
		b := anchor
		b.ID = firstID + int64(i-1)
		b.Date = models.Day(anchor.Date).AddDate(0, 0, 7*i)
		future = append(future, b)
	}
	return anchor, future
}

// ToggleOff picks every same-group booking strictly after the anchor's date for
// removal and returns the anchor with recurrence cleared.
func (e *RecurrenceExpander) ToggleOff(anchor models.Booking, all []models.Booking) (models.Booking, []int64) {
	var drop []int64
	if anchor.RecurringGroupID != "" {
		day := models.Day(anchor.Date)
		for _, b := range all {
			if b.RecurringGroupID == anchor.RecurringGroupID && models.Day(b.Date).After(day) {
				drop = append(drop, b.ID)
			}
		}
	}
	anchor.Recurring = false
	anchor.RecurringGroupID = ""
	return anchor, drop
}
