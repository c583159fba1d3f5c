package services

import (
	"time"

	"court-booking/models"
)

// BatchPlan lists the courts free for a requested range and the ones picked.
type BatchPlan struct {
	Available []string `json:"available"`
	Selected  []string `json:"selected"`
}

// Partial reports whether fewer courts were selected than requested.
func (p BatchPlan) Partial(desired int) bool { return len(p.Selected) < desired }

// PlanBatch checks courts 1..totalCourts in ascending order and selects the
// first desired free ones.
func PlanBatch(date time.Time, start, duration float64, desired int, all []models.Booking, totalCourts int) BatchPlan {
	plan := BatchPlan{Available: []string{}, Selected: []string{}}
	for i := 1; i <= totalCourts; i++ {
		court := models.CourtName(i)
		if CourtFree(all, court, date, start, duration) {
			plan.Available = append(plan.Available, court)
		}
	}
	n := desired
	if n > len(plan.Available) {
		n = len(plan.Available)
	}
	if n > 0 {
		plan.Selected = append(plan.Selected, plan.Available[:n]...)
	}
	return plan
}

// Materialize builds one booking per selected court from template, expanding
// each into a weekly series when recurring. Ids run across the whole batch.
func Materialize(selected []string, template models.Booking, recurring bool, weeks int, firstID int64, exp *RecurrenceExpander) []models.Booking {
	var out []models.Booking
	next := firstID
	for _, court := range selected {
		b := template
		b.Court = court
		if recurring {
			series := exp.Expand(b, weeks, next)
			out = append(out, series...)
			next += int64(len(series))
			continue
		}
		b.ID = next
		b.Recurring = false
		b.RecurringGroupID = ""
		out = append(out, b)
		next++
	}
	return out
}
