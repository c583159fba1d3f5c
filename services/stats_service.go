package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"court-booking/models"
	"court-booking/utils"
)

type CourtUsage struct {
	Court    string  `json:"court"`
	Bookings int     `json:"bookings"`
	Hours    float64 `json:"hours"`
}

type DayCount struct {
	Day      string `json:"day"`
	Bookings int    `json:"bookings"`
}

type WeekCount struct {
	Week     string `json:"week"`
	Bookings int    `json:"bookings"`
}

// DateGroup holds the bookings of one calendar day.
type DateGroup struct {
	Date     string           `json:"date"`
	Bookings []models.Booking `json:"bookings"`
}

type Summary struct {
	TotalBookings       int            `json:"totalBookings"`
	Revenue             float64        `json:"revenue"`
	Outstanding         float64        `json:"outstanding"`
	Paid                int            `json:"paid"`
	Unpaid              int            `json:"unpaid"`
	ByStatus            map[string]int `json:"byStatus"`
	ByCourt             []CourtUsage   `json:"byCourt"`
	AvgBookingsPerCourt int            `json:"avgBookingsPerCourt"`
	PeakHour            *float64       `json:"peakHour,omitempty"`
	RecurringSeries     int            `json:"recurringSeries"`

	// ByWeekday runs Mon..Sun; ByWeekOfMonth groups days 1-7, 8-14, ... of the month.
	ByWeekday        []DayCount  `json:"byWeekday"`
	PeakDay          string      `json:"peakDay,omitempty"`
	ByWeekOfMonth    []WeekCount `json:"byWeekOfMonth"`
	MostBookedCourt  *CourtUsage `json:"mostBookedCourt,omitempty"`
	LeastBookedCourt *CourtUsage `json:"leastBookedCourt,omitempty"`
}

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// StatsService derives dashboard analytics from the booking list. It only reads.
type StatsService struct {
	store    BookingStore
	settings *SettingsService
}

func NewStatsService(store BookingStore, settings *SettingsService) *StatsService {
	return &StatsService{store: store, settings: settings}
}

// Summary aggregates bookings dated within [from, to]; zero bounds are open.
func (s *StatsService) Summary(ctx context.Context, from, to time.Time) (Summary, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return Summary{}, err
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(all, cfg.Courts(), from, to), nil
}

// Recent returns the n most recently created bookings, newest first.
func (s *StatsService) Recent(ctx context.Context, n int) ([]models.Booking, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if n > 0 && n < len(all) {
		all = all[:n]
	}
	return all, nil
}

// Upcoming lists bookings that have not ended by now, soonest first, grouped by date.
func (s *StatsService) Upcoming(ctx context.Context, now time.Time) ([]DateGroup, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	upcoming, _ := SplitByTime(all, now)
	return upcoming, nil
}

// Past lists bookings that ended by now, most recent first, grouped by date.
func (s *StatsService) Past(ctx context.Context, now time.Time) ([]DateGroup, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	_, past := SplitByTime(all, now)
	return past, nil
}

// SplitByTime separates bookings still running or ahead of now from finished
// ones. A booking in progress counts as upcoming.
func SplitByTime(bookings []models.Booking, now time.Time) (upcoming, past []DateGroup) {
	var ahead, behind []models.Booking
	for _, b := range bookings {
		if b.EndsAt().After(now) {
			ahead = append(ahead, b)
		} else {
			behind = append(behind, b)
		}
	}
	sort.SliceStable(ahead, func(i, j int) bool { return ahead[i].StartsAt().Before(ahead[j].StartsAt()) })
	sort.SliceStable(behind, func(i, j int) bool { return behind[i].StartsAt().After(behind[j].StartsAt()) })
	return groupByDate(ahead), groupByDate(behind)
}

func groupByDate(sorted []models.Booking) []DateGroup {
	out := []DateGroup{}
	for _, b := range sorted {
		day := models.Day(b.Date).Format(utils.DateLayout)
		if n := len(out); n > 0 && out[n-1].Date == day {
			out[n-1].Bookings = append(out[n-1].Bookings, b)
			continue
		}
		out = append(out, DateGroup{Date: day, Bookings: []models.Booking{b}})
	}
	return out
}

func Summarize(bookings []models.Booking, courts []string, from, to time.Time) Summary {
	sum := Summary{ByStatus: map[string]int{}}
	usage := make(map[string]*CourtUsage, len(courts))
	for _, c := range courts {
		usage[c] = &CourtUsage{Court: c}
	}
	hours := map[float64]int{}
	groups := map[string]struct{}{}
	var weekdays [7]int
	var weeks [5]int

	for _, b := range bookings {
		day := models.Day(b.Date)
		if !from.IsZero() && day.Before(models.Day(from)) {
			continue
		}
		if !to.IsZero() && day.After(models.Day(to)) {
			continue
		}
		sum.TotalBookings++
		sum.ByStatus[b.EffectiveStatus()]++
		if b.Paid {
			sum.Paid++
			sum.Revenue += b.Amount
		} else {
			sum.Unpaid++
			if b.EffectiveStatus() != models.StatusCancelled {
				sum.Outstanding += b.Amount
			}
		}
		if u, ok := usage[b.Court]; ok {
			u.Bookings++
			u.Hours += b.Duration
		}
		hours[math.Floor(b.Time)]++
		weekdays[(int(day.Weekday())+6)%7]++
		weeks[(day.Day()-1)/7]++
		if b.RecurringGroupID != "" {
			groups[b.RecurringGroupID] = struct{}{}
		}
	}

	for _, c := range courts {
		sum.ByCourt = append(sum.ByCourt, *usage[c])
	}
	if len(courts) > 0 {
		sum.AvgBookingsPerCourt = int(math.Round(float64(sum.TotalBookings) / float64(len(courts))))
	}
	best, bestN := 0.0, 0
	for h, n := range hours {
		if n > bestN || (n == bestN && h < best) {
			best, bestN = h, n
		}
	}
	if bestN > 0 {
		sum.PeakHour = &best
	}
	sum.RecurringSeries = len(groups)

	peak := -1
	for i, n := range weekdays {
		sum.ByWeekday = append(sum.ByWeekday, DayCount{Day: weekdayNames[i], Bookings: n})
		if n > 0 && (peak < 0 || n > weekdays[peak]) {
			peak = i
		}
	}
	if peak >= 0 {
		sum.PeakDay = weekdayNames[peak]
	}
	for i, n := range weeks {
		sum.ByWeekOfMonth = append(sum.ByWeekOfMonth, WeekCount{Week: fmt.Sprintf("Week %d", i+1), Bookings: n})
	}

	// ties go to the lower-numbered court
	for i := range sum.ByCourt {
		u := sum.ByCourt[i]
		if sum.MostBookedCourt == nil || u.Bookings > sum.MostBookedCourt.Bookings {
			sum.MostBookedCourt = &u
		}
		if sum.LeastBookedCourt == nil || u.Bookings < sum.LeastBookedCourt.Bookings {
			sum.LeastBookedCourt = &u
		}
	}
	return sum
}
