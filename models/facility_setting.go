package models

import "fmt"

// FacilityConfig is the operator-editable facility setup.
type FacilityConfig struct {
	OpeningTime  string  `json:"openingTime" validate:"required,hhmm"`
	ClosingTime  string  `json:"closingTime" validate:"required,hhmm"`
	PricePerHour float64 `json:"pricePerHour" validate:"gt=0"`
	TotalCourts  int     `json:"totalCourts" validate:"min=1,max=50"`
}

// DefaultFacilityConfig mirrors the dashboard's out-of-the-box setup.
func DefaultFacilityConfig() FacilityConfig {
	return FacilityConfig{
		OpeningTime:  "09:00",
		ClosingTime:  "23:00",
		PricePerHour: 15,
		TotalCourts:  12,
	}
}

// CourtName returns the display name of the n-th court (1-based).
func CourtName(n int) string { return fmt.Sprintf("Court %d", n) }

// Courts lists every configured court name in ascending order.
func (f FacilityConfig) Courts() []string {
	out := make([]string, 0, f.TotalCourts)
	for i := 1; i <= f.TotalCourts; i++ {
		out = append(out, CourtName(i))
	}
	return out
}

// HasCourt reports whether name is one of the configured courts.
func (f FacilityConfig) HasCourt(name string) bool {
	for i := 1; i <= f.TotalCourts; i++ {
		if CourtName(i) == name {
			return true
		}
	}
	return false
}
