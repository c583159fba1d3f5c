package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingGeometry(t *testing.T) {
	b := Booking{Court: "Court 1", Date: time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC), Time: 10, Duration: 1.5}
	assert.Equal(t, 11.5, b.End())
	assert.True(t, b.Overlaps(11, 1))
	assert.True(t, b.Overlaps(9, 1.5))
	assert.False(t, b.Overlaps(11.5, 1))
	assert.False(t, b.Overlaps(9, 1))

	later := time.Date(2025, 3, 30, 21, 45, 0, 0, time.UTC)
	assert.True(t, b.OnDay("Court 1", later))
	assert.False(t, b.OnDay("Court 2", later))
	assert.False(t, b.OnDay("Court 1", later.AddDate(0, 0, 1)))
}

func TestStatusHelpers(t *testing.T) {
	assert.Equal(t, StatusConfirmed, Booking{}.EffectiveStatus())
	assert.Equal(t, StatusNoShow, Booking{Status: StatusNoShow}.EffectiveStatus())
	assert.True(t, ValidStatus(StatusCancelled))
	assert.False(t, ValidStatus("pending"))
}

func TestOnGrid(t *testing.T) {
	assert.True(t, OnGrid(0))
	assert.True(t, OnGrid(10.5))
	assert.False(t, OnGrid(10.25))
}

func TestFacilityCourts(t *testing.T) {
	cfg := FacilityConfig{TotalCourts: 3}
	assert.Equal(t, []string{"Court 1", "Court 2", "Court 3"}, cfg.Courts())
	assert.True(t, cfg.HasCourt("Court 3"))
	assert.False(t, cfg.HasCourt("Court 4"))
	assert.Equal(t, 12, DefaultFacilityConfig().TotalCourts)
}

func TestBookingInstants(t *testing.T) {
	b := Booking{Date: time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC), Time: 18.5, Duration: 1.5}
	assert.Equal(t, time.Date(2025, 3, 30, 18, 30, 0, 0, time.UTC), b.StartsAt())
	assert.Equal(t, time.Date(2025, 3, 30, 20, 0, 0, 0, time.UTC), b.EndsAt())

	bangkok := time.FixedZone("ICT", 7*3600)
	assert.Equal(t, time.Date(2025, 3, 30, 9, 15, 0, 0, time.UTC), WallClock(time.Date(2025, 3, 30, 9, 15, 0, 0, bangkok)))
}
