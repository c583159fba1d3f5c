package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingRowRoundTrip(t *testing.T) {
	b := Booking{
		ID: 42, Court: "Court 5", Date: time.Date(2025, 4, 6, 15, 4, 0, 0, time.UTC),
		Time: 19.5, Duration: 1, Renter: "Ann", Recurring: true, RecurringGroupID: "grp",
	}

	row := BookingRowFrom(b)
	assert.Equal(t, StatusConfirmed, row.Status)
	if assert.NotNil(t, row.RecurringGroupID) {
		assert.Equal(t, "grp", *row.RecurringGroupID)
	}

	back := row.ToBooking()
	assert.Equal(t, int64(42), back.ID)
	assert.Equal(t, time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC), back.Date)
	assert.Equal(t, "grp", back.RecurringGroupID)
	assert.Equal(t, 19.5, back.Time)
}

func TestBookingRowWithoutGroup(t *testing.T) {
	row := BookingRowFrom(Booking{Court: "Court 1", Time: 10, Duration: 1})
	assert.Nil(t, row.RecurringGroupID)
	assert.Empty(t, row.ToBooking().RecurringGroupID)
	assert.Equal(t, "bookings", row.TableName())
}
