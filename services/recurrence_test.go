package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"court-booking/models"
)

func TestExpandWeeklySeries(t *testing.T) {
	exp := &RecurrenceExpander{NewGroupID: fixedGroups("g1")}
	series := exp.Expand(booking("Court 1", march30, 10, 1), 4, 7)

	require.Len(t, series, 4)
	for i, b := range series {
		assert.Equal(t, int64(7+i), b.ID)
		assert.Equal(t, march30.AddDate(0, 0, 7*i), b.Date)
		assert.True(t, b.Recurring)
		assert.Equal(t, "g1", b.RecurringGroupID)
		assert.Equal(t, 10.0, b.Time)
	}
	assert.Equal(t, "2025-04-20", series[3].Date.Format("2006-01-02"))
}

func TestExpandAtLeastOneInstance(t *testing.T) {
	series := NewRecurrenceExpander().Expand(booking("Court 1", march30, 10, 1), 0, 1)
	require.Len(t, series, 1)
	assert.NotEmpty(t, series[0].RecurringGroupID)
}

func TestToggleOnThenOff(t *testing.T) {
	exp := &RecurrenceExpander{NewGroupID: fixedGroups("g2")}
	anchor := booking("Court 3", march30, 18, 2)
	anchor.ID = 5

	on, future := exp.ToggleOn(anchor, 3, 10)
	assert.True(t, on.Recurring)
	assert.Equal(t, "g2", on.RecurringGroupID)
	require.Len(t, future, 3)
	assert.Equal(t, march30.AddDate(0, 0, 7), future[0].Date)
	assert.Equal(t, int64(10), future[0].ID)
	assert.Equal(t, int64(12), future[2].ID)

	all := append([]models.Booking{on}, future...)
	off, drop := exp.ToggleOff(on, all)
	assert.False(t, off.Recurring)
	assert.Empty(t, off.RecurringGroupID)
	assert.Equal(t, []int64{10, 11, 12}, drop)
}

func TestToggleOffKeepsEarlierInstances(t *testing.T) {
	exp := &RecurrenceExpander{NewGroupID: fixedGroups("g3")}
	series := exp.Expand(booking("Court 1", march30, 10, 1), 4, 1)

	_, drop := exp.ToggleOff(series[1], series)
	assert.Equal(t, []int64{3, 4}, drop)
}
