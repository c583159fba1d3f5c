package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"court-booking/models"
)

func TestPlanBatchSkipsBusyCourts(t *testing.T) {
	all := []models.Booking{booking("Court 2", march30, 10, 1)}

	plan := PlanBatch(march30, 10, 1, 3, all, 4)
	assert.Equal(t, []string{"Court 1", "Court 3", "Court 4"}, plan.Available)
	assert.Equal(t, []string{"Court 1", "Court 3", "Court 4"}, plan.Selected)
	assert.False(t, plan.Partial(3))
}

func TestPlanBatchPartial(t *testing.T) {
	all := []models.Booking{
		booking("Court 1", march30, 9.5, 1),
		booking("Court 2", march30, 10, 1),
	}
	plan := PlanBatch(march30, 10, 1, 3, all, 3)
	assert.Equal(t, []string{"Court 3"}, plan.Selected)
	assert.True(t, plan.Partial(3))

	none := PlanBatch(march30, 10, 1, 1, append(all, booking("Court 3", march30, 10.5, 1)), 3)
	assert.Empty(t, none.Available)
	assert.NotNil(t, none.Selected)
}

func TestMaterializeAssignsIDsAcrossBatch(t *testing.T) {
	exp := &RecurrenceExpander{NewGroupID: fixedGroups("a", "b")}
	tmpl := booking("", march30, 10, 1)

	single := Materialize([]string{"Court 1", "Court 3"}, tmpl, false, 0, 20, exp)
	require.Len(t, single, 2)
	assert.Equal(t, int64(20), single[0].ID)
	assert.Equal(t, "Court 3", single[1].Court)
	assert.Equal(t, int64(21), single[1].ID)
	assert.False(t, single[1].Recurring)

	series := Materialize([]string{"Court 1", "Court 2"}, tmpl, true, 2, 1, exp)
	require.Len(t, series, 4)
	ids := []int64{series[0].ID, series[1].ID, series[2].ID, series[3].ID}
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)
	assert.Equal(t, "a", series[0].RecurringGroupID)
	assert.Equal(t, "b", series[2].RecurringGroupID)
	assert.Equal(t, "Court 2", series[3].Court)
}
