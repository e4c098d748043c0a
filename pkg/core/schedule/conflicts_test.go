package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirawen/course-staff-tools/pkg/core/model"
)

func makeSlot(t *testing.T, id string, days []int, start, end, location string) model.Slot {
	t.Helper()

	startTime, err := model.ParseTimeOfDay(start)
	require.NoError(t, err)
	endTime, err := model.ParseTimeOfDay(end)
	require.NoError(t, err)

	return model.Slot{
		ID:        id,
		Days:      days,
		StartTime: startTime,
		EndTime:   endTime,
		Location:  location,
	}
}

func TestConflicts_BackToBackIsNotAConflict(t *testing.T) {
	slots := []model.Slot{
		makeSlot(t, "A0", []int{0}, "09:00", "10:00", "Soda 320"),
		makeSlot(t, "A1", []int{0}, "10:00", "11:00", "Soda 320"),
	}

	conflicts, err := Conflicts(slots)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestConflicts_PartialOverlap(t *testing.T) {
	slots := []model.Slot{
		makeSlot(t, "A0", []int{0}, "09:00", "10:00", "Soda 320"),
		makeSlot(t, "A1", []int{0}, "09:30", "10:30", "Dwinelle 88"),
	}

	conflicts, err := Conflicts(slots)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "A0", conflicts[0].A.ID)
	assert.Equal(t, "A1", conflicts[0].B.ID)
}

func TestConflicts_DifferentDays(t *testing.T) {
	slots := []model.Slot{
		makeSlot(t, "A0", []int{0}, "09:00", "10:00", "Soda 320"),
		makeSlot(t, "A1", []int{2}, "09:00", "10:00", "Soda 320"),
	}

	conflicts, err := Conflicts(slots)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestConflicts_SharedDayAmongMany(t *testing.T) {
	// TuTh slot overlaps a Th-only slot on Thursday alone
	slots := []model.Slot{
		makeSlot(t, "A0", []int{1, 3}, "09:00", "10:00", "Soda 320"),
		makeSlot(t, "A1", []int{3}, "09:30", "10:30", "Soda 320"),
		makeSlot(t, "A2", []int{1}, "11:00", "12:00", "Soda 320"),
	}

	conflicts, err := Conflicts(slots)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "A0", conflicts[0].A.ID)
	assert.Equal(t, "A1", conflicts[0].B.ID)
}

func TestConflicts_ContainedInterval(t *testing.T) {
	slots := []model.Slot{
		makeSlot(t, "A0", []int{4}, "09:00", "12:00", "Soda 320"),
		makeSlot(t, "A1", []int{4}, "10:00", "11:00", "Soda 320"),
	}

	conflicts, err := Conflicts(slots)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
}

func TestConflicts_PairReportedOnce(t *testing.T) {
	// overlapping on both Monday and Wednesday still reports one conflict
	slots := []model.Slot{
		makeSlot(t, "A0", []int{0, 2}, "09:00", "10:00", "Soda 320"),
		makeSlot(t, "A1", []int{0, 2}, "09:00", "10:00", "Dwinelle 88"),
	}

	conflicts, err := Conflicts(slots)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
}

func TestCrossConflicts(t *testing.T) {
	sections := []model.Slot{
		makeSlot(t, "A0", []int{0}, "09:00", "10:00", "Soda 320"),
		makeSlot(t, "A1", []int{2}, "14:00", "15:00", "Soda 320"),
	}
	oh := []model.Slot{
		makeSlot(t, "B0", []int{0}, "09:30", "10:30", "Cory 212"),
		makeSlot(t, "B1", []int{3}, "09:00", "10:00", "Cory 212"),
	}

	conflicts, err := CrossConflicts(sections, oh)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "A0", conflicts[0].A.ID)
	assert.Equal(t, "B0", conflicts[0].B.ID)
}

func TestCrossConflicts_SameListOverlapIgnored(t *testing.T) {
	sections := []model.Slot{
		makeSlot(t, "A0", []int{0}, "09:00", "10:00", "Soda 320"),
		makeSlot(t, "A1", []int{0}, "09:00", "10:00", "Dwinelle 88"),
	}
	oh := []model.Slot{
		makeSlot(t, "B0", []int{4}, "09:00", "10:00", "Cory 212"),
	}

	conflicts, err := CrossConflicts(sections, oh)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}
