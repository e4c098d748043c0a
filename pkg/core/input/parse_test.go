package input

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirawen/course-staff-tools/pkg/core/matcher"
	"github.com/mirawen/course-staff-tools/pkg/core/model"
)

const samplePreferencesCSV = `ID,Location,Day,Start Time,End Time,alice,bob
1,Soda 320,MW,10:00,11:00,5,3
2,Dwinelle 88,TuTh,14:30,15:30,0,1
`

const sampleCountsJSON = `{
  "users": {
    "alice": {"min_slots": 1, "max_slots": 2},
    "bob": {"min_slots": 0, "max_slots": 1}
  },
  "slots": {
    "1": {"min_users": 1, "max_users": 2},
    "2": {"min_users": 0, "max_users": 1}
  }
}`

func TestParsePreferences(t *testing.T) {
	table, err := ParsePreferences(strings.NewReader(samplePreferencesCSV), "A")
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, table.UserNames)
	require.Len(t, table.Slots, 2)

	first := table.Slots[0]
	assert.Equal(t, "A1", first.ID)
	assert.Equal(t, "Soda 320", first.Location)
	assert.Equal(t, []int{0, 2}, first.Days)
	assert.Equal(t, model.TimeOfDay(10*60), first.StartTime)
	assert.Equal(t, model.TimeOfDay(11*60), first.EndTime)

	second := table.Slots[1]
	assert.Equal(t, "A2", second.ID)
	assert.Equal(t, model.TimeOfDay(14*60+30), second.StartTime)

	require.Len(t, table.Preferences, 4)
	assert.Equal(t, model.Preference{UserID: "alice", SlotID: "A1", Value: 5}, table.Preferences[0])
	assert.Equal(t, model.Preference{UserID: "bob", SlotID: "A2", Value: 1}, table.Preferences[3])
}

func TestParsePreferences_ReorderedColumns(t *testing.T) {
	csv := `alice,Day,ID,Location,Start Time,End Time
2,F,7,Soda 320,09:00,10:00
`
	table, err := ParsePreferences(strings.NewReader(csv), "B")
	require.NoError(t, err)

	assert.Equal(t, []string{"alice"}, table.UserNames)
	require.Len(t, table.Slots, 1)
	assert.Equal(t, "B7", table.Slots[0].ID)
	assert.Equal(t, []int{4}, table.Slots[0].Days)
	require.Len(t, table.Preferences, 1)
	assert.Equal(t, 2.0, table.Preferences[0].Value)
}

func TestParsePreferences_MissingColumn(t *testing.T) {
	csv := `ID,Location,Day,Start Time,alice
1,Soda 320,MW,10:00,5
`
	_, err := ParsePreferences(strings.NewReader(csv), "A")
	require.Error(t, err)

	var validation *matcher.ValidationError
	assert.True(t, errors.As(err, &validation))
	assert.Contains(t, err.Error(), "End Time")
}

func TestParsePreferences_InvalidPreferenceValue(t *testing.T) {
	csv := `ID,Location,Day,Start Time,End Time,alice
1,Soda 320,MW,10:00,11:00,maybe
`
	_, err := ParsePreferences(strings.NewReader(csv), "A")
	require.Error(t, err)

	var validation *matcher.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestParsePreferences_TrailingGarbageRejected(t *testing.T) {
	// a number followed by junk must not silently parse as the number
	csv := `ID,Location,Day,Start Time,End Time,alice
1,Soda 320,MW,10:00,11:00,5x
`
	_, err := ParsePreferences(strings.NewReader(csv), "A")
	require.Error(t, err)

	var validation *matcher.ValidationError
	assert.True(t, errors.As(err, &validation))
	assert.Contains(t, err.Error(), "5x")
}

func TestParsePreferences_InvalidDay(t *testing.T) {
	csv := `ID,Location,Day,Start Time,End Time,alice
1,Soda 320,Xz,10:00,11:00,5
`
	_, err := ParsePreferences(strings.NewReader(csv), "A")
	require.Error(t, err)

	var validation *matcher.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestParseCounts_PrefixesSlotIDs(t *testing.T) {
	counts, err := ParseCounts(strings.NewReader(sampleCountsJSON), "A")
	require.NoError(t, err)

	assert.Equal(t, UserCounts{MinSlots: 1, MaxSlots: 2}, counts.Users["alice"])
	assert.Equal(t, SlotCounts{MinUsers: 1, MaxUsers: 2}, counts.Slots["A1"])
	assert.Equal(t, SlotCounts{MinUsers: 0, MaxUsers: 1}, counts.Slots["A2"])
	assert.NotContains(t, counts.Slots, "1")
}

func TestBuildProblem(t *testing.T) {
	table, err := ParsePreferences(strings.NewReader(samplePreferencesCSV), "A")
	require.NoError(t, err)
	counts, err := ParseCounts(strings.NewReader(sampleCountsJSON), "A")
	require.NoError(t, err)

	problem, err := BuildProblem(model.CategorySection, table, counts)
	require.NoError(t, err)

	assert.Equal(t, model.CategorySection, problem.Category)
	require.Len(t, problem.Users, 2)
	assert.Equal(t, model.User{ID: "alice", Name: "alice", MinSlots: 1, MaxSlots: 2}, problem.Users[0])

	slot, ok := problem.SlotByID("A1")
	require.True(t, ok)
	assert.Equal(t, 1, slot.MinUsers)
	assert.Equal(t, 2, slot.MaxUsers)

	assert.Equal(t, 5.0, problem.Preference("alice", "A1"))
	assert.Equal(t, 0.0, problem.Preference("alice", "A2"))
}

func TestBuildProblem_UserWithoutCounts(t *testing.T) {
	table, err := ParsePreferences(strings.NewReader(samplePreferencesCSV), "A")
	require.NoError(t, err)

	counts := &CountsConfig{
		Users: map[string]UserCounts{"alice": {MaxSlots: 1}},
		Slots: map[string]SlotCounts{"A1": {MaxUsers: 1}, "A2": {MaxUsers: 1}},
	}

	_, err = BuildProblem(model.CategorySection, table, counts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bob")
}

func TestBuildProblem_CountsForUnknownUser(t *testing.T) {
	table, err := ParsePreferences(strings.NewReader(samplePreferencesCSV), "A")
	require.NoError(t, err)

	counts := &CountsConfig{
		Users: map[string]UserCounts{
			"alice": {MaxSlots: 1},
			"bob":   {MaxSlots: 1},
			"carol": {MaxSlots: 1},
		},
		Slots: map[string]SlotCounts{"A1": {MaxUsers: 1}, "A2": {MaxUsers: 1}},
	}

	_, err = BuildProblem(model.CategorySection, table, counts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carol")
}

func TestBuildProblem_SlotWithoutCounts(t *testing.T) {
	table, err := ParsePreferences(strings.NewReader(samplePreferencesCSV), "A")
	require.NoError(t, err)

	counts := &CountsConfig{
		Users: map[string]UserCounts{"alice": {MaxSlots: 1}, "bob": {MaxSlots: 1}},
		Slots: map[string]SlotCounts{"A1": {MaxUsers: 1}},
	}

	_, err = BuildProblem(model.CategorySection, table, counts)
	require.Error(t, err)

	var validation *matcher.ValidationError
	assert.True(t, errors.As(err, &validation))
	assert.Contains(t, err.Error(), "A2")
}

func TestLoadProblem_BothPathsEmpty(t *testing.T) {
	problem, err := LoadProblem(model.CategorySection, "", "", "A")
	require.NoError(t, err)
	assert.Nil(t, problem)
	assert.True(t, problem.Empty())
}

func TestLoadProblem_OnePathMissing(t *testing.T) {
	_, err := LoadProblem(model.CategorySection, "prefs.csv", "", "A")
	require.Error(t, err)

	var validation *matcher.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestLoadProblem(t *testing.T) {
	dir := t.TempDir()
	prefsPath := filepath.Join(dir, "prefs.csv")
	countsPath := filepath.Join(dir, "counts.json")
	require.NoError(t, os.WriteFile(prefsPath, []byte(samplePreferencesCSV), 0o644))
	require.NoError(t, os.WriteFile(countsPath, []byte(sampleCountsJSON), 0o644))

	problem, err := LoadProblem(model.CategoryOH, prefsPath, countsPath, "B")
	require.NoError(t, err)

	assert.Equal(t, model.CategoryOH, problem.Category)
	_, ok := problem.SlotByID("B1")
	assert.True(t, ok)
}
