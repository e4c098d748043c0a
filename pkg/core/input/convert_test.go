package input

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirawen/course-staff-tools/pkg/core/matcher"
	"github.com/mirawen/course-staff-tools/pkg/core/model"
)

const (
	colorRed    = "FFFF0000"
	colorOrange = "FFFF9900"
	colorYellow = "FFFFFF00"
	colorGreen  = "FF00FF00"
)

func cell(value string) ColoredCell {
	return ColoredCell{Value: value}
}

func colored(color string) ColoredCell {
	return ColoredCell{Color: color}
}

func samplePreferenceGrid() [][]ColoredCell {
	return [][]ColoredCell{
		{cell("Location"), cell("Day"), cell("Start Time"), cell("End Time"), cell("Min Count"), cell("Max Count"), cell("alice"), cell("bob")},
		{cell("Soda 320"), cell("MW"), cell("10:00"), cell("11:00"), cell("1"), cell("2"), colored(colorGreen), colored(colorYellow)},
		{cell("Dwinelle 88"), cell("TuTh"), cell("14:30"), cell("15:30"), cell("0"), cell("1"), colored(colorRed), colored(colorOrange)},
	}
}

func sampleCountGrid() [][]ColoredCell {
	return [][]ColoredCell{
		{cell("Name"), cell("Min Count"), cell("Max Count")},
		{cell("alice"), cell("1"), cell("2")},
		{cell("bob"), cell("0"), cell("1")},
	}
}

func TestConvertSheet_RoundTrip(t *testing.T) {
	converted, err := ConvertSheet(samplePreferenceGrid(), sampleCountGrid())
	require.NoError(t, err)

	var prefsCSV bytes.Buffer
	require.NoError(t, converted.WritePreferencesCSV(&prefsCSV))
	var countsJSON bytes.Buffer
	require.NoError(t, converted.WriteCountsJSON(&countsJSON))

	table, err := ParsePreferences(strings.NewReader(prefsCSV.String()), "A")
	require.NoError(t, err)
	counts, err := ParseCounts(strings.NewReader(countsJSON.String()), "A")
	require.NoError(t, err)

	problem, err := BuildProblem(model.CategorySection, table, counts)
	require.NoError(t, err)

	// slot IDs are 0-indexed sheet rows
	slot, ok := problem.SlotByID("A0")
	require.True(t, ok)
	assert.Equal(t, "Soda 320", slot.Location)
	assert.Equal(t, []int{0, 2}, slot.Days)
	assert.Equal(t, 1, slot.MinUsers)
	assert.Equal(t, 2, slot.MaxUsers)

	assert.Equal(t, 5.0, problem.Preference("alice", "A0"))
	assert.Equal(t, 3.0, problem.Preference("bob", "A0"))
	assert.Equal(t, 0.0, problem.Preference("alice", "A1"))
	assert.Equal(t, 1.0, problem.Preference("bob", "A1"))

	require.Len(t, problem.Users, 2)
	assert.Equal(t, model.User{ID: "alice", Name: "alice", MinSlots: 1, MaxSlots: 2}, problem.Users[0])
}

func TestConvertSheet_CountColumnsOptional(t *testing.T) {
	grid := [][]ColoredCell{
		{cell("Location"), cell("Day"), cell("Start Time"), cell("End Time"), cell("alice")},
		{cell("Soda 320"), cell("F"), cell("09:00"), cell("10:00"), colored(colorGreen)},
	}

	converted, err := ConvertSheet(grid, sampleCountGrid())
	require.NoError(t, err)

	var countsJSON bytes.Buffer
	require.NoError(t, converted.WriteCountsJSON(&countsJSON))
	counts, err := ParseCounts(strings.NewReader(countsJSON.String()), "")
	require.NoError(t, err)

	assert.Equal(t, SlotCounts{MinUsers: 0, MaxUsers: 1}, counts.Slots["0"])
}

func TestConvertSheet_UnknownColor(t *testing.T) {
	grid := [][]ColoredCell{
		{cell("Location"), cell("Day"), cell("Start Time"), cell("End Time"), cell("alice")},
		{cell("Soda 320"), cell("F"), cell("09:00"), cell("10:00"), colored("FF123456")},
	}

	_, err := ConvertSheet(grid, sampleCountGrid())
	require.Error(t, err)

	var validation *matcher.ValidationError
	assert.True(t, errors.As(err, &validation))
	assert.Contains(t, err.Error(), "FF123456")
}

func TestConvertSheet_MissingMetadataColumn(t *testing.T) {
	grid := [][]ColoredCell{
		{cell("Location"), cell("Day"), cell("Start Time"), cell("alice")},
		{cell("Soda 320"), cell("F"), cell("09:00"), colored(colorGreen)},
	}

	_, err := ConvertSheet(grid, sampleCountGrid())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "End Time")
}

func TestConvertSheet_StopsAtEmptyRow(t *testing.T) {
	grid := samplePreferenceGrid()
	grid = append(grid, []ColoredCell{cell("")},
		[]ColoredCell{cell("Morgan Hall"), cell("F"), cell("09:00"), cell("10:00"), cell(""), cell(""), colored(colorGreen), colored(colorGreen)})

	converted, err := ConvertSheet(grid, sampleCountGrid())
	require.NoError(t, err)

	var prefsCSV bytes.Buffer
	require.NoError(t, converted.WritePreferencesCSV(&prefsCSV))
	table, err := ParsePreferences(strings.NewReader(prefsCSV.String()), "")
	require.NoError(t, err)

	assert.Len(t, table.Slots, 2)
}

func TestConvertSheet_BadCountHeader(t *testing.T) {
	countGrid := [][]ColoredCell{
		{cell("Name"), cell("Minimum"), cell("Max Count")},
		{cell("alice"), cell("1"), cell("2")},
	}

	_, err := ConvertSheet(samplePreferenceGrid(), countGrid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Minimum")
}
