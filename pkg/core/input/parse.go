// Package input reads the matcher's file formats: preference CSV tables,
// count configuration JSON, and colored-spreadsheet grids, and formats
// assignment results for display.
package input

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mirawen/course-staff-tools/pkg/core/matcher"
	"github.com/mirawen/course-staff-tools/pkg/core/model"
)

// Preference CSV metadata columns; every remaining column is a user name.
const (
	HeaderID        = "ID"
	HeaderLocation  = "Location"
	HeaderDay       = "Day"
	HeaderStartTime = "Start Time"
	HeaderEndTime   = "End Time"
)

var metadataHeaders = map[string]bool{
	HeaderID:        true,
	HeaderLocation:  true,
	HeaderDay:       true,
	HeaderStartTime: true,
	HeaderEndTime:   true,
}

// PreferenceTable is the parsed contents of one preference CSV: the slot
// records (without user counts, which come from the counts config) and
// every user's preference for every slot.
type PreferenceTable struct {
	UserNames   []string
	Slots       []model.Slot
	Preferences []model.Preference
}

// UserCounts bounds how many slots a user may hold.
type UserCounts struct {
	MinSlots int `json:"min_slots"`
	MaxSlots int `json:"max_slots"`
}

// SlotCounts bounds how many users a slot may hold.
type SlotCounts struct {
	MinUsers int `json:"min_users"`
	MaxUsers int `json:"max_users"`
}

// CountsConfig is the JSON count configuration accompanying a
// preference CSV.
type CountsConfig struct {
	Users map[string]UserCounts `json:"users"`
	Slots map[string]SlotCounts `json:"slots"`
}

// ParsePreferences reads a preference CSV. The first row holds the
// metadata headers and user names in any order; each remaining row is one
// slot. Slot IDs are prefixed with slotIDPrefix so section and OH slot
// IDs never collide.
func ParsePreferences(r io.Reader, slotIDPrefix string) (*PreferenceTable, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read preference csv: %w", err)
	}
	if len(records) == 0 {
		return nil, matcher.ValidationErrorf("preference csv is empty")
	}

	header := records[0]
	columnByName := make(map[string]int, len(header))
	var userNames []string
	for i, name := range header {
		columnByName[name] = i
		if !metadataHeaders[name] {
			userNames = append(userNames, name)
		}
	}

	for _, required := range []string{HeaderID, HeaderLocation, HeaderDay, HeaderStartTime, HeaderEndTime} {
		if _, ok := columnByName[required]; !ok {
			return nil, matcher.ValidationErrorf("preference csv is missing column %q", required)
		}
	}

	table := &PreferenceTable{UserNames: userNames}
	for rowNum, row := range records[1:] {
		if len(row) != len(header) {
			return nil, matcher.ValidationErrorf("preference csv row %d has %d columns, expected %d",
				rowNum+2, len(row), len(header))
		}

		slotID := slotIDPrefix + row[columnByName[HeaderID]]

		days, err := model.ParseDays(row[columnByName[HeaderDay]])
		if err != nil {
			return nil, matcher.ValidationErrorf("slot %q: %v", slotID, err)
		}
		start, err := model.ParseTimeOfDay(row[columnByName[HeaderStartTime]])
		if err != nil {
			return nil, matcher.ValidationErrorf("slot %q: %v", slotID, err)
		}
		end, err := model.ParseTimeOfDay(row[columnByName[HeaderEndTime]])
		if err != nil {
			return nil, matcher.ValidationErrorf("slot %q: %v", slotID, err)
		}

		table.Slots = append(table.Slots, model.Slot{
			ID:        slotID,
			Days:      days,
			StartTime: start,
			EndTime:   end,
			Location:  row[columnByName[HeaderLocation]],
		})

		for _, name := range userNames {
			value, err := strconv.ParseFloat(strings.TrimSpace(row[columnByName[name]]), 64)
			if err != nil {
				return nil, matcher.ValidationErrorf("slot %q: invalid preference %q for user %q",
					slotID, row[columnByName[name]], name)
			}
			table.Preferences = append(table.Preferences, model.Preference{
				UserID: name,
				SlotID: slotID,
				Value:  value,
			})
		}
	}

	return table, nil
}

// ParseCounts reads a counts config JSON. Slot IDs are prefixed with
// slotIDPrefix to match the corresponding preference CSV.
func ParseCounts(r io.Reader, slotIDPrefix string) (*CountsConfig, error) {
	var cfg CountsConfig
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse counts config: %w", err)
	}

	if slotIDPrefix != "" {
		prefixed := make(map[string]SlotCounts, len(cfg.Slots))
		for id, counts := range cfg.Slots {
			prefixed[slotIDPrefix+id] = counts
		}
		cfg.Slots = prefixed
	}

	return &cfg, nil
}

// BuildProblem combines a preference table with its counts config into
// one category's assignment problem. Every user in the table must appear
// in the counts config and vice versa, and every slot must have counts.
func BuildProblem(category model.Category, table *PreferenceTable, counts *CountsConfig) (*matcher.Problem, error) {
	tableUsers := make(map[string]bool, len(table.UserNames))
	for _, name := range table.UserNames {
		tableUsers[name] = true
		if _, ok := counts.Users[name]; !ok {
			return nil, matcher.ValidationErrorf("user %q has preferences but no counts config", name)
		}
	}
	for name := range counts.Users {
		if !tableUsers[name] {
			return nil, matcher.ValidationErrorf("user %q has counts config but no preferences", name)
		}
	}

	users := make([]model.User, 0, len(table.UserNames))
	for _, name := range table.UserNames {
		userCounts := counts.Users[name]
		users = append(users, model.User{
			ID:       name,
			Name:     name,
			MinSlots: userCounts.MinSlots,
			MaxSlots: userCounts.MaxSlots,
		})
	}

	slots := make([]model.Slot, 0, len(table.Slots))
	for _, slot := range table.Slots {
		slotCounts, ok := counts.Slots[slot.ID]
		if !ok {
			return nil, matcher.ValidationErrorf("slot %q has no counts config", slot.ID)
		}
		slot.MinUsers = slotCounts.MinUsers
		slot.MaxUsers = slotCounts.MaxUsers
		slots = append(slots, slot)
	}

	return matcher.NewProblem(category, users, slots, table.Preferences)
}

// LoadProblem reads a preference CSV and counts JSON from disk and builds
// the problem. Both paths empty yields a nil problem, which the solvers
// treat as an empty category.
func LoadProblem(category model.Category, preferencesPath, countsPath, slotIDPrefix string) (*matcher.Problem, error) {
	if preferencesPath == "" && countsPath == "" {
		return nil, nil
	}
	if preferencesPath == "" || countsPath == "" {
		return nil, matcher.ValidationErrorf(
			"%s preferences and counts files must be given together", category)
	}

	prefsFile, err := os.Open(preferencesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences file: %w", err)
	}
	defer prefsFile.Close()

	table, err := ParsePreferences(prefsFile, slotIDPrefix)
	if err != nil {
		return nil, err
	}

	countsFile, err := os.Open(countsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open counts file: %w", err)
	}
	defer countsFile.Close()

	counts, err := ParseCounts(countsFile, slotIDPrefix)
	if err != nil {
		return nil, err
	}

	return BuildProblem(category, table, counts)
}
