package input

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mirawen/course-staff-tools/pkg/core/matcher"
)

// ColorMap maps ARGB cell background colors to preference values.
var ColorMap = map[string]float64{
	// red
	"FFFF0000": 0,
	// orange
	"FFFF9900": 1,
	// yellow
	"FFFFFF00": 3,
	// green
	"FF00FF00": 5,
}

// Headers that may appear in a colored preference sheet before the user
// name columns begin. Min Count and Max Count are optional.
const (
	HeaderMinCount = "Min Count"
	HeaderMaxCount = "Max Count"
	HeaderName     = "Name"
)

// ColoredCell is a spreadsheet cell with its value and ARGB background
// color, decoupled from any particular spreadsheet client.
type ColoredCell struct {
	Value string
	Color string
}

// convertedSlot is one parsed row of a colored preference sheet.
type convertedSlot struct {
	id        string
	location  string
	day       string
	startTime string
	endTime   string
	minUsers  int
	maxUsers  int
}

// ConvertedSheet is the result of converting one colored preference
// sheet plus its per-user count sheet.
type ConvertedSheet struct {
	slots       []convertedSlot
	userNames   []string
	preferences map[string]map[string]float64
	userCounts  map[string]UserCounts
}

// ConvertSheet parses a colored preference grid and a count grid into a
// form that can be written out as a preference CSV and counts JSON.
// Slot IDs are the 0-indexed row numbers of the preference sheet.
func ConvertSheet(preferenceGrid, countGrid [][]ColoredCell) (*ConvertedSheet, error) {
	converted := &ConvertedSheet{
		preferences: make(map[string]map[string]float64),
		userCounts:  make(map[string]UserCounts),
	}

	if err := converted.parsePreferenceGrid(preferenceGrid); err != nil {
		return nil, err
	}
	if err := converted.parseCountGrid(countGrid); err != nil {
		return nil, err
	}

	return converted, nil
}

func (c *ConvertedSheet) parsePreferenceGrid(grid [][]ColoredCell) error {
	if len(grid) == 0 {
		return matcher.ValidationErrorf("preference sheet is empty")
	}

	header := grid[0]
	columnByName := make(map[string]int)
	nameStart := -1
	for i, cell := range header {
		if cell.Value == "" {
			break
		}
		if nameStart == -1 {
			switch cell.Value {
			case HeaderLocation, HeaderDay, HeaderStartTime, HeaderEndTime, HeaderMinCount, HeaderMaxCount:
				columnByName[cell.Value] = i
				continue
			default:
				// first unrecognized header starts the user name columns
				nameStart = i
			}
		}
		c.userNames = append(c.userNames, cell.Value)
	}

	if nameStart == -1 {
		return matcher.ValidationErrorf("preference sheet has no user name columns")
	}
	for _, required := range []string{HeaderLocation, HeaderDay, HeaderStartTime, HeaderEndTime} {
		if _, ok := columnByName[required]; !ok {
			return matcher.ValidationErrorf(
				"preference sheet is missing column %q; all metadata columns must precede user names", required)
		}
	}

	for name := range c.preferences {
		delete(c.preferences, name)
	}
	for _, name := range c.userNames {
		c.preferences[name] = make(map[string]float64)
	}

	for rowIdx, row := range grid[1:] {
		if len(row) == 0 || row[0].Value == "" {
			// stop at the first empty row
			break
		}

		slotID := strconv.Itoa(rowIdx)

		cellValue := func(header string) string {
			col, ok := columnByName[header]
			if !ok || col >= len(row) {
				return ""
			}
			return row[col].Value
		}

		slot := convertedSlot{
			id:        slotID,
			location:  cellValue(HeaderLocation),
			day:       cellValue(HeaderDay),
			startTime: cellValue(HeaderStartTime),
			endTime:   cellValue(HeaderEndTime),
			minUsers:  0,
			maxUsers:  1,
		}
		if v := cellValue(HeaderMinCount); v != "" {
			minUsers, err := strconv.Atoi(v)
			if err != nil {
				return matcher.ValidationErrorf("slot %s: invalid min count %q", slotID, v)
			}
			slot.minUsers = minUsers
		}
		if v := cellValue(HeaderMaxCount); v != "" {
			maxUsers, err := strconv.Atoi(v)
			if err != nil {
				return matcher.ValidationErrorf("slot %s: invalid max count %q", slotID, v)
			}
			slot.maxUsers = maxUsers
		}
		c.slots = append(c.slots, slot)

		for nameIdx, name := range c.userNames {
			col := nameStart + nameIdx
			if col >= len(row) {
				return matcher.ValidationErrorf("slot %s: no cell for user %q", slotID, name)
			}
			pref, ok := ColorMap[row[col].Color]
			if !ok {
				return matcher.ValidationErrorf(
					"slot %s, user %q: unrecognized preference color (ARGB) %q", slotID, name, row[col].Color)
			}
			c.preferences[name][slotID] = pref
		}
	}

	return nil
}

func (c *ConvertedSheet) parseCountGrid(grid [][]ColoredCell) error {
	if len(grid) == 0 {
		return matcher.ValidationErrorf("count sheet is empty")
	}

	columnByName := make(map[string]int)
	for i, cell := range grid[0] {
		if cell.Value == "" {
			break
		}
		switch cell.Value {
		case HeaderName, HeaderMinCount, HeaderMaxCount:
			columnByName[cell.Value] = i
		default:
			return matcher.ValidationErrorf("count sheet has unrecognized header %q", cell.Value)
		}
	}
	for _, required := range []string{HeaderName, HeaderMinCount, HeaderMaxCount} {
		if _, ok := columnByName[required]; !ok {
			return matcher.ValidationErrorf("count sheet is missing column %q", required)
		}
	}

	for _, row := range grid[1:] {
		if len(row) == 0 || row[0].Value == "" {
			break
		}

		name := row[columnByName[HeaderName]].Value
		minCount, err := strconv.Atoi(row[columnByName[HeaderMinCount]].Value)
		if err != nil {
			return matcher.ValidationErrorf("user %q: invalid min count %q", name, row[columnByName[HeaderMinCount]].Value)
		}
		maxCount, err := strconv.Atoi(row[columnByName[HeaderMaxCount]].Value)
		if err != nil {
			return matcher.ValidationErrorf("user %q: invalid max count %q", name, row[columnByName[HeaderMaxCount]].Value)
		}

		c.userCounts[name] = UserCounts{MinSlots: minCount, MaxSlots: maxCount}
	}

	return nil
}

// WritePreferencesCSV writes the converted sheet in the preference CSV
// format that ParsePreferences reads back.
func (c *ConvertedSheet) WritePreferencesCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	header := []string{HeaderID, HeaderLocation, HeaderDay, HeaderStartTime, HeaderEndTime}
	header = append(header, c.userNames...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, slot := range c.slots {
		row := []string{slot.id, slot.location, slot.day, slot.startTime, slot.endTime}
		for _, name := range c.userNames {
			row = append(row, strconv.FormatFloat(c.preferences[name][slot.id], 'f', -1, 64))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCountsJSON writes the converted counts in the JSON format that
// ParseCounts reads back.
func (c *ConvertedSheet) WriteCountsJSON(w io.Writer) error {
	config := CountsConfig{
		Users: c.userCounts,
		Slots: make(map[string]SlotCounts, len(c.slots)),
	}
	for _, slot := range c.slots {
		config.Slots[slot.id] = SlotCounts{MinUsers: slot.minUsers, MaxUsers: slot.maxUsers}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write counts json: %w", err)
	}
	return nil
}
