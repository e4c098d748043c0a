package input

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/mirawen/course-staff-tools/pkg/core/matcher"
	"github.com/mirawen/course-staff-tools/pkg/core/model"
)

// PrintFormat selects how assignments are rendered.
type PrintFormat string

const (
	FormatTable PrintFormat = "table"
	FormatCSV   PrintFormat = "csv"
)

func (f PrintFormat) IsValid() bool {
	return f == FormatTable || f == FormatCSV
}

// slotSortKey orders slots by their earliest meeting then location.
func slotSortKey(slot model.Slot) string {
	minDay := 7
	for _, day := range slot.Days {
		if day < minDay {
			minDay = day
		}
	}
	return fmt.Sprintf("%d/%04d/%s", minDay, int(slot.StartTime), slot.Location)
}

// WriteAssignmentByUser prints the slots assigned to each user, one row
// per user sorted by name.
func WriteAssignmentByUser(w io.Writer, title string, assignment matcher.Assignment, problem *matcher.Problem, format PrintFormat, showEmpty bool) error {
	users := make([]model.User, len(problem.Users))
	copy(users, problem.Users)
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })

	var rows [][]string
	for _, user := range users {
		slotIDs := assignment[user.ID]
		if len(slotIDs) == 0 && !showEmpty {
			continue
		}

		slots := make([]model.Slot, 0, len(slotIDs))
		for _, id := range slotIDs {
			if slot, ok := problem.SlotByID(id); ok {
				slots = append(slots, slot)
			}
		}
		sort.Slice(slots, func(i, j int) bool {
			return slotSortKey(slots[i]) < slotSortKey(slots[j])
		})

		row := []string{user.Name}
		for _, slot := range slots {
			row = append(row, model.FormatSlot(slot))
		}
		rows = append(rows, row)
	}

	return writeRows(w, title, []string{"Name", "Assigned"}, rows, format)
}

// WriteAssignmentBySlot prints the users assigned to each slot, one row
// per slot sorted by meeting time then location.
func WriteAssignmentBySlot(w io.Writer, title string, assignment matcher.Assignment, problem *matcher.Problem, format PrintFormat, showEmpty bool) error {
	usersPerSlot := make(map[string][]string)
	for userID, slotIDs := range assignment {
		for _, slotID := range slotIDs {
			usersPerSlot[slotID] = append(usersPerSlot[slotID], userID)
		}
	}

	slots := make([]model.Slot, len(problem.Slots))
	copy(slots, problem.Slots)
	sort.Slice(slots, func(i, j int) bool {
		return slotSortKey(slots[i]) < slotSortKey(slots[j])
	})

	var rows [][]string
	for _, slot := range slots {
		names := usersPerSlot[slot.ID]
		if len(names) == 0 && !showEmpty {
			continue
		}
		sort.Strings(names)

		row := []string{
			slot.Location,
			model.FormatDays(slot.Days),
			slot.StartTime.String(),
			slot.EndTime.String(),
		}
		row = append(row, names...)
		rows = append(rows, row)
	}

	return writeRows(w, title, []string{"Location", "Day", "Start Time", "End Time", "Assigned"}, rows, format)
}

// writeRows renders ragged rows either as an aligned table or as CSV
// lines padded to a uniform width.
func writeRows(w io.Writer, title string, headers []string, rows [][]string, format PrintFormat) error {
	numColumns := len(headers)
	for _, row := range rows {
		if len(row) > numColumns {
			numColumns = len(row)
		}
	}

	switch format {
	case FormatCSV:
		if _, err := fmt.Fprintf(w, "===== %s =====\n\n", title); err != nil {
			return err
		}
		for _, row := range rows {
			padded := append(row, make([]string, numColumns-len(row))...)
			if _, err := fmt.Fprintln(w, strings.Join(padded, ",")); err != nil {
				return err
			}
		}
		return nil

	case FormatTable:
		if _, err := fmt.Fprintf(w, "%s\n\n", title); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
		for _, row := range rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()

	default:
		return fmt.Errorf("unknown print format %q", format)
	}
}
