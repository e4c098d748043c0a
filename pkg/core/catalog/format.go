package catalog

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

// PrintFormat selects how sections are rendered.
type PrintFormat string

const (
	FormatTable PrintFormat = "table"
	FormatCSV   PrintFormat = "csv"
)

func (f PrintFormat) IsValid() bool {
	return f == FormatTable || f == FormatCSV
}

// WriteSections prints the sections twice: once sorted by meeting time
// and once sorted by section number.
func WriteSections(w io.Writer, sections []Section, format PrintFormat) error {
	byTime := make([]Section, len(sections))
	copy(byTime, sections)
	sort.SliceStable(byTime, func(i, j int) bool {
		if byTime[i].Days != byTime[j].Days {
			return byTime[i].Days < byTime[j].Days
		}
		return byTime[i].StartTime < byTime[j].StartTime
	})

	byID := make([]Section, len(sections))
	copy(byID, sections)
	sort.SliceStable(byID, func(i, j int) bool {
		return byID[i].Number < byID[j].Number
	})

	if err := writeSectionList(w, "Sorted by time", byTime, format); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return writeSectionList(w, "Sorted by ID", byID, format)
}

func writeSectionList(w io.Writer, title string, sections []Section, format PrintFormat) error {
	switch format {
	case FormatCSV:
		if _, err := fmt.Fprintf(w, "%s:\n\n", title); err != nil {
			return err
		}
		for _, section := range sections {
			_, err := fmt.Fprintf(w, "%s,%s,%s,%s-%s\n",
				section.Number, section.Location, section.Days, section.StartTime, section.EndTime)
			if err != nil {
				return err
			}
		}
		return nil

	case FormatTable:
		if _, err := fmt.Fprintf(w, "%s\n\n", title); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join([]string{"ID", "Location", "Days", "Start Time", "End Time"}, "\t"))
		for _, section := range sections {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				section.Number, section.Location, section.Days, section.StartTime, section.EndTime)
		}
		return tw.Flush()

	default:
		return fmt.Errorf("unknown print format %q", format)
	}
}
