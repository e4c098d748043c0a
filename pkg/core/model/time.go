package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TimeOfDay is a time within a day, stored as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses an ISO-style time string ("14:30" or "14:30:00")
// into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM or HH:MM:SS", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in time %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}

	return TimeOfDay(hour*60 + minute), nil
}

func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// String formats the time in the compact form used for display,
// e.g. "9AM" or "9:30AM".
func (t TimeOfDay) String() string {
	hour := t.Hour()
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}

	displayHour := hour % 12
	if displayHour == 0 {
		displayHour = 12
	}

	if t.Minute() == 0 {
		return fmt.Sprintf("%d%s", displayHour, suffix)
	}
	return fmt.Sprintf("%d:%02d%s", displayHour, t.Minute(), suffix)
}

// dayAbbreviations maps each day index (Monday = 0) to its abbreviation.
// Tuesday/Thursday and Saturday/Sunday need two letters to disambiguate.
var dayAbbreviations = []string{"M", "Tu", "W", "Th", "F", "Sa", "Su"}

var dayByAbbreviation = map[string]int{
	"M":  0,
	"Tu": 1,
	"W":  2,
	"Th": 3,
	"F":  4,
	"Sa": 5,
	"Su": 6,
}

// ParseDays parses a day string into a list of day indices (Monday = 0).
// Each day begins with an uppercase letter followed by lowercase letters,
// so both compact ("TuTh", "WF") and verbose ("Monday, Wednesday") forms
// are accepted.
func ParseDays(s string) ([]int, error) {
	runes := []rune(s)
	var days []int

	for i, c := range runes {
		if !unicode.IsUpper(c) {
			continue
		}

		one := string(c)
		if day, ok := dayByAbbreviation[one]; ok {
			days = append(days, day)
			continue
		}

		if i+1 >= len(runes) {
			return nil, fmt.Errorf("day string %q ends with ambiguous letter %q", s, one)
		}

		two := string(runes[i : i+2])
		day, ok := dayByAbbreviation[two]
		if !ok {
			return nil, fmt.Errorf("unable to identify day starting with %q in %q", two, s)
		}
		days = append(days, day)
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("day string %q contains no days", s)
	}

	return days, nil
}

// FormatDays formats a list of day indices into the compact form, e.g. "TuTh".
func FormatDays(days []int) string {
	var b strings.Builder
	for _, day := range days {
		if day < 0 || day >= len(dayAbbreviations) {
			continue
		}
		b.WriteString(dayAbbreviations[day])
	}
	return b.String()
}

// FormatSlot renders a slot as a human-readable string,
// e.g. "TuTh 9AM-10AM @ Soda 320".
func FormatSlot(slot Slot) string {
	return fmt.Sprintf("%s %s-%s @ %s",
		FormatDays(slot.Days), slot.StartTime, slot.EndTime, slot.Location)
}
