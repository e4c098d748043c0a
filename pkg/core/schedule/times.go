package schedule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/mirawen/course-staff-tools/pkg/core/model"
)

// referenceMonday anchors the week every slot's meeting pattern is
// expanded onto. Any week works; all comparisons are relative.
var referenceMonday = time.Date(2000, time.June, 12, 0, 0, 0, 0, time.UTC)

// rruleWeekdays maps day indices (Monday = 0) to rrule weekdays.
var rruleWeekdays = []rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// Interval is one concrete meeting of a slot within the reference week.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals [Start, End) intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// MeetingTimes expands a slot's weekly (days, start, end) pattern into
// concrete intervals on the reference week.
func MeetingTimes(slot model.Slot) ([]Interval, error) {
	if slot.EndTime <= slot.StartTime {
		return nil, fmt.Errorf("slot %s: end time %s is not after start time %s",
			slot.ID, slot.EndTime, slot.StartTime)
	}

	byweekday := make([]rrule.Weekday, 0, len(slot.Days))
	for _, day := range slot.Days {
		if day < 0 || day >= len(rruleWeekdays) {
			return nil, fmt.Errorf("slot %s: invalid day index %d", slot.ID, day)
		}
		byweekday = append(byweekday, rruleWeekdays[day])
	}

	dtstart := referenceMonday.Add(time.Duration(slot.StartTime) * time.Minute)
	until := referenceMonday.AddDate(0, 0, 6).Add(time.Duration(slot.StartTime) * time.Minute)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: byweekday,
		Dtstart:   dtstart,
		Until:     until,
	})
	if err != nil {
		return nil, fmt.Errorf("slot %s: building recurrence rule: %w", slot.ID, err)
	}

	duration := time.Duration(slot.EndTime-slot.StartTime) * time.Minute

	starts := rule.All()
	intervals := make([]Interval, 0, len(starts))
	for _, start := range starts {
		intervals = append(intervals, Interval{Start: start, End: start.Add(duration)})
	}

	return intervals, nil
}
