package schedule

import (
	"sort"
	"time"

	"github.com/mirawen/course-staff-tools/pkg/core/model"
)

// Conflict is a pair of slots whose meeting intervals overlap in time.
// A user can never be assigned to both members of a conflict.
type Conflict struct {
	A model.Slot
	B model.Slot
}

const (
	eventEnd = iota
	eventStart
)

// event marks the start or end of one meeting interval during the sweep.
type event struct {
	at   time.Time
	kind int // eventEnd before eventStart at equal times (half-open intervals)
	slot int // index into the slot list the event came from
	list int // which slot list (for cross-category sweeps)
}

// eventsForSlots expands all slots into sorted start/end events.
// End events sort before start events at the same instant, so intervals
// like [9:00,10:00) and [10:00,11:00) never register as overlapping.
func eventsForSlots(lists ...[]model.Slot) ([]event, error) {
	var events []event
	for listIdx, slots := range lists {
		for slotIdx, slot := range slots {
			intervals, err := MeetingTimes(slot)
			if err != nil {
				return nil, err
			}
			for _, iv := range intervals {
				events = append(events,
					event{at: iv.Start, kind: eventStart, slot: slotIdx, list: listIdx},
					event{at: iv.End, kind: eventEnd, slot: slotIdx, list: listIdx},
				)
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].at.Equal(events[j].at) {
			return events[i].at.Before(events[j].at)
		}
		if events[i].kind != events[j].kind {
			return events[i].kind < events[j].kind
		}
		if events[i].list != events[j].list {
			return events[i].list < events[j].list
		}
		return events[i].slot < events[j].slot
	})

	return events, nil
}

// Conflicts finds every pair of slots that share at least one day and
// whose time intervals overlap. Each pair is reported once, in a
// deterministic order for a fixed input order.
func Conflicts(slots []model.Slot) ([]Conflict, error) {
	events, err := eventsForSlots(slots)
	if err != nil {
		return nil, err
	}

	var conflicts []Conflict
	seen := make(map[[2]int]bool)
	ongoing := make(map[int]bool)

	for _, ev := range events {
		if ev.kind == eventEnd {
			delete(ongoing, ev.slot)
			continue
		}

		for _, other := range sortedKeys(ongoing) {
			key := [2]int{other, ev.slot}
			if other > ev.slot {
				key = [2]int{ev.slot, other}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			conflicts = append(conflicts, Conflict{A: slots[key[0]], B: slots[key[1]]})
		}
		ongoing[ev.slot] = true
	}

	return conflicts, nil
}

// CrossConflicts finds every overlapping pair across two slot lists.
// The first member of each conflict always comes from the first list.
func CrossConflicts(slots1, slots2 []model.Slot) ([]Conflict, error) {
	events, err := eventsForSlots(slots1, slots2)
	if err != nil {
		return nil, err
	}

	var conflicts []Conflict
	seen := make(map[[2]int]bool)
	ongoing := [2]map[int]bool{make(map[int]bool), make(map[int]bool)}

	for _, ev := range events {
		if ev.kind == eventEnd {
			delete(ongoing[ev.list], ev.slot)
			continue
		}

		// only pairs across the two lists conflict here
		otherList := 1 - ev.list
		for _, other := range sortedKeys(ongoing[otherList]) {
			key := [2]int{ev.slot, other}
			if ev.list == 1 {
				key = [2]int{other, ev.slot}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			conflicts = append(conflicts, Conflict{A: slots1[key[0]], B: slots2[key[1]]})
		}
		ongoing[ev.list][ev.slot] = true
	}

	return conflicts, nil
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
