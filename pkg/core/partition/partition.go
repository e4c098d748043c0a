// Package partition splits a roster of students into rooms by
// alphabetical order of last name, without exceeding room capacities.
//
// The search brute-forces room orderings; when no ordering admits a
// valid split, every capacity is raised by one and the search repeats.
// Room counts are small enough that this is fine.
package partition

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Room is one room and its seating capacity.
type Room struct {
	Name     string
	Capacity int
}

// Options control the partition search and how results are reported.
type Options struct {
	// Scale multiplies every capacity (rounded down) before the search
	Scale float64

	// Sort orders the solutions: "avg" by average fullness, "max" by
	// peak fullness; a leading "-" reverses the order
	Sort string

	// Limit caps the number of reported solutions; -1 reports all
	Limit int

	// NoSinglePrefix rejects solutions where any used room covers only
	// a single letter
	NoSinglePrefix bool
}

// DefaultOptions returns the standard search options.
func DefaultOptions() Options {
	return Options{Scale: 1, Sort: "avg", Limit: -1}
}

// RoomAssignment is one room's share of a solution: the inclusive range
// of last-name prefixes it seats, and how full it ends up.
type RoomAssignment struct {
	Room     string
	Start    string
	End      string
	Filled   int
	Capacity int
}

// Solution is one valid split of the roster across rooms.
type Solution struct {
	AvgFullness float64
	MaxFullness float64
	Rooms       []RoomAssignment
}

// Result holds every solution found at the smallest workable capacity
// relaxation.
type Result struct {
	// ExtraCapacity is how many extra seats per room were needed before
	// any ordering admitted a valid split; zero when the rooms suffice
	ExtraCapacity int
	Solutions     []Solution
}

// Partition searches for all valid alphabetical splits of students into
// rooms. Student names should be "Last, First" so the leading letter is
// the last-name initial.
func Partition(students []string, rooms []Room, opts Options) (*Result, error) {
	if opts.Scale <= 0 {
		return nil, fmt.Errorf("capacity scale must be positive, got %v", opts.Scale)
	}
	switch opts.Sort {
	case "avg", "-avg", "max", "-max":
	default:
		return nil, fmt.Errorf("unknown sort order %q", opts.Sort)
	}

	capacities := make(map[string]int, len(rooms))
	var usable []string
	var empty []string
	for _, room := range rooms {
		if _, dup := capacities[room.Name]; dup {
			return nil, fmt.Errorf("duplicate room %q", room.Name)
		}
		capacity := int(math.Floor(float64(room.Capacity) * opts.Scale))
		capacities[room.Name] = capacity
		if capacity > 0 {
			usable = append(usable, room.Name)
		} else {
			empty = append(empty, room.Name)
		}
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("no room has positive capacity")
	}

	// counts of students per last-name initial
	counts := make(map[byte]int)
	for _, student := range students {
		name := strings.TrimSpace(student)
		if name == "" {
			continue
		}
		initial := strings.ToUpper(name[:1])[0]
		counts[initial]++
	}

	result := &Result{}
	for {
		forEachPermutation(usable, func(order []string) {
			if solution, ok := trySplit(order, empty, capacities, counts, result.ExtraCapacity, opts.NoSinglePrefix); ok {
				result.Solutions = append(result.Solutions, solution)
			}
		})

		if len(result.Solutions) > 0 {
			break
		}
		// rooms too small; relax every capacity by one seat and retry
		result.ExtraCapacity++
	}

	sortSolutions(result.Solutions, opts.Sort)

	if opts.Limit >= 0 && opts.Limit < len(result.Solutions) {
		result.Solutions = result.Solutions[:opts.Limit]
	}

	return result, nil
}

// trySplit walks the alphabet through rooms in the given order, filling
// each room until the next letter group no longer fits.
func trySplit(order, empty []string, capacities map[string]int, counts map[byte]int, extraCapacity int, noSinglePrefix bool) (Solution, bool) {
	filled := make(map[string]int, len(order))
	ranges := make(map[string]*RoomAssignment, len(order))
	for _, room := range order {
		ranges[room] = &RoomAssignment{Room: room, Capacity: capacities[room]}
	}

	roomIdx := 0
	ranges[order[0]].Start = "A"

	for letter := byte('A'); letter <= 'Z'; letter++ {
		if counts[letter] == 0 {
			continue
		}

		// move on to the next room once this letter group doesn't fit
		for roomIdx < len(order) &&
			filled[order[roomIdx]]+counts[letter] > capacities[order[roomIdx]]+extraCapacity {
			roomIdx++
		}
		if roomIdx >= len(order) {
			// ran out of rooms
			return Solution{}, false
		}

		room := order[roomIdx]
		if ranges[room].Start == "" {
			ranges[room].Start = string(letter)
		}
		ranges[room].End = string(letter)
		filled[room] += counts[letter]
	}

	if noSinglePrefix {
		// an unused room counts as a single prefix too
		for _, room := range order {
			if ranges[room].Start == ranges[room].End {
				return Solution{}, false
			}
		}
	}

	solution := Solution{}
	var totalFullness float64
	for _, room := range order {
		ranges[room].Filled = filled[room]
		solution.Rooms = append(solution.Rooms, *ranges[room])

		fullness := float64(filled[room]) / float64(capacities[room])
		totalFullness += fullness
		if fullness > solution.MaxFullness {
			solution.MaxFullness = fullness
		}
	}
	solution.AvgFullness = totalFullness / float64(len(order))

	// zero-capacity rooms tag along unused at the end
	for _, room := range empty {
		solution.Rooms = append(solution.Rooms, RoomAssignment{Room: room, Capacity: capacities[room]})
	}

	return solution, true
}

func sortSolutions(solutions []Solution, order string) {
	sort.SliceStable(solutions, func(i, j int) bool {
		a, b := solutions[i], solutions[j]
		switch order {
		case "avg":
			if a.AvgFullness != b.AvgFullness {
				return a.AvgFullness < b.AvgFullness
			}
			return a.MaxFullness < b.MaxFullness
		case "-avg":
			if a.AvgFullness != b.AvgFullness {
				return a.AvgFullness > b.AvgFullness
			}
			return a.MaxFullness > b.MaxFullness
		case "max":
			if a.MaxFullness != b.MaxFullness {
				return a.MaxFullness < b.MaxFullness
			}
			return a.AvgFullness < b.AvgFullness
		case "-max":
			if a.MaxFullness != b.MaxFullness {
				return a.MaxFullness > b.MaxFullness
			}
			return a.AvgFullness > b.AvgFullness
		}
		return false
	})
}

// forEachPermutation visits every ordering of items.
func forEachPermutation(items []string, visit func([]string)) {
	order := make([]string, len(items))
	copy(order, items)

	var permute func(k int)
	permute = func(k int) {
		if k == len(order) {
			visit(order)
			return
		}
		for i := k; i < len(order); i++ {
			order[k], order[i] = order[i], order[k]
			permute(k + 1)
			order[k], order[i] = order[i], order[k]
		}
	}
	permute(0)
}
