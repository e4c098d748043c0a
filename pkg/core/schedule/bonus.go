package schedule

import (
	"time"

	"github.com/mirawen/course-staff-tools/pkg/core/model"
)

// DefaultTolerance is the slack allowed when deciding whether two slots
// are back to back or occur at the same time.
const DefaultTolerance = time.Minute

// BonusKind classifies why a pair of slots earns a soft objective bonus.
type BonusKind string

const (
	// BonusConsecutive marks two slots on a shared day where one ends
	// (within tolerance) as the other begins.
	BonusConsecutive BonusKind = "consecutive"

	// BonusSameTime marks two slots on disjoint days that occupy the
	// same time of day (within tolerance).
	BonusSameTime BonusKind = "same_time"
)

// BonusPair is a pair of slots eligible for a soft objective bonus.
// Bonus pairs never introduce hard constraints.
type BonusPair struct {
	A    model.Slot
	B    model.Slot
	Kind BonusKind
}

// IsConsecutive reports whether one slot comes immediately before the
// other on a day they share, up to the given tolerance.
func IsConsecutive(a, b model.Slot, tol time.Duration) bool {
	if !shareDay(a, b) {
		return false
	}
	return withinTolerance(a.EndTime, b.StartTime, tol) ||
		withinTolerance(b.EndTime, a.StartTime, tol)
}

// IsSameTime reports whether the two slots occur at the same time of day
// on disjoint days, up to the given tolerance. Slots sharing a day are
// excluded: at the same time on the same day they would overlap instead.
func IsSameTime(a, b model.Slot, tol time.Duration) bool {
	if shareDay(a, b) {
		return false
	}
	return withinTolerance(a.StartTime, b.StartTime, tol) &&
		withinTolerance(a.EndTime, b.EndTime, tol)
}

// BonusPairs scans every pair of slots and reports all consecutive and
// same-time pairs. Pairwise comparison is fine at this scale.
func BonusPairs(slots []model.Slot, tol time.Duration) []BonusPair {
	var pairs []BonusPair
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			switch {
			case IsConsecutive(slots[i], slots[j], tol):
				pairs = append(pairs, BonusPair{A: slots[i], B: slots[j], Kind: BonusConsecutive})
			case IsSameTime(slots[i], slots[j], tol):
				pairs = append(pairs, BonusPair{A: slots[i], B: slots[j], Kind: BonusSameTime})
			}
		}
	}
	return pairs
}

func shareDay(a, b model.Slot) bool {
	for _, dayA := range a.Days {
		for _, dayB := range b.Days {
			if dayA == dayB {
				return true
			}
		}
	}
	return false
}

func withinTolerance(a, b model.TimeOfDay, tol time.Duration) bool {
	diff := time.Duration(a-b) * time.Minute
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol
}
