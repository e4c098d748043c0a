package matcher

import (
	"sort"

	"github.com/google/uuid"
)

// Assignment maps a user ID to the sorted IDs of the slots they occupy.
type Assignment map[string][]string

// Add records a (user, slot) pairing, keeping slot IDs sorted.
func (a Assignment) Add(userID, slotID string) {
	slots := a[userID]
	idx := sort.SearchStrings(slots, slotID)
	if idx < len(slots) && slots[idx] == slotID {
		return
	}
	slots = append(slots, "")
	copy(slots[idx+1:], slots[idx:])
	slots[idx] = slotID
	a[userID] = slots
}

// Has reports whether the user occupies the slot.
func (a Assignment) Has(userID, slotID string) bool {
	slots := a[userID]
	idx := sort.SearchStrings(slots, slotID)
	return idx < len(slots) && slots[idx] == slotID
}

// SlotCount returns the number of users assigned to each slot.
func (a Assignment) SlotCount() map[string]int {
	counts := make(map[string]int)
	for _, slots := range a {
		for _, slotID := range slots {
			counts[slotID]++
		}
	}
	return counts
}

// MatchResult is the output of one matcher run: a complete,
// constraint-satisfying assignment per category, plus the objective
// value the solver achieved.
type MatchResult struct {
	// RunID identifies this solver invocation in logs and output.
	RunID uuid.UUID

	Section Assignment
	OH      Assignment

	// Objective is the solver's objective value (ILP) or total flow
	// cost (flow strategy).
	Objective float64

	// Unmatched lists users the flow strategy could not place.
	// Always empty for the optimization strategy, which fails with an
	// InfeasibleError instead of leaving anyone out.
	Unmatched []string
}

// NewMatchResult allocates an empty result with a fresh run ID.
func NewMatchResult() *MatchResult {
	return &MatchResult{
		RunID:   uuid.New(),
		Section: make(Assignment),
		OH:      make(Assignment),
	}
}
