package matcher

import "time"

// GlobalBonusScope selects which slot categories the global consecutive
// bonus applies to.
type GlobalBonusScope string

const (
	GlobalBonusNone    GlobalBonusScope = "none"
	GlobalBonusSection GlobalBonusScope = "section"
	GlobalBonusOH      GlobalBonusScope = "oh"
	GlobalBonusAll     GlobalBonusScope = "all"
)

func (s GlobalBonusScope) IsValid() bool {
	switch s {
	case GlobalBonusNone, GlobalBonusSection, GlobalBonusOH, GlobalBonusAll:
		return true
	}
	return false
}

// Config holds the tunable weights and toggles of the matcher.
type Config struct {
	// SectionBias weights the section objective against the OH
	// objective: objective = bias*section + (1-bias)*oh.
	// Sections are generally more important, hence the high default.
	SectionBias float64

	// MaximizeFilledSlots adds a bonus per filled (user, slot) pair,
	// favoring assignments that fill as many pairs as possible.
	MaximizeFilledSlots       bool
	MaximizeFilledSlotsWeight float64

	// ConsecutiveBonus rewards a user holding two back-to-back slots.
	ConsecutiveBonus       bool
	ConsecutiveBonusWeight float64

	// GlobalConsecutiveBonus rewards back-to-back slots being staffed
	// at all, regardless of by whom.
	GlobalConsecutiveBonus       GlobalBonusScope
	GlobalConsecutiveBonusWeight float64

	// SameTimeBonus rewards a user holding the same time slot across
	// different days. Deliberately small; a tie-breaker only.
	SameTimeBonus       bool
	SameTimeBonusWeight float64

	// ConflictTolerance is the slack used when detecting consecutive
	// and same-time slot pairs.
	ConflictTolerance time.Duration

	// CrossCategoryConflicts enforces that a user cannot hold a section
	// and an OH slot at the same time.
	CrossCategoryConflicts bool
}

// DefaultConfig returns the matcher defaults.
func DefaultConfig() Config {
	return Config{
		SectionBias:                  0.75,
		MaximizeFilledSlots:          false,
		MaximizeFilledSlotsWeight:    1000,
		ConsecutiveBonus:             true,
		ConsecutiveBonusWeight:       0.75,
		GlobalConsecutiveBonus:       GlobalBonusOH,
		GlobalConsecutiveBonusWeight: 1,
		SameTimeBonus:                true,
		SameTimeBonusWeight:          0.1,
		ConflictTolerance:            time.Minute,
		CrossCategoryConflicts:       true,
	}
}
