package matcher

import (
	"math/rand"
	"sort"

	"github.com/mirawen/course-staff-tools/pkg/core/model"
)

// PrefKey identifies a (user, slot) pair in a preference map.
type PrefKey struct {
	UserID string
	SlotID string
}

// Problem is one category's assignment problem: the users, the slots,
// and the preference of every user for every slot. Built once per run
// and never mutated while solving.
type Problem struct {
	Category    model.Category
	Users       []model.User
	Slots       []model.Slot
	Preferences []model.Preference

	prefs map[PrefKey]float64
}

// NewProblem validates the raw user, slot, and preference records and
// assembles them into a Problem. It fails with a ValidationError if a
// preference references an unknown user or slot, if any min/max bound
// is inverted or negative, or if an identifier is duplicated.
func NewProblem(category model.Category, users []model.User, slots []model.Slot, preferences []model.Preference) (*Problem, error) {
	userIDs := make(map[string]bool, len(users))
	for _, user := range users {
		if userIDs[user.ID] {
			return nil, ValidationErrorf("duplicate user %q", user.ID)
		}
		userIDs[user.ID] = true

		if user.MinSlots < 0 {
			return nil, ValidationErrorf("user %q has negative min slots %d", user.ID, user.MinSlots)
		}
		if user.MinSlots > user.MaxSlots {
			return nil, ValidationErrorf("user %q has min slots %d greater than max slots %d",
				user.ID, user.MinSlots, user.MaxSlots)
		}
	}

	slotIDs := make(map[string]bool, len(slots))
	for _, slot := range slots {
		if slotIDs[slot.ID] {
			return nil, ValidationErrorf("duplicate slot %q", slot.ID)
		}
		slotIDs[slot.ID] = true

		if slot.MinUsers < 0 {
			return nil, ValidationErrorf("slot %q has negative min users %d", slot.ID, slot.MinUsers)
		}
		if slot.MinUsers > slot.MaxUsers {
			return nil, ValidationErrorf("slot %q has min users %d greater than max users %d",
				slot.ID, slot.MinUsers, slot.MaxUsers)
		}
	}

	prefs := make(map[PrefKey]float64, len(preferences))
	for _, pref := range preferences {
		if !userIDs[pref.UserID] {
			return nil, ValidationErrorf("preference references unknown user %q", pref.UserID)
		}
		if !slotIDs[pref.SlotID] {
			return nil, ValidationErrorf("preference references unknown slot %q", pref.SlotID)
		}
		prefs[PrefKey{UserID: pref.UserID, SlotID: pref.SlotID}] = pref.Value
	}

	return &Problem{
		Category:    category,
		Users:       users,
		Slots:       slots,
		Preferences: preferences,
		prefs:       prefs,
	}, nil
}

// Preference returns the preference of a user for a slot.
// Missing pairs default to zero, meaning the pair can never be assigned.
func (p *Problem) Preference(userID, slotID string) float64 {
	return p.prefs[PrefKey{UserID: userID, SlotID: slotID}]
}

// SlotByID returns the slot with the given ID.
func (p *Problem) SlotByID(id string) (model.Slot, bool) {
	for _, slot := range p.Slots {
		if slot.ID == id {
			return slot, true
		}
	}
	return model.Slot{}, false
}

// Shuffle randomizes the iteration order of users, slots, and
// preferences for tie-breaking. Inputs are sorted before shuffling so
// the result depends only on the seed, never on the original file order.
func (p *Problem) Shuffle(rng *rand.Rand) {
	sort.Slice(p.Users, func(i, j int) bool { return p.Users[i].ID < p.Users[j].ID })
	sort.Slice(p.Slots, func(i, j int) bool { return p.Slots[i].ID < p.Slots[j].ID })
	sort.Slice(p.Preferences, func(i, j int) bool {
		if p.Preferences[i].UserID != p.Preferences[j].UserID {
			return p.Preferences[i].UserID < p.Preferences[j].UserID
		}
		return p.Preferences[i].SlotID < p.Preferences[j].SlotID
	})

	rng.Shuffle(len(p.Users), func(i, j int) { p.Users[i], p.Users[j] = p.Users[j], p.Users[i] })
	rng.Shuffle(len(p.Slots), func(i, j int) { p.Slots[i], p.Slots[j] = p.Slots[j], p.Slots[i] })
	rng.Shuffle(len(p.Preferences), func(i, j int) {
		p.Preferences[i], p.Preferences[j] = p.Preferences[j], p.Preferences[i]
	})
}

// Empty reports whether the problem has nothing to solve.
func (p *Problem) Empty() bool {
	return p == nil || len(p.Slots) == 0 || len(p.Preferences) == 0
}
