package model

// Category distinguishes the two kinds of slots the matcher handles.
type Category string

const (
	CategorySection Category = "section"
	CategoryOH      Category = "oh"
)

func (c Category) IsValid() bool {
	return c == CategorySection || c == CategoryOH
}

// User represents a staff member being assigned to slots
type User struct {
	ID   string
	Name string

	// MinSlots and MaxSlots are inclusive bounds on the total number of
	// slots assigned to this user
	MinSlots int
	MaxSlots int
}

// Slot represents a schedulable time/location unit (a discussion section
// or an office-hour block)
type Slot struct {
	ID string

	// Days this slot meets on, where 0 = Monday and 6 = Sunday
	Days []int

	StartTime TimeOfDay
	EndTime   TimeOfDay
	Location  string

	// MinUsers and MaxUsers are inclusive bounds on the number of users
	// assigned to this slot
	MinUsers int
	MaxUsers int
}

// TimeKey returns a location-free key identifying when this slot meets.
// Two slots at the same time in different rooms share a TimeKey.
func (s Slot) TimeKey() string {
	return FormatDays(s.Days) + " " + s.StartTime.String() + "-" + s.EndTime.String()
}

// Preference is the weight a user places on a slot.
// Zero means the user can never be assigned to the slot. The flow
// strategy requires non-negative values; the optimization strategy also
// accepts negative values as a strong disincentive.
type Preference struct {
	UserID string
	SlotID string
	Value  float64
}
