package models

// AvailabilityRule is a trainer's recurring weekly availability template.
// Many rules may target the same weekday; overlap between them is allowed.
type AvailabilityRule struct {
	ID              string `bson:"id" json:"id"`
	Weekday         int    `bson:"weekday" json:"weekday"`                 // ISO weekday, 1=Monday .. 7=Sunday
	Start           string `bson:"start" json:"start"`                     // "HH:MM"
	End             string `bson:"end" json:"end"`                         // "HH:MM", exclusive
	SlotSizeMin     int    `bson:"slotSizeMin" json:"slotSizeMin"`         // slot stride, not necessarily the service duration
	BufferBeforeMin int    `bson:"bufferBeforeMin" json:"bufferBeforeMin"` // idle minutes kept free before a session
	BufferAfterMin  int    `bson:"bufferAfterMin" json:"bufferAfterMin"`   // idle minutes kept free after a session
}

// ExceptionWindow is a one-off, date-specific override of the weekly rules.
type ExceptionWindow struct {
	ID        string `bson:"id" json:"id"`
	TrainerID string `bson:"trainerId" json:"trainerId"`
	Date      string `bson:"date" json:"date"` // "YYYY-MM-DD"
	Start     string `bson:"start" json:"start"`
	End       string `bson:"end" json:"end"`
	Type      string `bson:"type" json:"type"` // "closed" or "extended"
}

const (
	ExceptionClosed   = "closed"
	ExceptionExtended = "extended"
)

// Trainer owns products, weekly availability rules and blackout dates.
type Trainer struct {
	ID            string             `bson:"id" json:"id"`
	Name          string             `bson:"name" json:"name"`
	AvatarURL     string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Bio           string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Specialties   []string           `bson:"specialties,omitempty" json:"specialties,omitempty"`
	Rating        float64            `bson:"rating,omitempty" json:"rating,omitempty"`
	ReviewCount   int                `bson:"reviewCount,omitempty" json:"reviewCount,omitempty"`
	Products      []string           `bson:"products,omitempty" json:"products,omitempty"` // product IDs
	Rules         []AvailabilityRule `bson:"availabilityRules" json:"availabilityRules"`
	BlackoutDates []string           `bson:"blackoutDates" json:"blackoutDates"` // "YYYY-MM-DD" dates with no slots at all
}

// RulesForWeekday returns every rule of the trainer matching the ISO weekday.
func (t *Trainer) RulesForWeekday(weekday int) []AvailabilityRule {
	var rules []AvailabilityRule
	for _, r := range t.Rules {
		if r.Weekday == weekday {
			rules = append(rules, r)
		}
	}
	return rules
}

// IsBlackedOut reports whether the trainer offers no slots on the date.
func (t *Trainer) IsBlackedOut(date string) bool {
	for _, d := range t.BlackoutDates {
		if d == date {
			return true
		}
	}
	return false
}
