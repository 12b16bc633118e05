package models

// Product is a bookable service offered by one trainer. Price and duration
// are snapshotted onto the booking at creation time, so editing a product
// never rewrites existing bookings.
type Product struct {
	ID          string  `bson:"id" json:"id"`
	TrainerID   string  `bson:"trainerId" json:"trainerId"`
	Name        string  `bson:"name" json:"name"`
	DurationMin int     `bson:"durationMin" json:"durationMin"` // one of 30, 45, 60, 90
	Price       float64 `bson:"price" json:"price"`
	Currency    string  `bson:"currency" json:"currency"`
	IntroOffer  bool    `bson:"introOffer,omitempty" json:"introOffer,omitempty"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
}

// ValidDuration reports whether the duration is one of the offered lengths.
func (p *Product) ValidDuration() bool {
	switch p.DurationMin {
	case 30, 45, 60, 90:
		return true
	}
	return false
}
