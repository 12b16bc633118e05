package models

import "time"

// BookingState is the lifecycle state of a booking. It is only advanced
// through the transition table in services/booking; handlers and
// repositories never assign it directly.
type BookingState string

const (
	BookingDraft           BookingState = "draft" // declared but never produced, reserved for a pre-check step
	BookingHeld            BookingState = "held"
	BookingConfirmed       BookingState = "confirmed"
	BookingCheckedIn       BookingState = "checked_in"
	BookingCompleted       BookingState = "completed"
	BookingCanceledClient  BookingState = "canceled_client"
	BookingCanceledTrainer BookingState = "canceled_trainer"
	BookingNoShow          BookingState = "no_show"
)

// Terminal reports whether the state admits no further transitions.
func (s BookingState) Terminal() bool {
	switch s {
	case BookingCompleted, BookingCanceledClient, BookingCanceledTrainer, BookingNoShow:
		return true
	}
	return false
}

// HoldsSlot reports whether a booking in this state still occupies its
// calendar slot. Terminal states free the slot for re-booking.
func (s BookingState) HoldsSlot() bool {
	switch s {
	case BookingHeld, BookingConfirmed, BookingCheckedIn:
		return true
	}
	return false
}

// Booking is the central transactional record. End, price and currency are
// copies taken from the product at creation time and are never recomputed.
type Booking struct {
	ID               string       `bson:"id" json:"id"`
	TrainerID        string       `bson:"trainerId" json:"trainerId"`
	ClientID         string       `bson:"clientId" json:"clientId"`
	VenueID          string       `bson:"venueId" json:"venueId"`
	ProductID        string       `bson:"productId" json:"productId"`
	Date             string       `bson:"date" json:"date"`   // "YYYY-MM-DD"
	Start            string       `bson:"start" json:"start"` // "HH:MM"
	End              string       `bson:"end" json:"end"`     // start + product duration, fixed at creation
	Price            float64      `bson:"price" json:"price"`
	Currency         string       `bson:"currency" json:"currency"`
	State            BookingState `bson:"state" json:"state"`
	WaiverAcceptedAt *time.Time   `bson:"waiverAcceptedAt,omitempty" json:"waiverAcceptedAt,omitempty"`
	Code             string       `bson:"code" json:"code"`           // human-facing short identifier
	QRPayload        string       `bson:"qrPayload" json:"qrPayload"` // opaque check-in token
	CreatedAt        time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// TimeSlot is one candidate bookable interval produced by the availability
// resolver. Reason is set only when the slot is unavailable.
type TimeSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"` // "Booked", "Past" or "Closed"
}

// BookingRequest is the input to CreateBooking. All fields are required.
type BookingRequest struct {
	TrainerID string `json:"trainerId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Start     string `json:"start" binding:"required"`
	ClientID  string `json:"clientId" binding:"required"`
}
