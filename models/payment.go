package models

import "time"

// PaymentState is the simulated payment-hold state attached to a booking.
type PaymentState string

const (
	PaymentNone        PaymentState = "none"
	PaymentPreauthHold PaymentState = "preauth_hold"
	PaymentCaptured    PaymentState = "captured"
	PaymentVoided      PaymentState = "voided"
	PaymentRefunded    PaymentState = "refunded"
)

// PaymentEvent is one entry in a payment intent's append-only log.
type PaymentEvent struct {
	At   time.Time `bson:"at" json:"at"`
	Type string    `bson:"type" json:"type"`
	Note string    `bson:"note,omitempty" json:"note,omitempty"`
}

// PaymentIntent tracks the payment hold for exactly one booking. It is
// created in the same operation as its booking and advanced in lockstep
// with the booking's lifecycle.
type PaymentIntent struct {
	ID        string         `bson:"id" json:"id"`
	BookingID string         `bson:"bookingId" json:"bookingId"`
	State     PaymentState   `bson:"state" json:"state"`
	Amount    float64        `bson:"amount" json:"amount"`
	Currency  string         `bson:"currency" json:"currency"`
	Events    []PaymentEvent `bson:"events" json:"events"`
}

// Append records an event on the intent's log.
func (p *PaymentIntent) Append(at time.Time, eventType, note string) {
	p.Events = append(p.Events, PaymentEvent{At: at, Type: eventType, Note: note})
}
