package booking

import (
	"fmt"
	"time"

	"fitbook/models"
)

// bookingTransitions is the legal booking state table. A transition absent
// here fails with inconsistentState; there is no way back out of a terminal
// state.
var bookingTransitions = map[models.BookingState]map[models.BookingState]bool{
	models.BookingHeld: {
		models.BookingConfirmed:      true,
		models.BookingCanceledClient: true,
		models.BookingNoShow:         true,
	},
	models.BookingConfirmed: {
		models.BookingCheckedIn:       true,
		models.BookingCanceledClient:  true,
		models.BookingCanceledTrainer: true,
		models.BookingNoShow:          true,
	},
	models.BookingCheckedIn: {
		models.BookingCompleted:       true,
		models.BookingCanceledTrainer: true,
		models.BookingNoShow:          true,
	},
}

// CanTransition reports whether from -> to is in the legal state table.
func CanTransition(from, to models.BookingState) bool {
	return bookingTransitions[from][to]
}

// transition advances a booking, enforcing the state table.
func transition(b *models.Booking, to models.BookingState, at time.Time) error {
	if !CanTransition(b.State, to) {
		return NewInconsistentStateError(
			fmt.Sprintf("booking %s cannot move from %s to %s", b.ID, b.State, to))
	}
	b.State = to
	b.UpdatedAt = at
	return nil
}

// paymentStep is the payment-side effect of one booking transition.
type paymentStep struct {
	state models.PaymentState
	event string
	note  string
}

// paymentSteps is the joint booking/payment table: every booking transition
// maps to at most one payment transition. Completion leaves the intent
// alone, the capture already happened at confirmation.
var paymentSteps = map[models.BookingState]paymentStep{
	models.BookingConfirmed: {
		state: models.PaymentCaptured,
		event: "captured",
		note:  "Booking confirmed, payment captured",
	},
	models.BookingCanceledClient: {
		// Refined below: a cancel from held voids instead of refunding.
		state: models.PaymentRefunded,
		event: "refunded",
		note:  "Booking canceled by client, payment refunded",
	},
	models.BookingCanceledTrainer: {
		state: models.PaymentRefunded,
		event: "refunded",
		note:  "Booking canceled by trainer, payment refunded",
	},
	models.BookingNoShow: {
		state: models.PaymentCaptured,
		event: "no_show_captured",
		note:  "Client did not show, hold captured",
	},
}

// applyPaymentStep advances the payment intent in lockstep with the booking
// transition from -> to.
func applyPaymentStep(intent *models.PaymentIntent, from, to models.BookingState, at time.Time) {
	step, ok := paymentSteps[to]
	if !ok {
		return
	}
	if to == models.BookingCanceledClient && from == models.BookingHeld {
		// Nothing was captured yet, the hold is simply released.
		step = paymentStep{
			state: models.PaymentVoided,
			event: "voided",
			note:  "Booking canceled before confirmation, hold released",
		}
	}
	intent.State = step.state
	intent.Append(at, step.event, step.note)
}
