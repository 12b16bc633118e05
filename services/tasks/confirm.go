package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeBookingConfirm = "booking:confirm"

// BookingConfirmPayload names the booking an enqueued confirmation targets.
type BookingConfirmPayload struct {
	BookingID string `json:"bookingId"`
}

// NewBookingConfirmTask builds the deferred auto-confirmation task for a
// freshly held booking.
func NewBookingConfirmTask(bookingID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(BookingConfirmPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingConfirm, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
