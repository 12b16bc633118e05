package booking

import (
	"testing"
	"time"

	"fitbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	legal := []struct {
		from, to models.BookingState
	}{
		{models.BookingHeld, models.BookingConfirmed},
		{models.BookingHeld, models.BookingCanceledClient},
		{models.BookingHeld, models.BookingNoShow},
		{models.BookingConfirmed, models.BookingCheckedIn},
		{models.BookingConfirmed, models.BookingCanceledClient},
		{models.BookingConfirmed, models.BookingCanceledTrainer},
		{models.BookingConfirmed, models.BookingNoShow},
		{models.BookingCheckedIn, models.BookingCompleted},
		{models.BookingCheckedIn, models.BookingCanceledTrainer},
	}
	for _, tc := range legal {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	illegal := []struct {
		from, to models.BookingState
	}{
		{models.BookingHeld, models.BookingCompleted},
		{models.BookingHeld, models.BookingCheckedIn},
		{models.BookingHeld, models.BookingCanceledTrainer},
		{models.BookingCheckedIn, models.BookingCanceledClient},
		{models.BookingCompleted, models.BookingConfirmed},
		{models.BookingCanceledClient, models.BookingHeld},
		{models.BookingNoShow, models.BookingConfirmed},
		{models.BookingCompleted, models.BookingNoShow},
	}
	for _, tc := range illegal {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransition_RejectsIllegalMove(t *testing.T) {
	b := &models.Booking{ID: "b1", State: models.BookingHeld}
	err := transition(b, models.BookingCompleted, time.Now())
	require.Error(t, err)
	assert.Equal(t, CodeInconsistentState, ErrorCode(err))
	assert.Equal(t, models.BookingHeld, b.State)
}

func TestTransition_UpdatesTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	b := &models.Booking{ID: "b1", State: models.BookingHeld}
	require.NoError(t, transition(b, models.BookingConfirmed, now))
	assert.Equal(t, models.BookingConfirmed, b.State)
	assert.Equal(t, now, b.UpdatedAt)
}

func TestApplyPaymentStep(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		from, to  models.BookingState
		wantState models.PaymentState
		wantEvent string
	}{
		{"confirm captures", models.BookingHeld, models.BookingConfirmed, models.PaymentCaptured, "captured"},
		{"cancel from held voids", models.BookingHeld, models.BookingCanceledClient, models.PaymentVoided, "voided"},
		{"cancel from confirmed refunds", models.BookingConfirmed, models.BookingCanceledClient, models.PaymentRefunded, "refunded"},
		{"trainer cancel refunds", models.BookingCheckedIn, models.BookingCanceledTrainer, models.PaymentRefunded, "refunded"},
		{"no-show captures", models.BookingConfirmed, models.BookingNoShow, models.PaymentCaptured, "no_show_captured"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			intent := &models.PaymentIntent{ID: "pi1", BookingID: "b1", State: models.PaymentPreauthHold}
			applyPaymentStep(intent, tc.from, tc.to, now)
			assert.Equal(t, tc.wantState, intent.State)
			require.Len(t, intent.Events, 1)
			assert.Equal(t, tc.wantEvent, intent.Events[0].Type)
		})
	}
}

func TestApplyPaymentStep_CompletionLeavesIntentAlone(t *testing.T) {
	intent := &models.PaymentIntent{ID: "pi1", BookingID: "b1", State: models.PaymentCaptured}
	applyPaymentStep(intent, models.BookingCheckedIn, models.BookingCompleted, time.Now())
	assert.Equal(t, models.PaymentCaptured, intent.State)
	assert.Empty(t, intent.Events)
}
