package booking

import (
	"context"
	"testing"
	"time"

	"fitbook/database/repository/memory"
	"fitbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// newTestService seeds a fresh in-memory store with one trainer
// (Tuesdays 09:00-17:00, 60-minute stride), a 60-minute product, a client
// and the venue. The clock is pinned to the Monday before testDate.
func newTestService(t *testing.T) (*DefaultBookingService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()

	trainer := &models.Trainer{
		ID:   "t1",
		Name: "Olena",
		Rules: []models.AvailabilityRule{{
			ID: "r1", Weekday: 2, Start: "09:00", End: "17:00",
			SlotSizeMin: 60, BufferBeforeMin: 0, BufferAfterMin: 0,
		}},
	}
	require.NoError(t, store.Trainers().Create(trainer))
	require.NoError(t, store.Products().Create(&models.Product{
		ID: "p1", TrainerID: "t1", Name: "PT session",
		DurationMin: 60, Price: 800, Currency: "UAH",
	}))
	require.NoError(t, store.Clients().Create(&models.Client{ID: "c1", Name: "Ivan"}))
	require.NoError(t, store.Venue().Set(&models.Venue{ID: "v1", Name: "Iron Temple", TZ: "Europe/Kyiv"}))

	svc := &DefaultBookingService{
		Trainers:   store.Trainers(),
		Products:   store.Products(),
		Clients:    store.Clients(),
		VenueRepo:  store.Venue(),
		Bookings:   store.Bookings(),
		Payments:   store.PaymentIntents(),
		CheckIns:   store.CheckIns(),
		Exceptions: store.Exceptions(),
		Clock:      fixedClock{t: time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)},
	}
	return svc, store
}

func validRequest() models.BookingRequest {
	return models.BookingRequest{
		TrainerID: "t1",
		ProductID: "p1",
		Date:      testDate,
		Start:     "11:00",
		ClientID:  "c1",
	}
}

func TestCreateBooking(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, models.BookingHeld, b.State)
	assert.Equal(t, "12:00", b.End)
	assert.Equal(t, 800.0, b.Price)
	assert.Equal(t, "UAH", b.Currency)
	assert.Equal(t, "v1", b.VenueID)
	assert.NotEmpty(t, b.Code)
	assert.NotEmpty(t, b.QRPayload)

	intent, err := svc.GetPaymentIntent(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPreauthHold, intent.State)
	assert.Equal(t, 800.0, intent.Amount)
	require.Len(t, intent.Events, 1)
	assert.Equal(t, "preauth_hold", intent.Events[0].Type)

	// The freshly held booking claims its slot immediately.
	slots, err := svc.Slots("t1", "p1", testDate)
	require.NoError(t, err)
	taken := slotByStart(t, slots, "11:00")
	assert.False(t, taken.Available)
	assert.Equal(t, ReasonBooked, taken.Reason)
}

func TestCreateBooking_QRPayloadVerifies(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	id, err := VerifyQRPayload(b.QRPayload)
	require.NoError(t, err)
	assert.Equal(t, b.ID, id)
}

func TestCreateBooking_SlotAlreadyTaken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, CodeSlotUnavailable, ErrorCode(err))
}

func TestCreateBooking_AdjacentSlotStillBookable(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	// 10:00-11:00 abuts the held 11:00-12:00 slot without overlapping it.
	req := validRequest()
	req.Start = "10:00"
	_, err = svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)
}

func TestCreateBooking_UnknownTrainer(t *testing.T) {
	svc, _ := newTestService(t)

	req := validRequest()
	req.TrainerID = "ghost"
	_, err := svc.CreateBooking(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, ErrorCode(err))
}

func TestCreateBooking_ProductOfOtherTrainer(t *testing.T) {
	svc, store := newTestService(t)
	require.NoError(t, store.Trainers().Create(&models.Trainer{ID: "t2", Name: "Max"}))
	require.NoError(t, store.Products().Create(&models.Product{
		ID: "p2", TrainerID: "t2", Name: "Stretching", DurationMin: 30, Price: 400, Currency: "UAH",
	}))

	req := validRequest()
	req.ProductID = "p2"
	_, err := svc.CreateBooking(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, ErrorCode(err))
}

func TestCreateBooking_PastSlotRejected(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Clock = fixedClock{t: time.Date(2025, 6, 10, 11, 30, 0, 0, time.UTC)}

	_, err := svc.CreateBooking(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, CodeSlotUnavailable, ErrorCode(err))
}

func TestCreateBooking_MissingFields(t *testing.T) {
	svc, _ := newTestService(t)

	req := validRequest()
	req.ClientID = ""
	_, err := svc.CreateBooking(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, CodeInvalidFormat, ErrorCode(err))
}

func TestConfirmBooking(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmBooking(b.ID))

	got, err := svc.GetBooking(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, got.State)

	intent, err := svc.GetPaymentIntent(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCaptured, intent.State)
	require.Len(t, intent.Events, 2)
	assert.Equal(t, "captured", intent.Events[1].Type)

	// Redelivered confirmations are no-ops.
	require.NoError(t, svc.ConfirmBooking(b.ID))
	intent, err = svc.GetPaymentIntent(b.ID)
	require.NoError(t, err)
	require.Len(t, intent.Events, 2)
}

func TestFullLifecycle(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmBooking(b.ID))

	checkIn, err := svc.CheckInBooking(b.ID, "client_qr")
	require.NoError(t, err)
	assert.Equal(t, b.ID, checkIn.BookingID)
	assert.Equal(t, "client_qr", checkIn.Method)

	require.NoError(t, svc.CompleteBooking(b.ID))

	got, err := svc.GetBooking(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, got.State)
}

func TestIllegalTransitionRejected(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	// held -> completed skips confirmation and check-in.
	err = svc.CompleteBooking(b.ID)
	require.Error(t, err)
	assert.Equal(t, CodeInconsistentState, ErrorCode(err))

	got, err := svc.GetBooking(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingHeld, got.State)
}

func TestCancelHeldBooking_VoidsHoldAndFreesSlot(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)
	require.NoError(t, svc.CancelBooking(b.ID, false))

	got, err := svc.GetBooking(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCanceledClient, got.State)

	intent, err := svc.GetPaymentIntent(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentVoided, intent.State)

	// A late auto-confirmation must not resurrect the booking.
	err = svc.ConfirmBooking(b.ID)
	require.Error(t, err)
	assert.Equal(t, CodeInconsistentState, ErrorCode(err))

	// The slot is bookable again.
	slots, err := svc.Slots("t1", "p1", testDate)
	require.NoError(t, err)
	assert.True(t, slotByStart(t, slots, "11:00").Available)
}

func TestCancelConfirmedBooking_Refunds(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmBooking(b.ID))
	require.NoError(t, svc.CancelBooking(b.ID, true))

	got, err := svc.GetBooking(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCanceledTrainer, got.State)

	intent, err := svc.GetPaymentIntent(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, intent.State)
}

func TestTrainerCannotCancelHeldBooking(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	err = svc.CancelBooking(b.ID, true)
	require.Error(t, err)
	assert.Equal(t, CodeInconsistentState, ErrorCode(err))
}

func TestMarkNoShow_CapturesHold(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmBooking(b.ID))
	require.NoError(t, svc.MarkNoShow(b.ID))

	got, err := svc.GetBooking(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingNoShow, got.State)

	intent, err := svc.GetPaymentIntent(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCaptured, intent.State)
	assert.Equal(t, "no_show_captured", intent.Events[len(intent.Events)-1].Type)
}

func TestGetBookingByCode(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	got, err := svc.GetBookingByCode(b.Code)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.GetBookingByCode("BKG-NOPE")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, ErrorCode(err))
}

func TestConcurrentCreate_OnlyOneWins(t *testing.T) {
	svc, _ := newTestService(t)

	const callers = 8
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, err := svc.CreateBooking(context.Background(), validRequest())
			errs <- err
		}()
	}

	var won, lost int
	for i := 0; i < callers; i++ {
		if err := <-errs; err == nil {
			won++
		} else {
			require.Equal(t, CodeSlotUnavailable, ErrorCode(err))
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, callers-1, lost)
}
