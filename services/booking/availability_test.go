package booking

import (
	"testing"
	"time"

	"fitbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-06-10 is a Tuesday (ISO weekday 2).
const testDate = "2025-06-10"

func testTrainer(rules ...models.AvailabilityRule) *models.Trainer {
	return &models.Trainer{ID: "t1", Name: "Olena", Rules: rules}
}

func testProduct(durationMin int) *models.Product {
	return &models.Product{ID: "p1", TrainerID: "t1", Name: "PT session", DurationMin: durationMin, Price: 800, Currency: "UAH"}
}

func rule(start, end string, slotSize, bufBefore, bufAfter int) models.AvailabilityRule {
	return models.AvailabilityRule{
		ID: "r1", Weekday: 2, Start: start, End: end,
		SlotSizeMin: slotSize, BufferBeforeMin: bufBefore, BufferAfterMin: bufAfter,
	}
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02T15:04", value)
	require.NoError(t, err)
	return ts
}

func slotByStart(t *testing.T, slots []models.TimeSlot, start string) models.TimeSlot {
	t.Helper()
	for _, s := range slots {
		if s.Start == start {
			return s
		}
	}
	t.Fatalf("no slot starting at %s", start)
	return models.TimeSlot{}
}

func TestGenerateTimeSlots_PastExclusion(t *testing.T) {
	trainer := testTrainer(rule("09:00", "17:00", 60, 0, 0))
	now := at(t, "2025-06-10T10:30")

	slots, err := GenerateTimeSlots(trainer, testProduct(60), testDate, nil, nil, now)
	require.NoError(t, err)
	require.Len(t, slots, 8) // 09:00 .. 16:00

	for _, start := range []string{"09:00", "10:00"} {
		s := slotByStart(t, slots, start)
		assert.False(t, s.Available, start)
		assert.Equal(t, ReasonPast, s.Reason, start)
	}
	for _, start := range []string{"11:00", "12:00", "16:00"} {
		s := slotByStart(t, slots, start)
		assert.True(t, s.Available, start)
		assert.Empty(t, s.Reason, start)
	}
}

func TestGenerateTimeSlots_BufferRespected(t *testing.T) {
	trainer := testTrainer(rule("09:00", "12:00", 60, 15, 15))
	booked := []models.Booking{{
		ID: "b1", TrainerID: "t1", Date: testDate,
		Start: "10:00", End: "11:00", State: models.BookingConfirmed,
	}}
	now := at(t, "2025-06-01T08:00")

	slots, err := GenerateTimeSlots(trainer, testProduct(60), testDate, booked, nil, now)
	require.NoError(t, err)
	// 11:00 does not fit: 11:00 + 60 + 15 > 12:00.
	require.Len(t, slots, 2)

	nine := slotByStart(t, slots, "09:00")
	assert.False(t, nine.Available)
	assert.Equal(t, ReasonBooked, nine.Reason)

	ten := slotByStart(t, slots, "10:00")
	assert.False(t, ten.Available)
	assert.Equal(t, ReasonBooked, ten.Reason)
}

func TestGenerateTimeSlots_TerminalBookingsDoNotBlock(t *testing.T) {
	trainer := testTrainer(rule("09:00", "12:00", 60, 0, 0))
	booked := []models.Booking{{
		ID: "b1", TrainerID: "t1", Date: testDate,
		Start: "10:00", End: "11:00", State: models.BookingCanceledClient,
	}}
	now := at(t, "2025-06-01T08:00")

	slots, err := GenerateTimeSlots(trainer, testProduct(60), testDate, booked, nil, now)
	require.NoError(t, err)
	assert.True(t, slotByStart(t, slots, "10:00").Available)
}

func TestGenerateTimeSlots_Blackout(t *testing.T) {
	trainer := testTrainer(rule("09:00", "17:00", 60, 0, 0))
	trainer.BlackoutDates = []string{testDate}

	slots, err := GenerateTimeSlots(trainer, testProduct(60), testDate, nil, nil, at(t, "2025-06-01T08:00"))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateTimeSlots_NoMatchingRule(t *testing.T) {
	weekendRule := rule("09:00", "17:00", 60, 0, 0)
	weekendRule.Weekday = 6
	trainer := testTrainer(weekendRule)

	slots, err := GenerateTimeSlots(trainer, testProduct(60), testDate, nil, nil, at(t, "2025-06-01T08:00"))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateTimeSlots_PartialTrailingPeriodNotOffered(t *testing.T) {
	// 09:00-10:30 with a 60-minute service: only 09:00 fits in full.
	trainer := testTrainer(rule("09:00", "10:30", 60, 0, 0))

	slots, err := GenerateTimeSlots(trainer, testProduct(60), testDate, nil, nil, at(t, "2025-06-01T08:00"))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "09:00", slots[0].Start)
}

func TestGenerateTimeSlots_OverlappingRulesKeepDuplicateStarts(t *testing.T) {
	r1 := rule("09:00", "11:00", 60, 0, 0)
	r2 := rule("09:00", "12:00", 60, 0, 0)
	r2.ID = "r2"
	trainer := testTrainer(r1, r2)

	slots, err := GenerateTimeSlots(trainer, testProduct(60), testDate, nil, nil, at(t, "2025-06-01T08:00"))
	require.NoError(t, err)
	// r1 emits 09:00, 10:00; r2 emits 09:00, 10:00, 11:00. No dedup.
	require.Len(t, slots, 5)
	assert.Equal(t, "09:00", slots[0].Start)
	assert.Equal(t, "09:00", slots[1].Start)
	assert.Equal(t, "11:00", slots[4].Start)
}

func TestGenerateTimeSlots_SortedAcrossRules(t *testing.T) {
	afternoon := rule("14:00", "16:00", 60, 0, 0)
	afternoon.ID = "r2"
	trainer := testTrainer(afternoon, rule("09:00", "11:00", 60, 0, 0))

	slots, err := GenerateTimeSlots(trainer, testProduct(60), testDate, nil, nil, at(t, "2025-06-01T08:00"))
	require.NoError(t, err)
	for i := 1; i < len(slots); i++ {
		assert.LessOrEqual(t, slots[i-1].Start, slots[i].Start)
	}
}

func TestGenerateTimeSlots_ClosedExceptionMasksSlots(t *testing.T) {
	trainer := testTrainer(rule("09:00", "12:00", 60, 0, 0))
	exceptions := []models.ExceptionWindow{{
		ID: "e1", TrainerID: "t1", Date: testDate,
		Start: "10:00", End: "11:00", Type: models.ExceptionClosed,
	}}

	slots, err := GenerateTimeSlots(trainer, testProduct(60), testDate, nil, exceptions, at(t, "2025-06-01T08:00"))
	require.NoError(t, err)

	ten := slotByStart(t, slots, "10:00")
	assert.False(t, ten.Available)
	assert.Equal(t, ReasonClosed, ten.Reason)
	assert.True(t, slotByStart(t, slots, "09:00").Available)
	assert.True(t, slotByStart(t, slots, "11:00").Available)
}

func TestGenerateTimeSlots_ExtendedExceptionAddsCapacity(t *testing.T) {
	trainer := testTrainer(rule("09:00", "11:00", 60, 0, 0))
	exceptions := []models.ExceptionWindow{{
		ID: "e1", TrainerID: "t1", Date: testDate,
		Start: "18:00", End: "20:00", Type: models.ExceptionExtended,
	}}

	slots, err := GenerateTimeSlots(trainer, testProduct(60), testDate, nil, exceptions, at(t, "2025-06-01T08:00"))
	require.NoError(t, err)
	require.Len(t, slots, 4) // 09:00, 10:00 from the rule; 18:00, 19:00 extended

	evening := slotByStart(t, slots, "18:00")
	assert.True(t, evening.Available)
	assert.Equal(t, "19:00", evening.End)
}

func TestGenerateTimeSlots_ExtendedSlotsStillConflictChecked(t *testing.T) {
	trainer := testTrainer(rule("09:00", "10:00", 60, 0, 0))
	exceptions := []models.ExceptionWindow{{
		ID: "e1", TrainerID: "t1", Date: testDate,
		Start: "18:00", End: "19:00", Type: models.ExceptionExtended,
	}}
	booked := []models.Booking{{
		ID: "b1", TrainerID: "t1", Date: testDate,
		Start: "18:00", End: "19:00", State: models.BookingHeld,
	}}

	slots, err := GenerateTimeSlots(trainer, testProduct(60), testDate, booked, exceptions, at(t, "2025-06-01T08:00"))
	require.NoError(t, err)

	evening := slotByStart(t, slots, "18:00")
	assert.False(t, evening.Available)
	assert.Equal(t, ReasonBooked, evening.Reason)
}

func TestGenerateTimeSlots_BadDate(t *testing.T) {
	trainer := testTrainer(rule("09:00", "17:00", 60, 0, 0))
	_, err := GenerateTimeSlots(trainer, testProduct(60), "June 10", nil, nil, at(t, "2025-06-01T08:00"))
	require.Error(t, err)
	assert.Equal(t, CodeInvalidFormat, ErrorCode(err))
}
