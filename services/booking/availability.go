package booking

import (
	"sort"
	"time"

	"fitbook/models"
)

// Slot unavailability reasons.
const (
	ReasonBooked = "Booked"
	ReasonPast   = "Past"
	ReasonClosed = "Closed"
)

// bookedInterval is an existing booking's raw occupied range in minutes.
type bookedInterval struct {
	start int
	end   int
}

// GenerateTimeSlots computes the ordered bookable slots for one trainer,
// product and calendar day. Bookings must be the trainer's bookings on that
// date (any state; slot-holding states are filtered here) and exceptions the
// trainer's exception windows for that date.
//
// No matching rule or a blacked-out date yields an empty sequence, not an
// error. Candidates from overlapping rules are not deduplicated: two rules
// generating the same start produce two entries, matching the calendar UI's
// historical behavior.
func GenerateTimeSlots(
	trainer *models.Trainer,
	product *models.Product,
	date string,
	bookings []models.Booking,
	exceptions []models.ExceptionWindow,
	now time.Time,
) ([]models.TimeSlot, error) {
	day, err := parseDate(date, now.Location())
	if err != nil {
		return nil, err
	}

	rules := trainer.RulesForWeekday(isoWeekday(day))
	if len(rules) == 0 {
		return []models.TimeSlot{}, nil
	}
	if trainer.IsBlackedOut(date) {
		return []models.TimeSlot{}, nil
	}

	occupied := occupiedIntervals(bookings)
	closed, extended := splitExceptions(exceptions)

	slots := []models.TimeSlot{}
	for _, rule := range rules {
		ruleStart, err := ParseTime(rule.Start)
		if err != nil {
			return nil, err
		}
		ruleEnd, err := ParseTime(rule.End)
		if err != nil {
			return nil, err
		}

		for cur := ruleStart; cur+product.DurationMin+rule.BufferAfterMin <= ruleEnd; cur += rule.SlotSizeMin {
			slots = append(slots, buildSlot(cur, product.DurationMin,
				rule.BufferBeforeMin, rule.BufferAfterMin,
				day, now, occupied, closed))
		}
	}

	// Extended windows add one-off capacity: product-duration stride, no
	// buffers, same conflict and past tests as rule slots.
	for _, win := range extended {
		winStart, err := ParseTime(win.Start)
		if err != nil {
			return nil, err
		}
		winEnd, err := ParseTime(win.End)
		if err != nil {
			return nil, err
		}
		for cur := winStart; cur+product.DurationMin <= winEnd; cur += product.DurationMin {
			slots = append(slots, buildSlot(cur, product.DurationMin, 0, 0,
				day, now, occupied, closed))
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start < slots[j].Start
	})
	return slots, nil
}

// buildSlot evaluates one candidate start against existing bookings, closed
// windows and the clock.
func buildSlot(
	start, durationMin, bufferBefore, bufferAfter int,
	day time.Time, now time.Time,
	occupied []bookedInterval,
	closed []bookedInterval,
) models.TimeSlot {
	bufferedStart := start - bufferBefore
	bufferedEnd := start + durationMin + bufferAfter

	conflict := false
	for _, b := range occupied {
		// Half-open overlap of the buffered candidate against the raw
		// booking interval.
		if !(bufferedEnd <= b.start || bufferedStart >= b.end) {
			conflict = true
			break
		}
	}

	inClosed := false
	for _, w := range closed {
		if !(start+durationMin <= w.start || start >= w.end) {
			inClosed = true
			break
		}
	}

	slotTime := day.Add(time.Duration(start) * time.Minute)
	past := slotTime.Before(now)

	slot := models.TimeSlot{
		Start:     FormatTime(start),
		End:       FormatTime(start + durationMin),
		Available: !conflict && !past && !inClosed,
	}
	switch {
	case conflict:
		slot.Reason = ReasonBooked
	case past:
		slot.Reason = ReasonPast
	case inClosed:
		slot.Reason = ReasonClosed
	}
	return slot
}

// occupiedIntervals collects the raw intervals of bookings that still hold
// their slot. Malformed records are skipped rather than failing the whole
// day.
func occupiedIntervals(bookings []models.Booking) []bookedInterval {
	var out []bookedInterval
	for _, b := range bookings {
		if !b.State.HoldsSlot() {
			continue
		}
		start, err := ParseTime(b.Start)
		if err != nil {
			continue
		}
		end, err := ParseTime(b.End)
		if err != nil {
			continue
		}
		out = append(out, bookedInterval{start: start, end: end})
	}
	return out
}

// splitExceptions partitions a day's exception windows into closed masks and
// extended capacity windows, dropping entries with unparseable times later
// at expansion time.
func splitExceptions(exceptions []models.ExceptionWindow) (closed []bookedInterval, extended []models.ExceptionWindow) {
	for _, ex := range exceptions {
		switch ex.Type {
		case models.ExceptionClosed:
			start, err := ParseTime(ex.Start)
			if err != nil {
				continue
			}
			end, err := ParseTime(ex.End)
			if err != nil {
				continue
			}
			closed = append(closed, bookedInterval{start: start, end: end})
		case models.ExceptionExtended:
			extended = append(extended, ex)
		}
	}
	return closed, extended
}
