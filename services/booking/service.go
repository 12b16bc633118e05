package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"fitbook/database/repository"
	"fitbook/models"
	"fitbook/services/tasks"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	slotCacheTTL    = 30 * time.Second
	codeMaxAttempts = 5
	cacheOpTimeout  = 5 * time.Second
)

// trainerLock returns the mutex serializing all slot-check-and-write
// operations for one trainer. Holding it across re-validation and persist
// is what keeps two racing callers from booking overlapping slots.
func (s *DefaultBookingService) trainerLock(trainerID string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(trainerID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *DefaultBookingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// Slots resolves the bookable slots for (trainer, product, date), serving
// from the Redis cache when a fresh entry exists.
func (s *DefaultBookingService) Slots(trainerID, productID, date string) ([]models.TimeSlot, error) {
	if s.Cache != nil {
		if slots, ok := s.cachedSlots(trainerID, productID, date); ok {
			return slots, nil
		}
	}

	trainer, product, err := s.resolveTrainerProduct(trainerID, productID)
	if err != nil {
		return nil, err
	}
	slots, err := s.computeSlots(trainer, product, date)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.storeSlots(trainerID, productID, date, slots)
	}
	return slots, nil
}

// computeSlots gathers the trainer's bookings and exception windows for the
// date and runs the resolver.
func (s *DefaultBookingService) computeSlots(trainer *models.Trainer, product *models.Product, date string) ([]models.TimeSlot, error) {
	bookings, err := s.Bookings.ListByTrainerDate(trainer.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for %s on %s: %w", trainer.ID, date, err)
	}
	exceptions, err := s.Exceptions.ListByTrainerDate(trainer.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load exceptions for %s on %s: %w", trainer.ID, date, err)
	}
	return GenerateTimeSlots(trainer, product, date, bookings, exceptions, s.now())
}

func (s *DefaultBookingService) resolveTrainerProduct(trainerID, productID string) (*models.Trainer, *models.Product, error) {
	trainer, err := s.Trainers.GetByID(trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, NewNotFoundError(fmt.Sprintf("trainer %s does not exist", trainerID))
		}
		return nil, nil, err
	}
	product, err := s.Products.GetByID(productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, NewNotFoundError(fmt.Sprintf("product %s does not exist", productID))
		}
		return nil, nil, err
	}
	if product.TrainerID != trainer.ID {
		return nil, nil, NewNotFoundError(
			fmt.Sprintf("product %s does not belong to trainer %s", productID, trainerID))
	}
	return trainer, product, nil
}

// CreateBooking re-validates the requested slot under the trainer's lock,
// persists the booking together with its payment hold, and schedules the
// deferred auto-confirmation.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	if req.TrainerID == "" || req.ProductID == "" || req.Date == "" || req.Start == "" || req.ClientID == "" {
		return nil, NewInvalidFormatError("trainerId, productId, date, start and clientId are all required")
	}
	startMin, err := ParseTime(req.Start)
	if err != nil {
		return nil, err
	}

	trainer, product, err := s.resolveTrainerProduct(req.TrainerID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Clients.GetByID(req.ClientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("client %s does not exist", req.ClientID))
		}
		return nil, err
	}
	venue, err := s.VenueRepo.Get()
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError("venue is not configured")
		}
		return nil, err
	}

	lock := s.trainerLock(req.TrainerID)
	lock.Lock()
	defer lock.Unlock()

	// Re-check availability now, not trusting the caller's slot list.
	slots, err := s.computeSlots(trainer, product, req.Date)
	if err != nil {
		return nil, err
	}
	if !slotOffered(slots, req.Start) {
		return nil, NewSlotUnavailableError(
			fmt.Sprintf("slot %s on %s is no longer available", req.Start, req.Date))
	}

	now := s.now()
	bookingID := uuid.New().String()
	code, err := s.uniqueCode(bookingID, req.TrainerID, req.Date, req.Start)
	if err != nil {
		return nil, err
	}

	newBooking := &models.Booking{
		ID:        bookingID,
		TrainerID: req.TrainerID,
		ClientID:  req.ClientID,
		VenueID:   venue.ID,
		ProductID: req.ProductID,
		Date:      req.Date,
		Start:     req.Start,
		End:       FormatTime(startMin + product.DurationMin),
		Price:     product.Price,
		Currency:  product.Currency,
		State:     models.BookingHeld,
		Code:      code,
		QRPayload: buildQRPayload(bookingID, code),
		CreatedAt: now,
		UpdatedAt: now,
	}
	intent := &models.PaymentIntent{
		ID:        uuid.New().String(),
		BookingID: bookingID,
		State:     models.PaymentPreauthHold,
		Amount:    product.Price,
		Currency:  product.Currency,
	}
	intent.Append(now, "preauth_hold", "Payment held for booking confirmation")

	if err := s.Bookings.CreateWithIntent(newBooking, intent); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}
	s.invalidateSlots(req.TrainerID, req.Date)
	s.scheduleConfirmation(bookingID, now)

	s.logger().Info("booking created",
		zap.String("booking", bookingID),
		zap.String("code", code),
		zap.String("trainer", req.TrainerID),
		zap.String("date", req.Date),
		zap.String("start", req.Start))
	return newBooking, nil
}

// slotOffered reports whether start appears in the resolved slot list as an
// available slot.
func slotOffered(slots []models.TimeSlot, start string) bool {
	for _, slot := range slots {
		if slot.Start == start && slot.Available {
			return true
		}
	}
	return false
}

// uniqueCode derives the booking code, salting retries until no existing
// booking carries it.
func (s *DefaultBookingService) uniqueCode(bookingID, trainerID, date, start string) (string, error) {
	for attempt := 0; attempt < codeMaxAttempts; attempt++ {
		code := bookingCode(bookingID, trainerID, date, start, attempt)
		_, err := s.Bookings.GetByCode(code)
		if errors.Is(err, repository.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
	}
	return "", fmt.Errorf("could not derive a unique booking code after %d attempts", codeMaxAttempts)
}

// scheduleConfirmation enqueues the deferred auto-confirmation. The handler
// is conditional on the booking still being held, so a booking canceled
// before the task fires never receives a late confirm.
func (s *DefaultBookingService) scheduleConfirmation(bookingID string, now time.Time) {
	if s.Queue == nil {
		return
	}
	delay := s.ConfirmDelay
	if delay <= 0 {
		delay = time.Second
	}
	task, opts, err := tasks.NewBookingConfirmTask(bookingID, now.Add(delay))
	if err != nil {
		s.logger().Error("failed to build confirmation task", zap.String("booking", bookingID), zap.Error(err))
		return
	}
	if _, err := s.Queue.Enqueue(task, opts...); err != nil {
		s.logger().Error("failed to enqueue confirmation task", zap.String("booking", bookingID), zap.Error(err))
	}
}

// ConfirmBooking moves a held booking to confirmed and captures the payment
// hold. Confirming an already-confirmed booking is a no-op, so redelivered
// confirmation tasks are harmless.
func (s *DefaultBookingService) ConfirmBooking(bookingID string) error {
	return s.advance(bookingID, models.BookingConfirmed, func(b *models.Booking) error {
		if b.State == models.BookingConfirmed {
			return errAlreadyDone
		}
		return nil
	})
}

// CheckInBooking marks the client as arrived and writes a CheckIn record.
func (s *DefaultBookingService) CheckInBooking(bookingID, method string) (*models.CheckIn, error) {
	if err := s.advance(bookingID, models.BookingCheckedIn, nil); err != nil {
		return nil, err
	}
	checkIn := &models.CheckIn{
		ID:        uuid.New().String(),
		BookingID: bookingID,
		At:        s.now(),
		Method:    method,
	}
	if err := s.CheckIns.Create(checkIn); err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}
	return checkIn, nil
}

// CompleteBooking closes out a checked-in session.
func (s *DefaultBookingService) CompleteBooking(bookingID string) error {
	return s.advance(bookingID, models.BookingCompleted, nil)
}

// CancelBooking cancels on behalf of the client or the trainer. Which
// cancellations are legal from which states is the transition table's call.
func (s *DefaultBookingService) CancelBooking(bookingID string, byTrainer bool) error {
	to := models.BookingCanceledClient
	if byTrainer {
		to = models.BookingCanceledTrainer
	}
	return s.advance(bookingID, to, nil)
}

// MarkNoShow records that the client never arrived.
func (s *DefaultBookingService) MarkNoShow(bookingID string) error {
	return s.advance(bookingID, models.BookingNoShow, nil)
}

// errAlreadyDone signals an idempotent no-op from an advance precheck.
var errAlreadyDone = errors.New("transition already applied")

// advance runs one state transition under the trainer's lock, advancing the
// payment intent in lockstep and invalidating the cached slot lists.
func (s *DefaultBookingService) advance(bookingID string, to models.BookingState, precheck func(*models.Booking) error) error {
	b, err := s.GetBooking(bookingID)
	if err != nil {
		return err
	}

	lock := s.trainerLock(b.TrainerID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock: another caller may have advanced it.
	b, err = s.GetBooking(bookingID)
	if err != nil {
		return err
	}
	if precheck != nil {
		if err := precheck(b); err != nil {
			if errors.Is(err, errAlreadyDone) {
				return nil
			}
			return err
		}
	}

	now := s.now()
	from := b.State
	if err := transition(b, to, now); err != nil {
		return err
	}
	if err := s.Bookings.Update(b); err != nil {
		return fmt.Errorf("failed to persist booking %s: %w", bookingID, err)
	}

	intent, err := s.Payments.GetByBookingID(bookingID)
	if err != nil {
		return fmt.Errorf("booking %s has no payment intent: %w", bookingID, err)
	}
	applyPaymentStep(intent, from, to, now)
	if err := s.Payments.Update(intent); err != nil {
		return fmt.Errorf("failed to persist payment intent for booking %s: %w", bookingID, err)
	}

	s.invalidateSlots(b.TrainerID, b.Date)
	s.logger().Info("booking transitioned",
		zap.String("booking", bookingID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return nil
}

func (s *DefaultBookingService) GetBooking(bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("booking %s does not exist", bookingID))
		}
		return nil, err
	}
	return b, nil
}

func (s *DefaultBookingService) GetBookingByCode(code string) (*models.Booking, error) {
	b, err := s.Bookings.GetByCode(code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("no booking with code %s", code))
		}
		return nil, err
	}
	return b, nil
}

func (s *DefaultBookingService) GetPaymentIntent(bookingID string) (*models.PaymentIntent, error) {
	intent, err := s.Payments.GetByBookingID(bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("no payment intent for booking %s", bookingID))
		}
		return nil, err
	}
	return intent, nil
}

func (s *DefaultBookingService) ListTrainerBookings(trainerID, date string) ([]models.Booking, error) {
	return s.Bookings.ListByTrainerDate(trainerID, date)
}

func (s *DefaultBookingService) ListClientBookings(clientID string) ([]models.Booking, error) {
	return s.Bookings.ListByClient(clientID)
}

// --- slot cache ---

// Slot lists are cached per (trainer, date, product) under a version key
// bumped on every booking write, so invalidation does not need to know
// which products were cached.
func (s *DefaultBookingService) slotCacheKeys(trainerID, productID, date string) (verKey string, dataKey func(ver string) string) {
	verKey = fmt.Sprintf("slotver:%s:%s", trainerID, date)
	dataKey = func(ver string) string {
		return fmt.Sprintf("slots:%s:%s:%s:%s", trainerID, date, productID, ver)
	}
	return verKey, dataKey
}

func (s *DefaultBookingService) cachedSlots(trainerID, productID, date string) ([]models.TimeSlot, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()

	verKey, dataKey := s.slotCacheKeys(trainerID, productID, date)
	ver, err := s.Cache.Get(ctx, verKey).Result()
	if err != nil {
		return nil, false
	}
	raw, err := s.Cache.Get(ctx, dataKey(ver)).Result()
	if err != nil {
		return nil, false
	}
	var slots []models.TimeSlot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (s *DefaultBookingService) storeSlots(trainerID, productID, date string, slots []models.TimeSlot) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()

	verKey, dataKey := s.slotCacheKeys(trainerID, productID, date)
	ver, err := s.Cache.Get(ctx, verKey).Result()
	if err != nil {
		ver = "0"
		if err := s.Cache.Set(ctx, verKey, ver, slotCacheTTL).Err(); err != nil {
			return
		}
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, dataKey(ver), raw, slotCacheTTL).Err(); err != nil {
		s.logger().Debug("slot cache write failed", zap.Error(err))
	}
}

// invalidateSlots bumps the trainer/date cache version so stale slot lists
// stop being served.
func (s *DefaultBookingService) invalidateSlots(trainerID, date string) {
	if s.Cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()

	verKey := fmt.Sprintf("slotver:%s:%s", trainerID, date)
	if err := s.Cache.Incr(ctx, verKey).Err(); err != nil {
		s.logger().Debug("slot cache invalidation failed", zap.Error(err))
	}
}
