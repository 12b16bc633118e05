package booking

import (
	"context"
	"sync"
	"time"

	"fitbook/database/repository"
	"fitbook/models"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BookingService is the surface the HTTP layer and the confirmation worker
// talk to.
type BookingService interface {
	Slots(trainerID, productID, date string) ([]models.TimeSlot, error)
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	ConfirmBooking(bookingID string) error
	CheckInBooking(bookingID, method string) (*models.CheckIn, error)
	CompleteBooking(bookingID string) error
	CancelBooking(bookingID string, byTrainer bool) error
	MarkNoShow(bookingID string) error
	GetBooking(bookingID string) (*models.Booking, error)
	GetBookingByCode(code string) (*models.Booking, error)
	GetPaymentIntent(bookingID string) (*models.PaymentIntent, error)
	ListTrainerBookings(trainerID, date string) ([]models.Booking, error)
	ListClientBookings(clientID string) ([]models.Booking, error)
}

// DefaultBookingService implements BookingService on top of the repository
// contracts. Cache and Queue may be nil, in which case slot caching and the
// deferred auto-confirmation are skipped (tests run this way).
type DefaultBookingService struct {
	Trainers   repository.TrainerRepository
	Products   repository.ProductRepository
	Clients    repository.ClientRepository
	VenueRepo  repository.VenueRepository
	Bookings   repository.BookingRepository
	Payments   repository.PaymentIntentRepository
	CheckIns   repository.CheckInRepository
	Exceptions repository.ExceptionRepository

	Cache        *redis.Client
	Queue        *asynq.Client
	Clock        Clock
	Logger       *zap.Logger
	ConfirmDelay time.Duration

	locks sync.Map // trainer id -> *sync.Mutex
}
