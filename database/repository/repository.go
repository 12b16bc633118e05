package repository

import (
	"errors"

	"fitbook/models"
)

// ErrNotFound is returned by lookups when no record matches. Implementations
// wrap it so callers can test with errors.Is.
var ErrNotFound = errors.New("record not found")

// Per-entity persistence contracts consumed by the booking core. Any store
// that can round-trip these operations is sufficient; the Mongo
// implementations in this package are the production ones and
// repository/memory holds the in-process set used by tests.

// TrainerRepository manages trainers together with their embedded
// availability rules and blackout dates.
type TrainerRepository interface {
	Create(trainer *models.Trainer) error
	GetByID(id string) (*models.Trainer, error)
	Update(trainer *models.Trainer) error
	Delete(id string) error
	List() ([]models.Trainer, error)
}

// ProductRepository manages the per-trainer service catalogue.
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id string) (*models.Product, error)
	Update(product *models.Product) error
	Delete(id string) error
	ListByTrainer(trainerID string) ([]models.Product, error)
}

// ClientRepository manages booking clients.
type ClientRepository interface {
	Create(client *models.Client) error
	GetByID(id string) (*models.Client, error)
}

// VenueRepository holds the single venue record of this deployment.
type VenueRepository interface {
	Get() (*models.Venue, error)
	Set(venue *models.Venue) error
}

// BookingRepository manages bookings. CreateWithIntent persists a booking
// and its payment intent as one unit: both writes land or neither does.
type BookingRepository interface {
	CreateWithIntent(booking *models.Booking, intent *models.PaymentIntent) error
	GetByID(id string) (*models.Booking, error)
	GetByCode(code string) (*models.Booking, error)
	Update(booking *models.Booking) error
	ListByTrainerDate(trainerID, date string) ([]models.Booking, error)
	ListByClient(clientID string) ([]models.Booking, error)
}

// PaymentIntentRepository reads and advances payment intents. Creation
// happens only through BookingRepository.CreateWithIntent.
type PaymentIntentRepository interface {
	GetByBookingID(bookingID string) (*models.PaymentIntent, error)
	Update(intent *models.PaymentIntent) error
}

// CheckInRepository records desk and trainer check-ins.
type CheckInRepository interface {
	Create(checkIn *models.CheckIn) error
	ListByBooking(bookingID string) ([]models.CheckIn, error)
}

// ReviewRepository stores post-session reviews.
type ReviewRepository interface {
	Create(review *models.Review) error
	ListByBooking(bookingID string) ([]models.Review, error)
}

// ExceptionRepository manages one-off availability exception windows.
type ExceptionRepository interface {
	Create(window *models.ExceptionWindow) error
	Delete(id string) error
	ListByTrainerDate(trainerID, date string) ([]models.ExceptionWindow, error)
	ListByTrainer(trainerID string) ([]models.ExceptionWindow, error)
}

// SettingsRepository holds venue-wide defaults.
type SettingsRepository interface {
	Get() (*models.Settings, error)
	Set(settings *models.Settings) error
}
