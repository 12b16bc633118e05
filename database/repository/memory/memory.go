// Package memory provides an in-process implementation of the repository
// contracts. It backs the test suite and local development without a
// running MongoDB.
package memory

import (
	"fmt"
	"sync"

	"fitbook/database/repository"
	"fitbook/models"
)

// Store holds every collection behind one mutex. Individual repositories
// are views over the same store, mirroring the shared-database shape of the
// Mongo implementations.
type Store struct {
	mu         sync.Mutex
	trainers   map[string]models.Trainer
	products   map[string]models.Product
	clients    map[string]models.Client
	bookings   map[string]models.Booking
	intents    map[string]models.PaymentIntent // keyed by booking id
	checkIns   []models.CheckIn
	reviews    []models.Review
	exceptions map[string]models.ExceptionWindow
	venue      *models.Venue
	settings   *models.Settings
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		trainers:   make(map[string]models.Trainer),
		products:   make(map[string]models.Product),
		clients:    make(map[string]models.Client),
		bookings:   make(map[string]models.Booking),
		intents:    make(map[string]models.PaymentIntent),
		exceptions: make(map[string]models.ExceptionWindow),
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, repository.ErrNotFound)
}

// --- TrainerRepository ---

type TrainerRepo struct{ s *Store }

func (s *Store) Trainers() repository.TrainerRepository { return &TrainerRepo{s} }

func (r *TrainerRepo) Create(t *models.Trainer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.trainers[t.ID] = *t
	return nil
}

func (r *TrainerRepo) GetByID(id string) (*models.Trainer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trainers[id]
	if !ok {
		return nil, notFound("trainer", id)
	}
	return &t, nil
}

func (r *TrainerRepo) Update(t *models.Trainer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trainers[t.ID]; !ok {
		return notFound("trainer", t.ID)
	}
	r.s.trainers[t.ID] = *t
	return nil
}

func (r *TrainerRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trainers[id]; !ok {
		return notFound("trainer", id)
	}
	delete(r.s.trainers, id)
	return nil
}

func (r *TrainerRepo) List() ([]models.Trainer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Trainer, 0, len(r.s.trainers))
	for _, t := range r.s.trainers {
		out = append(out, t)
	}
	return out, nil
}

// --- ProductRepository ---

type ProductRepo struct{ s *Store }

func (s *Store) Products() repository.ProductRepository { return &ProductRepo{s} }

func (r *ProductRepo) Create(p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(id string) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, notFound("product", id)
	}
	return &p, nil
}

func (r *ProductRepo) Update(p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return notFound("product", p.ID)
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return notFound("product", id)
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) ListByTrainer(trainerID string) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Product
	for _, p := range r.s.products {
		if p.TrainerID == trainerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- ClientRepository ---

type ClientRepo struct{ s *Store }

func (s *Store) Clients() repository.ClientRepository { return &ClientRepo{s} }

func (r *ClientRepo) Create(c *models.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) GetByID(id string) (*models.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, notFound("client", id)
	}
	return &c, nil
}

// --- VenueRepository ---

type VenueRepo struct{ s *Store }

func (s *Store) Venue() repository.VenueRepository { return &VenueRepo{s} }

func (r *VenueRepo) Get() (*models.Venue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.venue == nil {
		return nil, notFound("venue", "")
	}
	v := *r.s.venue
	return &v, nil
}

func (r *VenueRepo) Set(v *models.Venue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	venue := *v
	r.s.venue = &venue
	return nil
}

// --- BookingRepository ---

type BookingRepo struct{ s *Store }

func (s *Store) Bookings() repository.BookingRepository { return &BookingRepo{s} }

func (r *BookingRepo) CreateWithIntent(b *models.Booking, intent *models.PaymentIntent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// Same backstop the Mongo partial index gives: one live booking per
	// trainer, date and start.
	for _, existing := range r.s.bookings {
		if existing.TrainerID == b.TrainerID && existing.Date == b.Date &&
			existing.Start == b.Start && existing.State.HoldsSlot() {
			return fmt.Errorf("slot %s %s already held by booking %s", b.Date, b.Start, existing.ID)
		}
	}
	r.s.bookings[b.ID] = *b
	r.s.intents[b.ID] = *intent
	return nil
}

func (r *BookingRepo) GetByID(id string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, notFound("booking", id)
	}
	return &b, nil
}

func (r *BookingRepo) GetByCode(code string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.Code == code {
			return &b, nil
		}
	}
	return nil, notFound("booking", code)
}

func (r *BookingRepo) Update(b *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bookings[b.ID]; !ok {
		return notFound("booking", b.ID)
	}
	r.s.bookings[b.ID] = *b
	return nil
}

func (r *BookingRepo) ListByTrainerDate(trainerID, date string) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Booking
	for _, b := range r.s.bookings {
		if b.TrainerID == trainerID && b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *BookingRepo) ListByClient(clientID string) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Booking
	for _, b := range r.s.bookings {
		if b.ClientID == clientID {
			out = append(out, b)
		}
	}
	return out, nil
}

// --- PaymentIntentRepository ---

type PaymentIntentRepo struct{ s *Store }

func (s *Store) PaymentIntents() repository.PaymentIntentRepository { return &PaymentIntentRepo{s} }

func (r *PaymentIntentRepo) GetByBookingID(bookingID string) (*models.PaymentIntent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	intent, ok := r.s.intents[bookingID]
	if !ok {
		return nil, notFound("payment intent for booking", bookingID)
	}
	out := intent
	out.Events = append([]models.PaymentEvent(nil), intent.Events...)
	return &out, nil
}

func (r *PaymentIntentRepo) Update(intent *models.PaymentIntent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.intents[intent.BookingID]; !ok {
		return notFound("payment intent for booking", intent.BookingID)
	}
	stored := *intent
	stored.Events = append([]models.PaymentEvent(nil), intent.Events...)
	r.s.intents[intent.BookingID] = stored
	return nil
}

// --- CheckInRepository ---

type CheckInRepo struct{ s *Store }

func (s *Store) CheckIns() repository.CheckInRepository { return &CheckInRepo{s} }

func (r *CheckInRepo) Create(c *models.CheckIn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.checkIns = append(r.s.checkIns, *c)
	return nil
}

func (r *CheckInRepo) ListByBooking(bookingID string) ([]models.CheckIn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.CheckIn
	for _, c := range r.s.checkIns {
		if c.BookingID == bookingID {
			out = append(out, c)
		}
	}
	return out, nil
}

// --- ReviewRepository ---

type ReviewRepo struct{ s *Store }

func (s *Store) Reviews() repository.ReviewRepository { return &ReviewRepo{s} }

func (r *ReviewRepo) Create(review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reviews = append(r.s.reviews, *review)
	return nil
}

func (r *ReviewRepo) ListByBooking(bookingID string) ([]models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Review
	for _, rev := range r.s.reviews {
		if rev.BookingID == bookingID {
			out = append(out, rev)
		}
	}
	return out, nil
}

// --- ExceptionRepository ---

type ExceptionRepo struct{ s *Store }

func (s *Store) Exceptions() repository.ExceptionRepository { return &ExceptionRepo{s} }

func (r *ExceptionRepo) Create(w *models.ExceptionWindow) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.exceptions[w.ID] = *w
	return nil
}

func (r *ExceptionRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.exceptions[id]; !ok {
		return notFound("exception window", id)
	}
	delete(r.s.exceptions, id)
	return nil
}

func (r *ExceptionRepo) ListByTrainerDate(trainerID, date string) ([]models.ExceptionWindow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.ExceptionWindow
	for _, w := range r.s.exceptions {
		if w.TrainerID == trainerID && w.Date == date {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *ExceptionRepo) ListByTrainer(trainerID string) ([]models.ExceptionWindow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.ExceptionWindow
	for _, w := range r.s.exceptions {
		if w.TrainerID == trainerID {
			out = append(out, w)
		}
	}
	return out, nil
}

// --- SettingsRepository ---

type SettingsRepo struct{ s *Store }

func (s *Store) Settings() repository.SettingsRepository { return &SettingsRepo{s} }

func (r *SettingsRepo) Get() (*models.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.settings == nil {
		return &models.Settings{Locale: "en", Theme: "system"}, nil
	}
	out := *r.s.settings
	return &out, nil
}

func (r *SettingsRepo) Set(settings *models.Settings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s := *settings
	r.s.settings = &s
	return nil
}
