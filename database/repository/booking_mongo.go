package repository

import (
	"fmt"
	"time"

	"fitbook/database"
	"fitbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB. The intents
// collection is held alongside so booking + payment intent creation can run
// in one session transaction.
type MongoBookingRepo struct {
	coll       *mongo.Collection
	intentColl *mongo.Collection
}

// NewMongoBookingRepo creates a BookingRepository backed by MongoDB.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database(dbName)
	repo := &MongoBookingRepo{
		coll:       db.Collection("bookings"),
		intentColl: db.Collection("payment_intents"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	liveStates := bson.A{
		string(models.BookingHeld),
		string(models.BookingConfirmed),
		string(models.BookingCheckedIn),
	}
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}}},
		// Storage-level backstop for the no-double-booking guarantee: at
		// most one live booking per trainer, date and start.
		{
			Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"state": bson.M{"$in": liveStates}}),
		},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// CreateWithIntent inserts the booking and its payment intent inside one
// session transaction, so a failed intent write rolls the booking back.
func (r *MongoBookingRepo) CreateWithIntent(booking *models.Booking, intent *models.PaymentIntent) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			return nil, fmt.Errorf("insert booking failed: %w", err)
		}
		if _, err := r.intentColl.InsertOne(sc, intent); err != nil {
			return nil, fmt.Errorf("insert payment intent failed: %w", err)
		}
		return nil, nil
	}
	if _, err := sess.WithTransaction(ctx, txnFn); err != nil {
		return fmt.Errorf("failed to create booking %s: %w", booking.ID, err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	return r.findOne(bson.M{"id": id}, id)
}

func (r *MongoBookingRepo) GetByCode(code string) (*models.Booking, error) {
	return r.findOne(bson.M{"code": code}, code)
}

func (r *MongoBookingRepo) findOne(filter bson.M, key string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, filter).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("booking %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", key, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) Update(booking *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": booking.ID}, bson.M{"$set": booking})
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", booking.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking %s: %w", booking.ID, ErrNotFound)
	}
	return nil
}

func (r *MongoBookingRepo) ListByTrainerDate(trainerID, date string) ([]models.Booking, error) {
	return r.list(bson.M{"trainerId": trainerID, "date": date})
}

func (r *MongoBookingRepo) ListByClient(clientID string) ([]models.Booking, error) {
	return r.list(bson.M{"clientId": clientID})
}

func (r *MongoBookingRepo) list(filter bson.M) ([]models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
