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

// MongoPaymentIntentRepo implements PaymentIntentRepository using MongoDB.
type MongoPaymentIntentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentIntentRepo creates a PaymentIntentRepository backed by
// MongoDB. It reads the same collection MongoBookingRepo writes into.
func NewMongoPaymentIntentRepo() PaymentIntentRepository {
	coll := database.MongoClient.Database(dbName).Collection("payment_intents")
	repo := &MongoPaymentIntentRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create payment intent indexes: %v\n", err)
	}
	return repo
}

func (r *MongoPaymentIntentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// One intent per booking, enforced at the storage layer.
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoPaymentIntentRepo) GetByBookingID(bookingID string) (*models.PaymentIntent, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var intent models.PaymentIntent
	err := r.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&intent)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("payment intent for booking %s: %w", bookingID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment intent for booking %s: %w", bookingID, err)
	}
	return &intent, nil
}

func (r *MongoPaymentIntentRepo) Update(intent *models.PaymentIntent) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": intent.ID}, bson.M{"$set": intent})
	if err != nil {
		return fmt.Errorf("failed to update payment intent %s: %w", intent.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("payment intent %s: %w", intent.ID, ErrNotFound)
	}
	return nil
}
