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

// MongoCheckInRepo implements CheckInRepository using MongoDB.
type MongoCheckInRepo struct {
	coll *mongo.Collection
}

// NewMongoCheckInRepo creates a CheckInRepository backed by MongoDB.
func NewMongoCheckInRepo() CheckInRepository {
	return &MongoCheckInRepo{
		coll: database.MongoClient.Database(dbName).Collection("checkins"),
	}
}

func (r *MongoCheckInRepo) Create(checkIn *models.CheckIn) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, checkIn); err != nil {
		return fmt.Errorf("failed to create check-in: %w", err)
	}
	return nil
}

func (r *MongoCheckInRepo) ListByBooking(bookingID string) ([]models.CheckIn, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"bookingId": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins for booking %s: %w", bookingID, err)
	}
	defer cursor.Close(ctx)

	var checkIns []models.CheckIn
	if err := cursor.All(ctx, &checkIns); err != nil {
		return nil, fmt.Errorf("failed to decode check-ins: %w", err)
	}
	return checkIns, nil
}

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo creates a ReviewRepository backed by MongoDB.
func NewMongoReviewRepo() ReviewRepository {
	return &MongoReviewRepo{
		coll: database.MongoClient.Database(dbName).Collection("reviews"),
	}
}

func (r *MongoReviewRepo) Create(review *models.Review) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *MongoReviewRepo) ListByBooking(bookingID string) ([]models.Review, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"bookingId": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for booking %s: %w", bookingID, err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// MongoSettingsRepo implements SettingsRepository using MongoDB with a
// single settings document.
type MongoSettingsRepo struct {
	coll *mongo.Collection
}

// NewMongoSettingsRepo creates a SettingsRepository backed by MongoDB.
func NewMongoSettingsRepo() SettingsRepository {
	return &MongoSettingsRepo{
		coll: database.MongoClient.Database(dbName).Collection("settings"),
	}
}

func (r *MongoSettingsRepo) Get() (*models.Settings, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var settings models.Settings
	err := r.coll.FindOne(ctx, bson.M{}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		// Defaults apply until someone saves settings.
		return &models.Settings{Locale: "en", Theme: "system"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	return &settings, nil
}

func (r *MongoSettingsRepo) Set(settings *models.Settings) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": settings}
	if _, err := r.coll.UpdateOne(ctx, bson.M{}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
