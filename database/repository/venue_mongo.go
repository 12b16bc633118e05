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

// MongoVenueRepo implements VenueRepository using MongoDB. The collection
// holds a single document for this deployment's venue.
type MongoVenueRepo struct {
	coll *mongo.Collection
}

// NewMongoVenueRepo creates a VenueRepository backed by MongoDB.
func NewMongoVenueRepo() VenueRepository {
	coll := database.MongoClient.Database(dbName).Collection("venue")
	return &MongoVenueRepo{coll: coll}
}

func (r *MongoVenueRepo) Get() (*models.Venue, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var venue models.Venue
	err := r.coll.FindOne(ctx, bson.M{}).Decode(&venue)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("venue: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch venue: %w", err)
	}
	return &venue, nil
}

func (r *MongoVenueRepo) Set(venue *models.Venue) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"id": venue.ID}, venue, opts); err != nil {
		return fmt.Errorf("failed to save venue: %w", err)
	}
	return nil
}
