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

// MongoExceptionRepo implements ExceptionRepository using MongoDB.
type MongoExceptionRepo struct {
	coll *mongo.Collection
}

// NewMongoExceptionRepo creates an ExceptionRepository backed by MongoDB.
func NewMongoExceptionRepo() ExceptionRepository {
	coll := database.MongoClient.Database(dbName).Collection("availability_exceptions")
	repo := &MongoExceptionRepo{coll: coll}

	ctx, cancel := newContext(10 * time.Second)
	defer cancel()
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "date", Value: 1}}},
	})
	if err != nil {
		fmt.Printf("failed to create exception indexes: %v\n", err)
	}
	return repo
}

func (r *MongoExceptionRepo) Create(window *models.ExceptionWindow) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, window); err != nil {
		return fmt.Errorf("failed to create exception window: %w", err)
	}
	return nil
}

func (r *MongoExceptionRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete exception window %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("exception window %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *MongoExceptionRepo) ListByTrainerDate(trainerID, date string) ([]models.ExceptionWindow, error) {
	return r.list(bson.M{"trainerId": trainerID, "date": date})
}

func (r *MongoExceptionRepo) ListByTrainer(trainerID string) ([]models.ExceptionWindow, error) {
	return r.list(bson.M{"trainerId": trainerID})
}

func (r *MongoExceptionRepo) list(filter bson.M) ([]models.ExceptionWindow, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list exception windows: %w", err)
	}
	defer cursor.Close(ctx)

	var windows []models.ExceptionWindow
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("failed to decode exception windows: %w", err)
	}
	return windows, nil
}
