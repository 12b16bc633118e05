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

// MongoTrainerRepo implements TrainerRepository using MongoDB.
type MongoTrainerRepo struct {
	coll *mongo.Collection
}

// NewMongoTrainerRepo creates a TrainerRepository backed by MongoDB.
func NewMongoTrainerRepo() TrainerRepository {
	coll := database.MongoClient.Database(dbName).Collection("trainers")
	repo := &MongoTrainerRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create trainer indexes: %v\n", err)
	}
	return repo
}

func (r *MongoTrainerRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoTrainerRepo) Create(trainer *models.Trainer) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, trainer); err != nil {
		return fmt.Errorf("failed to create trainer: %w", err)
	}
	return nil
}

func (r *MongoTrainerRepo) GetByID(id string) (*models.Trainer, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var trainer models.Trainer
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&trainer)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("trainer %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trainer %s: %w", id, err)
	}
	return &trainer, nil
}

func (r *MongoTrainerRepo) Update(trainer *models.Trainer) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": trainer.ID}, bson.M{"$set": trainer})
	if err != nil {
		return fmt.Errorf("failed to update trainer %s: %w", trainer.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("trainer %s: %w", trainer.ID, ErrNotFound)
	}
	return nil
}

func (r *MongoTrainerRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete trainer %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("trainer %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *MongoTrainerRepo) List() ([]models.Trainer, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list trainers: %w", err)
	}
	defer cursor.Close(ctx)

	var trainers []models.Trainer
	if err := cursor.All(ctx, &trainers); err != nil {
		return nil, fmt.Errorf("failed to decode trainers: %w", err)
	}
	return trainers, nil
}
