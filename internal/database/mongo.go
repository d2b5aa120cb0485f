package database

import (
	"context"
	"fmt"
	"time"

	"quizroom-backend/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func Connect(ctx context.Context, cfg *config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client.Database(cfg.MongoDB), nil
}

// EnsureIndexes creates the room-code lookup index. Codes are only
// unique among non-completed rooms, which a plain unique index cannot
// express, so uniqueness is enforced at creation time instead.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("rooms").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "code", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create rooms index: %w", err)
	}
	return nil
}
