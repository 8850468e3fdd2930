package mongo

import (
	"context"
	"fmt"
	"people-graphql-api/internal/config"
	"people-graphql-api/internal/logger"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const (
	usersCollection = "users"
	otpsCollection  = "otps"
)

type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewDB(ctx context.Context, cfg *config.MongoConfig) (*DB, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(25).
		SetServerSelectionTimeout(10 * time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("Mongo connection established", zap.String("database", cfg.Database))

	return &DB{
		client:   client,
		database: client.Database(cfg.Database),
	}, nil
}

// EnsureIndexes creates the unique email index and the TTL index that expires OTPs.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	_, err := d.database.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_key"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = d.database.Collection(otpsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("otps_expires_at_ttl"),
	})
	if err != nil {
		return fmt.Errorf("failed to create otps index: %w", err)
	}

	return nil
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func (d *DB) Health(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}
