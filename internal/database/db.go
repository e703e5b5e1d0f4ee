package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"roboturkiye-backend/internal/config"
	"roboturkiye-backend/internal/repository"
)

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, mongoURL, dbName string, log *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(timeoutCtx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(timeoutCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Info("connected to MongoDB", zap.String("database", dbName))
	return client, client.Database(dbName), nil
}

// Close disconnects the client, waiting at most five seconds.
func Close(client *mongo.Client, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		log.Error("failed to disconnect from MongoDB", zap.Error(err))
		return
	}
	log.Info("disconnected from MongoDB")
}

// EnsureIndexes creates the indexes the repository relies on for
// uniqueness and ordering. It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		repository.UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		repository.CartsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		repository.CategoriesCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		repository.ProductsCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		repository.OrdersCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// OpenStore returns the store selected by cfg.Store and a func releasing it.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repository.Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		log.Warn("using in-memory store, data will not survive a restart")
		return repository.NewMemoryStore(), func() {}, nil
	}

	client, db, err := Connect(ctx, cfg.MongoURL, cfg.DBName, log)
	if err != nil {
		return nil, nil, err
	}
	if err := EnsureIndexes(ctx, db); err != nil {
		Close(client, log)
		return nil, nil, err
	}
	return repository.NewMongoStore(db), func() { Close(client, log) }, nil
}
