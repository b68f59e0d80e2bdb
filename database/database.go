package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/EyalPoly/attendance-manager/config"
)

const connectTimeout = 5 * time.Second

// Connect opens the Mongo client and verifies it with a primary ping.
// The caller owns the returned client and must Disconnect it on shutdown.
func Connect(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*mongo.Client, error) {
	lg.Info("attempting to connect to MongoDB",
		zap.String("database", cfg.MongoDatabase))

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(connectTimeout))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	lg.Info("successfully connected to MongoDB")
	return client, nil
}

// Disconnect closes the client. Errors are logged, not returned; there is
// nothing a shutting-down caller can do with them.
func Disconnect(client *mongo.Client, lg *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		lg.Error("error while closing MongoDB connection", zap.Error(err))
		return
	}
	lg.Info("MongoDB connection closed")
}
