package database

import (
	"context"
	"fmt"
	"time"

	"arone/config"

	firebase "firebase.google.com/go/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Store drivers.
const (
	DriverFirestore = "firestore"
	DriverMongo     = "mongo"
	DriverMemory    = "memory"
)

// NewStore opens the document store selected by STORE_DRIVER. app is only required for
// the firestore driver.
func NewStore(ctx context.Context, app *firebase.App, logger *zap.Logger) (DocumentStore, error) {
	switch config.AppConfig.StoreDriver {
	case DriverFirestore, "":
		if app == nil {
			return nil, fmt.Errorf("NewStore: firestore driver requires an initialized firebase app")
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("NewStore: failed to create firestore client: %w", err)
		}
		logger.Info("Connected to Firestore successfully")
		return NewFirestoreStore(client, logger), nil
	case DriverMongo:
		client, err := ConnectMongo(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to MongoDB successfully", zap.String("database", config.AppConfig.DatabaseName))
		return NewMongoStore(client, config.AppConfig.DatabaseName, logger), nil
	case DriverMemory:
		logger.Warn("Using in-memory document store; data is lost on restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("NewStore: unknown store driver %q", config.AppConfig.StoreDriver)
	}
}

// ConnectMongo connects to DATABASE_URL and verifies the connection.
func ConnectMongo(ctx context.Context) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}
