package persistence

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"github.com/spec-kit/green-campus/internal/config"
)

const (
	usersCollection     = "users"
	messagesCollection  = "messages"
	dashboardCollection = "dashboard"
)

// Mongo wraps the document store client and exposes collections.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo connects to MongoDB and verifies the connection within the configured timeout.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Mongo, error) {
	timeout := cfg.ConnectTimeout()
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("connected to mongodb", zap.String("database", cfg.Database))
	return &Mongo{client: client, db: client.Database(cfg.Database)}, nil
}

// Users returns the users collection.
func (m *Mongo) Users() *mongo.Collection {
	return m.db.Collection(usersCollection)
}

// Messages returns the messages collection.
func (m *Mongo) Messages() *mongo.Collection {
	return m.db.Collection(messagesCollection)
}

// Dashboard returns the collection holding the single dashboard document.
func (m *Mongo) Dashboard() *mongo.Collection {
	return m.db.Collection(dashboardCollection)
}

// Database exposes the underlying database handle.
func (m *Mongo) Database() *mongo.Database {
	return m.db
}

// Ping verifies connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

// CreateIndexes enforces email uniqueness and speeds up the newest-first listings.
func (m *Mongo) CreateIndexes(ctx context.Context) error {
	_, err := m.Users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}

	_, err = m.Messages().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_email", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create messages indexes: %w", err)
	}
	return nil
}
