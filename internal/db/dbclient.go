package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/lstlabs/lst-staking-service/internal/config"
)

const connectTimeout = 10 * time.Second

type Database struct {
	DbName string
	Client *mongo.Client
	cfg    config.DbConfig
}

// New connects to mongo and pings the primary.
func New(ctx context.Context, cfg config.DbConfig) (*Database, error) {
	clientOps := options.Client().
		ApplyURI(cfg.Address).
		SetAppName("lst-staking-service").
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo at startup: %w", err)
	}

	return &Database{
		DbName: cfg.DbName,
		Client: client,
		cfg:    cfg,
	}, nil
}

// NewClient returns the store selected by cfg.Type.
func NewClient(ctx context.Context, cfg config.DbConfig) (DBClient, error) {
	if !cfg.IsMongo() {
		return NewMemoryStore(), nil
	}
	return New(ctx, cfg)
}

func (db *Database) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

func (db *Database) Disconnect(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}
