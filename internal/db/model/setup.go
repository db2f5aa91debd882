package model

import (
	"context"
	"fmt"
	"time"

	"github.com/lstlabs/lst-staking-service/internal/config"
	"github.com/rs/zerolog/log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	PendingWithdrawalCollection = "pending_withdrawals"
)

// index keys keep their declaration order, compound indexes depend on it.
type index struct {
	Indexes bson.D
	Unique  bool
}

var collections = map[string][]index{
	PendingWithdrawalCollection: {
		{Indexes: bson.D{{Key: "owner", Value: 1}, {Key: "unlock_at", Value: 1}}, Unique: false},
		{Indexes: bson.D{{Key: "request_tx_hash", Value: 1}}, Unique: true},
		{Indexes: bson.D{{Key: "state", Value: 1}}, Unique: false},
	},
}

// Setup creates the collections and indexes of the tracking store. It is a
// no-op when the memory store is configured.
func Setup(ctx context.Context, cfg *config.Config) error {
	if !cfg.Db.IsMongo() {
		return nil
	}

	clientOps := options.Client().ApplyURI(cfg.Db.Address)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to disconnect setup client")
		}
	}()

	// Create a context with timeout.
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Access a database and create collections.
	database := client.Database(cfg.Db.DbName)

	// Create collections.
	for collection := range collections {
		createCollection(ctx, database, collection)
	}

	for name, idxs := range collections {
		for _, idx := range idxs {
			createIndex(ctx, database, name, idx)
		}
	}

	log.Info().Msg("Collections and Indexes created successfully.")
	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) {
	existing, err := database.ListCollectionNames(ctx, bson.M{"name": collectionName})
	if err != nil {
		log.Debug().Msg(fmt.Sprintf("Failed to list collections, skip creating %s. info: %s", collectionName, err))
		return
	}
	if len(existing) > 0 {
		log.Debug().Msg("Collection already exists: " + collectionName)
		return
	}

	if err := database.CreateCollection(ctx, collectionName); err != nil {
		log.Error().Err(err).Msg("Failed to create collection: " + collectionName)
		return
	}

	log.Debug().Msg("Collection created successfully: " + collectionName)
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) {
	if len(idx.Indexes) == 0 {
		return
	}

	index := mongo.IndexModel{
		Keys:    idx.Indexes,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, index); err != nil {
		log.Debug().Msg(fmt.Sprintf("Failed to create index on collection '%s': %v", collectionName, err))
		return
	}

	log.Debug().Msg("Index created successfully on collection: " + collectionName)
}
