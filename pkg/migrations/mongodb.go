package migrations

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"audioguard/internal/constants"
)

// EnsureMongoIndexes creates the lookup indexes used by the config store.
// CreateOne is a no-op for indexes that already exist with the same keys and options.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	lookups := map[string]string{
		constants.MongoProfilesCollection: "discord_id",
		constants.MongoSettingsCollection: "discord_channel_id",
	}

	for collection, key := range lookups {
		index := mongo.IndexModel{
			Keys: bson.D{{Key: key, Value: 1}},
			Options: options.Index().
				SetName(fmt.Sprintf("idx_%s_%s", collection, key)).
				SetUnique(true).
				SetSparse(true),
		}
		if _, err := db.Collection(collection).Indexes().CreateOne(ctx, index); err != nil {
			return fmt.Errorf("failed to create index on %s.%s: %w", collection, key, err)
		}
	}
	return nil
}
