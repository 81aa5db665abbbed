package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"audioguard/internal/constants"
	"audioguard/pkg/metrics"
)

const backendMongo = "mongodb"

type MongoRepository struct {
	profiles *mongo.Collection
	settings *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		profiles: db.Collection(constants.MongoProfilesCollection),
		settings: db.Collection(constants.MongoSettingsCollection),
	}
}

func (r *MongoRepository) ProfileByDiscordID(ctx context.Context, discordID string) (*Profile, error) {
	start := time.Now()

	var p Profile
	err := r.profiles.FindOne(ctx, bson.M{"discord_id": discordID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.ObserveStoreQuery(backendMongo, "profile", "not_found", time.Since(start))
		return nil, nil
	}
	if err != nil {
		metrics.ObserveStoreQuery(backendMongo, "profile", "error", time.Since(start))
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	metrics.ObserveStoreQuery(backendMongo, "profile", "found", time.Since(start))
	return &p, nil
}

func (r *MongoRepository) SettingsByChannelID(ctx context.Context, channelID string) (*UserSettings, error) {
	start := time.Now()

	var s UserSettings
	err := r.settings.FindOne(ctx, bson.M{"discord_channel_id": channelID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.ObserveStoreQuery(backendMongo, "settings", "not_found", time.Since(start))
		return nil, nil
	}
	if err != nil {
		metrics.ObserveStoreQuery(backendMongo, "settings", "error", time.Since(start))
		return nil, fmt.Errorf("failed to find user settings: %w", err)
	}

	metrics.ObserveStoreQuery(backendMongo, "settings", "found", time.Since(start))
	return &s, nil
}
