package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"audioguard/internal/constants"
	"audioguard/internal/logger"
	"audioguard/pkg/metrics"
)

// CachedRepository is a read-through Redis cache in front of a ConfigStore.
// Only found rows are cached so a newly linked account shows up at once.
// Redis failures fall through to the wrapped store.
type CachedRepository struct {
	next   ConfigStore
	client redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRepository(next ConfigStore, client redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTLSeconds * time.Second
	}
	return &CachedRepository{next: next, client: client, ttl: ttl, logger: log}
}

func (r *CachedRepository) ProfileByDiscordID(ctx context.Context, discordID string) (*Profile, error) {
	key := constants.CacheKeyPrefixProfile + discordID

	var cached Profile
	if r.lookup(ctx, "profile", key, &cached) {
		return &cached, nil
	}

	p, err := r.next.ProfileByDiscordID(ctx, discordID)
	if err != nil || p == nil {
		return p, err
	}
	r.store(ctx, key, p)
	return p, nil
}

func (r *CachedRepository) SettingsByChannelID(ctx context.Context, channelID string) (*UserSettings, error) {
	key := constants.CacheKeyPrefixSettings + channelID

	var cached UserSettings
	if r.lookup(ctx, "settings", key, &cached) {
		return &cached, nil
	}

	s, err := r.next.SettingsByChannelID(ctx, channelID)
	if err != nil || s == nil {
		return s, err
	}
	r.store(ctx, key, s)
	return s, nil
}

// Invalidate drops both cached rows for a user and channel pair.
func (r *CachedRepository) Invalidate(ctx context.Context, discordID, channelID string) error {
	return r.client.Del(ctx,
		constants.CacheKeyPrefixProfile+discordID,
		constants.CacheKeyPrefixSettings+channelID,
	).Err()
}

func (r *CachedRepository) lookup(ctx context.Context, entity, key string, dst interface{}) bool {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.IncStoreCacheLookup(entity, "miss")
		return false
	}
	if err != nil {
		metrics.IncStoreCacheLookup(entity, "error")
		r.logger.WarnwCtx(ctx, "Config cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		metrics.IncStoreCacheLookup(entity, "error")
		r.logger.WarnwCtx(ctx, "Config cache entry is corrupt", "key", key, "error", err)
		return false
	}
	metrics.IncStoreCacheLookup(entity, "hit")
	return true
}

func (r *CachedRepository) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.WarnwCtx(ctx, "Config cache write failed", "key", key, "error", err)
	}
}
