package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"audioguard/internal/constants"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errs []error

	if err := validateServer(cfg.Server); err != nil {
		errs = append(errs, err)
	}

	if err := validateDiscord(cfg.Discord); err != nil {
		errs = append(errs, err)
	}

	if err := validateStore(cfg.Store, cfg.Database); err != nil {
		errs = append(errs, err)
	}

	if err := validateBroker(cfg.Broker); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout_seconds",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout_seconds",
			Message: "write timeout must be positive",
		}
	}

	return nil
}

func validateDiscord(cfg DiscordConfig) error {
	if cfg.BotToken == "" {
		return &ValidationError{
			Field:   "discord.bot_token",
			Message: "bot token is required (set DISCORD_BOT_TOKEN)",
		}
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{
			Field:   "discord.api_base_url",
			Message: fmt.Sprintf("invalid API base URL: %q", cfg.APIBaseURL),
		}
	}

	if cfg.RequestTimeout <= 0 || cfg.RequestTimeout > constants.MaxDeliveryTimeout {
		return &ValidationError{
			Field:   "discord.request_timeout",
			Message: fmt.Sprintf("request timeout must be in (0, %s], got %s", constants.MaxDeliveryTimeout, cfg.RequestTimeout),
		}
	}

	if cfg.VerifySignatures {
		key, err := hex.DecodeString(cfg.PublicKey)
		if err != nil || len(key) != 32 {
			return &ValidationError{
				Field:   "discord.public_key",
				Message: "a 32-byte hex encoded Ed25519 public key is required when verify_signatures is enabled",
			}
		}
	}

	return nil
}

func validateStore(cfg StoreConfig, db DatabaseConfig) error {
	switch cfg.Type {
	case "", constants.StoreTypeNone:
	case constants.StoreTypePostgres:
		if err := validatePostgres(db.Postgres); err != nil {
			return err
		}
	case constants.StoreTypeMongoDB:
		if err := validateMongoDB(db.MongoDB); err != nil {
			return err
		}
	default:
		return &ValidationError{
			Field:   "store.type",
			Message: fmt.Sprintf("unknown store type: %s (supported: none, postgres, mongodb)", cfg.Type),
		}
	}

	if cfg.Cache.Enabled {
		if err := validateRedis(db.Redis); err != nil {
			return err
		}
		if cfg.Cache.TTLSeconds <= 0 {
			return &ValidationError{
				Field:   "store.cache.ttl_seconds",
				Message: "TTL must be positive when the cache is enabled",
			}
		}
	}

	return nil
}

func validatePostgres(cfg PostgresConfig) error {
	if cfg.Host == "" {
		return &ValidationError{
			Field:   "database.postgres.host",
			Message: "PostgreSQL host is required",
		}
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "database.postgres.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.User == "" {
		return &ValidationError{
			Field:   "database.postgres.user",
			Message: "PostgreSQL user is required",
		}
	}

	if cfg.DBName == "" {
		return &ValidationError{
			Field:   "database.postgres.dbname",
			Message: "PostgreSQL database name is required",
		}
	}

	validSSLModes := map[string]bool{
		"disable": true, "allow": true, "prefer": true,
		"require": true, "verify-ca": true, "verify-full": true,
	}
	if cfg.SSLMode != "" && !validSSLModes[strings.ToLower(cfg.SSLMode)] {
		return &ValidationError{
			Field:   "database.postgres.sslmode",
			Message: fmt.Sprintf("invalid SSL mode: %s (valid: disable, allow, prefer, require, verify-ca, verify-full)", cfg.SSLMode),
		}
	}

	return nil
}

func validateRedis(cfg RedisConfig) error {
	if cfg.Host == "" {
		return &ValidationError{
			Field:   "database.redis.host",
			Message: "Redis host is required",
		}
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "database.redis.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	return nil
}

func validateMongoDB(cfg MongoDBConfig) error {
	if cfg.URI == "" {
		return &ValidationError{
			Field:   "database.mongodb.uri",
			Message: "MongoDB URI is required",
		}
	}

	if !strings.HasPrefix(cfg.URI, "mongodb://") && !strings.HasPrefix(cfg.URI, "mongodb+srv://") {
		return &ValidationError{
			Field:   "database.mongodb.uri",
			Message: "MongoDB URI must start with mongodb:// or mongodb+srv://",
		}
	}

	return nil
}

func validateBroker(cfg BrokerConfig) error {
	switch cfg.Type {
	case "", "none":
		return nil
	case "kafka":
	default:
		return &ValidationError{
			Field:   "broker.type",
			Message: fmt.Sprintf("unknown broker type: %s (supported: none, kafka)", cfg.Type),
		}
	}

	if len(cfg.Kafka.Brokers) == 0 {
		return &ValidationError{
			Field:   "broker.kafka.brokers",
			Message: "at least one Kafka broker is required",
		}
	}

	for i, broker := range cfg.Kafka.Brokers {
		if broker == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("broker.kafka.brokers[%d]", i),
				Message: "broker address cannot be empty",
			}
		}
	}

	if cfg.Kafka.EventsTopic == "" {
		return &ValidationError{
			Field:   "broker.kafka.events_topic",
			Message: "events topic is required when the Kafka broker is enabled",
		}
	}

	return nil
}
