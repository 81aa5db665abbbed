package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Discord        DiscordConfig        `mapstructure:"discord"`
	App            AppConfig            `mapstructure:"app"`
	Store          StoreConfig          `mapstructure:"store"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Broker         BrokerConfig         `mapstructure:"broker"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port                int `mapstructure:"port"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds"`
}

type DiscordConfig struct {
	APIBaseURL        string        `mapstructure:"api_base_url"`
	BotToken          string        `mapstructure:"bot_token"`
	ApplicationID     string        `mapstructure:"application_id"`
	PublicKey         string        `mapstructure:"public_key"`
	VerifySignatures  bool          `mapstructure:"verify_signatures"`
	InvitePermissions string        `mapstructure:"invite_permissions"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	CircuitBreaker    bool          `mapstructure:"circuit_breaker"`
}

// String keeps the bot token out of any formatted output.
func (c DiscordConfig) String() string {
	token := ""
	if c.BotToken != "" {
		token = "[REDACTED]"
	}
	return fmt.Sprintf("DiscordConfig{APIBaseURL:%s BotToken:%s ApplicationID:%s VerifySignatures:%t RequestTimeout:%s}",
		c.APIBaseURL, token, c.ApplicationID, c.VerifySignatures, c.RequestTimeout)
}

func (c DiscordConfig) GoString() string {
	return c.String()
}

type AppConfig struct {
	ProductName          string `mapstructure:"product_name"`
	DashboardSettingsURL string `mapstructure:"dashboard_settings_url"`
}

type StoreConfig struct {
	Type  string           `mapstructure:"type"`
	Cache StoreCacheConfig `mapstructure:"cache"`
}

type StoreCacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig `mapstructure:"postgres"`
	Redis         RedisConfig    `mapstructure:"redis"`
	MongoDB       MongoDBConfig  `mapstructure:"mongodb"`
	RunMigrations bool           `mapstructure:"run_migrations"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MongoDBConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type BrokerConfig struct {
	Type  string      `mapstructure:"type"`
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers     []string `mapstructure:"brokers"`
	EventsTopic string   `mapstructure:"events_topic"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	RPS             float64 `mapstructure:"rps"`
	Burst           int     `mapstructure:"burst"`
	CleanupInterval int     `mapstructure:"cleanup_interval"`
	MaxAge          int     `mapstructure:"max_age"`
}

type CircuitBreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

type TracingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	ServiceName string        `mapstructure:"service_name"`
	OTLP        OTLPConfig    `mapstructure:"otlp"`
	Sampler     SamplerConfig `mapstructure:"sampler"`
}

type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

type SamplerConfig struct {
	Type  string  `mapstructure:"type"`
	Param float64 `mapstructure:"param"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
