package constants

import "time"

const (
	ServiceName = "audioguard-dispatch"
)

const (
	DefaultDiscordAPIBaseURL    = "https://discord.com/api/v10"
	DefaultDiscordOAuthURL      = "https://discord.com/api/oauth2/authorize"
	DefaultInvitePermissions    = "2048"
	InviteScope                 = "bot applications.commands"
	DefaultDeliveryTimeout      = 5 * time.Second
	MaxDeliveryTimeout          = 10 * time.Second
	MaxDiscordErrorBodyBytes    = 4096
	DiscordSignatureHeader      = "X-Signature-Ed25519"
	DiscordTimestampHeader      = "X-Signature-Timestamp"
	DefaultDashboardSettingsURL = "https://your-app-url.com/settings"
)

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 5 * time.Second
)

const (
	DefaultMongoDBName      = "audioguard"
	MongoProfilesCollection = "profiles"
	MongoSettingsCollection = "user_settings"
)

const (
	CacheKeyPrefixProfile  = "audioguard:profile:"
	CacheKeyPrefixSettings = "audioguard:settings:"
	DefaultCacheTTLSeconds = 60
)

const (
	StoreTypeNone     = "none"
	StoreTypePostgres = "postgres"
	StoreTypeMongoDB  = "mongodb"
)

const (
	ShutdownTimeout       = 10 * time.Second
	StartupConnectTimeout = 30 * time.Second
	HealthCheckTimeout    = 5 * time.Second
	StoreQueryTimeout     = 2 * time.Second
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)
