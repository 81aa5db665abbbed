package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"audioguard/internal/config"
	"audioguard/internal/constants"
	"audioguard/internal/logger"
	"audioguard/pkg/retry"
)

type DatabaseConnector struct {
	Config *config.Config
	Logger logger.Logger
	Policy retry.Policy
}

func NewDatabaseConnector(cfg *config.Config, log logger.Logger) *DatabaseConnector {
	return &DatabaseConnector{
		Config: cfg,
		Logger: log,
		Policy: retry.StartupPolicy(constants.StartupConnectTimeout),
	}
}

func (dc *DatabaseConnector) connect(ctx context.Context, name string, ping func(context.Context) error) error {
	return retry.RetryWithCallback(ctx, dc.Policy, func() error {
		return ping(ctx)
	}, func(attempt int, err error, next time.Duration) {
		dc.Logger.WarnwCtx(ctx, "Dependency not ready, retrying",
			"dependency", name,
			"attempt", attempt,
			"retry_in", next.String(),
			"error", err,
		)
	})
}

func (dc *DatabaseConnector) InitRedis(ctx context.Context) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", dc.Config.Database.Redis.Host, dc.Config.Database.Redis.Port),
		Password: dc.Config.Database.Redis.Password,
		DB:       dc.Config.Database.Redis.DB,
	})

	if err := dc.connect(ctx, "redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	dc.Logger.InfowCtx(ctx, "Redis connected successfully")
	return rdb, nil
}

func (dc *DatabaseConnector) PostgresDSN() string {
	pg := dc.Config.Database.Postgres
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pg.User, pg.Password, pg.Host, pg.Port, pg.DBName, pg.SSLMode)
}

func (dc *DatabaseConnector) InitPostgreSQL(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("postgres", dc.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := dc.connect(ctx, "postgresql", db.PingContext); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dc.Logger.InfowCtx(ctx, "PostgreSQL connected successfully")
	return db, nil
}

func (dc *DatabaseConnector) InitMongoDB(ctx context.Context) (*mongo.Client, error) {
	mongoOpts := options.Client().ApplyURI(dc.Config.Database.MongoDB.URI)
	mongoClient, err := mongo.Connect(ctx, mongoOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := dc.connect(ctx, "mongodb", func(ctx context.Context) error {
		return mongoClient.Ping(ctx, nil)
	}); err != nil {
		mongoClient.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	dc.Logger.InfowCtx(ctx, "MongoDB connected successfully")
	return mongoClient, nil
}

// MongoDatabase resolves the configured database name.
func (dc *DatabaseConnector) MongoDatabase(client *mongo.Client) *mongo.Database {
	name := dc.Config.Database.MongoDB.Database
	if name == "" {
		name = constants.DefaultMongoDBName
	}
	return client.Database(name)
}

func (dc *DatabaseConnector) ShutdownDatabases(ctx context.Context, redis *redis.Client, postgres *sql.DB, mongo *mongo.Client) []error {
	var errs []error

	if redis != nil {
		if err := redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close error: %w", err))
		}
	}

	if postgres != nil {
		if err := postgres.Close(); err != nil {
			errs = append(errs, fmt.Errorf("postgres close error: %w", err))
		}
	}

	if mongo != nil {
		if err := mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongodb disconnect error: %w", err))
		}
	}

	return errs
}
