package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	_ "audioguard/docs"
	"audioguard/internal/alerting"
	"audioguard/internal/config"
	"audioguard/internal/constants"
	"audioguard/internal/discord"
	"audioguard/internal/dispatch"
	"audioguard/internal/logger"
	"audioguard/internal/store"
	"audioguard/pkg/bootstrap"
	"audioguard/pkg/circuitbreaker"
	"audioguard/pkg/health"
	"audioguard/pkg/metrics"
	"audioguard/pkg/middleware"
	"audioguard/pkg/migrations"
	"audioguard/pkg/ratelimit"
	"audioguard/pkg/tracing"
)

type App struct {
	*bootstrap.Base
	dbConnector    *bootstrap.DatabaseConnector
	db             *sql.DB
	redisClient    *redis.Client
	mongoClient    *mongo.Client
	configStore    store.ConfigStore
	events         *dispatch.EventPublisher
	limiter        *ratelimit.Limiter
	health         *health.CheckerRegistry
	tracerProvider *tracing.TracerProvider
	server         *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		Base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
		configStore: store.NoopStore{},
		health:      health.NewCheckerRegistry(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	tp, err := tracing.Init(a.Config.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	metrics.Register()

	if err := a.initStore(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	if err := a.initBroker(); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	handler, err := a.initDispatch()
	if err != nil {
		return fmt.Errorf("failed to initialize dispatch: %w", err)
	}

	a.initHTTPServer(handler)
	return nil
}

func (a *App) initStore(ctx context.Context) error {
	connectCtx, cancel := context.WithTimeout(ctx, constants.StartupConnectTimeout)
	defer cancel()

	var (
		repo    store.ConfigStore
		backend = a.Config.Store.Type
	)

	switch backend {
	case constants.StoreTypePostgres:
		db, err := a.dbConnector.InitPostgreSQL(connectCtx)
		if err != nil {
			return err
		}
		a.db = db
		a.health.Register(health.NewPostgreSQLChecker(db))

		if a.Config.Database.RunMigrations {
			if err := migrations.RunPostgres(db); err != nil {
				return err
			}
			a.Logger.InfowCtx(ctx, "PostgreSQL migrations applied")
		}
		repo = store.NewPostgresRepository(db)

	case constants.StoreTypeMongoDB:
		client, err := a.dbConnector.InitMongoDB(connectCtx)
		if err != nil {
			return err
		}
		a.mongoClient = client
		a.health.Register(health.NewMongoDBChecker(client))

		mdb := a.dbConnector.MongoDatabase(client)
		if a.Config.Database.RunMigrations {
			if err := migrations.EnsureMongoIndexes(connectCtx, mdb); err != nil {
				return err
			}
			a.Logger.InfowCtx(ctx, "MongoDB indexes ensured")
		}
		repo = store.NewMongoRepository(mdb)

	default:
		a.Logger.InfowCtx(ctx, "No configuration store, status and settings render as not configured")
		return nil
	}

	guarded := store.NewCircuitBreakerRepository(repo, backend, a.Config.CircuitBreaker)
	if breaker := guarded.Breaker(); breaker != nil {
		a.health.Register(health.NewBreakerChecker(breaker))
	}
	repo = guarded

	if a.Config.Store.Cache.Enabled {
		rdb, err := a.dbConnector.InitRedis(connectCtx)
		if err != nil {
			return err
		}
		a.redisClient = rdb
		a.health.Register(health.NewRedisChecker(rdb))
		ttl := time.Duration(a.Config.Store.Cache.TTLSeconds) * time.Second
		repo = store.NewCachedRepository(repo, rdb, ttl, a.Logger)
	}

	a.configStore = repo
	a.Logger.InfowCtx(ctx, "Configuration store ready", "backend", backend, "cache", a.Config.Store.Cache.Enabled)
	return nil
}

func (a *App) initBroker() error {
	if err := a.InitBroker(); err != nil {
		return err
	}
	if a.Config.Broker.Type != "kafka" {
		return nil
	}
	a.events = dispatch.NewEventPublisher(a.Producer, a.Config.Broker.Kafka.EventsTopic, a.Logger)
	a.health.Register(health.NewKafkaChecker(a.Config.Broker.Kafka.Brokers))
	return nil
}

func (a *App) initDispatch() (*dispatch.Handler, error) {
	var opts []discord.Option
	if a.Config.Discord.CircuitBreaker {
		breaker := discord.NewBreaker(circuitbreaker.FromSettings("discord", a.Config.CircuitBreaker))
		opts = append(opts, discord.WithCircuitBreaker(breaker))
		a.health.Register(health.NewBreakerChecker(breaker))
	}
	client := discord.NewClient(a.Config.Discord, a.Logger, opts...)

	var verifier *discord.Verifier
	if a.Config.Discord.VerifySignatures {
		v, err := discord.NewVerifier(a.Config.Discord.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("invalid discord public key: %w", err)
		}
		verifier = v
	}

	formatter := alerting.NewFormatter(
		alerting.WithProductName(a.Config.App.ProductName),
		alerting.WithSettingsURL(a.Config.App.DashboardSettingsURL),
	)

	router := dispatch.NewRouter(formatter, client, a.configStore, a.Logger, dispatch.WithEvents(a.events))
	publisher := dispatch.NewPublisher(formatter, client, dispatch.InviteConfig{
		ApplicationID: a.Config.Discord.ApplicationID,
		Permissions:   a.Config.Discord.InvitePermissions,
	}, a.events, a.Logger)

	var handlerOpts []dispatch.HandlerOption
	if a.Config.RateLimit.Enabled {
		a.limiter = ratelimit.New(ratelimit.FromSettings(a.Config.RateLimit))
		handlerOpts = append(handlerOpts, dispatch.WithActionLimiter(a.limiter))
		a.Logger.InfowCtx(context.Background(), "Rate limiting enabled for internal actions",
			"rps", a.Config.RateLimit.RPS,
			"burst", a.Config.RateLimit.Burst,
		)
	}

	return dispatch.NewHandler(router, publisher, verifier, a.Logger, handlerOpts...), nil
}

func (a *App) initHTTPServer(handler *dispatch.Handler) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RecoveryMiddleware(a.Logger))
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.CORSMiddleware())
	engine.Use(tracing.GinMiddleware(constants.ServiceName))
	engine.Use(middleware.LoggerMiddleware(a.Logger))

	engine.GET("/health", a.health.Handler())
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handler.RegisterRoutes(engine)

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(a.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(a.Config.Server.WriteTimeoutSeconds) * time.Second,
	}
}

// Run serves HTTP until ctx is cancelled or the listener fails.
func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	if a.limiter != nil {
		g.Go(func() error {
			a.limiter.Run(gCtx)
			return nil
		})
	}

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	additionalShutdown := func(ctx context.Context) []error {
		var errs []error

		if err := a.events.Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("dispatch events not drained: %w", err))
		}

		if a.tracerProvider != nil {
			if err := a.tracerProvider.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
			}
		}

		errs = append(errs, a.dbConnector.ShutdownDatabases(ctx, a.redisClient, a.db, a.mongoClient)...)
		return errs
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}
