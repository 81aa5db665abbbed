package health

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"audioguard/internal/constants"
	"audioguard/pkg/circuitbreaker"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ErrDegraded marks a check failure that leaves the service usable.
var ErrDegraded = errors.New("degraded")

type Checker interface {
	Check(ctx context.Context) error
	Name() string
}

type Health struct {
	Status    Status                 `json:"status"`
	Service   string                 `json:"service"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

type CheckResult struct {
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type CheckerRegistry struct {
	checkers []Checker
	timeout  time.Duration
}

func NewCheckerRegistry() *CheckerRegistry {
	return &CheckerRegistry{
		checkers: make([]Checker, 0),
		timeout:  constants.HealthCheckTimeout,
	}
}

func (r *CheckerRegistry) Register(checker Checker) {
	r.checkers = append(r.checkers, checker)
}

// Check runs every checker concurrently, each bounded by the registry timeout.
func (r *CheckerRegistry) Check(ctx context.Context) Health {
	var (
		mu      sync.Mutex
		results = make(map[string]CheckResult, len(r.checkers))
	)

	g, gCtx := errgroup.WithContext(ctx)
	for _, checker := range r.checkers {
		checker := checker
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gCtx, r.timeout)
			defer cancel()

			err := checker.Check(cctx)
			result := CheckResult{Status: StatusHealthy, Timestamp: time.Now()}
			switch {
			case err == nil:
			case errors.Is(err, ErrDegraded):
				result.Status = StatusDegraded
				result.Message = err.Error()
			default:
				result.Status = StatusUnhealthy
				result.Message = err.Error()
			}

			mu.Lock()
			results[checker.Name()] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	overall := StatusHealthy
	for _, res := range results {
		if res.Status == StatusUnhealthy {
			overall = StatusUnhealthy
			break
		}
		if res.Status == StatusDegraded {
			overall = StatusDegraded
		}
	}

	return Health{
		Status:    overall,
		Service:   constants.ServiceName,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

// Handler serves the registry result; only an unhealthy result maps to 503.
func (r *CheckerRegistry) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := r.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	}
}

type PostgreSQLChecker struct {
	db *sql.DB
}

func NewPostgreSQLChecker(db *sql.DB) *PostgreSQLChecker {
	return &PostgreSQLChecker{db: db}
}

func (c *PostgreSQLChecker) Name() string {
	return "postgresql"
}

func (c *PostgreSQLChecker) Check(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgresql ping failed: %w", err)
	}
	return nil
}

type RedisChecker struct {
	client redis.Cmdable
}

func NewRedisChecker(client redis.Cmdable) *RedisChecker {
	return &RedisChecker{client: client}
}

func (c *RedisChecker) Name() string {
	return "redis"
}

// Check reports degraded: the cache falls through to the store when Redis is down.
func (c *RedisChecker) Check(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis ping failed: %v", ErrDegraded, err)
	}
	return nil
}

type MongoDBChecker struct {
	client *mongo.Client
}

func NewMongoDBChecker(client *mongo.Client) *MongoDBChecker {
	return &MongoDBChecker{client: client}
}

func (c *MongoDBChecker) Name() string {
	return "mongodb"
}

func (c *MongoDBChecker) Check(ctx context.Context) error {
	if err := c.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// KafkaChecker dials the first reachable broker. Dispatch events are
// best-effort, so an unreachable cluster degrades rather than fails.
type KafkaChecker struct {
	brokers []string
	dial    func(ctx context.Context, network, address string) (*kafka.Conn, error)
}

func NewKafkaChecker(brokers []string) *KafkaChecker {
	return &KafkaChecker{brokers: brokers, dial: kafka.DialContext}
}

func (c *KafkaChecker) Name() string {
	return "kafka"
}

func (c *KafkaChecker) Check(ctx context.Context) error {
	var lastErr error
	for _, addr := range c.brokers {
		conn, err := c.dial(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		conn.Close()
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no brokers configured")
	}
	return fmt.Errorf("%w: kafka unreachable: %v", ErrDegraded, lastErr)
}

// BreakerChecker reports an open circuit breaker as degraded.
type BreakerChecker struct {
	breaker *circuitbreaker.Wrapper
}

func NewBreakerChecker(w *circuitbreaker.Wrapper) *BreakerChecker {
	return &BreakerChecker{breaker: w}
}

func (c *BreakerChecker) Name() string {
	return "circuit_breaker_" + c.breaker.Name()
}

func (c *BreakerChecker) Check(context.Context) error {
	if c.breaker.IsOpen() {
		return fmt.Errorf("%w: circuit %s is open", ErrDegraded, c.breaker.Name())
	}
	return nil
}
