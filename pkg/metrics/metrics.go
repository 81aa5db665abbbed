package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	DispatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_requests_total",
			Help: "Total number of inbound dispatch requests by kind and outcome (count)",
		},
		[]string{"kind", "outcome"},
	)

	DispatchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_request_duration_ms",
			Help:    "Handling duration of inbound dispatch requests in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"kind"},
	)

	DiscordDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discord_deliveries_total",
			Help: "Total number of outbound Discord message deliveries (count)",
		},
		[]string{"status"},
	)

	DiscordDeliveryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discord_delivery_duration_ms",
			Help:    "Duration of outbound Discord message deliveries in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"status"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)

	StoreQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_queries_total",
			Help: "Total number of configuration store lookups (count)",
		},
		[]string{"backend", "operation", "status"},
	)

	StoreQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_ms",
			Help:    "Duration of configuration store lookups in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"backend", "operation"},
	)

	StoreCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_cache_lookups_total",
			Help: "Total number of configuration cache lookups by result (count)",
		},
		[]string{"entity", "result"},
	)

	KafkaMessagesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_written_total",
			Help: "Total number of messages written to Kafka (count)",
		},
		[]string{"service", "topic"},
	)

	KafkaMessageSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_message_size_bytes",
			Help:    "Size of Kafka messages in bytes",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
		},
		[]string{"service", "topic"},
	)

	KafkaWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_write_duration_ms",
			Help:    "Duration of writing messages to Kafka in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"service", "topic"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			DispatchRequestsTotal,
			DispatchRequestDuration,
			DiscordDeliveriesTotal,
			DiscordDeliveryDuration,
			CircuitBreakerState,
			CircuitBreakerRequests,
			CircuitBreakerFailures,
			RateLimitRequestsTotal,
			StoreQueriesTotal,
			StoreQueryDuration,
			StoreCacheLookupsTotal,
			KafkaMessagesWrittenTotal,
			KafkaMessageSizeBytes,
			KafkaWriteDuration,
		)
	})
}

func IncDispatchRequest(kind, outcome string) {
	DispatchRequestsTotal.WithLabelValues(kind, outcome).Inc()
}

func ObserveDispatchDuration(kind string, duration time.Duration) {
	DispatchRequestDuration.WithLabelValues(kind).Observe(float64(duration.Milliseconds()))
}

func ObserveDiscordDelivery(status string, duration time.Duration) {
	DiscordDeliveriesTotal.WithLabelValues(status).Inc()
	DiscordDeliveryDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func ObserveStoreQuery(backend, operation, status string, duration time.Duration) {
	StoreQueriesTotal.WithLabelValues(backend, operation, status).Inc()
	StoreQueryDuration.WithLabelValues(backend, operation).Observe(float64(duration.Milliseconds()))
}

func IncStoreCacheLookup(entity, result string) {
	StoreCacheLookupsTotal.WithLabelValues(entity, result).Inc()
}

func IncKafkaMessagesWritten(service, topic string) {
	KafkaMessagesWrittenTotal.WithLabelValues(service, topic).Inc()
}

func ObserveKafkaMessageSize(service, topic string, sizeBytes int) {
	KafkaMessageSizeBytes.WithLabelValues(service, topic).Observe(float64(sizeBytes))
}

func ObserveKafkaWriteDuration(service, topic string, duration time.Duration) {
	KafkaWriteDuration.WithLabelValues(service, topic).Observe(float64(duration.Milliseconds()))
}
