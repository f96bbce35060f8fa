package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики admin API
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов к admin API
// Пример запроса PromQL: rate(http_requests_total{service="admin-service"}[5m])
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа admin API
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Метрики вызовов удаленного Catalog API
// =============================================================================

// CatalogRequestsTotal - вызовы Catalog API по операциям
// Labels: operation (list_products, create_product, ...), outcome (ok, error)
var CatalogRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_api_requests_total",
		Help: "Total number of requests sent to the remote catalog API",
	},
	[]string{"operation", "outcome"},
)

// CatalogRequestDuration - время ответа Catalog API
var CatalogRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "catalog_api_request_duration_seconds",
		Help:    "Duration of remote catalog API requests in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"operation"},
)

// =============================================================================
// Метрики Catalog Store
// =============================================================================

// RequestsSettled - завершенные запросы по виду и фазе (fulfilled/rejected)
var RequestsSettled = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_requests_settled_total",
		Help: "Total number of store requests settled by kind and phase",
	},
	[]string{"kind", "phase"},
)

// StaleResponsesDiscarded - ответы, пришедшие после более нового запроса того же вида
var StaleResponsesDiscarded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_stale_responses_discarded_total",
		Help: "Total number of responses discarded because a newer request of the same kind was dispatched",
	},
	[]string{"kind"},
)

// NotificationsEmitted - уведомления пользователю
var NotificationsEmitted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_emitted_total",
		Help: "Total number of user notifications emitted",
	},
	[]string{"status", "sink"},
)

// FormValidationFailures - ошибки валидации формы по полю
var FormValidationFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "form_validation_failures_total",
		Help: "Total number of entry form validation failures",
	},
	[]string{"field"},
)

// =============================================================================
// Redis Метрики (кеш категорий)
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisOperationDuration - время операций Redis
var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики (уведомления)
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)

// =============================================================================
// Фоновое обновление
// =============================================================================

// RefreshRuns - запуски периодического обновления списка
var RefreshRuns = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "refresher_runs_total",
		Help: "Total number of scheduled product list refreshes",
	},
)
