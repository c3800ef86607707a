package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collective_http_requests_total",
			Help: "Total number of HTTP requests processed by the service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collective_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	queuesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "collective_queues_created_total",
			Help: "Total number of group chat queues created.",
		},
	)
	queueJoinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collective_queue_joins_total",
			Help: "Total number of queue join attempts by result.",
		},
		[]string{"result"},
	)
	queuePromotionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "collective_queue_promotions_total",
			Help: "Total number of queues promoted into group chats.",
		},
	)
	queueCancellationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "collective_queue_cancellations_total",
			Help: "Total number of queues cancelled by their creator.",
		},
	)
	wsActiveConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "collective_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
		[]string{"kind"},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collective_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"kind", "event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "collective_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		queuesCreatedTotal,
		queueJoinsTotal,
		queuePromotionsTotal,
		queueCancellationsTotal,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncQueueCreated() {
	queuesCreatedTotal.Inc()
}

func IncQueueJoin(result string) {
	queueJoinsTotal.WithLabelValues(result).Inc()
}

func IncQueuePromoted() {
	queuePromotionsTotal.Inc()
}

func IncQueueCancelled() {
	queueCancellationsTotal.Inc()
}

func IncWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Inc()
}

func DecWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Dec()
}

func IncWSEvent(kind, event string) {
	wsEventsTotal.WithLabelValues(kind, event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
