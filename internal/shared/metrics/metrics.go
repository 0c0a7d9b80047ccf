package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by result.",
		},
		[]string{"result"},
	)

	blobOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_blob_operations_total",
			Help: "Document blob operations by kind and outcome.",
		},
		[]string{"op", "outcome"},
	)

	blobBytesWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "document_blob_bytes_written_total",
			Help: "Bytes written to the document blob store.",
		},
	)
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requestsTotal,
		requestDuration,
		loginsTotal,
		blobOpsTotal,
		blobBytesWritten,
	)
}

// Middleware records request counts and latency keyed by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		requestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

// IncLogin counts a login attempt; result is "success", "invalid" or "error".
func IncLogin(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

// IncBlobOp counts a blob store operation.
func IncBlobOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	blobOpsTotal.WithLabelValues(op, outcome).Inc()
}

// AddBlobBytes records bytes written to blob storage.
func AddBlobBytes(n int64) {
	if n > 0 {
		blobBytesWritten.Add(float64(n))
	}
}
