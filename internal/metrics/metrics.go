package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	initOnce sync.Once

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	uploadsTotal     *prometheus.CounterVec
	uploadBytesTotal prometheus.Counter
	deletedObjects   *prometheus.CounterVec
	shareLookups     *prometheus.CounterVec
)

// InitMetrics registers the collectors with the default registry. Safe to call repeatedly.
func InitMetrics() {
	initOnce.Do(func() {
		httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"})

		httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

		uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "imgdrive_uploads_total",
			Help: "Stored uploads by detected image format.",
		}, []string{"format"})

		uploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "imgdrive_upload_bytes_total",
			Help: "Bytes written to the object store by uploads.",
		})

		deletedObjects = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "imgdrive_deleted_objects_total",
			Help: "Bulk delete outcomes per key.",
		}, []string{"outcome"})

		shareLookups = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "imgdrive_share_lookups_total",
			Help: "Share resolutions by result.",
		}, []string{"result"})
	})
}

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if httpRequests == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}

// ObserveUpload counts a stored upload.
func ObserveUpload(format string, size int) {
	if uploadsTotal == nil {
		return
	}
	uploadsTotal.WithLabelValues(format).Inc()
	uploadBytesTotal.Add(float64(size))
}

// ObserveDelete counts one key of a bulk delete; outcome is "deleted" or "failed".
func ObserveDelete(outcome string) {
	if deletedObjects == nil {
		return
	}
	deletedObjects.WithLabelValues(outcome).Inc()
}

// ObserveShareLookup counts a share resolution by result: found, not_found, rejected or error.
func ObserveShareLookup(result string) {
	if shareLookups == nil {
		return
	}
	shareLookups.WithLabelValues(result).Inc()
}
