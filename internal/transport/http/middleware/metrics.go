package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "employee_crud",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests",
		},
		[]string{"flavor", "path", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "employee_crud",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"flavor", "path", "method"},
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency) }

// Metrics flavor 区分 blocking / reactive 两个 engine
func Metrics(flavor string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpReqTotal.WithLabelValues(flavor, path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(flavor, path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

func MetricsHandler() http.Handler { return promhttp.Handler() }
