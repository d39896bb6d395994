package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so each App (and each test) starts from zero.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	uploadedFiles    prometheus.Counter
	uploadedBytes    prometheus.Counter
	uploadRejections *prometheus.CounterVec
	evidenceRecords  *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "progresslog_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "progresslog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		uploadedFiles: f.NewCounter(prometheus.CounterOpts{
			Name: "progresslog_upload_files_total",
			Help: "Files accepted by upload intake.",
		}),
		uploadedBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "progresslog_upload_bytes_total",
			Help: "Bytes written by upload intake.",
		}),
		uploadRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "progresslog_upload_rejections_total",
			Help: "Upload requests rejected, by error code.",
		}, []string{"code"}),
		evidenceRecords: f.NewCounterVec(prometheus.CounterOpts{
			Name: "progresslog_evidence_operations_total",
			Help: "Evidence ledger operations by kind.",
		}, []string{"op"}),
	}
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Middleware records request count and latency keyed by the matched route
// template, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Status(http.StatusNotFound) }
	}
	return gin.WrapH(promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg}))
}

func (m *Metrics) FileStored(size int64) {
	if m == nil {
		return
	}
	m.uploadedFiles.Inc()
	if size > 0 {
		m.uploadedBytes.Add(float64(size))
	}
}

func (m *Metrics) UploadRejected(code string) {
	if m == nil {
		return
	}
	m.uploadRejections.WithLabelValues(code).Inc()
}

func (m *Metrics) Evidence(op string) {
	if m == nil {
		return
	}
	m.evidenceRecords.WithLabelValues(op).Inc()
}
