package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ofwire"

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by decode target and codec error kind.",
		},
		[]string{"service", "method", "path", "target", "status", "kind"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "target"},
	)
	codecOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "operations_total",
			Help:      "Codec encode/decode calls by class and result.",
		},
		[]string{"op", "class", "result"},
	)
	codecErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "errors_total",
			Help:      "Codec failures by error kind.",
		},
		[]string{"op", "kind"},
	)
	codecBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "payload_bytes",
			Help:      "Size of payloads handled by the codec.",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 12),
		},
		[]string{"op"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, codecOperations, codecErrors, codecBytes)
	})
}

// HTTPRequest is one served request. Target is NoTarget outside the
// decode routes and Kind is "ok" unless a codec error was attached.
type HTTPRequest struct {
	Service  string
	Method   string
	Path     string
	Target   string
	Status   int
	Kind     string
	Duration time.Duration
}

func RecordHTTPRequest(r HTTPRequest) {
	RegisterMetrics()
	if r.Target == "" {
		r.Target = NoTarget
	}
	if r.Kind == "" {
		r.Kind = kindOK
	}
	httpRequests.WithLabelValues(r.Service, r.Method, r.Path, r.Target, strconv.Itoa(r.Status), r.Kind).Inc()
	httpDuration.WithLabelValues(r.Service, r.Method, r.Path, r.Target).Observe(r.Duration.Seconds())
}

// RecordCodec counts one codec call. A nil err counts as "ok"; otherwise
// the error kind is recorded too.
func RecordCodec(op, class string, size int, err error) {
	RegisterMetrics()
	result := "ok"
	if err != nil {
		result = "error"
		codecErrors.WithLabelValues(op, protocol.Kind(err)).Inc()
	}
	codecOperations.WithLabelValues(op, class, result).Inc()
	if size > 0 {
		codecBytes.WithLabelValues(op).Observe(float64(size))
	}
}
