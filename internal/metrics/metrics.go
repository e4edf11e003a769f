// Package metrics holds the service's prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// once guards registration with the default registerer.
	once sync.Once

	// CodecOperationsTotal counts encode/decode calls by outcome.
	// result is "ok" or "error"; decode errors on bad input are expected.
	CodecOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codec_operations_total",
			Help: "Obfuscation codec operations by operation, variant and result.",
		},
		[]string{"op", "variant", "result"},
	)

	// route is the mux path template, never the raw path, to bound cardinality.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Init registers the collectors with the default registry. It is safe to
// call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			CodecOperationsTotal,
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
		)
	})
}

// ObserveCodec records one codec operation.
func ObserveCodec(op, variant string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CodecOperationsTotal.WithLabelValues(op, variant, result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency per route template. It is
// meant for mux.Router.Use, which runs it after route matching.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		route := "UNMATCHED"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		next.ServeHTTP(rec, r)

		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		HTTPRequestDurationSeconds.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
