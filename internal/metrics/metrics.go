// Package metrics exposes Prometheus collectors for upstream fetches and
// record store loads.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "admin_dashboard"

type metrics struct {
	upstreamTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec

	loadTotal      *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	collectionRows *prometheus.GaugeVec

	holdingsTotal *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		upstreamTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of requests sent to the admin API.",
		}, []string{"path", "status"}),
		upstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency distribution of admin API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		loadTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_loads_total",
			Help:      "Total number of bulk loads by result.",
		}, []string{"result"}),
		loadDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bulk_load_duration_seconds",
			Help:      "Duration of bulk loads.",
			Buckets:   prometheus.DefBuckets,
		}),
		collectionRows: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_rows",
			Help:      "Rows currently held per collection.",
		}, []string{"collection"}),
		holdingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holdings_fetches_total",
			Help:      "Total number of holdings fetches by result.",
		}, []string{"result"}),
	}
})

// Result labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultStale   = "stale"
	ResultCached  = "cached"
)

// ObserveUpstream records one admin API request. A status of 0 means the
// request failed before a response arrived.
func ObserveUpstream(path string, status int, d time.Duration) {
	m := metricsSingleton()
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.upstreamTotal.WithLabelValues(path, label).Inc()
	m.upstreamLatency.WithLabelValues(path).Observe(d.Seconds())
}

// ObserveLoad records the outcome of a bulk load.
func ObserveLoad(result string, d time.Duration) {
	m := metricsSingleton()
	m.loadTotal.WithLabelValues(result).Inc()
	m.loadDuration.Observe(d.Seconds())
}

// SetCollectionRows publishes the size of a collection.
func SetCollectionRows(collection string, n int) {
	metricsSingleton().collectionRows.WithLabelValues(collection).Set(float64(n))
}

// ObserveHoldings records the outcome of a holdings fetch.
func ObserveHoldings(result string) {
	metricsSingleton().holdingsTotal.WithLabelValues(result).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
