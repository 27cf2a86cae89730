// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcomes.
const (
	OutcomeRedirect      = "redirect"
	OutcomeMetadata      = "metadata"
	OutcomeNotFound      = "not_found"
	OutcomeInvalid       = "invalid"
	OutcomeTemplateError = "template_error"
	OutcomeError         = "error"
)

var (
	// registering twice panics
	once sync.Once

	// Resolutions counts resolve attempts on the redirect endpoint by outcome.
	Resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "golink_resolutions_total",
			Help: "Shortlink resolutions by outcome.",
		},
		[]string{"outcome"},
	)

	// CacheLookups counts lookups served from the LRU ("hit") or the store ("miss").
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "golink_cache_lookups_total",
			Help: "Shortlink lookups by cache result.",
		},
		[]string{"result"},
	)

	// ClicksFlushed counts click events written by the click worker.
	ClicksFlushed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "golink_clicks_flushed_total",
			Help: "Click events persisted by the batch worker.",
		},
	)

	// ClicksFallback counts clicks written without the worker.
	ClicksFallback = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "golink_clicks_fallback_total",
			Help: "Click events written synchronously because the worker queue was full or absent.",
		},
	)
)

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			Resolutions,
			CacheLookups,
			ClicksFlushed,
			ClicksFallback,
		)
	})
}
