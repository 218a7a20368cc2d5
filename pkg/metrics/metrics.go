// Package metrics holds the Prometheus collectors for the service and the
// HTTP middleware that feeds them. Everything registers on the default
// registry at init and is scraped from GET /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "movie_discovery"

// HTTPRequests counts requests by method, chi route pattern and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "http_requests_total",
	Help:      "Total HTTP requests handled.",
}, []string{"method", "route", "status"})

// HTTPDuration tracks request latency by route pattern.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

// CatalogRequests counts upstream TMDb calls. result is ok, error or not_found.
var CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "catalog_requests_total",
	Help:      "Upstream catalog API requests by endpoint and result.",
}, []string{"endpoint", "result"})

// CatalogCache counts cache outcomes: store, stale_hit, stale_miss.
var CatalogCache = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "catalog_cache_events_total",
	Help:      "Catalog response cache events.",
}, []string{"outcome"})

// Redemptions counts redeem-code attempts by result.
var Redemptions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "redemptions_total",
	Help:      "Recharge code redemption attempts by result.",
}, []string{"result"})

// AchievementsUnlocked counts first-time unlocks by achievement type.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "achievements_unlocked_total",
	Help:      "Achievements unlocked by type.",
}, []string{"type"})

// Handler returns the scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency. It must be mounted on the
// chi router so the route pattern is known once the handler returns.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := routePattern(r)
		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// routePattern keeps label cardinality bounded: raw paths carry ids.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
