// Package metrics declares the Prometheus collectors of the blog and the
// helpers that record them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Fragment cache
	FragmentCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_fragment_cache_hits_total",
			Help: "Total number of rendered fragments served from the cache",
		},
		[]string{"fragment"},
	)

	FragmentCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_fragment_cache_misses_total",
			Help: "Total number of fragments rendered because the cache had no entry",
		},
		[]string{"fragment"},
	)

	// Domain events
	PostsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_posts_created_total",
			Help: "Total number of posts published",
		},
	)

	CommentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_comments_created_total",
			Help: "Total number of comments added",
		},
	)

	FollowsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_follows_created_total",
			Help: "Total number of follow edges created",
		},
	)

	LoginFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_login_failures_total",
			Help: "Total number of rejected login attempts",
		},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordFragmentCache counts a lookup of the named fragment.
func RecordFragmentCache(fragment string, hit bool) {
	if hit {
		FragmentCacheHits.WithLabelValues(fragment).Inc()
		return
	}
	FragmentCacheMisses.WithLabelValues(fragment).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records every request under its route pattern, so that
// /sarah/ and /john/ share the /:username/ series.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
