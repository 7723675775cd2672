// Package metrics holds Prometheus instruments that are used across the
// storefront.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_renders_total",
			Help: "Storefront pages rendered, by page type.",
		}, []string{"page_type"})

	RenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_render_duration_seconds",
			Help:    "Wall time of the resolve-and-render pipeline.",
			Buckets: prometheus.DefBuckets,
		})

	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_hits_total",
			Help: "Cache hits, by tier (process, redis).",
		}, []string{"tier"})

	CacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_misses_total",
			Help: "Cache misses, by tier (process, redis).",
		}, []string{"tier"})

	TenantResolveTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_tenant_resolve_total",
			Help: "Cumulative number of successful tenant resolutions.",
		})

	TenantResolveErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_tenant_resolve_errors_total",
			Help: "Cumulative number of tenant resolution failures.",
		})

	CacheEvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_evictions_total",
			Help: "Process-tier capacity evictions, by cache (theme, compiled).",
		}, []string{"cache"})

	ThemeLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_theme_load_total",
			Help: "Cumulative number of themes loaded from storage.",
		})

	CheckoutTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkout_total",
			Help: "Checkout requests forwarded, by outcome.",
		}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		RendersTotal,
		RenderDuration,
		CacheHitsTotal,
		CacheMissesTotal,
		TenantResolveTotal,
		TenantResolveErrorsTotal,
		CacheEvictionsTotal,
		ThemeLoadTotal,
		CheckoutTotal,
	)
}
