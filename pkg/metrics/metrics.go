package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 计数缓存的命中情况，label 为计数器名（如 community:member_count）
var (
	CounterCacheHit = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "unihub",
		Name:      "counter_cache_hit_total",
		Help:      "Counter cache reads served from the persisted field or redis.",
	}, []string{"counter", "source"}) // source: field / redis

	CounterCacheMiss = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "unihub",
		Name:      "counter_cache_miss_total",
		Help:      "Counter cache reads that fell through to a recompute.",
	}, []string{"counter"})

	CacheInvalidation = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "unihub",
		Name:      "cache_invalidation_total",
		Help:      "Cache invalidations fired by the invalidation bus.",
	}, []string{"trigger"})
)
