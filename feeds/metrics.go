package feeds

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedSkips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedagg_feed_skips_total",
		Help: "Number of sources skipped, by reason",
	}, []string{"reason"})

	feedsAggregated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedagg_feeds_aggregated_total",
		Help: "Number of sources that contributed entries to an aggregate",
	})

	postsAggregated = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "feedagg_posts_aggregated",
		Help: "Number of posts in the most recently built aggregate",
	})

	aggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feedagg_aggregation_duration_seconds",
		Help:    "Duration of a whole aggregation run",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})
)
