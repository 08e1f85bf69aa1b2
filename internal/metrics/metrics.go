package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TemplatesInitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vamcontent_templates_init_total",
		Help: "Default template initialization outcomes per template.",
	}, []string{"state"})

	TemplatesAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vamcontent_templates_available",
		Help: "Number of templates listed as available.",
	})

	TemplateResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vamcontent_template_resolve_total",
		Help: "Template resolution attempts.",
	}, []string{"status"})

	MergesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vamcontent_merges_total",
		Help: "Placeholder merges performed.",
	}, []string{"status"})

	MergeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vamcontent_merge_duration_seconds",
		Help:    "Time to merge records into a template and serialize it.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	UnresolvedPlaceholdersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vamcontent_unresolved_placeholders_total",
		Help: "Placeholder tokens left in merged decks because no record matched them.",
	})

	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vamcontent_generations_total",
		Help: "Content generation calls by kind and outcome.",
	}, []string{"kind", "status"})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vamcontent_generation_duration_seconds",
		Help:    "Latency of content generation calls to the provider.",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
	}, []string{"kind"})

	GenerationCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vamcontent_generation_cache_total",
		Help: "Generation cache lookups.",
	}, []string{"result"})
)
