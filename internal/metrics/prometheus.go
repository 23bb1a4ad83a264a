package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ExtractionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "instabio_extraction_duration_seconds",
			Help:    "Entity extraction duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"source"},
	)

	ExtractionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instabio_extraction_total",
			Help: "Total number of transcripts extracted",
		},
		[]string{"status"},
	)

	EntitiesExtracted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instabio_entities_extracted_total",
			Help: "Total entities extracted by type",
		},
		[]string{"entity_type"},
	)

	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "instabio_pipeline_duration_seconds",
			Help:    "Full processing pipeline duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	PipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instabio_pipeline_runs_total",
			Help: "Total pipeline runs by outcome",
		},
		[]string{"status"},
	)

	TimelineEntries = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "instabio_timeline_entries_count",
			Help:    "Number of timeline entries per build",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	SoulChatTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instabio_soul_chat_total",
			Help: "Total Soul chat turns by status",
		},
		[]string{"status"},
	)

	SoulChatDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "instabio_soul_chat_duration_seconds",
			Help:    "Soul chat turn duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
	)

	RetrievalResultsCount = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "instabio_retrieval_results_count",
			Help:    "Number of memory chunks retrieved per chat turn",
			Buckets: []float64{0, 1, 2, 5, 10, 20},
		},
		[]string{"source"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instabio_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"model", "type"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instabio_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instabio_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	BiographiesGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instabio_biographies_generated_total",
			Help: "Total biographies generated by status",
		},
		[]string{"status"},
	)

	JournalEntriesGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "instabio_journal_entries_generated_total",
			Help: "Total journal entries generated",
		},
	)

	KGNodesWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instabio_kg_nodes_written_total",
			Help: "Total nodes written to the knowledge graph",
		},
		[]string{"node_type"},
	)
)

func Init() {
	prometheus.MustRegister(ExtractionDuration)
	prometheus.MustRegister(ExtractionTotal)
	prometheus.MustRegister(EntitiesExtracted)
	prometheus.MustRegister(PipelineDuration)
	prometheus.MustRegister(PipelineRuns)
	prometheus.MustRegister(TimelineEntries)
	prometheus.MustRegister(SoulChatTotal)
	prometheus.MustRegister(SoulChatDuration)
	prometheus.MustRegister(RetrievalResultsCount)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(BiographiesGenerated)
	prometheus.MustRegister(JournalEntriesGenerated)
	prometheus.MustRegister(KGNodesWritten)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
