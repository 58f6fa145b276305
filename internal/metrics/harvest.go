package metrics

import "github.com/prometheus/client_golang/prometheus"

// Harvest and ingestion Prometheus metrics. Registered explicitly from
// the harvester entrypoint (no init()).
var (
	CatalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "schemedex",
			Name:      "catalog_requests_total",
			Help:      "Total requests issued to the remote catalog",
		},
		[]string{"kind", "code"}, // kind: "listing" / "detail"
	)

	CatalogRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "schemedex",
			Name:      "catalog_retries_total",
			Help:      "Total catalog request retries after backoff",
		},
		[]string{"kind"},
	)

	PagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "schemedex",
			Name:      "harvest_pages_total",
			Help:      "Catalog listing pages processed",
		},
		[]string{"result"}, // "ok" / "skipped"
	)

	RecordsEmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "schemedex",
			Name:      "harvest_records_emitted_total",
			Help:      "Normalized scheme records emitted by the harvester",
		},
	)

	DegradedFieldsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "schemedex",
			Name:      "harvest_degraded_fields_total",
			Help:      "Long-form fields that failed extraction, by field name",
		},
		[]string{"field"},
	)

	IngestOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "schemedex",
			Name:      "ingest_outcomes_total",
			Help:      "Ingestion outcomes by result",
		},
		[]string{"outcome"}, // "inserted" / "duplicate_skipped" / "failed"
	)

	RecordCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "schemedex",
			Name:      "record_cache_total",
			Help:      "Record cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// RegisterHarvestMetrics registers the harvest-side collectors.
func RegisterHarvestMetrics() {
	prometheus.MustRegister(
		CatalogRequestsTotal,
		CatalogRetriesTotal,
		PagesTotal,
		RecordsEmittedTotal,
		DegradedFieldsTotal,
		IngestOutcomesTotal,
	)
}

// RegisterCacheMetrics registers the read-side cache collector.
func RegisterCacheMetrics() {
	prometheus.MustRegister(RecordCacheTotal)
}
