package metrics

import (
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RecommendationRequestsTotal   metric.Int64Counter
	RecommendationDurationSeconds metric.Float64Histogram
	RecommendationResultsCount    metric.Int64Histogram
	DialogueRuleHitsTotal         metric.Int64Counter
	UpstreamFailuresTotal         metric.Int64Counter
	CatalogSize                   metric.Int64Gauge
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// New creates the instruments on the given meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.RecommendationRequestsTotal, err = meter.Int64Counter(
		"recommendation_requests_total",
		metric.WithDescription("Total number of recommendation runs"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create recommendation_requests_total: %w", err)
	}

	m.RecommendationDurationSeconds, err = meter.Float64Histogram(
		"recommendation_duration_seconds",
		metric.WithDescription("Duration of recommendation runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create recommendation_duration_seconds: %w", err)
	}

	m.RecommendationResultsCount, err = meter.Int64Histogram(
		"recommendation_results_count",
		metric.WithDescription("Number of results returned per recommendation run"),
		metric.WithUnit("{result}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create recommendation_results_count: %w", err)
	}

	m.DialogueRuleHitsTotal, err = meter.Int64Counter(
		"dialogue_rule_hits_total",
		metric.WithDescription("Messages routed per dialogue rule"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create dialogue_rule_hits_total: %w", err)
	}

	m.UpstreamFailuresTotal, err = meter.Int64Counter(
		"upstream_failures_total",
		metric.WithDescription("Failed or timed out calls to embedding, extraction, classification and QA backends"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create upstream_failures_total: %w", err)
	}

	m.CatalogSize, err = meter.Int64Gauge(
		"catalog_activities",
		metric.WithDescription("Number of activities in the loaded catalog snapshot"),
		metric.WithUnit("{activity}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create catalog_activities: %w", err)
	}

	return m, nil
}

// InitAppMetrics initializes the global metrics instruments ONLY ONCE
// from the globally configured MeterProvider.
func InitAppMetrics(serviceName string) {
	once.Do(func() {
		m, err := New(otel.GetMeterProvider().Meter(serviceName))
		if err != nil {
			log.Fatalf("Metrics: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// Noop returns instruments bound to the current global provider without touching the singleton.
func Noop() *AppMetrics {
	m, err := New(otel.GetMeterProvider().Meter("noop"))
	if err != nil {
		panic(err)
	}
	return m
}
