package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetrics records outcomes of the outbox push pipeline.
type SyncMetrics interface {
	// RecordPush records one delivery attempt for an outbox entry.
	// Outcome is "synced" or "failed".
	RecordPush(ctx context.Context, table, operation, outcome string)

	// RecordSession records a finished sync session with its final status
	// and wall-clock duration.
	RecordSession(ctx context.Context, status string, duration time.Duration)
}

// syncMetrics implements SyncMetrics using OpenTelemetry instruments.
type syncMetrics struct {
	pushCounter    metric.Int64Counter
	sessionCounter metric.Int64Counter
	sessionHisto   metric.Float64Histogram
}

// NewSyncMetrics creates a SyncMetrics implementation on the provided meter
// provider. The namespace is used as a prefix for all metric names.
func NewSyncMetrics(meterProvider metric.MeterProvider, namespace string) (SyncMetrics, error) {
	meter := meterProvider.Meter(namespace)

	pushCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_outbox_pushes_total", namespace),
		metric.WithDescription("Total number of outbox entry delivery attempts"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create push counter: %w", err)
	}

	sessionCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_sync_sessions_total", namespace),
		metric.WithDescription("Total number of finished sync sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session counter: %w", err)
	}

	sessionHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_sync_session_duration_seconds", namespace),
		metric.WithDescription("Duration of sync sessions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session duration histogram: %w", err)
	}

	return &syncMetrics{
		pushCounter:    pushCounter,
		sessionCounter: sessionCounter,
		sessionHisto:   sessionHisto,
	}, nil
}

func (s *syncMetrics) RecordPush(ctx context.Context, table, operation, outcome string) {
	s.pushCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("table", table),
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
		),
	)
}

func (s *syncMetrics) RecordSession(ctx context.Context, status string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	s.sessionCounter.Add(ctx, 1, attrs)
	s.sessionHisto.Record(ctx, duration.Seconds(), attrs)
}

// NoOpSyncMetrics is used when metrics are disabled.
type NoOpSyncMetrics struct{}

// NewNoOpSyncMetrics creates a no-op SyncMetrics implementation.
func NewNoOpSyncMetrics() SyncMetrics {
	return &NoOpSyncMetrics{}
}

// RecordPush does nothing when metrics are disabled.
func (n *NoOpSyncMetrics) RecordPush(ctx context.Context, table, operation, outcome string) {}

// RecordSession does nothing when metrics are disabled.
func (n *NoOpSyncMetrics) RecordSession(ctx context.Context, status string, duration time.Duration) {}
