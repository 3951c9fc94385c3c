package icpgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational
// metrics from the registration pipeline. Implement it to integrate
// with monitoring systems like Prometheus. It replaces the per-phase
// stopwatch logging some registration stacks hard-code.
type MetricsCollector interface {
	// RecordSearch is called after each correspondence search.
	// matches is the number of matched source points.
	RecordSearch(matches int, duration time.Duration, err error)

	// RecordEstimation is called after each transform estimation.
	// method names the estimator ("PointToPoint" or "PointToPlane").
	RecordEstimation(method string, duration time.Duration, err error)

	// RecordIteration is called after each completed ICP iteration
	// with the evaluation of the freshly composed transform.
	RecordIteration(iteration int, fitness, inlierRMSE float64, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSearch(int, time.Duration, error)               {}
func (NoopMetricsCollector) RecordEstimation(string, time.Duration, error)        {}
func (NoopMetricsCollector) RecordIteration(int, float64, float64, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external
// dependencies.
type BasicMetricsCollector struct {
	SearchCount          atomic.Int64
	SearchErrors         atomic.Int64
	SearchTotalNanos     atomic.Int64
	EstimationCount      atomic.Int64
	EstimationErrors     atomic.Int64
	EstimationTotalNanos atomic.Int64
	IterationCount       atomic.Int64
	IterationTotalNanos  atomic.Int64
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(matches int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordEstimation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEstimation(method string, duration time.Duration, err error) {
	b.EstimationCount.Add(1)
	b.EstimationTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EstimationErrors.Add(1)
	}
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(iteration int, fitness, inlierRMSE float64, duration time.Duration) {
	b.IterationCount.Add(1)
	b.IterationTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SearchCount:      b.SearchCount.Load(),
		SearchErrors:     b.SearchErrors.Load(),
		SearchAvgNanos:   avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		EstimationCount:  b.EstimationCount.Load(),
		EstimationErrors: b.EstimationErrors.Load(),
		IterationCount:   b.IterationCount.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SearchCount      int64
	SearchErrors     int64
	SearchAvgNanos   int64
	EstimationCount  int64
	EstimationErrors int64
	IterationCount   int64
}
