package stategraph

import (
	"log/slog"

	"github.com/randalmurphal/stategraph/pkg/stategraph/journal"
	"github.com/randalmurphal/stategraph/pkg/stategraph/observability"
)

// runConfig holds configuration for graph execution.
type runConfig struct {
	maxSteps       int
	runID          string
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool
	journalStore   journal.Store
	journalFatal   bool
	sequence       int
}

// defaultRunConfig returns the default execution configuration.
// There is no default step cap: bounding loops is the graph's own
// responsibility (a retry counter carried in state, inspected by its
// routing predicates). WithMaxSteps adds an opt-in guard.
func defaultRunConfig() runConfig {
	return runConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// RunOption configures execution behavior.
type RunOption func(*runConfig)

// WithMaxSteps sets an opt-in limit on node executions per run.
// If a run exceeds the limit, Run returns a *MaxStepsError carrying the
// state at termination. Zero or negative disables the guard (default).
func WithMaxSteps(n int) RunOption {
	return func(c *runConfig) {
		c.maxSteps = n
	}
}

// WithRunID sets the run identifier used for journaling and logging.
// Required when journaling is enabled.
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		c.runID = id
	}
}

// WithObservabilityLogger sets the logger for run-level structured logs.
// Without it, runs execute silently (step-level logging still flows
// through the Context logger).
func WithObservabilityLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for the run.
// Uses the global meter provider.
func WithMetrics(enabled bool) RunOption {
	return func(c *runConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry tracing for the run.
// Uses the global tracer provider.
func WithTracing(enabled bool) RunOption {
	return func(c *runConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithJournal enables the run journal: a record with the merged state
// snapshot is appended after every step. Requires WithRunID.
func WithJournal(store journal.Store) RunOption {
	return func(c *runConfig) {
		c.journalStore = store
	}
}

// WithJournalFailureFatal makes journal failures abort the run with a
// *JournalError. By default they are logged and the run continues.
func WithJournalFailureFatal(fatal bool) RunOption {
	return func(c *runConfig) {
		c.journalFatal = fatal
	}
}
