package stategraph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/stategraph/pkg/stategraph/journal"
	"github.com/randalmurphal/stategraph/pkg/stategraph/observability"
)

// Run executes the graph from its entry point with the given initial
// state and returns the final state.
//
// Each run owns an independent copy of the initial state; concurrent runs
// of the same compiled graph never share state.
//
// A step that returns an error or panics does not abort the run: the
// failure is merged into the state's ErrorField as a StepFailure and the
// run proceeds to its routing decision, which may retry, re-route, or
// end, entirely per the graph's own conditional logic.
//
// Run fails only on engine-level defects: a predicate returning an
// undeclared label (*RouterError), the opt-in step guard (*MaxStepsError),
// or a fatal journal failure (*JournalError). On failure the returned
// state reflects everything merged up to that point.
func (cg *CompiledGraph) Run(ctx Context, initial State, opts ...RunOption) (result State, runErr error) {
	if ctx == nil {
		return initial, ErrNilContext
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.journalStore != nil && cfg.runID == "" {
		return initial, ErrRunIDRequired
	}

	runID := cfg.runID
	if runID == "" {
		runID = ctx.RunID()
	}

	startTime := time.Now()
	observability.LogRunStart(cfg.logger, runID)

	var execCtx context.Context = ctx
	var runSpan trace.Span
	if cfg.tracingEnabled {
		execCtx, runSpan = cfg.spans.StartRunSpan(ctx, "stategraph", runID)
		defer func() {
			cfg.spans.EndSpanWithError(runSpan, runErr)
		}()
	}

	var steps int
	result, steps, runErr = cg.runLoop(execCtx, ctx, initial, &cfg)

	duration := time.Since(startTime)
	cfg.metrics.RecordGraphRun(ctx, runErr == nil, duration)

	if runErr != nil {
		lastNode := ""
		switch e := runErr.(type) {
		case *RouterError:
			lastNode = e.FromNode
		case *MaxStepsError:
			lastNode = e.LastNodeID
		case *JournalError:
			lastNode = e.NodeID
		}
		observability.LogRunError(cfg.logger, runID, runErr, float64(duration.Milliseconds()), lastNode)
	} else {
		observability.LogRunComplete(cfg.logger, runID, float64(duration.Milliseconds()), steps)
	}

	return result, runErr
}

// runLoop walks the graph from the entry point: execute step, merge its
// update, route, repeat until END. tracingCtx carries span context; sgCtx
// is the stategraph Context handed to steps and predicates.
func (cg *CompiledGraph) runLoop(tracingCtx context.Context, sgCtx Context, initial State, cfg *runConfig) (State, int, error) {
	state := initial.Clone()
	current := cg.entryPoint
	steps := 0

	for current != END {
		if cfg.maxSteps > 0 && steps >= cfg.maxSteps {
			return state, steps, &MaxStepsError{
				Max:        cfg.maxSteps,
				LastNodeID: current,
				State:      state,
			}
		}
		steps++

		observability.LogStepStart(cfg.logger, current)

		stepTracingCtx := tracingCtx
		var stepSpan trace.Span
		if cfg.tracingEnabled {
			stepTracingCtx, stepSpan = cfg.spans.StartStepSpan(tracingCtx, current)
		}

		stepStart := time.Now()
		var failure *StepFailure
		state, failure = cg.executeStep(sgCtx, current, state)
		stepDuration := time.Since(stepStart)

		cfg.metrics.RecordStepExecution(stepTracingCtx, current, stepDuration, failure != nil)
		if cfg.tracingEnabled {
			var spanErr error
			if failure != nil {
				spanErr = *failure
			}
			cfg.spans.EndSpanWithError(stepSpan, spanErr)
		}
		if failure != nil {
			observability.LogStepFailure(cfg.logger, current, failure.Error())
		} else {
			observability.LogStepComplete(cfg.logger, current, float64(stepDuration.Milliseconds()))
		}

		next, err := cg.route(sgCtx, state, current)
		if err != nil {
			return state, steps, err
		}

		if cfg.journalStore != nil {
			if err := cg.appendJournal(sgCtx, cfg, current, state, next); err != nil {
				return state, steps, err
			}
		}

		current = next
	}

	return state, steps, nil
}

// executeStep invokes a single step and merges its update into the state.
// A returned error or panic is normalized into a StepFailure recorded
// under ErrorField; any partial update the step returned alongside an
// error is merged first.
func (cg *CompiledGraph) executeStep(ctx Context, nodeID string, state State) (State, *StepFailure) {
	fn, exists := cg.getStep(nodeID)
	if !exists {
		// Unreachable after successful compilation.
		failure := StepFailure{
			NodeID:  nodeID,
			Message: fmt.Sprintf("node not found: %s", nodeID),
		}
		return cg.schema.Merge(state, Update{ErrorField: failure}), &failure
	}

	stepCtx := ctx
	if ec, ok := ctx.(*executionContext); ok {
		stepCtx = ec.withNodeID(nodeID)
	}

	update, failure := invoke(fn, stepCtx, nodeID, state)
	state = cg.schema.Merge(state, update)
	if failure != nil {
		state = cg.schema.Merge(state, Update{ErrorField: *failure})
	}
	return state, failure
}

// invoke calls a step function with panic recovery, normalizing both
// error returns and panics into a StepFailure.
func invoke(fn NodeFunc, ctx Context, nodeID string, state State) (update Update, failure *StepFailure) {
	defer func() {
		if r := recover(); r != nil {
			update = nil
			failure = &StepFailure{
				NodeID:   nodeID,
				Message:  fmt.Sprint(r),
				Panicked: true,
			}
		}
	}()

	update, err := fn(ctx, state)
	if err != nil {
		return update, &StepFailure{
			NodeID:  nodeID,
			Message: err.Error(),
		}
	}
	return update, nil
}

// route determines the next node after a step.
// A node with neither an edge nor a conditional edge is terminal.
func (cg *CompiledGraph) route(ctx Context, state State, current string) (string, error) {
	if route, exists := cg.getRoute(current); exists {
		routeCtx := ctx
		if ec, ok := ctx.(*executionContext); ok {
			routeCtx = ec.withNodeID(current)
		}

		label := route.predicate(routeCtx, state)
		target, ok := route.paths[label]
		if !ok {
			return "", &RouterError{
				FromNode:  current,
				Condition: route.condition,
				Returned:  label,
				Err:       ErrUnknownLabel,
			}
		}
		return target, nil
	}

	if target, exists := cg.next[current]; exists {
		return target, nil
	}

	return END, nil
}

// appendJournal records the post-merge state snapshot for a step.
// Failures are logged and swallowed unless WithJournalFailureFatal is set.
func (cg *CompiledGraph) appendJournal(ctx Context, cfg *runConfig, nodeID string, state State, next string) error {
	stateBytes, err := json.Marshal(state)
	if err != nil {
		if cfg.journalFatal {
			return &JournalError{NodeID: nodeID, Op: "serialize", Err: err}
		}
		observability.LogJournalError(cfg.logger, nodeID, "serialize", err)
		return nil
	}

	cfg.sequence++
	rec := journal.Record{
		RunID:     cfg.runID,
		Sequence:  cfg.sequence,
		NodeID:    nodeID,
		Next:      next,
		State:     stateBytes,
		Timestamp: time.Now().UTC(),
	}

	if err := cfg.journalStore.Append(rec); err != nil {
		if cfg.journalFatal {
			return &JournalError{NodeID: nodeID, Op: "append", Err: err}
		}
		observability.LogJournalError(cfg.logger, nodeID, "append", err)
		return nil
	}

	observability.LogJournal(cfg.logger, nodeID, len(stateBytes))
	cfg.metrics.RecordJournalAppend(ctx, nodeID, int64(len(stateBytes)))
	return nil
}
