// Package stategraph provides a declarative, registry-driven workflow
// execution engine.
package stategraph

import (
	"errors"
	"fmt"
)

// Sentinel errors for definition validation.
var (
	// ErrNilDefinition indicates Compile() was called with a nil definition.
	ErrNilDefinition = errors.New("graph definition is nil")

	// ErrNoEntryPoint indicates the definition has no entry point.
	ErrNoEntryPoint = errors.New("entry point not set")

	// ErrEntryNotFound indicates the entry point references an undeclared node.
	ErrEntryNotFound = errors.New("entry point node not found")

	// ErrNodeNotFound indicates an edge references an undeclared node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrDuplicateNode indicates two nodes share an ID.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrInvalidNodeID indicates a node ID is empty or reserved.
	ErrInvalidNodeID = errors.New("invalid node ID")

	// ErrAmbiguousRouting indicates a node has more than one outgoing
	// unconditional edge, more than one conditional edge, or both kinds.
	ErrAmbiguousRouting = errors.New("ambiguous outgoing routing")

	// ErrUnknownReference indicates a function or condition reference does
	// not resolve against the live registries.
	ErrUnknownReference = errors.New("unknown reference")
)

// Sentinel errors for execution.
var (
	// ErrNilContext indicates Run() was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrUnknownLabel indicates a predicate returned a label absent from
	// its conditional edge's paths.
	ErrUnknownLabel = errors.New("label not in paths")

	// ErrMaxSteps indicates the opt-in step guard was exceeded.
	ErrMaxSteps = errors.New("exceeded maximum steps")

	// ErrRunIDRequired indicates journaling was enabled without a run ID.
	ErrRunIDRequired = errors.New("run ID required for journaling")
)

// StepFailure is the value the engine records under ErrorField when a
// step fails. Failures are data, not control flow: the run continues to
// its routing decision, and the graph's own predicates decide whether to
// retry, skip, or end.
//
// The shape is stable regardless of how the underlying step failed
// (error return or panic) and serializes cleanly into the run journal.
type StepFailure struct {
	// NodeID is the step that failed.
	NodeID string `json:"node_id"`
	// Message is the failure text.
	Message string `json:"message"`
	// Panicked is true if the step panicked rather than returning an error.
	Panicked bool `json:"panicked,omitempty"`
}

// Error implements the error interface so predicates and callers can
// treat the captured value as an error when convenient.
func (f StepFailure) Error() string {
	if f.Panicked {
		return fmt.Sprintf("step %s panicked: %s", f.NodeID, f.Message)
	}
	return fmt.Sprintf("step %s: %s", f.NodeID, f.Message)
}

// RouterError reports a predicate returning a label with no declared path.
// It is fatal to the run and never silently defaulted: an unknown label is
// a defect in the predicate or the definition's label set.
type RouterError struct {
	// FromNode is the node whose conditional edge was being routed.
	FromNode string
	// Condition is the predicate reference that produced the label.
	Condition string
	// Returned is the label the predicate returned.
	Returned string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *RouterError) Error() string {
	return fmt.Sprintf("condition %s from %s returned %q: %v", e.Condition, e.FromNode, e.Returned, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RouterError) Unwrap() error {
	return e.Err
}

// MaxStepsError provides context when the opt-in step guard trips.
// It includes the state at termination for inspection.
type MaxStepsError struct {
	// Max is the configured step limit.
	Max int
	// LastNodeID is the node that would have executed next.
	LastNodeID string
	// State is the state at termination.
	State State
}

// Error implements the error interface.
func (e *MaxStepsError) Error() string {
	return fmt.Sprintf("exceeded maximum steps (%d) at node %s", e.Max, e.LastNodeID)
}

// Unwrap returns ErrMaxSteps for errors.Is support.
func (e *MaxStepsError) Unwrap() error {
	return ErrMaxSteps
}

// JournalError wraps errors from run-journal operations.
type JournalError struct {
	// NodeID is the step whose record failed.
	NodeID string
	// Op is the operation that failed ("serialize", "append").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *JournalError) Error() string {
	return fmt.Sprintf("journal %s at node %s: %v", e.Op, e.NodeID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *JournalError) Unwrap() error {
	return e.Err
}
