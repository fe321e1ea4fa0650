// Package journal provides persistent run-journal storage.
//
// The engine appends a Record after every step when journaling is
// enabled: the post-merge state snapshot, the step that produced it, and
// the routing decision that followed. The journal is an audit and
// diagnostic trail for completed or failed runs, not a resume mechanism.
package journal

import (
	"errors"
	"time"
)

// Record is one journal entry: the state of a run after a single step.
type Record struct {
	// RunID identifies the run.
	RunID string
	// Sequence orders records within a run, starting at 1.
	Sequence int
	// NodeID is the step that just executed.
	NodeID string
	// Next is the routing result: the next node ID or the terminal sentinel.
	Next string
	// State is the JSON-serialized post-merge state snapshot.
	State []byte
	// Timestamp is when the record was appended, in UTC.
	Timestamp time.Time
}

// Store persists journal records.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores a record. Records for a run are expected to arrive
	// with increasing sequence numbers.
	Append(rec Record) error

	// List returns all records for a run, ordered by sequence.
	// Returns an empty slice (not an error) if the run has no records.
	List(runID string) ([]Record, error)

	// Latest returns the highest-sequence record for a run.
	// Returns ErrNotFound if the run has no records.
	Latest(runID string) (Record, error)

	// DeleteRun removes all records for a run.
	// Returns nil if the run has no records.
	DeleteRun(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for journal operations.
var (
	// ErrNotFound indicates a run has no journal records.
	ErrNotFound = errors.New("journal records not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")
)
