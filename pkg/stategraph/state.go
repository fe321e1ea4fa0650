package stategraph

// FieldKind declares how updates to a state field are merged.
type FieldKind int

const (
	// Overwrite replaces the prior value on every update.
	Overwrite FieldKind = iota

	// Append concatenates each update onto the prior value, preserving order.
	// Append fields hold []any; an update for an append field is the sequence
	// of elements to append (possibly empty).
	Append
)

// ErrorField is the overwrite field where the engine records step failures.
// Routing predicates inspect it to decide whether to retry, skip, or end.
const ErrorField = "error"

// State is the data object threaded through a run.
// Each run owns an independent instance; nodes receive it read-only and
// return an Update rather than mutating it.
type State map[string]any

// Update is a partial state update returned by a node.
// Keys absent from the update leave the corresponding field unchanged.
type Update map[string]any

// Clone returns an independent copy of the state.
// Append-field slices are copied so later merges cannot alias the original;
// other values are copied shallowly (nodes treat them as immutable).
func (s State) Clone() State {
	if s == nil {
		return State{}
	}
	out := make(State, len(s))
	for k, v := range s {
		if seq, ok := v.([]any); ok {
			cp := make([]any, len(seq))
			copy(cp, seq)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

// Schema declares the merge kind of each state field.
// Fields not declared default to Overwrite.
//
// Schema is built once at configuration time and read-only afterwards,
// so it is safe to share across concurrent runs.
type Schema struct {
	kinds map[string]FieldKind
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{kinds: make(map[string]FieldKind)}
}

// Declare sets the merge kind for a field.
// Returns the schema for method chaining.
func (sc *Schema) Declare(field string, kind FieldKind) *Schema {
	if field == "" {
		panic("stategraph: field name cannot be empty")
	}
	sc.kinds[field] = kind
	return sc
}

// Kind returns the declared merge kind for a field.
// Undeclared fields are Overwrite.
func (sc *Schema) Kind(field string) FieldKind {
	if sc == nil {
		return Overwrite
	}
	return sc.kinds[field]
}

// Merge applies an update to a state under the schema's per-field rules and
// returns the merged state. The input state is not modified.
//
// Merging is associative for append fields: applying [a] then [b] yields the
// same state as applying [a, b] in one update.
func (sc *Schema) Merge(state State, update Update) State {
	out := state.Clone()
	for k, v := range update {
		switch sc.Kind(k) {
		case Append:
			out[k] = appendSequence(out[k], v)
		default:
			out[k] = v
		}
	}
	return out
}

// appendSequence concatenates an update value onto an append field.
// The update is expected to be a []any sequence; a bare value is treated
// as a one-element sequence so callers can append single items directly.
func appendSequence(existing, update any) any {
	var seq []any
	if existing != nil {
		if s, ok := existing.([]any); ok {
			seq = s
		} else {
			seq = []any{existing}
		}
	}
	switch u := update.(type) {
	case nil:
		return seq
	case []any:
		return append(seq, u...)
	default:
		return append(seq, u)
	}
}
