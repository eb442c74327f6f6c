package domain

import "fmt"

// State is the mutable data threaded through graph execution.
// Keys are field names; values must stay serializable (no ownership cycles)
// since the engine may snapshot the state between steps.
type State map[string]any

// Clone creates a shallow copy of the state.
// The map is copied, but values are not deep-copied.
func (s State) Clone() State {
	clone := make(State, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// MergePolicy defines how a partial update to a field is combined with the
// value already present in the state.
type MergePolicy string

const (
	// Overwrite replaces the previous value. This is the default for any
	// field not declared in the schema.
	Overwrite MergePolicy = "overwrite"
	// Append concatenates strings and slices.
	Append MergePolicy = "append"
	// Sum adds numeric values.
	Sum MergePolicy = "sum"
)

// Schema declares the per-field merge strategy for a graph's state.
// Fields absent from the schema use Overwrite.
type Schema map[string]MergePolicy

// Validate checks that every declared policy is a known one.
func (sc Schema) Validate() error {
	for field, policy := range sc {
		switch policy {
		case Overwrite, Append, Sum:
		default:
			return fmt.Errorf("schema field %q: unknown merge policy %q", field, policy)
		}
	}
	return nil
}

// Apply merges a partial update into dst according to the schema.
// dst is mutated in place; delta is never modified.
func (sc Schema) Apply(dst State, delta State) error {
	for key, value := range delta {
		switch sc[key] {
		case Append:
			merged, err := appendValues(dst[key], value)
			if err != nil {
				return fmt.Errorf("merge field %q: %w", key, err)
			}
			dst[key] = merged
		case Sum:
			merged, err := sumValues(dst[key], value)
			if err != nil {
				return fmt.Errorf("merge field %q: %w", key, err)
			}
			dst[key] = merged
		default:
			dst[key] = value
		}
	}
	return nil
}

func appendValues(prev, next any) (any, error) {
	if prev == nil {
		return next, nil
	}
	switch p := prev.(type) {
	case string:
		n, ok := next.(string)
		if !ok {
			return nil, fmt.Errorf("cannot append %T to string", next)
		}
		return p + n, nil
	case []any:
		switch n := next.(type) {
		case []any:
			return append(append([]any{}, p...), n...), nil
		default:
			return append(append([]any{}, p...), n), nil
		}
	case []string:
		switch n := next.(type) {
		case []string:
			return append(append([]string{}, p...), n...), nil
		case string:
			return append(append([]string{}, p...), n), nil
		default:
			return nil, fmt.Errorf("cannot append %T to []string", next)
		}
	default:
		return nil, fmt.Errorf("append not supported for %T", prev)
	}
}

func sumValues(prev, next any) (any, error) {
	if prev == nil {
		// Normalize so repeated merges keep a stable type.
		if n, ok := asInt(next); ok {
			return n, nil
		}
		if f, ok := asFloat(next); ok {
			return f, nil
		}
		return nil, fmt.Errorf("sum not supported for %T", next)
	}
	// Integers stay integers; any float involvement promotes to float64.
	pi, pIsInt := asInt(prev)
	ni, nIsInt := asInt(next)
	if pIsInt && nIsInt {
		return pi + ni, nil
	}
	pf, okP := asFloat(prev)
	nf, okN := asFloat(next)
	if !okP || !okN {
		return nil, fmt.Errorf("sum not supported for %T and %T", prev, next)
	}
	return pf + nf, nil
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
