package database

import (
	"fmt"
	"sort"
	"time"
)

// copyValue deep copies the map and slice shapes documents are made of.
func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = copyValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = copyValue(val)
		}
		return out
	default:
		return v
	}
}

func copyFields(fields map[string]any) map[string]any {
	if fields == nil {
		return map[string]any{}
	}
	return copyValue(fields).(map[string]any)
}

// resolveSentinels replaces ServerTimestamp with now. Array unions are handled by the
// caller because they depend on the existing value.
func resolveSentinels(fields map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = now
			continue
		}
		out[k] = copyValue(v)
	}
	return out
}

// valuesEqual compares filter values, treating all numeric kinds alike.
func valuesEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
		return false
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func matches(data map[string]any, filter Filter) bool {
	if filter.IsZero() {
		return true
	}
	v, ok := data[filter.Field]
	if !ok {
		return false
	}
	return valuesEqual(v, filter.Value)
}

// sortDocuments gives snapshots a stable order by id.
func sortDocuments(docs []Document) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
}

func requireID(op, collection, id string) error {
	if id == "" {
		return fmt.Errorf("%s: empty document id in %s", op, collection)
	}
	return nil
}
