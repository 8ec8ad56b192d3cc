// Package decode coerces loosely typed document fields into Go values at the read boundary.
package decode

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Float coerces numbers and numeric strings. Anything else, including NaN and
// infinities, is absent.
func Float(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FloatOrZero is Float with absent mapped to 0.
func FloatOrZero(v any) float64 {
	f, _ := Float(v)
	return f
}

// FloatPtr is Float with absent mapped to nil.
func FloatPtr(v any) *float64 {
	f, ok := Float(v)
	if !ok {
		return nil
	}
	return &f
}

// String returns v when it is a string and "" otherwise.
func String(v any) string {
	s, _ := v.(string)
	return s
}

func Bool(v any) bool {
	b, _ := v.(bool)
	return b
}

// Time accepts the timestamp shapes the store adapters produce. Absent is the zero time.
func Time(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Maps returns the object elements of an array field, skipping anything else.
func Maps(v any) []map[string]any {
	switch t := v.(type) {
	case []map[string]any:
		return t
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
