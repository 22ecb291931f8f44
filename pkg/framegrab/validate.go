package framegrab

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// maxCount bounds the sample count so truncation never overflows.
const maxCount = math.MaxInt32

// toNumber returns the value of v when it is a finite number.
//
// Go numeric kinds and json.Number are accepted directly. Strings are
// accepted only in canonical decimal form ("5", "2.5", "-3", "1e+21"), so
// values such as " 5", "5.0" or "0x10" are rejected. NaN and infinities are
// never numbers.
func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, ok := parseCanonical(n)
		if !ok {
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

// parseCanonical parses s only if formatting the result reproduces s.
func parseCanonical(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if strconv.FormatFloat(f, 'f', -1, 64) == s || strconv.FormatFloat(f, 'g', -1, 64) == s {
		return f, true
	}
	return 0, false
}

// isFiniteNumber reports whether v is a finite number as defined by toNumber.
func isFiniteNumber(v any) bool {
	_, ok := toNumber(v)
	return ok
}

// isTimestamp returns the value of v when it is a number within [0, duration].
func isTimestamp(v any, duration float64) (float64, bool) {
	f, ok := toNumber(v)
	if !ok || f < 0 || f > duration {
		return 0, false
	}
	return f, true
}

// toNonNegativeInt returns the floor of the absolute value of v, or 0 when v
// is not a number. Results are capped at maxCount.
func toNonNegativeInt(v any) int {
	f, ok := toNumber(v)
	if !ok {
		return 0
	}
	f = math.Floor(math.Abs(f))
	if f > maxCount {
		return maxCount
	}
	return int(f)
}

// toSequence returns the elements of v when v is a slice or array.
func toSequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case []float64:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []int:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
