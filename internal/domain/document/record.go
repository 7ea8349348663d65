package document

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const KeyID = "id"

// Record is one raw JSON object from the document. Keeping records untyped lets
// a shallow merge carry fields that the typed views do not know about.
type Record map[string]any

// Clone copies the top level of the record; nested values are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (r Record) ID() (int64, bool) {
	return r.Int64(KeyID)
}

func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Int64 reads a whole number, accepting JSON numbers and numeric strings.
func (r Record) Int64(key string) (int64, bool) {
	return toInt64(r[key])
}

// OptionalInt64 is Int64 as a pointer, nil when the key is absent or not numeric.
func (r Record) OptionalInt64(key string) *int64 {
	v, ok := r.Int64(key)
	if !ok {
		return nil
	}
	return &v
}

func (r Record) Int(key string) int {
	v, _ := r.Int64(key)
	return int(v)
}

func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	default:
		return 0
	}
}

func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Object reads a nested JSON object.
func (r Record) Object(key string) Record {
	switch v := r[key].(type) {
	case Record:
		return v
	case map[string]any:
		return Record(v)
	default:
		return nil
	}
}

// Objects reads an array of JSON objects, skipping non-object items. The result
// is nil only when the key is absent or not an array.
func (r Record) Objects(key string) []Record {
	items, ok := r[key].([]any)
	if !ok {
		if typed, ok := r[key].([]Record); ok {
			return typed
		}
		return nil
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case Record:
			out = append(out, v)
		case map[string]any:
			out = append(out, Record(v))
		}
	}
	return out
}

// Int64s reads an array of whole numbers, skipping anything non-numeric.
func (r Record) Int64s(key string) []int64 {
	items, ok := r[key].([]any)
	if !ok {
		if typed, ok := r[key].([]int64); ok {
			return typed
		}
		return nil
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		if v, ok := toInt64(item); ok {
			out = append(out, v)
		}
	}
	return out
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		return 0, false
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
