package models

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Event is an immutable (key, data) pair, the atomic unit of a series.
//
// Data values are plain Go values: numbers, strings, nil, or nested
// map[string]interface{} reached with dotted field paths ("in.avg").
// Every method that changes an Event returns a new one.
type Event struct {
	key    Key
	data   map[string]interface{}
	fields []string
}

// NewEvent returns an Event owning a private copy of data. Top-level fields
// are ordered alphabetically.
func NewEvent(key Key, data map[string]interface{}) *Event {
	fields := make([]string, 0, len(data))
	for f := range data {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return &Event{key: key, data: cloneMap(data), fields: fields}
}

// NewEventWithFields is NewEvent with an explicit top-level field order.
// Fields of data not listed are appended alphabetically.
func NewEventWithFields(key Key, fields []string, data map[string]interface{}) *Event {
	seen := make(map[string]bool, len(fields))
	ordered := make([]string, 0, len(data))
	for _, f := range fields {
		if _, ok := data[f]; ok && !seen[f] {
			seen[f] = true
			ordered = append(ordered, f)
		}
	}
	var rest []string
	for f := range data {
		if !seen[f] {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)
	return &Event{key: key, data: cloneMap(data), fields: append(ordered, rest...)}
}

func (e *Event) Key() Key { return e.key }
func (e *Event) Begin() time.Time { return e.key.Begin() }
func (e *Event) End() time.Time { return e.key.End() }
func (e *Event) Timestamp() time.Time { return e.key.Begin() }

// Fields returns the top-level field names in order.
func (e *Event) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Data returns a copy of the event's data.
func (e *Event) Data() map[string]interface{} {
	return cloneMap(e.data)
}

// Has reports whether the field path exists, whatever its value.
func (e *Event) Has(fieldPath string) bool {
	_, ok := lookup(e.data, splitPath(fieldPath))
	return ok
}

// Get returns the value at fieldPath, or nil if it does not exist.
func (e *Event) Get(fieldPath string) interface{} {
	v, _ := lookup(e.data, splitPath(fieldPath))
	return v
}

// Value returns the value at fieldPath as a float64. ok is false when the
// value is missing, null, non-numeric, NaN or infinite.
func (e *Event) Value(fieldPath string) (float64, bool) {
	return ToFloat(e.Get(fieldPath))
}

// Set returns a copy of e with fieldPath set to v, creating intermediate
// maps as needed.
func (e *Event) Set(fieldPath string, v interface{}) *Event {
	path := splitPath(fieldPath)
	data := cloneMap(e.data)
	assign(data, path, v)
	fields := e.fields
	if _, ok := e.data[path[0]]; !ok {
		fields = append(append([]string{}, e.fields...), path[0])
	}
	return &Event{key: e.key, data: data, fields: fields}
}

// SetData returns a copy of e carrying data instead of its own.
func (e *Event) SetData(data map[string]interface{}) *Event {
	return NewEventWithFields(e.key, e.fields, data)
}

// WithKey returns a copy of e under a different key.
func (e *Event) WithKey(key Key) *Event {
	return &Event{key: key, data: e.data, fields: e.fields}
}

// Select returns a copy of e holding only the listed field paths.
func (e *Event) Select(fieldPaths []string) *Event {
	data := make(map[string]interface{}, len(fieldPaths))
	for _, p := range fieldPaths {
		if v, ok := lookup(e.data, splitPath(p)); ok {
			assign(data, splitPath(p), cloneValue(v))
		}
	}
	return NewEventWithFields(e.key, e.fields, data)
}

// Collapse reduces the values of fieldPaths to a single field name using fn.
// When keep is true the new field is added to the existing data, otherwise
// it replaces it.
func (e *Event) Collapse(fieldPaths []string, name string, fn func([]float64) float64, keep bool) *Event {
	values := make([]float64, len(fieldPaths))
	for i, p := range fieldPaths {
		v, ok := e.Value(p)
		if !ok {
			v = math.NaN()
		}
		values[i] = v
	}
	if keep {
		return e.Set(name, fn(values))
	}
	return &Event{key: e.key, data: map[string]interface{}{name: fn(values)}, fields: []string{name}}
}

// Rename returns a copy of e with top-level fields renamed per renames.
func (e *Event) Rename(renames map[string]string) *Event {
	data := make(map[string]interface{}, len(e.data))
	fields := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		to := f
		if r, ok := renames[f]; ok && r != "" {
			to = r
		}
		if _, dup := data[to]; !dup {
			fields = append(fields, to)
		}
		data[to] = e.data[f]
	}
	return &Event{key: e.key, data: data, fields: fields}
}

// Equal reports structural equality: equal keys and deep-equal data. A field
// holding nil is equal to an absent field, and NaN equals NaN.
func (e *Event) Equal(other *Event) bool {
	if e == other {
		return true
	}
	if e == nil || other == nil {
		return false
	}
	return e.key.Equal(other.key) && ValuesEqual(e.data, other.data)
}

func splitPath(fieldPath string) []string {
	if fieldPath == "" {
		return []string{"value"}
	}
	return strings.Split(fieldPath, ".")
}

func lookup(data map[string]interface{}, path []string) (interface{}, bool) {
	var cur interface{} = data
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if cur, ok = m[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// assign writes v at path inside data, which must be exclusively owned by
// the caller; nested maps along the path are copied before being written.
func assign(data map[string]interface{}, path []string, v interface{}) {
	if len(path) == 1 {
		data[path[0]] = v
		return
	}
	child, ok := data[path[0]].(map[string]interface{})
	if ok {
		child = cloneMap(child)
	} else {
		child = make(map[string]interface{})
	}
	assign(child, path[1:], v)
	data[path[0]] = child
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return cloneMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}
