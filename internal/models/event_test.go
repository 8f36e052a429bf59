package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(ms int64, data map[string]interface{}) *Event {
	return NewEvent(TimeFromMillis(ms), data)
}

func TestEventAccess(t *testing.T) {
	src := map[string]interface{}{
		"value": 3,
		"net":   map[string]interface{}{"in": 5.5, "out": nil},
		"tag":   "a",
	}
	e := at(1000, src)

	// the event owns a copy of its data
	src["value"] = 99
	src["net"].(map[string]interface{})["in"] = 0.0

	assert.Equal(t, []string{"net", "tag", "value"}, e.Fields())
	assert.Equal(t, 3, e.Get(""))
	assert.Equal(t, 5.5, e.Get("net.in"))
	assert.True(t, e.Has("net.out"))
	assert.False(t, e.Has("net.err"))
	assert.Nil(t, e.Get("net.in.deeper"))

	tests := []struct {
		path   string
		want   float64
		wantOK bool
	}{
		{"value", 3, true},
		{"net.in", 5.5, true},
		{"net.out", 0, false},
		{"tag", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, ok := e.Value(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, v)
			}
		})
	}
}

func TestEventSetIsCopyOnWrite(t *testing.T) {
	e := at(0, map[string]interface{}{"net": map[string]interface{}{"in": 1.0}})

	changed := e.Set("net.in", 2.0).Set("net.out", 3.0).Set("extra", true)

	assert.Equal(t, 1.0, e.Get("net.in"))
	assert.Nil(t, e.Get("net.out"))
	assert.Equal(t, []string{"net"}, e.Fields())

	assert.Equal(t, 2.0, changed.Get("net.in"))
	assert.Equal(t, 3.0, changed.Get("net.out"))
	assert.Equal(t, []string{"net", "extra"}, changed.Fields())

	data := changed.Data()
	data["extra"] = false
	assert.Equal(t, true, changed.Get("extra"))
}

func TestEventSelectCollapseRename(t *testing.T) {
	e := NewEventWithFields(TimeFromMillis(0), []string{"b", "a", "c"}, map[string]interface{}{"a": 5.0, "b": 6.0, "c": "x"})
	assert.Equal(t, []string{"b", "a", "c"}, e.Fields())

	sel := e.Select([]string{"a", "c", "zz"})
	assert.Equal(t, []string{"a", "c"}, sel.Fields())

	sum := func(v []float64) float64 { return v[0] + v[1] }
	collapsed := e.Collapse([]string{"a", "b"}, "ab", sum, false)
	assert.Equal(t, []string{"ab"}, collapsed.Fields())
	assert.Equal(t, 11.0, collapsed.Get("ab"))

	kept := e.Collapse([]string{"a", "b"}, "ab", sum, true)
	assert.Equal(t, []string{"b", "a", "c", "ab"}, kept.Fields())

	renamed := e.Rename(map[string]string{"a": "alpha", "c": ""})
	assert.Equal(t, []string{"b", "alpha", "c"}, renamed.Fields())
	assert.Equal(t, 5.0, renamed.Get("alpha"))
	assert.False(t, renamed.Has("a"))
}

func TestEventEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *Event
		want bool
	}{
		{
			name: "numbers compare by value",
			a:    at(0, map[string]interface{}{"v": 1}),
			b:    at(0, map[string]interface{}{"v": json.Number("1.0")}),
			want: true,
		},
		{
			name: "nil equals absent",
			a:    at(0, map[string]interface{}{"v": 1.0, "w": nil}),
			b:    at(0, map[string]interface{}{"v": 1.0}),
			want: true,
		},
		{
			name: "NaN equals NaN",
			a:    at(0, map[string]interface{}{"v": math.NaN()}),
			b:    at(0, map[string]interface{}{"v": math.NaN()}),
			want: true,
		},
		{
			name: "nested maps",
			a:    at(0, map[string]interface{}{"n": map[string]interface{}{"x": 1.0}}),
			b:    at(0, map[string]interface{}{"n": map[string]interface{}{"x": 2.0}}),
			want: false,
		},
		{
			name: "different keys",
			a:    at(0, map[string]interface{}{"v": 1.0}),
			b:    at(1, map[string]interface{}{"v": 1.0}),
			want: false,
		},
		{
			name: "slices",
			a:    at(0, map[string]interface{}{"v": []interface{}{1.0, "a"}}),
			b:    at(0, map[string]interface{}{"v": []interface{}{1, "a"}}),
			want: true,
		},
		{
			name: "string against number",
			a:    at(0, map[string]interface{}{"v": "1"}),
			b:    at(0, map[string]interface{}{"v": 1.0}),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestMerge(t *testing.T) {
	events := []*Event{
		at(0, map[string]interface{}{"in": 1.0}),
		at(1000, map[string]interface{}{"in": 2.0}),
		at(0, map[string]interface{}{"out": 3.0}),
		at(1000, map[string]interface{}{"out": 4.0, "in": 9.0}),
		at(2000, map[string]interface{}{"in": 5.0}),
	}

	merged := Merge(events, false)
	require.Len(t, merged, 3)
	assert.Equal(t, []string{"in", "out"}, merged[0].Fields())
	assert.Equal(t, 1.0, merged[0].Get("in"))
	assert.Equal(t, 3.0, merged[0].Get("out"))
	assert.Equal(t, 9.0, merged[1].Get("in"))
	assert.Same(t, events[4], merged[2])

	range1 := NewEvent(TimeRangeFromMillis(0, 1000), map[string]interface{}{"a": 1.0})
	range2 := NewEvent(TimeRangeFromMillis(0, 2000), map[string]interface{}{"b": 1.0})
	assert.Len(t, Merge([]*Event{range1, range2}, false), 2)
}

func TestDeepMerge(t *testing.T) {
	events := []*Event{
		at(0, map[string]interface{}{"net": map[string]interface{}{"in": 1.0}}),
		at(0, map[string]interface{}{"net": map[string]interface{}{"out": 2.0}}),
	}

	shallow := Merge(events, false)
	require.Len(t, shallow, 1)
	assert.Nil(t, shallow[0].Get("net.in"))
	assert.Equal(t, 2.0, shallow[0].Get("net.out"))

	deep := Merge(events, true)
	require.Len(t, deep, 1)
	assert.Equal(t, 1.0, deep[0].Get("net.in"))
	assert.Equal(t, 2.0, deep[0].Get("net.out"))
}

func TestCombine(t *testing.T) {
	events := []*Event{
		at(0, map[string]interface{}{"in": 1.0, "out": 2.0}),
		at(0, map[string]interface{}{"in": 3.0}),
		at(1000, map[string]interface{}{"in": 5.0}),
	}
	sum := func(v []float64) float64 {
		var s float64
		for _, x := range v {
			if !math.IsNaN(x) {
				s += x
			}
		}
		return s
	}

	combined := Combine(events, []string{"in"}, sum)
	require.Len(t, combined, 2)
	assert.Equal(t, 4.0, combined[0].Get("in"))
	assert.False(t, combined[0].Has("out"))
	assert.Equal(t, 5.0, combined[1].Get("in"))

	all := Combine(events, nil, sum)
	assert.Equal(t, []string{"in", "out"}, all[0].Fields())
	assert.Equal(t, 2.0, all[0].Get("out"))
}

func TestValues(t *testing.T) {
	tests := []struct {
		name      string
		v         interface{}
		want      float64
		wantValid bool
		missing   bool
	}{
		{name: "float", v: 1.5, want: 1.5, wantValid: true},
		{name: "int", v: 7, want: 7, wantValid: true},
		{name: "json number", v: json.Number("2.25"), want: 2.25, wantValid: true},
		{name: "nil", v: nil, missing: true},
		{name: "NaN", v: math.NaN(), missing: true},
		{name: "infinity", v: math.Inf(1)},
		{name: "string", v: "12"},
		{name: "bool", v: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := ToFloat(tt.v)
			assert.Equal(t, tt.wantValid, ok)
			assert.Equal(t, tt.wantValid, IsValid(tt.v))
			assert.Equal(t, tt.missing, IsMissing(tt.v))
			if ok {
				assert.Equal(t, tt.want, f)
			}
		})
	}
}
