package models

import (
	"math"
)

// group pools events by key identity, keeping groups in order of first
// appearance and events within a group in input order.
func group(events []*Event) [][]*Event {
	index := make(map[string]int)
	var groups [][]*Event
	for _, e := range events {
		id := identity(e.key)
		if i, ok := index[id]; ok {
			groups[i] = append(groups[i], e)
			continue
		}
		index[id] = len(groups)
		groups = append(groups, []*Event{e})
	}
	return groups
}

// Merge combines events sharing an identical key into one event. Data maps
// are merged left to right, so later events win on conflicting fields. With
// deep set, nested maps are merged recursively instead of replaced. Events
// with a unique key are returned unchanged.
func Merge(events []*Event, deep bool) []*Event {
	groups := group(events)
	out := make([]*Event, 0, len(groups))
	for _, g := range groups {
		if len(g) == 1 {
			out = append(out, g[0])
			continue
		}
		data := make(map[string]interface{})
		var fields []string
		for _, e := range g {
			for _, f := range e.fields {
				if _, ok := data[f]; !ok {
					fields = append(fields, f)
				}
				if deep {
					data[f] = deepMerge(data[f], e.data[f])
				} else {
					data[f] = cloneValue(e.data[f])
				}
			}
		}
		out = append(out, &Event{key: g[0].key, data: data, fields: fields})
	}
	return out
}

func deepMerge(dst, src interface{}) interface{} {
	d, dok := dst.(map[string]interface{})
	s, sok := src.(map[string]interface{})
	if !dok || !sok {
		return cloneValue(src)
	}
	out := cloneMap(d)
	for k, v := range s {
		out[k] = deepMerge(out[k], v)
	}
	return out
}

// Combine reduces events sharing an identical key into one event whose
// fields are fn applied to the values collected at that key, one value per
// event and NaN where an event has no valid value. When fieldPaths is empty
// every top-level field seen in the group is reduced.
func Combine(events []*Event, fieldPaths []string, fn func([]float64) float64) []*Event {
	groups := group(events)
	out := make([]*Event, 0, len(groups))
	for _, g := range groups {
		paths := fieldPaths
		if len(paths) == 0 {
			paths = groupFields(g)
		}
		data := make(map[string]interface{}, len(paths))
		for _, p := range paths {
			values := make([]float64, len(g))
			for i, e := range g {
				v, ok := e.Value(p)
				if !ok {
					v = math.NaN()
				}
				values[i] = v
			}
			assign(data, splitPath(p), fn(values))
		}
		out = append(out, NewEventWithFields(g[0].key, topLevel(paths), data))
	}
	return out
}

func groupFields(g []*Event) []string {
	seen := make(map[string]bool)
	var fields []string
	for _, e := range g {
		for _, f := range e.fields {
			if !seen[f] {
				seen[f] = true
				fields = append(fields, f)
			}
		}
	}
	return fields
}

func topLevel(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, splitPath(p)[0])
	}
	return out
}
