package window

import (
	"fmt"

	"github.com/tejusbharadwaj/tseries/internal/collection"
	"github.com/tejusbharadwaj/tseries/internal/models"
	"github.com/tejusbharadwaj/tseries/internal/reducer"
)

// Output produces one field of an aggregated event by reducing an input
// field over the window.
type Output struct {
	Name  string
	Field string
	Func  reducer.Func
}

// Aggregation lists the fields of an aggregated event in output order.
type Aggregation []Output

// Validate reports the first malformed output.
func (a Aggregation) Validate() error {
	if len(a) == 0 {
		return &models.ConfigError{Option: "aggregation", Reason: "at least one output is required"}
	}
	seen := make(map[string]bool, len(a))
	for _, o := range a {
		switch {
		case o.Name == "":
			return &models.ConfigError{Option: "aggregation", Reason: "output name is required"}
		case seen[o.Name]:
			return &models.ConfigError{Option: "aggregation", Value: o.Name, Reason: "duplicate output"}
		case o.Func == nil:
			return &models.ConfigError{Option: "aggregation", Value: o.Name, Reason: "reducer is required"}
		}
		seen[o.Name] = true
	}
	return nil
}

func (a Aggregation) names() []string {
	out := make([]string, len(a))
	for i, o := range a {
		out[i] = o.Name
	}
	return out
}

// Result holds the aggregated events of a Grouping, in emission order.
type Result struct {
	keys   []string
	events map[string][]*models.Event
	order  []*models.Event
}

// Aggregate reduces each emission of the grouping to one event keyed by
// the window's Index. A field absent from a window is reduced as all
// missing values, so sum gives 0 and avg gives NaN.
func (g *Grouping) Aggregate(spec Aggregation) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	indexes := make(map[string]models.Index, len(g.keys))
	for _, key := range g.keys {
		idx, err := g.window.Index(key)
		if err != nil {
			return nil, fmt.Errorf("window %s: %w", key, err)
		}
		indexes[key] = idx
	}

	r := &Result{keys: g.Keys(), events: make(map[string][]*models.Event, len(g.keys))}
	names := spec.names()
	for _, em := range g.emissions {
		c := collection.New(g.groups[em.key][:em.size])
		data := make(map[string]interface{}, len(spec))
		for _, o := range spec {
			values, _ := c.Values(o.Field)
			data[o.Name] = o.Func(values)
		}
		e := models.NewEventWithFields(indexes[em.key], names, data)
		r.events[em.key] = append(r.events[em.key], e)
		r.order = append(r.order, e)
	}
	return r, nil
}

// Keys lists the window keys in time order.
func (r *Result) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Ungroup returns the aggregated events of every window by key. With
// OnEachEvent a window holds one event per input event.
func (r *Result) Ungroup() map[string]*collection.Collection {
	out := make(map[string]*collection.Collection, len(r.events))
	for key, events := range r.events {
		out[key] = collection.New(events)
	}
	return out
}

// Flatten returns every aggregated event as one collection sorted by window
// begin.
func (r *Result) Flatten() *collection.Collection {
	return collection.New(r.order)
}
