package collection

import (
	"math"

	"github.com/tejusbharadwaj/tseries/internal/reducer"
)

// DefaultField is the field path statistics and fill use when none is given.
const DefaultField = "value"

func fieldOrDefault(fieldPath string) string {
	if fieldPath == "" {
		return DefaultField
	}
	return fieldPath
}

// Values returns the field's value for every event, NaN where the event
// holds no valid number. ok is false if no event has the field at all.
func (c *Collection) Values(fieldPath string) ([]float64, bool) {
	fieldPath = fieldOrDefault(fieldPath)
	values := make([]float64, len(c.events))
	present := false
	for i, e := range c.events {
		if e.Has(fieldPath) {
			present = true
		}
		v, ok := e.Value(fieldPath)
		if !ok {
			v = math.NaN()
		}
		values[i] = v
	}
	return values, present
}

// Aggregate applies fn to the field's values. ok is false when the field is
// absent from every event.
func (c *Collection) Aggregate(fn reducer.Func, fieldPath string) (float64, bool) {
	values, ok := c.Values(fieldPath)
	if !ok {
		return math.NaN(), false
	}
	return fn(values), true
}

// AggregateFields applies fn to each field. Fields absent from every event
// are left out of the result.
func (c *Collection) AggregateFields(fn reducer.Func, fieldPaths []string) map[string]float64 {
	out := make(map[string]float64, len(fieldPaths))
	for _, p := range fieldPaths {
		if v, ok := c.Aggregate(fn, p); ok {
			out[p] = v
		}
	}
	return out
}

func (c *Collection) Sum(fieldPath string, filter reducer.Filter) (float64, bool) {
	return c.Aggregate(reducer.Sum(filter), fieldPath)
}

func (c *Collection) Avg(fieldPath string, filter reducer.Filter) (float64, bool) {
	return c.Aggregate(reducer.Avg(filter), fieldPath)
}

// Mean is Avg.
func (c *Collection) Mean(fieldPath string, filter reducer.Filter) (float64, bool) {
	return c.Avg(fieldPath, filter)
}

func (c *Collection) Max(fieldPath string, filter reducer.Filter) (float64, bool) {
	return c.Aggregate(reducer.Max(filter), fieldPath)
}

func (c *Collection) Min(fieldPath string, filter reducer.Filter) (float64, bool) {
	return c.Aggregate(reducer.Min(filter), fieldPath)
}

func (c *Collection) Median(fieldPath string, filter reducer.Filter) (float64, bool) {
	return c.Aggregate(reducer.Median(filter), fieldPath)
}

func (c *Collection) Stdev(fieldPath string, filter reducer.Filter) (float64, bool) {
	return c.Aggregate(reducer.Stdev(filter), fieldPath)
}

// Percentile returns the q-th percentile of the field.
func (c *Collection) Percentile(q float64, fieldPath string, interp reducer.Interpolation, filter reducer.Filter) (float64, bool) {
	return c.Aggregate(reducer.Percentile(q, interp, filter), fieldPath)
}

// Quantile returns the n-1 cut points dividing the field's values into n
// equally sized groups.
func (c *Collection) Quantile(n int, fieldPath string, interp reducer.Interpolation) ([]float64, bool) {
	values, ok := c.Values(fieldPath)
	if !ok {
		return nil, false
	}
	return reducer.Quantile(n, interp, nil)(values), true
}

// SizeValid counts the events in which every listed field is a finite
// number.
func (c *Collection) SizeValid(fieldPaths ...string) int {
	if len(fieldPaths) == 0 {
		fieldPaths = []string{DefaultField}
	}
	n := 0
	for _, e := range c.events {
		valid := true
		for _, p := range fieldPaths {
			if _, ok := e.Value(p); !ok {
				valid = false
				break
			}
		}
		if valid {
			n++
		}
	}
	return n
}

// Count is Size.
func (c *Collection) Count() int {
	return c.Size()
}
