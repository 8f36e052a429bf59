package collection

import (
	"fmt"
	"strings"

	"github.com/tejusbharadwaj/tseries/internal/models"
)

// FillMethod selects how Fill repairs a missing value.
type FillMethod int

const (
	// Zero replaces a missing value with 0.
	Zero FillMethod = iota
	// Pad repeats the last non-missing value of the field.
	Pad
	// Linear interpolates between the surrounding valid values.
	Linear
)

var fillMethodNames = []string{"zero", "pad", "linear"}

func (m FillMethod) String() string {
	if m >= 0 && int(m) < len(fillMethodNames) {
		return fillMethodNames[m]
	}
	return fmt.Sprintf("FillMethod(%d)", int(m))
}

// ParseFillMethod maps "zero", "pad" or "linear" to a FillMethod.
func ParseFillMethod(s string) (FillMethod, error) {
	for i, name := range fillMethodNames {
		if strings.EqualFold(s, name) {
			return FillMethod(i), nil
		}
	}
	return 0, &models.ConfigError{Option: "fill method", Value: s, Allowed: fillMethodNames}
}

// FillOptions configures Fill.
type FillOptions struct {
	// FieldSpec lists the fields to repair, each with its own gap counter.
	// Empty means "value".
	FieldSpec []string
	Method    FillMethod
	// Limit caps how many consecutive missing values are repaired; the rest
	// of a longer run stays missing. Zero means no limit. With a limit, a
	// second Fill repairs part of what the first one left, so filling twice
	// is only a no-op when Limit is zero.
	Limit int
}

// Fill repairs missing values (absent, nil or NaN) in the listed fields.
// Linear fill processes one field at a time; a run of missing values with
// no valid value after it is left alone.
func (c *Collection) Fill(opts FillOptions) (*Collection, error) {
	if opts.Method < Zero || opts.Method > Linear {
		return nil, &models.ConfigError{Option: "fill method", Value: opts.Method.String(), Allowed: fillMethodNames}
	}
	if opts.Limit < 0 {
		return nil, &models.ConfigError{Option: "limit", Value: opts.Limit, Reason: "must not be negative"}
	}
	fields := opts.FieldSpec
	if len(fields) == 0 {
		fields = []string{DefaultField}
	}

	if opts.Method == Linear {
		out := c
		for _, f := range fields {
			out = out.fillLinear(f, opts.Limit)
		}
		return out, nil
	}
	return c.fillConstant(fields, opts.Method, opts.Limit), nil
}

func missing(e *models.Event, fieldPath string) bool {
	return models.IsMissing(e.Get(fieldPath))
}

func (c *Collection) fillConstant(fields []string, method FillMethod, limit int) *Collection {
	gaps := make(map[string]int, len(fields))
	last := make(map[string]interface{}, len(fields))
	out := make([]*models.Event, len(c.events))

	for i, e := range c.events {
		filled := e
		for _, f := range fields {
			if !missing(e, f) {
				gaps[f] = 0
				last[f] = e.Get(f)
				continue
			}
			gaps[f]++
			if limit > 0 && gaps[f] > limit {
				continue
			}
			switch method {
			case Zero:
				filled = filled.Set(f, 0.0)
			case Pad:
				if v, ok := last[f]; ok {
					filled = filled.Set(f, v)
				}
			}
		}
		out[i] = filled
	}
	return &Collection{events: out}
}

func (c *Collection) fillLinear(field string, limit int) *Collection {
	n := len(c.events)
	var out []*models.Event

	for i := 0; i < n; {
		if !missing(c.events[i], field) {
			i++
			continue
		}
		start := i
		for i < n && missing(c.events[i], field) {
			i++
		}
		// run is [start, i); anchors are start-1 and i
		if start == 0 || i == n {
			continue
		}
		prev, ok1 := c.events[start-1].Value(field)
		next, ok2 := c.events[i].Value(field)
		if !ok1 || !ok2 {
			continue
		}

		if out == nil {
			out = c.Events()
		}
		run := i - start
		for k := 0; k < run; k++ {
			if limit > 0 && k >= limit {
				break
			}
			v := prev + (next-prev)*float64(k+1)/float64(run+1)
			out[start+k] = out[start+k].Set(field, v)
		}
	}

	if out == nil {
		return c
	}
	return &Collection{events: out}
}
