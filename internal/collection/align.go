package collection

import (
	"fmt"
	"strings"
	"time"

	"github.com/tejusbharadwaj/tseries/internal/models"
)

// AlignMethod selects how a value on a period boundary is derived.
type AlignMethod int

const (
	// AlignLinear interpolates by time between the bracketing events.
	AlignLinear AlignMethod = iota
	// AlignHold repeats the preceding event's value.
	AlignHold
)

var alignMethodNames = []string{"linear", "hold"}

func (m AlignMethod) String() string {
	if m >= 0 && int(m) < len(alignMethodNames) {
		return alignMethodNames[m]
	}
	return fmt.Sprintf("AlignMethod(%d)", int(m))
}

// ParseAlignMethod maps "linear" or "hold" to an AlignMethod.
func ParseAlignMethod(s string) (AlignMethod, error) {
	for i, name := range alignMethodNames {
		if strings.EqualFold(s, name) {
			return AlignMethod(i), nil
		}
	}
	return 0, &models.ConfigError{Option: "align method", Value: s, Allowed: alignMethodNames}
}

// AlignOptions configures Align.
type AlignOptions struct {
	// FieldSpec lists the fields to resample. Empty means "value".
	FieldSpec []string
	// Period is the boundary spacing, measured from the epoch.
	Period time.Duration
	Method AlignMethod
	// Limit is the largest number of boundaries that may fall between two
	// input events before the fields are emitted as nil instead of
	// interpolated. Zero means no limit.
	Limit int
}

// Align resamples the events onto Period boundaries. One Time event is
// emitted per boundary b with prev < b <= next for each consecutive pair of
// input events, plus the first event if it already sits on a boundary.
// Output events carry the preceding event's other fields.
func (c *Collection) Align(opts AlignOptions) (*Collection, error) {
	if !models.WholeMillis(opts.Period) {
		return nil, &models.ConfigError{Option: "period", Value: opts.Period.String(), Reason: "must be a whole number of milliseconds, at least 1ms"}
	}
	if opts.Method < AlignLinear || opts.Method > AlignHold {
		return nil, &models.ConfigError{Option: "align method", Value: opts.Method.String(), Allowed: alignMethodNames}
	}
	if opts.Limit < 0 {
		return nil, &models.ConfigError{Option: "limit", Value: opts.Limit, Reason: "must not be negative"}
	}
	fields := opts.FieldSpec
	if len(fields) == 0 {
		fields = []string{DefaultField}
	}

	period := opts.Period.Milliseconds()
	var out []*models.Event
	var prev *models.Event

	for _, e := range c.events {
		if prev == nil {
			prev = e
			if e.Begin().UnixMilli()%period == 0 {
				out = append(out, e.WithKey(models.NewTime(e.Begin())))
			}
			continue
		}

		bounds := boundaries(prev.Begin().UnixMilli(), e.Begin().UnixMilli(), period)
		for _, b := range bounds {
			key := models.TimeFromMillis(b)
			switch {
			case opts.Limit > 0 && len(bounds) > opts.Limit:
				out = append(out, nullEvent(prev.WithKey(key), fields))
			case opts.Method == AlignHold:
				out = append(out, prev.WithKey(key))
			default:
				out = append(out, interpolate(prev, e, key, fields))
			}
		}
		prev = e
	}
	return &Collection{events: out}, nil
}

// boundaries lists multiples of period in (prev, next].
func boundaries(prev, next, period int64) []int64 {
	var out []int64
	b := (floorDiv(prev, period) + 1) * period
	for ; b <= next; b += period {
		out = append(out, b)
	}
	return out
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func nullEvent(e *models.Event, fields []string) *models.Event {
	for _, f := range fields {
		e = e.Set(f, nil)
	}
	return e
}

func interpolate(prev, next *models.Event, key models.Time, fields []string) *models.Event {
	out := prev.WithKey(key)
	t0 := float64(prev.Begin().UnixMilli())
	t1 := float64(next.Begin().UnixMilli())
	t := float64(key.Millis())

	for _, f := range fields {
		v0, ok0 := prev.Value(f)
		v1, ok1 := next.Value(f)
		if !ok0 || !ok1 || t1 == t0 {
			out = out.Set(f, nil)
			continue
		}
		out = out.Set(f, v0+(v1-v0)*(t-t0)/(t1-t0))
	}
	return out
}
