package collection

import (
	"strings"

	"github.com/tejusbharadwaj/tseries/internal/models"
)

// RateSuffix is appended to a field name to name its rate.
const RateSuffix = "_rate"

// RateOptions configures Rate.
type RateOptions struct {
	// FieldSpec lists the fields to differentiate. Empty means "value".
	FieldSpec []string
	// DropNegative emits nil instead of a negative rate, for counters that
	// wrap or reset.
	DropNegative bool
}

// Rate emits, for each consecutive pair of events, one TimeRange event
// spanning their begins with "<field>_rate" set to the change per second.
// A rate is nil when either value is not a valid number or both events
// share a timestamp. Fewer than two events give an empty collection.
func (c *Collection) Rate(opts RateOptions) *Collection {
	fields := opts.FieldSpec
	if len(fields) == 0 {
		fields = []string{DefaultField}
	}
	if len(c.events) < 2 {
		return Empty()
	}

	out := make([]*models.Event, 0, len(c.events)-1)
	for i := 1; i < len(c.events); i++ {
		prev, cur := c.events[i-1], c.events[i]
		seconds := cur.Begin().Sub(prev.Begin()).Seconds()

		data := make(map[string]interface{}, len(fields))
		names := make([]string, 0, len(fields))
		for _, f := range fields {
			name := rateField(f)
			names = append(names, name)

			v0, ok0 := prev.Value(f)
			v1, ok1 := cur.Value(f)
			if !ok0 || !ok1 || seconds == 0 {
				data[name] = nil
				continue
			}
			rate := (v1 - v0) / seconds
			if opts.DropNegative && rate < 0 {
				data[name] = nil
				continue
			}
			data[name] = rate
		}
		key := models.NewTimeRange(prev.Begin(), cur.Begin())
		out = append(out, models.NewEventWithFields(key, names, data))
	}
	return &Collection{events: out}
}

// rateField names the output of a field path: "in" -> "in_rate",
// "net.in" -> "net_in_rate".
func rateField(fieldPath string) string {
	return strings.ReplaceAll(fieldPath, ".", "_") + RateSuffix
}
