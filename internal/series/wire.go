package series

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cast"

	"github.com/tejusbharadwaj/tseries/internal/models"
	"github.com/tejusbharadwaj/tseries/internal/tz"
)

// WireFormat is the JSON document form of a series:
//
//	{"name": "traffic", "tz": "Etc/UTC", "columns": ["time", "in", "out"],
//	 "points": [[1400425947000, 52, 41], ...], ...extra meta}
//
// columns[0] names the key kind of every point: "time" keys are epoch
// milliseconds, "timerange" keys are [beginMs, endMs] pairs and "index"
// keys are index strings such as "1d-16314".
type WireFormat struct {
	Name    string
	Columns []string
	Points  [][]interface{}
	TZ      string
	Index   string
	Extra   map[string]interface{}
}

var knownWireKeys = map[string]bool{"name": true, "columns": true, "points": true, "tz": true, "index": true}

func (w WireFormat) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(w.Extra)+5)
	for k, v := range w.Extra {
		doc[k] = v
	}
	doc["name"] = w.Name
	doc["columns"] = w.Columns
	points := w.Points
	if points == nil {
		points = [][]interface{}{}
	}
	doc["points"] = points
	tzName := w.TZ
	if tzName == "" {
		tzName = tz.UTC
	}
	doc["tz"] = tzName
	if w.Index != "" {
		doc["index"] = w.Index
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes numbers as json.Number so epoch milliseconds keep
// full precision.
func (w *WireFormat) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	out := WireFormat{}
	for k, msg := range raw {
		var err error
		switch k {
		case "name":
			err = decode(msg, &out.Name)
		case "tz":
			err = decode(msg, &out.TZ)
		case "index":
			err = decode(msg, &out.Index)
		case "columns":
			err = decode(msg, &out.Columns)
		case "points":
			err = decode(msg, &out.Points)
		default:
			var v interface{}
			if err = decode(msg, &v); err == nil {
				if out.Extra == nil {
					out.Extra = make(map[string]interface{})
				}
				out.Extra[k] = v
			}
		}
		if err != nil {
			return fmt.Errorf("decoding %q: %w", k, err)
		}
	}
	*w = out
	return nil
}

func decode(msg json.RawMessage, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	return dec.Decode(v)
}

// FromWire builds a series from its wire form.
func FromWire(w WireFormat) (*TimeSeries, error) {
	if len(w.Columns) == 0 {
		return nil, &models.ConfigError{Option: "columns", Reason: "the key column is required"}
	}
	kind, err := models.ParseKeyKind(w.Columns[0])
	if err != nil {
		return nil, err
	}
	zone := w.TZ
	if zone == "" {
		zone = tz.UTC
	}
	if _, err := tz.Load(zone); err != nil {
		return nil, &models.ConfigError{Option: "tz", Value: zone, Reason: err.Error()}
	}

	fields := w.Columns[1:]
	events := make([]*models.Event, 0, len(w.Points))
	for i, point := range w.Points {
		if len(point) == 0 {
			return nil, fmt.Errorf("point %d: missing key", i)
		}
		key, err := parseKey(kind, point[0], zone)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		data := make(map[string]interface{}, len(fields))
		for j, f := range fields {
			var v interface{}
			if j+1 < len(point) {
				v = fromWireValue(point[j+1])
			}
			data[f] = v
		}
		events = append(events, models.NewEventWithFields(key, fields, data))
	}

	meta := Meta{Name: w.Name, TZ: zone, Index: w.Index, Extra: w.Extra}
	return FromEvents(meta, events), nil
}

func parseKey(kind models.KeyKind, v interface{}, zone string) (models.Key, error) {
	if v == nil {
		return nil, fmt.Errorf("missing %s key", kind)
	}
	switch kind {
	case models.TimeKind:
		ms, err := cast.ToInt64E(v)
		if err != nil {
			return nil, fmt.Errorf("invalid time %v: %w", v, err)
		}
		return models.TimeFromMillis(ms), nil
	case models.TimeRangeKind:
		pair, err := cast.ToSliceE(v)
		if err != nil || len(pair) != 2 {
			return nil, fmt.Errorf("invalid timerange %v: expected [begin, end]", v)
		}
		if pair[0] == nil || pair[1] == nil {
			return nil, fmt.Errorf("invalid timerange %v: missing bound", v)
		}
		begin, err := cast.ToInt64E(pair[0])
		if err != nil {
			return nil, fmt.Errorf("invalid timerange begin %v: %w", pair[0], err)
		}
		end, err := cast.ToInt64E(pair[1])
		if err != nil {
			return nil, fmt.Errorf("invalid timerange end %v: %w", pair[1], err)
		}
		return models.TimeRangeFromMillis(begin, end), nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("invalid index %v: %w", v, err)
		}
		return models.NewIndexIn(s, zone)
	}
}

// fromWireValue stores every number as float64, recursing into nested
// objects and arrays.
func fromWireValue(v interface{}) interface{} {
	switch x := v.(type) {
	case json.Number:
		if f, err := cast.ToFloat64E(x); err == nil {
			return f
		}
		return x.String()
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, e := range x {
			out[k] = fromWireValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = fromWireValue(e)
		}
		return out
	}
	if f, ok := models.ToFloat(v); ok {
		return f
	}
	return v
}

// toWireValue replaces NaN and infinities, which JSON cannot carry, with nil.
func toWireValue(v interface{}) interface{} {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil
		}
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, e := range x {
			out[k] = toWireValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = toWireValue(e)
		}
		return out
	}
	return v
}

func wireKey(k models.Key) interface{} {
	switch k.Kind() {
	case models.TimeKind:
		return k.Begin().UnixMilli()
	case models.TimeRangeKind:
		return []interface{}{k.Begin().UnixMilli(), k.End().UnixMilli()}
	default:
		return k.String()
	}
}

// ToJSON returns the wire form of the series. The key column comes first,
// then the fields in the order they are first seen. The key kind is that of
// the first event; an empty series is written as "time".
func (ts *TimeSeries) ToJSON() WireFormat {
	kind := models.TimeKind
	if first := ts.events.First(); first != nil {
		kind = first.Key().Kind()
	}
	fields := ts.events.Columns()
	points := make([][]interface{}, 0, ts.events.Size())
	for _, e := range ts.events.All() {
		row := make([]interface{}, 0, len(fields)+1)
		row = append(row, wireKey(e.Key()))
		for _, f := range fields {
			row = append(row, toWireValue(e.Get(f)))
		}
		points = append(points, row)
	}

	var extra map[string]interface{}
	if len(ts.meta.Extra) > 0 {
		extra = make(map[string]interface{}, len(ts.meta.Extra))
		for k, v := range ts.meta.Extra {
			if !knownWireKeys[k] {
				extra[k] = v
			}
		}
	}
	return WireFormat{
		Name:    ts.meta.Name,
		Columns: append([]string{kind.String()}, fields...),
		Points:  points,
		TZ:      ts.meta.TZ,
		Index:   ts.meta.Index,
		Extra:   extra,
	}
}

// MarshalJSON writes the series in its wire form.
func (ts *TimeSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.ToJSON())
}
