// Package series provides TimeSeries, a named collection of events with
// metadata, and the operations that build, transform and combine series.
//
// A TimeSeries is immutable. Every method that changes something returns a
// new TimeSeries sharing whatever it did not change with its receiver.
package series

import (
	"fmt"
	"iter"
	"time"

	"github.com/spf13/cast"

	"github.com/tejusbharadwaj/tseries/internal/collection"
	"github.com/tejusbharadwaj/tseries/internal/models"
	"github.com/tejusbharadwaj/tseries/internal/reducer"
	"github.com/tejusbharadwaj/tseries/internal/tz"
)

// Meta describes a series. Extra holds any metadata beyond the known
// fields and is carried through the wire format unchanged.
type Meta struct {
	Name  string
	TZ    string
	Index string
	Extra map[string]interface{}
}

func (m *Meta) clone() *Meta {
	out := *m
	if m.Extra != nil {
		out.Extra = make(map[string]interface{}, len(m.Extra))
		for k, v := range m.Extra {
			out.Extra[k] = v
		}
	}
	if out.TZ == "" {
		out.TZ = tz.UTC
	}
	return &out
}

// TimeSeries is a Collection plus its Meta.
type TimeSeries struct {
	events *collection.Collection
	meta   *Meta
}

// FromCollection returns a series over c. A nil c is an empty series.
func FromCollection(meta Meta, c *collection.Collection) *TimeSeries {
	if c == nil {
		c = collection.Empty()
	}
	return &TimeSeries{events: c, meta: meta.clone()}
}

// FromEvents returns a series holding events sorted by key begin.
func FromEvents(meta Meta, events []*models.Event) *TimeSeries {
	return FromCollection(meta, collection.New(events))
}

// Copy returns a series with the same events and an independent copy of
// the metadata.
func Copy(ts *TimeSeries) *TimeSeries {
	return &TimeSeries{events: ts.events, meta: ts.meta.clone()}
}

func (ts *TimeSeries) derive(c *collection.Collection) *TimeSeries {
	if c == ts.events {
		return ts
	}
	return &TimeSeries{events: c, meta: ts.meta}
}

func (ts *TimeSeries) withMeta(fn func(m *Meta)) *TimeSeries {
	m := ts.meta.clone()
	fn(m)
	return &TimeSeries{events: ts.events, meta: m}
}

// Metadata

func (ts *TimeSeries) Name() string { return ts.meta.Name }
func (ts *TimeSeries) Timezone() string { return ts.meta.TZ }

// IsUTC reports whether the series is displayed in UTC.
func (ts *TimeSeries) IsUTC() bool {
	return ts.meta.TZ == tz.UTC || ts.meta.TZ == "UTC"
}

// MetaData returns a copy of the series metadata.
func (ts *TimeSeries) MetaData() Meta { return *ts.meta.clone() }

// Meta returns one metadata entry: "name", "tz", "index" or an extra key.
func (ts *TimeSeries) Meta(key string) interface{} {
	switch key {
	case "name":
		return ts.meta.Name
	case "tz":
		return ts.meta.TZ
	case "index":
		if ts.meta.Index == "" {
			return nil
		}
		return ts.meta.Index
	}
	return ts.meta.Extra[key]
}

// Index resolves the series index string in the series timezone. ok is
// false when the series has no index.
func (ts *TimeSeries) Index() (models.Index, bool, error) {
	if ts.meta.Index == "" {
		return models.Index{}, false, nil
	}
	idx, err := models.NewIndexIn(ts.meta.Index, ts.meta.TZ)
	if err != nil {
		return models.Index{}, false, err
	}
	return idx, true, nil
}

func (ts *TimeSeries) IndexAsString() string { return ts.meta.Index }

// IndexAsRange returns the interval covered by the series index.
func (ts *TimeSeries) IndexAsRange() (models.TimeRange, bool) {
	idx, ok, err := ts.Index()
	if err != nil || !ok {
		return models.TimeRange{}, false
	}
	return idx.AsTimeRange(), true
}

func (ts *TimeSeries) SetName(name string) *TimeSeries {
	return ts.withMeta(func(m *Meta) { m.Name = name })
}

// SetMeta returns a series with one metadata entry replaced.
func (ts *TimeSeries) SetMeta(key string, value interface{}) *TimeSeries {
	return ts.withMeta(func(m *Meta) {
		switch key {
		case "name":
			m.Name = cast.ToString(value)
		case "tz":
			m.TZ = cast.ToString(value)
		case "index":
			m.Index = cast.ToString(value)
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]interface{})
			}
			m.Extra[key] = value
		}
	})
}

// SetCollection returns a series with the same metadata over c.
func (ts *TimeSeries) SetCollection(c *collection.Collection) *TimeSeries {
	if c == nil {
		c = collection.Empty()
	}
	return ts.derive(c)
}

func (ts *TimeSeries) Collection() *collection.Collection { return ts.events }

// Access

// Range returns the interval from the first event's begin to the latest
// end. ok is false for an empty series.
func (ts *TimeSeries) Range() (models.TimeRange, bool) { return ts.events.Range() }

// TimeRange is an alias of Range.
func (ts *TimeSeries) TimeRange() (models.TimeRange, bool) { return ts.events.Range() }

// Begin is the first event's begin, or the zero time if the series is empty.
func (ts *TimeSeries) Begin() time.Time {
	r, _ := ts.events.Range()
	return r.Begin()
}

// End is the latest event end, or the zero time if the series is empty.
func (ts *TimeSeries) End() time.Time {
	r, _ := ts.events.Range()
	return r.End()
}

func (ts *TimeSeries) Size() int { return ts.events.Size() }
func (ts *TimeSeries) Count() int { return ts.events.Size() }

func (ts *TimeSeries) At(i int) (*models.Event, error) { return ts.events.At(i) }
func (ts *TimeSeries) AtTime(t time.Time) *models.Event { return ts.events.AtTime(t) }
func (ts *TimeSeries) AtFirst() *models.Event { return ts.events.First() }
func (ts *TimeSeries) AtLast() *models.Event { return ts.events.Last() }
func (ts *TimeSeries) Bisect(t time.Time, from int) int { return ts.events.Bisect(t, from) }
func (ts *TimeSeries) Columns() []string { return ts.events.Columns() }

func (ts *TimeSeries) Events() iter.Seq2[int, *models.Event] { return ts.events.All() }

// ForEach calls fn for each event until fn returns false.
func (ts *TimeSeries) ForEach(fn func(i int, e *models.Event) bool) int {
	return ts.events.ForEach(fn)
}

// Slice returns events [begin, end); negative indices count from the end.
// Slicing the whole series returns ts itself.
func (ts *TimeSeries) Slice(begin, end int) *TimeSeries {
	return ts.derive(ts.events.Slice(begin, end))
}

// Crop keeps the events whose begin lies within r, bounds included.
func (ts *TimeSeries) Crop(r models.TimeRange) *TimeSeries {
	return ts.derive(ts.events.Crop(r))
}

// Statistics

func (ts *TimeSeries) SizeValid(fieldPaths ...string) int { return ts.events.SizeValid(fieldPaths...) }

func (ts *TimeSeries) Sum(fieldPath string, filter reducer.Filter) (float64, bool) {
	return ts.events.Sum(fieldPath, filter)
}

func (ts *TimeSeries) Avg(fieldPath string, filter reducer.Filter) (float64, bool) {
	return ts.events.Avg(fieldPath, filter)
}

func (ts *TimeSeries) Mean(fieldPath string, filter reducer.Filter) (float64, bool) {
	return ts.events.Mean(fieldPath, filter)
}

func (ts *TimeSeries) Max(fieldPath string, filter reducer.Filter) (float64, bool) {
	return ts.events.Max(fieldPath, filter)
}

func (ts *TimeSeries) Min(fieldPath string, filter reducer.Filter) (float64, bool) {
	return ts.events.Min(fieldPath, filter)
}

func (ts *TimeSeries) Median(fieldPath string, filter reducer.Filter) (float64, bool) {
	return ts.events.Median(fieldPath, filter)
}

func (ts *TimeSeries) Stdev(fieldPath string, filter reducer.Filter) (float64, bool) {
	return ts.events.Stdev(fieldPath, filter)
}

func (ts *TimeSeries) Percentile(q float64, fieldPath string, interp reducer.Interpolation, filter reducer.Filter) (float64, bool) {
	return ts.events.Percentile(q, fieldPath, interp, filter)
}

func (ts *TimeSeries) Quantile(n int, fieldPath string, interp reducer.Interpolation) ([]float64, bool) {
	return ts.events.Quantile(n, fieldPath, interp)
}

func (ts *TimeSeries) Aggregate(fn reducer.Func, fieldPath string) (float64, bool) {
	return ts.events.Aggregate(fn, fieldPath)
}

// Transforms

func (ts *TimeSeries) Map(fn func(e *models.Event) *models.Event) *TimeSeries {
	return ts.derive(ts.events.Map(fn))
}

func (ts *TimeSeries) FlatMap(fn func(e *models.Event) []*models.Event) *TimeSeries {
	return ts.derive(ts.events.FlatMap(fn))
}

func (ts *TimeSeries) Filter(keep func(e *models.Event) bool) *TimeSeries {
	return ts.derive(ts.events.Filter(keep))
}

func (ts *TimeSeries) Select(fieldPaths []string) *TimeSeries {
	return ts.derive(ts.events.Select(fieldPaths))
}

func (ts *TimeSeries) Collapse(opts collection.CollapseOptions) (*TimeSeries, error) {
	c, err := ts.events.Collapse(opts)
	if err != nil {
		return nil, err
	}
	return ts.derive(c), nil
}

func (ts *TimeSeries) RenameColumns(renames map[string]string) *TimeSeries {
	return ts.derive(ts.events.RenameColumns(renames))
}

func (ts *TimeSeries) Fill(opts collection.FillOptions) (*TimeSeries, error) {
	c, err := ts.events.Fill(opts)
	if err != nil {
		return nil, err
	}
	return ts.derive(c), nil
}

func (ts *TimeSeries) Align(opts collection.AlignOptions) (*TimeSeries, error) {
	c, err := ts.events.Align(opts)
	if err != nil {
		return nil, err
	}
	return ts.derive(c), nil
}

func (ts *TimeSeries) Rate(opts collection.RateOptions) *TimeSeries {
	return ts.derive(ts.events.Rate(opts))
}

func (ts *TimeSeries) String() string {
	return fmt.Sprintf("TimeSeries(%s, %d events)", ts.meta.Name, ts.events.Size())
}

// Equal reports whether a and b share the same collection and metadata,
// as happens when a transform had nothing to change.
func Equal(a, b *TimeSeries) bool {
	return a == b || (a != nil && b != nil && a.events == b.events && a.meta == b.meta)
}

// Is reports whether a and b hold equal metadata and equal events.
func Is(a, b *TimeSeries) bool {
	if a == nil || b == nil {
		return a == b
	}
	if Equal(a, b) {
		return true
	}
	return metaEqual(a.meta, b.meta) && a.events.Equal(b.events)
}

func metaEqual(a, b *Meta) bool {
	if a.Name != b.Name || a.TZ != b.TZ || a.Index != b.Index || len(a.Extra) != len(b.Extra) {
		return false
	}
	for k, v := range a.Extra {
		w, ok := b.Extra[k]
		if !ok || !models.ValuesEqual(v, w) {
			return false
		}
	}
	return true
}
