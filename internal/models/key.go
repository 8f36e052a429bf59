package models

import (
	"fmt"
	"time"

	"github.com/tejusbharadwaj/tseries/internal/tz"
)

// KeyKind identifies which of the three key variants an Event carries.
type KeyKind int

const (
	TimeKind KeyKind = iota
	TimeRangeKind
	IndexKind
)

// String returns the wire-format column name of the key kind.
func (k KeyKind) String() string {
	switch k {
	case TimeKind:
		return "time"
	case TimeRangeKind:
		return "timerange"
	case IndexKind:
		return "index"
	default:
		return "unknown"
	}
}

// ParseKeyKind maps a wire-format key column ("time", "timerange" or "index")
// to its KeyKind.
func ParseKeyKind(s string) (KeyKind, error) {
	switch s {
	case "time":
		return TimeKind, nil
	case "timerange":
		return TimeRangeKind, nil
	case "index":
		return IndexKind, nil
	}
	return 0, &ConfigError{
		Option:  "columns[0]",
		Value:   s,
		Allowed: []string{"time", "timerange", "index"},
	}
}

// Key is the uniform capability surface of Time, TimeRange and Index.
// Events are ordered by Begin.
type Key interface {
	Kind() KeyKind
	Begin() time.Time
	End() time.Time
	String() string
	Equal(other Key) bool
}

// Time is an instant key. Begin and End are the same instant.
type Time struct {
	t time.Time
}

// NewTime returns a Time key truncated to millisecond precision.
func NewTime(t time.Time) Time {
	return Time{t: t.UTC().Truncate(time.Millisecond)}
}

// TimeFromMillis returns a Time key for ms milliseconds since the epoch.
func TimeFromMillis(ms int64) Time {
	return Time{t: time.UnixMilli(ms).UTC()}
}

func (t Time) Kind() KeyKind { return TimeKind }
func (t Time) Begin() time.Time { return t.t }
func (t Time) End() time.Time { return t.t }
func (t Time) Millis() int64 { return t.t.UnixMilli() }
func (t Time) String() string { return fmt.Sprintf("%d", t.t.UnixMilli()) }

func (t Time) Equal(other Key) bool {
	o, ok := other.(Time)
	return ok && o.t.Equal(t.t)
}

// TimeRange is a closed interval key.
type TimeRange struct {
	begin time.Time
	end   time.Time
}

// NewTimeRange returns a TimeRange key, swapping the bounds if end precedes begin.
func NewTimeRange(begin, end time.Time) TimeRange {
	begin = begin.UTC().Truncate(time.Millisecond)
	end = end.UTC().Truncate(time.Millisecond)
	if end.Before(begin) {
		begin, end = end, begin
	}
	return TimeRange{begin: begin, end: end}
}

// TimeRangeFromMillis returns a TimeRange spanning [beginMs, endMs].
func TimeRangeFromMillis(beginMs, endMs int64) TimeRange {
	return NewTimeRange(time.UnixMilli(beginMs), time.UnixMilli(endMs))
}

func (r TimeRange) Kind() KeyKind { return TimeRangeKind }
func (r TimeRange) Begin() time.Time { return r.begin }
func (r TimeRange) End() time.Time { return r.end }

// Duration is the length of the range.
func (r TimeRange) Duration() time.Duration { return r.end.Sub(r.begin) }

// Contains reports whether t lies within the closed range.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.begin) && !t.After(r.end)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%d,%d]", r.begin.UnixMilli(), r.end.UnixMilli())
}

func (r TimeRange) Equal(other Key) bool {
	o, ok := other.(TimeRange)
	return ok && o.begin.Equal(r.begin) && o.end.Equal(r.end)
}

// Index is a named interval such as "1h-412345" or "2017-01-02". Calendar
// indexes resolve in the timezone they were created with; duration indexes
// are always UTC.
type Index struct {
	value string
	tz    string
	rng   TimeRange
}

// NewIndex parses s and resolves its range in the UTC timezone.
func NewIndex(s string) (Index, error) {
	return NewIndexIn(s, tz.UTC)
}

// NewIndexIn parses s and resolves calendar forms in the named zone.
func NewIndexIn(s, zone string) (Index, error) {
	if zone == "" {
		zone = tz.UTC
	}
	rng, err := parseIndexRange(s, zone)
	if err != nil {
		return Index{}, err
	}
	return Index{value: s, tz: zone, rng: rng}, nil
}

func (i Index) Kind() KeyKind { return IndexKind }
func (i Index) Begin() time.Time { return i.rng.begin }
func (i Index) End() time.Time { return i.rng.end }
func (i Index) String() string { return i.value }

// Timezone is the zone the index was resolved in.
func (i Index) Timezone() string { return i.tz }

// AsTimeRange returns the interval the index covers.
func (i Index) AsTimeRange() TimeRange { return i.rng }

func (i Index) Equal(other Key) bool {
	o, ok := other.(Index)
	return ok && o.value == i.value && o.rng.Equal(i.rng)
}

// identity is the grouping key used when pooling events from several series:
// two keys share an identity only if kind and exact bounds match.
func identity(k Key) string {
	return fmt.Sprintf("%d:%d:%d:%s", k.Kind(), k.Begin().UnixMilli(), k.End().UnixMilli(), indexValue(k))
}

func indexValue(k Key) string {
	if i, ok := k.(Index); ok {
		return i.value
	}
	return ""
}
