package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/tejusbharadwaj/tseries/internal/tz"
)

const (
	Day  = 24 * time.Hour
	Week = 7 * Day
)

var (
	durationPattern      = regexp.MustCompile(`^(\d+)(ms|s|m|h|d|w)$`)
	durationIndexPattern = regexp.MustCompile(`^(\d+(?:ms|s|m|h|d|w))-(-?\d+)$`)
	dayIndexPattern      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	monthIndexPattern    = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	yearIndexPattern     = regexp.MustCompile(`^(\d{4})$`)
)

var durationUnits = map[string]time.Duration{
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  Day,
	"w":  Week,
}

// ParseDuration parses the compact duration form used in window and index
// strings: a positive count followed by one of ms, s, m, h, d or w.
func ParseDuration(s string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(n) * durationUnits[m[2]], nil
}

// WholeMillis reports whether d is a positive whole number of milliseconds,
// the resolution of every key.
func WholeMillis(d time.Duration) bool {
	return d >= time.Millisecond && d%time.Millisecond == 0
}

// FormatDuration renders d in the compact form, using the largest unit
// (d, h, m, s, ms) that divides it exactly.
func FormatDuration(d time.Duration) string {
	for _, u := range []struct {
		suffix string
		size   time.Duration
	}{
		{"d", Day},
		{"h", time.Hour},
		{"m", time.Minute},
		{"s", time.Second},
	} {
		if d >= u.size && d%u.size == 0 {
			return fmt.Sprintf("%d%s", d/u.size, u.suffix)
		}
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

// DurationIndex returns the string of the fixed bucket of width size
// containing t, e.g. "1h-412345".
func DurationIndex(size time.Duration, t time.Time) string {
	return fmt.Sprintf("%s-%d", FormatDuration(size), floorDiv(t.UnixMilli(), size.Milliseconds()))
}

func parseIndexRange(s, zone string) (TimeRange, error) {
	if m := durationIndexPattern.FindStringSubmatch(s); m != nil {
		size, err := ParseDuration(m[1])
		if err != nil {
			return TimeRange{}, err
		}
		n, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return TimeRange{}, fmt.Errorf("invalid index %q: %w", s, err)
		}
		begin := n * size.Milliseconds()
		return TimeRangeFromMillis(begin, begin+size.Milliseconds()), nil
	}

	loc, err := tz.Load(zone)
	if err != nil {
		return TimeRange{}, err
	}

	var begin, end time.Time
	switch {
	case dayIndexPattern.MatchString(s):
		m := dayIndexPattern.FindStringSubmatch(s)
		y, mo, d := atoi(m[1]), atoi(m[2]), atoi(m[3])
		begin = time.Date(y, time.Month(mo), d, 0, 0, 0, 0, loc)
		end = begin.AddDate(0, 0, 1)
	case monthIndexPattern.MatchString(s):
		m := monthIndexPattern.FindStringSubmatch(s)
		begin = time.Date(atoi(m[1]), time.Month(atoi(m[2])), 1, 0, 0, 0, 0, loc)
		end = begin.AddDate(0, 1, 0)
	case yearIndexPattern.MatchString(s):
		begin = time.Date(atoi(s), time.January, 1, 0, 0, 0, 0, loc)
		end = begin.AddDate(1, 0, 0)
	default:
		return TimeRange{}, fmt.Errorf("invalid index %q", s)
	}
	return NewTimeRange(begin, end), nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// floorDiv divides rounding toward negative infinity so that instants before
// the epoch land in the bucket that precedes them.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
