// Package window buckets the events of a collection by time and reduces
// each bucket to a single event.
package window

import (
	"fmt"
	"strings"
	"time"

	"github.com/tejusbharadwaj/tseries/internal/models"
	"github.com/tejusbharadwaj/tseries/internal/tz"
)

// Window maps an instant to the key of the bucket containing it.
type Window interface {
	// Key returns the bucket string for t, e.g. "5m-5670" or "2024-03-01".
	Key(t time.Time) string
	// Index resolves a key returned by Key into its Index.
	Index(key string) (models.Index, error)
	String() string
}

// Fixed buckets by floor(millis / size). Buckets are aligned to the epoch,
// whatever timezone the series is displayed in.
type Fixed struct {
	Size time.Duration
}

// NewFixed returns a fixed window of the given size.
func NewFixed(size time.Duration) (Fixed, error) {
	if !models.WholeMillis(size) {
		return Fixed{}, &models.ConfigError{Option: "window", Value: size.String(), Reason: "must be a whole number of milliseconds, at least 1ms"}
	}
	return Fixed{Size: size}, nil
}

func (f Fixed) Key(t time.Time) string {
	return models.DurationIndex(f.Size, t)
}

func (f Fixed) Index(key string) (models.Index, error) {
	return models.NewIndex(key)
}

func (f Fixed) String() string { return models.FormatDuration(f.Size) }

// Unit is the span of a calendar window.
type Unit int

const (
	Daily Unit = iota
	Monthly
	Yearly
)

var (
	unitNames   = []string{"daily", "monthly", "yearly"}
	unitLayouts = []string{"2006-01-02", "2006-01", "2006"}
)

func (u Unit) String() string {
	if u >= 0 && int(u) < len(unitNames) {
		return unitNames[u]
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Calendar buckets by local calendar day, month or year in a named
// timezone, so a daily bucket spans local midnight to midnight.
type Calendar struct {
	Unit Unit
	Zone string
	loc  *time.Location
}

// NewCalendar returns a calendar window in zone. An empty zone is UTC.
func NewCalendar(unit Unit, zone string) (Calendar, error) {
	if unit < Daily || unit > Yearly {
		return Calendar{}, &models.ConfigError{Option: "window", Value: unit.String(), Allowed: unitNames}
	}
	if zone == "" {
		zone = tz.UTC
	}
	loc, err := tz.Load(zone)
	if err != nil {
		return Calendar{}, &models.ConfigError{Option: "timezone", Value: zone, Reason: err.Error()}
	}
	return Calendar{Unit: unit, Zone: zone, loc: loc}, nil
}

func (c Calendar) Key(t time.Time) string {
	return t.In(c.loc).Format(unitLayouts[c.Unit])
}

func (c Calendar) Index(key string) (models.Index, error) {
	return models.NewIndexIn(key, c.Zone)
}

func (c Calendar) String() string { return c.Unit.String() }

// Parse reads a window definition: "daily", "monthly" or "yearly" give a
// Calendar window in zone, anything else must be a compact duration
// ("30s", "5m", "1h", "1d") and gives a Fixed window.
func Parse(s, zone string) (Window, error) {
	for i, name := range unitNames {
		if strings.EqualFold(s, name) {
			return NewCalendar(Unit(i), zone)
		}
	}
	size, err := models.ParseDuration(s)
	if err != nil {
		return nil, &models.ConfigError{Option: "window", Value: s, Reason: "expected a duration such as 5m or one of daily, monthly, yearly"}
	}
	return NewFixed(size)
}
