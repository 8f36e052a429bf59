package series

import (
	"time"

	"github.com/tejusbharadwaj/tseries/internal/models"
	"github.com/tejusbharadwaj/tseries/internal/window"
)

// RollupOptions configures the window rollups.
type RollupOptions struct {
	// Window is required by FixedWindowRollup and ignored by the hourly and
	// daily rollups.
	Window      window.Window
	Aggregation window.Aggregation
	Trigger     window.Trigger
}

// FixedWindowRollup reduces each window of opts.Window to one event keyed
// by the window's Index.
func (ts *TimeSeries) FixedWindowRollup(opts RollupOptions) (*TimeSeries, error) {
	if opts.Window == nil {
		return nil, &models.ConfigError{Option: "window", Reason: "required"}
	}
	if err := opts.Aggregation.Validate(); err != nil {
		return nil, err
	}
	g, err := window.Group(ts.events, opts.Window, opts.Trigger)
	if err != nil {
		return nil, err
	}
	r, err := g.Aggregate(opts.Aggregation)
	if err != nil {
		return nil, err
	}
	return ts.derive(r.Flatten()), nil
}

// HourlyRollup is FixedWindowRollup over one hour windows.
func (ts *TimeSeries) HourlyRollup(opts RollupOptions) (*TimeSeries, error) {
	w, err := window.NewFixed(time.Hour)
	if err != nil {
		return nil, err
	}
	opts.Window = w
	return ts.FixedWindowRollup(opts)
}

// DailyRollup reduces each calendar day, midnight to midnight in the
// series timezone, to one event.
func (ts *TimeSeries) DailyRollup(opts RollupOptions) (*TimeSeries, error) {
	w, err := window.NewCalendar(window.Daily, ts.meta.TZ)
	if err != nil {
		return nil, err
	}
	opts.Window = w
	return ts.FixedWindowRollup(opts)
}

// CollectByWindow splits the series into one series per window, keyed by
// window string. Each series carries its window in the index metadata.
func (ts *TimeSeries) CollectByWindow(w window.Window) (map[string]*TimeSeries, error) {
	g, err := window.Group(ts.events, w, window.OnDiscardedWindow)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*TimeSeries, len(g.Keys()))
	for key, c := range g.Ungroup() {
		m := ts.meta.clone()
		m.Index = key
		out[key] = &TimeSeries{events: c, meta: m}
	}
	return out, nil
}
