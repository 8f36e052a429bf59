package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/tejusbharadwaj/tseries/internal/config"
	"github.com/tejusbharadwaj/tseries/internal/series"
)

// Build turns validated step configurations into Steps. zone resolves
// calendar windows at build time for validation; at run time they use the
// timezone of the series being processed.
func Build(cfgs []config.StepConfig, zone string) ([]Step, error) {
	steps := make([]Step, 0, len(cfgs))
	for i, sc := range cfgs {
		if err := sc.Validate(zone); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, sc.Op, err)
		}
		h, err := buildHandler(sc)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, sc.Op, err)
		}
		steps = append(steps, Step{Op: strings.ToLower(sc.Op), Handler: h})
	}
	return steps, nil
}

func buildHandler(sc config.StepConfig) (Handler, error) {
	switch strings.ToLower(sc.Op) {
	case config.OpFill:
		opts, err := sc.FillOptions()
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, ts *series.TimeSeries) (*series.TimeSeries, error) {
			return ts.Fill(opts)
		}, nil

	case config.OpAlign:
		opts, err := sc.AlignOptions()
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, ts *series.TimeSeries) (*series.TimeSeries, error) {
			return ts.Align(opts)
		}, nil

	case config.OpRate:
		opts := sc.RateOptions()
		return func(_ context.Context, ts *series.TimeSeries) (*series.TimeSeries, error) {
			return ts.Rate(opts), nil
		}, nil

	case config.OpSelect:
		fields, err := sc.SelectFields()
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, ts *series.TimeSeries) (*series.TimeSeries, error) {
			return ts.Select(fields), nil
		}, nil

	case config.OpCollapse:
		opts, err := sc.CollapseOptions()
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, ts *series.TimeSeries) (*series.TimeSeries, error) {
			return ts.Collapse(opts)
		}, nil

	case config.OpRename:
		renames, err := sc.RenameMap()
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, ts *series.TimeSeries) (*series.TimeSeries, error) {
			return ts.RenameColumns(renames), nil
		}, nil

	case config.OpCrop:
		r, err := sc.CropRange()
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, ts *series.TimeSeries) (*series.TimeSeries, error) {
			return ts.Crop(r), nil
		}, nil

	case config.OpFixedRollup, config.OpHourlyRollup, config.OpDailyRollup:
		return rollupHandler(sc)
	}
	return nil, fmt.Errorf("unsupported op: %s", sc.Op)
}

func rollupHandler(sc config.StepConfig) (Handler, error) {
	agg, err := sc.AggregationDef()
	if err != nil {
		return nil, err
	}
	trigger, err := sc.TriggerDef()
	if err != nil {
		return nil, err
	}
	op := strings.ToLower(sc.Op)

	return func(_ context.Context, ts *series.TimeSeries) (*series.TimeSeries, error) {
		opts := series.RollupOptions{Aggregation: agg, Trigger: trigger}
		switch op {
		case config.OpHourlyRollup:
			return ts.HourlyRollup(opts)
		case config.OpDailyRollup:
			return ts.DailyRollup(opts)
		}
		w, err := sc.WindowDef(ts.Timezone())
		if err != nil {
			return nil, err
		}
		opts.Window = w
		return ts.FixedWindowRollup(opts)
	}, nil
}
