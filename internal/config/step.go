package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tejusbharadwaj/tseries/internal/collection"
	"github.com/tejusbharadwaj/tseries/internal/models"
	"github.com/tejusbharadwaj/tseries/internal/reducer"
	"github.com/tejusbharadwaj/tseries/internal/window"
)

// Step operations.
const (
	OpFill         = "fill"
	OpAlign        = "align"
	OpRate         = "rate"
	OpSelect       = "select"
	OpCollapse     = "collapse"
	OpRename       = "rename"
	OpCrop         = "crop"
	OpFixedRollup  = "fixed_rollup"
	OpHourlyRollup = "hourly_rollup"
	OpDailyRollup  = "daily_rollup"
)

// Ops lists every step operation.
var Ops = []string{
	OpFill, OpAlign, OpRate, OpSelect, OpCollapse, OpRename, OpCrop,
	OpFixedRollup, OpHourlyRollup, OpDailyRollup,
}

// StepConfig is one pipeline step. Which fields apply depends on Op.
type StepConfig struct {
	Op     string   `mapstructure:"op"`
	Fields []string `mapstructure:"fields"`

	// fill and align
	Method string `mapstructure:"method"`
	Limit  int    `mapstructure:"limit"`
	Period string `mapstructure:"period"`

	// rate; unset means negative rates are kept
	AllowNegative *bool `mapstructure:"allow_negative"`

	// collapse
	Name   string `mapstructure:"name"`
	Func   string `mapstructure:"func"`
	Append bool   `mapstructure:"append"`

	// rename
	Renames []RenameConfig `mapstructure:"renames"`

	// crop, RFC 3339
	Begin string `mapstructure:"begin"`
	End   string `mapstructure:"end"`

	// rollups
	Window      string              `mapstructure:"window"`
	Trigger     string              `mapstructure:"trigger"`
	Aggregation []AggregationConfig `mapstructure:"aggregation"`
}

type RenameConfig struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// AggregationConfig produces Output by reducing Field with Func, one of
// the reducer names or pNN.
type AggregationConfig struct {
	Output string `mapstructure:"output"`
	Field  string `mapstructure:"field"`
	Func   string `mapstructure:"func"`
}

func (s StepConfig) FillOptions() (collection.FillOptions, error) {
	method, err := collection.ParseFillMethod(s.Method)
	if err != nil {
		return collection.FillOptions{}, err
	}
	if s.Limit < 0 {
		return collection.FillOptions{}, &models.ConfigError{Option: "limit", Value: s.Limit, Reason: "must not be negative"}
	}
	return collection.FillOptions{FieldSpec: s.Fields, Method: method, Limit: s.Limit}, nil
}

func (s StepConfig) AlignOptions() (collection.AlignOptions, error) {
	method := collection.AlignLinear
	if s.Method != "" {
		var err error
		if method, err = collection.ParseAlignMethod(s.Method); err != nil {
			return collection.AlignOptions{}, err
		}
	}
	period, err := models.ParseDuration(s.Period)
	if err != nil {
		return collection.AlignOptions{}, &models.ConfigError{Option: "period", Value: s.Period, Reason: err.Error()}
	}
	if s.Limit < 0 {
		return collection.AlignOptions{}, &models.ConfigError{Option: "limit", Value: s.Limit, Reason: "must not be negative"}
	}
	return collection.AlignOptions{FieldSpec: s.Fields, Period: period, Method: method, Limit: s.Limit}, nil
}

func (s StepConfig) RateOptions() collection.RateOptions {
	dropNegative := s.AllowNegative != nil && !*s.AllowNegative
	return collection.RateOptions{FieldSpec: s.Fields, DropNegative: dropNegative}
}

func (s StepConfig) SelectFields() ([]string, error) {
	if len(s.Fields) == 0 {
		return nil, &models.ConfigError{Option: "fields", Reason: "at least one field is required"}
	}
	return s.Fields, nil
}

func (s StepConfig) CollapseOptions() (collection.CollapseOptions, error) {
	fn, err := reducer.ByName(s.Func, nil)
	if err != nil {
		return collection.CollapseOptions{}, err
	}
	opts := collection.CollapseOptions{FieldSpecList: s.Fields, FieldName: s.Name, Reducer: fn, Append: s.Append}
	if len(opts.FieldSpecList) == 0 {
		return opts, &models.ConfigError{Option: "fields", Reason: "at least one field is required"}
	}
	if opts.FieldName == "" {
		return opts, &models.ConfigError{Option: "name", Reason: "an output field name is required"}
	}
	return opts, nil
}

func (s StepConfig) RenameMap() (map[string]string, error) {
	if len(s.Renames) == 0 {
		return nil, &models.ConfigError{Option: "renames", Reason: "at least one rename is required"}
	}
	out := make(map[string]string, len(s.Renames))
	for _, r := range s.Renames {
		if r.From == "" || r.To == "" {
			return nil, &models.ConfigError{Option: "renames", Value: fmt.Sprintf("%s->%s", r.From, r.To), Reason: "from and to are required"}
		}
		out[r.From] = r.To
	}
	return out, nil
}

func (s StepConfig) CropRange() (models.TimeRange, error) {
	begin, err := time.Parse(time.RFC3339, s.Begin)
	if err != nil {
		return models.TimeRange{}, &models.ConfigError{Option: "begin", Value: s.Begin, Reason: "expected RFC 3339"}
	}
	end, err := time.Parse(time.RFC3339, s.End)
	if err != nil {
		return models.TimeRange{}, &models.ConfigError{Option: "end", Value: s.End, Reason: "expected RFC 3339"}
	}
	if end.Before(begin) {
		return models.TimeRange{}, &models.ConfigError{Option: "end", Value: s.End, Reason: "before begin"}
	}
	return models.NewTimeRange(begin, end), nil
}

// WindowDef resolves the rollup window; calendar windows use zone.
func (s StepConfig) WindowDef(zone string) (window.Window, error) {
	if s.Window == "" {
		return nil, &models.ConfigError{Option: "window", Reason: "required"}
	}
	return window.Parse(s.Window, zone)
}

func (s StepConfig) TriggerDef() (window.Trigger, error) {
	if s.Trigger == "" {
		return window.OnDiscardedWindow, nil
	}
	return window.ParseTrigger(s.Trigger)
}

func (s StepConfig) AggregationDef() (window.Aggregation, error) {
	agg := make(window.Aggregation, 0, len(s.Aggregation))
	for _, a := range s.Aggregation {
		fn, err := reducer.ByName(a.Func, nil)
		if err != nil {
			return nil, err
		}
		agg = append(agg, window.Output{Name: a.Output, Field: a.Field, Func: fn})
	}
	if err := agg.Validate(); err != nil {
		return nil, err
	}
	return agg, nil
}

func validOp(op string) bool {
	for _, o := range Ops {
		if o == op {
			return true
		}
	}
	return false
}

// Validate checks that every option the step's operation needs parses.
func (s StepConfig) Validate(zone string) error {
	var err error
	switch strings.ToLower(s.Op) {
	case OpFill:
		_, err = s.FillOptions()
	case OpAlign:
		_, err = s.AlignOptions()
	case OpRate:
	case OpSelect:
		_, err = s.SelectFields()
	case OpCollapse:
		_, err = s.CollapseOptions()
	case OpRename:
		_, err = s.RenameMap()
	case OpCrop:
		_, err = s.CropRange()
	case OpFixedRollup:
		if _, err = s.WindowDef(zone); err == nil {
			err = s.validateRollup()
		}
	case OpHourlyRollup, OpDailyRollup:
		err = s.validateRollup()
	default:
		err = &models.ConfigError{Option: "op", Value: s.Op, Allowed: Ops}
	}
	return err
}

func (s StepConfig) validateRollup() error {
	if _, err := s.TriggerDef(); err != nil {
		return err
	}
	_, err := s.AggregationDef()
	return err
}
