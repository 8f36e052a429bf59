package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejusbharadwaj/tseries/internal/collection"
	"github.com/tejusbharadwaj/tseries/internal/models"
	"github.com/tejusbharadwaj/tseries/internal/window"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  level: "debug"
  format: "text"

series:
  name: "traffic"
  timezone: "America/Chicago"

pipeline:
  steps:
    - op: fill
      fields: [in, out]
      method: linear
      limit: 2
    - op: rate
      fields: [in]
      allow_negative: false
    - op: fixed_rollup
      window: 5m
      aggregation:
        - {output: in_avg, field: in_rate, func: avg}
        - {output: in_p95, field: in_rate, func: p95}
`)

	config, err := Load(configPath)
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)
	assert.Equal(t, "traffic", config.Series.Name)
	assert.Equal(t, "America/Chicago", config.Series.Timezone)
	assert.Equal(t, "tseries", config.Metrics.Namespace)
	require.Len(t, config.Pipeline.Steps, 3)

	fill := config.Pipeline.Steps[0]
	assert.Equal(t, OpFill, fill.Op)
	assert.Equal(t, []string{"in", "out"}, fill.Fields)
	assert.Equal(t, 2, fill.Limit)

	rate := config.Pipeline.Steps[1]
	require.NotNil(t, rate.AllowNegative)
	assert.False(t, *rate.AllowNegative)
	assert.True(t, rate.RateOptions().DropNegative)

	rollup := config.Pipeline.Steps[2]
	assert.Equal(t, "5m", rollup.Window)
	require.Len(t, rollup.Aggregation, 2)
	assert.Equal(t, AggregationConfig{Output: "in_p95", Field: "in_rate", Func: "p95"}, rollup.Aggregation[1])

	assert.NoError(t, config.Validate())
}

func TestLoadDefaults(t *testing.T) {
	config, err := Load(writeConfig(t, "pipeline:\n  steps: []\n"))
	require.NoError(t, err)

	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
	assert.Equal(t, "Etc/UTC", config.Series.Timezone)
	assert.Equal(t, "tseries", config.Metrics.Namespace)
	assert.Empty(t, config.Pipeline.Steps)
	assert.NoError(t, config.Validate())
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("TSERIES_LOG_LEVEL", "warn")
	t.Setenv("TSERIES_FILL_LIMIT", "3")

	config, err := Load(writeConfig(t, `
logging:
  level: $TSERIES_LOG_LEVEL
pipeline:
  steps:
    - op: fill
      method: pad
      limit: $TSERIES_FILL_LIMIT
`))
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, 3, config.Pipeline.Steps[0].Limit)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "logging: [unclosed"))
	assert.Error(t, err)
}

func TestValidateCollectsEveryError(t *testing.T) {
	config := &Config{
		Logging: LoggingConfig{Level: "loud", Format: "xml"},
		Series:  SeriesConfig{Timezone: "Etc/UTC"},
		Pipeline: PipelineConfig{Steps: []StepConfig{
			{Op: "fill", Method: "cubic"},
			{Op: "explode"},
			{Op: "fixed_rollup", Window: "5m"},
		}},
	}

	err := config.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "5 errors occurred")
	assert.Contains(t, msg, "invalid logging level: loud")
	assert.Contains(t, msg, "invalid logging format: xml")
	assert.Contains(t, msg, "step 0 (fill): invalid fill method: cubic")
	assert.Contains(t, msg, "step 1 (explode): invalid op: explode")
	assert.Contains(t, msg, "step 2 (fixed_rollup): invalid aggregation")
}

func TestStepValidate(t *testing.T) {
	tests := []struct {
		name       string
		step       StepConfig
		wantErr    bool
		errMessage string
	}{
		{
			name: "valid fill",
			step: StepConfig{Op: OpFill, Method: "zero"},
		},
		{
			name:       "negative limit",
			step:       StepConfig{Op: OpFill, Method: "pad", Limit: -1},
			wantErr:    true,
			errMessage: "invalid limit: -1 (must not be negative)",
		},
		{
			name: "valid align",
			step: StepConfig{Op: OpAlign, Period: "30s", Method: "hold"},
		},
		{
			name:       "align without period",
			step:       StepConfig{Op: OpAlign},
			wantErr:    true,
			errMessage: "invalid period",
		},
		{
			name: "rate needs nothing",
			step: StepConfig{Op: OpRate},
		},
		{
			name:       "select without fields",
			step:       StepConfig{Op: OpSelect},
			wantErr:    true,
			errMessage: "invalid fields",
		},
		{
			name: "valid collapse",
			step: StepConfig{Op: OpCollapse, Fields: []string{"in", "out"}, Name: "total", Func: "sum"},
		},
		{
			name:       "collapse with unknown reducer",
			step:       StepConfig{Op: OpCollapse, Fields: []string{"in"}, Name: "total", Func: "mode"},
			wantErr:    true,
			errMessage: "invalid aggregation: mode",
		},
		{
			name:       "rename without target",
			step:       StepConfig{Op: OpRename, Renames: []RenameConfig{{From: "in"}}},
			wantErr:    true,
			errMessage: "invalid renames",
		},
		{
			name: "valid crop",
			step: StepConfig{Op: OpCrop, Begin: "2024-03-01T00:00:00Z", End: "2024-03-02T00:00:00Z"},
		},
		{
			name:       "crop out of order",
			step:       StepConfig{Op: OpCrop, Begin: "2024-03-02T00:00:00Z", End: "2024-03-01T00:00:00Z"},
			wantErr:    true,
			errMessage: "before begin",
		},
		{
			name:       "invalid window",
			step:       StepConfig{Op: OpFixedRollup, Window: "2x", Aggregation: []AggregationConfig{{Output: "a", Func: "avg"}}},
			wantErr:    true,
			errMessage: "invalid window: 2x",
		},
		{
			name:       "invalid trigger",
			step:       StepConfig{Op: OpHourlyRollup, Trigger: "never", Aggregation: []AggregationConfig{{Output: "a", Func: "avg"}}},
			wantErr:    true,
			errMessage: "invalid trigger: never",
		},
		{
			name: "valid daily rollup",
			step: StepConfig{Op: OpDailyRollup, Trigger: "event", Aggregation: []AggregationConfig{{Output: "a", Field: "in", Func: "p99"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate("Etc/UTC")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMessage)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStepOptions(t *testing.T) {
	step := StepConfig{Op: OpAlign, Fields: []string{"in"}, Period: "1m", Limit: 4}
	align, err := step.AlignOptions()
	require.NoError(t, err)
	assert.Equal(t, collection.AlignOptions{FieldSpec: []string{"in"}, Period: time.Minute, Method: collection.AlignLinear, Limit: 4}, align)

	rate := StepConfig{}.RateOptions()
	assert.False(t, rate.DropNegative)

	daily, err := StepConfig{Window: "daily"}.WindowDef("Europe/Paris")
	require.NoError(t, err)
	assert.Equal(t, "daily", daily.String())

	trigger, err := StepConfig{}.TriggerDef()
	require.NoError(t, err)
	assert.Equal(t, window.OnDiscardedWindow, trigger)

	_, err = StepConfig{}.AggregationDef()
	assert.ErrorIs(t, err, models.ErrConfig)

	renames, err := StepConfig{Renames: []RenameConfig{{From: "in", To: "ingress"}}}.RenameMap()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"in": "ingress"}, renames)
}
