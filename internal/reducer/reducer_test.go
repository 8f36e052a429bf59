package reducer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func TestReducers(t *testing.T) {
	values := []float64{5, nan, 8, 2}

	tests := []struct {
		name string
		fn   Func
		want float64
	}{
		{name: "sum", fn: Sum(nil), want: 15},
		{name: "count", fn: Count(nil), want: 3},
		{name: "count keeping missing", fn: Count(KeepMissing), want: 4},
		{name: "avg", fn: Avg(nil), want: 5},
		{name: "avg zeroing missing", fn: Avg(ZeroMissing), want: 3.75},
		{name: "max", fn: Max(nil), want: 8},
		{name: "min", fn: Min(nil), want: 2},
		{name: "median", fn: Median(nil), want: 5},
		{name: "stdev", fn: Stdev(nil), want: math.Sqrt(6)},
		{name: "first", fn: First(nil), want: 5},
		{name: "last", fn: Last(nil), want: 2},
		{name: "difference", fn: Difference(nil), want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.fn(values), 1e-9)
		})
	}
}

func TestEmptyInput(t *testing.T) {
	empty := []float64{nan, nan}

	assert.Equal(t, 0.0, Sum(nil)(empty))
	assert.Equal(t, 0.0, Count(nil)(empty))
	assert.Equal(t, 0.0, Sum(nil)(nil))
	for name, fn := range map[string]Func{
		"avg":    Avg(nil),
		"max":    Max(nil),
		"min":    Min(nil),
		"median": Median(nil),
		"stdev":  Stdev(nil),
		"first":  First(nil),
		"p90":    Percentile(90, Linear, nil),
	} {
		assert.True(t, math.IsNaN(fn(empty)), name)
	}
}

func TestMissingFilters(t *testing.T) {
	assert.True(t, math.IsNaN(Sum(PropagateMissing)([]float64{1, nan})))
	assert.Equal(t, 3.0, Sum(PropagateMissing)([]float64{1, 2}))
	assert.True(t, math.IsNaN(Sum(NoneIfEmpty)([]float64{nan})))
	assert.Equal(t, 1.0, Sum(NoneIfEmpty)([]float64{nan, 1}))
	assert.True(t, math.IsNaN(Sum(KeepMissing)([]float64{1, nan})))
}

func TestKeep(t *testing.T) {
	assert.Equal(t, 4.0, Keep(nil)([]float64{4, 4, nan}))
	assert.True(t, math.IsNaN(Keep(nil)([]float64{4, 5})))
}

func TestPercentile(t *testing.T) {
	// sorted: 1 2 3 4, q=50 -> r=1.5
	values := []float64{4, 1, 3, 2}

	tests := []struct {
		name   string
		q      float64
		interp Interpolation
		want   float64
	}{
		{name: "linear", q: 50, interp: Linear, want: 2.5},
		{name: "lower", q: 50, interp: Lower, want: 2},
		{name: "higher", q: 50, interp: Higher, want: 3},
		{name: "nearest tie goes high", q: 50, interp: Nearest, want: 3},
		{name: "nearest below half", q: 40, interp: Nearest, want: 2},
		{name: "midpoint", q: 50, interp: Midpoint, want: 2.5},
		{name: "zero", q: 0, interp: Linear, want: 1},
		{name: "hundred", q: 100, interp: Linear, want: 4},
		{name: "linear quarter", q: 25, interp: Linear, want: 1.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(tt.q, tt.interp, nil)(values), 1e-9)
		})
	}

	assert.Equal(t, 5.0, Percentile(50, Linear, nil)([]float64{5, 8, 2}))
	assert.True(t, math.IsNaN(Percentile(101, Linear, nil)(values)))
}

func TestQuantile(t *testing.T) {
	got := Quantile(4, Linear, nil)([]float64{1, 2, 3, 4, 5})
	assert.Equal(t, []float64{2, 3, 4}, got)

	assert.Nil(t, Quantile(1, Linear, nil)([]float64{1}))
	assert.Len(t, Quantile(3, Linear, nil)(nil), 2)
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    float64
		wantErr bool
	}{
		{name: "avg", want: 2},
		{name: "MEAN", want: 2},
		{name: "p50", want: 2},
		{name: "p100", want: 3},
		{name: "sum", want: 6},
		{name: "p101", wantErr: true},
		{name: "INVALID", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := ByName(tt.name, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "invalid aggregation: "+tt.name, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, fn([]float64{1, 2, 3}))
		})
	}
}

func TestParseInterpolation(t *testing.T) {
	i, err := ParseInterpolation("Nearest")
	require.NoError(t, err)
	assert.Equal(t, Nearest, i)
	assert.Equal(t, "nearest", i.String())

	_, err = ParseInterpolation("cubic")
	assert.Error(t, err)
}
