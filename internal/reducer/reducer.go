// Package reducer provides the functions that fold a column of values into
// one number: window aggregations, collapse, series reduce and collection
// statistics all take a Func.
//
// A Func receives raw values where a missing or invalid input is NaN. Each
// constructor takes a Filter deciding what happens to those NaNs before the
// reduction runs; a nil Filter means IgnoreMissing.
//
// With no values left after filtering, Sum and Count return 0 and every
// other reducer returns NaN.
package reducer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Func reduces a list of values to a single value.
type Func func(values []float64) float64

// Filter prepares raw values for a reduction. Returning nil makes the
// reducer yield NaN, which is how PropagateMissing and NoneIfEmpty signal
// "no result".
type Filter func(values []float64) []float64

// KeepMissing passes values through untouched, NaNs included.
func KeepMissing(values []float64) []float64 {
	if values == nil {
		return []float64{}
	}
	return values
}

// IgnoreMissing drops NaN and infinite values.
func IgnoreMissing(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// ZeroMissing replaces NaN values with 0.
func ZeroMissing(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			out[i] = v
		}
	}
	return out
}

// PropagateMissing yields no result if any value is NaN.
func PropagateMissing(values []float64) []float64 {
	for _, v := range values {
		if math.IsNaN(v) {
			return nil
		}
	}
	return KeepMissing(values)
}

// NoneIfEmpty drops missing values and yields no result when none remain.
func NoneIfEmpty(values []float64) []float64 {
	out := IgnoreMissing(values)
	if len(out) == 0 {
		return nil
	}
	return out
}

func clean(filter Filter, values []float64) []float64 {
	if filter == nil {
		filter = IgnoreMissing
	}
	return filter(values)
}

// Sum adds the values.
func Sum(filter Filter) Func {
	return func(values []float64) float64 {
		v := clean(filter, values)
		if v == nil {
			return math.NaN()
		}
		return floats.Sum(v)
	}
}

// Count is the number of values left after filtering.
func Count(filter Filter) Func {
	return func(values []float64) float64 {
		v := clean(filter, values)
		if v == nil {
			return math.NaN()
		}
		return float64(len(v))
	}
}

// Avg is the arithmetic mean.
func Avg(filter Filter) Func {
	return func(values []float64) float64 {
		v := clean(filter, values)
		if len(v) == 0 {
			return math.NaN()
		}
		return stat.Mean(v, nil)
	}
}

// Max is the largest value.
func Max(filter Filter) Func {
	return func(values []float64) float64 {
		v := clean(filter, values)
		if len(v) == 0 {
			return math.NaN()
		}
		return floats.Max(v)
	}
}

// Min is the smallest value.
func Min(filter Filter) Func {
	return func(values []float64) float64 {
		v := clean(filter, values)
		if len(v) == 0 {
			return math.NaN()
		}
		return floats.Min(v)
	}
}

// Median is the 50th percentile with linear interpolation.
func Median(filter Filter) Func {
	return Percentile(50, Linear, filter)
}

// Stdev is the population standard deviation.
func Stdev(filter Filter) Func {
	return func(values []float64) float64 {
		v := clean(filter, values)
		if len(v) == 0 {
			return math.NaN()
		}
		_, std := stat.PopMeanStdDev(v, nil)
		return std
	}
}

// First is the first value.
func First(filter Filter) Func {
	return func(values []float64) float64 {
		v := clean(filter, values)
		if len(v) == 0 {
			return math.NaN()
		}
		return v[0]
	}
}

// Last is the last value.
func Last(filter Filter) Func {
	return func(values []float64) float64 {
		v := clean(filter, values)
		if len(v) == 0 {
			return math.NaN()
		}
		return v[len(v)-1]
	}
}

// Difference is max minus min.
func Difference(filter Filter) Func {
	return func(values []float64) float64 {
		v := clean(filter, values)
		if len(v) == 0 {
			return math.NaN()
		}
		return floats.Max(v) - floats.Min(v)
	}
}

// Keep returns the common value when all values are equal, NaN otherwise.
func Keep(filter Filter) Func {
	return func(values []float64) float64 {
		v := clean(filter, values)
		if len(v) == 0 {
			return math.NaN()
		}
		for _, x := range v[1:] {
			if x != v[0] {
				return math.NaN()
			}
		}
		return v[0]
	}
}

// Percentile returns the q-th percentile (0 <= q <= 100) of the values
// using the given interpolation between the two closest ranks.
func Percentile(q float64, interp Interpolation, filter Filter) Func {
	return func(values []float64) float64 {
		v := clean(filter, values)
		if len(v) == 0 {
			return math.NaN()
		}
		sorted := make([]float64, len(v))
		copy(sorted, v)
		sort.Float64s(sorted)
		return percentileOfSorted(sorted, q, interp)
	}
}

// Quantile splits the values into n equal groups and returns the n-1 cut
// points, the percentiles at 100*k/n for k = 1..n-1.
func Quantile(n int, interp Interpolation, filter Filter) func(values []float64) []float64 {
	return func(values []float64) []float64 {
		if n < 2 {
			return nil
		}
		v := clean(filter, values)
		out := make([]float64, 0, n-1)
		if len(v) == 0 {
			for k := 1; k < n; k++ {
				out = append(out, math.NaN())
			}
			return out
		}
		sorted := make([]float64, len(v))
		copy(sorted, v)
		sort.Float64s(sorted)
		for k := 1; k < n; k++ {
			out = append(out, percentileOfSorted(sorted, 100*float64(k)/float64(n), interp))
		}
		return out
	}
}

func percentileOfSorted(v []float64, q float64, interp Interpolation) float64 {
	if q < 0 || q > 100 || math.IsNaN(q) {
		return math.NaN()
	}
	r := q / 100 * float64(len(v)-1)
	i := int(math.Floor(r))
	j := int(math.Ceil(r))
	frac := r - float64(i)

	switch interp {
	case Lower:
		return v[i]
	case Higher:
		return v[j]
	case Nearest:
		if frac < 0.5 {
			return v[i]
		}
		return v[j]
	case Midpoint:
		return (v[i] + v[j]) / 2
	default:
		return v[i] + (v[j]-v[i])*frac
	}
}
