package reducer

import (
	"fmt"
	"strconv"
	"strings"
)

// Interpolation selects how a percentile falling between two ranks is
// resolved.
type Interpolation int

const (
	// Linear interpolates between the two ranks.
	Linear Interpolation = iota
	// Lower takes the lower rank.
	Lower
	// Higher takes the higher rank.
	Higher
	// Nearest takes the closer rank; a fraction of exactly 0.5 takes the
	// higher one.
	Nearest
	// Midpoint averages the two ranks.
	Midpoint
)

var interpolationNames = []string{"linear", "lower", "higher", "nearest", "midpoint"}

func (i Interpolation) String() string {
	if int(i) >= 0 && int(i) < len(interpolationNames) {
		return interpolationNames[i]
	}
	return "unknown"
}

// ParseInterpolation maps a name such as "nearest" to its Interpolation.
func ParseInterpolation(s string) (Interpolation, error) {
	for i, name := range interpolationNames {
		if strings.EqualFold(s, name) {
			return Interpolation(i), nil
		}
	}
	return Linear, fmt.Errorf("invalid interpolation: %s", s)
}

// Names lists the reducer names accepted by ByName, excluding the pNN
// percentile form.
var Names = []string{
	"sum", "count", "avg", "max", "min", "median", "stdev",
	"first", "last", "difference", "keep",
}

// ByName returns the reducer called name, using filter for missing values.
// Besides Names it accepts "pNN" for the NN-th percentile, e.g. "p95" or
// "p99.9", interpolated linearly.
func ByName(name string, filter Filter) (Func, error) {
	switch strings.ToLower(name) {
	case "sum":
		return Sum(filter), nil
	case "count":
		return Count(filter), nil
	case "avg", "mean":
		return Avg(filter), nil
	case "max":
		return Max(filter), nil
	case "min":
		return Min(filter), nil
	case "median":
		return Median(filter), nil
	case "stdev":
		return Stdev(filter), nil
	case "first":
		return First(filter), nil
	case "last":
		return Last(filter), nil
	case "difference":
		return Difference(filter), nil
	case "keep":
		return Keep(filter), nil
	}
	if len(name) > 1 && (name[0] == 'p' || name[0] == 'P') {
		q, err := strconv.ParseFloat(name[1:], 64)
		if err == nil && q >= 0 && q <= 100 {
			return Percentile(q, Linear, filter), nil
		}
	}
	return nil, fmt.Errorf("invalid aggregation: %s", name)
}
