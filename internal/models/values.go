package models

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/spf13/cast"
)

// ToFloat converts a data value to float64. ok is false for nil, non-numeric
// values (strings included), NaN and infinities.
func ToFloat(v interface{}) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		f = cast.ToFloat64(t)
	case json.Number:
		var err error
		if f, err = cast.ToFloat64E(t); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsValid reports whether v is a finite, non-null number.
func IsValid(v interface{}) bool {
	_, ok := ToFloat(v)
	return ok
}

// IsMissing reports whether v is nil or NaN, the values fill repairs.
func IsMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok {
		return math.IsNaN(f)
	}
	if f, ok := v.(float32); ok {
		return math.IsNaN(float64(f))
	}
	return false
}

// ValuesEqual compares field values: missing values are all equal, numbers
// compare by value whatever their type, maps and slices compare element-wise.
func ValuesEqual(a, b interface{}) bool {
	if IsMissing(a) && IsMissing(b) {
		return true
	}
	switch x := a.(type) {
	case map[string]interface{}:
		y, ok := b.(map[string]interface{})
		if !ok {
			return false
		}
		for k, v := range x {
			if !ValuesEqual(v, y[k]) {
				return false
			}
		}
		for k, v := range y {
			if _, ok := x[k]; !ok && !IsMissing(v) {
				return false
			}
		}
		return true
	case []interface{}:
		y, ok := b.([]interface{})
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !ValuesEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	if fa, ok := ToFloat(a); ok {
		fb, ok := ToFloat(b)
		return ok && fa == fb
	}
	if isNumber(a) || isNumber(b) {
		// infinities
		return cast.ToFloat64(a) == cast.ToFloat64(b) && isNumber(a) && isNumber(b)
	}
	return reflect.DeepEqual(a, b)
}

func isNumber(v interface{}) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return true
	}
	return false
}
