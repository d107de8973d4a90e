package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ToInt converts loosely typed values to int.
// Floats are truncated. Strings keep only their digits and a leading minus sign,
// so "1,234km" and "2회" both convert.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint:
		return int(v)
	case uint64:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		f, _ := v.Float64()
		return int(f)
	case string:
		return digits(v)
	case []byte:
		return digits(string(v))
	case nil:
		return 0
	default:
		return digits(fmt.Sprintf("%v", v))
	}
}

// ToIntPtr is ToInt for optional values: nil and non-numeric input stay nil.
func ToIntPtr(val any) *int {
	switch v := val.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(v) {
			return nil
		}
	case string:
		if !strings.ContainsFunc(v, unicode.IsDigit) {
			return nil
		}
	}
	n := ToInt(val)
	return &n
}

// ToString converts various types to string.
// Whole floats print without a fraction so JSON numbers read back as ids.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true", "Y").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, uint, uint64, uint32, float64, json.Number:
		return ToInt(v) == 1
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "1" || s == "true" || s == "y"
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func digits(s string) int {
	var b strings.Builder
	for i, r := range strings.TrimSpace(s) {
		if r == '-' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	n, _ := strconv.Atoi(b.String())
	return n
}
