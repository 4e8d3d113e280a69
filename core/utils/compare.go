package utils

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericPattern matches the decimal notations a database driver or a user may
// hand us as text: "42", " -1.5", "3e2", ".5 ".
var numericPattern = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`)

// integerPattern matches numeric text without a fraction or exponent.
var integerPattern = regexp.MustCompile(`^\s*[+-]?\d+\s*$`)

// LooseEqual compares two scalar values the way a dynamically typed store sees
// them: numeric strings equal numbers of the same value, nil equals the zero
// value of strings/numbers/bools, and bools compare by truthiness.
//
//	LooseEqual("1", 1)     // true
//	LooseEqual("1.0", "1") // true
//	LooseEqual(nil, "")    // true
//	LooseEqual("abc", 0)   // false
func LooseEqual(a, b any) bool {
	a = normalize(a)
	b = normalize(b)

	if a == nil && b == nil {
		return true
	}

	// Bool against anything compares truthiness.
	if ab, ok := a.(bool); ok {
		return ab == Truthy(b)
	}
	if bb, ok := b.(bool); ok {
		return bb == Truthy(a)
	}

	if a == nil {
		return nullEqual(b)
	}
	if b == nil {
		return nullEqual(a)
	}

	_, aNum := a.(float64)
	_, bNum := b.(float64)
	ai, aInt := a.(int64)
	bi, bInt := b.(int64)

	switch {
	case aInt && bInt:
		return ai == bi
	case (aInt || aNum) && (bInt || bNum):
		return asFloat(a) == asFloat(b)
	}

	as, aStr := a.(string)
	bs, bStr := b.(string)

	switch {
	case aStr && bStr:
		if ax, ok := parseInteger(as); ok {
			if bx, ok := parseInteger(bs); ok {
				return ax.Cmp(bx) == 0
			}
		}
		if IsNumeric(as) && IsNumeric(bs) {
			return parseFloat(as) == parseFloat(bs)
		}
		return as == bs
	case aStr && (bInt || bNum):
		return stringNumberEqual(as, b)
	case bStr && (aInt || aNum):
		return stringNumberEqual(bs, a)
	}

	if reflect.DeepEqual(a, b) {
		return true
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// IsNumeric reports whether s is a decimal number, surrounding whitespace allowed.
func IsNumeric(s string) bool {
	return numericPattern.MatchString(s)
}

// Truthy reports whether a value counts as true: non-empty strings other than
// "0", non-zero numbers and true.
func Truthy(val any) bool {
	switch v := normalize(val).(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != "" && v != "0"
	default:
		return true
	}
}

// normalize folds driver-specific scalar types onto int64, float64, string, bool or nil.
func normalize(val any) any {
	switch v := val.(type) {
	case nil:
		return nil
	case []byte:
		if v == nil {
			return nil
		}
		return string(v)
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return uintToNumber(uint64(v))
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return uintToNumber(v)
	case float32:
		return float64(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case *string:
		if v == nil {
			return nil
		}
		return *v
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(val)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	return val
}

func uintToNumber(v uint64) any {
	if v > math.MaxInt64 {
		return float64(v)
	}
	return int64(v)
}

func nullEqual(val any) bool {
	switch v := val.(type) {
	case string:
		return v == ""
	case int64:
		return v == 0
	case float64:
		return v == 0
	default:
		return false
	}
}

func stringNumberEqual(s string, n any) bool {
	if i, ok := n.(int64); ok {
		if x, ok := parseInteger(s); ok {
			return x.Cmp(big.NewInt(i)) == 0
		}
	}
	if IsNumeric(s) {
		return parseFloat(s) == asFloat(n)
	}
	return s == numberString(n)
}

func numberString(n any) string {
	switch v := n.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asFloat(n any) float64 {
	switch v := n.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		return math.NaN()
	}
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// parseInteger parses integer-shaped text exactly, whatever its magnitude.
func parseInteger(s string) (*big.Int, bool) {
	if !integerPattern.MatchString(s) {
		return nil, false
	}
	return new(big.Int).SetString(strings.TrimSpace(s), 10)
}
