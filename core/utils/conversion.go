package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToInt converts driver scalars to int. Numeric strings are parsed, decimals are
// truncated and anything unparseable yields 0.
func ToInt(val any) int {
	switch v := normalize(val).(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		if !IsNumeric(v) {
			return 0
		}
		return int(parseFloat(v))
	default:
		return 0
	}
}

// ToString renders a scalar the way it would be shown in a report. Nil becomes "".
func ToString(val any) string {
	switch v := normalize(val).(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts flags coming from query strings or tinyint columns.
// It accepts "1", "true", "yes" and "on" (case-insensitive) as true.
func ToBool(val any) bool {
	switch v := normalize(val).(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	default:
		return Truthy(v)
	}
}
