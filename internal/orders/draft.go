package orders

import (
	"strconv"
	"strings"
	"time"
)

// Drafts arrive as decoded JSON in whatever shape the channel produced:
// the flat legacy layout (subtotal, customerName, paymentMethod at top
// level), the nested canonical one (totals, customerSnapshot), or a mix.
// The helpers below resolve fields through ordered accessor chains where
// the first defined value wins, and coerce scalars without ever failing.

// pick walks the given dotted paths ("totals.subtotal") in order and
// returns the first value that is present and non-nil.
func pick(m map[string]any, paths ...string) (any, bool) {
	for _, path := range paths {
		cur := any(m)
		found := true
		for _, part := range strings.Split(path, ".") {
			obj, ok := cur.(map[string]any)
			if !ok {
				found = false
				break
			}
			next, ok := obj[part]
			if !ok || next == nil {
				found = false
				break
			}
			cur = next
		}
		if found {
			return cur, true
		}
	}
	return nil, false
}

// num coerces like JavaScript's Number(x) || 0: numbers pass through,
// numeric strings parse, everything else (including NaN) becomes 0.
func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return parsed
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// str returns v as a trimmed string, or "" when it is not one.
func str(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func pickNum(m map[string]any, paths ...string) float64 {
	v, ok := pick(m, paths...)
	if !ok {
		return 0
	}
	return num(v)
}

func pickStr(m map[string]any, paths ...string) string {
	for _, path := range paths {
		if v, ok := pick(m, path); ok {
			if s := str(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func pickBool(m map[string]any, paths ...string) bool {
	v, ok := pick(m, paths...)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// parseTime accepts RFC3339 strings or time.Time values; the zero time
// signals "absent" to the caller.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
