package mathview

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// NormalizeContainerStyle returns a copy of style with border-width entries
// given as numeric strings coerced to numbers. Callers assembling styles
// from loosely typed sources routinely pass "2" where 2 is meant, and a
// string width silently breaks frame layout.
func NormalizeContainerStyle(style map[string]any) map[string]any {
	if style == nil {
		return nil
	}

	out := make(map[string]any, len(style))
	for k, v := range style {
		if isBorderWidthKey(k) {
			if s, ok := v.(string); ok {
				if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
					out[k] = f
					continue
				}
			}
		}
		out[k] = v
	}
	return out
}

// isBorderWidthKey matches borderWidth and its per-edge variants
// (borderTopWidth, border-left-width, ...).
func isBorderWidthKey(key string) bool {
	lower := strings.ToLower(strings.ReplaceAll(key, "-", ""))
	return strings.HasPrefix(lower, "border") && strings.HasSuffix(lower, "width")
}

// cssStyle converts a host-facing style map into CSS declarations: camelCase
// keys become kebab-case and bare numbers gain a px unit.
func cssStyle(style map[string]any) map[string]string {
	if len(style) == 0 {
		return nil
	}

	out := make(map[string]string, len(style))
	for k, v := range style {
		out[cssKey(k)] = cssValue(v)
	}
	return out
}

func cssKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func cssValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64) + "px"
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32) + "px"
	case int:
		return strconv.Itoa(t) + "px"
	case int64:
		return strconv.FormatInt(t, 10) + "px"
	default:
		return fmt.Sprint(t)
	}
}
