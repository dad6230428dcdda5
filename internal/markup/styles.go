package markup

import (
	"sort"
	"strings"
)

// DefaultContainerStyle returns the baseline styling for the outer wrapper.
// Caller entries override these key by key.
func DefaultContainerStyle() map[string]string {
	return map[string]string{
		"font-family":      `-apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif`,
		"font-size":        "16px",
		"line-height":      "1.6",
		"padding":          "8px",
		"background-color": "transparent",
		"color":            "#000",
	}
}

// Merge overlays override entries onto base without mutating either.
func Merge(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// InlineCSS renders a style map as a declaration block with deterministic
// ordering.
func InlineCSS(style map[string]string) string {
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(style[k])
		b.WriteString(";\n")
	}
	return b.String()
}
