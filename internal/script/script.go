package script

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/glyphcast/mathview/internal/config"
)

//go:embed monitor.js.tmpl
var monitorTemplate string

var tmpl = template.Must(template.New("monitor").Parse(monitorTemplate))

// Options parameterize the generated monitor script.
type Options struct {
	Threshold  float64 // minimum delta between emitted heights, px
	DebounceMS int     // trigger coalescing window
	BufferPX   float64 // growth buffer added to the first measurement
	DelaysMS   []int   // staggered recheck schedule after load
	RescanMS   int     // delay before re-attaching observers to typeset nodes
	FullScan   bool    // per-node max-bottom sweep
}

// FromConfig builds script options from monitor configuration.
func FromConfig(cfg config.MonitorConfig) Options {
	return Options{
		Threshold:  cfg.ThresholdPX,
		DebounceMS: cfg.DebounceMS,
		BufferPX:   cfg.GrowthBufferPX,
		DelaysMS:   cfg.RecheckDelaysMS,
		RescanMS:   250,
		FullScan:   cfg.FullScan,
	}
}

// Default returns the standard monitor options.
func Default() Options {
	return FromConfig(config.Default().Monitor)
}

type templateData struct {
	Threshold  string
	DebounceMS int
	BufferPX   string
	DelaysJS   string
	RescanMS   int
	FullScan   bool
}

// Render produces the concrete monitor script for injection into a loaded
// document.
func Render(opts Options) (string, error) {
	if opts.DebounceMS <= 0 {
		opts.DebounceMS = 150
	}
	if opts.RescanMS <= 0 {
		opts.RescanMS = 250
	}

	var b strings.Builder
	err := tmpl.Execute(&b, templateData{
		Threshold:  formatNumber(opts.Threshold),
		DebounceMS: opts.DebounceMS,
		BufferPX:   formatNumber(opts.BufferPX),
		DelaysJS:   delaysLiteral(opts.DelaysMS),
		RescanMS:   opts.RescanMS,
		FullScan:   opts.FullScan,
	})
	if err != nil {
		return "", fmt.Errorf("render monitor script: %w", err)
	}
	return b.String(), nil
}

// delaysLiteral renders the recheck schedule as a JS array literal.
func delaysLiteral(delays []int) string {
	parts := make([]string, len(delays))
	for i, d := range delays {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
