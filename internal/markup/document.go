package markup

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/microcosm-cc/bluemonday"
)

// Options configure document generation.
type Options struct {
	// ContainerStyle overrides the default outer-wrapper styling key by key.
	ContainerStyle map[string]string
	// MathStyle is appended to the inner container that holds typeset output.
	MathStyle map[string]string
	// KatexBase locates the typesetting engine's stylesheet and scripts.
	KatexBase string
	// MonitorScript is the rendered height-monitor source. Empty omits it.
	MonitorScript string
	// BridgeEndpoint, when set, installs a WebSocket-backed MathViewBridge
	// pointing at the host's ingest endpoint.
	BridgeEndpoint string
	// Sanitize runs the body through an HTML sanitizer before embedding.
	Sanitize bool
	// Inline embeds engine assets directly instead of referencing KatexBase.
	Inline *InlineAssets
}

// InlineAssets carries fetched engine assets for offline documents.
type InlineAssets struct {
	CSS     string
	Scripts []string
}

// resetCSS flattens user-agent differences that would skew measurement.
const resetCSS = `html, body {
  margin: 0;
  padding: 0;
  border: 0;
}
* {
  box-sizing: border-box;
}`

var docTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0, maximum-scale=1.0, user-scalable=no">
<style>
{{.ResetCSS}}
#mathview-container {
{{.ContainerCSS}}}
#mathview-content {
{{.ContentCSS}}}
</style>
{{if .InlineCSS}}<style>
{{.InlineCSS}}
</style>
{{else}}<link rel="stylesheet" href="{{.KatexBase}}/katex.min.css">
{{end}}{{if .InlineScripts}}{{range .InlineScripts}}<script>
{{.}}
</script>
{{end}}{{else}}<script src="{{.KatexBase}}/katex.min.js"></script>
<script src="{{.KatexBase}}/contrib/auto-render.min.js"></script>
{{end}}</head>
<body>
<div id="mathview-container">
<div id="mathview-content">{{.Body}}</div>
</div>
{{if .BridgeScript}}<script>
{{.BridgeScript}}
</script>
{{end}}<script>
{{.InitScript}}
</script>
{{if .MonitorScript}}<script>
{{.MonitorScript}}
</script>
{{end}}</body>
</html>
`))

type documentData struct {
	ResetCSS      string
	ContainerCSS  string
	ContentCSS    string
	KatexBase     string
	InlineCSS     string
	InlineScripts []string
	Body          string
	BridgeScript  string
	InitScript    string
	MonitorScript string
}

// Document produces a complete markup document for the content view: viewport
// and reset rules, merged container styling, typesetting assets and
// bootstrap, and the injected height monitor.
func Document(body string, opts Options) (string, error) {
	if opts.KatexBase == "" && opts.Inline == nil {
		return "", fmt.Errorf("katex asset base is required")
	}

	if opts.Sanitize {
		body = bluemonday.UGCPolicy().Sanitize(body)
	}

	contentStyle := Merge(map[string]string{
		"word-wrap":     "break-word",
		"overflow-wrap": "break-word",
		"overflow-x":    "hidden",
	}, opts.MathStyle)

	var bridgeScript string
	if opts.BridgeEndpoint != "" {
		bridgeScript = bridgeAdapter(opts.BridgeEndpoint)
	}

	data := documentData{
		ResetCSS:      resetCSS,
		ContainerCSS:  InlineCSS(Merge(DefaultContainerStyle(), opts.ContainerStyle)),
		ContentCSS:    InlineCSS(contentStyle),
		KatexBase:     strings.TrimRight(opts.KatexBase, "/"),
		Body:          body,
		BridgeScript:  bridgeScript,
		InitScript:    initScript(),
		MonitorScript: opts.MonitorScript,
	}
	if opts.Inline != nil {
		data.InlineCSS = opts.Inline.CSS
		data.InlineScripts = opts.Inline.Scripts
	}

	var b strings.Builder
	err := docTemplate.Execute(&b, data)
	if err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return b.String(), nil
}
