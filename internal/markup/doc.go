// Package markup generates the complete document loaded into the content
// view: a zoom-locked viewport, a measurement-friendly reset stylesheet, the
// merged container styling, the typesetting engine's assets and delimiter
// bootstrap, and the injected height-monitor script.
//
// The typesetting engine is treated as opaque: the document references its
// stylesheet and scripts and hands it the body to scan; the monitor observes
// whatever the engine renders, whenever it renders it.
package markup
