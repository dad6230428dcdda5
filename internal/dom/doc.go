// Package dom provides a lightweight element tree that carries layout
// metrics (scroll/offset/client heights and bounding boxes) for the script
// runtime to measure against.
//
// The tree performs no layout of its own. Documents are built with Parse
// from markup or assembled programmatically; the embedding layer (or a test)
// assigns metrics, and every metric or structural change is dispatched to
// subscribers so observer shims in the runtime can react the way
// ResizeObserver and MutationObserver would in a real content view.
package dom
