// Package assets retrieves and caches the typesetting stylesheet and
// scripts so documents can be rendered self-contained, without a network
// dependency at display time.
package assets
