/*
Package script embeds and renders the height-monitor script injected into the
sandboxed content view.

The monitor is the content-side half of the height-synchronization protocol.
It combines several measurement strategies (scrollable extent, layout extent,
visible extent, bounding boxes, an optional full-subtree sweep, and a
typeset-output scan that inspects stacked sub-structures), debounces
measurement triggers into one evaluation per settling window, gates emission
on a significance threshold against the last sent value, and posts accepted
heights through window.MathViewBridge as JSON.

Two documented design choices, made once instead of carrying diverging code
paths: a fixed trailing-edge debounce (predictable latency over paint-frame
recency) and the full-subtree sweep enabled by default (coverage of
absolutely positioned content over the extra per-trigger cost; the sweep is
bounded by the settling window, not per-frame).
*/
package script
