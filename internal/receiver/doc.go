// Package receiver implements the host side of the height-synchronization
// protocol: it validates inbound notifications, applies the minimum-height
// floor, suppresses sub-pixel jitter, and notifies the embedder when the
// displayed height actually changes.
package receiver
