// Package mathview sizes a frame around sandboxed, self-measuring math
// content. A generated document typesets LaTeX and runs an injected monitor
// that reports its rendered height over a bridge; the host side validates,
// floors, and applies those reports so the embedding frame always matches
// the content.
//
// The typical flow:
//
//	v := mathview.New(mathview.Options{
//		Source:         "Solve $x^2 - 2 = 0$.",
//		OnHeightChange: func(h float64) { resize(h) },
//	})
//	if err := v.Mount(ctx); err != nil { ... }
//	defer v.Unmount()
//	html, err := v.HTML() // load this into the content view
//
// The document posts height notifications to v.Bridge(); v.Height() and
// v.ContainerStyle() reflect the applied value.
package mathview
