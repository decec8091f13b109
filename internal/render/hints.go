// Package render models the two signals repkit consumes from the
// document-rendering environment: chunk-level size hints for drawing
// artifacts, and whether the current session is interactive.
package render

// Default chunk dimensions, used when neither the variant nor the exporter
// supplies a value.
const (
	DefaultWidth  = 7.0
	DefaultHeight = 5.0
	DefaultDPI    = 300
)

// Hints carries the size and resolution defaults a rendering engine supplies
// per chunk. Zero fields mean "not set" and fall through to the next level:
// variant hints, then exporter hints, then package defaults.
type Hints struct {
	Width  float64 // inches
	Height float64 // inches
	DPI    int
}

// Merge fills any unset field of h from fallback.
func (h Hints) Merge(fallback Hints) Hints {
	if h.Width == 0 {
		h.Width = fallback.Width
	}
	if h.Height == 0 {
		h.Height = fallback.Height
	}
	if h.DPI == 0 {
		h.DPI = fallback.DPI
	}
	return h
}

// Complete resolves all unset fields to the package defaults.
func (h Hints) Complete() Hints {
	return h.Merge(Hints{Width: DefaultWidth, Height: DefaultHeight, DPI: DefaultDPI})
}
