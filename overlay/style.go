package overlay

import "image/color"

// Style is the drawing policy for mapped annotation rectangles.
type Style struct {
	Stroke      color.NRGBA
	Fill        color.NRGBA
	StrokeWidth int
}

// DefaultStyle returns a green outline with a half-transparent green fill.
func DefaultStyle() Style {
	return Style{
		Stroke:      color.NRGBA{R: 0, G: 255, B: 0, A: 255},
		Fill:        color.NRGBA{R: 0, G: 255, B: 0, A: 128},
		StrokeWidth: 2,
	}
}
