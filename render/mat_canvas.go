//go:build gocv

package render

import (
	"image"
	"image/color"

	"github.com/lukasHoel/video-streaming/geometry"
	"github.com/lukasHoel/video-streaming/overlay"
	"gocv.io/x/gocv"
)

// MatCanvas draws overlay rectangles into an OpenCV BGR matrix.
type MatCanvas struct {
	mat *gocv.Mat
}

// NewMatCanvas wraps mat. Drawing modifies mat in place; the caller keeps
// ownership and must Close it.
func NewMatCanvas(mat *gocv.Mat) *MatCanvas {
	return &MatCanvas{mat: mat}
}

// DrawRect implements overlay.Canvas.
func (c *MatCanvas) DrawRect(r geometry.Rect, style overlay.Style) {
	if r.Empty() {
		return
	}
	outer := toImageRect(r)
	clipped := outer.Intersect(image.Rect(0, 0, c.mat.Cols(), c.mat.Rows()))
	if clipped.Empty() {
		return
	}

	if style.Fill.A > 0 {
		region := c.mat.Region(clipped)
		fill := region.Clone()
		gocv.Rectangle(&fill, image.Rect(0, 0, clipped.Dx(), clipped.Dy()), opaque(style.Fill), -1)

		alpha := float64(style.Fill.A) / 255
		gocv.AddWeighted(fill, alpha, region, 1-alpha, 0, &region)

		fill.Close()
		region.Close()
	}

	if style.StrokeWidth > 0 && style.Stroke.A > 0 {
		gocv.Rectangle(c.mat, outer, opaque(style.Stroke), style.StrokeWidth)
	}
}

func opaque(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
