package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/lukasHoel/video-streaming/geometry"
	"github.com/lukasHoel/video-streaming/overlay"
)

// FrameCanvas draws overlay rectangles into an RGBA frame.
//
// Rectangles are clipped to the frame. The fill is alpha composited over the
// existing pixels, then an outline of Style.StrokeWidth pixels is drawn on
// the inside of the rectangle.
type FrameCanvas struct {
	img *image.RGBA
}

// NewFrameCanvas wraps img. Drawing modifies img in place.
func NewFrameCanvas(img *image.RGBA) *FrameCanvas {
	return &FrameCanvas{img: img}
}

// Image returns the underlying frame.
func (c *FrameCanvas) Image() *image.RGBA {
	return c.img
}

// Clear fills the whole frame with col.
func (c *FrameCanvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// DrawRect implements overlay.Canvas.
func (c *FrameCanvas) DrawRect(r geometry.Rect, style overlay.Style) {
	if r.Empty() {
		return
	}
	outer := toImageRect(r)

	if style.Fill.A > 0 {
		c.blend(outer, style.Fill)
	}

	sw := style.StrokeWidth
	if sw <= 0 || style.Stroke.A == 0 {
		return
	}
	if 2*sw >= r.Width || 2*sw >= r.Height {
		c.blend(outer, style.Stroke)
		return
	}

	// top and bottom bands span the full width; the side bands fill the gap
	// between them so corners are only painted once
	c.blend(image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, outer.Min.Y+sw), style.Stroke)
	c.blend(image.Rect(outer.Min.X, outer.Max.Y-sw, outer.Max.X, outer.Max.Y), style.Stroke)
	c.blend(image.Rect(outer.Min.X, outer.Min.Y+sw, outer.Min.X+sw, outer.Max.Y-sw), style.Stroke)
	c.blend(image.Rect(outer.Max.X-sw, outer.Min.Y+sw, outer.Max.X, outer.Max.Y-sw), style.Stroke)
}

func (c *FrameCanvas) blend(r image.Rectangle, col color.NRGBA) {
	r = r.Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

func toImageRect(r geometry.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}
