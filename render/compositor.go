package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lukasHoel/video-streaming/geometry"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNilFrame indicates a nil source frame.
	ErrNilFrame = errors.New("source frame cannot be nil")
	// ErrEmptySurface indicates a surface with no drawable area.
	ErrEmptySurface = errors.New("surface has no drawable area")
)

// Compositor scales decoded frames onto a surface with contain-fit
// placement, leaving bars in the background color.
//
// The content area is the full frame passed through geometry.Map, so video
// pixels and mapped annotation rectangles always agree.
type Compositor struct {
	// Background fills the bars.
	Background color.Color
}

// NewCompositor creates a compositor with black bars.
func NewCompositor() *Compositor {
	return &Compositor{Background: color.Black}
}

// Fit scales frame into a new surface-sized image using bilinear
// interpolation.
//
// Parameters:
//   - frame: Decoded source frame; its bounds are the native dimensions
//   - surface: Target surface size
//
// Returns:
//   - *image.RGBA: Surface-sized image with the frame placed contain-fit
//   - geometry.Rect: Content area inside the surface
//   - error: ErrNilFrame, ErrEmptySurface or a mapping error
func (c *Compositor) Fit(frame image.Image, surface geometry.SurfaceSize) (*image.RGBA, geometry.Rect, error) {
	if frame == nil {
		return nil, geometry.Rect{}, ErrNilFrame
	}
	if surface.Empty() {
		return nil, geometry.Rect{}, fmt.Errorf("%w: %s", ErrEmptySurface, surface)
	}

	b := frame.Bounds()
	native := geometry.Dimensions{Width: b.Dx(), Height: b.Dy()}
	content, err := geometry.Map(native.Bounds(), native, surface)
	if err != nil {
		return nil, geometry.Rect{}, fmt.Errorf("place frame: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, surface.Width, surface.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.background()), image.Point{}, draw.Src)

	src := toRGBA(frame)
	if content.Width == native.Width && content.Height == native.Height {
		draw.Draw(dst, toImageRect(content), src, src.Bounds().Min, draw.Src)
	} else {
		scaleBilinear(src, dst, toImageRect(content))
	}

	logrus.WithFields(logrus.Fields{
		"function": "Compositor.Fit",
		"native":   native,
		"surface":  surface,
		"content":  content,
	}).Trace("Frame composited")

	return dst, content, nil
}

func (c *Compositor) background() color.Color {
	if c.Background == nil {
		return color.Black
	}
	return c.Background
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// scaleBilinear scales all of src into the region r of dst.
func scaleBilinear(src, dst *image.RGBA, r image.Rectangle) {
	sb := src.Bounds()
	srcWidth, srcHeight := sb.Dx(), sb.Dy()
	dstWidth, dstHeight := r.Dx(), r.Dy()
	if srcWidth == 0 || srcHeight == 0 || dstWidth <= 0 || dstHeight <= 0 {
		return
	}

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for y := 0; y < dstHeight; y++ {
		srcY := float64(y) * yRatio
		y1 := int(srcY)
		y2 := y1 + 1
		if y2 >= srcHeight {
			y2 = srcHeight - 1
		}
		fy := srcY - float64(y1)

		for x := 0; x < dstWidth; x++ {
			srcX := float64(x) * xRatio
			x1 := int(srcX)
			x2 := x1 + 1
			if x2 >= srcWidth {
				x2 = srcWidth - 1
			}
			fx := srcX - float64(x1)

			p11 := src.PixOffset(sb.Min.X+x1, sb.Min.Y+y1)
			p12 := src.PixOffset(sb.Min.X+x2, sb.Min.Y+y1)
			p21 := src.PixOffset(sb.Min.X+x1, sb.Min.Y+y2)
			p22 := src.PixOffset(sb.Min.X+x2, sb.Min.Y+y2)
			out := dst.PixOffset(r.Min.X+x, r.Min.Y+y)

			for ch := 0; ch < 4; ch++ {
				top := float64(src.Pix[p11+ch])*(1-fx) + float64(src.Pix[p12+ch])*fx
				bottom := float64(src.Pix[p21+ch])*(1-fx) + float64(src.Pix[p22+ch])*fx
				dst.Pix[out+ch] = byte(top*(1-fy) + bottom*fy + 0.5)
			}
		}
	}
}
