package geometry

import "fmt"

// Dimensions is the intrinsic decoded resolution of a video stream.
type Dimensions struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Valid reports whether both sides are positive.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// AspectRatio returns width/height. It is only meaningful for valid dimensions.
func (d Dimensions) AspectRatio() float64 {
	return float64(d.Width) / float64(d.Height)
}

// Bounds returns the full-frame rectangle {0, 0, Width, Height}.
func (d Dimensions) Bounds() Rect {
	return Rect{Width: d.Width, Height: d.Height}
}

// String returns the dimensions as "WxH".
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

func (d Dimensions) transpose() Dimensions {
	return Dimensions{Width: d.Height, Height: d.Width}
}

// SurfaceSize is the pixel size of the region the video is rendered into.
type SurfaceSize struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Empty reports whether the surface has no drawable area, which is the case
// before the host toolkit has laid it out.
func (s SurfaceSize) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// String returns the size as "WxH".
func (s SurfaceSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func (s SurfaceSize) transpose() SurfaceSize {
	return SurfaceSize{Width: s.Height, Height: s.Width}
}

// Rect is an axis-aligned rectangle in integer pixel coordinates. It is used
// both for annotations in native video space and for their mapped
// counterparts in surface space.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Area returns Width*Height, or 0 for a rectangle with a non-positive side.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Within reports whether r lies inside a width x height area anchored at the
// origin.
func (r Rect) Within(width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && r.Width >= 0 && r.Height >= 0 &&
		r.Right() <= width && r.Bottom() <= height
}

// String returns the rectangle as "{x,y wxh}".
func (r Rect) String() string {
	return fmt.Sprintf("{%d,%d %dx%d}", r.X, r.Y, r.Width, r.Height)
}

func (r Rect) transpose() Rect {
	return Rect{X: r.Y, Y: r.X, Width: r.Height, Height: r.Width}
}

// BorderAxis names the pair of surface edges that receive the bars.
type BorderAxis int

const (
	// BordersNone means no placement was computed (empty surface).
	BordersNone BorderAxis = iota
	// BordersLeftRight is the pillarbox case: the surface is relatively wider
	// than the video and the scale is bound by the surface height.
	BordersLeftRight
	// BordersTopBottom is the letterbox case: the surface is relatively taller
	// than the video (or exactly matches it) and the scale is bound by the
	// surface width.
	BordersTopBottom
)

// String returns the string representation of BorderAxis.
func (a BorderAxis) String() string {
	switch a {
	case BordersNone:
		return "none"
	case BordersLeftRight:
		return "left_right"
	case BordersTopBottom:
		return "top_bottom"
	default:
		return fmt.Sprintf("unknown(%d)", int(a))
	}
}

// LetterboxOffset describes the bars around a contain-fit video.
//
// BorderPixels is the total bar size on Axis, i.e. the surface extent minus
// the truncated scaled video extent.
type LetterboxOffset struct {
	Axis         BorderAxis `json:"axis"`
	BorderPixels int        `json:"border_pixels"`
}

// Leading returns the size of the left (or top) bar.
func (o LetterboxOffset) Leading() int {
	return o.BorderPixels / 2
}

// Trailing returns the size of the right (or bottom) bar. It differs from
// Leading by at most one pixel.
func (o LetterboxOffset) Trailing() int {
	return o.BorderPixels - o.Leading()
}
