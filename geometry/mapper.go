package geometry

import "fmt"

// Map converts rect from native video coordinates into the coordinates of a
// surface that shows the video contain-fit and centered.
//
// Parameters:
//   - rect: Annotation rectangle in native video pixels
//   - native: Native video dimensions (both sides must be positive)
//   - surface: Current surface pixel size (may be empty)
//
// Returns:
//   - Rect: Mapped rectangle in surface pixels; the zero Rect for an empty surface
//   - error: ErrInvalidState if native has a non-positive side
func Map(rect Rect, native Dimensions, surface SurfaceSize) (Rect, error) {
	if !native.Valid() {
		return Rect{}, fmt.Errorf("%w: got %s", ErrInvalidState, native)
	}
	if surface.Empty() {
		return Rect{}, nil
	}
	return place(rect, native, surface, bordersFor(native, surface)), nil
}

// MapAll maps every rectangle in rects with the same native dimensions and
// surface size.
func MapAll(rects []Rect, native Dimensions, surface SurfaceSize) ([]Rect, error) {
	if !native.Valid() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidState, native)
	}
	mapped := make([]Rect, len(rects))
	if surface.Empty() {
		return mapped, nil
	}
	axis := bordersFor(native, surface)
	for i, r := range rects {
		mapped[i] = place(r, native, surface, axis)
	}
	return mapped, nil
}

// Letterbox returns the bars the player leaves around the video on the
// given surface.
func Letterbox(native Dimensions, surface SurfaceSize) (LetterboxOffset, error) {
	if !native.Valid() {
		return LetterboxOffset{}, fmt.Errorf("%w: got %s", ErrInvalidState, native)
	}
	if surface.Empty() {
		return LetterboxOffset{Axis: BordersNone}, nil
	}

	axis := bordersFor(native, surface)
	if axis == BordersTopBottom {
		native, surface = native.transpose(), surface.transpose()
	}
	scaled := scaledExtent(native, surface)
	return LetterboxOffset{
		Axis:         axis,
		BorderPixels: surface.Width - int(scaled),
	}, nil
}

// bordersFor picks pillarbox when the surface is relatively wider than the
// video and letterbox otherwise. Equal ratios fall into the letterbox branch
// with a zero border.
func bordersFor(native Dimensions, surface SurfaceSize) BorderAxis {
	aspectRatio := native.AspectRatio()
	surfaceRatio := float64(surface.Width) / float64(surface.Height)
	if surfaceRatio > aspectRatio {
		return BordersLeftRight
	}
	return BordersTopBottom
}

// place is the single contain-fit algorithm. It is written for the
// pillarbox case; letterbox transposes its inputs and output.
//
// The height axis is bound: it scales by surface.Height/native.Height. The
// width axis scales by the truncated scaledWidth/native.Width and is shifted
// right by half of the integer border, so both bars of the full frame are
// within one pixel of each other and agree with Letterbox.
func place(rect Rect, native Dimensions, surface SurfaceSize, axis BorderAxis) Rect {
	if axis == BordersTopBottom {
		return place(rect.transpose(), native.transpose(), surface.transpose(), BordersLeftRight).transpose()
	}

	scaledWidth := int(scaledExtent(native, surface))
	borderPixels := surface.Width - scaledWidth

	return Rect{
		X:      int(float64(rect.X)*float64(scaledWidth)/float64(native.Width)) + borderPixels/2,
		Y:      int(float64(rect.Y) * float64(surface.Height) / float64(native.Height)),
		Width:  int(float64(rect.Width) * float64(scaledWidth) / float64(native.Width)),
		Height: int(float64(rect.Height) * float64(surface.Height) / float64(native.Height)),
	}
}

// scaledExtent is aspectRatio*surface.Height, evaluated as a single division
// of exact integer products so that equal aspect ratios yield exactly
// surface.Width.
func scaledExtent(native Dimensions, surface SurfaceSize) float64 {
	return float64(native.Width) * float64(surface.Height) / float64(native.Height)
}
