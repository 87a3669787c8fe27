// Package geometry maps annotation rectangles from native video pixel space
// onto a resized video surface.
//
// The external player always shows the video "contain-fit": the largest
// size that keeps the video's aspect ratio and fits inside the surface,
// centered. Whatever is left over becomes black bars, either left/right
// (pillarbox) or top/bottom (letterbox). Map reproduces that placement for
// a single rectangle:
//
//	native := geometry.Dimensions{Width: 1920, Height: 1080}
//	surface := geometry.SurfaceSize{Width: 1000, Height: 500}
//
//	mapped, err := geometry.Map(geometry.Rect{X: 1000, Y: 500, Width: 200, Height: 100}, native, surface)
//	if err != nil {
//	    return fmt.Errorf("mapping failed: %w", err)
//	}
//	// mapped == Rect{X: 518, Y: 231, Width: 92, Height: 46}
//
// # Arithmetic
//
// Scale factors use float64 division. Every output field is truncated toward
// zero independently, which keeps results reproducible against reference
// outputs. The scaled video extent is truncated before the border is taken,
// and half of that integer border is added to the offset, so the two bars of
// the full frame differ by at most one pixel and match Letterbox. Pillarbox and letterbox placement share one implementation: the
// letterbox case is the pillarbox case with both axes transposed, so the two
// agree exactly when the surface and the video have the same aspect ratio.
//
// # Degenerate Input
//
// Native dimensions with a non-positive side are a caller bug and yield
// ErrInvalidState. A surface with a non-positive side (not laid out yet) is
// legal and maps every rectangle to the zero Rect.
//
// # Thread Safety
//
// Everything in this package is a pure function over value types and is safe
// for concurrent use.
package geometry
