// Package render provides overlay.Canvas implementations that draw mapped
// annotation rectangles into pixel buffers, plus a Compositor that places a
// decoded frame onto a surface the same contain-fit way the player does.
//
// FrameCanvas draws into an *image.RGBA and has no external requirements.
// MatCanvas draws into a gocv.Mat and is only built with the gocv tag:
//
//	go build -tags gocv ./...
//
// A typical offline render combines both halves so that the video pixels and
// the overlay come from the same geometry:
//
//	surface := geometry.SurfaceSize{Width: 1000, Height: 500}
//	frame, _, err := render.NewCompositor().Fit(decoded, surface)
//	if err != nil {
//		return err
//	}
//	err = ctrl.Render(render.NewFrameCanvas(frame))
package render
