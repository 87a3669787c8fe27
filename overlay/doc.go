// Package overlay keeps an annotation layer pixel-aligned with a native video
// surface.
//
// The Controller decides when the overlay must be redrawn and feeds the
// geometry mapper with fresh readings. It never talks to a concrete player or
// windowing toolkit; hosts adapt their own event types to a few small
// interfaces:
//
//	Player     native video dimensions, playback position, playing state
//	Surface    current pixel size of the video surface
//	Repainter  asynchronous repaint request (toolkit repaint or RenderLoop)
//	Canvas     receives one DrawRect call per visible annotation
//
// # Event Model
//
// Resize and position notifications may arrive on any goroutine (a decoder
// thread, a websocket reader). Their handlers only call
// Repainter.RequestRepaint; all state lives on the render goroutine, which is
// the only caller of Render:
//
//	var ctrl *overlay.Controller
//	loop := overlay.NewRenderLoop(func() error {
//	    return ctrl.Render(canvas)
//	})
//	ctrl, err := overlay.NewController(player, surface, track, loop, overlay.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	go loop.Run(ctx)
//
// If the surface or player also implement ResizeNotifier or
// PositionNotifier, NewController registers its handlers with them.
//
// # Native Dimensions
//
// The player usually cannot report the video size before the stream has
// started. The controller caches the dimensions once known and re-queries
// the player on every render until then, drawing nothing in the meantime.
// If playback is running and the size is still unknown after
// Options.GracePeriod, Render returns a *PlaybackStateError.
//
// # Deterministic Testing
//
// The grace period is measured with a TimeProvider; inject a mock with
// SetTimeProvider.
package overlay
