package overlay

import (
	"time"

	"github.com/lukasHoel/video-streaming/annotation"
	"github.com/lukasHoel/video-streaming/geometry"
)

// Player is the read side of the external media player.
//
// All methods are called from the render goroutine and must return cached
// state without blocking.
type Player interface {
	// NativeDimensions returns the decoded video size, or false while the
	// player does not know it yet.
	NativeDimensions() (geometry.Dimensions, bool)
	// Position returns the current playback position.
	Position() time.Duration
	// IsPlaying reports whether playback has started and is not stopped.
	IsPlaying() bool
}

// Surface is the region of the host window the video is rendered into.
type Surface interface {
	// SurfaceSize returns the current pixel size of the surface.
	SurfaceSize() geometry.SurfaceSize
}

// Repainter requests an asynchronous redraw. It must be safe to call from
// any goroutine and must not block.
type Repainter interface {
	RequestRepaint()
}

// Canvas receives render instructions in surface pixel coordinates.
type Canvas interface {
	DrawRect(r geometry.Rect, style Style)
}

// Annotations supplies the rectangles visible at a playback position.
type Annotations interface {
	Active(pos time.Duration) []annotation.Annotation
}

// ResizeNotifier is implemented by surfaces that can report size changes of
// themselves or of their owning window.
type ResizeNotifier interface {
	OnSurfaceOrOwnerResized(callback func())
}

// PositionNotifier is implemented by players that report playback progress.
type PositionNotifier interface {
	OnPlaybackPositionChanged(callback func(pos time.Duration))
}
