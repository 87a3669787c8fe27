package overlay

import (
	"fmt"
	"time"

	"github.com/lukasHoel/video-streaming/geometry"
	"github.com/sirupsen/logrus"
)

// DefaultGracePeriod is how long playback may run without native video
// dimensions before Render reports a PlaybackStateError.
const DefaultGracePeriod = 5 * time.Second

// Options configures a Controller.
type Options struct {
	// GracePeriod before missing dimensions during playback become an
	// error. Zero disables the check.
	GracePeriod time.Duration
	// Style is passed to Canvas.DrawRect for every annotation.
	Style Style
}

// DefaultOptions returns the default controller options.
func DefaultOptions() *Options {
	return &Options{
		GracePeriod: DefaultGracePeriod,
		Style:       DefaultStyle(),
	}
}

// Controller synchronizes the overlay with the video surface.
//
// The On* handlers may be called from any goroutine. Render, NativeDimensions
// and SetTimeProvider belong to the render goroutine.
type Controller struct {
	player      Player
	surface     Surface
	annotations Annotations
	repainter   Repainter
	options     Options

	// render goroutine state
	native       geometry.Dimensions
	haveNative   bool
	waitingSince time.Time
	reported     bool
	timeProvider TimeProvider
}

// NewController creates a controller and registers its handlers with the
// player and surface when they provide subscription points.
//
// Parameters:
//   - player: Media player read access
//   - surface: Video surface size access
//   - annotations: Source of active annotations
//   - repainter: Receives repaint requests from the On* handlers
//   - options: Controller options (nil uses DefaultOptions())
//
// Returns:
//   - *Controller: New controller
//   - error: ErrNilCollaborator if a collaborator is missing
func NewController(player Player, surface Surface, annotations Annotations, repainter Repainter, options *Options) (*Controller, error) {
	switch {
	case player == nil:
		return nil, fmt.Errorf("player: %w", ErrNilCollaborator)
	case surface == nil:
		return nil, fmt.Errorf("surface: %w", ErrNilCollaborator)
	case annotations == nil:
		return nil, fmt.Errorf("annotations: %w", ErrNilCollaborator)
	case repainter == nil:
		return nil, fmt.Errorf("repainter: %w", ErrNilCollaborator)
	}
	if options == nil {
		options = DefaultOptions()
	}

	c := &Controller{
		player:       player,
		surface:      surface,
		annotations:  annotations,
		repainter:    repainter,
		options:      *options,
		timeProvider: DefaultTimeProvider{},
	}

	resizes, resizeSubscribed := surface.(ResizeNotifier)
	if resizeSubscribed {
		resizes.OnSurfaceOrOwnerResized(c.OnSurfaceResized)
	}
	positions, positionSubscribed := player.(PositionNotifier)
	if positionSubscribed {
		positions.OnPlaybackPositionChanged(c.OnPlaybackPositionChanged)
	}

	logrus.WithFields(logrus.Fields{
		"function":            "NewController",
		"grace_period":        c.options.GracePeriod,
		"resize_subscribed":   resizeSubscribed,
		"position_subscribed": positionSubscribed,
	}).Info("Overlay controller created")

	return c, nil
}

// SetTimeProvider sets the time provider used for the grace period.
func (c *Controller) SetTimeProvider(tp TimeProvider) {
	if tp == nil {
		tp = DefaultTimeProvider{}
	}
	c.timeProvider = tp
}

// OnSurfaceResized handles a size change of the video surface.
func (c *Controller) OnSurfaceResized() {
	logrus.WithField("function", "OnSurfaceResized").Debug("Requesting overlay repaint")
	c.repainter.RequestRepaint()
}

// OnOwnerResized handles a size change of the window owning the surface.
func (c *Controller) OnOwnerResized() {
	logrus.WithField("function", "OnOwnerResized").Debug("Requesting overlay repaint")
	c.repainter.RequestRepaint()
}

// OnPlaybackPositionChanged handles a playback time advance. Time-coded
// annotations are picked up by the following Render.
func (c *Controller) OnPlaybackPositionChanged(pos time.Duration) {
	logrus.WithFields(logrus.Fields{
		"function": "OnPlaybackPositionChanged",
		"position": pos,
	}).Trace("Requesting overlay repaint")
	c.repainter.RequestRepaint()
}

// NativeDimensions returns the cached native video dimensions.
func (c *Controller) NativeDimensions() (geometry.Dimensions, bool) {
	return c.native, c.haveNative
}

// Render draws every active annotation onto canvas.
//
// Nothing is drawn while the native video dimensions are unknown; that is
// not an error until playback has run longer than the grace period.
func (c *Controller) Render(canvas Canvas) error {
	native, ok := c.refreshNativeDimensions()
	if !ok {
		return c.checkGracePeriod()
	}
	c.resetGracePeriod()

	surface := c.surface.SurfaceSize()
	pos := c.player.Position()
	active := c.annotations.Active(pos)

	for _, a := range active {
		mapped, err := geometry.Map(a.Rect, native, surface)
		if err != nil {
			return fmt.Errorf("map annotation %s: %w", a.ID, err)
		}
		canvas.DrawRect(mapped, c.options.Style)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Render",
		"native":      native,
		"surface":     surface,
		"position":    pos,
		"annotations": len(active),
	}).Trace("Overlay rendered")

	return nil
}

// refreshNativeDimensions returns the cached dimensions, querying the player
// until it reports a usable size.
func (c *Controller) refreshNativeDimensions() (geometry.Dimensions, bool) {
	if c.haveNative {
		return c.native, true
	}

	dims, ok := c.player.NativeDimensions()
	if !ok || !dims.Valid() {
		return geometry.Dimensions{}, false
	}

	c.native = dims
	c.haveNative = true

	logrus.WithFields(logrus.Fields{
		"function": "refreshNativeDimensions",
		"native":   dims,
	}).Info("Native video dimensions available")

	return dims, true
}

func (c *Controller) checkGracePeriod() error {
	if c.options.GracePeriod <= 0 || !c.player.IsPlaying() {
		c.resetGracePeriod()
		return nil
	}

	if c.waitingSince.IsZero() {
		c.waitingSince = c.timeProvider.Now()
		return nil
	}

	waited := c.timeProvider.Since(c.waitingSince)
	if waited <= c.options.GracePeriod {
		return nil
	}

	err := &PlaybackStateError{Waited: waited, GracePeriod: c.options.GracePeriod}
	if !c.reported {
		c.reported = true
		logrus.WithFields(logrus.Fields{
			"function":     "Render",
			"waited":       waited,
			"grace_period": c.options.GracePeriod,
		}).Warn("Native video dimensions still unknown during playback")
	}
	return err
}

func (c *Controller) resetGracePeriod() {
	c.waitingSince = time.Time{}
	c.reported = false
}
