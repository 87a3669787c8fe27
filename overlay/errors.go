package overlay

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrPlaybackState indicates the player has been playing for longer than
	// the grace period without reporting native video dimensions.
	ErrPlaybackState = errors.New("playback state error")

	// ErrNilCollaborator indicates a required collaborator was nil.
	ErrNilCollaborator = errors.New("collaborator cannot be nil")

	// ErrLoopRunning indicates Run was called on a RenderLoop that is already running.
	ErrLoopRunning = errors.New("render loop already running")
)

// PlaybackStateError reports native video dimensions that stayed unknown
// after playback started.
type PlaybackStateError struct {
	Waited      time.Duration // time since dimensions were first found missing during playback
	GracePeriod time.Duration // configured grace period
}

func (e *PlaybackStateError) Error() string {
	return fmt.Sprintf("%v: native video dimensions unknown %v after playback started (grace period %v)",
		ErrPlaybackState, e.Waited, e.GracePeriod)
}

func (e *PlaybackStateError) Unwrap() error {
	return ErrPlaybackState
}
