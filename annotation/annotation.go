// Package annotation holds the rectangles drawn over a video, expressed in
// native video pixels, together with the playback window in which each one
// is shown.
//
// Example:
//
//	track, err := annotation.Load("annotations.yaml")
//	if err != nil {
//	    return err
//	}
//	for _, a := range track.Active(player.Position()) {
//	    fmt.Println(a.Label, a.Rect)
//	}
package annotation

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lukasHoel/video-streaming/geometry"
)

// ErrInvalidAnnotation indicates malformed geometry or an inverted time window.
var ErrInvalidAnnotation = errors.New("invalid annotation")

// ErrOutOfBounds indicates an annotation that does not fit the native video frame.
var ErrOutOfBounds = errors.New("annotation outside native video bounds")

// Annotation is a single rectangle in native video coordinates.
//
// Start and End bound the playback positions at which the annotation is
// active. An End of zero leaves the window open, so the zero value is
// visible for the whole video.
type Annotation struct {
	ID    uuid.UUID     `json:"id"`
	Label string        `json:"label,omitempty"`
	Rect  geometry.Rect `json:"rect"`
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end,omitempty"`
}

// New creates an annotation with a fresh ID that is always visible.
func New(label string, rect geometry.Rect) Annotation {
	return Annotation{
		ID:    uuid.New(),
		Label: label,
		Rect:  rect,
	}
}

// ActiveAt reports whether the annotation is shown at playback position pos.
func (a Annotation) ActiveAt(pos time.Duration) bool {
	if pos < a.Start {
		return false
	}
	return a.End == 0 || pos < a.End
}

// Validate checks geometry and time window without knowing the video size.
func (a Annotation) Validate() error {
	if a.Rect.X < 0 || a.Rect.Y < 0 || a.Rect.Width < 0 || a.Rect.Height < 0 {
		return fmt.Errorf("%w: %s has negative geometry %s", ErrInvalidAnnotation, a.name(), a.Rect)
	}
	if a.Start < 0 || a.End < 0 {
		return fmt.Errorf("%w: %s has a negative time window", ErrInvalidAnnotation, a.name())
	}
	if a.End != 0 && a.End <= a.Start {
		return fmt.Errorf("%w: %s ends at %v before it starts at %v", ErrInvalidAnnotation, a.name(), a.End, a.Start)
	}
	return ValidateLabel(a.Label)
}

// ValidateBounds checks that the rectangle lies inside the native frame.
func (a Annotation) ValidateBounds(native geometry.Dimensions) error {
	if !a.Rect.Within(native.Width, native.Height) {
		return fmt.Errorf("%w: %s rect %s exceeds %s", ErrOutOfBounds, a.name(), a.Rect, native)
	}
	return nil
}

func (a Annotation) name() string {
	if a.Label != "" {
		return fmt.Sprintf("%q", a.Label)
	}
	return a.ID.String()
}
