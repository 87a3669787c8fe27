package annotation

import (
	"sort"
	"sync"
	"time"

	"github.com/lukasHoel/video-streaming/geometry"
)

// Track is an ordered set of annotations for one video.
//
// Track is safe for concurrent use: the render goroutine reads it while the
// server may list it.
type Track struct {
	mu     sync.RWMutex
	items  []Annotation
	native geometry.Dimensions
}

// NewTrack creates a track from items, ordered by Start.
func NewTrack(items ...Annotation) *Track {
	t := &Track{items: append([]Annotation(nil), items...)}
	t.sortLocked()
	return t
}

// Static creates an always-visible track from bare rectangles.
func Static(rects ...geometry.Rect) *Track {
	items := make([]Annotation, len(rects))
	for i, r := range rects {
		items[i] = New("", r)
	}
	return NewTrack(items...)
}

// Demo returns the single annotation of the overlay demo: a
// 200x100 box at (1000,500) on a 1920x1080 stream.
func Demo() *Track {
	t := NewTrack(New("demo", geometry.Rect{X: 1000, Y: 500, Width: 200, Height: 100}))
	t.native = geometry.Dimensions{Width: 1920, Height: 1080}
	return t
}

// Add inserts an annotation, keeping the Start order.
func (t *Track) Add(a Annotation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.items = append(t.items, a)
	t.sortLocked()
}

// Active returns the annotations visible at playback position pos.
func (t *Track) Active(pos time.Duration) []Annotation {
	t.mu.RLock()
	defer t.mu.RUnlock()

	active := make([]Annotation, 0, len(t.items))
	for _, a := range t.items {
		if a.Start > pos {
			break
		}
		if a.ActiveAt(pos) {
			active = append(active, a)
		}
	}
	return active
}

// All returns a copy of every annotation in Start order.
func (t *Track) All() []Annotation {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return append([]Annotation(nil), t.items...)
}

// Len returns the number of annotations.
func (t *Track) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.items)
}

// Native returns the reference video size the track was authored for, if
// the annotation file declared one.
func (t *Track) Native() (geometry.Dimensions, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.native, t.native.Valid()
}

func (t *Track) sortLocked() {
	sort.SliceStable(t.items, func(i, j int) bool {
		return t.items[i].Start < t.items[j].Start
	})
}
