package overlay

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lukasHoel/video-streaming/geometry"
)

// fakePlayer implements Player and PositionNotifier.
type fakePlayer struct {
	mu        sync.Mutex
	dims      geometry.Dimensions
	haveDims  bool
	position  time.Duration
	playing   bool
	queries   int
	callbacks []func(time.Duration)
}

func (p *fakePlayer) NativeDimensions() (geometry.Dimensions, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queries++
	return p.dims, p.haveDims
}

func (p *fakePlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *fakePlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *fakePlayer) OnPlaybackPositionChanged(callback func(time.Duration)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callbacks = append(p.callbacks, callback)
}

func (p *fakePlayer) setDims(d geometry.Dimensions) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dims = d
	p.haveDims = true
}

func (p *fakePlayer) setPlaying(playing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = playing
}

func (p *fakePlayer) advance(pos time.Duration) {
	p.mu.Lock()
	p.position = pos
	callbacks := append([]func(time.Duration){}, p.callbacks...)
	p.mu.Unlock()

	for _, cb := range callbacks {
		cb(pos)
	}
}

func (p *fakePlayer) queryCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queries
}

// fakeSurface implements Surface and ResizeNotifier.
type fakeSurface struct {
	mu        sync.Mutex
	size      geometry.SurfaceSize
	callbacks []func()
}

func (s *fakeSurface) SurfaceSize() geometry.SurfaceSize {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *fakeSurface) OnSurfaceOrOwnerResized(callback func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, callback)
}

func (s *fakeSurface) resize(width, height int) {
	s.mu.Lock()
	s.size = geometry.SurfaceSize{Width: width, Height: height}
	callbacks := append([]func(){}, s.callbacks...)
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
}

// plainSurface has no subscription point.
type plainSurface struct {
	size geometry.SurfaceSize
}

func (s plainSurface) SurfaceSize() geometry.SurfaceSize { return s.size }

// countingRepainter implements Repainter.
type countingRepainter struct {
	requests atomic.Int64
}

func (r *countingRepainter) RequestRepaint() {
	r.requests.Add(1)
}

func (r *countingRepainter) count() int64 {
	return r.requests.Load()
}

// drawCall is one recorded Canvas.DrawRect call.
type drawCall struct {
	rect  geometry.Rect
	style Style
}

// recordingCanvas implements Canvas.
type recordingCanvas struct {
	calls []drawCall
}

func (c *recordingCanvas) DrawRect(r geometry.Rect, style Style) {
	c.calls = append(c.calls, drawCall{rect: r, style: style})
}

func (c *recordingCanvas) rects() []geometry.Rect {
	out := make([]geometry.Rect, 0, len(c.calls))
	for _, call := range c.calls {
		out = append(out, call.rect)
	}
	return out
}

// mockTimeProvider implements TimeProvider for deterministic testing.
type mockTimeProvider struct {
	currentTime time.Time
}

func (m *mockTimeProvider) Now() time.Time {
	return m.currentTime
}

func (m *mockTimeProvider) Since(t time.Time) time.Duration {
	return m.currentTime.Sub(t)
}

func (m *mockTimeProvider) Advance(d time.Duration) {
	m.currentTime = m.currentTime.Add(d)
}
