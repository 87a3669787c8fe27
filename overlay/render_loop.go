package overlay

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// RenderLoop is a dedicated render goroutine for hosts that have no paint
// cycle of their own.
//
// RequestRepaint coalesces: any number of requests made while a render is
// pending or running result in at most one further render.
type RenderLoop struct {
	render   func() error
	requests chan struct{}
	running  atomic.Bool
	renders  atomic.Uint64

	mu            sync.Mutex
	errorCallback func(error)
}

// NewRenderLoop creates a loop that calls render for every repaint request.
func NewRenderLoop(render func() error) *RenderLoop {
	return &RenderLoop{
		render:   render,
		requests: make(chan struct{}, 1),
	}
}

// RequestRepaint schedules a render. It never blocks.
func (l *RenderLoop) RequestRepaint() {
	select {
	case l.requests <- struct{}{}:
	default:
	}
}

// OnError registers a callback for errors returned by render. The callback
// runs on the render goroutine.
func (l *RenderLoop) OnError(callback func(error)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.errorCallback = callback
}

// Renders returns the number of completed render calls.
func (l *RenderLoop) Renders() uint64 {
	return l.renders.Load()
}

// Run processes repaint requests until ctx is cancelled.
func (l *RenderLoop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	logrus.WithField("function", "RenderLoop.Run").Debug("Render loop started")

	for {
		select {
		case <-ctx.Done():
			logrus.WithFields(logrus.Fields{
				"function": "RenderLoop.Run",
				"renders":  l.renders.Load(),
			}).Debug("Render loop stopped")
			return ctx.Err()
		case <-l.requests:
			l.renderOnce()
		}
	}
}

func (l *RenderLoop) renderOnce() {
	err := l.render()
	l.renders.Add(1)
	if err == nil {
		return
	}

	logrus.WithFields(logrus.Fields{
		"function": "RenderLoop.renderOnce",
		"error":    err.Error(),
	}).Debug("Render returned an error")

	l.mu.Lock()
	callback := l.errorCallback
	l.mu.Unlock()

	if callback != nil {
		callback(err)
	}
}
