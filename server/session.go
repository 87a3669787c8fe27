package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lukasHoel/video-streaming/geometry"
	"github.com/lukasHoel/video-streaming/overlay"
	"github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

// Client message types.
const (
	msgResize     = "resize"     // surface size in CSS pixels
	msgDimensions = "dimensions" // decoded video size
	msgPosition   = "position"   // playback position in seconds
	msgState      = "state"      // playing or paused
)

// clientMessage is sent by the browser.
type clientMessage struct {
	Type     string  `json:"type"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Position float64 `json:"position,omitempty"`
	Playing  bool    `json:"playing,omitempty"`
}

// serverMessage is sent to the browser.
type serverMessage struct {
	Type      string                `json:"type"`
	Session   string                `json:"session,omitempty"`
	Surface   *geometry.SurfaceSize `json:"surface,omitempty"`
	Letterbox *letterboxMessage     `json:"letterbox,omitempty"`
	Rects     []geometry.Rect       `json:"rects,omitempty"`
	Style     *styleMessage         `json:"style,omitempty"`
	Error     string                `json:"error,omitempty"`
}

type letterboxMessage struct {
	Axis     string `json:"axis"`
	Leading  int    `json:"leading"`
	Trailing int    `json:"trailing"`
}

type styleMessage struct {
	Stroke      string `json:"stroke"`
	Fill        string `json:"fill"`
	StrokeWidth int    `json:"stroke_width"`
}

// session is one browser player. It implements overlay.Player,
// overlay.Surface and both notifier interfaces, and drives its own
// controller through a RenderLoop. The render goroutine is the only writer
// on the connection once the loop has started.
type session struct {
	id   uuid.UUID
	conn *websocket.Conn

	mu                sync.Mutex
	native            geometry.Dimensions
	haveNative        bool
	surface           geometry.SurfaceSize
	position          time.Duration
	playing           bool
	resizeCallbacks   []func()
	positionCallbacks []func(time.Duration)

	ctrl *overlay.Controller
	loop *overlay.RenderLoop
}

func newSession(conn *websocket.Conn, s *Server) (*session, error) {
	sess := &session{
		id:   uuid.New(),
		conn: conn,
	}
	sess.loop = overlay.NewRenderLoop(sess.render)
	sess.loop.OnError(sess.reportError)

	ctrl, err := overlay.NewController(sess, sess, s.track, sess.loop, s.options)
	if err != nil {
		return nil, err
	}
	sess.ctrl = ctrl
	return sess, nil
}

// NativeDimensions implements overlay.Player.
func (s *session) NativeDimensions() (geometry.Dimensions, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.native, s.haveNative
}

// Position implements overlay.Player.
func (s *session) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// IsPlaying implements overlay.Player.
func (s *session) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// SurfaceSize implements overlay.Surface.
func (s *session) SurfaceSize() geometry.SurfaceSize {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface
}

// OnSurfaceOrOwnerResized implements overlay.ResizeNotifier.
func (s *session) OnSurfaceOrOwnerResized(callback func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizeCallbacks = append(s.resizeCallbacks, callback)
}

// OnPlaybackPositionChanged implements overlay.PositionNotifier.
func (s *session) OnPlaybackPositionChanged(callback func(time.Duration)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positionCallbacks = append(s.positionCallbacks, callback)
}

// run serves the session until the client disconnects or ctx is cancelled.
func (s *session) run(ctx context.Context, style overlay.Style) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hello := serverMessage{
		Type:    "hello",
		Session: s.id.String(),
		Style:   newStyleMessage(style),
	}
	if err := s.write(hello); err != nil {
		s.logger().WithField("error", err.Error()).Debug("Failed to greet client")
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := s.loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger().WithField("error", err.Error()).Warn("Render loop stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		s.conn.Close()
	}()

	s.readLoop()
	cancel()
	<-done
}

func (s *session) readLoop() {
	for {
		var msg clientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger().WithField("error", err.Error()).Debug("Session read failed")
			}
			return
		}
		s.handle(msg)
	}
}

// handle applies one client message. It runs on the read goroutine and only
// mutates session state and requests repaints.
func (s *session) handle(msg clientMessage) {
	switch msg.Type {
	case msgResize:
		s.mu.Lock()
		s.surface = geometry.SurfaceSize{Width: msg.Width, Height: msg.Height}
		callbacks := append([]func(){}, s.resizeCallbacks...)
		s.mu.Unlock()

		for _, cb := range callbacks {
			cb()
		}

	case msgDimensions:
		s.mu.Lock()
		s.native = geometry.Dimensions{Width: msg.Width, Height: msg.Height}
		s.haveNative = true
		s.mu.Unlock()
		s.loop.RequestRepaint()

	case msgPosition:
		pos := time.Duration(msg.Position * float64(time.Second))
		s.mu.Lock()
		s.position = pos
		callbacks := append([]func(time.Duration){}, s.positionCallbacks...)
		s.mu.Unlock()

		for _, cb := range callbacks {
			cb(pos)
		}

	case msgState:
		s.mu.Lock()
		s.playing = msg.Playing
		s.mu.Unlock()
		s.loop.RequestRepaint()

	default:
		s.logger().WithField("type", msg.Type).Warn("Ignoring unknown message type")
	}
}

// render runs on the render goroutine.
func (s *session) render() error {
	canvas := &rectCollector{}
	if err := s.ctrl.Render(canvas); err != nil {
		return err
	}

	surface := s.SurfaceSize()
	msg := serverMessage{
		Type:    "overlay",
		Surface: &surface,
		Rects:   canvas.rects,
	}
	if native, ok := s.ctrl.NativeDimensions(); ok {
		if offset, err := geometry.Letterbox(native, surface); err == nil {
			msg.Letterbox = &letterboxMessage{
				Axis:     offset.Axis.String(),
				Leading:  offset.Leading(),
				Trailing: offset.Trailing(),
			}
		}
	}

	return s.write(msg)
}

// reportError runs on the render goroutine.
func (s *session) reportError(err error) {
	var stateErr *overlay.PlaybackStateError
	if !errors.As(err, &stateErr) {
		return
	}
	if werr := s.write(serverMessage{Type: "error", Error: stateErr.Error()}); werr != nil {
		s.logger().WithField("error", werr.Error()).Debug("Failed to report playback state error")
	}
}

func (s *session) write(msg serverMessage) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(msg)
}

func (s *session) logger() *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"function": "session",
		"session":  s.id.String(),
	})
}

// rectCollector is the Canvas of a remote session: it records the mapped
// rectangles for the browser to draw.
type rectCollector struct {
	rects []geometry.Rect
}

func (r *rectCollector) DrawRect(rect geometry.Rect, _ overlay.Style) {
	r.rects = append(r.rects, rect)
}

func newStyleMessage(style overlay.Style) *styleMessage {
	return &styleMessage{
		Stroke:      hexColor(style.Stroke.R, style.Stroke.G, style.Stroke.B, style.Stroke.A),
		Fill:        hexColor(style.Fill.R, style.Fill.G, style.Fill.B, style.Fill.A),
		StrokeWidth: style.StrokeWidth,
	}
}

func hexColor(r, g, b, a uint8) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

func (s *Server) handleOverlayWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "handleOverlayWS",
			"error":    err.Error(),
		}).Warn("Failed to upgrade to websocket")
		return
	}

	sess, err := newSession(conn, s)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "handleOverlayWS",
			"error":    err.Error(),
		}).Error("Failed to create overlay session")
		conn.Close()
		return
	}

	s.sessions.add(sess)
	defer s.sessions.remove(sess.id)

	sess.logger().WithField("remote", conn.RemoteAddr().String()).Info("Overlay session opened")
	sess.run(s.ctx, s.options.Style)
	sess.logger().WithField("renders", sess.loop.Renders()).Info("Overlay session closed")
}

// sessionRegistry tracks open overlay sessions for shutdown.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[uuid.UUID]*session)}
}

func (r *sessionRegistry) add(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.id] = s
}

func (r *sessionRegistry) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *sessionRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// closeAll closes every connection; each session then unregisters itself.
func (r *sessionRegistry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		s.conn.Close()
	}
}
