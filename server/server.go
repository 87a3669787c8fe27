// Package server exposes the video files and the annotation overlay over
// HTTP.
//
// Routes:
//
//	GET /videos/test    the configured default video
//	GET /videos/:name   any video in the media directory, with byte ranges
//	                    (HEAD is served for both)
//	GET /annotations    the loaded annotation track as JSON
//	GET /overlay/ws     websocket overlay session for a remote player
//	GET /healthz        liveness check
//
// An overlay session turns the browser into the player and the video
// surface: the page reports its element size, the decoded video size, the
// playback position and the play state, and receives the mapped annotation
// rectangles after every render.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lukasHoel/video-streaming/annotation"
	"github.com/lukasHoel/video-streaming/config"
	"github.com/lukasHoel/video-streaming/overlay"
	"github.com/sirupsen/logrus"
)

// ErrNilTrack indicates New was called without an annotation track.
var ErrNilTrack = errors.New("annotation track cannot be nil")

// Server is the HTTP front end.
type Server struct {
	cfg      *config.Config
	track    *annotation.Track
	options  *overlay.Options
	engine   *gin.Engine
	http     *http.Server
	upgrader websocket.Upgrader
	sessions *sessionRegistry

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a server for cfg. The configuration must be valid.
//
// Parameters:
//   - cfg: Validated configuration
//   - track: Annotations shown in overlay sessions
//
// Returns:
//   - *Server: Server ready to listen
//   - error: Configuration or nil-track errors
func New(cfg *config.Config, track *annotation.Track) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil configuration", config.ErrInvalidConfig)
	}
	if track == nil {
		return nil, ErrNilTrack
	}

	options, err := cfg.OverlayOptions()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:     cfg,
		track:   track,
		options: options,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(cfg.Server.AllowedOrigins),
		},
		sessions: newSessionRegistry(),
		ctx:      ctx,
		cancel:   cancel,
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), requestLogger())
	s.routes()

	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logrus.WithFields(logrus.Fields{
		"function":    "New",
		"addr":        cfg.Server.Addr,
		"media_dir":   cfg.Media.Dir,
		"annotations": track.Len(),
	}).Info("Server created")

	return s, nil
}

func (s *Server) routes() {
	videos := s.engine.Group("/videos")
	videos.GET("/test", s.handleTestVideo)
	videos.HEAD("/test", s.handleTestVideo)
	videos.GET("/:name", s.handleVideo)
	videos.HEAD("/:name", s.handleVideo)

	s.engine.GET("/annotations", s.handleAnnotations)
	s.engine.GET("/overlay/ws", s.handleOverlayWS)
	s.engine.GET("/healthz", s.handleHealth)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Sessions returns the number of open overlay sessions.
func (s *Server) Sessions() int {
	return s.sessions.count()
}

// ListenAndServe listens on the configured address. It returns nil after
// Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. It returns nil after Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	logrus.WithFields(logrus.Fields{
		"function": "Serve",
		"addr":     ln.Addr().String(),
	}).Info("Server listening")

	err := s.http.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, closes overlay sessions and waits for
// in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	logrus.WithFields(logrus.Fields{
		"function": "Shutdown",
		"sessions": s.sessions.count(),
	}).Info("Shutting down server")

	s.cancel()
	s.sessions.closeAll()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.sessions.count(),
	})
}

func (s *Server) handleAnnotations(c *gin.Context) {
	native, _ := s.track.Native()
	c.JSON(http.StatusOK, gin.H{
		"native":      native,
		"annotations": s.track.All(),
	})
}

// originChecker returns the websocket origin policy. With no allowed
// origins it returns nil, which makes the upgrader accept same-host pages
// and clients that send no Origin header.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		logrus.WithFields(logrus.Fields{
			"function": "originChecker",
			"origin":   origin,
		}).Warn("Rejected overlay session from foreign origin")
		return false
	}
}
