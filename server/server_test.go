package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lukasHoel/video-streaming/annotation"
	"github.com/lukasHoel/video-streaming/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logrus.SetLevel(logrus.WarnLevel)
	os.Exit(m.Run())
}

// videoBytes is the content of the fake video files.
var videoBytes = []byte(strings.Repeat("0123456789", 100))

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.mp4"), videoBytes, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.webm"), videoBytes[:100], 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	cfg := config.Default()
	cfg.Media.Dir = dir
	cfg.Server.Addr = "127.0.0.1:0"
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	srv, err := New(cfg, annotation.Demo())
	require.NoError(t, err)
	return srv, dir
}

func do(t *testing.T, h http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, annotation.Demo())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = New(config.Default(), nil)
	assert.ErrorIs(t, err, ErrNilTrack)
}

func TestVideo_FullContent(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv.Handler(), http.MethodGet, "/videos/test", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, videoBytes, rec.Body.Bytes())
	assert.Equal(t, "video/mp4", rec.Header().Get("Content-Type"))
	assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	assert.NotEmpty(t, rec.Header().Get("Last-Modified"))
	assert.Regexp(t, `^"[0-9a-f]{32}"$`, rec.Header().Get("ETag"))
}

func TestVideo_ByName(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv.Handler(), http.MethodGet, "/videos/clip.webm", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "video/webm", rec.Header().Get("Content-Type"))
	assert.Len(t, rec.Body.Bytes(), 100)
}

func TestVideo_Ranges(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		name     string
		header   string
		status   int
		body     []byte
		rangeHdr string
	}{
		{"prefix", "bytes=0-9", http.StatusPartialContent, videoBytes[0:10], "bytes 0-9/1000"},
		{"middle", "bytes=100-104", http.StatusPartialContent, videoBytes[100:105], "bytes 100-104/1000"},
		{"open ended", "bytes=995-", http.StatusPartialContent, videoBytes[995:], "bytes 995-999/1000"},
		{"suffix", "bytes=-3", http.StatusPartialContent, videoBytes[997:], "bytes 997-999/1000"},
		{"clamped end", "bytes=990-5000", http.StatusPartialContent, videoBytes[990:], "bytes 990-999/1000"},
		{"unsatisfiable", "bytes=5000-6000", http.StatusRequestedRangeNotSatisfiable, nil, "bytes */1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv.Handler(), http.MethodGet, "/videos/test", map[string]string{"Range": tt.header})

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.rangeHdr, rec.Header().Get("Content-Range"))
			if tt.body != nil {
				assert.Equal(t, tt.body, rec.Body.Bytes())
			}
		})
	}
}

func TestVideo_MultipleRanges(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv.Handler(), http.MethodGet, "/videos/test", map[string]string{"Range": "bytes=0-1,10-11"})

	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "multipart/byteranges"))
}

func TestVideo_ConditionalRequests(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	first := do(t, srv.Handler(), http.MethodGet, "/videos/test", nil)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	again := do(t, srv.Handler(), http.MethodGet, "/videos/test", nil)
	assert.Equal(t, etag, again.Header().Get("ETag"), "ETag is stable for an unchanged file")

	rec := do(t, srv.Handler(), http.MethodGet, "/videos/test", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, rec.Code)

	// a stale validator turns the range request into a full response
	rec = do(t, srv.Handler(), http.MethodGet, "/videos/test", map[string]string{
		"Range":    "bytes=0-9",
		"If-Range": `"stale"`,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Body.Bytes(), len(videoBytes))

	rec = do(t, srv.Handler(), http.MethodGet, "/videos/test", map[string]string{
		"Range":    "bytes=0-9",
		"If-Range": etag,
	})
	assert.Equal(t, http.StatusPartialContent, rec.Code)
}

func TestVideo_ETagChangesWithFile(t *testing.T) {
	srv, dir := newTestServer(t, nil)

	before := do(t, srv.Handler(), http.MethodGet, "/videos/test", nil).Header().Get("ETag")

	path := filepath.Join(dir, "test.mp4")
	require.NoError(t, os.WriteFile(path, videoBytes[:500], 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	after := do(t, srv.Handler(), http.MethodGet, "/videos/test", nil).Header().Get("ETag")
	assert.NotEqual(t, before, after)
}

func TestVideo_Head(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv.Handler(), http.MethodHead, "/videos/test", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1000", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Body.Bytes())
}

func TestVideo_Errors(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing", "/videos/missing.mp4", http.StatusNotFound},
		{"directory", "/videos/nested", http.StatusNotFound},
		{"parent", "/videos/..", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv.Handler(), http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestVideo_MissingDefault(t *testing.T) {
	srv, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Media.Default = "absent.mp4"
	})

	rec := do(t, srv.Handler(), http.MethodGet, "/videos/test", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolveMedia(t *testing.T) {
	srv, dir := newTestServer(t, nil)

	path, err := srv.resolveMedia("a/b.mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a", "b.mp4"), path)

	for _, name := range []string{"", "..", "../x.mp4", "a/../../x.mp4", "/etc/passwd"} {
		_, err := srv.resolveMedia(name)
		assert.ErrorIs(t, err, ErrInvalidMediaPath, "name %q", name)
	}
}

func TestAnnotations(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv.Handler(), http.MethodGet, "/annotations", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Native struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"native"`
		Annotations []annotation.Annotation `json:"annotations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 1920, body.Native.Width)
	assert.Equal(t, 1080, body.Native.Height)
	require.Len(t, body.Annotations, 1)
	assert.Equal(t, "demo", body.Annotations[0].Label)
	assert.Equal(t, 1000, body.Annotations[0].Rect.X)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv.Handler(), http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","sessions":0}`, rec.Body.String())
}

func TestServeAndShutdown(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	url := fmt.Sprintf("http://%s/videos/test", ln.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && len(body) == len(videoBytes)
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}
