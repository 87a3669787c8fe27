package server

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// ErrInvalidMediaPath indicates a requested name that would leave the media
// directory.
var ErrInvalidMediaPath = errors.New("invalid media path")

var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".ogv":  "video/ogg",
}

func (s *Server) handleTestVideo(c *gin.Context) {
	s.serveMedia(c, s.cfg.Media.Default)
}

func (s *Server) handleVideo(c *gin.Context) {
	s.serveMedia(c, c.Param("name"))
}

// serveMedia streams a file from the media directory. Range, If-Range,
// If-None-Match and If-Modified-Since are handled by http.ServeContent.
func (s *Server) serveMedia(c *gin.Context, name string) {
	path, err := s.resolveMedia(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "serveMedia",
			"path":     path,
			"error":    err.Error(),
		}).Error("Failed to open video")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open video"})
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}

	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		c.Header("Content-Type", ct)
	}
	c.Header("ETag", mediaETag(path, info))
	c.Header("Accept-Ranges", "bytes")

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

// resolveMedia maps a request name onto a path inside the media directory.
func (s *Server) resolveMedia(name string) (string, error) {
	if name == "" || !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaPath, name)
	}
	return filepath.Join(s.cfg.Media.Dir, name), nil
}

// mediaETag derives a strong validator from the file identity: path, size
// and modification time.
func mediaETag(path string, info fs.FileInfo) string {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())))
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
