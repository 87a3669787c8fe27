package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lukasHoel/video-streaming/annotation"
	"github.com/lukasHoel/video-streaming/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("videoserver", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseCLIFlags(t *testing.T) {
	cli, err := parseCLIFlags(newFlagSet(), []string{
		"-config", "server.yaml",
		"-addr", ":9000",
		"-media-dir", "/srv/videos",
		"-log-level", "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "server.yaml", cli.configPath)
	assert.Equal(t, ":9000", cli.addr)
	assert.Equal(t, "/srv/videos", cli.mediaDir)
	assert.Equal(t, "debug", cli.logLevel)
	assert.False(t, cli.help)

	_, err = parseCLIFlags(newFlagSet(), []string{"-unknown"})
	assert.Error(t, err)
}

func TestBuildConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: ':7000'\nmedia:\n  dir: ./from-file\n"), 0o644))

	tests := []struct {
		name        string
		cli         *CLIConfig
		wantAddr    string
		wantDir     string
		wantErr     bool
		errContains string
	}{
		{
			name:     "defaults",
			cli:      &CLIConfig{},
			wantAddr: ":8080",
			wantDir:  "videos",
		},
		{
			name:     "file",
			cli:      &CLIConfig{configPath: path},
			wantAddr: ":7000",
			wantDir:  "./from-file",
		},
		{
			name:     "flags override file",
			cli:      &CLIConfig{configPath: path, addr: ":9000", mediaDir: "/srv"},
			wantAddr: ":9000",
			wantDir:  "/srv",
		},
		{
			name:        "bad log level",
			cli:         &CLIConfig{logLevel: "loud"},
			wantErr:     true,
			errContains: "log.level",
		},
		{
			name:        "missing file",
			cli:         &CLIConfig{configPath: filepath.Join(t.TempDir(), "absent.yaml")},
			wantErr:     true,
			errContains: "failed to read config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := buildConfig(tt.cli)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, cfg.Server.Addr)
			assert.Equal(t, tt.wantDir, cfg.Media.Dir)
		})
	}
}

func TestLoadTrack(t *testing.T) {
	cfg := config.Default()

	track, err := loadTrack(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, track.Len())

	path := filepath.Join(t.TempDir(), "annotations.yaml")
	data, err := annotation.Marshal(annotation.Static(annotation.Demo().All()[0].Rect, annotation.Demo().All()[0].Rect))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg.Overlay.Annotations = path
	track, err = loadTrack(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, track.Len())

	cfg.Overlay.Annotations = filepath.Join(t.TempDir(), "absent.yaml")
	_, err = loadTrack(cfg)
	assert.Error(t, err)
}

func TestPrintUsage(t *testing.T) {
	fs := newFlagSet()
	_, err := parseCLIFlags(fs, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	printUsage(&buf, fs)

	assert.Contains(t, buf.String(), "-media-dir")
	assert.Contains(t, buf.String(), "Examples:")
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := config.Default()
	cfg.Server.Addr = addr
	cfg.Media.Dir = t.TempDir()
	cfg.Server.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, annotation.Demo()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/healthz", addr))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := config.Default()
	cfg.Server.Addr = ln.Addr().String()

	err = run(context.Background(), cfg, annotation.Demo())
	assert.Error(t, err)
}
