package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lukasHoel/video-streaming/annotation"
	"github.com/lukasHoel/video-streaming/config"
	"github.com/lukasHoel/video-streaming/server"
	"github.com/sirupsen/logrus"
)

// CLIConfig holds the command line flags. Non-empty values override the
// configuration file.
type CLIConfig struct {
	configPath string
	addr       string
	mediaDir   string
	logLevel   string
	help       bool
}

// parseCLIFlags parses args into a CLIConfig.
func parseCLIFlags(fs *flag.FlagSet, args []string) (*CLIConfig, error) {
	cli := &CLIConfig{}

	fs.StringVar(&cli.configPath, "config", "", "Path to a YAML configuration file")
	fs.StringVar(&cli.addr, "addr", "", "Listen address (overrides server.addr)")
	fs.StringVar(&cli.mediaDir, "media-dir", "", "Video directory (overrides media.dir)")
	fs.StringVar(&cli.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (overrides log.level)")
	fs.BoolVar(&cli.help, "help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cli, nil
}

// printUsage prints the usage information.
func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Video Server")
	fmt.Fprintln(w, "============")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serves video files with HTTP byte ranges and keeps annotation overlays")
	fmt.Fprintln(w, "aligned with remote players over websocket.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s [options]\n", fs.Name())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintf(w, "  %s -config server.yaml\n", fs.Name())
	fmt.Fprintf(w, "  %s -addr :9000 -media-dir ./videos -log-level debug\n", fs.Name())
}

// buildConfig loads the configuration file, if any, and applies the flag
// overrides.
func buildConfig(cli *CLIConfig) (*config.Config, error) {
	cfg := config.Default()
	if cli.configPath != "" {
		loaded, err := config.Load(cli.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cli.addr != "" {
		cfg.Server.Addr = cli.addr
	}
	if cli.mediaDir != "" {
		cfg.Media.Dir = cli.mediaDir
	}
	if cli.logLevel != "" {
		cfg.Log.Level = cli.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTrack loads the configured annotation file, or the demo box when none
// is configured.
func loadTrack(cfg *config.Config) (*annotation.Track, error) {
	if cfg.Overlay.Annotations == "" {
		return annotation.Demo(), nil
	}
	return annotation.Load(cfg.Overlay.Annotations)
}

// run serves until ctx is cancelled, then shuts down within the configured
// timeout.
func run(ctx context.Context, cfg *config.Config, track *annotation.Track) error {
	srv, err := server.New(cfg, track)
	if err != nil {
		return err
	}

	served := make(chan error, 1)
	go func() { served <- srv.ListenAndServe() }()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}

	logrus.WithField("function", "run").Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-served
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	cli, err := parseCLIFlags(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}
	if cli.help {
		printUsage(os.Stdout, fs)
		os.Exit(0)
	}

	cfg, err := buildConfig(cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Use -help for usage information.\n")
		os.Exit(1)
	}
	if err := cfg.Log.Apply(logrus.StandardLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	track, err := loadTrack(cfg)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"path":     cfg.Overlay.Annotations,
			"error":    err.Error(),
		}).Error("Failed to load annotations")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, track); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Error("Server failed")
		os.Exit(1)
	}
}
