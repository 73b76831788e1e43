//go:build unix

// Package daemon serves an asset registry over a unix socket.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gurisko/assetreg/internal/paths"
	"github.com/gurisko/assetreg/pkg/manifest"
	"github.com/gurisko/assetreg/pkg/registry"
	"github.com/spf13/afero"
)

const (
	shutdownTimeout = 5 * time.Second
	stopTimeout     = 5 * time.Second
)

type Daemon struct {
	socketPath   string
	pidFile      string
	manifestPath string
	server       *http.Server
	registry     *registry.Registry
	httpClient   *http.Client
	log          *slog.Logger

	instanceID string
	startTime  time.Time
}

type Config struct {
	SocketPath string
	PIDFile    string
	Manifest   string // Empty starts with no containers
}

func DefaultConfig() *Config {
	return &Config{
		SocketPath: paths.DefaultSocketPath(),
		PIDFile:    paths.DefaultPIDPath(),
		Manifest:   paths.DefaultManifestPath(),
	}
}

func New(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	defaults := DefaultConfig()
	if cfg.SocketPath == "" {
		cfg.SocketPath = defaults.SocketPath
	}
	if cfg.PIDFile == "" {
		cfg.PIDFile = defaults.PIDFile
	}
	if logger == nil {
		logger = slog.Default()
	}

	socket := cfg.SocketPath
	tr := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var nd net.Dialer
			return nd.DialContext(ctx, "unix", socket)
		},
	}

	return &Daemon{
		socketPath:   cfg.SocketPath,
		pidFile:      cfg.PIDFile,
		manifestPath: cfg.Manifest,
		httpClient:   &http.Client{Transport: tr, Timeout: 2 * time.Second},
		log:          logger,
		instanceID:   uuid.New().String(),
		startTime:    time.Now().UTC(),
	}, nil
}

// loadRegistry builds the registry served by this daemon from its manifest.
// A missing manifest yields an empty registry.
func (d *Daemon) loadRegistry() error {
	m := &manifest.Manifest{}
	if d.manifestPath != "" {
		loaded, err := manifest.Load(d.manifestPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			d.log.Warn("manifest not found, starting empty", "path", d.manifestPath)
		case err != nil:
			return err
		default:
			m = loaded
		}
	}

	reg, err := m.Build(afero.NewOsFs(), registry.WithLogger(d.log.With("component", "registry")))
	if err != nil {
		return fmt.Errorf("failed to build registry from %s: %w", d.manifestPath, err)
	}
	d.registry = reg
	d.log.Info("manifest loaded", "path", d.manifestPath, "containers", len(m.Config.Containers), "assets", len(m.Assets))
	return nil
}

// Start loads the manifest and serves in the foreground until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	if err := d.loadRegistry(); err != nil {
		return err
	}

	// The pidfile is claimed first so a live daemon's socket is never replaced.
	if err := claimPIDFile(d.pidFile, pidRecord{PID: os.Getpid(), Instance: d.instanceID}); err != nil {
		return err
	}
	ln, err := listenSocket(d.socketPath)
	if err != nil {
		os.Remove(d.pidFile)
		return err
	}
	defer d.cleanup()

	mux := http.NewServeMux()
	d.setupRoutes(mux)
	d.server = &http.Server{
		Handler:      d.logRequests(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	serveErr := make(chan error, 1)
	go func() { serveErr <- d.server.Serve(ln) }()
	d.log.Info("daemon started", "pid", os.Getpid(), "socket", d.socketPath, "instance", d.instanceID)

	select {
	case <-ctx.Done():
		d.log.Info("shutting down")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			d.log.Error("server error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		d.log.Warn("server shutdown error", "error", err)
	}
	return nil
}

func (d *Daemon) cleanup() {
	d.httpClient.CloseIdleConnections()
	if err := os.Remove(d.socketPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		d.log.Warn("failed to remove socket", "path", d.socketPath, "error", err)
	}
	if err := os.Remove(d.pidFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		d.log.Warn("failed to remove pidfile", "path", d.pidFile, "error", err)
	}
}

// Stop sends SIGTERM to the daemon named by the pidfile and waits for it to exit.
func (d *Daemon) Stop() error {
	rec, err := readPIDRecord(d.pidFile)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("daemon not running")
	}
	if err != nil {
		return fmt.Errorf("failed reading pidfile: %w", err)
	}

	if err := syscall.Kill(rec.PID, syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to stop daemon: %w", err)
	}

	deadline := time.Now().Add(stopTimeout)
	for time.Now().Before(deadline) {
		if !processAlive(rec.PID) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon did not stop within %s", stopTimeout)
}
