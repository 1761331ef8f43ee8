// Package ui serves built figures over HTTP: an index of everything in
// the figures directory, a viewer page per figure, and a live-update
// stream that refreshes open pages when a figure is rebuilt.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8765"

// Config holds configuration for the figure server.
type Config struct {
	// FiguresDir is the directory holding built figure files.
	FiguresDir string
	// Addr is the listen address, host:port.
	Addr string
	// Watch enables the figures-dir watcher.
	Watch bool
	// OnChange, when set, runs after a debounced filesystem change and
	// before connected pages are pinged.
	OnChange func(ctx context.Context) error
	Logger   *slog.Logger
}

// Server is the figure server.
type Server struct {
	figuresDir string
	addr       string
	watch      bool
	onChange   func(ctx context.Context) error
	logger     *slog.Logger
	notifier   *notifier
	assets     *assetBundle
}

// NewServer creates a figure server and compiles its frontend assets.
func NewServer(cfg Config) (*Server, error) {
	if cfg.FiguresDir == "" {
		return nil, fmt.Errorf("no figures directory configured")
	}

	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	assets, err := buildAssets()
	if err != nil {
		return nil, fmt.Errorf("failed to build assets: %w", err)
	}

	return &Server{
		figuresDir: cfg.FiguresDir,
		addr:       addr,
		watch:      cfg.Watch,
		onChange:   cfg.OnChange,
		logger:     logger,
		notifier:   newNotifier(),
		assets:     assets,
	}, nil
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting figure server", "addr", "http://"+s.addr, "dir", s.figuresDir)

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.routes(r)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFigures(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down figure server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchFigures pings connected pages when a figure file changes. Events
// are debounced so one re-render (which rewrites the file in chunks)
// produces one ping.
func (s *Server) watchFigures(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.figuresDir); err != nil {
		s.logger.Error("failed to watch figures directory", "error", err)
		// Keep serving without live updates
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			ext := filepath.Ext(event.Name)
			if ext != ".html" && ext != ".json" && ext != ".csv" {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("figure changed", "file", event.Name)

				if s.onChange != nil {
					if err := s.onChange(ctx); err != nil {
						s.logger.Error("change hook failed", "error", err)
					}
				}

				s.notifier.Broadcast()
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}
