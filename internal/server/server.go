// Package server is the herobook preview server. It serves the story
// catalog as HTML pages and JSON, pushes live-reload messages over a
// websocket and reloads the catalog when the fixtures file changes.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/browser"
	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/herobook/internal/config"
	"github.com/conneroisu/herobook/internal/errors"
	"github.com/conneroisu/herobook/internal/logging"
	"github.com/conneroisu/herobook/internal/registry"
	"github.com/conneroisu/herobook/internal/renderer"
	"github.com/conneroisu/herobook/internal/stories"
	"github.com/conneroisu/herobook/internal/validation"
	"github.com/conneroisu/herobook/internal/watcher"
	"github.com/conneroisu/herobook/internal/websocket"
)

const shutdownTimeout = 5 * time.Second

// PreviewServer serves stories with live reload
type PreviewServer struct {
	config    *config.Config
	logger    logging.Logger
	registry  *registry.StoryRegistry
	renderer  *renderer.StoryRenderer
	wsManager *websocket.WebSocketManager

	serverMutex sync.RWMutex
	httpServer  *http.Server
	listenAddr  string
	cancel      context.CancelFunc
	ready       chan struct{}

	shutdownOnce sync.Once
}

// New creates a preview server over the fixtures named in cfg
func New(cfg *config.Config, logger logging.Logger) (*PreviewServer, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	fixtures, err := stories.LoadFixtures(cfg.Stories.Fixtures)
	if err != nil {
		return nil, errors.NewEnhancedError("Failed to load story fixtures", err,
			errors.ConfigurationError(err.Error(), ".herobook.yml",
				&errors.SuggestionContext{FixturesPath: cfg.Stories.Fixtures}))
	}

	reg := registry.NewStoryRegistry(stories.Build(fixtures))

	return &PreviewServer{
		config:    cfg,
		logger:    logger.WithComponent("server"),
		registry:  reg,
		renderer:  renderer.NewStoryRenderer(reg, cfg.Hero.DisplayBudget),
		wsManager: websocket.NewWebSocketManager(websocket.AllowedOrigins(cfg.Server.AllowedOrigins), logger),
		ready:     make(chan struct{}),
	}, nil
}

// Registry returns the server's story registry
func (s *PreviewServer) Registry() *registry.StoryRegistry {
	return s.registry
}

// Ready is closed once the server is listening
func (s *PreviewServer) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the address the server listens on, empty before Ready
func (s *PreviewServer) Addr() string {
	s.serverMutex.RLock()
	defer s.serverMutex.RUnlock()
	return s.listenAddr
}

// URL returns the base URL of the running server
func (s *PreviewServer) URL() string {
	return "http://" + s.Addr()
}

// Start serves until ctx is cancelled or Shutdown is called. The HTTP
// server, the catalog event forwarder and the fixtures watcher run in one
// errgroup; the first failure stops them all.
func (s *PreviewServer) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.NewEnhancedError("Failed to start server", err,
			errors.ServerStartError(err, s.config.Server.Port, nil))
	}

	var fileWatcher *watcher.FileWatcher
	if s.config.Stories.Watch && s.config.Stories.Fixtures != "" {
		fileWatcher, err = s.setupFileWatcher()
		if err != nil {
			ln.Close()
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.serverMutex.Lock()
	s.httpServer = server
	s.listenAddr = ln.Addr().String()
	s.cancel = cancel
	s.serverMutex.Unlock()
	close(s.ready)

	s.logger.Info(ctx, "Preview server listening", "url", s.URL(), "stories", s.registry.Count())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.forwardCatalogEvents(gctx)
		return nil
	})

	if fileWatcher != nil {
		g.Go(func() error {
			return fileWatcher.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	if s.config.Server.Open {
		go s.openBrowser(s.URL())
	}

	return g.Wait()
}

func (s *PreviewServer) setupFileWatcher() (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(watcher.DefaultDebounce, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddHandler(s.handleFixturesChange)

	if err := fw.WatchFile(s.config.Stories.Fixtures); err != nil {
		fw.Stop()
		return nil, fmt.Errorf("failed to watch fixtures: %w", err)
	}
	return fw, nil
}

// handleFixturesChange rebuilds the catalog. A broken file keeps the
// previous catalog in place.
func (s *PreviewServer) handleFixturesChange(ctx context.Context, events []watcher.ChangeEvent) error {
	for _, event := range events {
		s.logger.Debug(ctx, "Fixtures changed", "path", event.Path, "type", event.Type.String())
	}

	fixtures, err := stories.LoadFixtures(s.config.Stories.Fixtures)
	if err != nil {
		return fmt.Errorf("reloading fixtures: %w", err)
	}
	// Editors truncate before writing; an empty read is not a real change.
	if fixtures.Base.Title == "" && len(fixtures.Languages) == 0 {
		return fmt.Errorf("reloading fixtures: %s is empty", s.config.Stories.Fixtures)
	}

	changed := s.registry.Replace(stories.Build(fixtures))
	s.logger.Info(ctx, "Story catalog reloaded", "changed", changed)
	return nil
}

func (s *PreviewServer) forwardCatalogEvents(ctx context.Context) {
	events := s.registry.Watch()
	defer s.registry.UnWatch(events)

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			// Adding or removing a story changes the index, so every page
			// reloads; an updated story only concerns its own page.
			messageType := websocket.MessageCatalogUpdate
			if event.Type != registry.EventTypeUpdated {
				messageType = websocket.MessageFullReload
			}
			s.wsManager.BroadcastMessage(websocket.UpdateMessage{
				Type:      messageType,
				Target:    event.Story.Slug,
				Content:   event.Type.String(),
				Timestamp: event.Timestamp,
			})
		}
	}
}

func (s *PreviewServer) openBrowser(rawURL string) {
	time.Sleep(100 * time.Millisecond)

	if err := validation.ValidateURL(rawURL); err != nil {
		s.logger.Warn(context.Background(), err, "Refusing to open browser for URL", "url", rawURL)
		return
	}

	if err := browser.OpenURL(rawURL); err != nil {
		s.logger.Warn(context.Background(), err, "Failed to open browser", "url", rawURL)
	}
}

// Shutdown stops the server, closing websocket clients first so that the
// HTTP server is not left waiting on them.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")

		s.serverMutex.RLock()
		server, cancel := s.httpServer, s.cancel
		s.serverMutex.RUnlock()

		if cancel != nil {
			cancel()
		}

		if err := s.wsManager.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("websocket shutdown: %w", err)
		}

		if server != nil {
			if err := server.Shutdown(ctx); err != nil && shutdownErr == nil {
				shutdownErr = fmt.Errorf("http shutdown: %w", err)
			}
		}
	})

	return shutdownErr
}
