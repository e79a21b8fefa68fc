package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/muurk/pixelcfg/internal/logging"
	"github.com/muurk/pixelcfg/internal/pixelconfig"
	"go.uber.org/zap"
)

// Config holds the server configuration
type Config struct {
	Host string
	Port int
}

// Persister stores the configuration after a submission.
type Persister interface {
	Save(ctx context.Context, cfg pixelconfig.PixelConfig) error
}

// Reconfigurer applies the configuration to the pixel hardware.
type Reconfigurer interface {
	Reconfigure(ctx context.Context, cfg pixelconfig.PixelConfig) error
}

// Server is the controller's HTTP interface.
type Server struct {
	config       *Config
	store        *pixelconfig.Store
	persister    Persister
	reconfigurer Reconfigurer
	onChange     []func(pixelconfig.PixelConfig)

	router     *mux.Router
	hub        *hub
	httpServer *http.Server
	listener   net.Listener

	applyMu sync.Mutex
	wg      sync.WaitGroup
}

// New creates a server around store. persister and reconfigurer run after
// every form submission that carries arguments.
func New(config *Config, store *pixelconfig.Store, persister Persister, reconfigurer Reconfigurer) *Server {
	s := &Server{
		config:       config,
		store:        store,
		persister:    persister,
		reconfigurer: reconfigurer,
		router:       mux.NewRouter(),
		hub:          newHub(),
	}

	s.setupRoutes()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.hub.run()
	}()

	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/config/pixel", s.handleConfigPixel).Methods(http.MethodGet, http.MethodPost)
	s.router.HandleFunc("/config/pixelvals", s.handleConfigPixelVals).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	s.router.HandleFunc("/style.css", serveAsset("assets/style.css", ContentTypeCSS)).Methods(http.MethodGet)
	s.router.HandleFunc("/microajax.js", serveAsset("assets/microajax.js", ContentTypeJS)).Methods(http.MethodGet)
	s.router.Handle("/", http.RedirectHandler("/config/pixel", http.StatusFound)).Methods(http.MethodGet)

	s.router.Use(loggingMiddleware)
}

// OnChange registers fn to run after every applied submission.
func (s *Server) OnChange(fn func(pixelconfig.PixelConfig)) {
	s.onChange = append(s.onChange, fn)
}

// Handler returns the HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listening address once the server has started.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Listen binds the configured address without serving yet.
func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	return nil
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	cfg := s.store.Get()
	logging.Info("Starting pixel configuration server",
		zap.String("addr", s.listener.Addr().String()),
		zap.String("devname", cfg.Name),
		zap.Int("universe", cfg.Universe),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
		_ = s.httpServer.Close()
	}

	s.hub.stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return nil
}
