package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"

	"github.com/Zeuyel/MathImage/internal/client"
	"github.com/Zeuyel/MathImage/internal/config"
	"github.com/Zeuyel/MathImage/internal/data/db"
	"github.com/Zeuyel/MathImage/internal/server/middleware"
)

// Server is the HTTP command surface the desktop shell talks to
type Server struct {
	store      *config.Store
	engine     *gin.Engine
	httpServer *http.Server
	watcher    *config.Watcher
	history    *db.HistoryStore

	tester *client.ConnectionTester
	lister client.ModelLister

	// options
	host        string
	openBrowser bool
	debug       bool

	version string
}

// ServerOption defines a functional option for Server configuration
type ServerOption func(*Server)

// WithHost sets the listen host (default: localhost only)
func WithHost(host string) ServerOption {
	return func(s *Server) {
		s.host = host
	}
}

// WithOpenBrowser enables automatic browser opening after start
func WithOpenBrowser(enabled bool) ServerOption {
	return func(s *Server) {
		s.openBrowser = enabled
	}
}

// WithDebug enables gin debug mode
func WithDebug(enabled bool) ServerOption {
	return func(s *Server) {
		s.debug = enabled
	}
}

// WithVersion sets the reported version
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		s.version = version
	}
}

// WithModelLister overrides the model lister, used by tests
func WithModelLister(lister client.ModelLister) ServerOption {
	return func(s *Server) {
		s.lister = lister
	}
}

// NewServer creates the backend server for a settings store
func NewServer(store *config.Store, opts ...ServerOption) (*Server, error) {
	server := &Server{
		store: store,
		host:  "127.0.0.1",
	}
	for _, opt := range opts {
		opt(server)
	}

	if !server.debug {
		gin.SetMode(gin.ReleaseMode)
	}

	history, err := db.NewHistoryStore(store.ConfigDir())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history store: %w", err)
	}
	server.history = history

	server.engine = gin.New()
	server.tester = client.NewConnectionTester()
	if server.lister == nil {
		server.lister = client.NewOpenAIModelLister()
	}

	server.setupMiddleware()
	server.setupRoutes()
	server.setupWatcher()

	return server, nil
}

func (s *Server) setupMiddleware() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(middleware.CORS())
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.HandleHealth)

	api := s.engine.Group("/api")
	{
		api.GET("/config", s.HandleGetSettings)
		api.PUT("/config", s.HandleUpdateSettings)
		api.POST("/probe", s.HandleProbe)
		api.POST("/models", s.HandleListModels)
		api.GET("/history", s.HandleHistory)
	}
}

// setupWatcher wires settings hot reload so external edits are picked up
func (s *Server) setupWatcher() {
	watcher, err := config.NewWatcher(s.store)
	if err != nil {
		logrus.Warnf("Failed to create settings watcher: %v", err)
		return
	}
	s.watcher = watcher
}

// Engine returns the gin engine, used by tests and by an embedding shell
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// HandleHealth reports liveness to the shell
func (s *Server) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthCheckResponse{
		Status:  "healthy",
		Service: "mathimage",
		Version: s.version,
	})
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start(port int) error {
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			logrus.Warnf("Failed to start settings watcher: %v", err)
		} else {
			logrus.Debugln("Settings hot-reload enabled")
		}
	}

	addr := fmt.Sprintf("%s:%d", s.host, port)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	url := fmt.Sprintf("http://%s", addr)
	logrus.Infof("Backend API listening on %s", url)

	serverError := make(chan error, 1)
	go func() {
		serverError <- s.httpServer.ListenAndServe()
	}()

	// Poll the port instead of sleeping a fixed interval
	if err := waitForPort(addr, 2*time.Second); err != nil {
		select {
		case e := <-serverError:
			return e
		default:
			return fmt.Errorf("timeout: server did not start on %s: %v", addr, err)
		}
	}

	if s.openBrowser {
		browser.OpenURL(url)
	}

	return <-serverError
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.history != nil {
		s.history.Close()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// waitForPort polls the port until it accepts connections
func waitForPort(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("port %s not reachable within %s", addr, timeout)
}
