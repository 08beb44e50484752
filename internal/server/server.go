package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jpalmerr/assetboard/asset"
	"github.com/jpalmerr/assetboard/internal/router"
	"github.com/jpalmerr/assetboard/internal/store"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// This prevents goroutine leaks when clients are slow or disconnected.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	// shutdownTimeout bounds graceful shutdown of in-flight requests.
	shutdownTimeout = 5 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "AssetBoard"

	// titlePlaceholder is the marker in HTML that gets replaced with the actual title.
	titlePlaceholder = "{{.Title}}"

	// maxRequestBodySize caps JSON bodies accepted by the asset API.
	maxRequestBodySize = 64 << 10
)

// Feature unit names, as listed by the route table.
const (
	UnitWelcome = "welcome"
	UnitAsset   = "asset"
)

// Facade is the subset of [asset.Facade] the HTTP API drives.
type Facade interface {
	Snapshot() asset.State
	UpdateField1(value *string)
	UpdateField2(data asset.Items)
	Refresh() bool
}

// Deps are the collaborators of a [Server].
type Deps struct {
	// Store streams view events to SSE clients.
	Store store.Store

	// Facade backs the asset API.
	Facade Facade

	// Metrics, if set, is served at /metrics.
	Metrics http.Handler

	// Assets holds the feature unit pages (may be nil).
	Assets fs.FS
}

// Server handles HTTP requests for the AssetBoard feature units and API.
//
// The route table is mounted at the root:
//   - GET /: redirects to /welcome
//   - /welcome: welcome page
//   - /asset: asset page and the asset JSON API under /asset/api
//
// plus GET /healthz and, when configured, GET /metrics.
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	deps       Deps
	port       int
	title      string
	logger     *slog.Logger
	table      *router.Table
	httpServer *http.Server

	mu   sync.Mutex
	addr net.Addr
	done chan struct{}
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - deps: store, facade and optional metrics handler and page assets
//   - port: TCP port to listen on (0 picks a free port)
//   - title: page title (defaults to "AssetBoard" if empty)
//   - logger: logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(deps Deps, port int, title string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		deps:   deps,
		port:   port,
		title:  title,
		logger: logger,
	}

	table, err := router.Default(logger,
		router.NewFeatureUnit(UnitWelcome, s.loadWelcome),
		router.NewFeatureUnit(UnitAsset, s.loadAsset),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build route table: %w", err)
	}
	s.table = table

	return s, nil
}

// Routes returns the mounted route table.
func (s *Server) Routes() []router.Route {
	return s.table.Routes()
}

// Handler builds the root chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.deps.Metrics)
	}

	s.table.Mount(r)
	return r
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.addr = ln.Addr()
	s.done = done
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, all request contexts are also cancelled,
		// enabling graceful shutdown of long-running handlers like SSE.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// Wait blocks until a started server has shut down. It returns immediately
// if the server was never started.
func (s *Server) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

// BaseURL returns the http URL of the bound listener, or "" before Start.
// The host is always localhost.
func (s *Server) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.addr == nil {
		return ""
	}
	tcp, ok := s.addr.(*net.TCPAddr)
	if !ok {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d/", tcp.Port)
}

// loadWelcome builds the welcome feature unit.
func (s *Server) loadWelcome() (http.Handler, error) {
	r := chi.NewRouter()
	r.Get("/", s.pageHandler("welcome.html"))
	return r, nil
}

// loadAsset builds the asset feature unit: its page and JSON API.
func (s *Server) loadAsset() (http.Handler, error) {
	if s.deps.Facade == nil || s.deps.Store == nil {
		return nil, errors.New("asset unit requires a facade and a store")
	}

	r := chi.NewRouter()
	r.Get("/", s.pageHandler("asset.html"))
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Put("/field1", s.handleField1)
		r.Put("/field2", s.handleField2)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/sse", s.handleSSE)
	})
	return r, nil
}

// pageHandler serves an embedded page with the title substituted.
func (s *Server) pageHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Assets == nil {
			http.Error(w, "Page not found", http.StatusInternalServerError)
			return
		}

		content, err := fs.ReadFile(s.deps.Assets, "assets/"+name)
		if err != nil {
			http.Error(w, "Page not found", http.StatusInternalServerError)
			return
		}

		// apply title substitution with HTML escaping to prevent XSS
		title := s.title
		if title == "" {
			title = defaultTitle
		}
		rendered := strings.ReplaceAll(string(content), titlePlaceholder, html.EscapeString(title))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err = w.Write([]byte(rendered)); err != nil {
			s.logger.Error("failed to write page response", "page", name, "error", err)
		}
	}
}
