package server

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"sync"
	"time"

	"goserve/config"
	"goserve/logger"

	"github.com/gorilla/mux"
)

func init() {
	// Minimal hosts ship sparse mime tables; the game assets depend on
	// these two mappings.
	mime.AddExtensionType(".wasm", "application/wasm")
	mime.AddExtensionType(".js", "application/javascript")
}

// Server serves the files under one root directory over HTTP, with the
// development CORS headers on every response.
type Server struct {
	cfg        *config.Config
	router     *mux.Router
	httpServer *http.Server
	listener   net.Listener
	log        *logger.Logger

	shutdownOnce sync.Once
	shutdownErr  error
}

// New returns a Server for cfg. Every call returns an independent
// instance, so servers with different roots can run side by side in
// one process.
func New(cfg *config.Config) *Server {
	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
		log:    logger.L(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes wires the request-log middleware and the static file
// handler. There is no routing beyond filesystem path resolution: the
// file handler owns the whole path space.
func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.RootDir)))
}

// Start binds the listening socket on all interfaces and begins
// serving in the background. Bind failures are returned synchronously
// so the caller can exit before printing any banner. Cancelling ctx
// shuts the server down.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("bind port %d: %w", s.cfg.Port, err)
	}
	s.listener = ln

	// CORS wraps the router rather than joining its middleware chain:
	// mux answers non-canonical paths with a redirect before any route
	// middleware runs, and those responses must carry the headers too.
	s.httpServer = &http.Server{
		Handler:      CORS(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		s.log.Info("Serving static files", map[string]interface{}{
			"root": s.cfg.RootDir,
			"addr": ln.Addr().String(),
		})

		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown stops accepting connections and drains in-flight requests,
// giving them ten seconds before giving up. The context watcher and
// the signal handler can both land here, so the work runs once and
// every caller sees the same result.
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		if s.httpServer == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.shutdownErr = s.httpServer.Shutdown(ctx)
	})

	if s.shutdownErr != nil {
		return fmt.Errorf("server shutdown failed: %w", s.shutdownErr)
	}
	return nil
}

// Port reports the port actually bound, which differs from the
// configured one when the configuration asked for port 0.
func (s *Server) Port() int {
	if s.listener == nil {
		return s.cfg.Port
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// URL is the root address the banner and the browser opener point at.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.Port())
}

// PrintBanner writes the human-readable startup lines: where the
// server listens, what it serves, and the documented entry pages. The
// pages are plain files under the root; nothing routes them specially.
func (s *Server) PrintBanner(w io.Writer) {
	url := s.URL()
	fmt.Fprintln(w, "🚀 Dragon vs Tiger Game Server")
	fmt.Fprintf(w, "📂 Serving directory: %s\n", s.cfg.RootDir)
	fmt.Fprintf(w, "🌍 Server running at: %s\n", url)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "📋 Available pages:")
	fmt.Fprintf(w, "   🎮 Game: %s/index.html\n", url)
	fmt.Fprintf(w, "   🔧 AI Test: %s/ai_fix_test.html\n", url)
	fmt.Fprintf(w, "   🧪 Debug: %s/debug_ai.html\n", url)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Press Ctrl+C to stop server")
}
