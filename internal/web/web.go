// Package web serves the console UI and its JSON and websocket API.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dbops-console/internal/eventlog"
	"dbops-console/internal/state"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// DefaultSessionDuration is the console cookie lifetime and idle limit.
const DefaultSessionDuration = 24 * time.Hour

var upgrader = websocket.Upgrader{
	CheckOrigin: sameOrigin,
}

// sameOrigin accepts handshakes without an Origin header (non-browser
// clients) and browser handshakes whose Origin host matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// Options configures a Server.
type Options struct {
	Store           *state.Store
	Events          *eventlog.Log
	Port            string
	Version         string
	SessionDuration time.Duration
}

// Server serves the web UI and API endpoints.
type Server struct {
	store           *state.Store
	events          *eventlog.Log
	port            string
	version         string
	sessionDuration time.Duration
	httpServer      *http.Server
}

// New creates a new web server.
func New(opts Options) *Server {
	if opts.Events == nil {
		opts.Events = eventlog.Seeded()
	}
	if opts.SessionDuration <= 0 {
		opts.SessionDuration = DefaultSessionDuration
	}
	if opts.Port == "" {
		opts.Port = "8080"
	}
	return &Server{
		store:           opts.Store,
		events:          opts.Events,
		port:            opts.Port,
		version:         opts.Version,
		sessionDuration: opts.SessionDuration,
	}
}

// Handler returns the router with every route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.withConsole)

		r.Get("/", s.handleUI)
		r.Get("/ws", s.handleWebSocket)

		r.Route("/api", func(r chi.Router) {
			r.Get("/state", s.handleState)
			r.Post("/session/signin", s.handleSignIn)
			r.Post("/session/signout", s.handleSignOut)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)

				r.Get("/operations", s.handleListOperations)
				r.Post("/operations/{kind}/open", s.handleOpenOperation)
				r.Post("/operations/close", s.handleCloseOperation)
				r.Put("/operations/fields", s.handleSetField)
				r.Post("/operations/submit", s.handleSubmitOperation)
				r.Get("/events", s.handleEvents)
			})
		})
	})

	return r
}

// Start starts the web server in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%s", s.port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logInfo("Web UI listening", "address", addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logError("Web server failed", "error", err)
		}
	}()
}

// Shutdown stops accepting connections and waits for handlers to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// RunJanitor drops idle consoles every interval until ctx is done.
func (s *Server) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.store.Prune(now, s.sessionDuration); n > 0 {
				logDebug("Pruned idle consoles", "count", n)
			}
		}
	}
}

// handleWebSocket upgrades the connection and pushes the console snapshot on
// connect and whenever it changes.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	console := consoleFrom(r)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logError("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	changes, release := console.Subscribe()
	defer release()

	logDebug("WebSocket client connected", "remote", r.RemoteAddr)

	// The UI never sends anything; reading only detects disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// A ticker catches notification expiry, which is not a state mutation.
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	var last []byte
	push := func() bool {
		data, err := json.Marshal(console.Snapshot())
		if err != nil || bytes.Equal(data, last) {
			return true
		}
		last = data
		return conn.WriteMessage(websocket.TextMessage, data) == nil
	}

	console.Touch()
	if !push() {
		return
	}
	for {
		select {
		case <-closed:
			logDebug("WebSocket client disconnected", "remote", r.RemoteAddr)
			return
		case <-changes:
		case <-ticker.C:
		}
		// An open socket counts as activity so the janitor keeps the console.
		console.Touch()
		if !push() {
			return
		}
	}
}

// requestLogger logs each request through slog with the chi request id.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", chimiddleware.GetReqID(r.Context()),
			"component", "Web",
		)
	})
}

func logDebug(msg string, attrs ...any) {
	slog.Debug(msg, append(attrs, "component", "Web")...)
}

func logInfo(msg string, attrs ...any) {
	slog.Info(msg, append(attrs, "component", "Web")...)
}

func logError(msg string, attrs ...any) {
	slog.Error(msg, append(attrs, "component", "Web")...)
}
