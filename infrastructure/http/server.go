// Package http wires the terminal pages into one chi server.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mercadinho/frontend/scanner"
	sessioncontext "mercadinho/frontend/shared/context"
	"mercadinho/infrastructure/backend"
	"mercadinho/infrastructure/cache"
	"mercadinho/infrastructure/opslog"
	"mercadinho/infrastructure/sqlite"
	"mercadinho/models"
)

var ShutdownTimeout = 2 * time.Second

const (
	sessionCookieName = "terminal_session"
	sessionTTL        = 12 * time.Hour
)

// Server bundles dependencies and route wiring. The POS page and the stock
// browser hold separate stock snapshots so refreshing one page never
// disturbs the other.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux
	log    *slog.Logger

	DB          *sqlite.DB
	Backend     *backend.Client
	Sessions    *cache.SessionCache
	PosStock    *cache.StockCache
	BrowseStock *cache.StockCache
	Ops         *opslog.Service
	Scanner     *scanner.Manager
}

// NewServer creates the http server with all routes registered.
func NewServer(addr string, db *sqlite.DB, client *backend.Client, ops *opslog.Service, scannerMgr *scanner.Manager, log *slog.Logger) *Server {
	s := &Server{
		Addr:        addr,
		router:      chi.NewRouter(),
		log:         log,
		DB:          db,
		Backend:     client,
		Sessions:    cache.NewSessionCache(),
		PosStock:    cache.NewStockCache(),
		BrowseStock: cache.NewStockCache(),
		Ops:         ops,
		Scanner:     scannerMgr,
		server: &http.Server{
			MaxHeaderBytes: 1 << 20,
		},
	}

	// Secure headers first.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.CSRFMiddleware)
	s.router.Use(s.EnsureSessionMiddleware)

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.RegisterFrontendRoutes()

	s.server.Handler = s.router
	return s
}

// EnsureSessionMiddleware attaches the terminal session to the request,
// creating an anonymous one on first contact. The session only carries the
// cart and the receiving form state; there is no login.
func (s *Server) EnsureSessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var session *models.Session
		if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
			if found, ok := s.Sessions.Find(c.Value); ok {
				session = found
			}
		}

		if session == nil {
			session = &models.Session{
				ID:        randomToken(32),
				CreatedAt: time.Now(),
				ExpiresAt: time.Now().Add(sessionTTL),
			}
			s.Sessions.Add(session)
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    session.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(sessionTTL / time.Second),
			})
		}

		ctx := sessioncontext.NewContextWithSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func randomToken(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go s.server.Serve(s.ln)
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %v", err)
	}
	s.ln = nil
	return nil
}
