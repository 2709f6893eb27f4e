// Package server provides the HTTP REST API for the job board.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/applications"
	"github.com/jonathan/jobboard/internal/config"
	"github.com/jonathan/jobboard/internal/interviews"
	"github.com/jonathan/jobboard/internal/listings"
	"github.com/jonathan/jobboard/internal/screening"
	"github.com/jonathan/jobboard/internal/server/middleware"
	"github.com/jonathan/jobboard/internal/server/ratelimit"
	"github.com/jonathan/jobboard/internal/types"
)

const (
	maxBodyBytes   = 1 << 20
	maxImportBytes = 5 << 20
)

// Store is everything the HTTP layer persists through.
type Store interface {
	listings.Store
	applications.Store
	screening.Store
	interviews.Store
	AdminStore
	Ping(ctx context.Context) error
}

// Notifier dispatches best-effort webhook events.
type Notifier interface {
	Enqueue(kind string, payload any) bool
}

// Options holds server dependencies and configuration
type Options struct {
	Port      int
	Store     Store
	Notifier  Notifier
	Location  *time.Location
	JWT       *config.JWTConfig
	Passwords *config.PasswordConfig
	RateLimit *ratelimit.Config
	Rubric    *screening.Rubric
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler

	listings     *listings.Service
	applications *applications.Service
	interviews   *interviews.Service
	screening    *screening.Service

	applicant func(http.Handler) http.Handler
	admin     func(http.Handler) http.Handler
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if opts.JWT == nil || opts.Passwords == nil {
		return nil, fmt.Errorf("jwt and password configuration are required")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.RateLimit == nil {
		opts.RateLimit = ratelimit.LoadConfig()
	}
	rubric := opts.Rubric
	if rubric == nil {
		var err error
		if rubric, err = screening.DefaultRubric(); err != nil {
			return nil, fmt.Errorf("failed to load screening rubric: %w", err)
		}
	}

	// A nil Notifier must stay a nil interface for the services.
	var appNotifier applications.Notifier
	var noteNotifier screening.Notifier
	if opts.Notifier != nil {
		appNotifier = opts.Notifier
		noteNotifier = opts.Notifier
	}

	s := &Server{
		store:        opts.Store,
		rateLimiter:  ratelimit.NewLimiter(opts.RateLimit),
		jwtService:   NewJWTService(opts.JWT),
		listings:     listings.NewService(opts.Store),
		applications: applications.NewService(opts.Store, appNotifier, opts.Location),
		interviews:   interviews.NewService(opts.Store, opts.Location),
		screening:    screening.NewService(opts.Store, noteNotifier, rubric),
	}
	s.authHandler = NewAuthHandler(NewAdminService(opts.Store, opts.Passwords), s.jwtService)

	validator := s.jwtService.AsTokenValidator()
	s.applicant = middleware.RequireIdentity(validator)
	s.admin = middleware.RequireAdmin(validator)

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /admin/login", s.authHandler.Login)

	// Public job catalogue
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{slug}", s.handleGetJob)

	// Applicant endpoints
	mux.Handle("POST /applications", s.applicant(http.HandlerFunc(s.handleSubmitApplication)))
	mux.Handle("GET /applications", s.applicant(http.HandlerFunc(s.handleMyApplications)))
	mux.Handle("GET /interviews/slots", s.applicant(http.HandlerFunc(s.handleListSlots)))
	mux.Handle("POST /interviews/slots", s.applicant(http.HandlerFunc(s.handleBookSlot)))
	mux.Handle("GET /interviews/check-booked", s.applicant(http.HandlerFunc(s.handleCheckBooked)))

	// Admin interview management
	mux.Handle("GET /admin/interviews/availability", s.admin(http.HandlerFunc(s.handleListAvailability)))
	mux.Handle("POST /admin/interviews/availability", s.admin(http.HandlerFunc(s.handleCreateAvailability)))
	mux.Handle("PATCH /admin/interviews/slots/{id}", s.admin(http.HandlerFunc(s.handleUpdateSlot)))
	mux.Handle("DELETE /admin/interviews/slots/{id}", s.admin(http.HandlerFunc(s.handleDeleteSlot)))

	// Admin application review
	mux.Handle("GET /admin/applications", s.admin(http.HandlerFunc(s.handleListApplications)))
	mux.Handle("GET /admin/applications/{id}", s.admin(http.HandlerFunc(s.handleGetApplication)))
	mux.Handle("GET /admin/overview", s.admin(http.HandlerFunc(s.handleOverview)))
	mux.Handle("GET /admin/applications/{id}/decision", s.admin(http.HandlerFunc(s.handleGetDecision)))
	mux.Handle("POST /admin/applications/{id}/decision", s.admin(http.HandlerFunc(s.handleDecide)))

	// Screening
	mux.Handle("GET /admin/applications/{id}/screening", s.admin(http.HandlerFunc(s.handleListNotes)))
	mux.Handle("POST /admin/applications/{id}/screening", s.admin(http.HandlerFunc(s.handleUpsertNote)))
	mux.Handle("GET /admin/applications/{id}/screening/summary", s.admin(http.HandlerFunc(s.handleScreeningSummary)))
	mux.Handle("POST /admin/screening/suggest", s.admin(http.HandlerFunc(s.handleSuggestScore)))
	mux.Handle("GET /admin/screening/rubric", s.admin(http.HandlerFunc(s.handleRubric)))

	// Job import
	mux.Handle("POST /admin/jobs/import", s.admin(http.HandlerFunc(s.handleImportJobs)))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	s.rateLimiter.Stop()

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status including storage reachability
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		log.Printf("[http] health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// writeError maps err to a status and error body. Internal errors are logged.
func writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[http] internal error: %v", err)
	}
	writeJSON(w, status, errorBody(err))
}

// decodeJSON decodes a bounded request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return &ErrBadRequest{Message: "Invalid request body"}
	}
	return nil
}

// pathUUID parses the named path value as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &types.ValidationError{Field: name, Message: "must be a valid UUID"}
	}
	return id, nil
}

// caller returns the authenticated identity set by the auth middleware.
func caller(r *http.Request) types.Identity {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		return types.Identity{}
	}
	return identity
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		retry := int(info.RetryAfter.Seconds())
		if retry < 1 {
			retry = 1
		}
		response["retry_after"] = retry
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retry))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	writeJSON(w, http.StatusTooManyRequests, response)
}
