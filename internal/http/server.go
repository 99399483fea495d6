package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"finch/internal/core"
	"finch/internal/log"
	"finch/internal/services"
)

// AssetStore is the persistence surface the asset and settings handlers
// need. The SQLite repository satisfies it.
type AssetStore interface {
	ListAccounts(ctx context.Context) ([]core.Account, error)
	CreateAccount(ctx context.Context, a core.Account) (int64, error)
	DeleteAccount(ctx context.Context, id int64) error

	ListVehicles(ctx context.Context) ([]core.Vehicle, error)
	CreateVehicle(ctx context.Context, v core.Vehicle) (int64, error)
	UpdateVehicle(ctx context.Context, v core.Vehicle) error
	DeleteVehicle(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) (int64, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListPaymentMethods(ctx context.Context) ([]core.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, m core.PaymentMethod) (int64, error)
	UpdatePaymentMethod(ctx context.Context, m core.PaymentMethod) error
	DeletePaymentMethod(ctx context.Context, id int64) error

	ListInvestments(ctx context.Context) ([]core.Investment, error)
	CreateInvestment(ctx context.Context, inv core.Investment) (int64, error)
	UpdateInvestment(ctx context.Context, inv core.Investment) error
	SaveInvestmentTotals(ctx context.Context, id int64, totals string) error
	DeleteInvestment(ctx context.Context, id int64) error

	GetSettings(ctx context.Context) (map[string]string, error)
	SetSetting(ctx context.Context, key, value string) error
}

type Server struct {
	http.Server
	incomes *services.IncomeService
	sweeper *services.PaymentProcessor
	assets  AssetStore

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, incomes *services.IncomeService, sweeper *services.PaymentProcessor, assets AssetStore) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		incomes:     incomes,
		sweeper:     sweeper,
		assets:      assets,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/income", s.withSecurityHeaders(s.handleIncomeCollection))
	mux.HandleFunc("/api/income/", s.withSecurityHeaders(s.handleIncomeItem))
	mux.HandleFunc("/api/sweep", s.withSecurityHeaders(s.handleSweep))

	mux.HandleFunc("/api/accounts", s.withSecurityHeaders(s.handleAccounts))
	mux.HandleFunc("/api/accounts/", s.withSecurityHeaders(s.handleAccountItem))
	mux.HandleFunc("/api/vehicles", s.withSecurityHeaders(s.handleVehicles))
	mux.HandleFunc("/api/vehicles/", s.withSecurityHeaders(s.handleVehicleItem))
	mux.HandleFunc("/api/categories", s.withSecurityHeaders(s.handleCategories))
	mux.HandleFunc("/api/categories/", s.withSecurityHeaders(s.handleCategoryItem))
	mux.HandleFunc("/api/payment-methods", s.withSecurityHeaders(s.handlePaymentMethods))
	mux.HandleFunc("/api/payment-methods/", s.withSecurityHeaders(s.handlePaymentMethodItem))
	mux.HandleFunc("/api/investments", s.withSecurityHeaders(s.handleInvestments))
	mux.HandleFunc("/api/investments/", s.withSecurityHeaders(s.handleInvestmentItem))
	mux.HandleFunc("/api/settings", s.withSecurityHeaders(s.handleSettings))

	return s
}

// Shutdown stops the rate limiter cleanup and shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit mutating requests only
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, duration.Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
