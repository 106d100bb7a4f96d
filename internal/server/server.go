// Package server exposes the deal analysis engine and the saved-deal store
// over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/internal/cache"
	"github.com/iwvelando/deal-analyzer/internal/store"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"go.uber.org/zap"
)

// Options configures the handler returned by NewHandler.
type Options struct {
	MaxBodySize int64
	Version     string
	// Store defaults to an in-memory store.
	Store store.DealStore
	// Cache is optional; nil disables result caching.
	Cache     cache.Cache
	RateLimit RateLimitConfig
	Now       func() time.Time
}

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	engine      *analysis.Engine
	store       store.DealStore
	cache       cache.Cache
	now         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the deal API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	h := &handler{
		logger:      logger,
		maxBodySize: opts.MaxBodySize,
		version:     trimmedVersion,
		engine:      analysis.NewEngine(logger),
		store:       opts.Store,
		cache:       opts.Cache,
		now:         opts.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	if opts.RateLimit.RequestsPerSecond > 0 {
		r.Use(h.rateLimiter(opts.RateLimit))
	}
	r.Use(maxBodySize(opts.MaxBodySize))

	r.Get("/healthz", h.handleHealth)
	r.Post("/deals/analyze", h.handleAnalyze)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)

		r.Post("/deals/analyze", h.handleAnalyze)
		r.Post("/deals/optimize", h.handleOptimize)
		r.Post("/deals/export", h.handleConfigExport)

		r.Get("/deals", h.handleListDeals)
		r.Post("/deals", h.handleCreateDeal)
		r.Route("/deals/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetDeal)
			r.Put("/", h.handleUpdateDeal)
			r.Delete("/", h.handleDeleteDeal)
			r.Get("/analysis", h.handleSavedAnalysis)
			r.Get("/debt", h.handleSavedDebt)
			r.Get("/schedule", h.handleSavedSchedule)
			r.Get("/export.xlsx", h.handleSavedExport)
		})
	})

	return r
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeJSON decodes the request body into v, rejecting unknown fields and
// trailing data.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, op string) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	if decoder.More() {
		h.respondErrorWithOp(w, http.StatusBadRequest, "failed to decode request: unexpected data after JSON body", op)
		return false
	}
	return true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("deal request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	if status >= http.StatusInternalServerError {
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("op", op)
			sentry.CaptureException(errors.New(msg))
		})
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}
