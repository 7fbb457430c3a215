package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/animakit/anima/internal/api/handlers"
	mw "github.com/animakit/anima/internal/api/middleware"
	"github.com/animakit/anima/internal/buildconfig"
	"github.com/animakit/anima/internal/domain"
	"github.com/animakit/anima/internal/service"
)

// Deps carries everything the HTTP surface needs. Stores and the soul
// service are constructed by the caller so tests can swap any of them.
type Deps struct {
	SoulService    *service.SoulService
	Journal        domain.JournalStore
	Logger         *zap.Logger
	AdminToken     string
	RateLimitRPS   float64
	RateLimitBurst int
}

// App holds the router plus the counters the metrics endpoint reports.
type App struct {
	Router *chi.Mux

	svc          *service.SoulService
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	app := &App{
		Router:    r,
		svc:       deps.SoulService,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(deps.RateLimitRPS, deps.RateLimitBurst))

	// Health and metrics (no auth)
	r.Get("/health", app.healthHandler)
	r.Get("/metrics", app.metricsHandler)

	soulHandler := handlers.NewSoulHandler(deps.SoulService)
	r.Route("/souls/{name}", func(r chi.Router) {
		r.Use(soulGuard(deps.SoulService))

		r.Get("/state", soulHandler.State)
		if deps.Journal != nil {
			journalHandler := handlers.NewJournalHandler(deps.Journal)
			r.Get("/journal", journalHandler.Recent)
		}

		// Mutating endpoints sit behind the optional admin token.
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireToken(deps.AdminToken))
			r.Post("/perceive", soulHandler.Perceive)
			r.Post("/transition", soulHandler.Transition)
			r.Post("/memory", soulHandler.AddMemory)
		})
	})

	return app
}

// soulGuard rejects requests addressed to a soul this process does not
// host. The name comparison is case-insensitive.
func soulGuard(svc *service.SoulService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := chi.URLParam(r, "name")
			if svc == nil || !strings.EqualFold(name, svc.Name()) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown soul"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	if app.svc == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"error":  "no soul attached",
		})
		return
	}
	if _, err := app.svc.State(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"soul":    app.svc.Name(),
		"version": buildconfig.Version(),
	})
}

func (app *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	uptime := time.Since(app.startTime)

	response := map[string]any{
		"uptime_seconds": uptime.Seconds(),
		"uptime_human":   uptime.Round(time.Second).String(),
		"request_count":  app.requestCount.Load(),
		"error_count":    app.errorCount.Load(),
		"goroutines":     runtime.NumGoroutine(),
		"memory": map[string]any{
			"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
			"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
			"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
			"num_gc":         memStats.NumGC,
		},
		"go_version": runtime.Version(),
	}

	if app.svc != nil {
		if state, err := app.svc.State(r.Context()); err == nil {
			response["soul"] = map[string]any{
				"name":             state.Name,
				"mental_process":   state.MentalProcess,
				"working_memory":   state.WorkingMemorySize,
				"long_term_memory": state.LongTermMemorySize,
			}
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
