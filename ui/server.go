package ui

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sheetlens/app"
	"sheetlens/internal/logx"
	"sheetlens/ports"
)

// App is the HTTP surface over the analysis engine: upload-and-analyze,
// aggregation series, saved dashboards, and insight generation.
type App struct {
	router   *chi.Mux
	analysis *app.AnalysisService
	insights *app.InsightService
	store    ports.DashboardStore
	reader   ports.DatasetReader

	maxUploadBytes int64
	log            *logx.Logger
}

// Config holds HTTP application configuration
type Config struct {
	Port           string
	MaxUploadBytes int64
}

// NewApp wires the HTTP application
func NewApp(cfg Config, analysisSvc *app.AnalysisService, insightSvc *app.InsightService, store ports.DashboardStore, reader ports.DatasetReader, log *logx.Logger) *App {
	if log == nil {
		log = logx.DefaultLogger
	}
	a := &App{
		router:         chi.NewRouter(),
		analysis:       analysisSvc,
		insights:       insightSvc,
		store:          store,
		reader:         reader,
		maxUploadBytes: cfg.MaxUploadBytes,
		log:            log,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Route("/api", func(r chi.Router) {
		r.Post("/datasets/analyze", a.handleAnalyzeUpload)
		r.Post("/datasets/aggregate", a.handleAggregateUpload)
		r.Get("/demo/analysis", a.handleDemoAnalysis)
		r.Post("/insights", a.handleInsights)

		r.Route("/dashboards", func(r chi.Router) {
			r.Get("/", a.handleListDashboards)
			r.Post("/", a.handleCreateDashboard)
			r.Get("/{id}", a.handleGetDashboard)
			r.Delete("/{id}", a.handleDeleteDashboard)
			r.Post("/{id}/versions", a.handleAddVersion)
		})

		r.Get("/health", a.handleHealth)
	})
}

// Router exposes the handler for tests
func (a *App) Router() http.Handler {
	return a.router
}

// Run starts the HTTP server on the given port
func (a *App) Run(port string) error {
	addr := fmt.Sprintf(":%s", port)
	a.log.Info("listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}
