package ui

import (
	"bytes"
	stderrors "errors"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"paxboard/app"
	"paxboard/domain/core"
	"paxboard/domain/passenger"
	"paxboard/internal"
)

// App is the read-only chi dashboard: the HTML page and its chart images,
// without export or snapshots.
type App struct {
	router    *chi.Mux
	service   *app.DashboardService
	templates *template.Template
	logger    *internal.Logger
}

// NewApp creates a new UI application
func NewApp(service *app.DashboardService, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		templates: templates,
		logger:    logger.WithComponent("App"),
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5, "text/html", "application/json"))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/health", a.handleHealth)
	a.router.Get("/charts/{name}.png", a.handleChartImage)
}

// ServeHTTP lets the App be used as a handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := buildDashboard(r.Context(), a.service, r.URL.Query(), func(name, query string) string {
		return "/charts/" + name + ".png?" + query
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	page.ReadOnly = true
	a.renderTemplate(w, "dashboard.html", page)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, loaded := a.service.LoadedAt()
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"source": a.service.Source(),
		"loaded": loaded,
	})
}

func (a *App) handleChartImage(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(chi.URLParam(r, "name"), ".png")
	q := r.URL.Query()

	criteria, err := parseCriteria(q, func() (passenger.Criteria, error) {
		return a.service.DefaultCriteria(r.Context())
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	opts, err := chartOptions(q)
	if err != nil {
		a.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	err = a.service.ChartImage(r.Context(), criteria, name, opts, &buf)
	if stderrors.Is(err, core.ErrEmptyChart) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", a.service.ImageContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		a.logger.Error("template %s failed: %v", name, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("failed to encode response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	status, body := errorResponse(a.logger, err)
	a.writeJSON(w, status, body)
}
