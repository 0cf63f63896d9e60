package ui

import (
	"bytes"
	"context"
	stderrors "errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"paxboard/app"
	"paxboard/domain/core"
	"paxboard/domain/passenger"
	"paxboard/internal"
	"paxboard/internal/errors"
)

// Server is the gin dashboard: an HTML page plus the JSON, image and export API
type Server struct {
	router    *gin.Engine
	service   *app.DashboardService
	templates *template.Template
	logger    *internal.Logger
	http      *http.Server
}

// NewServer creates the server. Set the gin mode before calling it.
func NewServer(service *app.DashboardService, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		service:   service,
		templates: templates,
		logger:    logger.WithComponent("Server"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)

	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/passengers", s.handlePassengers)
	api.GET("/report", s.handleReport)
	api.GET("/counts/:column", s.handleCounts)
	api.GET("/correlation", s.handleCorrelation)
	api.GET("/charts/:kind", s.handleChart)
	api.GET("/charts/:kind/image", s.handleChartImage)
	api.GET("/export", s.handleExport)

	api.POST("/snapshots", s.handleSaveSnapshot)
	api.GET("/snapshots", s.handleListSnapshots)
	api.GET("/snapshots/:id", s.handleGetSnapshot)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting dashboard on http://%s", addr)
	if err := s.http.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) fail(c *gin.Context, err error) {
	status, body := errorResponse(s.logger, err)
	c.AbortWithStatusJSON(status, body)
}

// criteria parses the filter parameters of the request.
func (s *Server) criteria(c *gin.Context) (*passenger.Criteria, bool) {
	ctx := c.Request.Context()
	criteria, err := parseCriteria(c.Request.URL.Query(), func() (passenger.Criteria, error) {
		return s.service.DefaultCriteria(ctx)
	})
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return criteria, true
}

func (s *Server) handleIndex(c *gin.Context) {
	page, err := buildDashboard(c.Request.Context(), s.service, c.Request.URL.Query(), func(name, query string) string {
		return "/api/charts/" + name + "/image?" + query
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderTemplate(c, "dashboard.html", page)
}

// renderTemplate executes a template into a buffer first so errors never
// produce a half-written page.
func (s *Server) renderTemplate(c *gin.Context, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template %s failed: %v", name, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Error: "template rendering failed", Code: errors.CodeInternalError})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"source":  s.service.Source(),
		"archive": s.service.ArchiveEnabled(),
		"loaded":  false,
	}
	if at, ok := s.service.LoadedAt(); ok {
		body["loaded"] = true
		body["loaded_at"] = at
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handlePassengers(c *gin.Context) {
	criteria, ok := s.criteria(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	view, err := s.service.Filter(ctx, criteria)
	if err != nil {
		s.fail(c, err)
		return
	}
	rows := view.Table
	if _, limited := c.GetQuery(paramRows); limited {
		n, err := intParam(c.Request.URL.Query(), paramRows)
		if err != nil {
			s.fail(c, err)
			return
		}
		if rows, err = s.service.Preview(ctx, criteria, n); err != nil {
			s.fail(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    view.Total,
		"matched":  view.Table.Len(),
		"criteria": view.Criteria,
		"columns":  rows.Names(),
		"rows":     rows.Rows(),
	})
}

func (s *Server) handleReport(c *gin.Context) {
	criteria, ok := s.criteria(c)
	if !ok {
		return
	}
	summary, err := s.service.Report(c.Request.Context(), criteria)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleCounts(c *gin.Context) {
	criteria, ok := s.criteria(c)
	if !ok {
		return
	}
	column := c.Param("column")
	counts, err := s.service.Counts(c.Request.Context(), criteria, column)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"column": column, "counts": counts})
}

func (s *Server) handleCorrelation(c *gin.Context) {
	criteria, ok := s.criteria(c)
	if !ok {
		return
	}
	matrix, err := s.service.Correlation(c.Request.Context(), criteria)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, matrix)
}

func (s *Server) handleChart(c *gin.Context) {
	criteria, ok := s.criteria(c)
	if !ok {
		return
	}
	opts, err := chartOptions(c.Request.URL.Query())
	if err != nil {
		s.fail(c, err)
		return
	}
	spec, err := s.service.Chart(c.Request.Context(), criteria, c.Param("kind"), opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, spec)
}

// handleChartImage answers 204 when the filters leave nothing to draw.
func (s *Server) handleChartImage(c *gin.Context) {
	criteria, ok := s.criteria(c)
	if !ok {
		return
	}
	opts, err := chartOptions(c.Request.URL.Query())
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	err = s.service.ChartImage(c.Request.Context(), criteria, c.Param("kind"), opts, &buf)
	if stderrors.Is(err, core.ErrEmptyChart) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, s.service.ImageContentType(), buf.Bytes())
}

func (s *Server) handleExport(c *gin.Context) {
	criteria, ok := s.criteria(c)
	if !ok {
		return
	}
	rows, err := intParam(c.Request.URL.Query(), paramRows)
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := s.service.Export(c.Request.Context(), criteria, rows, &buf); err != nil {
		s.fail(c, err)
		return
	}
	contentType, ext := s.service.ExportFormat()
	c.Header("Content-Disposition", `attachment; filename="passengers-report`+ext+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// handleSaveSnapshot takes the criteria from a JSON body when one is sent
// and from the query string otherwise. Either way, what is left out keeps the
// default criteria.
func (s *Server) handleSaveSnapshot(c *gin.Context) {
	var criteria *passenger.Criteria
	if c.ContentType() == gin.MIMEJSON && c.Request.ContentLength != 0 {
		var body criteriaBody
		if err := c.ShouldBindJSON(&body); err != nil {
			s.fail(c, errors.InvalidInput("invalid criteria body: "+err.Error()))
			return
		}
		ctx := c.Request.Context()
		merged, err := body.merge(func() (passenger.Criteria, error) {
			return s.service.DefaultCriteria(ctx)
		})
		if err != nil {
			s.fail(c, err)
			return
		}
		criteria = merged
	} else {
		var ok bool
		if criteria, ok = s.criteria(c); !ok {
			return
		}
	}

	snapshot, err := s.service.SaveSnapshot(c.Request.Context(), criteria)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

func (s *Server) handleListSnapshots(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		s.fail(c, errors.InvalidInput("limit must be an integer"))
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		s.fail(c, errors.InvalidInput("offset must be an integer"))
		return
	}

	snapshots, err := s.service.ListSnapshots(c.Request.Context(), limit, offset)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots, "limit": limit, "offset": offset})
}

func (s *Server) handleGetSnapshot(c *gin.Context) {
	id, err := core.ParseSnapshotID(c.Param("id"))
	if err != nil {
		s.fail(c, errors.InvalidInput(err.Error()))
		return
	}
	snapshot, err := s.service.GetSnapshot(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
