package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"paxboard/adapters/api"
	"paxboard/adapters/excel"
	"paxboard/adapters/postgres"
	"paxboard/adapters/render"
	"paxboard/app"
	"paxboard/internal"
	"paxboard/internal/cache"
	"paxboard/internal/config"
	"paxboard/internal/loader"
	"paxboard/internal/migration"
	"paxboard/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Data path
	FileReader *excel.DataReader
	HTTPReader *api.HTTPReader
	Loader     *loader.Loader
	Cache      *cache.TableCache

	// Outputs
	Renderer ports.ChartRenderer
	Exporter ports.ReportExporter
	Archive  ports.ReportArchive

	// Background refresh, started by StartBackground
	Watcher   *cache.Watcher
	Refresher *cache.Refresher

	service *app.DashboardService
}

// New creates a new dependency injection container. The snapshot archive
// stays disabled until InitWithDatabase runs.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

	httpConfig := api.DefaultSourceConfig()
	httpConfig.Timeout = cfg.Data.HTTPTimeout
	httpConfig.DataPath = cfg.Data.JSONDataPath
	if err := httpConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid HTTP source configuration: %w", err)
	}

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		FileReader: excel.NewDataReader(logger),
		HTTPReader: api.NewHTTPReader(httpConfig, logger),
		Renderer:   render.NewPNGRenderer(render.DefaultConcurrency, logger),
		Exporter:   excel.NewExporter(),
	}
	c.Loader = loader.New(logger, c.FileReader, c.HTTPReader)
	c.Cache = cache.New(c.Loader.Load, logger)

	return c, nil
}

// OpenDatabase connects to DATABASE_URL when one is configured and
// initializes the archive. Without a URL it does nothing.
func (c *Container) OpenDatabase(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		c.Logger.Info("DATABASE_URL not set, snapshot archive disabled")
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := c.InitWithDatabase(ctx, db); err != nil {
		db.Close()
		return err
	}
	return nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	c.DB = db
	c.Archive = postgres.NewReportRepository(db)
	c.service = nil

	c.Logger.Info("snapshot archive ready (schema %s)", runner.Version())
	return nil
}

// Service returns the dashboard service over the configured source
func (c *Container) Service() *app.DashboardService {
	if c.service == nil {
		c.service = app.NewDashboardService(app.DashboardConfig{
			Source:      c.Config.Data.Source,
			Cache:       c.Cache,
			Renderer:    c.Renderer,
			Exporter:    c.Exporter,
			Archive:     c.Archive,
			PreviewRows: c.Config.Data.PreviewRows,
			Bins:        c.Config.Data.HistogramBins,
			Logger:      c.Logger,
		})
	}
	return c.service
}

// Warm loads the source once so that configuration errors surface at
// startup. A failed load is not cached and is retried on the next request.
func (c *Container) Warm(ctx context.Context) error {
	start := time.Now()
	t, err := c.Cache.Get(ctx, c.Config.Data.Source)
	if err != nil {
		return err
	}
	c.Logger.Info("loaded %s: %d rows in %s", c.Config.Data.Source, t.Len(), time.Since(start).Round(time.Millisecond))
	return nil
}

// StartBackground starts the file watcher for local sources and the
// scheduled refresh when an interval is configured.
func (c *Container) StartBackground() error {
	source := c.Config.Data.Source

	if c.Config.Data.Watch && c.FileReader.Supports(source) {
		w, err := cache.NewWatcher(c.Cache, source, c.Logger)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", source, err)
		}
		c.Watcher = w
	}

	if c.Config.Data.RefreshInterval > 0 {
		r, err := cache.NewRefresher(c.Cache, source, c.Config.Data.RefreshInterval, c.Config.Data.HTTPTimeout, c.Logger)
		if err != nil {
			return err
		}
		r.Start()
		c.Refresher = r
	}
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Refresher != nil {
		c.Refresher.Stop()
	}
	if c.Watcher != nil {
		if err := c.Watcher.Close(); err != nil {
			c.Logger.Warn("failed to close watcher: %v", err)
		}
	}

	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
