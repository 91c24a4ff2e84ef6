package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"catalog-crawler/internal/config"
	"catalog-crawler/internal/crawler"
	"catalog-crawler/internal/crawler/engine"
	"catalog-crawler/internal/logger"
	"catalog-crawler/internal/scheduler"
	"catalog-crawler/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := rootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "crawler",
		Short: "Crawl the product catalog now and then every week",
		Long: `Runs a full catalog crawl immediately, then again at the configured weekly
trigger (SCHEDULE_DAY at SCHEDULE_AT) until interrupted. Results are written
to OUTPUT_FILE and, when DB_URL is set, stored as a Postgres snapshot.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *app) error {
				schedule, err := scheduler.Weekly(app.cfg.ScheduleDay.Weekday(), app.cfg.ScheduleAt.Hour, app.cfg.ScheduleAt.Minute)
				if err != nil {
					return err
				}
				app.logger.Info("Scheduler is running",
					zap.Stringer("day", app.cfg.ScheduleDay.Weekday()),
					zap.Stringer("at", app.cfg.ScheduleAt))
				return scheduler.New(schedule, app.runPass, scheduler.WithLogger(app.logger)).Run(ctx)
			})
		},
	}

	root.AddCommand(&cobra.Command{
		Use:          "once",
		Short:        "Run a single crawl pass and exit",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *app) error {
				// Scrape failures are logged, not turned into an exit status.
				_ = app.runPass(ctx)
				return nil
			})
		},
	})

	return root
}

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	engine *engine.Engine
}

func (a *app) runPass(ctx context.Context) error {
	_, err := a.engine.Run(ctx)
	return err
}

// withApp loads configuration, wires the pipeline and runs fn until SIGINT/SIGTERM.
func withApp(parent context.Context, fn func(context.Context, *app) error) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	sinks := []engine.Sink{
		storage.NewExcelSink(cfg.OutputFile),
		storage.NewSummarySink(os.Stdout),
	}

	if cfg.DatabaseURL != "" {
		db, err := storage.WaitForDB(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Error("Database unavailable", zap.Error(err))
			return err
		}
		defer db.Close()

		pg := storage.NewPostgresSink(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("Database schema", zap.Error(err))
			return err
		}
		sinks = append(sinks, pg)
	}

	rules := crawler.SiteRules{
		BaseURL:        cfg.BaseURL,
		CategoryMarker: cfg.CategoryMarker,
		ProductPrefix:  cfg.ProductPrefix,
		PriceClass:     cfg.PriceClass,
	}
	parser := crawler.NewParser(cfg.UserAgent, cfg.HTTPTimeout)

	a := &app{
		cfg:    cfg,
		logger: log,
		engine: engine.NewEngine(
			crawler.NewCategoryDiscoverer(parser, rules, cfg.CatalogURL(), log),
			crawler.NewLinkCollector(parser, rules, log),
			crawler.NewProductExtractor(parser, rules, log),
			log,
			sinks...,
		),
	}

	err = fn(ctx, a)
	log.Info("Shutting down")
	return err
}
