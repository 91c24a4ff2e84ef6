package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-crawler/internal/crawler"
	"catalog-crawler/pkg/models"

	"go.uber.org/zap"
)

// ErrDiscovery wraps the one failure that aborts a whole pass.
var ErrDiscovery = errors.New("category discovery failed")

type Discoverer interface {
	Discover(ctx context.Context) crawler.Step[[]models.Category]
}

type Collector interface {
	Collect(ctx context.Context, categoryURL string) []string
}

type Extractor interface {
	Extract(ctx context.Context, productURL, category string) crawler.Step[models.ProductRecord]
}

// Sink defines how to persist a finished pass.
type Sink interface {
	Name() string
	Save(ctx context.Context, result *models.ResultSet) error
}

// Engine runs one crawl pass: discover, collect, extract, dedup, export.
type Engine struct {
	discoverer Discoverer
	collector  Collector
	extractor  Extractor
	sinks      []Sink
	logger     *zap.Logger
	now        func() time.Time
}

func NewEngine(d Discoverer, c Collector, e Extractor, logger *zap.Logger, sinks ...Sink) *Engine {
	return &Engine{
		discoverer: d,
		collector:  c,
		extractor:  e,
		sinks:      sinks,
		logger:     logger.With(zap.String("component", "engine")),
		now:        time.Now,
	}
}

// Run executes a full pass. Only discovery failure or cancellation returns without a
// result; a failed listing page or product never stops the other categories. Sink
// errors are returned together with the result.
func (engine *Engine) Run(ctx context.Context) (*models.ResultSet, error) {
	result := models.NewResultSet(engine.now())
	log := engine.logger.With(zap.String("run_id", result.RunID.String()))
	log.Info("Starting full scrape")

	discovered := engine.discoverer.Discover(ctx)
	switch discovered.Status {
	case crawler.StatusSuccess:
	case crawler.StatusFatal:
		log.Error("Aborting pass", zap.Error(discovered.Err))
		return nil, fmt.Errorf("%w: %w", ErrDiscovery, discovered.Err)
	default:
		log.Warn("Discovery skipped, nothing to crawl", zap.Error(discovered.Err))
		discovered.Value = nil
	}

	for _, category := range discovered.Value {
		if err := ctx.Err(); err != nil {
			log.Warn("Pass cancelled", zap.Error(err))
			return nil, err
		}

		log.Info("Scraping category", zap.String("category", category.Name), zap.String("url", category.URL))
		for _, link := range engine.collector.Collect(ctx, category.URL) {
			if ctx.Err() != nil {
				break
			}
			step := engine.extractor.Extract(ctx, link, category.Name)
			switch step.Status {
			case crawler.StatusSuccess:
				result.Append(step.Value)
			default:
				log.Debug("Product skipped",
					zap.String("url", link),
					zap.Stringer("status", step.Status),
					zap.Error(step.Err))
			}
		}
	}

	if err := ctx.Err(); err != nil {
		log.Warn("Pass cancelled", zap.Error(err))
		return nil, err
	}

	removed := result.Dedup()
	result.FinishedAt = engine.now()
	log.Info("Scraping complete",
		zap.Int("products", result.Len()),
		zap.Int("duplicates_removed", removed),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))

	return result, engine.export(ctx, log, result)
}

func (engine *Engine) export(ctx context.Context, log *zap.Logger, result *models.ResultSet) error {
	var errs []error
	for _, sink := range engine.sinks {
		if err := sink.Save(ctx, result); err != nil {
			log.Error("Failed to save results", zap.String("sink", sink.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		log.Info("Saved results", zap.String("sink", sink.Name()), zap.Int("rows", result.Len()))
	}
	return errors.Join(errs...)
}
