package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"comex/internal/bootstrap"
	"comex/internal/config"
	natsevents "comex/internal/events/nats"
	"comex/internal/extractor"
	"comex/internal/logger"
	"comex/internal/observability/metrics"
	"comex/internal/port"
	"comex/internal/processor"
	"comex/internal/prompt"
	"comex/internal/registry"
	"comex/internal/repository/postgres"
	"comex/internal/service"
	s3storage "comex/internal/storage/s3"
	"comex/internal/validator"
)

// app owns the process-wide collaborators built from config.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	db      *sqlx.DB
	closers []func()
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return &app{cfg: cfg, log: log, metrics: metrics.New()}, nil
}

func (a *app) connectDB() error {
	if a.db != nil {
		return nil
	}
	db, err := postgres.NewDB(&a.cfg.DB)
	if err != nil {
		return err
	}
	a.db = db
	a.closers = append(a.closers, func() { _ = db.Close() })
	return nil
}

// registry bootstraps every document type. The NCM table is loaded only when a database is connected.
func (a *app) registry(ctx context.Context) (*registry.Registry, error) {
	catalog, err := prompt.Load(a.cfg.Processing.PromptCatalog)
	if err != nil {
		return nil, err
	}
	opts := processor.Options{
		Catalog:     catalog,
		MaxFileSize: a.cfg.Processing.MaxFileSizeBytes(),
		Tolerances:  validator.NewTolerances(a.cfg.Tolerance.Amount, a.cfg.Tolerance.TaxAllocation, a.cfg.Tolerance.Weight),
	}
	if a.db != nil {
		lookup, err := bootstrap.LoadNCM(ctx, postgres.NewNCMRepo(a.db), a.log)
		if err != nil {
			return nil, err
		}
		opts.NCM = lookup
	}
	return bootstrap.Initialize(opts, a.log)
}

// extractor chains the configured endpoints behind circuit breakers. Nil when none is configured.
func (a *app) extractor() port.StepExtractor {
	ec := a.cfg.Extractor
	if ec.Endpoint == "" {
		return nil
	}
	primary := extractor.NewBreaker(extractor.NewClient(&ec), ec.BreakerMaxFailures, ec.BreakerTimeout, a.log)
	if ec.FallbackEndpoint == "" {
		return primary
	}
	fc := ec
	fc.Endpoint = ec.FallbackEndpoint
	secondary := extractor.NewBreaker(extractor.NewClient(&fc), ec.BreakerMaxFailures, ec.BreakerTimeout, a.log)
	return extractor.NewFallback(
		[]port.StepExtractor{primary, secondary},
		[]string{"primary", "fallback"},
		a.log,
	)
}

// service builds the document service. Persistence-side collaborators are attached when withStore is set.
func (a *app) service(ctx context.Context, withStore bool) (service.DocumentService, *registry.Registry, error) {
	deps := service.Deps{
		Extractor: a.extractor(),
		Metrics:   a.metrics,
		Logger:    a.log,
	}
	if withStore {
		if err := a.connectDB(); err != nil {
			return nil, nil, err
		}
		deps.Repo = postgres.NewDocumentRepo(a.db)

		if a.cfg.S3.Enabled {
			archive, err := s3storage.NewStepArchive(ctx, &a.cfg.S3)
			if err != nil {
				return nil, nil, fmt.Errorf("initializing step archive: %w", err)
			}
			deps.Archive = archive
		}
		if a.cfg.NATS.Enabled {
			pub, err := natsevents.Connect(a.cfg.NATS.URL, a.cfg.NATS.Subject, natsevents.Options{}, a.log)
			if err != nil {
				return nil, nil, err
			}
			deps.Publisher = pub
			a.closers = append(a.closers, pub.Close)
		}
	}

	reg, err := a.registry(ctx)
	if err != nil {
		return nil, nil, err
	}
	deps.Processors = reg
	return service.NewDocumentService(deps), reg, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.log.Sync()
}
