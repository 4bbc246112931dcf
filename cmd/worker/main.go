package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-project-intel/internal/adapter"
	"github.com/feral-file/ff-project-intel/internal/aggregator"
	"github.com/feral-file/ff-project-intel/internal/config"
	"github.com/feral-file/ff-project-intel/internal/datasource"
	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/enrichment"
	"github.com/feral-file/ff-project-intel/internal/ingest"
	"github.com/feral-file/ff-project-intel/internal/logger"
	"github.com/feral-file/ff-project-intel/internal/notifier"
	"github.com/feral-file/ff-project-intel/internal/scheduler"
	"github.com/feral-file/ff-project-intel/internal/store"
	"github.com/feral-file/ff-project-intel/internal/tasks"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadWorkerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "project-intel-worker",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting project intel worker")

	// Stores
	registry := datasource.NewRegistry()
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := registry.CloseAll(closeCtx); err != nil {
			logger.Error(err, zap.String("component", "registry"))
		}
	}()

	var managerOpts []store.ManagerOption
	if cfg.MongoDB.Host != "" {
		managerOpts = append(managerOpts, store.WithDocumentStore(datasource.FromMongoDB(cfg.MongoDB)))
	} else {
		logger.WarnCtx(ctx, "MongoDB not configured, snapshots and document sources are disabled")
	}
	manager := store.NewManager(registry, store.NewRetryPolicy(cfg.Retry), datasource.FromMySQL(cfg.MySQL), managerOpts...)

	clock := adapter.NewClock()
	stores := store.NewStores(manager, clock, cfg.Ingestion.KOLTweetsTable)
	engine := aggregator.NewEngine(stores.Projects, stores.Snapshots)

	// Enrichment
	analyzer := enrichment.NewAnalyzer(cfg.LLM)
	pool := enrichment.NewPool(analyzer, cfg.Enrichment)
	defer pool.Stop()

	// Messaging
	transport, err := notifier.NewJetStreamTransport(ctx, notifier.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		SubjectPrefix:  cfg.NATS.SubjectPrefix,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
	}, adapter.NewNatsJetStream(), adapter.NewJSON())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer transport.Close()

	// Validate already parsed the timezone
	location, _ := time.LoadLocation(cfg.Schedule.Timezone)
	sched := scheduler.New(scheduler.Config{Location: location}, clock)

	// KOL tweets
	kolSource, err := ingest.NewRelationalSource(manager, cfg.Ingestion.KOLTweetsTable, ingest.DEFAULT_ID_FIELD)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid KOL tweets table", zap.Error(err))
	}
	kolTask, err := tasks.NewKOLTweetTask(kolSource, stores.Checkpoints, cfg.Ingestion.BatchLimit, pool, engine, stores.Structured, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create KOL tweets task", zap.Error(err))
	}
	mustRegister(ctx, sched, cfg.Schedule.KOLTweets, kolTask, true)

	// Extra sources
	for _, src := range cfg.Ingestion.Sources {
		source, sourceDB, err := buildSource(src, manager, cfg)
		if err != nil {
			logger.FatalCtx(ctx, "Invalid ingestion source", zap.Error(err), zap.String("name", src.Name))
		}
		task, err := tasks.NewSourceTask(source, sourceDB, src.ContentField, stores.Checkpoints, cfg.Ingestion.BatchLimit, pool, engine, stores.Structured, clock)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create source task", zap.Error(err), zap.String("name", src.Name))
		}
		mustRegister(ctx, sched, cfg.Schedule.Sources, task, true)
	}

	// Reports
	if cfg.Channels.Daily == "" {
		logger.WarnCtx(ctx, "Daily channel not configured, reports are disabled")
	} else {
		mustRegister(ctx, sched, cfg.Schedule.HourlySummary,
			tasks.NewHourlySummaryTask(stores.Structured, analyzer, engine, transport, cfg.Channels.Daily, clock, location), false)
		mustRegister(ctx, sched, cfg.Schedule.DailyTrends,
			tasks.NewDailyTrendsTask(stores.Structured, transport, cfg.Channels.Daily, clock, location), false)
	}

	sched.Start()

	// Wait for interrupt signal to gracefully shutdown the worker
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	cancel()

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "scheduler"))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("Worker stopped")
}

// buildSource creates the ingestion source for one configured entry and names the database it lives in
func buildSource(src config.SourceConfig, manager *store.Manager, cfg *config.WorkerConfig) (ingest.Source, string, error) {
	kind, err := src.Kind()
	if err != nil {
		return nil, "", err
	}

	switch kind {
	case domain.SourceKindRelational:
		source, err := ingest.NewRelationalSource(manager, src.Name, src.IDField)
		if err != nil {
			return nil, "", err
		}
		return source, cfg.MySQL.DBName, nil
	case domain.SourceKindDocument:
		database := src.Database
		if database == "" {
			database = cfg.MongoDB.Database
		}
		return ingest.NewDocumentSource(manager, database, src.Name, src.IDField), database, nil
	default:
		return nil, "", fmt.Errorf("%w: %s", domain.ErrUnknownSourceKind, src.Type)
	}
}

func mustRegister(ctx context.Context, sched *scheduler.Scheduler, spec string, task tasks.Task, runImmediately bool) {
	if err := sched.Register(spec, task, runImmediately); err != nil {
		logger.FatalCtx(ctx, "Failed to schedule task", zap.Error(err), zap.String("task", task.Name()))
	}
}
