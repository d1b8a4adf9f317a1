package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apphandler "visadesk/internal/application/handler"
	appmetrics "visadesk/internal/application/metrics"
	appmodels "visadesk/internal/application/models"
	appservice "visadesk/internal/application/service"
	appstore "visadesk/internal/application/store"
	cataloghandler "visadesk/internal/catalog/handler"
	clienthandler "visadesk/internal/client/handler"
	clientmodels "visadesk/internal/client/models"
	clientservice "visadesk/internal/client/service"
	"visadesk/internal/compliance"
	compliancehandler "visadesk/internal/compliance/handler"
	dashhandler "visadesk/internal/dashboard/handler"
	dashservice "visadesk/internal/dashboard/service"
	dochandler "visadesk/internal/document/handler"
	docmodels "visadesk/internal/document/models"
	docservice "visadesk/internal/document/service"
	jwttoken "visadesk/internal/jwt_token"
	"visadesk/internal/notify"
	notifyhandler "visadesk/internal/notify/handler"
	"visadesk/internal/platform/config"
	"visadesk/internal/platform/httpserver"
	"visadesk/internal/platform/logger"
	platformmetrics "visadesk/internal/platform/metrics"
	"visadesk/internal/platform/postgres"
	platformredis "visadesk/internal/platform/redis"
	"visadesk/internal/platform/tracing"
	"visadesk/internal/seed"
	settingshandler "visadesk/internal/settings/handler"
	settingsmodels "visadesk/internal/settings/models"
	settingsservice "visadesk/internal/settings/service"
	settingsstore "visadesk/internal/settings/store"
	"visadesk/internal/storage"
	httptransport "visadesk/internal/transport/http"
	"visadesk/internal/wizard"
	wizardhandler "visadesk/internal/wizard/handler"
	wizardmetrics "visadesk/internal/wizard/metrics"
	wizardservice "visadesk/internal/wizard/service"
	wizardstore "visadesk/internal/wizard/store"
)

// Per-operation delays of the in-memory collections.
var (
	clientLatency      = storage.Latency{List: 300 * time.Millisecond, Get: 200 * time.Millisecond, Create: 500 * time.Millisecond, Update: 400 * time.Millisecond, Delete: 300 * time.Millisecond}
	applicationLatency = storage.Latency{List: 400 * time.Millisecond, Get: 200 * time.Millisecond, Create: 600 * time.Millisecond, Update: 500 * time.Millisecond, Delete: 400 * time.Millisecond}
	documentLatency    = storage.Latency{List: 350 * time.Millisecond, Get: 200 * time.Millisecond, Create: 500 * time.Millisecond, Update: 400 * time.Millisecond, Delete: 300 * time.Millisecond}
)

const (
	draftSweepInterval = 5 * time.Minute
	reminderInterval   = time.Hour
	kafkaTopicTimeout  = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		log := logger.New(cfg.LogFormat, cfg.LogLevel)
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

// closer collects shutdown steps and runs them in reverse order.
type closer []func()

func (c *closer) add(f func()) { *c = append(*c, f) }

func (c closer) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	var cleanup closer
	defer cleanup.run()

	shutdownTracing, err := tracing.Setup(ctx, cfg.OTelEndpoint, "visadesk")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	cleanup.add(func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("flush traces failed", "error", err)
		}
	})

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	scale := 1.0
	if !cfg.SimulateLatency {
		scale = 0
	}
	now := time.Now()
	checks := map[string]httptransport.Check{}

	clients := storage.NewCollection[clientmodels.Client](storage.WithLatency(clientLatency.Scale(scale)))
	documents := storage.NewCollection[docmodels.Document](storage.WithLatency(documentLatency.Scale(scale)))
	if cfg.Seed {
		seed.Collections(now, clients, nil, documents)
	}

	apps, err := openApplicationStore(ctx, cfg, scale, now, checks, &cleanup, log)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	rc, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc != nil {
		cleanup.add(func() { _ = rc.Close() })
		checks["redis"] = rc.Health
	}
	drafts := openDraftStore(cfg, rc, g, gctx, log)

	// Settings come first: the saved notification preferences gate the publisher.
	var settingsStore settingsservice.Store = settingsstore.NewInMemory(settingsmodels.Default())
	if rc != nil {
		settingsStore = settingsstore.NewRedis(rc.Client, settingsmodels.Default())
	}
	current, err := settingsStore.Get(ctx)
	if err != nil {
		return err
	}
	gate := settingsservice.NewGate(current.Notifications)

	// Notifications.
	notifyMetrics := notify.NewMetrics(reg)
	publisher := notify.NewPublisher(cfg.NotifyBuffer,
		notify.WithPublisherLogger(log),
		notify.WithPublisherMetrics(notifyMetrics),
		notify.WithFilter(gate),
	)
	feed := notify.NewFeed(cfg.NotifyKeep)
	logSink := notify.NewLogSink(log)
	sinks := []notify.Sink{feed}
	if len(cfg.Kafka.Brokers) > 0 {
		kc, err := notify.NewKafkaClient(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		cleanup.add(kc.Close)
		topicCtx, cancel := context.WithTimeout(ctx, kafkaTopicTimeout)
		created, err := notify.EnsureTopic(topicCtx, kc, cfg.Kafka.Topic)
		cancel()
		switch {
		case err != nil:
			log.Warn("kafka topic not created, relying on broker auto-creation", "topic", cfg.Kafka.Topic, "error", err)
		case created:
			log.Info("created kafka topic", "topic", cfg.Kafka.Topic)
		}
		sinks = append(sinks, notify.NewKafkaSink(kc, cfg.Kafka.Topic,
			notify.WithFallback(logSink),
			notify.WithKafkaLogger(log),
			notify.WithKafkaMetrics(notifyMetrics),
		))
		log.Info("kafka notification sink enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		sinks = append(sinks, logSink)
	}
	worker := notify.NewWorker(publisher.Inbox(), log, notifyMetrics, sinks...)

	// Domain services.
	clientSvc := clientservice.New(clients,
		clientservice.WithLogger(log),
		clientservice.WithNotifier(publisher),
	)
	appSvc := appservice.New(apps,
		appservice.WithLogger(log),
		appservice.WithMetrics(appmetrics.New(reg)),
		appservice.WithNotifier(publisher),
		appservice.WithClientDirectory(clientSvc),
		appservice.WithDefaultAgent(cfg.DefaultAgent),
	)
	docSvc := docservice.New(documents,
		docservice.WithLogger(log),
		docservice.WithNotifier(publisher),
		docservice.WithApplicationDirectory(appSvc),
	)
	wizardSvc, err := wizardservice.New(wizard.NewMachine(cat), drafts, appSvc,
		wizardservice.WithLogger(log),
		wizardservice.WithMetrics(wizardmetrics.New(reg)),
		wizardservice.WithNotifier(publisher),
		wizardservice.WithClientDirectory(clientSvc),
	)
	if err != nil {
		return err
	}
	complianceSvc := compliance.NewService(cat)
	dashboardSvc := dashservice.New(clientSvc, appSvc,
		dashservice.WithDocuments(docSvc),
		dashservice.WithDeadlines(complianceSvc),
		dashservice.WithLogger(log),
		dashservice.WithNotifier(publisher),
	)
	settingsSvc := settingsservice.New(settingsStore,
		settingsservice.WithLogger(log),
		settingsservice.WithNotifier(publisher),
		settingsservice.WithGate(gate),
	)

	opts := httptransport.Options{
		Logger:         log,
		Metrics:        platformmetrics.New(reg),
		Gatherer:       reg,
		RequestTimeout: cfg.RequestTimeout,
		DefaultAgent:   cfg.DefaultAgent,
		Checks:         checks,
	}
	if cfg.AuthEnabled() {
		opts.Validator = jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer))
	}
	router := httptransport.NewRouter(opts,
		cataloghandler.New(cat, log),
		clienthandler.New(clientSvc, log),
		apphandler.New(appSvc, log),
		dochandler.New(docSvc, log),
		wizardhandler.New(wizardSvc, log),
		compliancehandler.New(complianceSvc, log),
		dashhandler.New(dashboardSvc, log),
		settingshandler.New(settingsSvc, log),
		notifyhandler.New(feed),
	)
	srv := httpserver.New(cfg.Addr, router)

	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.ShutdownTimeout, log)
	})
	g.Go(func() error {
		return ignoreCanceled(worker.Run(gctx))
	})
	g.Go(func() error {
		return ignoreCanceled(dashboardSvc.StartReminders(gctx, reminderInterval))
	})

	log.Info("visadesk started",
		"addr", cfg.Addr,
		"store", cfg.Store,
		"auth", cfg.AuthEnabled(),
		"simulate_latency", cfg.SimulateLatency,
	)
	err = g.Wait()
	publisher.Close()
	return err
}

func openApplicationStore(ctx context.Context, cfg config.Config, scale float64, now time.Time, checks map[string]httptransport.Check, cleanup *closer, log *slog.Logger) (appservice.Store, error) {
	if cfg.Store == config.StoreMemory {
		apps := storage.NewCollection[appmodels.Application](storage.WithLatency(applicationLatency.Scale(scale)))
		if cfg.Seed {
			seed.Collections(now, nil, apps, nil)
		}
		return apps, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	cleanup.add(func() { _ = db.Close() })
	checks["postgres"] = db.PingContext

	pg := appstore.NewPostgres(db)
	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	if cfg.Seed {
		seeded, err := pg.SeedIfEmpty(ctx, seed.Applications(now)...)
		if err != nil {
			return nil, err
		}
		if seeded {
			log.Info("seeded application table")
		}
	}
	return pg, nil
}

// openDraftStore keeps drafts in redis when it is configured, otherwise in
// memory with a background sweep.
func openDraftStore(cfg config.Config, rc *platformredis.Client, g *errgroup.Group, gctx context.Context, log *slog.Logger) wizardservice.DraftStore {
	if rc != nil {
		log.Info("wizard drafts in redis", "ttl", cfg.DraftTTL)
		return wizardstore.NewRedis(rc.Client, cfg.DraftTTL)
	}

	mem := wizardstore.NewInMemory(cfg.DraftTTL)
	g.Go(func() error {
		return ignoreCanceled(mem.StartCleanup(gctx, draftSweepInterval))
	})
	return mem
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
