package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"gatehouse/internal/admin"
	adminadapters "gatehouse/internal/admin/adapters"
	adminmodels "gatehouse/internal/admin/models"
	adminservice "gatehouse/internal/admin/service"
	parkingstore "gatehouse/internal/admin/store/parking"
	settingsstore "gatehouse/internal/admin/store/settings"
	"gatehouse/internal/audit"
	auditmemory "gatehouse/internal/audit/store/memory"
	auditpostgres "gatehouse/internal/audit/store/postgres"
	httpapi "gatehouse/internal/http"
	"gatehouse/internal/invitation"
	invitationadapters "gatehouse/internal/invitation/adapters"
	invitationmetrics "gatehouse/internal/invitation/metrics"
	invitationservice "gatehouse/internal/invitation/service"
	invitationstore "gatehouse/internal/invitation/store/invitation"
	jwttoken "gatehouse/internal/jwt_token"
	"gatehouse/internal/notify"
	"gatehouse/internal/platform/config"
	"gatehouse/internal/platform/httpserver"
	"gatehouse/internal/platform/kafka"
	"gatehouse/internal/platform/logger"
	platformmetrics "gatehouse/internal/platform/metrics"
	"gatehouse/internal/platform/otel"
	"gatehouse/internal/platform/postgres"
	platformredis "gatehouse/internal/platform/redis"
	"gatehouse/internal/user"
	usermetrics "gatehouse/internal/user/metrics"
	userservice "gatehouse/internal/user/service"
	userstore "gatehouse/internal/user/store/user"
	"gatehouse/internal/visitor"
	visitoradapters "gatehouse/internal/visitor/adapters"
	visitormetrics "gatehouse/internal/visitor/metrics"
	visitorservice "gatehouse/internal/visitor/service"
	traystore "gatehouse/internal/visitor/store/tray"
	visitorstore "gatehouse/internal/visitor/store/visitor"
	"gatehouse/pkg/platform/circuit"
)

const (
	jwtIssuer       = "gatehouse"
	jwtAudience     = "gatehouse-api"
	auditBufferSize = 1024
	shutdownTimeout = 10 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("gatehouse stopped with error", "error", err)
		os.Exit(1)
	}
}

// seeder is implemented by tray pools that keep state outside the process.
type seeder interface {
	Seed(ctx context.Context) error
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	shutdownTracing, err := otel.Setup(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var health []httpapi.HealthCheck

	var db *sql.DB
	if cfg.Database.URL != "" {
		db, err = postgres.OpenWithConfig(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		health = append(health, httpapi.HealthCheck{Name: "postgres", Check: db.PingContext})
		log.Info("using postgres stores")
	} else {
		log.Warn("DATABASE_URL not set, state is kept in memory")
	}

	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		health = append(health, httpapi.HealthCheck{Name: "redis", Check: rdb.Health})
	}

	var trays visitorservice.TrayPool
	switch {
	case rdb != nil:
		trays = traystore.NewRedis(rdb, cfg.TrayPoolSize)
		log.Info("using redis tray pool", "size", cfg.TrayPoolSize)
	case db != nil:
		trays = traystore.NewPostgres(db, cfg.TrayPoolSize)
	default:
		trays = traystore.NewInMemory(cfg.TrayPoolSize)
	}
	if s, ok := trays.(seeder); ok {
		if err := s.Seed(ctx); err != nil {
			return fmt.Errorf("seed tray pool: %w", err)
		}
	}

	var notifier notify.Notifier = notify.NewLogNotifier(log)
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(ctx, cfg.Kafka.Brokers)
		if err != nil {
			return err
		}
		defer producer.Close()
		if err := producer.EnsureTopic(ctx, cfg.Kafka.Topic, 1, 1); err != nil {
			return err
		}
		notifier = notify.NewFallbackNotifier(
			notify.NewKafkaNotifier(producer, cfg.Kafka.Topic),
			notifier,
			circuit.New("kafka-notifications"),
			log,
		)
		log.Info("publishing notifications to kafka", "topic", cfg.Kafka.Topic)
	}

	var auditStore audit.Store = auditmemory.NewInMemoryStore()
	if db != nil {
		auditStore = auditpostgres.New(db)
	}
	auditor := audit.NewAsyncPublisher(auditStore, auditBufferSize)
	auditWorker := audit.NewWorker(auditStore, auditor.Inbox(), log)

	var (
		parking    adminservice.ParkingStore  = parkingstore.NewInMemory()
		settings   adminservice.SettingsStore = settingsstore.NewInMemory(adminmodels.DefaultSettings())
		users      userservice.Store          = userstore.NewInMemory()
		invites    invitationservice.Store    = invitationstore.NewInMemory()
		visitorsDB visitorservice.Store       = visitorstore.NewInMemory()
	)
	if db != nil {
		parking = parkingstore.NewPostgres(db)
		settings = settingsstore.NewPostgres(db, adminmodels.DefaultSettings())
		users = userstore.NewPostgres(db)
		invites = invitationstore.NewPostgres(db)
		visitorsDB = visitorstore.NewPostgres(db)
	}

	jwt := jwttoken.NewJWTService(cfg.JWTSigningKey, jwtIssuer, jwtAudience)

	adminSvc := adminservice.New(parking, settings,
		adminservice.WithLogger(log),
		adminservice.WithAuditPublisher(auditor),
	)
	userSvc := userservice.New(users, jwt,
		userservice.WithLogger(log),
		userservice.WithAuditPublisher(auditor),
		userservice.WithMetrics(usermetrics.New(reg)),
		userservice.WithTokenTTL(cfg.TokenTTL),
	)
	invitationSvc := invitationservice.New(invites,
		invitationservice.WithLogger(log),
		invitationservice.WithAuditPublisher(auditor),
		invitationservice.WithMetrics(invitationmetrics.New(reg)),
		invitationservice.WithPolicy(invitationadapters.NewSettingsAdapter(adminSvc)),
		invitationservice.WithNotifier(notifier),
		invitationservice.WithLocation(loc),
	)
	visitorSvc := visitorservice.New(visitorsDB, trays,
		visitorservice.WithLogger(log),
		visitorservice.WithAuditPublisher(auditor),
		visitorservice.WithMetrics(visitormetrics.New(reg)),
		visitorservice.WithPolicy(visitoradapters.NewSettingsAdapter(adminSvc)),
	)

	if cfg.Bootstrap.Password != "" {
		if err := userSvc.EnsureBootstrapAdmin(ctx, cfg.Bootstrap.Name, cfg.Bootstrap.Email, cfg.Bootstrap.Password); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	} else {
		log.Warn("BOOTSTRAP_ADMIN_PASSWORD not set, no admin account was ensured")
	}
	if err := visitorSvc.SyncMetrics(ctx); err != nil {
		log.Warn("initial tray metrics sync failed", "error", err)
	}

	userHandler := user.NewHandler(userSvc, log)
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:    log,
		Validator: jwttoken.NewJWTServiceAdapter(jwt),
		Accounts:  userSvc,
		Latency:   platformmetrics.New(reg),
		Gatherer:  reg,
		Public:    []httpapi.PublicRegistrar{userHandler},
		Modules: []httpapi.RouteRegistrar{
			userHandler,
			invitation.NewHandler(invitationSvc, log),
			visitor.NewHandler(visitorSvc, log),
			admin.NewHandler(adminSvc, adminadapters.NewUserAdapter(userSvc), auditor, log),
		},
		Health: health,
	})
	srv := httpserver.New(cfg.Addr, router, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting gatehouse", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down gatehouse")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return auditWorker.Run(gctx) })
	g.Go(func() error { return invitation.NewSweeper(invitationSvc, cfg.SweepInterval, log).Run(gctx) })

	return g.Wait()
}
