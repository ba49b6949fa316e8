package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"vigirisco/internal/audit"
	auditmetrics "vigirisco/internal/audit/metrics"
	auditpostgres "vigirisco/internal/audit/store/postgres"
	authhandler "vigirisco/internal/auth/handler"
	authmetrics "vigirisco/internal/auth/metrics"
	"vigirisco/internal/auth/secrets"
	authservice "vigirisco/internal/auth/service"
	authpostgres "vigirisco/internal/auth/store/postgres"
	monitorhandler "vigirisco/internal/monitor/handler"
	monitormetrics "vigirisco/internal/monitor/metrics"
	monitorservice "vigirisco/internal/monitor/service"
	monitorpostgres "vigirisco/internal/monitor/store/postgres"
	"vigirisco/internal/platform/config"
	"vigirisco/internal/platform/httpserver"
	"vigirisco/internal/platform/logger"
	"vigirisco/internal/platform/postgres"
	"vigirisco/internal/token"
	httptransport "vigirisco/internal/transport/http"
	"vigirisco/migrations"
)

// main wires dependencies bottom-up (database, audit trail, services,
// transport) and owns the server lifecycle. Business logic lives in the
// internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		log.Error("database connection failed", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := migrations.Up(db); err != nil {
			log.Error("schema migration failed", "error", err.Error())
			os.Exit(1)
		}
		log.Info("schema migrations applied")
	}

	recorder := audit.NewRecorder(auditpostgres.New(db), log, auditmetrics.New())
	codec := token.NewCodec(cfg.JWTSigningKey, cfg.TokenIssuer)

	authSvc := authservice.New(
		authpostgres.New(db),
		secrets.Bcrypt{},
		codec,
		cfg.TokenTTL,
		recorder,
		log,
		authmetrics.New(),
	)
	monitorSvc := monitorservice.New(
		monitorpostgres.NewRumorStore(db),
		monitorpostgres.NewCommunicationStore(db),
		monitorpostgres.NewAssessmentStore(db),
		recorder,
		log,
		monitormetrics.New(),
	)

	router := httptransport.New(httptransport.Deps{
		Logger:     log,
		Decoder:    codec,
		Auth:       authhandler.New(authSvc, log),
		Monitor:    monitorhandler.New(monitorSvc, log),
		AuditStore: auditpostgres.New(db),
		DB:         db,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}
