package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/carelink/internal/audit"
	"github.com/BruksfildServices01/carelink/internal/config"
	dbpkg "github.com/BruksfildServices01/carelink/internal/db"
	"github.com/BruksfildServices01/carelink/internal/domain/directory"
	"github.com/BruksfildServices01/carelink/internal/infra/cache"
	"github.com/BruksfildServices01/carelink/internal/infra/notify"
	"github.com/BruksfildServices01/carelink/internal/infra/payment"
	infraRepo "github.com/BruksfildServices01/carelink/internal/infra/repository"
	"github.com/BruksfildServices01/carelink/internal/infra/storage"
	"github.com/BruksfildServices01/carelink/internal/jobs"
	"github.com/BruksfildServices01/carelink/internal/logger"
	"github.com/BruksfildServices01/carelink/internal/routes"
	"github.com/BruksfildServices01/carelink/internal/timezone"
)

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := dbpkg.Migrate(db); err != nil {
		return err
	}

	// ======================================================
	// INFRA
	// ======================================================
	var dir directory.Directory = infraRepo.NewDoctorGormRepository(db)

	redisClient, err := cache.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, directory cache disabled")
	}
	if redisClient != nil {
		defer redisClient.Close()
		dir = cache.NewCachedDirectory(dir, redisClient, cfg.Directory.CacheTTL, log)
	}

	gateway, err := payment.New(cfg.Payment)
	if err != nil {
		return err
	}

	var images *storage.Images
	if cfg.S3.Enabled() {
		images = storage.NewImages(storage.NewS3Store(cfg.S3), cfg.Uploads.MaxWidth, cfg.Uploads.MaxBytes)
	} else {
		log.Info().Msg("image uploads disabled: no s3 bucket configured")
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	notifier := notify.FromConfig(cfg, log)

	// ======================================================
	// JOBS
	// ======================================================
	scheduler := cron.New(cron.WithLocation(timezone.Location(cfg.Clinic.Timezone)))
	if notifier.Enabled() && cfg.Reminders.Cron != "" {
		reminders := jobs.NewReminders(
			infraRepo.NewAppointmentGormRepository(db),
			dir,
			notifier,
			cfg.Clinic.Name,
			timezone.Clock(cfg.Clinic.Timezone),
			log,
		)
		if _, err := reminders.Schedule(scheduler, cfg.Reminders.Cron); err != nil {
			return err
		}
	}
	scheduler.Start()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Dependencies{
		DB:        db,
		Config:    cfg,
		Log:       log,
		Audit:     auditDispatcher,
		Notifier:  notifier,
		Directory: dir,
		Gateway:   gateway,
		Images:    images,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Addr()).
			Str("payment_provider", gateway.Name()).
			Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		shutdown(log, scheduler, auditDispatcher, notifier)
		return err
	case <-quit:
	}

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	shutdown(log, scheduler, auditDispatcher, notifier)
	log.Info().Msg("server stopped")
	return nil
}

func shutdown(log zerolog.Logger, scheduler *cron.Cron, a *audit.Dispatcher, n *notify.Dispatcher) {
	<-scheduler.Stop().Done()
	a.Close()
	n.Close()
	log.Debug().Msg("background workers stopped")
}
