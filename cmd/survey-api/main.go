package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/clima-laboral-api/internal/handler"
	"github.com/noah-isme/clima-laboral-api/internal/repository"
	"github.com/noah-isme/clima-laboral-api/internal/service"
	"github.com/noah-isme/clima-laboral-api/pkg/cache"
	"github.com/noah-isme/clima-laboral-api/pkg/config"
	"github.com/noah-isme/clima-laboral-api/pkg/database"
	"github.com/noah-isme/clima-laboral-api/pkg/jobs"
	"github.com/noah-isme/clima-laboral-api/pkg/logger"
	"github.com/noah-isme/clima-laboral-api/pkg/storage"
)

// @title Clima Laboral API
// @version 1.0.0
// @description Workplace-climate survey collection, statistics and reporting
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database, logr)
	if err != nil {
		logr.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis, logr)
	if err != nil {
		// the throttle and stats cache both run without Redis
		logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metrics := service.NewMetricsService()
	matcher := service.NewAreaMatcher(logr, metrics)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Stats.CacheTTL, logr, cfg.Stats.CacheEnabled && cacheRepo.Enabled())

	surveyRepo := repository.NewSurveyRepository(db, cfg.Database.PageSize)
	historyRepo := repository.NewHistoryRepository(db, cfg.Database.PageSize)
	timelineRepo := repository.NewTimelineRepository(db, cfg.Database.PageSize)
	reportRepo := repository.NewReportRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	statsSvc := service.NewStatsService(surveyRepo, historyRepo, matcher, cacheSvc, metrics, cfg.Stats.CacheTTL, logr)
	surveySvc := service.NewSurveyService(surveyRepo, matcher, service.NewClosingMessages(rand.Intn), cacheSvc, metrics, validate, logr)
	historySvc := service.NewHistoryService(historyRepo, statsSvc, matcher, validate, logr)
	timelineSvc := service.NewTimelineService(timelineRepo, historyRepo, statsSvc, matcher, metrics, validate, logr, cfg.Timeline.DefaultArchiveLabel)
	authSvc := service.NewAuthService(cacheRepo, auditRepo, metrics, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		PassphraseHash:    cfg.Admin.PassphraseHash,
		MaxLoginAttempts:  cfg.Admin.MaxLoginAttempts,
		LoginWindow:       cfg.Admin.LoginWindow,
	})

	exportCfg := service.ExportConfig{
		APIPrefix:    cfg.APIPrefix,
		ResultTTL:    cfg.Reports.SignedURLTTL,
		CSVDelimiter: cfg.Reports.CSVDelimiter,
	}
	exportSvc := service.NewExportService(surveyRepo, statsSvc, matcher, nil, nil, exportCfg, logr)

	var (
		reportHandler *handler.ReportHandler
		reportQueue   *jobs.Queue
	)
	if cfg.Reports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Fatal("report storage unavailable", zap.String("dir", cfg.Reports.StorageDir), zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc = service.NewExportService(surveyRepo, statsSvc, matcher, files, signer, exportCfg, logr)

		worker := service.NewReportWorker(reportRepo, exportSvc, cfg.Reports.WorkerRetries, logr)
		reportQueue = jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			RetryDelay: 2 * time.Second,
			Logger:     logr,
			Observer:   metrics,
		})
		reportQueue.Start(ctx)
		defer reportQueue.Stop()

		reportSvc := service.NewReportService(reportRepo, reportQueue, exportSvc, validate, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
		})
		if recovered := reportSvc.RecoverPendingJobs(ctx); recovered > 0 {
			logr.Info("re-queued pending report jobs", zap.Int("count", recovered))
		}
		reportSvc.StartCleanup(ctx)
		reportHandler = handler.NewReportHandler(reportSvc, logr)
	}

	router := newRouter(cfg, logr, routeDeps{
		metrics:  metrics,
		auth:     authSvc,
		audit:    auditRepo,
		survey:   handler.NewSurveyHandler(surveySvc),
		login:    handler.NewAuthHandler(authSvc),
		stats:    handler.NewStatsHandler(statsSvc),
		history:  handler.NewHistoryHandler(historySvc),
		timeline: handler.NewTimelineHandler(timelineSvc),
		exports:  handler.NewExportHandler(exportSvc),
		reports:  reportHandler,
		probes:   handler.NewMetricsHandler(metrics, db, logr),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
