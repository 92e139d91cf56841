package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academy-ledger-api/api/swagger"
	"github.com/noah-isme/academy-ledger-api/internal/handler"
	"github.com/noah-isme/academy-ledger-api/internal/middleware"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	"github.com/noah-isme/academy-ledger-api/internal/service"
	"github.com/noah-isme/academy-ledger-api/pkg/cache"
	"github.com/noah-isme/academy-ledger-api/pkg/config"
	"github.com/noah-isme/academy-ledger-api/pkg/database"
	"github.com/noah-isme/academy-ledger-api/pkg/jobs"
	"github.com/noah-isme/academy-ledger-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academy-ledger-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academy-ledger-api/pkg/middleware/requestid"
	"github.com/noah-isme/academy-ledger-api/pkg/timeslot"
)

// @title Academy Ledger API
// @version 1.0
// @description Enrollment, scheduling and billing ledger for a tutoring academy.
// @BasePath /api/v1
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	validate := timeslot.NewValidator()
	store := repository.NewStore(repository.StoreConfig{NewID: uuid.NewString})
	checks := map[string]handler.ReadinessCheck{}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, billing cache disabled", zap.Error(err))
		} else {
			redisRepo := repository.NewCacheRepository(client, "", logr)
			defer redisRepo.Close() //nolint:errcheck
			cacheRepo = redisRepo
			checks["redis"] = redisRepo.Ping
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cacheRepo != nil)

	var snapshotRepo *repository.SnapshotRepository
	if cfg.Snapshots.Enabled {
		db, err := openSnapshotDB(ctx, cfg)
		if err != nil {
			logr.Fatal("snapshot database unavailable", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		snapshotRepo = repository.NewSnapshotRepository(db)
		checks["postgres"] = db.PingContext
	}

	students := service.NewStudentService(store, validate, metrics, logr)
	enrollments := service.NewEnrollmentService(store, metrics, logr)
	courses := service.NewCourseService(store, validate, metrics, logr)
	mentors := service.NewMentorService(store, validate, metrics, logr)
	assignments := service.NewAssignmentService(store, metrics, logr)
	classrooms := service.NewClassroomService(store, validate, logr)
	schedule := service.NewScheduleService(store, validate, metrics, logr)
	invoices := service.NewInvoiceService(store, cacheSvc, validate, metrics, logr, service.InvoiceConfig{
		Currency: cfg.Billing.Currency,
		StatsTTL: cfg.Cache.TTL,
	})
	exports := service.NewExportService(invoices, nil, nil, logr)
	tokens := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiration,
	})

	var snapshots *service.SnapshotService
	if snapshotRepo != nil {
		snapshots = service.NewSnapshotService(store, snapshotRepo, metrics, logr)
	} else {
		snapshots = service.NewSnapshotService(store, nil, metrics, logr)
	}

	reminders := service.NewReminderService(invoices, metrics, logr)
	queue := jobs.NewQueue("reminders", reminders.Handle, jobs.QueueConfig{
		Workers:    cfg.Reminders.Workers,
		MaxRetries: cfg.Reminders.Retries,
		RetryDelay: cfg.Reminders.RetryDelay,
		JobTimeout: cfg.Reminders.JobTimeout,
		Logger:     logr,
	})
	reminders.AttachQueue(queue)
	queue.Start(ctx)
	defer queue.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.RegisterRoutes(r, cfg.APIPrefix, tokens, handler.Handlers{
		Students:    handler.NewStudentHandler(students),
		Enrollments: handler.NewEnrollmentHandler(enrollments),
		Courses:     handler.NewCourseHandler(courses),
		Mentors:     handler.NewMentorHandler(mentors, assignments),
		Classrooms:  handler.NewClassroomHandler(classrooms, schedule),
		Invoices:    handler.NewInvoiceHandler(invoices, reminders),
		Billing:     handler.NewBillingHandler(invoices, exports),
		Snapshots:   handler.NewSnapshotHandler(snapshots),
		Metrics:     handler.NewMetricsHandler(metrics, queue, checks),
	})

	if !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logr.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logr.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Error("server failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func openSnapshotDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := repository.NewSnapshotRepository(db).EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
