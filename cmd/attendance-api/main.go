package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rollmark/attendance-api/api/swagger"
	"github.com/rollmark/attendance-api/internal/handler"
	"github.com/rollmark/attendance-api/internal/ledger"
	"github.com/rollmark/attendance-api/internal/middleware"
	"github.com/rollmark/attendance-api/internal/notify"
	"github.com/rollmark/attendance-api/internal/repository"
	"github.com/rollmark/attendance-api/internal/service"
	"github.com/rollmark/attendance-api/internal/settings"
	"github.com/rollmark/attendance-api/pkg/cache"
	"github.com/rollmark/attendance-api/pkg/config"
	"github.com/rollmark/attendance-api/pkg/database"
	"github.com/rollmark/attendance-api/pkg/logger"
	corsmiddleware "github.com/rollmark/attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/rollmark/attendance-api/pkg/middleware/requestid"
)

// @title Attendance Portal API
// @version 1.0.0
// @description Two-role attendance tracker over flat-file classroom ledgers
// @BasePath /api/v1
// @schemes http

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

	ledgerStore, err := ledger.NewStore(cfg.Data.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init ledger store", "error", err)
	}
	settingsStore := settings.NewStore(filepath.Join(cfg.Data.Dir, cfg.Data.SettingsFile))

	marker := notify.NewMarker(filepath.Join(cfg.Data.Dir, cfg.Data.MarkerFile))
	if err := marker.EnsureExists(); err != nil {
		logr.Sugar().Fatalw("failed to init change marker", "error", err)
	}

	var broadcaster notify.Broadcaster
	if cfg.Notify.RedisEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		broadcaster = notify.NewRedisBroadcaster(redisClient, cfg.Notify.RedisChannel)
	}
	notifier := notify.NewNotifier(marker, broadcaster, logr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var auditSvc *service.AuditService
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect audit database", "error", err)
		}
		defer db.Close() //nolint:errcheck
		auditSvc = service.NewAuditService(repository.NewAuditRepository(db), cfg.Audit.Workers, logr)
		auditSvc.Start(ctx)
		defer auditSvc.Stop()
	}

	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(service.AuthConfig{
		Username:     cfg.Admin.Username,
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
		Secret:       cfg.JWT.Secret,
		Expiration:   cfg.JWT.Expiration,
		Issuer:       cfg.JWT.Issuer,
	}, nil, logr, auditSvc)

	classroomSvc := service.NewClassroomService(ledgerStore, settingsStore, notifier, logr, auditSvc, metricsSvc)
	portalSvc := service.NewPortalService(ledgerStore, settingsStore, notifier, logr, auditSvc)
	attendanceSvc := service.NewAttendanceService(ledgerStore, settingsStore, logr, metricsSvc)

	authHandler := handler.NewAuthHandler(authSvc)
	classroomHandler := handler.NewClassroomHandler(classroomSvc)
	portalHandler := handler.NewPortalHandler(portalSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc, marker, cfg.Notify.PollInterval, cfg.Notify.LongPollTimeout)
	auditHandler := handler.NewAuditHandler(auditSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)
		api.GET("/classrooms", classroomHandler.List)
		api.POST("/attendance", attendanceHandler.Submit)
		api.GET("/portal/updates", attendanceHandler.Updates)

		admin := api.Group("/admin", middleware.JWT(authSvc))
		{
			admin.POST("/classrooms", classroomHandler.Create)
			admin.DELETE("/classrooms/:name", classroomHandler.Delete)
			admin.GET("/classrooms/:name/ledger", classroomHandler.Ledger)
			admin.GET("/classrooms/:name/export", classroomHandler.Export)
			admin.GET("/classrooms/:name/settings", portalHandler.Settings)
			admin.PUT("/classrooms/:name/gate", portalHandler.UpdateGate)
			admin.PUT("/classrooms/:name/token", portalHandler.UpdateToken)
			admin.PUT("/classrooms/:name/limit", portalHandler.UpdateLimit)
			admin.GET("/audit", auditHandler.Recent)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "data_dir", cfg.Data.Dir)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
