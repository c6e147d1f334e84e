package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/internal/handler"
	appmiddleware "github.com/edusuite/siga-gateway/internal/middleware"
	"github.com/edusuite/siga-gateway/internal/service"
	"github.com/edusuite/siga-gateway/internal/session"
	"github.com/edusuite/siga-gateway/internal/upstream"
	"github.com/edusuite/siga-gateway/pkg/cache"
	"github.com/edusuite/siga-gateway/pkg/config"
	"github.com/edusuite/siga-gateway/pkg/logger"
	corsmiddleware "github.com/edusuite/siga-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/edusuite/siga-gateway/pkg/middleware/requestid"
)

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

	// Session snapshots live in Redis; without it the gateway still
	// serves, but sessions do not survive a restart.
	var store session.Store
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, falling back to in-memory sessions", zap.Error(err))
		store = session.NewMemoryStore()
	} else {
		store = session.NewRedisStore(redisClient, cfg.Session.TTL)
	}

	client, err := upstream.New(cfg.Upstream, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init backend client", "error", err)
	}

	metricsSvc := service.NewMetricsService()
	client.SetObserver(metricsSvc)

	validate := validator.New()

	authSvc := service.NewAuthService(client, store, cfg.Session, validate, logr)
	subjectSvc := service.NewSubjectService(client, validate, logr)
	classroomSvc := service.NewClassroomService(client, validate, logr)
	groupSvc := service.NewGroupService(client, validate, logr)
	slotSvc := service.NewTimeSlotService(client, validate, logr)
	teacherSvc := service.NewTeacherService(client, logr)
	scheduleSvc := service.NewScheduleService(client, cfg.Upstream.DefaultAttendanceID, validate, logr)
	exportSvc := service.NewExportService(client, scheduleSvc, logr)
	dashboardSvc := service.NewDashboardService(client, scheduleSvc, logr)

	router := handler.NewRouter(
		handler.NewAuthHandler(authSvc),
		handler.NewSubjectHandler(subjectSvc, exportSvc),
		handler.NewClassroomHandler(classroomSvc, exportSvc),
		handler.NewGroupHandler(groupSvc, exportSvc),
		handler.NewTimeSlotHandler(slotSvc, exportSvc),
		handler.NewTeacherHandler(teacherSvc),
		handler.NewScheduleHandler(scheduleSvc, exportSvc),
		handler.NewDashboardHandler(dashboardSvc),
		authSvc,
		metricsSvc,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(appmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.Register(r, cfg.APIPrefix)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "backend", cfg.Upstream.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
