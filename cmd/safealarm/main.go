package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	handlers "SafeAlarm/internal/handler"
	"SafeAlarm/internal/listeners"
	"SafeAlarm/internal/models"
	"SafeAlarm/pkg/cache"
	"SafeAlarm/pkg/config"
	"SafeAlarm/pkg/logger"
	"SafeAlarm/pkg/metrics"
	"SafeAlarm/pkg/notification"
	"SafeAlarm/pkg/scheduler"
	"SafeAlarm/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GlobalConfig

	logger.Init(cfg.Log)
	defer logger.Sync()

	db, err := util.InitDatabase(cfg.DBDriver, cfg.DSN, nil)
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))
		return
	}
	if err := db.AutoMigrate(
		&models.Trip{}, &models.Alert{}, &models.EscalationMetric{}, &models.SosLog{},
	); err != nil {
		logger.Error("Failed to migrate schema", zap.Error(err))
		return
	}

	c, err := cache.NewCache(cfg.Cache)
	if err != nil {
		logger.Error("Failed to init cache", zap.Error(err))
		return
	}
	defer c.Close()

	metrics.SetGlobal(metrics.NewMetrics())
	sysMonitor := metrics.NewSystemMonitor(15 * time.Second)
	sysMonitor.Start()
	defer sysMonitor.Stop()

	// one long-lived transport client shared across request handlers
	sms := notification.NewTwilioClient(cfg.SMS)

	listeners.InitTripListeners(db)

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), metrics.Middleware(metrics.Global()))

	h := handlers.NewHandlers(db, sms, c, logger.L())
	h.Register(engine)

	cron := scheduler.NewCron(time.Local, logger.L())
	_, err = cron.AddWithCtx(cfg.CleanupSchedule, func(ctx context.Context) {
		if _, err := h.Trips().CleanupOldTrips(ctx); err != nil {
			logger.Error("trip cleanup failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Error("Failed to schedule cleanup", zap.Error(err))
		return
	}
	cron.Start()
	defer cron.Stop()

	srv := &http.Server{Addr: cfg.Addr, Handler: engine}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("SafeAlarm listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
