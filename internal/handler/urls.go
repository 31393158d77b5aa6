package handlers

import (
	"SafeAlarm/internal/service"
	"SafeAlarm/pkg/cache"
	"SafeAlarm/pkg/config"
	"SafeAlarm/pkg/middleware"
	"SafeAlarm/pkg/notification"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handlers struct {
	db       *gorm.DB
	sms      notification.SMSClient
	dispatch *service.DispatchService
	trips    *service.TripService
	ack      *service.AckService
	stats    *service.StatsService
	cache    cache.Cache
}

func NewHandlers(db *gorm.DB, sms notification.SMSClient, c cache.Cache, logger *zap.Logger) *Handlers {
	cfg := config.GlobalConfig
	return &Handlers{
		db:       db,
		sms:      sms,
		dispatch: service.NewDispatchService(db, sms, cfg.SMS.DefaultRegion, cfg.SMSMaxAttempts, logger),
		trips:    service.NewTripService(db, cfg.CleanupMaxAge, logger),
		ack:      service.NewAckService(db, logger),
		stats:    service.NewStatsService(db, c),
		cache:    c,
	}
}

// Trips returns the trip service for jobs that run outside HTTP (cleanup).
func (h *Handlers) Trips() *service.TripService { return h.trips }

func (h *Handlers) Register(engine *gin.Engine) {
	engine.GET("/healthz", h.handleHealthCheck)
	if prefix := config.GlobalConfig.MonitorPrefix; prefix != "" {
		engine.GET(prefix, gin.WrapH(promhttp.Handler()))
	}

	r := engine.Group(config.GlobalConfig.APIPrefix)

	// Unauthenticated surfaces: inbound alert, acknowledgment link, dashboard.
	public := r.Group("")
	public.Use(middleware.RateLimit(config.GlobalConfig.RateLimit))
	{
		public.POST("/alerts/sms", h.handleSendSmsAlert)
		public.GET("/alerts/ack", h.handleAcknowledgeAlert)
		public.GET("/dashboard/metrics", h.handleDashboardMetrics)
	}

	// Callable surfaces: verified caller identity required.
	callable := r.Group("")
	callable.Use(middleware.AuthRequired())
	{
		sos := callable.Group("/sos")
		sos.Use(middleware.IdempotencyMiddleware(middleware.IdempotencyConfig{Store: h.cache}))
		sos.POST("/send", h.handleSendSOS)
		sos.POST("/batch", h.handleSendBatchSOS)

		callable.POST("/trips", h.handleCreateTrip)
		callable.GET("/trips/:id", h.handleGetTrip)
		callable.PUT("/trips/:id/status", h.handleUpdateTripStatus)
		callable.POST("/trips/:id/alerts", h.handleCreateTripAlerts)
	}
}
