package service

import (
	"context"
	"math"
	"time"

	"SafeAlarm/internal/models"
	"SafeAlarm/pkg/cache"
	"SafeAlarm/pkg/errors"

	"gorm.io/gorm"
)

const (
	dashboardCacheKey = "dashboard:metrics"
	dashboardCacheTTL = 30 * time.Second
)

// DashboardStats is the read-only rollup served to the monitoring dashboard.
type DashboardStats struct {
	TotalTrips         int64   `json:"totalTrips"`
	ConfirmedTrips     int64   `json:"confirmedTrips"`
	EscalatedTrips     int64   `json:"escalatedTrips"`
	AcknowledgedAlerts int64   `json:"acknowledgedAlerts"`
	TotalAlerts        int64   `json:"totalAlerts"`
	AckRate            float64 `json:"ackRate"`
}

// StatsService computes dashboard rollups. Pure aggregation, no mutation;
// results are cached briefly since the scan touches every collection.
type StatsService struct {
	db    *gorm.DB
	cache cache.Cache
}

func NewStatsService(db *gorm.DB, c cache.Cache) *StatsService {
	return &StatsService{db: db, cache: c}
}

func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(ctx, dashboardCacheKey); ok {
			if stats, ok := v.(*DashboardStats); ok {
				return stats, nil
			}
		}
	}

	stats := &DashboardStats{}
	counts := []struct {
		dest  *int64
		model interface{}
		query func(*gorm.DB) *gorm.DB
	}{
		{&stats.TotalTrips, &models.Trip{}, nil},
		{&stats.ConfirmedTrips, &models.Trip{}, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", models.TripStatusConfirmed)
		}},
		{&stats.EscalatedTrips, &models.Trip{}, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", models.TripStatusEscalated)
		}},
		{&stats.TotalAlerts, &models.Alert{}, nil},
		{&stats.AcknowledgedAlerts, &models.Alert{}, func(db *gorm.DB) *gorm.DB {
			return db.Where("acknowledged = ?", true)
		}},
	}
	for _, c := range counts {
		q := s.db.WithContext(ctx).Model(c.model)
		if c.query != nil {
			q = c.query(q)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "dashboard rollup failed")
		}
	}

	stats.AckRate = AckRate(stats.AcknowledgedAlerts, stats.TotalAlerts)

	if s.cache != nil {
		_ = s.cache.Set(ctx, dashboardCacheKey, stats, dashboardCacheTTL)
	}
	return stats, nil
}

// AckRate is the acknowledgment percentage rounded to one decimal, 0 when
// there are no alerts.
func AckRate(acknowledged, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(acknowledged)/float64(total)*1000) / 10
}
