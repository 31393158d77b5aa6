package service

import (
	"context"
	"testing"
	"time"

	"SafeAlarm/internal/models"
	"SafeAlarm/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAckRate(t *testing.T) {
	assert.Equal(t, 0.0, AckRate(0, 0), "zero alerts means rate 0, not NaN")
	assert.Equal(t, 33.3, AckRate(1, 3))
	assert.Equal(t, 100.0, AckRate(4, 4))
	assert.Equal(t, 66.7, AckRate(2, 3))
	assert.Equal(t, 0.0, AckRate(0, 5))
}

func TestDashboard(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatsService(db, nil)
	ctx := context.Background()

	now := time.Now()
	trips := []models.Trip{
		{OwnerUID: "u", Status: models.TripStatusConfirmed, StartTime: now, ETA: now},
		{OwnerUID: "u", Status: models.TripStatusConfirmed, StartTime: now, ETA: now},
		{OwnerUID: "u", Status: models.TripStatusEscalated, StartTime: now, ETA: now},
		{OwnerUID: "u", Status: models.TripStatusPending, StartTime: now, ETA: now},
	}
	for i := range trips {
		require.NoError(t, db.Create(&trips[i]).Error)
	}
	ackAt := now
	alerts := []models.Alert{
		{ContactName: "A", Acknowledged: true, AcknowledgedAt: &ackAt},
		{ContactName: "B"},
		{ContactName: "C"},
	}
	for i := range alerts {
		require.NoError(t, db.Create(&alerts[i]).Error)
	}

	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalTrips)
	assert.EqualValues(t, 2, stats.ConfirmedTrips)
	assert.EqualValues(t, 1, stats.EscalatedTrips)
	assert.EqualValues(t, 3, stats.TotalAlerts)
	assert.EqualValues(t, 1, stats.AcknowledgedAlerts)
	assert.Equal(t, 33.3, stats.AckRate)
}

func TestDashboardEmptyStore(t *testing.T) {
	svc := NewStatsService(setupTestDB(t), nil)
	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTrips)
	assert.Zero(t, stats.TotalAlerts)
	assert.Equal(t, 0.0, stats.AckRate)
}

func TestDashboardCaches(t *testing.T) {
	db := setupTestDB(t)
	c := cache.NewLocalCache(cache.LocalConfig{})
	defer c.Close()
	svc := NewStatsService(db, c)
	ctx := context.Background()

	_, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	// a write inside the TTL is not visible through the cached rollup
	require.NoError(t, db.Create(&models.Trip{OwnerUID: "u", Status: models.TripStatusPending,
		StartTime: time.Now(), ETA: time.Now()}).Error)

	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTrips)
}
