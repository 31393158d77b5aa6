package service

import (
	"context"
	"testing"
	"time"

	"SafeAlarm/internal/listeners"
	"SafeAlarm/internal/models"
	"SafeAlarm/pkg/errors"
	"SafeAlarm/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTripService(t *testing.T) (*TripService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	util.Sig().Reset()
	listeners.InitTripListeners(db)
	return NewTripService(db, 24*time.Hour, zap.NewNop()), db
}

func makeTrip(t *testing.T, svc *TripService, uid string) *models.Trip {
	t.Helper()
	trip, err := svc.CreateTrip(context.Background(), uid, CreateTripInput{
		ETA:         time.Now().Add(time.Hour),
		SnoozeCount: 2,
		Contacts: models.ContactList{
			{Name: "Asha", Phone: "9876543210"},
			{Name: "Ravi", Phone: "9876543211"},
		},
	})
	require.NoError(t, err)
	return trip
}

func metricCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.EscalationMetric{}).Count(&n).Error)
	return n
}

func TestEscalationEdgeFiresOnce(t *testing.T) {
	svc, db := newTripService(t)
	trip := makeTrip(t, svc, "user-1")
	ctx := context.Background()

	updated, err := svc.UpdateStatus(ctx, "user-1", trip.ID, models.TripStatusEscalated, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TripStatusEscalated, updated.Status)
	assert.EqualValues(t, 1, metricCount(t, db))

	var metric models.EscalationMetric
	require.NoError(t, db.First(&metric).Error)
	assert.Equal(t, trip.ID, metric.TripID)
	assert.Equal(t, 2, metric.SnoozeCount)
	assert.Equal(t, 2, metric.ContactCount)
	assert.WithinDuration(t, trip.ETA, metric.EtaTime, time.Second)
}

func TestEscalatedResaveDoesNotRefire(t *testing.T) {
	svc, db := newTripService(t)
	trip := makeTrip(t, svc, "user-1")
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, "user-1", trip.ID, models.TripStatusEscalated, nil)
	require.NoError(t, err)

	// level, not edge: same status again
	_, err = svc.UpdateStatus(ctx, "user-1", trip.ID, models.TripStatusEscalated, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, metricCount(t, db))
}

func TestTerminalStatusRejectsTransition(t *testing.T) {
	svc, _ := newTripService(t)
	trip := makeTrip(t, svc, "user-1")
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, "user-1", trip.ID, models.TripStatusConfirmed, nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, "user-1", trip.ID, models.TripStatusEscalated, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidArgument))
}

func TestUpdateStatusUnknownTrip(t *testing.T) {
	svc, _ := newTripService(t)
	_, err := svc.UpdateStatus(context.Background(), "user-1", "nope", models.TripStatusConfirmed, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestUpdateStatusOtherOwnersTripHidden(t *testing.T) {
	svc, _ := newTripService(t)
	trip := makeTrip(t, svc, "user-1")

	_, err := svc.UpdateStatus(context.Background(), "user-2", trip.ID, models.TripStatusConfirmed, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestCreateAlertsOnePerContact(t *testing.T) {
	svc, db := newTripService(t)
	trip := makeTrip(t, svc, "user-1")

	alerts, err := svc.CreateAlerts(context.Background(), "user-1", trip.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Asha", alerts[0].ContactName)
	assert.Equal(t, "Ravi", alerts[1].ContactName)
	for _, a := range alerts {
		assert.False(t, a.Acknowledged)
		assert.Nil(t, a.AcknowledgedAt)
	}

	var n int64
	require.NoError(t, db.Model(&models.Alert{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestCleanupOldTrips(t *testing.T) {
	svc, db := newTripService(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	fresh := time.Now().Add(-1 * time.Hour)
	seed := []models.Trip{
		{OwnerUID: "u", Status: models.TripStatusConfirmed, StartTime: old, ETA: old},
		{OwnerUID: "u", Status: models.TripStatusCancelled, StartTime: old, ETA: old},
		{OwnerUID: "u", Status: models.TripStatusEscalated, StartTime: old, ETA: old},
		{OwnerUID: "u", Status: models.TripStatusConfirmed, StartTime: fresh, ETA: fresh},
		{OwnerUID: "u", Status: models.TripStatusPending, StartTime: old, ETA: old},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	removed, err := svc.CleanupOldTrips(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	var remaining []models.Trip
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 3)
	for _, trip := range remaining {
		if trip.StartTime.Before(time.Now().Add(-24 * time.Hour)) {
			assert.NotContains(t,
				[]models.TripStatus{models.TripStatusConfirmed, models.TripStatusCancelled},
				trip.Status)
		}
	}
}
