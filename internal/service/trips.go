package service

import (
	"context"
	stderrors "errors"
	"time"

	"SafeAlarm/internal/models"
	"SafeAlarm/pkg/errors"
	"SafeAlarm/pkg/metrics"
	"SafeAlarm/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TripService owns trip lifecycle writes. Escalation is observed here as a
// status edge and announced through the trip signal; notification dispatch
// stays on the client-invoked SOS path.
type TripService struct {
	db     *gorm.DB
	maxAge time.Duration
	logger *zap.Logger
}

func NewTripService(db *gorm.DB, maxAge time.Duration, logger *zap.Logger) *TripService {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &TripService{db: db, maxAge: maxAge, logger: logger}
}

// CreateTripInput is the client-supplied part of a new trip.
type CreateTripInput struct {
	StartTime   time.Time          `json:"startTime"`
	ETA         time.Time          `json:"eta"`
	SnoozeCount int                `json:"snoozeCount"`
	Contacts    models.ContactList `json:"contacts"`
}

func (s *TripService) CreateTrip(ctx context.Context, uid string, in CreateTripInput) (*models.Trip, error) {
	if uid == "" {
		return nil, errors.WithCode(errors.CodeUnauthenticated, "Must be signed in.")
	}
	if in.ETA.IsZero() {
		return nil, errors.WithCode(errors.CodeInvalidArgument, "eta is required")
	}
	trip := &models.Trip{
		OwnerUID:    uid,
		Status:      models.TripStatusPending,
		StartTime:   in.StartTime,
		ETA:         in.ETA,
		SnoozeCount: in.SnoozeCount,
		Contacts:    in.Contacts,
	}
	if trip.StartTime.IsZero() {
		trip.StartTime = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(trip).Error; err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create trip failed")
	}
	return trip, nil
}

func (s *TripService) GetTrip(ctx context.Context, uid, id string) (*models.Trip, error) {
	var trip models.Trip
	err := s.db.WithContext(ctx).Where("id = ? AND owner_uid = ?", id, uid).First(&trip).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.WithCode(errors.CodeNotFound, "Trip not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "load trip failed")
	}
	return &trip, nil
}

// UpdateStatus applies a status transition and fires SigTripEscalated on the
// not-escalated → escalated edge, exactly once. Re-saving a trip that is
// already escalated does not re-fire. Terminal statuses admit no further
// transition.
func (s *TripService) UpdateStatus(ctx context.Context, uid, id string, next models.TripStatus, snoozeCount *int) (*models.Trip, error) {
	if !next.Valid() {
		return nil, errors.WithCodef(errors.CodeInvalidArgument, "unknown status %q", next)
	}

	trip, err := s.GetTrip(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	before := trip.Status
	if before.IsTerminal() && next != before {
		return nil, errors.WithCodef(errors.CodeInvalidArgument, "trip already %s", before)
	}

	trip.Status = next
	if snoozeCount != nil {
		trip.SnoozeCount = *snoozeCount
	}
	if err := s.db.WithContext(ctx).Save(trip).Error; err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "save trip failed")
	}

	if before != models.TripStatusEscalated && trip.Status == models.TripStatusEscalated {
		s.logger.Info("trip escalated",
			zap.String("trip_id", trip.ID), zap.Int("contacts", len(trip.Contacts)))
		util.Sig().Emit(models.SigTripEscalated, trip)
	}
	return trip, nil
}

// CreateAlerts issues one Alert per contact for an escalated trip. Invoked
// by the client alongside batch dispatch so each contact's acknowledgment
// link has a target.
func (s *TripService) CreateAlerts(ctx context.Context, uid, tripID string) ([]models.Alert, error) {
	trip, err := s.GetTrip(ctx, uid, tripID)
	if err != nil {
		return nil, err
	}
	alerts := make([]models.Alert, 0, len(trip.Contacts))
	for _, contact := range trip.Contacts {
		alert := models.Alert{TripID: trip.ID, ContactName: contact.Name}
		if err := s.db.WithContext(ctx).Create(&alert).Error; err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "create alert failed")
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// CleanupOldTrips removes trips past retention in confirmed/cancelled
// status. Escalated trips are kept for investigation.
func (s *TripService) CleanupOldTrips(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.maxAge)
	res := s.db.WithContext(ctx).
		Where("start_time < ? AND status IN ?", cutoff,
			[]models.TripStatus{models.TripStatusConfirmed, models.TripStatusCancelled}).
		Delete(&models.Trip{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, errors.CodeInternal, "trip cleanup failed")
	}
	if res.RowsAffected > 0 {
		s.logger.Info("cleaned up old trips", zap.Int64("count", res.RowsAffected))
		if m := metrics.Global(); m != nil {
			m.RecordTripsCleaned(res.RowsAffected)
		}
	}
	return res.RowsAffected, nil
}
