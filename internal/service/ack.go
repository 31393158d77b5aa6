package service

import (
	"context"
	stderrors "errors"
	"time"

	"SafeAlarm/internal/models"
	"SafeAlarm/pkg/errors"
	"SafeAlarm/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AckService is the only writer of the acknowledged flag.
type AckService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAckService(db *gorm.DB, logger *zap.Logger) *AckService {
	return &AckService{db: db, logger: logger}
}

// Acknowledge marks the alert acknowledged and stamps the time. Repeated
// calls keep the flag true and re-stamp the timestamp; the final state is
// identical, so last-write-wins storage is enough under concurrent calls.
func (s *AckService) Acknowledge(ctx context.Context, alertID string) (*models.Alert, error) {
	if alertID == "" {
		return nil, errors.WithCode(errors.CodeInvalidArgument, "Missing alertId")
	}

	var alert models.Alert
	if err := s.db.WithContext(ctx).First(&alert, "id = ?", alertID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.WithCode(errors.CodeNotFound, "Alert not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "load alert failed")
	}

	now := time.Now()
	alert.Acknowledged = true
	alert.AcknowledgedAt = &now
	if err := s.db.WithContext(ctx).Save(&alert).Error; err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "save acknowledgment failed")
	}

	s.logger.Info("alert acknowledged",
		zap.String("alert_id", alert.ID), zap.String("contact", alert.ContactName))
	if m := metrics.Global(); m != nil {
		m.RecordAcknowledgment()
	}
	return &alert, nil
}
