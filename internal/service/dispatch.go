package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"SafeAlarm/internal/models"
	"SafeAlarm/pkg/errors"
	"SafeAlarm/pkg/metrics"
	"SafeAlarm/pkg/notification"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Location is an optional coordinate pair attached to an SOS. The map link
// is appended only when both coordinates are present.
type Location struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (l *Location) HasCoords() bool {
	return l != nil && l.Latitude != nil && l.Longitude != nil
}

// BatchResult is one recipient's outcome within a batch dispatch. Phone is
// the raw input string for display, not the normalized destination.
type BatchResult struct {
	Phone   string `json:"phone"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DispatchService fans alert messages out to emergency contacts through the
// SMS transport and writes the sos_logs audit trail.
type DispatchService struct {
	db          *gorm.DB
	sms         notification.SMSClient
	region      string
	maxAttempts int
	logger      *zap.Logger
}

func NewDispatchService(db *gorm.DB, sms notification.SMSClient, region string, maxAttempts int, logger *zap.Logger) *DispatchService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &DispatchService{
		db:          db,
		sms:         sms,
		region:      region,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Region returns the default dialing region used for normalization.
func (s *DispatchService) Region() string { return s.region }

// SendSingle dispatches one SOS message and returns the carrier message id.
func (s *DispatchService) SendSingle(ctx context.Context, uid, toPhone, message string, loc *Location) (string, error) {
	if uid == "" {
		return "", errors.WithCode(errors.CodeUnauthenticated, "Must be signed in.")
	}
	if toPhone == "" || message == "" {
		return "", errors.WithCode(errors.CodeInvalidArgument, "toPhone and message are required")
	}
	sid, err := s.send(ctx, uid, toPhone, message, loc)
	if err != nil {
		if m := metrics.Global(); m != nil {
			m.RecordSMSFailed(metrics.KindSingle)
		}
		return "", err
	}
	if m := metrics.Global(); m != nil {
		m.RecordSMSSent(metrics.KindSingle)
	}
	return sid, nil
}

// SendBatch dispatches one message to every contact concurrently and waits
// for all attempts to settle. The result preserves input order and the raw
// input phone strings; no recipient's failure aborts or masks another's.
func (s *DispatchService) SendBatch(ctx context.Context, uid string, contacts []string, message string, loc *Location) ([]BatchResult, error) {
	if uid == "" {
		return nil, errors.WithCode(errors.CodeUnauthenticated, "Must be signed in.")
	}
	if len(contacts) == 0 {
		return nil, errors.WithCode(errors.CodeInvalidArgument, "contacts must be a non-empty array.")
	}

	start := time.Now()
	results := make([]BatchResult, len(contacts))

	var wg sync.WaitGroup
	for i, phone := range contacts {
		wg.Add(1)
		go func(i int, phone string) {
			defer wg.Done()
			_, err := s.send(ctx, uid, phone, message, loc)
			if err != nil {
				results[i] = BatchResult{Phone: phone, Success: false, Error: err.Error()}
				if m := metrics.Global(); m != nil {
					m.RecordSMSFailed(metrics.KindBatch)
				}
				return
			}
			results[i] = BatchResult{Phone: phone, Success: true}
			if m := metrics.Global(); m != nil {
				m.RecordSMSSent(metrics.KindBatch)
			}
		}(i, phone)
	}
	wg.Wait()

	if m := metrics.Global(); m != nil {
		m.ObserveBatchDispatch(time.Since(start))
	}
	return results, nil
}

// mapLinkSuffix mirrors the format the mobile client renders in received
// messages.
func mapLinkSuffix(loc *Location) string {
	if !loc.HasCoords() {
		return ""
	}
	return "\n\n📍 Location: https://maps.google.com/?q=" +
		trimFloat(*loc.Latitude) + "," + trimFloat(*loc.Longitude)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// send normalizes, appends the location link, makes the transport call and
// writes the audit row. The audit write happens before the outcome is
// returned so no attempt is lost even if the caller disconnects.
func (s *DispatchService) send(ctx context.Context, uid, rawPhone, message string, loc *Location) (string, error) {
	to := notification.NormalizePhone(rawPhone, s.region)
	body := message + mapLinkSuffix(loc)

	var sid string
	var err error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		sid, err = s.sms.Send(ctx, to, body)
		if err == nil {
			break
		}
	}

	now := time.Now()
	if err != nil {
		entry := models.SosLog{
			UID:       uid,
			ToPhone:   to,
			Status:    models.SosStatusFailed,
			Error:     err.Error(),
			Timestamp: now,
		}
		if dbErr := s.db.WithContext(ctx).Create(&entry).Error; dbErr != nil {
			s.logger.Error("sos audit write failed",
				zap.String("uid", uid), zap.String("to", to), zap.Error(dbErr))
		}
		return "", errors.Wrap(err, errors.CodeTransportFailure, err.Error())
	}

	entry := models.SosLog{
		UID:        uid,
		ToPhone:    to,
		Message:    body,
		MessageSID: sid,
		Status:     models.SosStatusSent,
		Timestamp:  now,
	}
	if dbErr := s.db.WithContext(ctx).Create(&entry).Error; dbErr != nil {
		s.logger.Error("sos audit write failed",
			zap.String("uid", uid), zap.String("to", to), zap.Error(dbErr))
	}
	return sid, nil
}
