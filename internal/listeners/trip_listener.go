package listeners

import (
	"time"

	"SafeAlarm/internal/models"
	"SafeAlarm/pkg/logger"
	"SafeAlarm/pkg/metrics"
	"SafeAlarm/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InitTripListeners wires the escalation audit sink. The listener is a pure
// observer: it appends one EscalationMetric per escalation edge and bumps
// the counter. It never dispatches notifications — that stays with the
// client-invoked SOS path, so a dropped or retried dispatch call cannot
// skew the metric trail.
func InitTripListeners(db *gorm.DB) {
	util.Sig().Connect(models.SigTripEscalated, func(sender any, params ...any) {
		trip, ok := sender.(*models.Trip)
		if !ok {
			return
		}

		metric := models.EscalationMetric{
			TripID:       trip.ID,
			EscalatedAt:  time.Now(),
			EtaTime:      trip.ETA,
			SnoozeCount:  trip.SnoozeCount,
			ContactCount: len(trip.Contacts),
		}
		if err := db.Create(&metric).Error; err != nil {
			logger.Error("escalation metric write failed",
				zap.String("trip_id", trip.ID), zap.Error(err))
			return
		}
		if m := metrics.Global(); m != nil {
			m.RecordEscalation()
		}
	})
}
