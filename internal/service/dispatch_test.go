package service

import (
	"context"
	"fmt"
	"testing"

	"SafeAlarm/internal/models"
	"SafeAlarm/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDispatch(t *testing.T, sms *fakeSMS) *DispatchService {
	t.Helper()
	return NewDispatchService(setupTestDB(t), sms, "+91", 1, zap.NewNop())
}

func float64p(v float64) *float64 { return &v }

func TestSendSingle(t *testing.T) {
	sms := newFakeSMS()
	svc := newDispatch(t, sms)

	sid, err := svc.SendSingle(context.Background(), "user-1", "(987) 654-3210", "I need help", nil)
	require.NoError(t, err)
	assert.Equal(t, "SM919876543210", sid)

	calls := sms.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "+919876543210", calls[0].To)
	assert.Equal(t, "I need help", calls[0].Body)

	var logs []models.SosLog
	require.NoError(t, svc.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "user-1", logs[0].UID)
	assert.Equal(t, "+919876543210", logs[0].ToPhone)
	assert.Equal(t, models.SosStatusSent, logs[0].Status)
	assert.Equal(t, "SM919876543210", logs[0].MessageSID)
}

func TestSendSingleAppendsLocation(t *testing.T) {
	sms := newFakeSMS()
	svc := newDispatch(t, sms)

	loc := &Location{Latitude: float64p(12.97), Longitude: float64p(77.59)}
	_, err := svc.SendSingle(context.Background(), "user-1", "9876543210", "SOS", loc)
	require.NoError(t, err)

	calls := sms.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "SOS\n\n📍 Location: https://maps.google.com/?q=12.97,77.59", calls[0].Body)
}

func TestSendSingleHalfLocationIgnored(t *testing.T) {
	sms := newFakeSMS()
	svc := newDispatch(t, sms)

	loc := &Location{Latitude: float64p(12.97)}
	_, err := svc.SendSingle(context.Background(), "user-1", "9876543210", "SOS", loc)
	require.NoError(t, err)
	assert.Equal(t, "SOS", sms.calls()[0].Body)
}

func TestSendSingleTransportFailureAudited(t *testing.T) {
	sms := newFakeSMS()
	sms.failures["+919876543210"] = fmt.Errorf("carrier rejected send: unreachable")
	svc := newDispatch(t, sms)

	_, err := svc.SendSingle(context.Background(), "user-1", "9876543210", "SOS", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTransportFailure))

	var logs []models.SosLog
	require.NoError(t, svc.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.SosStatusFailed, logs[0].Status)
	assert.Contains(t, logs[0].Error, "unreachable")
	assert.Empty(t, logs[0].MessageSID)
}

func TestSendSingleUnauthenticated(t *testing.T) {
	sms := newFakeSMS()
	svc := newDispatch(t, sms)

	_, err := svc.SendSingle(context.Background(), "", "9876543210", "SOS", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnauthenticated))
	assert.Empty(t, sms.calls(), "no transport call before identity check")
}

func TestSendBatchPreservesOrderAndOutcomes(t *testing.T) {
	sms := newFakeSMS()
	sms.failures["+919999999999"] = fmt.Errorf("number blocked")
	svc := newDispatch(t, sms)

	contacts := []string{"(987) 654-3210", "9999999999", "+442012345678"}
	results, err := svc.SendBatch(context.Background(), "user-1", contacts, "check on me", nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// raw input strings in input order
	assert.Equal(t, "(987) 654-3210", results[0].Phone)
	assert.Equal(t, "9999999999", results[1].Phone)
	assert.Equal(t, "+442012345678", results[2].Phone)

	assert.True(t, results[0].Success)
	assert.Empty(t, results[0].Error)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "number blocked")
	assert.True(t, results[2].Success, "one recipient's failure must not affect others")

	var logs []models.SosLog
	require.NoError(t, svc.db.Find(&logs).Error)
	assert.Len(t, logs, 3, "every attempt is audited, success or failure")
}

func TestSendBatchEmptyContacts(t *testing.T) {
	sms := newFakeSMS()
	svc := newDispatch(t, sms)

	for _, contacts := range [][]string{nil, {}} {
		_, err := svc.SendBatch(context.Background(), "user-1", contacts, "m", nil)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidArgument))
	}
	assert.Empty(t, sms.calls(), "empty batch must issue zero transport calls")
}

func TestSendBatchAllRecipientsSettle(t *testing.T) {
	sms := newFakeSMS()
	svc := newDispatch(t, sms)

	contacts := make([]string, 20)
	for i := range contacts {
		contacts[i] = fmt.Sprintf("98765432%02d", i)
	}
	results, err := svc.SendBatch(context.Background(), "user-1", contacts, "m", nil)
	require.NoError(t, err)
	require.Len(t, results, len(contacts))
	for i, r := range results {
		assert.Equal(t, contacts[i], r.Phone)
		assert.True(t, r.Success)
	}
	assert.Len(t, sms.calls(), len(contacts))
}

func TestSendRetriesWhenConfigured(t *testing.T) {
	sms := newFakeSMS()
	sms.failures["+919876543210"] = fmt.Errorf("transient")
	svc := NewDispatchService(setupTestDB(t), sms, "+91", 3, zap.NewNop())

	_, err := svc.SendSingle(context.Background(), "user-1", "9876543210", "SOS", nil)
	require.Error(t, err)
	assert.Len(t, sms.calls(), 3, "attempts follow the configured policy")
}
