package service

import (
	"context"
	"sync"
	"testing"

	"SafeAlarm/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Trip{}, &models.Alert{}, &models.EscalationMetric{}, &models.SosLog{},
	))
	return db
}

// fakeSMS records every transport call and fails destinations listed in
// failures.
type fakeSMS struct {
	mu       sync.Mutex
	sent     []fakeSend
	failures map[string]error
}

type fakeSend struct {
	To   string
	Body string
}

func newFakeSMS() *fakeSMS {
	return &fakeSMS{failures: make(map[string]error)}
}

func (f *fakeSMS) Send(ctx context.Context, to, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, fakeSend{To: to, Body: body})
	if err, ok := f.failures[to]; ok {
		return "", err
	}
	return "SM" + to[1:], nil
}

func (f *fakeSMS) calls() []fakeSend {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakeSend(nil), f.sent...)
}
