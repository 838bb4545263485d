// internal/services/testutil_test.go
package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/keygate/keygate-backend/internal/models"
)

// newTestDB opens an isolated in-memory store. The pool is pinned to a
// single connection so every query sees the same sqlite memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.License{},
		&models.BlacklistEntry{},
		&models.AuditLog{},
	))

	return db
}

// recordingNotifier captures audit events for assertions.
type recordingNotifier struct {
	mtx       sync.Mutex
	successes []AuditEvent
	failures  []AuditEvent
}

func (n *recordingNotifier) NotifySuccess(event AuditEvent) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.successes = append(n.successes, event)
}

func (n *recordingNotifier) NotifyFailure(event AuditEvent) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.failures = append(n.failures, event)
}

func (n *recordingNotifier) lastFailure() AuditEvent {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if len(n.failures) == 0 {
		return AuditEvent{}
	}
	return n.failures[len(n.failures)-1]
}
