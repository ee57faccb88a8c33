package audit

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditrepo "github.com/openshelf/lendhub/internal/database/audit"
	"github.com/openshelf/lendhub/internal/entities"
)

func setupService(t *testing.T) (*Service, *gorm.DB, func()) {
	dbPath := "./test_auditsvc_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	svc := NewService(auditrepo.NewRepository(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return svc, db, cleanup
}

func countEvents(db *gorm.DB) int64 {
	var count int64
	db.Model(&entities.AuditEvent{}).Count(&count)
	return count
}

func TestService_Log(t *testing.T) {
	svc, db, cleanup := setupService(t)
	defer cleanup()

	err := svc.Log(&entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
	})

	require.NoError(t, err)
	assert.EqualValues(t, 1, countEvents(db))
}

func TestService_LogBorrow(t *testing.T) {
	svc, db, cleanup := setupService(t)
	defer cleanup()

	svc.LogBorrow(1, 7, "Dune", nil)

	assert.Eventually(t, func() bool {
		return countEvents(db) == 1
	}, time.Second, 10*time.Millisecond)

	var event entities.AuditEvent
	require.NoError(t, db.First(&event).Error)
	assert.Equal(t, entities.AuditEventBorrow, event.EventType)
	assert.Equal(t, "book_borrow", event.Action)
	assert.Equal(t, entities.AuditStatusSuccess, event.Status)
	require.NotNil(t, event.EntityID)
	assert.EqualValues(t, 7, *event.EntityID)
}

func TestService_LogBorrow_Failure(t *testing.T) {
	svc, db, cleanup := setupService(t)
	defer cleanup()

	svc.LogBorrow(1, 7, "Dune", errors.New("book is not available"))

	assert.Eventually(t, func() bool {
		return countEvents(db) == 1
	}, time.Second, 10*time.Millisecond)

	var event entities.AuditEvent
	require.NoError(t, db.First(&event).Error)
	assert.Equal(t, entities.AuditStatusFailed, event.Status)
	assert.Equal(t, "book is not available", event.ErrorMsg)
}

func TestService_LogReturn(t *testing.T) {
	svc, db, cleanup := setupService(t)
	defer cleanup()

	svc.LogReturn(1, 7, "Dune")

	assert.Eventually(t, func() bool {
		return countEvents(db) == 1
	}, time.Second, 10*time.Millisecond)

	var event entities.AuditEvent
	require.NoError(t, db.First(&event).Error)
	assert.Equal(t, entities.AuditEventReturn, event.EventType)
}

func TestService_GetEvents(t *testing.T) {
	svc, _, cleanup := setupService(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Log(&entities.AuditEvent{
			UserID:    1,
			EventType: entities.AuditEventCatalog,
			Action:    "book_add",
			Status:    entities.AuditStatusSuccess,
		}))
	}
	require.NoError(t, svc.Log(&entities.AuditEvent{
		UserID:    2,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
	}))

	events, total, err := svc.GetEvents(1, 3, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, events, 3)

	events, total, err = svc.GetEvents(0, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	assert.Len(t, events, 6)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, _, cleanup := setupService(t)
	defer cleanup()

	require.NoError(t, svc.Log(&entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, svc.Log(&entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
	}))

	deleted, err := svc.DeleteOldEvents(24 * time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, total, err := svc.GetEvents(0, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
