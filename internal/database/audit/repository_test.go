package audit

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/lendhub/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_audit_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_LogEvent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	event := &entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventBorrow,
		Action:    "book_borrow",
		Status:    entities.AuditStatusSuccess,
	}

	require.NoError(t, repo.LogEvent(event))
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents_FiltersByUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{UserID: 1, EventType: entities.AuditEventBorrow}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{UserID: 2, EventType: entities.AuditEventReturn}))

	events, total, err := repo.GetEvents(1, 50, 0)

	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, events, 1)
	assert.Equal(t, entities.AuditEventBorrow, events[0].EventType)
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	old := &entities.AuditEvent{UserID: 1, EventType: entities.AuditEventAuth, CreatedAt: time.Now().Add(-48 * time.Hour)}
	recent := &entities.AuditEvent{UserID: 1, EventType: entities.AuditEventAuth}
	require.NoError(t, repo.LogEvent(old))
	require.NoError(t, repo.LogEvent(recent))

	deleted, err := repo.DeleteOldEvents(time.Now().Add(-24 * time.Hour))

	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, total, err := repo.GetEvents(1, 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
