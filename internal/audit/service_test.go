package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	auditRepo "github.com/cur8t/agents/internal/database/audit"
	"github.com/cur8t/agents/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := auditRepo.NewRepository(db)
	svc := NewService(repo)

	return svc, db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventUpload,
		Action:      "bookmark_upload",
		SessionID:   "sess-1",
		Description: "Test upload event",
		Status:      entities.AuditStatusSuccess,
	}

	err := svc.Log(event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	err = db.First(&saved, event.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "bookmark_upload", saved.Action)
}

func TestService_LogUpload(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful upload", func(t *testing.T) {
		svc.LogUpload("sess-1", "bookmarks.html", "chrome", 42, nil)

		// Allow async operation to complete
		time.Sleep(50 * time.Millisecond)

		var event entities.AuditEvent
		err := db.Where("session_id = ?", "sess-1").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Contains(t, event.Description, "bookmarks.html")
		assert.Contains(t, event.Metadata, "bookmarks_count")
		assert.Contains(t, event.Metadata, "chrome")
	})

	t.Run("failed upload", func(t *testing.T) {
		svc.LogUpload("", "empty.html", "", 0, errors.New("no bookmarks found in file"))

		time.Sleep(50 * time.Millisecond)

		var event entities.AuditEvent
		err := db.Where("status = ?", entities.AuditStatusFailed).First(&event).Error
		require.NoError(t, err)
		assert.Contains(t, event.ErrorMsg, "no bookmarks found")
	})
}

func TestService_LogAnalyze(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogAnalyze("sess-2", 4, 3, nil)

	time.Sleep(50 * time.Millisecond)

	var event entities.AuditEvent
	err := db.Where("action = ?", "bookmark_analyze").First(&event).Error
	require.NoError(t, err)
	assert.Equal(t, entities.AuditEventAnalyze, event.EventType)
	assert.Contains(t, event.Metadata, "categories_count")
	assert.Contains(t, event.Metadata, "uncategorized_count")
}

func TestService_LogFinalize(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogFinalize("sess-3", 2, nil)

	time.Sleep(50 * time.Millisecond)

	var event entities.AuditEvent
	err := db.Where("action = ?", "collection_create").First(&event).Error
	require.NoError(t, err)
	assert.Equal(t, entities.AuditEventFinalize, event.EventType)
	assert.Equal(t, "sess-3", event.SessionID)
}

func TestService_LogExtract(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogExtract("https://example.com/article", 12, nil)

	time.Sleep(50 * time.Millisecond)

	var event entities.AuditEvent
	err := db.Where("action = ?", "article_extract").First(&event).Error
	require.NoError(t, err)
	assert.Contains(t, event.Description, "example.com/article")
	assert.Contains(t, event.Metadata, "links_count")
}

func TestService_LogDelete(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogDelete("sess-4")

	time.Sleep(50 * time.Millisecond)

	var event entities.AuditEvent
	err := db.Where("action = ?", "session_delete").First(&event).Error
	require.NoError(t, err)
	assert.Equal(t, entities.AuditEventDelete, event.EventType)
	assert.Equal(t, "sess-4", event.SessionID)
}

func TestService_GetSessionEvents(t *testing.T) {
	svc, _ := setupTestService(t)

	require.NoError(t, svc.Log(&entities.AuditEvent{
		EventType: entities.AuditEventUpload,
		Action:    "bookmark_upload",
		SessionID: "sess-5",
		Status:    entities.AuditStatusSuccess,
	}))
	require.NoError(t, svc.Log(&entities.AuditEvent{
		EventType: entities.AuditEventAnalyze,
		Action:    "bookmark_analyze",
		SessionID: "sess-5",
		Status:    entities.AuditStatusSuccess,
	}))
	require.NoError(t, svc.Log(&entities.AuditEvent{
		EventType: entities.AuditEventUpload,
		Action:    "bookmark_upload",
		SessionID: "other",
		Status:    entities.AuditStatusSuccess,
	}))

	events, err := svc.GetSessionEvents("sess-5")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)

	oldEvent := &entities.AuditEvent{
		EventType: entities.AuditEventUpload,
		Action:    "old",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, db.Create(oldEvent).Error)

	newEvent := &entities.AuditEvent{
		EventType: entities.AuditEventDelete,
		Action:    "new",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(newEvent).Error)

	deleted, err := svc.DeleteOldEvents(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []entities.AuditEvent
	db.Find(&remaining)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Action)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a very long string", 10, "this is..."},
		{"", 5, ""},
	}

	for _, tc := range tests {
		result := truncate(tc.input, tc.maxLen)
		assert.Equal(t, tc.expected, result)
	}
}
