// Package audit records what the agents did: uploads, analyses, finalized
// collections, extractions and deletions.
package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/cur8t/agents/internal/database/audit"
	"github.com/cur8t/agents/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogUpload records a bookmark file upload.
func (s *Service) LogUpload(sessionID, filename, browser string, bookmarks int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventUpload,
		Action:      "bookmark_upload",
		SessionID:   sessionID,
		Description: "Uploaded bookmark export: " + filename,
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"browser":         browser,
		"bookmarks_count": bookmarks,
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogAnalyze records a categorization run.
func (s *Service) LogAnalyze(sessionID string, categories, uncategorized int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventAnalyze,
		Action:      "bookmark_analyze",
		SessionID:   sessionID,
		Description: "Analyzed session bookmarks",
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"categories_count":    categories,
		"uncategorized_count": uncategorized,
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogFinalize records collection payload creation.
func (s *Service) LogFinalize(sessionID string, collections int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventFinalize,
		Action:      "collection_create",
		SessionID:   sessionID,
		Description: "Finalized session into collection payloads",
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{"collections_count": collections}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogExtract records an article link extraction.
func (s *Service) LogExtract(articleURL string, links int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventExtract,
		Action:      "article_extract",
		Description: "Extracted links from " + truncate(articleURL, 400),
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{"links_count": links}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogDelete records a session deletion.
func (s *Service) LogDelete(sessionID string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventDelete,
		Action:      "session_delete",
		SessionID:   sessionID,
		Description: "Deleted import session",
		Status:      entities.AuditStatusSuccess,
	})
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetSessionEvents retrieves the audit trail of one session.
func (s *Service) GetSessionEvents(sessionID string) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsBySession(sessionID)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
