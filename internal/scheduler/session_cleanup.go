// Package scheduler runs the periodic housekeeping jobs: expired import
// sessions are evicted from memory and old audit events are pruned.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cur8t/agents/internal/audit"
	"github.com/cur8t/agents/internal/sessions"
)

// SessionCleanupScheduler evicts import sessions older than the TTL.
type SessionCleanupScheduler struct {
	store          *sessions.MemoryStore
	auditService   *audit.Service
	sessionTTL     time.Duration
	auditRetention time.Duration
	schedule       string

	cron      *cron.Cron
	mu        sync.RWMutex
	isRunning bool
}

// NewSessionCleanupScheduler creates a new scheduler instance. auditService
// may be nil when audit pruning is not wanted.
func NewSessionCleanupScheduler(store *sessions.MemoryStore, auditService *audit.Service, sessionTTL, auditRetention time.Duration, schedule string) *SessionCleanupScheduler {
	return &SessionCleanupScheduler{
		store:          store,
		auditService:   auditService,
		sessionTTL:     sessionTTL,
		auditRetention: auditRetention,
		schedule:       schedule,
		cron:           cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *SessionCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runCleanup); err != nil {
		return fmt.Errorf("failed to schedule session cleanup: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	log.Printf("Session cleanup scheduler: started with schedule '%s', TTL %s", s.schedule, s.sessionTTL)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler and waits for a running job.
func (s *SessionCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	log.Printf("Session cleanup scheduler: stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *SessionCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunNow triggers one cleanup pass immediately.
func (s *SessionCleanupScheduler) RunNow() {
	s.runCleanup()
}

func (s *SessionCleanupScheduler) runCleanup() {
	cutoff := time.Now().Add(-s.sessionTTL)
	evicted := s.store.DeleteExpired(cutoff)
	if evicted > 0 {
		log.Printf("Session cleanup: evicted %d expired sessions", evicted)
	}

	if s.auditService != nil && s.auditRetention > 0 {
		pruned, err := s.auditService.DeleteOldEvents(s.auditRetention)
		if err != nil {
			log.Printf("Session cleanup: failed to prune audit events: %v", err)
			return
		}
		if pruned > 0 {
			log.Printf("Session cleanup: pruned %d old audit events", pruned)
		}
	}
}
