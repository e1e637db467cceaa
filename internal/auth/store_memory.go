// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/roster/internal/platform/apperr"
)

// # Admins

// MemoryAdminRepository implements [AdminRepository] in process memory.
type MemoryAdminRepository struct {
	mu         sync.RWMutex
	byID       map[int64]*Admin
	byUsername map[string]int64
	nextID     int64
}

var _ AdminRepository = (*MemoryAdminRepository)(nil)

// NewMemoryAdminRepository creates an empty admin repository.
func NewMemoryAdminRepository() *MemoryAdminRepository {
	return &MemoryAdminRepository{
		byID:       make(map[int64]*Admin),
		byUsername: make(map[string]int64),
	}
}

func (repository *MemoryAdminRepository) FindByUsername(_ context.Context, username string) (*Admin, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, ok := repository.byUsername[username]
	if !ok {
		return nil, apperr.NotFound(resourceAdmin)
	}
	copied := *repository.byID[id]
	return &copied, nil
}

func (repository *MemoryAdminRepository) FindByID(_ context.Context, id int64) (*Admin, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	admin, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound(resourceAdmin)
	}
	copied := *admin
	return &copied, nil
}

func (repository *MemoryAdminRepository) Create(_ context.Context, admin *Admin) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.byUsername[admin.Username]; taken {
		return apperr.Conflict(conflictUsernameMessage)
	}

	repository.nextID++
	admin.ID = repository.nextID
	admin.CreatedAt = time.Now().UTC()

	stored := *admin
	repository.byID[admin.ID] = &stored
	repository.byUsername[admin.Username] = admin.ID
	return nil
}

// # Sessions

// MemorySessionRepository implements [SessionRepository] in process memory.
//
// Expired entries are removed lazily on lookup by the service and in bulk by
// [MemorySessionRepository.StartJanitor].
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

var _ SessionRepository = (*MemorySessionRepository)(nil)

// NewMemorySessionRepository creates an empty session store.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]*Session)}
}

func (repository *MemorySessionRepository) Create(_ context.Context, session *Session) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored := *session
	repository.sessions[session.ID] = &stored
	return nil
}

func (repository *MemorySessionRepository) FindByID(_ context.Context, id string) (*Session, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	session, ok := repository.sessions[id]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	copied := *session
	return &copied, nil
}

func (repository *MemorySessionRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.sessions, id)
	return nil
}

func (repository *MemorySessionRepository) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	removed := 0
	for id, session := range repository.sessions {
		if session.IsExpired(now) {
			delete(repository.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions, expired ones included.
func (repository *MemorySessionRepository) Len() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.sessions)
}

/*
StartJanitor prunes expired sessions every interval until ctx is cancelled.

It runs in its own goroutine and returns immediately. The returned channel is
closed once the goroutine has exited.
*/
func (repository *MemorySessionRepository) StartJanitor(ctx context.Context, interval time.Duration, logger *slog.Logger) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				removed, _ := repository.DeleteExpired(ctx, now)
				if removed > 0 {
					logger.Debug("session_janitor_pruned", slog.Int("removed", removed))
				}
			}
		}
	}()

	return done
}
