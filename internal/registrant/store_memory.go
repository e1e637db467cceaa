// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package registrant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/roster/internal/platform/apperr"
	"github.com/taibuivan/roster/pkg/pointer"
)

// MemoryRepository implements [Repository] in process memory.
//
// Records live in id order; the email index mirrors the unique constraint of
// the users table. It serves STORAGE_DRIVER=memory and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []*User
	emails  map[string]int64
	nextID  int64
	now     func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty repository stamped with the wall clock.
func NewMemoryRepository() *MemoryRepository {
	return NewMemoryRepositoryWithClock(time.Now)
}

// NewMemoryRepositoryWithClock creates an empty repository whose CreatedAt
// values come from now.
func NewMemoryRepositoryWithClock(now func() time.Time) *MemoryRepository {
	return &MemoryRepository{
		emails: make(map[string]int64),
		now:    now,
	}
}

func (repository *MemoryRepository) FindByID(_ context.Context, id int64) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	_, user := repository.find(id)
	if user == nil {
		return nil, apperr.NotFound(resourceUser)
	}
	return user.clone(), nil
}

func (repository *MemoryRepository) List(_ context.Context) ([]*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	users := make([]*User, 0, len(repository.records))
	for _, user := range repository.records {
		users = append(users, user.clone())
	}
	return users, nil
}

func (repository *MemoryRepository) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.emails[user.Email]; taken {
		return apperr.Conflict(conflictEmailMessage)
	}

	repository.nextID++
	user.ID = repository.nextID
	user.CreatedAt = repository.now().UTC()

	repository.records = append(repository.records, user.clone())
	repository.emails[user.Email] = user.ID
	return nil
}

func (repository *MemoryRepository) Update(_ context.Context, id int64, patch Patch) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	_, current := repository.find(id)
	if current == nil {
		return nil, apperr.NotFound(resourceUser)
	}

	if patch.Email != nil && *patch.Email != current.Email {
		if _, taken := repository.emails[*patch.Email]; taken {
			return nil, apperr.Conflict(conflictEmailMessage)
		}
		delete(repository.emails, current.Email)
		repository.emails[*patch.Email] = id
		current.Email = *patch.Email
	}

	if patch.Name != nil {
		current.Name = *patch.Name
	}
	if patch.Mobile != nil {
		current.Mobile = *patch.Mobile
	}
	if patch.Address != nil {
		current.Address = *patch.Address
	}
	if patch.IPAddress != nil {
		current.IPAddress = pointer.Clone(patch.IPAddress)
	}
	if patch.IPLocation != nil {
		current.IPLocation = pointer.Clone(patch.IPLocation)
	}

	return current.clone(), nil
}

func (repository *MemoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	index, user := repository.find(id)
	if user == nil {
		return false, nil
	}

	delete(repository.emails, user.Email)
	repository.records = append(repository.records[:index], repository.records[index+1:]...)
	return true, nil
}

func (repository *MemoryRepository) Search(ctx context.Context, query string) ([]*User, error) {
	if strings.TrimSpace(query) == "" {
		return repository.List(ctx)
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	matcher := newQueryMatcher(query)
	users := make([]*User, 0)
	for _, user := range repository.records {
		if matcher.matches(user) {
			users = append(users, user.clone())
		}
	}
	return users, nil
}

// find returns the slice index and stored pointer for id, or (-1, nil).
// Callers hold the lock.
func (repository *MemoryRepository) find(id int64) (int, *User) {
	for index, user := range repository.records {
		if user.ID == id {
			return index, user
		}
	}
	return -1, nil
}
