// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// AdminRepository defines the data access contract for admin accounts.
//
// # Implementations
//
// PostgreSQL ([PostgresAdminRepository]) and in-memory ([MemoryAdminRepository]).
type AdminRepository interface {
	// FindByUsername returns the admin with exactly this username.
	//
	// Returns [apperr.NotFound] if no such account exists.
	FindByUsername(ctx context.Context, username string) (*Admin, error)

	// FindByID returns the admin with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id int64) (*Admin, error)

	// Create persists a new admin and fills its ID and CreatedAt.
	//
	// Returns [apperr.Conflict] if the username is taken.
	Create(ctx context.Context, admin *Admin) error
}

// SessionRepository defines the data access contract for login sessions.
//
// # Implementations
//
// In-memory ([MemorySessionRepository], pruned by a janitor) and Redis
// ([RedisSessionRepository], pruned by key TTL).
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// FindByID returns the session, or [apperr.NotFound].
	//
	// Expired sessions may still be returned; callers check ExpiresAt.
	FindByID(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes every session expired at now and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
