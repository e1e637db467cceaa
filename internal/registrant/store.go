// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package registrant

import "context"

// conflictEmailMessage is returned when a registration reuses an email.
const conflictEmailMessage = "Email is already registered"

// Repository persists registration records.
//
// Implementations return *apperr.AppError for NOT_FOUND and CONFLICT and
// never return shared pointers into their own state.
type Repository interface {
	// FindByID returns the record or apperr.NotFound("User").
	FindByID(ctx context.Context, id int64) (*User, error)

	// List returns every record ordered by id ascending.
	List(ctx context.Context) ([]*User, error)

	// Create assigns ID and CreatedAt and stores the record.
	// A duplicate email yields apperr.Conflict.
	Create(ctx context.Context, user *User) error

	// Update applies a non-empty patch and returns the updated record.
	Update(ctx context.Context, id int64, patch Patch) (*User, error)

	// Delete removes the record. It reports false when nothing matched.
	Delete(ctx context.Context, id int64) (bool, error)

	// Search returns records whose name, email, mobile or address contains
	// query, case-insensitively, ordered by id ascending.
	Search(ctx context.Context, query string) ([]*User, error)
}
