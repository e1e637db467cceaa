// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package registrant

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/roster/internal/platform/apperr"
	"github.com/taibuivan/roster/pkg/pointer"
)

// # Contracts

// Locator turns a client IP into a display location. It never fails; a
// lookup problem comes back as a fallback string.
type Locator interface {
	Resolve(ctx context.Context, ip string) string
}

// Service implements the registration and record management use cases.
type Service struct {
	repository Repository
	locator    Locator
	logger     *slog.Logger
}

// NewService wires the service to its store and geolocation resolver.
func NewService(repository Repository, locator Locator, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		locator:    locator,
		logger:     logger,
	}
}

// # Registration

/*
Register validates the form, resolves the caller's location and stores the
record.

Location lookup runs before the insert and cannot fail the registration.

Returns:
  - *User: the stored record with ID, CreatedAt and IP metadata
  - error: VALIDATION_ERROR, CONFLICT on a reused email, or storage failure
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	cleaned, err := ValidateRegistration(input)
	if err != nil {
		return nil, err
	}

	location := service.locator.Resolve(ctx, cleaned.IPAddress)

	user := &User{
		Name:       cleaned.Name,
		Email:      cleaned.Email,
		Mobile:     cleaned.Mobile,
		Address:    cleaned.Address,
		IPAddress:  pointer.To(cleaned.IPAddress),
		IPLocation: pointer.To(location),
	}

	if err := service.repository.Create(ctx, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "registrant_created", slog.Int64("user_id", user.ID))
	return user, nil
}

// # Management

// Get returns one record.
func (service *Service) Get(ctx context.Context, id int64) (*User, error) {
	return service.repository.FindByID(ctx, id)
}

// List returns every record. A non-nil view is applied as a projection.
func (service *Service) List(ctx context.Context, view *ViewOptions) ([]*User, error) {
	users, err := service.repository.List(ctx)
	if err != nil {
		return nil, err
	}
	return applyView(users, view), nil
}

// Search returns records matching query. A non-nil view is applied on top.
func (service *Service) Search(ctx context.Context, query string, view *ViewOptions) ([]*User, error) {
	users, err := service.repository.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return applyView(users, view), nil
}

/*
Update applies a partial edit.

Only fields present in the patch are validated and written. An empty patch
returns the current record.
*/
func (service *Service) Update(ctx context.Context, id int64, patch Patch) (*User, error) {
	cleaned, err := ValidatePatch(patch)
	if err != nil {
		return nil, err
	}

	if cleaned.IsEmpty() {
		return service.repository.FindByID(ctx, id)
	}

	return service.repository.Update(ctx, id, cleaned)
}

// Delete removes a record permanently.
func (service *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := service.repository.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound(resourceUser)
	}

	service.logger.InfoContext(ctx, "registrant_deleted", slog.Int64("user_id", id))
	return nil
}

// Export renders every record as CSV.
func (service *Service) Export(ctx context.Context) ([]byte, error) {
	users, err := service.repository.List(ctx)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	if err := WriteCSV(&buffer, users); err != nil {
		return nil, apperr.Internal(fmt.Errorf("registrant: render csv: %w", err))
	}
	return buffer.Bytes(), nil
}

func applyView(users []*User, view *ViewOptions) []*User {
	if view == nil {
		return users
	}
	return Project(users, *view)
}
