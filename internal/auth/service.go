// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the admin login gate of the management panel.

It verifies credentials, issues server-side sessions and resolves the signed
session cookie back to an admin on every request.

Architecture:

  - Service: Login, ResolveSession, Logout and the admin bootstrap.
  - Repository: admins in PostgreSQL or memory; sessions in memory or Redis.
  - Security: bcrypt password hashes and an HS256-signed cookie that names
    the session (package sec).

A session lasts 24 hours from login. Every authenticated admin has full
access; there are no roles.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/roster/internal/platform/apperr"
	"github.com/taibuivan/roster/internal/platform/constants"
	"github.com/taibuivan/roster/internal/platform/sec"
)

// ErrAnonymous is returned by [Service.ResolveSession] when the cookie does
// not map to a live session.
var ErrAnonymous = fmt.Errorf("auth: %w", sec.ErrNoSession)

// # Contracts & Types

// Service implements admin authentication use cases.
type Service struct {
	admins   AdminRepository
	sessions SessionRepository
	signer   *sec.SessionSigner
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a [Service] with its dependencies.
func NewService(admins AdminRepository, sessions SessionRepository, signer *sec.SessionSigner, logger *slog.Logger) *Service {
	return &Service{
		admins:   admins,
		sessions: sessions,
		signer:   signer,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for session lifetimes.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// LoginSession is the result of a successful login.
type LoginSession struct {
	// Token is the signed cookie value.
	Token     string
	ExpiresAt time.Time
	Admin     *Admin
}

// # Authentication Flow

/*
Login verifies credentials and opens a session.

Unknown usernames and wrong passwords return the same error, and unknown
usernames still pay for a bcrypt comparison.

Returns:
  - *LoginSession: cookie token, expiry and the admin
  - error: UNAUTHORIZED, or a storage failure
*/
func (service *Service) Login(ctx context.Context, username, password string) (*LoginSession, error) {
	admin, err := service.admins.FindByUsername(ctx, username)
	if err != nil {
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, fmt.Errorf("auth_service_find_admin_failed: %w", err)
		}
		sec.BurnPasswordCheck(password)
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	if !sec.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	sessionID, err := sec.GenerateSecureToken(SessionIDLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_id_failed: %w", err)
	}

	issuedAt := service.now()
	session := &Session{
		ID:        sessionID,
		AdminID:   admin.ID,
		CreatedAt: issuedAt,
		ExpiresAt: issuedAt.Add(constants.SessionTTL),
	}

	if err := service.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	token, err := service.signer.Sign(session.ID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		_ = service.sessions.Delete(ctx, session.ID)
		return nil, fmt.Errorf("auth_service_sign_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "admin_logged_in", slog.Int64("admin_id", admin.ID))

	return &LoginSession{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Admin:     admin,
	}, nil
}

/*
ResolveSession maps a cookie value to the admin it belongs to.

A bad signature, an unknown session, an expired session or a deleted admin
all yield [ErrAnonymous]. Expired sessions are removed on the way out.
Storage failures are returned as-is.
*/
func (service *Service) ResolveSession(ctx context.Context, token string) (*Admin, error) {
	sessionID, err := service.signer.Verify(token)
	if err != nil {
		return nil, ErrAnonymous
	}

	session, err := service.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, ErrAnonymous
		}
		return nil, fmt.Errorf("auth_service_find_session_failed: %w", err)
	}

	if session.IsExpired(service.now()) {
		_ = service.sessions.Delete(ctx, session.ID)
		return nil, ErrAnonymous
	}

	admin, err := service.admins.FindByID(ctx, session.AdminID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, ErrAnonymous
		}
		return nil, fmt.Errorf("auth_service_find_session_admin_failed: %w", err)
	}

	return admin, nil
}

// Identify adapts [Service.ResolveSession] to the request identity used by
// the authentication middleware.
func (service *Service) Identify(ctx context.Context, token string) (*sec.Identity, error) {
	admin, err := service.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return &sec.Identity{AdminID: admin.ID, Username: admin.Username}, nil
}

/*
Logout destroys the session named by token.

It is idempotent: a missing, malformed or already-destroyed session is a
success. Only a store failure is reported.
*/
func (service *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	sessionID, err := service.signer.Verify(token)
	if err != nil {
		return nil
	}

	if err := service.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// # Bootstrap

/*
Initialize guarantees the default admin account exists.

It is a no-op when the account is present. A conflict from a concurrent
bootstrap counts as success.
*/
func (service *Service) Initialize(ctx context.Context, seedPassword string) error {
	_, err := service.admins.FindByUsername(ctx, constants.DefaultAdminUsername)
	if err == nil {
		return nil
	}
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		return fmt.Errorf("auth_service_bootstrap_lookup_failed: %w", err)
	}

	hash, err := sec.HashPassword(seedPassword)
	if err != nil {
		return fmt.Errorf("auth_service_bootstrap_hash_failed: %w", err)
	}

	admin := &Admin{Username: constants.DefaultAdminUsername, PasswordHash: hash}
	if err := service.admins.Create(ctx, admin); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil
		}
		return fmt.Errorf("auth_service_bootstrap_create_failed: %w", err)
	}

	service.logger.WarnContext(ctx, "admin_account_seeded",
		slog.String("username", admin.Username),
		slog.String("hint", "change the seed password via ADMIN_SEED_PASSWORD"),
	)
	return nil
}
