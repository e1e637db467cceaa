// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roster/internal/auth"
	"github.com/taibuivan/roster/internal/platform/apperr"
	"github.com/taibuivan/roster/internal/platform/sec"
)

// testClock is a settable time source.
type testClock struct {
	now time.Time
}

func (clock *testClock) Now() time.Time { return clock.now }

type fixture struct {
	service  *auth.Service
	admins   *auth.MemoryAdminRepository
	sessions *auth.MemorySessionRepository
	clock    *testClock
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	signer, err := sec.NewSessionSigner("test-secret", "roster.test")
	require.NoError(t, err)

	admins := auth.NewMemoryAdminRepository()
	sessions := auth.NewMemorySessionRepository()
	clock := &testClock{now: time.Now()}

	service := auth.NewService(admins, sessions, signer, discardLogger()).WithClock(clock.Now)
	require.NoError(t, service.Initialize(context.Background(), "password"))

	return fixture{service: service, admins: admins, sessions: sessions, clock: clock}
}

/*
TestInitialize seeds the admin once.
*/
func TestInitialize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.admins.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, "password", admin.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("password", admin.PasswordHash))

	// Second run is a no-op and keeps the original hash.
	require.NoError(t, f.service.Initialize(ctx, "different"))
	again, err := f.admins.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
	assert.Equal(t, admin.PasswordHash, again.PasswordHash)
}

/*
TestLogin covers credential checks.
*/
func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "admin", "password", false},
		{"wrong_password", "admin", "wrong", true},
		{"unknown_user", "root", "password", true},
		{"case_sensitive_username", "Admin", "password", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := f.service.Login(ctx, tt.username, tt.password)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.NotEmpty(t, session.Token)
				assert.Equal(t, "admin", session.Admin.Username)
				assert.WithinDuration(t, f.clock.now.Add(24*time.Hour), session.ExpiresAt, time.Second)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeUnauthorized, ae.Code)
			assert.Equal(t, "Invalid username or password", ae.Message)
		})
	}
}

/*
TestResolveSession follows the session lifecycle.
*/
func TestResolveSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.Login(ctx, "admin", "password")
	require.NoError(t, err)

	admin, err := f.service.ResolveSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)

	identity, err := f.service.Identify(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, identity.AdminID)

	t.Run("forged_token", func(t *testing.T) {
		_, err := f.service.ResolveSession(ctx, session.Token+"x")
		assert.ErrorIs(t, err, auth.ErrAnonymous)

		_, err = f.service.Identify(ctx, session.Token+"x")
		assert.ErrorIs(t, err, sec.ErrNoSession)
	})

	t.Run("after_logout", func(t *testing.T) {
		other, err := f.service.Login(ctx, "admin", "password")
		require.NoError(t, err)

		require.NoError(t, f.service.Logout(ctx, other.Token))
		_, err = f.service.ResolveSession(ctx, other.Token)
		assert.ErrorIs(t, err, auth.ErrAnonymous)

		// The first session is unaffected.
		_, err = f.service.ResolveSession(ctx, session.Token)
		assert.NoError(t, err)
	})
}

/*
TestResolveSession_Expired drops sessions past their 24h window.
*/
func TestResolveSession_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.Login(ctx, "admin", "password")
	require.NoError(t, err)
	require.Equal(t, 1, f.sessions.Len())

	// Using the session does not extend it.
	f.clock.now = f.clock.now.Add(23 * time.Hour)
	_, err = f.service.ResolveSession(ctx, session.Token)
	require.NoError(t, err)

	f.clock.now = f.clock.now.Add(time.Hour)
	_, err = f.service.ResolveSession(ctx, session.Token)
	assert.ErrorIs(t, err, auth.ErrAnonymous)
	assert.Equal(t, 0, f.sessions.Len())
}

/*
TestResolveSession_ServerRecordAuthoritative rejects a valid signature with
no stored session.
*/
func TestResolveSession_ServerRecordAuthoritative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.Login(ctx, "admin", "password")
	require.NoError(t, err)

	_, err = f.sessions.DeleteExpired(ctx, time.Now().Add(48*time.Hour))
	require.NoError(t, err)

	_, err = f.service.ResolveSession(ctx, session.Token)
	assert.ErrorIs(t, err, auth.ErrAnonymous)
}

/*
TestLogout is idempotent.
*/
func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.Login(ctx, "admin", "password")
	require.NoError(t, err)

	assert.NoError(t, f.service.Logout(ctx, session.Token))
	assert.NoError(t, f.service.Logout(ctx, session.Token))
	assert.NoError(t, f.service.Logout(ctx, ""))
	assert.NoError(t, f.service.Logout(ctx, "garbage"))
	assert.Equal(t, 0, f.sessions.Len())
}

// brokenSessions fails every delete.
type brokenSessions struct {
	*auth.MemorySessionRepository
}

func (brokenSessions) Delete(context.Context, string) error {
	return errors.New("session store unavailable")
}

/*
TestLogout_StoreFailure reports the failure.
*/
func TestLogout_StoreFailure(t *testing.T) {
	signer, err := sec.NewSessionSigner("test-secret", "roster.test")
	require.NoError(t, err)

	sessions := brokenSessions{auth.NewMemorySessionRepository()}
	service := auth.NewService(auth.NewMemoryAdminRepository(), sessions, signer, discardLogger())
	require.NoError(t, service.Initialize(context.Background(), "password"))

	session, err := service.Login(context.Background(), "admin", "password")
	require.NoError(t, err)

	assert.Error(t, service.Logout(context.Background(), session.Token))
}

// unreachableSessions fails every lookup.
type unreachableSessions struct {
	*auth.MemorySessionRepository
}

func (unreachableSessions) FindByID(context.Context, string) (*auth.Session, error) {
	return nil, errors.New("session store unavailable")
}

/*
TestIdentify_StoreFailure is not reported as a missing session.
*/
func TestIdentify_StoreFailure(t *testing.T) {
	signer, err := sec.NewSessionSigner("test-secret", "roster.test")
	require.NoError(t, err)

	sessions := unreachableSessions{auth.NewMemorySessionRepository()}
	service := auth.NewService(auth.NewMemoryAdminRepository(), sessions, signer, discardLogger())
	require.NoError(t, service.Initialize(context.Background(), "password"))

	session, err := service.Login(context.Background(), "admin", "password")
	require.NoError(t, err)

	_, err = service.Identify(context.Background(), session.Token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, sec.ErrNoSession)
}
