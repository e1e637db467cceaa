// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roster/internal/platform/sec"
)

/*
TestPasswordHash verifies bcrypt hashing and comparison.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("password")
	require.NoError(t, err)

	assert.NotEqual(t, "password", hash)
	assert.True(t, sec.CheckPasswordHash("password", hash))
	assert.False(t, sec.CheckPasswordHash("Password", hash))
	assert.False(t, sec.CheckPasswordHash("password", "not-a-hash"))
}

/*
TestGenerateSecureToken checks length and uniqueness of session ids.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// 32 bytes in unpadded base64url.
	assert.Len(t, first, 43)
	assert.NotEqual(t, first, second)
}

/*
TestSessionSigner covers the signed cookie round trip and its rejections.
*/
func TestSessionSigner(t *testing.T) {
	signer, err := sec.NewSessionSigner("test-secret", "roster.test")
	require.NoError(t, err)

	now := time.Now()

	t.Run("round_trip", func(t *testing.T) {
		token, err := signer.Sign("session-1", now, now.Add(time.Hour))
		require.NoError(t, err)

		sessionID, err := signer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "session-1", sessionID)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := signer.Sign("session-1", now.Add(-2*time.Hour), now.Add(-time.Hour))
		require.NoError(t, err)

		_, err = signer.Verify(token)
		assert.True(t, errors.Is(err, sec.ErrInvalidToken))
	})

	t.Run("other_secret", func(t *testing.T) {
		other, err := sec.NewSessionSigner("another-secret", "roster.test")
		require.NoError(t, err)

		token, err := other.Sign("session-1", now, now.Add(time.Hour))
		require.NoError(t, err)

		_, err = signer.Verify(token)
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("other_issuer", func(t *testing.T) {
		other, err := sec.NewSessionSigner("test-secret", "someone.else")
		require.NoError(t, err)

		token, err := other.Sign("session-1", now, now.Add(time.Hour))
		require.NoError(t, err)

		_, err = signer.Verify(token)
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		for _, token := range []string{"", "abc", "a.b.c"} {
			_, err := signer.Verify(token)
			assert.ErrorIs(t, err, sec.ErrInvalidToken, token)
		}
	})
}

/*
TestNewSessionSigner_EmptySecret rejects an unusable key.
*/
func TestNewSessionSigner_EmptySecret(t *testing.T) {
	_, err := sec.NewSessionSigner("", "roster.test")
	assert.Error(t, err)
}
