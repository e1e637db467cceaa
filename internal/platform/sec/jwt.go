// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives: password hashing, random
// session identifiers, and the signed token carried by the session cookie.
//
// # Architecture
//
// This package isolates security-sensitive code from the domain logic. The
// auth service depends on it; handlers never call it directly.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails parsing, signature or
// expiry checks. Callers treat it as "anonymous".
var ErrInvalidToken = errors.New("sec: invalid session token")

// ErrNoSession marks a session lookup that found no live session. Verifiers
// wrap it so the middleware can tell an anonymous caller from a store outage.
var ErrNoSession = errors.New("sec: no valid session")

// SessionClaims is the payload of the signed session cookie.
//
// The token only names a session; the server-side record stays authoritative,
// so logout takes effect immediately even though the token is still signed.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionSigner signs and verifies session cookie values with HMAC-SHA256.
type SessionSigner struct {
	secret []byte
	issuer string
}

// NewSessionSigner creates a signer keyed by the configured session secret.
func NewSessionSigner(secret, issuer string) (*SessionSigner, error) {
	if secret == "" {
		return nil, errors.New("sec: session secret must not be empty")
	}
	return &SessionSigner{secret: []byte(secret), issuer: issuer}, nil
}

// Sign returns a compact token binding sessionID to its expiry.
func (signer *SessionSigner) Sign(sessionID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    signer.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signer.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry and returns the session id.
func (signer *SessionSigner) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return signer.secret, nil
	}, jwt.WithIssuer(signer.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}

	return claims.ID, nil
}
