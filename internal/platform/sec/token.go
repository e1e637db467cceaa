// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Identity is the authenticated admin attached to a request context.
//
// Every authenticated admin has full access; there are no roles.
type Identity struct {
	AdminID  int64
	Username string
}

// GenerateSecureToken returns length random bytes encoded as base64url.
func GenerateSecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
