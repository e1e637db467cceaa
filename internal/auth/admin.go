// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// Admin is an account allowed into the management panel.
//
// # Rules
//   - Username is unique and compared case-sensitively.
//   - PasswordHash is a bcrypt hash and is never serialized.
type Admin struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is the server-side record behind a session cookie.
//
// ExpiresAt is fixed at creation; using a session does not extend it.
type Session struct {
	ID        string
	AdminID   int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the session is no longer valid at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// AdminSummary is the public view of an admin returned by login and /session.
type AdminSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
