// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Session Identifiers

const (
	// SessionIDLength is the number of random bytes in a session id.
	SessionIDLength = 32
)

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// # Messages

const (
	msgInvalidCredentials = "Invalid username or password"
	msgLoginSuccessful    = "Login successful"
	msgLoggedOut          = "Logged out successfully"
	msgLogoutFailed       = "Could not log out"
)

const resourceAdmin = "Admin"

const conflictUsernameMessage = "Username is already taken"
