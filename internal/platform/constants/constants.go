// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the whole service.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Sessions: cookie name, lifetime and pruning cadence.
  - HTTP Headers: proxy and tracing headers read by middleware.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "roster"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 10 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests during shutdown.
	ShutdownTimeout = 15 * time.Second
)

// # Sessions

const (
	// SessionCookieName is the cookie holding the signed session token.
	SessionCookieName = "roster_session"

	// SessionCookiePath scopes the cookie to the whole site.
	SessionCookiePath = "/"

	// SessionTTL is measured from issuance; sessions are not extended on use.
	SessionTTL = 24 * time.Hour

	// SessionIssuer is the 'iss' claim of the signed session token.
	SessionIssuer = "roster.app"

	// RedisPrefixSession namespaces session keys in Redis.
	RedisPrefixSession = "auth:session:"
)

// # Admin Bootstrap

const (
	// DefaultAdminUsername is the account guaranteed to exist after startup.
	DefaultAdminUsername = "admin"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldMessage = "message"
	FieldCode    = "code"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)
