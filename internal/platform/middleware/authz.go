// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/roster/internal/platform/apperr"
	"github.com/taibuivan/roster/internal/platform/constants"
	"github.com/taibuivan/roster/internal/platform/ctxutil"
	"github.com/taibuivan/roster/internal/platform/respond"
	"github.com/taibuivan/roster/internal/platform/sec"
)

// SessionVerifier resolves a session cookie value to an admin identity.
//
// Defined here so the middleware does not import the auth package; the auth
// service satisfies it.
type SessionVerifier interface {
	Identify(ctx context.Context, token string) (*sec.Identity, error)
}

// Authenticate resolves the session cookie, if any, into an identity.
//
// # Flow
//  1. No cookie: the request proceeds as anonymous.
//  2. Cookie present: resolve it through [SessionVerifier].
//  3. No live session ([sec.ErrNoSession]): proceeds as anonymous. Gated
//     routes reject it via [RequireAuth]; /session reports isAuthenticated=false.
//  4. Any other failure (store outage): logged and recorded on the context,
//     so [RequireAuth] answers 500 instead of 401.
func Authenticate(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			identity, err := verifier.Identify(request.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, sec.ErrNoSession) {
					next.ServeHTTP(writer, request)
					return
				}

				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "session_resolution_failed",
					slog.Any("error", err),
				)
				ctx := ctxutil.WithSessionError(request.Context(), err)
				next.ServeHTTP(writer, request.WithContext(ctx))
				return
			}
			if identity == nil {
				next.ServeHTTP(writer, request)
				return
			}

			if tracker := identityTrackerFrom(request.Context()); tracker != nil {
				tracker.identity = identity
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered AFTER [Authenticate]. It runs before the handler, so an
// anonymous caller never reaches business logic. A session store failure
// recorded by [Authenticate] answers INTERNAL_ERROR.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetIdentity(request.Context()) == nil {
			if sessionErr := ctxutil.GetSessionError(request.Context()); sessionErr != nil {
				respond.Error(writer, request, apperr.Internal(sessionErr))
				return
			}
			respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Identity Tracking

// identityTracker lets StructuredLogger see the identity resolved further
// down the chain, since context values only flow inward.
type identityTracker struct {
	identity *sec.Identity
}

type trackerKey struct{}

func withIdentityTracker(ctx context.Context, tracker *identityTracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, tracker)
}

func identityTrackerFrom(ctx context.Context) *identityTracker {
	tracker, _ := ctx.Value(trackerKey{}).(*identityTracker)
	return tracker
}
