// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roster/internal/api"
	"github.com/taibuivan/roster/internal/auth"
	"github.com/taibuivan/roster/internal/geo"
	"github.com/taibuivan/roster/internal/platform/config"
	"github.com/taibuivan/roster/internal/platform/constants"
	"github.com/taibuivan/roster/internal/platform/sec"
	"github.com/taibuivan/roster/internal/registrant"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer wires the full router over memory stores and a fake
// geolocation provider.
func newTestServer(t *testing.T, deps api.HealthDependencies) http.Handler {
	t.Helper()
	logger := discardLogger()

	provider := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(writer, `{"city":"Mountain View","region":"California","country_name":"United States"}`)
	}))
	t.Cleanup(provider.Close)

	cfg := &config.Config{
		Environment:    "development",
		ServerPort:     "0",
		AllowedOrigins: "http://localhost:3000",
	}

	signer, err := sec.NewSessionSigner("test-secret", constants.SessionIssuer)
	require.NoError(t, err)

	authService := auth.NewService(auth.NewMemoryAdminRepository(), auth.NewMemorySessionRepository(), signer, logger)
	require.NoError(t, authService.Initialize(context.Background(), "password"))

	resolver := geo.NewResolver(geo.Options{BaseURL: provider.URL, RatePerMinute: 100}, logger)
	registrantService := registrant.NewService(registrant.NewMemoryRepository(), resolver, logger)

	liveness, readiness := api.NewHealthHandlers(deps, logger)
	server := api.NewServer(cfg, logger, authService, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService, false),
		Registrant: registrant.NewHandler(registrantService),
	})
	return server.Handler()
}

type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (c *client) do(method, target, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set(constants.HeaderXForwardedFor, "8.8.8.8")
	if c.cookie != nil {
		request.AddCookie(c.cookie)
	}

	recorder := httptest.NewRecorder()
	c.handler.ServeHTTP(recorder, request)

	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name != constants.SessionCookieName {
			continue
		}
		if cookie.MaxAge < 0 {
			c.cookie = nil
		} else {
			c.cookie = cookie
		}
	}
	return recorder
}

const annPayload = `{"name":"Ann Lee","email":"ann@example.com","mobile":"0901234567","address":"12 Main Street"}`

/*
TestServer_RegistrationAndManagement drives the public and admin flows
through the full middleware chain.
*/
func TestServer_RegistrationAndManagement(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t, api.HealthDependencies{})}

	// 1. Public registration
	recorder := c.do(http.MethodPost, "/api/users", annPayload)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created registrant.User
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)
	require.NotNil(t, created.IPAddress)
	assert.Equal(t, "8.8.8.8", *created.IPAddress)
	require.NotNil(t, created.IPLocation)
	assert.Equal(t, "Mountain View, California, United States", *created.IPLocation)
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))

	// 2. Duplicate email
	recorder = c.do(http.MethodPost, "/api/users", annPayload)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	// 3. Management needs a session
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/users", "").Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/export/users", "").Code)

	// 4. Login and list
	recorder = c.do(http.MethodPost, "/api/login", `{"username":"admin","password":"password"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, c.cookie)

	recorder = c.do(http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var users []registrant.User
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &users))
	assert.Len(t, users, 1)

	recorder = c.do(http.MethodGet, "/api/export/users", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"Ann Lee"`)

	// 5. Logout revokes access
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/logout", "").Code)
	assert.Nil(t, c.cookie)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/users", "").Code)
}

/*
TestServer_HealthProbes covers liveness and readiness.
*/
func TestServer_HealthProbes(t *testing.T) {
	t.Run("no_dependencies", func(t *testing.T) {
		c := &client{t: t, handler: newTestServer(t, api.HealthDependencies{})}

		assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", "").Code)

		recorder := c.do(http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"status":"ready"`)
	})

	t.Run("degraded", func(t *testing.T) {
		c := &client{t: t, handler: newTestServer(t, api.HealthDependencies{
			CheckDatabase: func(context.Context) error { return nil },
			CheckCache:    func(context.Context) error { return errors.New("connection refused") },
		})}

		recorder := c.do(http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
		assert.Contains(t, recorder.Body.String(), "connection refused")
	})
}
