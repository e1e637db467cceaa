// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roster/internal/platform/apperr"
	"github.com/taibuivan/roster/internal/platform/constants"
	requestutil "github.com/taibuivan/roster/internal/platform/request"
	"github.com/taibuivan/roster/internal/platform/respond"
	"github.com/taibuivan/roster/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the login, session and logout endpoints.
//
// # Scope
//
// Transport only: cookie handling, payload validation and response shapes.
type Handler struct {
	authService  *Service
	secureCookie bool
}

// NewHandler constructs a [Handler]. secureCookie sets the Secure flag on
// the session cookie and should be true behind HTTPS.
func NewHandler(service *Service, secureCookie bool) *Handler {
	return &Handler{authService: service, secureCookie: secureCookie}
}

// RegisterRoutes mounts the auth endpoints on router.
//
// # Endpoints
//   - POST /login   : verifies credentials and sets the session cookie
//   - GET  /session : reports whether the caller is signed in
//   - POST /logout  : destroys the session and clears the cookie
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/login", handler.login)
	router.Get("/session", handler.session)
	router.Post("/logout", handler.logout)
}

// # Request & Response Payloads

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string       `json:"message"`
	User    AdminSummary `json:"user"`
}

type sessionResponse struct {
	IsAuthenticated bool          `json:"isAuthenticated"`
	User            *AdminSummary `json:"user,omitempty"`
}

/*
POST /api/login

Response:
  - 200: {message, user:{id, username}} and the session cookie
  - 400: missing username or password
  - 401: invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, session.Token, session.ExpiresAt)

	respond.OK(writer, loginResponse{
		Message: msgLoginSuccessful,
		User:    AdminSummary{ID: session.Admin.ID, Username: session.Admin.Username},
	})
}

// GET /api/session
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	identity := requestutil.Identity(request)
	if identity == nil {
		respond.OK(writer, sessionResponse{IsAuthenticated: false})
		return
	}

	respond.OK(writer, sessionResponse{
		IsAuthenticated: true,
		User:            &AdminSummary{ID: identity.AdminID, Username: identity.Username},
	})
}

/*
POST /api/logout

Response:
  - 200: {message} and an expired cookie
  - 500: the session store could not be updated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var token string
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
		token = cookie.Value
	}

	if err := handler.authService.Logout(request.Context(), token); err != nil {
		failure := apperr.Internal(err)
		failure.Message = msgLogoutFailed
		respond.Error(writer, request, failure)
		return
	}

	handler.clearSessionCookie(writer)
	respond.Message(writer, msgLoggedOut)
}

// # Cookie Helpers

func (handler *Handler) setSessionCookie(writer http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		Expires:  expiresAt,
		MaxAge:   int(constants.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   handler.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (handler *Handler) clearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
