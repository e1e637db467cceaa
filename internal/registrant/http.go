// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package registrant

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roster/internal/platform/middleware"
	requestutil "github.com/taibuivan/roster/internal/platform/request"
	"github.com/taibuivan/roster/internal/platform/respond"
	"github.com/taibuivan/roster/internal/platform/validate"
)

// # Definitions & Constructors

// Handler exposes registration and record management over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Query parameters accepted by the list endpoints.
const (
	paramQuery     = "q"
	paramFilter    = "filter"
	paramSort      = "sort"
	paramDirection = "dir"
)

// Routes returns the /users router.
//
// # Endpoints
//   - POST   /          : public registration
//   - GET    /          : list (session)
//   - GET    /search    : substring search (session)
//   - GET    /{id}      : fetch one (session)
//   - PUT    /{id}      : partial update (session)
//   - DELETE /{id}      : delete (session)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.register)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", handler.list)
		r.Get("/search", handler.search)
		r.Get("/{id}", handler.get)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.remove)
	})

	return router
}

// ExportRoutes returns the /export router.
func (handler *Handler) ExportRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)
	router.Get("/users", handler.export)
	return router
}

// # Request Payloads

type registerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
}

type updateRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Mobile     *string `json:"mobile"`
	Address    *string `json:"address"`
	IPAddress  *string `json:"ipAddress"`
	IPLocation *string `json:"ipLocation"`
}

/*
POST /api/users

Response:
  - 201: User
  - 400: invalid JSON or field validation failure
  - 409: email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), RegisterInput{
		Name:      input.Name,
		Email:     input.Email,
		Mobile:    input.Mobile,
		Address:   input.Address,
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

// GET /api/users[?filter=&sort=&dir=]
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	view, err := parseView(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	users, err := handler.service.List(request.Context(), view)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, users)
}

// GET /api/users/search?q=[&filter=&sort=&dir=]
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	view, err := parseView(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	users, err := handler.service.Search(request.Context(), request.URL.Query().Get(paramQuery), view)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, users)
}

// GET /api/users/{id}
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "id", "user ID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
PUT /api/users/{id}

Fields absent from the body keep their stored value.

Response:
  - 200: updated User
  - 400: bad id, invalid JSON or field validation failure
  - 404: no such record
  - 409: email already registered to another record
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "id", "user ID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Update(request.Context(), id, Patch(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// DELETE /api/users/{id}
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "id", "user ID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, "User deleted successfully")
}

// GET /api/export/users
func (handler *Handler) export(writer http.ResponseWriter, request *http.Request) {
	body, err := handler.service.Export(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	header := writer.Header()
	header.Set("Content-Type", ExportContentType)
	header.Set("Content-Disposition", "attachment; filename="+ExportFilename)
	header.Set("Content-Length", strconv.Itoa(len(body)))
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(body)
}

// parseView reads the optional projection parameters. It returns nil when
// none are present so the store order is kept as-is.
func parseView(request *http.Request) (*ViewOptions, error) {
	query := request.URL.Query()
	filter, sortKey, direction := query.Get(paramFilter), query.Get(paramSort), query.Get(paramDirection)

	if filter == "" && sortKey == "" && direction == "" {
		return nil, nil
	}

	validator := &validate.Validator{}
	if filter != "" {
		validator.OneOf(paramFilter, filter, FilterValues...)
	}
	if sortKey != "" {
		validator.OneOf(paramSort, sortKey, SortKeyValues...)
	}
	if direction != "" {
		validator.OneOf(paramDirection, direction, DirectionValues...)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return &ViewOptions{
		Filter:    Filter(filter),
		SortKey:   SortKey(sortKey),
		Direction: Direction(direction),
	}, nil
}
