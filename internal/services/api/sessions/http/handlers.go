// Package http provides http transport for sessions
package http

import (
	stdhttp "net/http"

	"bottlescan/internal/modkit/httpkit"
	"bottlescan/internal/modkit/swaggerkit"
	"bottlescan/internal/services/session/domain"
	sessionsvc "bottlescan/internal/services/session/service"
)

// Register mounts session endpoints on the given router
func Register(r httpkit.Router, reg *sessionsvc.Registry) {
	h := &handlers{reg: reg}
	httpkit.Post(r, "/", h.create)
	httpkit.Get(r, "/{id}", h.info)
	httpkit.Delete(r, "/{id}", h.close)
	httpkit.PutJSON(r, "/{id}/location", h.location)
}

// Docs lists the session endpoints for the served OpenAPI document
func Docs() []swaggerkit.Op {
	id := []swaggerkit.Param{{Name: "id", In: "path", Description: "Session id"}}
	return []swaggerkit.Op{
		{Method: stdhttp.MethodPost, Path: "/sessions", Tag: "sessions", Summary: "Start a session", Status: stdhttp.StatusCreated},
		{Method: stdhttp.MethodGet, Path: "/sessions/{id}", Tag: "sessions", Summary: "Session info", Params: id},
		{Method: stdhttp.MethodDelete, Path: "/sessions/{id}", Tag: "sessions", Summary: "Close a session", Params: id, Status: stdhttp.StatusNoContent},
		{Method: stdhttp.MethodPut, Path: "/sessions/{id}/location", Tag: "sessions", Summary: "Report the browser's geolocation outcome", Params: id, JSONBody: true},
	}
}

type handlers struct {
	reg *sessionsvc.Registry
}

// swagger:route POST /sessions Sessions sessionsCreate
// @Summary Start a session
// @Tags Sessions
// @Produce json
// @Success 201 {object} domain.Info "created"
// @Router /sessions [post]
func (h *handlers) create(r *stdhttp.Request) (any, error) {
	s := h.reg.Create(r.Context())
	return httpkit.Created(s.Info(r.Context())), nil
}

// swagger:route GET /sessions/{id} Sessions sessionsInfo
// @Summary Session info
// @Tags Sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} domain.Info "ok"
// @Failure 404 {object} httpkit.Envelope "unknown session"
// @Router /sessions/{id} [get]
func (h *handlers) info(r *stdhttp.Request) (any, error) {
	return h.reg.Info(r.Context(), httpkit.Param(r, "id"))
}

// swagger:route DELETE /sessions/{id} Sessions sessionsClose
// @Summary Close a session; in-flight results are discarded
// @Tags Sessions
// @Param id path string true "Session id"
// @Success 204 "closed"
// @Failure 404 {object} httpkit.Envelope "unknown session"
// @Router /sessions/{id} [delete]
func (h *handlers) close(r *stdhttp.Request) (any, error) {
	if err := h.reg.Close(r.Context(), httpkit.Param(r, "id")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route PUT /sessions/{id}/location Sessions sessionsLocation
// @Summary Report the browser's geolocation outcome
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body domain.LocationInput true "coordinates or denied"
// @Success 200 {object} domain.Info "ok"
// @Router /sessions/{id}/location [put]
func (h *handlers) location(r *stdhttp.Request, in domain.LocationInput) (any, error) {
	return h.reg.ReportLocation(r.Context(), httpkit.Param(r, "id"), in)
}
