package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/venues/service"
	apperrors "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/errors"
	httputil "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/http"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/middleware"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
)

type VenueHandler struct {
	service service.VenueService
	log     *logger.Logger
}

func NewVenueHandler(service service.VenueService, log *logger.Logger) *VenueHandler {
	return &VenueHandler{
		service: service,
		log:     log,
	}
}

func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	venues, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, venues); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *VenueHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.VenueRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	v, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, v); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *VenueHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "Delete", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *VenueHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *VenueHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/venues", h.List)
	router.POST("/api/v1/venues", middleware.RequireRole(middleware.RoleAdmin, h.Create))
	router.DELETE("/api/v1/venues/id/:id", middleware.RequireRole(middleware.RoleAdmin, h.Delete))
}
