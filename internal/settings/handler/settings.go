package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/settings/service"
	httputil "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/http"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/middleware"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
)

type SettingsHandler struct {
	service service.SettingsService
	log     *logger.Logger
}

func NewSettingsHandler(service service.SettingsService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		log:     log,
	}
}

func (h *SettingsHandler) GetConflict(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		h.writeError(w, "GetConflict", err)
		return
	}

	if err := httputil.WriteSuccess(w, settings); err != nil {
		h.log.Error("failed to write success response", "handler", "GetConflict", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SettingsHandler) UpdateConflict(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var update model.ConflictSettingsUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "UpdateConflict", err)
		return
	}

	settings, err := h.service.Update(r.Context(), &update, middleware.Actor(r.Context()))
	if err != nil {
		h.writeError(w, "UpdateConflict", err)
		return
	}

	if err := httputil.WriteSuccess(w, settings); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateConflict", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SettingsHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *SettingsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/settings/conflict", h.GetConflict)
	router.PUT("/api/v1/settings/conflict", middleware.RequireRole(middleware.RoleAdmin, h.UpdateConflict))
}
