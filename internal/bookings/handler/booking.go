package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/bookings/service"
	apperrors "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/errors"
	httputil "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/http"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/middleware"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
)

const allowBufferConflictParam = "allowBufferConflict"

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) CheckConflicts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ConflictCheckRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CheckConflicts", err)
		return
	}

	result, err := h.service.CheckConflicts(r.Context(), &req)
	if err != nil {
		h.writeError(w, "CheckConflicts", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, result); err != nil {
		h.log.Error("failed to write response", "handler", "CheckConflicts", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts, err := writeOptions(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	result, err := h.service.Create(r.Context(), &req, opts)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "GetByID", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	bookings, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	q := r.URL.Query()
	query := service.SearchQuery{
		From:   q.Get("from"),
		To:     q.Get("to"),
		Venue:  q.Get("venue"),
		Status: q.Get("status"),
	}

	bookings, totalCount, err := h.service.Search(r.Context(), query, limit, offset)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "Update", apperrors.InvalidInput("ID parameter is required"))
		return
	}
	opts, err := writeOptions(r)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var update model.BookingUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	result, err := h.service.Update(r.Context(), id, &update, opts)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "Cancel", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	booking, err := h.service.Cancel(r.Context(), id, service.WriteOptions{
		Actor:     middleware.Actor(r.Context()),
		RequestID: middleware.RequestIDFrom(r.Context()),
	})
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func writeOptions(r *http.Request) (service.WriteOptions, error) {
	allow, err := httputil.ExtractBool(r, allowBufferConflictParam)
	if err != nil {
		return service.WriteOptions{}, err
	}
	return service.WriteOptions{
		Actor:               middleware.Actor(r.Context()),
		RequestID:           middleware.RequestIDFrom(r.Context()),
		AllowBufferConflict: allow,
	}, nil
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/conflicts/check", middleware.RequireRole(middleware.RoleViewer, h.CheckConflicts))

	router.POST("/api/v1/bookings", middleware.RequireRole(middleware.RoleManager, h.Create))
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", middleware.RequireRole(middleware.RoleManager, h.Update))
	router.POST("/api/v1/bookings/id/:id/cancel", middleware.RequireRole(middleware.RoleManager, h.Cancel))
	router.GET("/api/v1/bookings/search", h.Search)
}
