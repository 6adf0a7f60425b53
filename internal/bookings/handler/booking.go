package handler

import (
	"encoding/json"
	"net/http"

	"roomly/internal/auth/gateway"
	"roomly/internal/bookings/service"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	httputil "roomly/pkg/http"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	cfg     *config.Config
}

func NewBookingHandler(bookingService service.BookingService, cfg *config.Config) *BookingHandler {
	return &BookingHandler{
		service: bookingService,
		cfg:     cfg,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := gateway.UserID(r.Context())
	if userID == "" {
		h.writeError(w, "Create", apperrors.Unauthorized("No active session"))
		return
	}

	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), userID, &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.cfg.Log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

// ListOwn returns the session user's bookings, newest first.
func (h *BookingHandler) ListOwn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := gateway.UserID(r.Context())
	if userID == "" {
		h.writeError(w, "ListOwn", apperrors.Unauthorized("No active session"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListOwn", apperrors.InvalidInput(err.Error()))
		return
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, total, err := h.service.GetByUser(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(w, "ListOwn", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.cfg.Log.Error("failed to write paginated response", "handler", "ListOwn", "error", err)
	}
}

// ListAll serves the operator views. Role enforcement happens in the
// service, so the manager and admin paths share this handler.
func (h *BookingHandler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := gateway.UserID(r.Context())
	if userID == "" {
		h.writeError(w, "ListAll", apperrors.Unauthorized("No active session"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListAll", apperrors.InvalidInput(err.Error()))
		return
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, total, err := h.service.GetAll(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(w, "ListAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.cfg.Log.Error("failed to write paginated response", "handler", "ListAll", "error", err)
	}
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	roomID := r.URL.Query().Get("room_id")
	checkIn, err := httputil.ExtractTimeParam(r, "check_in")
	if err != nil {
		h.writeError(w, "Availability", apperrors.InvalidInput(err.Error()))
		return
	}
	checkOut, err := httputil.ExtractTimeParam(r, "check_out")
	if err != nil {
		h.writeError(w, "Availability", apperrors.InvalidInput(err.Error()))
		return
	}

	available, err := h.service.CheckAvailability(r.Context(), roomID, checkIn, checkOut)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"available": available}); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "Availability", "error", err)
	}
}

type statusRequest struct {
	Status model.BookingStatus `json:"status"`
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := gateway.UserID(r.Context())
	if userID == "" {
		h.writeError(w, "UpdateStatus", apperrors.Unauthorized("No active session"))
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "UpdateStatus", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.UpdateStatus(r.Context(), userID, ps.ByName("id"), req.Status); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteOK(w); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "UpdateStatus", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := gateway.UserID(r.Context())
	if userID == "" {
		h.writeError(w, "Cancel", apperrors.Unauthorized("No active session"))
		return
	}

	if err := h.service.CancelByOwner(r.Context(), userID, ps.ByName("id")); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteOK(w); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "Cancel", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.cfg.Log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.ListOwn)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.GET("/api/v1/rooms/availability", h.Availability)
	router.GET("/api/v1/manager/bookings", h.ListAll)
	router.GET("/api/v1/admin/bookings", h.ListAll)
	router.POST("/api/v1/manager/bookings/id/:id/status", h.UpdateStatus)
}
