package handler

import (
	"net/http"

	"roomly/internal/auth/gateway"
	"roomly/internal/notifications/service"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	httputil "roomly/pkg/http"

	"github.com/julienschmidt/httprouter"
)

type NotificationHandler struct {
	service service.NotificationService
	cfg     *config.Config
}

func NewNotificationHandler(notificationService service.NotificationService, cfg *config.Config) *NotificationHandler {
	return &NotificationHandler{
		service: notificationService,
		cfg:     cfg,
	}
}

func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := gateway.UserID(r.Context())
	if userID == "" {
		h.writeError(w, "ListUnread", apperrors.Unauthorized("No active session"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListUnread", apperrors.InvalidInput(err.Error()))
		return
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	notifications, total, err := h.service.ListUnread(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(w, "ListUnread", err)
		return
	}

	if err := httputil.WritePaginated(w, notifications, total, limit, offset); err != nil {
		h.cfg.Log.Error("failed to write paginated response", "handler", "ListUnread", "error", err)
	}
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := gateway.UserID(r.Context())
	if userID == "" {
		h.writeError(w, "MarkRead", apperrors.Unauthorized("No active session"))
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, ps.ByName("id")); err != nil {
		h.writeError(w, "MarkRead", err)
		return
	}

	if err := httputil.WriteOK(w); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "MarkRead", "error", err)
	}
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.cfg.Log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/notifications", h.ListUnread)
	router.POST("/api/v1/notifications/id/:id/read", h.MarkRead)
}
