package handler

import (
	"encoding/json"
	"net/http"

	"roomly/internal/auth/gateway"
	"roomly/internal/rooms/service"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	httputil "roomly/pkg/http"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.RoomService
	cfg     *config.Config
}

func NewRoomHandler(roomService service.RoomService, cfg *config.Config) *RoomHandler {
	return &RoomHandler{
		service: roomService,
		cfg:     cfg,
	}
}

// List is public: browsing the catalog requires no session.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", apperrors.InvalidInput(err.Error()))
		return
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	rooms, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, rooms, total, limit, offset); err != nil {
		h.cfg.Log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

// ListMine returns the rooms owned by the session user.
func (h *RoomHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := gateway.UserID(r.Context())
	if userID == "" {
		h.writeError(w, "ListMine", apperrors.Unauthorized("No active session"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListMine", apperrors.InvalidInput(err.Error()))
		return
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	rooms, total, err := h.service.GetByOwner(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WritePaginated(w, rooms, total, limit, offset); err != nil {
		h.cfg.Log.Error("failed to write paginated response", "handler", "ListMine", "error", err)
	}
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := gateway.UserID(r.Context())
	if userID == "" {
		h.writeError(w, "Create", apperrors.Unauthorized("No active session"))
		return
	}

	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), userID, &room); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, room); err != nil {
		h.cfg.Log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := gateway.UserID(r.Context())
	if userID == "" {
		h.writeError(w, "Update", apperrors.Unauthorized("No active session"))
		return
	}

	var updates model.RoomUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Update(r.Context(), userID, ps.ByName("id"), &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteOK(w); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := gateway.UserID(r.Context())
	if userID == "" {
		h.writeError(w, "Delete", apperrors.Unauthorized("No active session"))
		return
	}

	if err := h.service.Delete(r.Context(), userID, ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteOK(w); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "Delete", "error", err)
	}
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.cfg.Log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/rooms", h.List)
	router.GET("/api/v1/rooms/id/:id", h.GetByID)
	router.GET("/api/v1/rooms/my", h.ListMine)
	router.POST("/api/v1/rooms", h.Create)
	router.PATCH("/api/v1/rooms/id/:id", h.Update)
	router.DELETE("/api/v1/rooms/id/:id", h.Delete)
}
