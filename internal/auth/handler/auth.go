package handler

import (
	"encoding/json"
	"net/http"

	"roomly/internal/auth/gateway"
	"roomly/internal/auth/service"
	"roomly/internal/auth/session"
	"roomly/internal/auth/validator"
	usersservice "roomly/internal/users/service"
	apperrors "roomly/pkg/errors"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AuthHandler struct {
	auth      service.AuthService
	users     usersservice.UserService
	sessions  *session.Manager
	validator *validator.AuthValidator
	log       *logger.Logger
}

func NewAuthHandler(
	auth service.AuthService,
	users usersservice.UserService,
	sessions *session.Manager,
	authValidator *validator.AuthValidator,
	log *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		users:     users,
		sessions:  sessions,
		validator: authValidator,
		log:       log,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reg service.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		h.writeError(w, "Register", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.validator.ValidateRegistration(&reg); err != nil {
		h.writeError(w, "Register", apperrors.Validation("Invalid registration input", map[string]any{"error": err.Error()}))
		return
	}

	user, token, err := h.auth.Register(r.Context(), &reg)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	h.sessions.SetCookie(w, token)
	if err := httputil.WriteCreated(w, map[string]any{"user_id": user.ID}); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "error", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.writeError(w, "Login", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.validator.ValidateCredentials(&creds); err != nil {
		h.writeError(w, "Login", apperrors.Validation("Invalid login input", map[string]any{"error": err.Error()}))
		return
	}

	user, token, err := h.auth.Login(r.Context(), &creds)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	h.sessions.SetCookie(w, token)
	if err := httputil.WriteSuccess(w, map[string]any{"user_id": user.ID}); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "error", err)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.sessions.ClearCookie(w)
	if err := httputil.WriteOK(w); err != nil {
		h.log.Error("failed to write success response", "handler", "Logout", "error", err)
	}
}

// Session reports whether the request carries a valid session, for the
// presentation layer to branch on.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	_, err := h.sessions.FromRequest(r)
	if err := httputil.WriteSuccess(w, map[string]any{"logged_in": err == nil}); err != nil {
		h.log.Error("failed to write success response", "handler", "Session", "error", err)
	}
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := gateway.UserID(r.Context())
	if userID == "" {
		h.writeError(w, "Profile", apperrors.Unauthorized("No active session"))
		return
	}

	info := h.users.GetUserInfo(r.Context(), userID)
	if err := httputil.WriteSuccess(w, info); err != nil {
		h.log.Error("failed to write success response", "handler", "Profile", "error", err)
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/register", h.Register)
	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/logout", h.Logout)
	router.GET("/api/v1/auth/session", h.Session)
	router.GET("/api/v1/profile", h.Profile)
}
