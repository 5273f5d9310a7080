package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"acgl-management-api/internal/middleware"
)

// AuthHandler handles login, logout and session inspection.
type AuthHandler struct {
	Service AuthService
	Logger  *log.Logger

	ErrorHandler *ErrorHandler
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthService, logger *log.Logger) *AuthHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &AuthHandler{
		Service:      svc,
		Logger:       logger,
		ErrorHandler: NewErrorHandler(logger),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler checks credentials and issues a session token.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}

	user, token, err := h.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "login")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// LogoutHandler clears the caller's session marker. Logging out without a
// session is not an error.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if token := middleware.BearerToken(r); token != "" {
		h.Service.Logout(token)
	}
	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, map[string]interface{}{"success": true})
}

// SessionHandler echoes the caller's session marker, or 401 when none is
// valid. Checking also clears an expired marker.
func (h *AuthHandler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	marker, err := h.Service.Check(middleware.BearerToken(r))
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "session check")
		return
	}
	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, marker)
}
