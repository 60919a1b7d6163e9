package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/leadline/crm-server/internal/audit"
	apperrors "github.com/leadline/crm-server/internal/errors"
	"github.com/leadline/crm-server/internal/middleware"
	"github.com/leadline/crm-server/internal/model"
	"github.com/leadline/crm-server/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

type AuthHandler struct {
	authService  AuthService
	throttle     func(http.Handler) http.Handler
	isProduction bool
}

func NewAuthHandler(authService AuthService, throttle func(http.Handler) http.Handler, isProduction bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		throttle:     throttle,
		isProduction: isProduction,
	}
}

// Routes is mounted under /api/auth.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.throttle).Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User    model.PublicUser `json:"user"`
	Message string           `json:"message"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.ValidationError("Missing required fields"), "login decode")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeInvalidCredentials {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventLoginFailure,
				Details: map[string]interface{}{"email": req.Email},
			})
		}
		writeError(w, r, err, "login failed")
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:   audit.EventLoginSuccess,
		UserID: result.User.ID,
	})

	middleware.SetSessionCookie(w, result.Token, result.ExpiresAt, h.isProduction)
	writeJSON(w, http.StatusOK, loginResponse{
		User:    result.User,
		Message: "Login successful",
	})
}

// Logout only drops the cookie. The token stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	event := audit.Event{Type: audit.EventLogout}
	if claims := middleware.GetClaims(r.Context()); claims != nil {
		event.UserID = claims.UserID
	}
	audit.LogFromRequest(r, event)

	middleware.ClearSessionCookie(w, h.isProduction)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
}

type sessionResponse struct {
	User      model.PublicUser `json:"user"`
	LastLogin string           `json:"lastLogin"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// Session describes the caller's session from the claims the gate verified.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		log.Debug().Msg("session requested without verified claims")
		writeError(w, r, apperrors.Unauthorized("Unauthorized"), "session")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		User:      model.PublicUser{ID: claims.UserID, Email: claims.Email},
		LastLogin: claims.LastLogin,
		ExpiresAt: claims.ExpiresAtTime(),
	})
}
