package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/edgehq/edge-backend-go/internal/domain/auth"
	"github.com/edgehq/edge-backend-go/internal/handler/http/response"
	"github.com/edgehq/edge-backend-go/internal/pkg/jwt"
	"github.com/edgehq/edge-backend-go/internal/pkg/oauth"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	GoogleLoginURL(w http.ResponseWriter, r *http.Request)
	GoogleCallback(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService   auth.Service
	jwtService    jwt.Service
	googleService oauth.GoogleService
	googleEnabled bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService auth.Service, jwtService jwt.Service, googleService oauth.GoogleService, googleEnabled bool) AuthHandler {
	return &authHandlerImpl{
		authService:   authService,
		jwtService:    jwtService,
		googleService: googleService,
		googleEnabled: googleEnabled,
	}
}

func (h *authHandlerImpl) respondLogin(w http.ResponseWriter, result auth.LoginResponse) {
	http.SetCookie(w, h.jwtService.RefreshTokenCookie(result.RefreshToken, result.RefreshExpiresAt))
	response.Success(w, result)
}

func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Employee logged in", "employee_id", result.Employee.ID)
	h.respondLogin(w, result)
}

// GoogleLoginURL hands the client the Google consent URL. The state is
// echoed back in a short-lived cookie and checked on the callback.
func (h *authHandlerImpl) GoogleLoginURL(w http.ResponseWriter, r *http.Request) {
	if !h.googleEnabled {
		response.NotFound(w, "Google sign-in is not configured")
		return
	}

	state := h.googleService.GenerateState()
	if state == "" {
		response.InternalServerError(w, "Failed to generate OAuth state")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/api/v1/auth",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response.Success(w, map[string]string{
		"url": h.googleService.RedirectURL(state),
	})
}

func (h *authHandlerImpl) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.googleEnabled {
		response.NotFound(w, "Google sign-in is not configured")
		return
	}

	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || state == "" || state != stateCookie.Value {
		response.Unauthorized(w, "OAuth state mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		response.BadRequest(w, "Missing authorization code", nil)
		return
	}

	result, err := h.authService.LoginWithGoogle(r.Context(), code)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Employee logged in via Google", "employee_id", result.Employee.ID)
	h.respondLogin(w, result)
}

func (h *authHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.respondLogin(w, result)
}

func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			response.HandleError(w, err)
			return
		}
	}

	// Expire the cookie
	expired := h.jwtService.RefreshTokenCookie("", time.Now().Add(-time.Hour).Unix())
	http.SetCookie(w, expired)

	response.SuccessWithMessage(w, "Logged out", nil)
}
