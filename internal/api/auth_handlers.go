package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"todostack-backend/internal/auth"
	"todostack-backend/internal/models"
)

// AuthHandlers exposes the authentication endpoints
type AuthHandlers struct {
	svc       *auth.Service
	secureEnv bool // production sets Secure on the session cookie
}

// NewAuthHandlers creates the auth handler set
func NewAuthHandlers(svc *auth.Service, env string) *AuthHandlers {
	return &AuthHandlers{svc: svc, secureEnv: env == "production"}
}

// Register handles POST /api/auth/register
func (h *AuthHandlers) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.svc.Register(req.Email, req.Password, req.ConfirmPassword, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidEmail),
			errors.Is(err, auth.ErrWeakPassword),
			errors.Is(err, auth.ErrEmailExists):
			return respondError(c, http.StatusBadRequest, err.Error())
		default:
			c.Logger().Error("register error: ", err)
			return respondError(c, http.StatusInternalServerError, "registration failed")
		}
	}

	return respondOK(c, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "email and password are required")
	}

	resp, err := h.svc.Login(req.Email, req.Password, req.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrRateLimited):
			return respondError(c, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, auth.ErrInvalidCredentials):
			return respondError(c, http.StatusUnauthorized, err.Error())
		default:
			c.Logger().Error("login error: ", err)
			return respondError(c, http.StatusInternalServerError, "login failed")
		}
	}

	h.setSessionCookie(c, resp.Token, time.Until(resp.ExpiresAt))

	return respondOK(c, resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandlers) Me(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}
	return respondOK(c, user)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	token := auth.TokenFromRequest(c)
	if token == "" {
		return respondError(c, http.StatusBadRequest, "no session token")
	}

	if err := h.svc.Logout(token); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		c.Logger().Error("logout error: ", err)
		return respondError(c, http.StatusInternalServerError, "logout failed")
	}

	h.clearSessionCookie(c)

	return respondOK(c, map[string]string{"message": "logged out successfully"})
}

// ValidateSession handles POST /api/auth/validate-session
func (h *AuthHandlers) ValidateSession(c echo.Context) error {
	token := auth.TokenFromRequest(c)
	if token == "" {
		return respondError(c, http.StatusUnauthorized, "no session token")
	}

	resp, err := h.svc.ValidateSession(token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrSessionExpired),
			errors.Is(err, auth.ErrUnauthorized):
			return respondError(c, http.StatusUnauthorized, err.Error())
		default:
			c.Logger().Error("validate session error: ", err)
			return respondError(c, http.StatusInternalServerError, "session validation failed")
		}
	}

	return respondOK(c, resp)
}

// UpdatePassword handles POST /api/auth/update-password
func (h *AuthHandlers) UpdatePassword(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	var req models.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	// The acting user may only change their own password
	if req.ID == "" || req.ID != user.ID {
		return respondError(c, http.StatusBadRequest, "unauthorized access")
	}

	if err := h.svc.UpdatePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrWeakPassword):
			return respondError(c, http.StatusBadRequest, err.Error())
		default:
			c.Logger().Error("update password error: ", err)
			return respondError(c, http.StatusInternalServerError, "update password failed")
		}
	}

	return respondOK(c, map[string]string{"status": "success"})
}

func (h *AuthHandlers) setSessionCookie(c echo.Context, token string, maxAge time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureEnv,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}

func (h *AuthHandlers) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureEnv,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
