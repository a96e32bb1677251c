package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"todostack-backend/internal/models"
)

// Context keys for storing the authenticated identity
const (
	ContextKeyUser          = "auth_user"
	ContextKeySessionExpiry = "auth_session_expiry"
)

// SessionCookieName is the httpOnly cookie the login handler sets
const SessionCookieName = "session_token"

// RequireAuth returns a middleware that validates the bearer token (or
// session cookie), resolves the live session and attaches the identity to
// the request context. Failures never leak internals; the client sees the
// domain error message only.
func RequireAuth(svc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFromRequest(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"success": false,
					"error":   "authentication required",
				})
			}

			result, err := svc.ValidateSession(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"success": false,
					"error":   publicError(err),
				})
			}

			c.Set(ContextKeyUser, result.User)
			c.Set(ContextKeySessionExpiry, result.ExpiresAt)

			return next(c)
		}
	}
}

// TokenFromRequest extracts the bearer token from the request. The
// Authorization header takes precedence over the cookie.
func TokenFromRequest(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// UserFromContext retrieves the authenticated user set by RequireAuth
func UserFromContext(c echo.Context) (models.PublicUser, bool) {
	user, ok := c.Get(ContextKeyUser).(models.PublicUser)
	return user, ok
}

// publicError maps a validation failure to a client-safe message. Known
// domain errors carry their own message; anything else is reported
// generically.
func publicError(err error) string {
	for _, known := range []error{
		ErrInvalidToken, ErrSessionExpired, ErrUnauthorized, ErrRateLimited,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "authentication failed"
}
