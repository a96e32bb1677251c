package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"todostack-backend/internal/auth"
	"todostack-backend/internal/database"
	"todostack-backend/internal/models"
)

// UserHandlers exposes the profile endpoints
type UserHandlers struct {
	users *database.UserRepo
	svc   *auth.Service
}

// NewUserHandlers creates the user handler set
func NewUserHandlers(users *database.UserRepo, svc *auth.Service) *UserHandlers {
	return &UserHandlers{users: users, svc: svc}
}

// GetProfile handles GET /api/users/profile
func (h *UserHandlers) GetProfile(c echo.Context) error {
	authUser, ok := auth.UserFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	user, err := h.users.GetByID(authUser.ID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		c.Logger().Error("get profile error: ", err)
		return respondError(c, http.StatusInternalServerError, "failed to load profile")
	}

	return respondOK(c, h.svc.Sanitize(user))
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandlers) UpdateProfile(c echo.Context) error {
	authUser, ok := auth.UserFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return respondError(c, http.StatusBadRequest, "name is required")
	}

	if err := h.users.UpdateProfile(authUser.ID, name, req.Avatar); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		c.Logger().Error("update profile error: ", err)
		return respondError(c, http.StatusInternalServerError, "failed to update profile")
	}

	user, err := h.users.GetByID(authUser.ID)
	if err != nil {
		c.Logger().Error("reload profile error: ", err)
		return respondError(c, http.StatusInternalServerError, "failed to load profile")
	}

	return respondOK(c, h.svc.Sanitize(user))
}
