package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"eventhub/internal/common"
	"eventhub/internal/server/models"
	"eventhub/internal/server/services"
)

// ProfileService covers the operations on the authenticated user's account.
type ProfileService interface {
	UpdateProfile(ctx context.Context, user *models.User, upd services.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error
}

type UserHandler struct {
	users ProfileService
}

func NewUserHandler(users ProfileService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, toUserResponse(CurrentUser(c)))
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return httpError(common.ErrorValidation)
	}
	if err := req.validate(); err != nil {
		return httpError(err)
	}

	user := CurrentUser(c)
	if req.FirstName == nil && req.LastName == nil {
		return c.JSON(http.StatusOK, toUserResponse(user))
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), user,
		services.ProfileUpdate{FirstName: req.FirstName, LastName: req.LastName})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, toUserResponse(updated))
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return httpError(common.ErrorValidation)
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return httpError(err)
	}

	if err := h.users.ChangePassword(c.Request().Context(), CurrentUser(c), req.OldPassword, req.NewPassword); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password changed successfully"})
}
