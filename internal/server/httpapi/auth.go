package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"eventhub/internal/common"
	"eventhub/internal/server/models"
)

// AuthService covers the credential flows the auth endpoints need.
type AuthService interface {
	Register(ctx context.Context, email, firstName, lastName, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return httpError(common.ErrorValidation)
	}
	if err := req.validate(); err != nil {
		return httpError(err)
	}

	user, token, err := h.auth.Register(c.Request().Context(), req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, toTokenResponse(user, token))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return httpError(common.ErrorValidation)
	}
	if req.Email == "" || req.Password == "" {
		return httpError(fmt.Errorf("%w: incorrect email or password", common.ErrorUnauthorized))
	}

	user, token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, toTokenResponse(user, token))
}

// Logout exists for client symmetry. Tokens are stateless, so there is
// nothing to revoke server-side.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Successfully logged out"})
}
