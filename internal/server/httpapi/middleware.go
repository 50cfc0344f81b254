package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"eventhub/internal/server/models"
)

// userContextKey is the echo context key holding the resolved user.
const userContextKey = "current_user"

// Resolver turns a bearer token into the user it identifies.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// bearerToken extracts the token from the Authorization header. The empty
// string means the header is absent or not a bearer scheme.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireIdentity rejects requests without a valid bearer token. Every
// failure mode responds identically so callers cannot probe token state.
func RequireIdentity(resolver Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return unauthorized(c)
			}

			user, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				return unauthorized(c)
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// OptionalIdentity resolves the bearer token if present and valid, and
// proceeds anonymously otherwise. It never fails the request.
func OptionalIdentity(resolver Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := bearerToken(c); token != "" {
				if user, err := resolver.Resolve(c.Request().Context(), token); err == nil {
					c.Set(userContextKey, user)
				}
			}
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
}

// CurrentUser returns the user resolved by the identity middleware, or nil
// for anonymous requests.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}
