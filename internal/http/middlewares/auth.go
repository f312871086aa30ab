package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

const (
	userContextKey  = "auth.user"
	tokenContextKey = "auth.token"
)

// Authenticator resolves a bearer token to its user and token row.
type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (*model.User, *model.AccessToken, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller in the echo context.
func Authenticate(authenticator Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			bearer, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return apperrors.ErrUnauthenticated
			}

			user, token, err := authenticator.Authenticate(c.Request().Context(), bearer)
			if err != nil {
				return err
			}

			c.Set(userContextKey, user)
			c.Set(tokenContextKey, token)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentUser returns the authenticated caller, or nil outside Authenticate.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

// CurrentToken returns the token row the caller authenticated with.
func CurrentToken(c echo.Context) *model.AccessToken {
	token, _ := c.Get(tokenContextKey).(*model.AccessToken)
	return token
}
