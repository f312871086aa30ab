package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

type stubAuthenticator struct {
	token string
	user  *model.User
}

func (s stubAuthenticator) Authenticate(_ context.Context, bearer string) (*model.User, *model.AccessToken, error) {
	if bearer != s.token {
		return nil, nil, apperrors.ErrUnauthenticated
	}
	return s.user, &model.AccessToken{ID: "token-1", UserID: s.user.ID}, nil
}

func TestAuthenticate(t *testing.T) {
	auth := Authenticate(stubAuthenticator{token: "good", user: &model.User{ID: "user-1"}})
	handler := auth(func(c echo.Context) error {
		assert.Equal(t, "user-1", CurrentUser(c).ID)
		assert.Equal(t, "token-1", CurrentToken(c).ID)
		return c.NoContent(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		err    error
	}{
		{"valid", "Bearer good", nil},
		{"lower-case scheme", "bearer good", nil},
		{"missing header", "", apperrors.ErrUnauthenticated},
		{"wrong scheme", "Basic good", apperrors.ErrUnauthenticated},
		{"unknown token", "Bearer bad", apperrors.ErrUnauthenticated},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()

			err := handler(e.NewContext(req, rec))
			if tt.err == nil {
				require.NoError(t, err)
				assert.Equal(t, http.StatusNoContent, rec.Code)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	e := echo.New()
	limited := RateLimiter(2, time.Minute)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	call := func(ip string) (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		return rec, limited(e.NewContext(req, rec))
	}

	for i := 0; i < 2; i++ {
		rec, err := call("10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec, err := call("10.0.0.1")
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusTooManyRequests, he.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderRetryAfter))

	_, err = call("10.0.0.2")
	assert.NoError(t, err, "other clients have their own bucket")
}
