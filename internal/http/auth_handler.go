package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-manager.com/task-manager/internal/data_models"
	middleware "task-manager.com/task-manager/internal/http/middlewares"
)

const tokenType = "Bearer"

func (h *Handler) Register(c echo.Context) error {
	req, err := bindRegister(c)
	if err != nil {
		return err
	}

	user, token, err := h.identityService.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.AuthResponse{
		Message:     "User registered successfully",
		AccessToken: token,
		TokenType:   tokenType,
		User:        user,
	})
}

func (h *Handler) Login(c echo.Context) error {
	req, err := bindLogin(c)
	if err != nil {
		return err
	}

	_, token, err := h.identityService.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.AuthResponse{
		AccessToken: token,
		TokenType:   tokenType,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	token := middleware.CurrentToken(c)
	if err := h.identityService.Logout(c.Request().Context(), token.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *Handler) CurrentUser(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}
