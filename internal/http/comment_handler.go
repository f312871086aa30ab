package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-manager.com/task-manager/internal/data_models"
)

func (h *Handler) ListComments(c echo.Context) error {
	comments, err := h.commentService.List(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, comments)
}

func (h *Handler) CreateComment(c echo.Context) error {
	req, err := bindComment(c)
	if err != nil {
		return err
	}

	comment, err := h.commentService.Create(c.Request().Context(), c.Param("id"), currentUser(c), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.CommentResponse{
		Message: "Comment added successfully",
		Comment: comment,
	})
}

func (h *Handler) GetComment(c echo.Context) error {
	comment, err := h.commentService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, comment)
}

func (h *Handler) UpdateComment(c echo.Context) error {
	req, err := bindComment(c)
	if err != nil {
		return err
	}

	comment, err := h.commentService.Update(c.Request().Context(), c.Param("id"), currentUser(c), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.CommentResponse{
		Message: "Comment updated",
		Comment: comment,
	})
}

func (h *Handler) DeleteComment(c echo.Context) error {
	if err := h.commentService.Delete(c.Request().Context(), c.Param("id"), currentUser(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Comment deleted successfully"})
}
