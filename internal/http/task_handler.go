package http

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/labstack/echo/v4"

	dto "task-manager.com/task-manager/internal/data_models"
)

func (h *Handler) ListTasks(c echo.Context) error {
	var query dto.ListTasksQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	tasks, err := h.taskService.List(c.Request().Context(), currentUser(c), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) CreateTask(c echo.Context) error {
	req, err := bindCreateTask(c)
	if err != nil {
		return err
	}

	upload, file, err := bindUpload(c)
	if err != nil {
		return err
	}
	defer closeUpload(file)

	task, err := h.taskService.Create(c.Request().Context(), currentUser(c), req, upload)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.TaskResponse{
		Message: "Task created successfully",
		Task:    task,
	})
}

func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.taskService.Get(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	req, err := bindUpdateTask(c)
	if err != nil {
		return err
	}

	upload, file, err := bindUpload(c)
	if err != nil {
		return err
	}
	defer closeUpload(file)

	task, err := h.taskService.Update(c.Request().Context(), currentUser(c), c.Param("id"), req, upload)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.TaskResponse{
		Message: "Task updated successfully",
		Task:    task,
	})
}

func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.taskService.Delete(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully (Soft Deleted)"})
}

// DownloadAttachment streams the attachment as a file download.
func (h *Handler) DownloadAttachment(c echo.Context) error {
	rc, info, err := h.taskService.OpenAttachment(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	defer rc.Close()

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", path.Base(info.Path)))
	if info.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(info.Size, 10))
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}

	header.Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response(), rc)
	return err
}

func (h *Handler) RemoveAttachment(c echo.Context) error {
	if _, err := h.taskService.RemoveAttachment(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Attachment successfully removed."})
}
