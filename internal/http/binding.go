package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	dto "task-manager.com/task-manager/internal/data_models"
	"task-manager.com/task-manager/internal/storage"
)

const attachmentField = "attachment"

func isJSON(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

func bindJSON(c echo.Context, dest any) error {
	if err := c.Bind(dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	return nil
}

// bind fills dest from a JSON body, or from form fields through read.
func bind(c echo.Context, dest any, read func(url.Values)) error {
	if isJSON(c) {
		return bindJSON(c, dest)
	}

	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form payload")
	}
	read(params)
	return nil
}

// optional returns the field value, or nil when the field was not sent.
func optional(params url.Values, name string) *string {
	values, ok := params[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func bindCreateTask(c echo.Context) (dto.CreateTaskRequest, error) {
	var req dto.CreateTaskRequest
	err := bind(c, &req, func(params url.Values) {
		req.Title = params.Get("title")
		req.Description = optional(params, "description")
		req.Status = params.Get("status")
	})
	return req, err
}

func bindUpdateTask(c echo.Context) (dto.UpdateTaskRequest, error) {
	var req dto.UpdateTaskRequest
	err := bind(c, &req, func(params url.Values) {
		req.Title = optional(params, "title")
		req.Description = optional(params, "description")
		req.Status = optional(params, "status")
	})
	return req, err
}

func bindRegister(c echo.Context) (dto.RegisterRequest, error) {
	var req dto.RegisterRequest
	err := bind(c, &req, func(params url.Values) {
		req.Name = params.Get("name")
		req.Email = params.Get("email")
		req.Password = params.Get("password")
		req.PasswordConfirmation = params.Get("password_confirmation")
	})
	return req, err
}

func bindLogin(c echo.Context) (dto.LoginRequest, error) {
	var req dto.LoginRequest
	err := bind(c, &req, func(params url.Values) {
		req.Email = params.Get("email")
		req.Password = params.Get("password")
	})
	return req, err
}

func bindComment(c echo.Context) (dto.CommentRequest, error) {
	var req dto.CommentRequest
	err := bind(c, &req, func(params url.Values) {
		req.Content = params.Get("content")
	})
	return req, err
}

// bindUpload opens the attachment of a multipart request. It returns a nil
// upload when none was sent; the returned file must be closed by the caller.
func bindUpload(c echo.Context) (*storage.Upload, multipart.File, error) {
	if !isMultipart(c) {
		return nil, nil, nil
	}

	header, err := c.FormFile(attachmentField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}

	upload, err := storage.NewUpload(header.Filename, header.Size, file)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return upload, file, nil
}

func closeUpload(file multipart.File) {
	if file != nil {
		_ = file.Close()
	}
}
