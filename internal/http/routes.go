package http

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	middleware "task-manager.com/task-manager/internal/http/middlewares"
)

// Register mounts the API on e. Routes other than register and login need a
// bearer token.
func Register(e *echo.Echo, h *Handler, auth middleware.Authenticator, rateLimitPerMinute int, logger *slog.Logger) {
	e.HTTPErrorHandler = ErrorHandler(logger)

	// Forms reach PUT routes as POST with _method=PUT.
	e.Pre(echomw.MethodOverrideWithConfig(echomw.MethodOverrideConfig{
		Getter: echomw.MethodFromForm("_method"),
	}))
	e.Use(echomw.Recover())
	e.Use(requestLogger(logger))

	limit := middleware.RateLimiter(rateLimitPerMinute, time.Minute)
	e.POST("/register", h.Register, limit)
	e.POST("/login", h.Login, limit)

	authed := []echo.MiddlewareFunc{
		middleware.Authenticate(auth),
		middleware.RateLimiter(rateLimitPerMinute, time.Minute),
	}
	e.POST("/logout", h.Logout, authed...)
	e.GET("/user", h.CurrentUser, authed...)

	e.GET("/tasks", h.ListTasks, authed...)
	e.POST("/tasks", h.CreateTask, authed...)
	e.GET("/tasks/:id", h.GetTask, authed...)
	e.PUT("/tasks/:id", h.UpdateTask, authed...)
	e.DELETE("/tasks/:id", h.DeleteTask, authed...)
	e.GET("/tasks/:id/download", h.DownloadAttachment, authed...)
	e.DELETE("/tasks/:id/attachment", h.RemoveAttachment, authed...)

	e.GET("/tasks/:id/comments", h.ListComments, authed...)
	e.POST("/tasks/:id/comments", h.CreateComment, authed...)
	e.GET("/comments/:id", h.GetComment, authed...)
	e.PUT("/comments/:id", h.UpdateComment, authed...)
	e.DELETE("/comments/:id", h.DeleteComment, authed...)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:     true,
		LogURI:        true,
		LogMethod:     true,
		LogLatency:    true,
		LogRemoteIP:   true,
		LogError:      true,
		HandleError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}
