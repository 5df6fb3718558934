package middleware

import (
	"errors"
	"fmt"

	"talent-bridge/internal/logger"
	"talent-bridge/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// ErrorMiddleware renders handler errors as SemanticResponse and recovers
// panics. Causes of 5xx responses are logged, never returned to the client.
type ErrorMiddleware struct {
	log logger.Logger
}

func NewErrorMiddleware(log logger.Logger) *ErrorMiddleware {
	if log == nil {
		log = logger.NewNop()
	}
	return &ErrorMiddleware{log: log}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.log.Error("panic recovered", map[string]interface{}{
					"panic":      fmt.Sprint(r),
					"path":       c.Path(),
					"request_id": RequestID(c),
				})
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		out := render(err)
		if out.status >= fiber.StatusInternalServerError {
			m.log.Error("request failed", map[string]interface{}{
				"error":      err,
				"status":     out.status,
				"method":     c.Method(),
				"path":       c.Path(),
				"request_id": RequestID(c),
			})
		}
		return response.Error(c, out.status, out.message, out.data)
	}
}

type rendered struct {
	status  int
	message string
	data    interface{}
}

// render maps an error to what the client sees. Server side detail never
// leaves the process: 503 keeps its status, every other 5xx becomes a bare 500.
func render(err error) rendered {
	status := fiber.StatusInternalServerError
	var (
		msg  string
		data interface{}
	)

	var appErr *AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		status, msg, data = appErr.StatusCode, appErr.Message, appErr.Data
	case errors.As(err, &fiberErr):
		status, msg = fiberErr.Code, fiberErr.Message
	}

	switch {
	case status == fiber.StatusServiceUnavailable:
		return rendered{status: status, message: response.MessageServiceUnavailable}
	case status <= 0 || status >= fiber.StatusInternalServerError:
		return rendered{status: fiber.StatusInternalServerError, message: response.MessageInternalServerError}
	}

	if msg == "" {
		msg = response.MessageFor(status)
	}
	return rendered{status: status, message: msg, data: data}
}
