package middleware

import (
	"errors"
	"log"

	"tokoshop/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ErrorHandler turns errors returned by handlers into the error envelope: "fail" for
// client errors, "error" for server errors. Internal detail is only exposed in development.
func ErrorHandler(development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		resp := ErrorResponse{Status: "fail"}
		code := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		if appErr, ok := apperror.As(err); ok {
			code = appErr.Status
			resp.Message = appErr.Message
			resp.Errors = appErr.Fields
			if development && appErr.Err != nil {
				resp.Error = appErr.Err.Error()
			}
		} else if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			resp.Message = fiberErr.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Printf("Error handling %s %s: %v", c.Method(), c.OriginalURL(), err)
			resp.Status = "error"
			if resp.Message == "" || code == fiber.StatusInternalServerError {
				resp.Message = "Internal server error"
			}
			if development {
				resp.Error = err.Error()
			}
		}

		return c.Status(code).JSON(resp)
	}
}
