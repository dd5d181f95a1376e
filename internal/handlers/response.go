package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"tokoshop/internal/apperror"
	"tokoshop/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response is the body of every successful request.
type Response struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page a listing returned.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Guards are the auth middlewares handlers compose their routes with.
type Guards struct {
	Auth     fiber.Handler // rejects unauthenticated requests
	Optional fiber.Handler // decodes a token if present
}

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: "success", Message: message, Data: data})
}

func respondPage(c *fiber.Ctx, message string, data any, page repositories.Page, total int64) error {
	totalPages := int((total + int64(page.Size) - 1) / int64(page.Size))
	return c.JSON(Response{
		Status:  "success",
		Message: message,
		Data:    data,
		Pagination: &Pagination{
			Page:       page.Number,
			Limit:      page.Size,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func pageFromQuery(c *fiber.Ctx) repositories.Page {
	return repositories.Page{
		Number: c.QueryInt("page", 1),
		Size:   c.QueryInt("limit", repositories.DefaultPageSize),
	}.Normalize()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodes the JSON body into out and validates it.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.BadRequest("Invalid request body").Wrap(err)
	}
	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		errorMessages := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			field := e.Namespace()
			if i := strings.Index(field, "."); i >= 0 {
				field = field[i+1:]
			}
			errorMessages[field] = fmt.Sprintf("Field '%s' failed on the '%s' tag", field, e.Tag())
		}
		return apperror.Validation(errorMessages)
	}
	return nil
}

// activeRequest toggles an account or review flag.
type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}
