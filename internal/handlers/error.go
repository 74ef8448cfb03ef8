package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the uniform error body: one descriptive message,
// never an internal cause.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ErrorHandler is the custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "An unexpected internal server error occurred."

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Detail: message,
	})
}
