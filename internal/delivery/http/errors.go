package http

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/smartcity/roadsafety/internal/domain"
)

// ErrorHandler converts handler errors into the {success:false, error} body.
// Invalid input is reported back to the caller; anything else is logged and
// answered with a generic 500.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			code = fiber.StatusBadRequest
			message = clientMessage(err)
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		default:
			logger.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}

// clientMessage strips the sentinel prefix and capitalizes the rest, so
// "invalid input: latitude and longitude are required" is reported as
// "Latitude and longitude are required".
func clientMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")
	if msg == "" {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
