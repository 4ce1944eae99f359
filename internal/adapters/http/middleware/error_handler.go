package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/pkg/response"
)

// ErrorHandler returns the application's fiber.ErrorHandler. Domain errors
// map to their status codes. Anything unexpected is logged and reported as
// a generic 500.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return response.Validation(c, ve.Errors)
		}

		code, msg := resolveError(err)
		if code >= fiber.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("unhandled error")
		}
		return response.Error(c, code, msg)
	}
}

func resolveError(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fiber.StatusConflict, "Resource already exists"
	}

	code := StatusCode(err)
	if code == fiber.StatusInternalServerError {
		return code, "Internal server error"
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return code, de.Message
	}
	return code, err.Error()
}

// StatusCode maps an error kind to its HTTP status
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidArgument):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
