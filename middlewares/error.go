package middlewares

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"licensing-backend/apperrors"
)

// NewErrorHandler centralizes error responses. Service-level errors carry
// stable codes; infrastructure failures are logged and sanitized.
func NewErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// 1) Fiber errors (use their status code + message)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		// 2) Structural validation errors (422 + per-field info)
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := make(map[string]string, len(ve))
			for _, f := range ve {
				out[f.Field()] = f.Tag()
			}
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "validation failed",
				"errors":  out,
			})
		}

		// 3) Business validation errors (400 + code)
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": verr.Message,
				"code":    verr.Code,
			})
		}

		// 4) Lifecycle state errors (409 + code)
		var serr *apperrors.StateError
		if errors.As(err, &serr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": serr.Message,
				"code":    serr.Code,
			})
		}

		// 5) Infrastructure errors (502, details stay in the log)
		var ierr *apperrors.InfrastructureError
		if errors.As(err, &ierr) {
			log.Error("infrastructure error", zap.String("op", ierr.Op), zap.Error(ierr.Err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message": "upstream service unavailable",
				"code":    ierr.Code,
			})
		}

		// 6) Unknown errors (500)
		log.Error("internal error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}
}
