package server

import (
	"errors"

	"devhub/internal/models"
	"devhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// currentUserID returns the authenticated user id placed in locals by
// the auth gate. Handlers behind the gate can rely on it being present.
func currentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("userID").(string); ok {
		return id
	}
	return ""
}

// respondServiceError maps a service-layer error onto an HTTP status.
// Anything without a recognized code is an internal fault and is
// surfaced opaquely.
func respondServiceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeValidation:
			status = fiber.StatusBadRequest
		case models.CodeNotFound:
			status = fiber.StatusNotFound
		case models.CodeUnauthorized:
			status = fiber.StatusForbidden
		case models.CodeConflict:
			status = fiber.StatusConflict
		}
	}
	return models.RespondWithError(c, status, err)
}

// respondValidationErrors writes the per-field failure list.
func respondValidationErrors(c *fiber.Ctx, errs []validation.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
}
