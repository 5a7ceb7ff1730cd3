package server

import (
	"errors"

	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts the id route parameter as a positive uint.
// On failure it writes a 404 JSON response and returns errResponseWritten,
// because a malformed post ID in the URL is just an address that does not
// exist. Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Page", c.Path()))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parsePage extracts the ?page= query parameter. Out-of-range values are
// clamped later by the pagination layer, so this only normalizes the raw
// input to something parseable.
func parsePage(c *fiber.Ctx) int {
	return c.QueryInt("page", 1)
}

// respondError maps domain errors onto HTTP statuses: missing resources
// become 404 pages, form problems 400, and everything else 500.
func respondError(c *fiber.Ctx, err error) error {
	var formErr *models.FormError
	if errors.As(err, &formErr) {
		return models.RespondWithError(c, fiber.StatusBadRequest, formErr)
	}
	if models.IsNotFound(err) {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}
