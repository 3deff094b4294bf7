package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/kepler/internal/services"
)

func (handler *Handler) GetLogs(c *fiber.Ctx) error {
	payload, err := handler.logs.Get(handler.blobKey(c))
	if err != nil {
		handler.logger.Error("fetch logs failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch logs")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(payload)
}

// SaveLogs replaces the stored journal with the request body as-is.
func (handler *Handler) SaveLogs(c *fiber.Ctx) error {
	err := handler.logs.Put(handler.blobKey(c), c.Body())
	switch {
	case errors.Is(err, services.ErrInvalidLogPayload):
		return apiError(c, fiber.StatusBadRequest, "invalid log payload")
	case err != nil:
		handler.logger.Error("save logs failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to save logs")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (handler *Handler) blobKey(c *fiber.Ctx) string {
	if account, ok := currentAccount(c); ok {
		return services.BlobKeyFor(account.ID)
	}
	return services.BlobKeyFor(0)
}
