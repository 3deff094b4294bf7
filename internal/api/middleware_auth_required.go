package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/kepler/internal/models"
)

const contextAccountKey = "current_account"

// JournalOwner resolves whose journal a log request addresses. With auth
// off every request shares one journal; with auth on a valid bearer token
// for an existing account is required.
func (handler *Handler) JournalOwner(c *fiber.Ctx) error {
	if !handler.authRequired {
		return c.Next()
	}

	account, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	c.Locals(contextAccountKey, account)
	return c.Next()
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.Account, error) {
	tokenValue, err := bearerToken(c)
	if err != nil {
		return nil, err
	}
	claims, err := handler.parseToken(tokenValue)
	if err != nil {
		return nil, err
	}
	account, err := handler.accounts.FindByID(claims.AccountID)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func currentAccount(c *fiber.Ctx) (*models.Account, bool) {
	account, ok := c.Locals(contextAccountKey).(*models.Account)
	return account, ok
}
