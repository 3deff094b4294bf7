package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/kepler/internal/services"
)

type signupInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordInput struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (handler *Handler) Signup(c *fiber.Ctx) error {
	var input signupInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	displayName := input.DisplayName
	if strings.TrimSpace(displayName) == "" {
		displayName = input.Name
	}

	account, err := handler.accounts.CreateAccount(services.SignupInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: displayName,
	})
	if err != nil {
		if reason, ok := signupFailureReason(err); ok {
			return apiError(c, fiber.StatusBadRequest, reason)
		}
		handler.logger.Error("create account failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	handler.logger.Info("account created", "account_id", account.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": account.Descriptor()})
}

func signupFailureReason(err error) (string, bool) {
	for _, known := range []error{
		services.ErrInvalidEmail,
		services.ErrWeakPassword,
		services.ErrInvalidDisplayName,
		services.ErrEmailTaken,
	} {
		if errors.Is(err, known) {
			return known.Error(), true
		}
	}
	return "", false
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	limiterKey := requestLimiterKey(c)
	now := handler.now()
	if handler.loginLimiter.tooManyRecent(limiterKey, now, handler.loginAttempts, handler.loginAttemptsSpan) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	account, err := handler.accounts.Authenticate(input.Email, input.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		handler.loginLimiter.addFailure(limiterKey, now, handler.loginAttemptsSpan)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrPasswordChangeRequired):
		handler.loginLimiter.reset(limiterKey)
		return apiError(c, fiber.StatusForbidden, "password change required")
	case err != nil:
		handler.logger.Error("login failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to sign in")
	}
	handler.loginLimiter.reset(limiterKey)

	token, expiresAt, err := handler.buildToken(&account)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{"token": token, "expiresAt": expiresAt.UTC()})
}

// ChangePassword shares the login attempt limiter since it also verifies a
// password.
func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	var input changePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	limiterKey := requestLimiterKey(c)
	now := handler.now()
	if handler.loginLimiter.tooManyRecent(limiterKey, now, handler.loginAttempts, handler.loginAttemptsSpan) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	err := handler.accounts.ChangePassword(input.Email, input.CurrentPassword, input.NewPassword)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		handler.loginLimiter.addFailure(limiterKey, now, handler.loginAttemptsSpan)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrWeakPassword), errors.Is(err, services.ErrPasswordUnchanged):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		handler.logger.Error("change password failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to change password")
	}

	handler.loginLimiter.reset(limiterKey)
	return c.JSON(fiber.Map{"success": true})
}
