package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")
	api.Get("/health", handler.Health)
	api.Post("/signup", handler.Signup)

	auth := api.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/password", handler.ChangePassword)

	api.Get("/logs", handler.JournalOwner, handler.GetLogs)
	api.Post("/logs", handler.JournalOwner, handler.SaveLogs)
	api.Put("/logs", handler.JournalOwner, handler.SaveLogs)
}
