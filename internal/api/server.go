package api

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type ServerOptions struct {
	BodyLimit      int
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
	CORSMaxAge     int
	// AccessLog receives one line per request; nil disables access logging.
	AccessLog io.Writer
}

// NewApp builds the Fiber application with middleware and routes.
func NewApp(handler *Handler, options ServerOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Kepler",
		DisableStartupMessage: true,
		BodyLimit:             options.BodyLimit,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	if options.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Output: options.AccessLog,
			Format: "${time} ${status} ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: valueOr(options.AllowedOrigins, "*"),
		AllowMethods: valueOr(options.AllowedMethods, "GET,POST,PUT,OPTIONS"),
		AllowHeaders: valueOr(options.AllowedHeaders, "Authorization,Content-Type"),
		MaxAge:       options.CORSMaxAge,
	}))
	app.Use(compress.New())

	RegisterRoutes(app, handler)
	return app
}

func valueOr(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
