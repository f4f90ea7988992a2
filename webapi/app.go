// Package webapi exposes the HTTP surface: accounts, shared credit
// limits, categories, transactions and insights.
package webapi

import (
	"github.com/aaveggupta/dhandiary/pkg/app"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber application with all routes registered.
func NewApp(application *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName: "dhandiary",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	cfg := application.Config
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded")
		},
	}))
	fiberApp.Use(recover.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("App is working!")
	})

	AccountRoutes(fiberApp, application)
	TransactionRoutes(fiberApp, application)
	InsightsRoutes(fiberApp, application)

	return fiberApp
}
