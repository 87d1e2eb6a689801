package api

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

//go:embed static
var staticFiles embed.FS

func SetupRoutes(app *fiber.App, handler *Handler, log *zap.Logger) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,HEAD,POST",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} ${pid} ${locals:requestid} ${status} - ${method} ${path}\n",
		TimeFormat: time.RFC3339,
	}))

	// API v1 routes
	api := app.Group("/api/v1")

	api.Get("/health", handler.GetHealth)
	api.Get("/metrics", handler.GetMetrics)
	api.Get("/cities", handler.GetCities)

	api.Get("/suggest", handler.GetSuggestions)
	api.Get("/lookup", handler.GetLookup)

	api.Get("/watch", handler.GetWatch)
	api.Post("/watch/run", handler.RunWatch)

	// Widget page
	root, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal("Embedded widget assets missing", zap.Error(err))
	}
	app.Use("/", filesystem.New(filesystem.Config{
		Root:   http.FS(root),
		Index:  "index.html",
		MaxAge: 300,
	}))

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
			"path":  c.Path(),
		})
	})
}
