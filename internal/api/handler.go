package api

import (
	"errors"
	"time"

	"github.com/bobby-s-dev/air-quality-lookup/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Watcher is the optional watch-list scheduler.
type Watcher interface {
	GetStatus() map[string]interface{}
	ForceRun() bool
}

type Handler struct {
	lookup    *services.LookupService
	watchList []string
	watcher   Watcher
	logger    *zap.Logger
}

// NewHandler builds the HTTP handlers. watcher may be nil when no watch list
// is configured.
func NewHandler(lookup *services.LookupService, watchList []string, watcher Watcher, logger *zap.Logger) *Handler {
	return &Handler{
		lookup:    lookup,
		watchList: watchList,
		watcher:   watcher,
		logger:    logger,
	}
}

// GetSuggestions handles GET /api/v1/suggest
func (h *Handler) GetSuggestions(c *fiber.Ctx) error {
	suggestions := h.lookup.Suggest(c.UserContext(), c.Query("q"))

	return c.JSON(fiber.Map{
		"suggestions": suggestions,
	})
}

// GetLookup handles GET /api/v1/lookup
func (h *Handler) GetLookup(c *fiber.Ctx) error {
	city := c.Query("city")

	report, err := h.lookup.Lookup(c.UserContext(), city)
	switch {
	case err == nil:
		return c.JSON(report)
	case errors.Is(err, services.ErrEmptyCity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please enter a city name.",
		})
	case errors.Is(err, services.ErrCityNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "City not found. Try another name.",
		})
	default:
		h.logger.Error("Lookup failed",
			zap.String("city", city),
			zap.Error(err))

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Something went wrong while loading data.",
		})
	}
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "healthy",
		"timestamp":   time.Now(),
		"last_lookup": h.lookup.GetLastLookupTime(),
		"uptime":      time.Since(startTime).String(),
		"stats":       h.lookup.GetStats(),
		"watch":       h.watchStatus(),
	})
}

// GetMetrics handles GET /api/v1/metrics
func (h *Handler) GetMetrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"metrics":   h.lookup.GetStats(),
		"timestamp": time.Now(),
	})
}

// GetCities handles GET /api/v1/cities
func (h *Handler) GetCities(c *fiber.Ctx) error {
	cities := h.watchList
	if cities == nil {
		cities = []string{}
	}

	return c.JSON(fiber.Map{
		"cities": cities,
	})
}

// GetWatch handles GET /api/v1/watch
func (h *Handler) GetWatch(c *fiber.Ctx) error {
	return c.JSON(h.watchStatus())
}

// RunWatch handles POST /api/v1/watch/run
func (h *Handler) RunWatch(c *fiber.Ctx) error {
	if h.watcher == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Watch list is not configured",
		})
	}

	if !h.watcher.ForceRun() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Watch scheduler is stopping",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "triggered",
	})
}

func (h *Handler) watchStatus() fiber.Map {
	if h.watcher == nil {
		return fiber.Map{"enabled": false}
	}

	status := fiber.Map{"enabled": true}
	for k, v := range h.watcher.GetStatus() {
		status[k] = v
	}
	return status
}

// ErrorHandler renders errors that escape the handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}

var startTime = time.Now()
