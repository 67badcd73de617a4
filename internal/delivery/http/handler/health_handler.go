package handler

import (
	"context"

	"course-compass/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	dbPing    func(ctx context.Context) error
	cachePing func(ctx context.Context) error
}

func NewHealthHandler(dbPing, cachePing func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{dbPing: dbPing, cachePing: cachePing}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	data := map[string]any{
		"database": h.check(c.Context(), h.dbPing),
		"cache":    h.check(c.Context(), h.cachePing),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *HealthHandler) check(ctx context.Context, ping func(ctx context.Context) error) string {
	if ping == nil {
		return "disabled"
	}
	if err := ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
