package routes

import (
	"log"

	"course-compass/internal/config"
	"course-compass/internal/database"
	v1 "course-compass/internal/delivery/http/routes/v1"
	"course-compass/internal/infrastructure/cache"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, cfg config.Config, db database.DB, rc *cache.Redis, logger *log.Logger) {
	if r == nil {
		return
	}

	v1.Register(r, cfg, db, rc, logger)
}
