package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"course-compass/internal/config"
	"course-compass/internal/database/migration"
	"course-compass/internal/database/seeder"
	"course-compass/internal/delivery/http/middleware"
	"course-compass/internal/delivery/http/routes"
	"course-compass/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	container, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("container init: %w", err)
	}

	if err := runMigrations(cfg, container); err != nil {
		_ = container.Close()
		return nil, nil, err
	}

	if cfg.Database.RunSeeders {
		if err := seeder.Run(context.Background(), container.DB, logger); err != nil {
			_ = container.Close()
			return nil, nil, fmt.Errorf("seeders: %w", err)
		}
	}

	hub := ws.NewHub(logger)
	go hub.Run()
	ws.SetDefaultHub(hub)

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	registerGlobalMiddleware(f, logger)

	registry := routes.NewRegistry(cfg, container.DB, container.Cache, hub, logger)
	registry.Register(f)

	cleanup := func() error {
		return container.Close()
	}

	return &App{Fiber: f}, cleanup, nil
}

func runMigrations(cfg config.Config, container *Container) error {
	if strings.TrimSpace(cfg.Database.MigrationsDir) == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	runner := migration.Runner{Dir: cfg.Database.MigrationsDir}
	if err := runner.Run(ctx, container.DB.SQLDB()); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(logger)
	app.Use(accessMw.Middleware())

	errMw := middleware.NewErrorMiddleware()
	app.Use(errMw.Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
