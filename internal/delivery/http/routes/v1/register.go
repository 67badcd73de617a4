package v1

import (
	"log"

	"course-compass/internal/config"
	"course-compass/internal/database"
	"course-compass/internal/delivery/http/handler"
	"course-compass/internal/delivery/http/middleware"
	"course-compass/internal/infrastructure/cache"
	"course-compass/internal/pkg/jwt"
	"course-compass/internal/repository"
	"course-compass/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, cfg config.Config, db database.DB, rc *cache.Redis, logger *log.Logger) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(db)
	categoryRepo := repository.NewPostgresCategoryRepository(db)
	courseRepo := repository.NewPostgresCourseRepository(db)
	pathRepo := repository.NewPostgresLearningPathRepository(db)
	prefRepo := repository.NewPostgresPreferenceRepository(db)

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	prefUC := usecase.NewPreferenceUsecase(prefRepo, courseRepo, categoryRepo, rc, logger)
	recUC := usecase.NewRecommendationUsecase(userRepo, courseRepo, pathRepo, prefUC, rc, logger)
	pathUC := usecase.NewLearningPathUsecase(pathRepo, prefRepo, prefUC, rc, logger)

	authHandler := handler.NewAuthHandler(authUC)
	prefHandler := handler.NewPreferenceHandler(prefUC)
	recHandler := handler.NewRecommendationHandler(recUC)
	pathHandler := handler.NewLearningPathHandler(pathUC)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	protected := r.Group("", authMw.Middleware())

	prefHandler.RegisterRoutes(protected)
	recHandler.RegisterRoutes(protected)
	pathHandler.RegisterRoutes(protected)
}
