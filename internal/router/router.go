package router

import (
	"github.com/anonto42/warbler/internal/handlers"
	"github.com/anonto42/warbler/internal/middleware"
	"github.com/anonto42/warbler/internal/repositories"
	"github.com/anonto42/warbler/internal/security"
	"github.com/anonto42/warbler/internal/services"
	"github.com/anonto42/warbler/internal/session"
	"github.com/anonto42/warbler/internal/views"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the routes are built from
type Dependencies struct {
	DB       *gorm.DB
	Sessions session.Store
	Hasher   security.PasswordHasher
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	// Health check and metrics run outside the request transaction
	e.GET("/health", handlers.HealthCheck(deps.DB))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.StaticFS("/static", views.Static())

	// --- Initialize Repositories ---
	userRepo := repositories.NewGormUserRepository(deps.DB)
	messageRepo := repositories.NewGormMessageRepository(deps.DB)
	followRepo := repositories.NewGormFollowRepository(deps.DB)
	likeRepo := repositories.NewGormLikeRepository(deps.DB)
	transactor := repositories.NewGormTransactor(deps.DB)

	// --- Initialize Services ---
	userService := services.NewUserService(userRepo, messageRepo, followRepo, likeRepo, transactor, deps.Hasher)
	messageService := services.NewMessageService(messageRepo, followRepo)
	likeService := services.NewLikeService(likeRepo, messageService, transactor)

	// --- Public pages ---
	app := e.Group("",
		middleware.Transaction(deps.DB),
		middleware.LoadSession(deps.Sessions),
		middleware.CurrentUser(userRepo),
	)

	homeHandler := handlers.NewHomeHandler(messageService, likeService)
	homeHandler.RegisterHomeRoutes(app)

	authHandler := handlers.NewAuthHandler(userService)
	authHandler.RegisterAuthRoutes(app)
	log.Debug("Auth routes configured.")

	userHandler := handlers.NewUserHandler(userService, messageService, likeService)
	userHandler.RegisterPublicRoutes(app)

	messageHandler := handlers.NewMessageHandler(messageService, likeService)
	messageHandler.RegisterPublicRoutes(app)

	// --- Protected pages (require a logged in user) ---
	// Route level, so unknown paths still reach the group's 404 handler
	requireLogin := middleware.RequireLogin()

	userHandler.RegisterProfileRoutes(app, requireLogin)
	log.Debug("User routes configured.")

	messageHandler.RegisterMessageRoutes(app, requireLogin)
	log.Debug("Message routes configured.")

	followHandler := handlers.NewFollowHandler(userService)
	followHandler.RegisterFollowRoutes(app, requireLogin)
	log.Debug("Follow routes configured.")

	likeHandler := handlers.NewLikeHandler(likeService)
	likeHandler.RegisterLikeRoutes(app, requireLogin)
	log.Debug("Like routes configured.")

	log.Info("All routes configured.")
}
