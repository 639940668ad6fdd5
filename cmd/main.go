package main

import (
	"context"

	"github.com/andckadir/AnimalMarketplace/internal/handler"
	"github.com/andckadir/AnimalMarketplace/internal/imaging"
	"github.com/andckadir/AnimalMarketplace/internal/middleware"
	"github.com/andckadir/AnimalMarketplace/internal/model"
	"github.com/andckadir/AnimalMarketplace/internal/repository"
	"github.com/andckadir/AnimalMarketplace/internal/service"
	"github.com/andckadir/AnimalMarketplace/internal/storage"
	"github.com/andckadir/AnimalMarketplace/pkg/config"
	"github.com/andckadir/AnimalMarketplace/pkg/database"
	"github.com/andckadir/AnimalMarketplace/pkg/jwtutil"
	"github.com/andckadir/AnimalMarketplace/pkg/logger"
	"github.com/andckadir/AnimalMarketplace/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: "animal-marketplace",
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting animal marketplace service...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Run migrations
	if err := database.MigrateModels(db,
		&model.User{},
		&model.Seller{},
		&model.Advert{},
		&model.Animal{},
		&model.AdvertImage{},
		&model.Favorite{},
	); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed")

	// Initialize JWT utility
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})
	log.Info("JWT utility initialized")

	// Initialize image storage
	imageStore, err := storage.NewS3ImageStore(context.Background(), &cfg.S3)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}
	log.Info("Image storage initialized", zap.String("bucket", cfg.S3.Bucket))

	// Wire repositories and services
	advertRepo := repository.NewAdvertRepository(db)
	userRepo := repository.NewUserRepository(db)
	sellerRepo := repository.NewSellerRepository(db)
	uploader := imaging.NewUploader(imageStore, log)

	authService := service.NewAuthService(userRepo, jwtUtil, log)
	userService := service.NewUserService(userRepo, advertRepo, log)
	sellerService := service.NewSellerService(sellerRepo, userRepo, advertRepo, uploader, log)
	advertService := service.NewAdvertService(advertRepo, sellerRepo, uploader, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	sellerHandler := handler.NewSellerHandler(sellerService)
	advertHandler := handler.NewAdvertHandler(advertService)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Public browsing
	e.POST("/adverts/filter", advertHandler.Filter)
	e.GET("/adverts/:id", advertHandler.Get)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(jwtUtil))

	// User management
	users := api.Group("/users")
	users.GET("/profile", userHandler.GetProfile)
	users.PATCH("/profile", userHandler.UpdateProfile)
	users.DELETE("/profile", userHandler.DeleteProfile)
	users.POST("/change-password", authHandler.ChangePassword)

	// Favorites
	favorites := api.Group("/favorites")
	favorites.GET("", userHandler.ListFavorites)
	favorites.POST("/:advert_id", userHandler.AddFavorite)
	favorites.DELETE("/:advert_id", userHandler.RemoveFavorite)

	// Seller profile
	sellers := api.Group("/sellers")
	sellers.POST("", sellerHandler.Create)
	sellers.GET("/profile", sellerHandler.Get)
	sellers.PATCH("/profile", sellerHandler.Update)
	sellers.DELETE("/profile", sellerHandler.Delete)

	// Advert lifecycle and images
	adverts := api.Group("/adverts")
	adverts.POST("", advertHandler.Create)
	adverts.PATCH("/:id", advertHandler.Update)
	adverts.DELETE("/:id", advertHandler.Delete)
	adverts.POST("/:id/images", advertHandler.AddImages)
	adverts.DELETE("/images/:image_id", advertHandler.DeleteImage)
	adverts.PATCH("/images/:image_id/primary", advertHandler.SetPrimaryImage)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
