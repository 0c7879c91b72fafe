package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/okanodev/kaitori-pos/internal/application/service"
	"github.com/okanodev/kaitori-pos/internal/config"
	"github.com/okanodev/kaitori-pos/internal/infrastructure/database"
	"github.com/okanodev/kaitori-pos/internal/infrastructure/repository"
	"github.com/okanodev/kaitori-pos/internal/presentation/http/handler"
	"github.com/okanodev/kaitori-pos/internal/presentation/http/routes"
	"github.com/okanodev/kaitori-pos/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	buybackRepo := repository.NewBuybackRepository(db)
	buybackDetailRepo := repository.NewBuybackDetailRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo)
	saleService := service.NewSaleService(saleRepo, productRepo)
	cartService := service.NewCartService(saleRepo, cfg.Register.TaxRate)
	buybackService := service.NewBuybackService(buybackRepo, buybackDetailRepo, productRepo)
	sessionStore := service.NewTransactionStore()

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Product:  handler.NewProductHandler(productService),
		Sale:     handler.NewSaleHandler(saleService),
		Register: handler.NewRegisterHandler(sessionStore, cartService, buybackService, productRepo),
		Buyback:  handler.NewBuybackHandler(buybackService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
