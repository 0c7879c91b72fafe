package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/okanodev/kaitori-pos/internal/config"
	domainRepo "github.com/okanodev/kaitori-pos/internal/domain/repository"
	"github.com/okanodev/kaitori-pos/internal/presentation/http/handler"
	"github.com/okanodev/kaitori-pos/internal/presentation/http/middleware"
	"github.com/okanodev/kaitori-pos/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Sale     *handler.SaleHandler
	Register *handler.RegisterHandler
	Buyback  *handler.BuybackHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/auth/password", h.Auth.ChangePassword)

	// Account creation is admin-only
	protected.POST("/auth/register", middleware.RequireRole("admin"), h.Auth.Register)

	registerProductRoutes(protected, h)
	registerSaleRoutes(protected, h)
	registerRegisterRoutes(protected, h, deps)
	registerBuybackRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", middleware.RequireRole("admin"), h.Product.Create)
		products.PUT("/:id", middleware.RequireRole("admin"), h.Product.Update)
		products.DELETE("/:id", middleware.RequireRole("admin"), h.Product.Delete)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers) {
	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("", middleware.RequireRole("admin"), h.Sale.Create)
		sales.PUT("/:id", middleware.RequireRole("admin"), h.Sale.Update)
		sales.DELETE("/:id", middleware.RequireRole("admin"), h.Sale.Delete)
	}
}

func registerRegisterRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	register := protected.Group("/register/:session")
	{
		register.GET("", h.Register.GetCart)
		register.DELETE("", h.Register.ClearCart)
		register.POST("/items", h.Register.AddItem)
		register.PATCH("/items/:variant_id/count", h.Register.UpdateItemCount)
		register.PATCH("/items/:variant_id/price", h.Register.UpdateUnitPrice)
		register.DELETE("/items/:variant_id", h.Register.DeleteItem)
		register.POST("/items/:variant_id/discount", h.Register.ApplyItemDiscount)
		register.POST("/discount", h.Register.ApplyGlobalDiscount)
		register.POST("/payment", h.Register.SetPayment)
		register.POST("/draft", h.Register.SaveDraft)
		register.POST("/resume/:buyback_id", h.Register.ResumeDraft)

		// Checkout uses idempotency middleware so a retried request cannot
		// complete the same buyback twice.
		register.POST("/checkout", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Register.Checkout)
	}
}

func registerBuybackRoutes(protected *gin.RouterGroup, h *Handlers) {
	buybacks := protected.Group("/buybacks")
	{
		buybacks.GET("", h.Buyback.List)
		buybacks.GET("/:id", h.Buyback.Get)
		buybacks.DELETE("/:id", h.Buyback.Delete)
	}
}
