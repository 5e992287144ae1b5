// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flavorsnap/ip-backend/internal/config"
	"github.com/flavorsnap/ip-backend/internal/handlers"
	"github.com/flavorsnap/ip-backend/internal/middleware"
	"github.com/flavorsnap/ip-backend/internal/services"
	"github.com/flavorsnap/ip-backend/internal/storage"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

func Initialize(store storage.Store, cfg *config.Config) *gin.Engine {
	// Initialize services
	authorizer := services.NewContextAuthorizer()
	paymentService := services.NewPaymentService(store, cfg)
	metadataService, _ := services.NewMetadataService(cfg)

	authService := services.NewAuthService(store, cfg)
	registryService := services.NewRegistryService(store, authorizer)
	licenseService := services.NewLicenseService(store, authorizer, paymentService)
	royaltyService := services.NewRoyaltyService(store, authorizer, paymentService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	assetHandler := handlers.NewAssetHandler(registryService, metadataService)
	licenseHandler := handlers.NewLicenseHandler(licenseService)
	royaltyHandler := handlers.NewRoyaltyHandler(royaltyService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit(cfg.Server.RateLimitPerSecond))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit(cfg.Server.AuthRateLimitPerMinute))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Asset routes
		assets := v1.Group("/assets")
		{
			assets.GET("", middleware.OptionalAuth(), assetHandler.GetAssets)
			assets.GET("/:id", middleware.OptionalAuth(), assetHandler.GetAsset)
			assets.GET("/:id/licenses", licenseHandler.GetLicenses)
			assets.GET("/:id/licenses/:licensee", licenseHandler.GetLicense)

			// Authenticated routes
			protected := assets.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", assetHandler.RegisterAsset)
				protected.POST("/metadata", middleware.UploadRateLimit(cfg.Server.UploadRateLimitPerMinute), assetHandler.UploadMetadata)
				protected.POST("/:id/licenses", licenseHandler.PurchaseLicense)
				protected.POST("/:id/licenses/:licensee/revoke", licenseHandler.RevokeLicense)
				protected.POST("/:id/royalties", royaltyHandler.PayRoyalty)
			}
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/deposits", paymentHandler.CreateDepositIntent)
			payments.POST("/deposits/confirm", paymentHandler.ConfirmDeposit)
			payments.GET("/balances", paymentHandler.GetBalances)
			payments.GET("/history", paymentHandler.GetPaymentHistory)
		}
	}

	return r
}
