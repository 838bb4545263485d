// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/keygate/keygate-backend/internal/config"
	"github.com/keygate/keygate-backend/internal/handlers"
	"github.com/keygate/keygate-backend/internal/middleware"
	"github.com/keygate/keygate-backend/internal/services"
	"github.com/keygate/keygate-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notifier := services.NewWebhookNotifier(cfg.Webhook)

	authService := services.NewAuthService(cfg)
	productService := services.NewProductService(db)
	licenseService := services.NewLicenseService(db)
	blacklistService := services.NewBlacklistService(db)
	verificationService := services.NewVerificationService(db, notifier)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, licenseService)
	licenseHandler := handlers.NewLicenseHandler(licenseService, verificationService)
	blacklistHandler := handlers.NewBlacklistHandler(blacklistService)
	infoHandler := handlers.NewInfoHandler(licenseService, blacklistService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.Auth.JWTSecret)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	api := r.Group("/api")
	{
		// Token exchange for the chat gateway and operator tooling
		auth := api.Group("/auth")
		auth.Use(middleware.TokenRateLimit())
		{
			auth.POST("/token", authHandler.IssueToken)
		}

		// License routes. Verify stays public: it is called by the licensed
		// product itself.
		license := api.Group("/license")
		{
			license.POST("/verify", licenseHandler.VerifyLicense)
			license.GET("/user/:userId", licenseHandler.ListLicensesByUser)
			license.GET("/product/:productId", licenseHandler.ListLicensesByProduct)
			license.GET("/:id", licenseHandler.GetLicense)

			protected := license.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/create", licenseHandler.CreateLicense)
				protected.PUT("/update/:id", licenseHandler.UpdateLicense)
				protected.DELETE("/delete/:id", licenseHandler.DeleteLicense)
			}
		}

		// Product routes
		product := api.Group("/product")
		{
			product.GET("", productHandler.ListProducts)
			product.GET("/:id", productHandler.GetProduct)
			product.GET("/:id/withLicenses", productHandler.GetProductWithLicenses)

			protected := product.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/create", productHandler.CreateProduct)
				protected.PUT("/update/:id", productHandler.UpdateProduct)
				protected.DELETE("/delete/:id", productHandler.DeleteProduct)
			}
		}

		// Blacklist routes
		blacklist := api.Group("/blacklist")
		{
			blacklist.GET("/user/:userId", blacklistHandler.ListBlacklistsByUser)
			blacklist.GET("/:id", blacklistHandler.GetBlacklist)

			protected := blacklist.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/add", blacklistHandler.AddBlacklist)
				protected.DELETE("/delete/:id", blacklistHandler.DeleteBlacklist)
			}
		}

		// User info
		api.GET("/info/:userId", infoHandler.GetUserInfo)
	}

	return r
}
