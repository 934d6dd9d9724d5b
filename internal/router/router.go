package router

import (
	"github.com/gin-gonic/gin"
	"github.com/minhvt/hosodoc-backend/config"
	"github.com/minhvt/hosodoc-backend/internal/app/controller"
	"github.com/minhvt/hosodoc-backend/internal/middleware"
)

type Router struct {
	authController        *controller.AuthController
	businessController    *controller.BusinessController
	transactionController *controller.TransactionController
	uploadController      *controller.UploadController
	eventsController      *controller.EventsController
	authMiddleware        *middleware.AuthMiddleware
	config                *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	businessController *controller.BusinessController,
	transactionController *controller.TransactionController,
	uploadController *controller.UploadController,
	eventsController *controller.EventsController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:        authController,
		businessController:    businessController,
		transactionController: transactionController,
		uploadController:      uploadController,
		eventsController:      eventsController,
		authMiddleware:        authMiddleware,
		config:                cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "HOSODOC API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		businesses := v1.Group("/businesses")
		businesses.Use(r.authMiddleware.Authenticate())
		{
			businesses.GET("", r.businessController.ListBusinesses)
			businesses.POST("", r.businessController.CreateBusiness)
			businesses.GET("/:id", r.businessController.GetBusiness)
			businesses.PUT("/:id", r.businessController.UpdateBusiness)
			businesses.DELETE("/:id", r.businessController.DeleteBusiness)
			businesses.GET("/:id/transactions", r.businessController.ListBusinessTransactions)
		}

		transactions := v1.Group("/transactions")
		transactions.Use(r.authMiddleware.Authenticate())
		{
			transactions.GET("", r.transactionController.ListTransactions)
			transactions.POST("", r.transactionController.CreateTransaction)
			transactions.GET("/export", r.transactionController.ExportTransactions)
			transactions.GET("/:id", r.transactionController.GetTransaction)
			transactions.PUT("/:id", r.transactionController.UpdateTransaction)
			transactions.PUT("/:id/number", r.transactionController.UpdateDocumentNumber)
			transactions.PUT("/:id/pdf", r.transactionController.AttachPDF)
			transactions.PUT("/:id/signed-file", r.transactionController.AttachSignedFile)
			transactions.PUT("/:id/hide", r.transactionController.HideTransaction)
			transactions.DELETE("/:id", r.transactionController.DeleteTransaction)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		// WebSocket nhận token qua query parameter
		v1.GET("/ws", r.authMiddleware.Authenticate(), r.eventsController.WebSocketHandler)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
