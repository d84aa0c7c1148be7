package server

import (
	"time"

	httpHandler "social-flood/interfaces/http"
	"social-flood/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	connectionHandler httpHandler.IConnectionHandler,
	postHandler httpHandler.IPostHandler,
	secretKey string,
	serveEvents gin.HandlerFunc,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:4200", "https://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("api")
	api.Use(middleware.Auth(secretKey))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// Platform registry (static; also exposed without auth)
	router.GET("/platforms", connectionHandler.GetPlatforms)
	api.GET("/platforms", connectionHandler.GetPlatforms)

	// Connection aggregation and lifecycle
	api.GET("/connections", connectionHandler.GetConnections)
	api.POST("/connections/refresh", connectionHandler.GetConnections)
	api.GET("/connections/:platform/connect", connectionHandler.BeginConnect)
	api.DELETE("/connections/:connectionId", connectionHandler.Disconnect)
	api.POST("/connections/:connectionId/refresh", connectionHandler.RefreshConnection)
	api.GET("/connections/details/:connectionId", connectionHandler.ConnectionDetails)
	api.POST("/connections/reconcile", connectionHandler.Reconcile)

	// Post package composition and publish
	posts := api.Group("/posts")
	{
		posts.POST("", postHandler.CreatePackage)
		posts.GET("/:packageId", postHandler.GetPackage)
		posts.PATCH("/:packageId", postHandler.UpdatePackage)
		posts.POST("/:packageId/validate", postHandler.ValidatePackage)
		posts.POST("/:packageId/publish", postHandler.Publish)
	}

	// SSE stream for live publish status
	if serveEvents != nil {
		api.GET("/events/stream", serveEvents)
	}

	return router
}
