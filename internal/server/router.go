package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
)

// RouterConfig carries the handlers the router wires up.
type RouterConfig struct {
	FabricHandler     *FabricHandler
	ChatHandler       *ChatHandler
	ConnectionHandler *ConnectionHandler
	FabricStore       driven.FabricStore
}

// NewRouter builds the Gin engine with CORS and all API routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			fabrics, err := cfg.FabricStore.List(c.Request.Context())
			if err != nil {
				respondError(c, http.StatusInternalServerError, "Store unavailable")
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok", "fabrics": len(fabrics)})
		})

		api.GET("/fabrics", cfg.FabricHandler.List)
		api.GET("/fabrics/:id", cfg.FabricHandler.Get)
		api.POST("/fabrics", cfg.FabricHandler.Create)
		api.POST("/fabrics/:id/build", cfg.FabricHandler.TriggerBuild)
		api.POST("/fabrics/:id/upload", cfg.FabricHandler.Upload)
		api.DELETE("/fabrics/:id", cfg.FabricHandler.Delete)

		api.POST("/chat", cfg.ChatHandler.Send)
		api.POST("/feedback", cfg.ChatHandler.Feedback)

		api.POST("/connections/servicenow/test", cfg.ConnectionHandler.TestServiceNow)
		api.POST("/connections/sharepoint/test", cfg.ConnectionHandler.TestSharePoint)
		api.GET("/connections/servicenow/check-credentials", cfg.ConnectionHandler.CheckCredentials)
	}

	return router
}

// formatEstimate renders a build time estimate for the trigger ack.
func formatEstimate(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%d seconds", seconds)
	}
	return fmt.Sprintf("%d minutes", (seconds+59)/60)
}
