package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with all gateway routes registered
func NewRouter(handler *Handler, registry *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	mcp := router.Group("/mcp")
	{
		mcp.POST("/analyze-email", handler.AnalyzeEmail)
		mcp.GET("/sessions", handler.ListSessions)
		mcp.GET("/sessions/:session_id", handler.GetSession)
		mcp.DELETE("/sessions/cleanup", handler.CleanupSessions)
		mcp.GET("/health", handler.Health)
		mcp.GET("/gateway-info", handler.GatewayInfo)
		mcp.GET("/stats", handler.Stats)
		mcp.GET("/tools", handler.ListTools)
		mcp.POST("/tools/:tool_name/execute", handler.ExecuteTool)
	}

	return router
}
