package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *AppServer) setupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	router.GET("/health", func(c *gin.Context) {
		respondSuccess(c, gin.H{"status": "healthy", "service": "naverblog-mcp"}, "服务正常")
	})

	// MCP Streamable HTTP 端点
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	router.Any("/mcp", gin.WrapH(mcpHandler))
	router.Any("/mcp/*path", gin.WrapH(mcpHandler))

	api := router.Group("/api/v1")
	{
		api.GET("/login/status", s.checkLoginStatusHandler)

		runs := api.Group("/runs")
		runs.POST("", s.startRunHandler)
		runs.GET("/current", s.runProgressHandler)
		runs.POST("/current/pause", s.pauseRunHandler)
		runs.POST("/current/resume", s.resumeRunHandler)
		runs.POST("/current/stop", s.stopRunHandler)
	}

	return router
}
