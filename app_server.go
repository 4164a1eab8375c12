package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

// AppServer 应用服务器：HTTP API + MCP
type AppServer struct {
	service    *NaverBlogService
	mcpServer  *mcp.Server
	router     *gin.Engine
	httpServer *http.Server
}

func NewAppServer(service *NaverBlogService) *AppServer {
	s := &AppServer{service: service}
	s.mcpServer = s.newMCPServer()
	s.router = s.setupRoutes()
	return s
}

// Start 启动 HTTP 服务（含 /mcp 端点），收到 SIGINT/SIGTERM 后优雅退出
func (s *AppServer) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:    port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("启动 HTTP 服务器: %s", port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logrus.Info("正在关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.service.Shutdown(ctx); err != nil {
		logrus.Warnf("等待运行结束超时: %v", err)
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		logrus.Warnf("服务器关闭出错: %v", err)
		return err
	}
	logrus.Info("服务器已关闭")
	return nil
}

// StartSTDIO 以 STDIO 模式运行 MCP 服务器
func (s *AppServer) StartSTDIO() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := s.mcpServer.Run(ctx, &mcp.StdioTransport{})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if shutdownErr := s.service.Shutdown(shutdownCtx); shutdownErr != nil {
		logrus.Warnf("等待运行结束超时: %v", shutdownErr)
	}
	return err
}
