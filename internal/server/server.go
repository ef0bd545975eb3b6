package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orcapzh/ana/internal/api"
	"github.com/orcapzh/ana/internal/apperror"
	"github.com/orcapzh/ana/internal/config"
	"github.com/orcapzh/ana/internal/logger"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	api    *api.Handler
	log    *logger.Logger
	http   *http.Server
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, handler *api.Handler, l *logger.Logger) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if l == nil {
		l = logger.Nop()
	}

	s := &Server{
		router: gin.New(),
		api:    handler,
		log:    l.WithComponent("http"),
	}
	s.setupRoutes(devMode)

	s.http = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool) {
	s.router.Use(Recovery(s.log), RequestLogger(s.log), CORS())

	api := s.router.Group("/api")
	{
		s.api.RegisterRoutes(api)
	}

	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
		return
	}

	s.router.NoRoute(func(c *gin.Context) {
		appErr := apperror.NewNotFound("路由", c.Request.URL.Path)
		c.JSON(appErr.HTTPStatus, gin.H{"error": gin.H{"code": appErr.Code, "message": appErr.Message}})
	})
}

// Handler 返回 http.Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr 监听地址
func (s *Server) Addr() string {
	return s.http.Addr
}

// Run 启动服务器并阻塞；Shutdown 后（包括启动之前已 Shutdown）返回 nil
func (s *Server) Run() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
