package server

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"houseboard/internal/api"
	"houseboard/internal/dashboard"
	"houseboard/internal/theme"
)

// Options 服务器参数
type Options struct {
	DevMode    bool
	DataDir    string // 为空时不提供 /data 静态目录
	LibraryURL string
	Title      string
}

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	app    *dashboard.App
	hub    *theme.Hub
	api    *api.Handler
	opts   Options
	logger *zap.Logger
	http   *http.Server
}

// NewServer 创建服务器
func NewServer(app *dashboard.App, hub *theme.Hub, opts Options, logger *zap.Logger) *Server {
	if !opts.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		router: router,
		app:    app,
		hub:    hub,
		api:    api.NewHandler(app),
		opts:   opts,
		logger: logger,
	}
	s.setupRoutes()
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	if s.hub != nil {
		s.router.GET("/ws/theme", gin.WrapH(s.hub))
	}

	static, _ := fs.Sub(webFS, "web/static")
	s.router.StaticFS("/static", http.FS(static))

	if s.opts.DataDir != "" {
		s.router.Static("/data", s.opts.DataDir)
	}

	s.router.GET("/", s.page(false))
	s.router.GET("/embed", s.page(true))
}

func (s *Server) page(embedded bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 每次页面加载都重新确定主题
		s.app.ApplyTheme()

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		err := WritePage(c.Writer, s.app.View(), PageOptions{
			Title:      s.opts.Title,
			Base:       "/",
			Embedded:   embedded,
			LibraryURL: s.opts.LibraryURL,
		})
		if err != nil {
			s.logger.Error("page render failed", zap.Error(err))
		}
	}
}

// Handler 返回 http.Handler（测试使用）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，阻塞直到 Shutdown
func (s *Server) Run(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.logger.Info("closing theme connections", zap.Int("clients", s.hub.Clients()))
		s.hub.Close()
	}
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
