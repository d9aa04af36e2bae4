// Package server 通过 HTTP 暴露导出、AI 审查与设置接口（github.com/labstack/echo/v4）。
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/ByLCY/ledcad/config"
	"github.com/ByLCY/ledcad/diag"
	"github.com/ByLCY/ledcad/export"
	"github.com/ByLCY/ledcad/pipeline"
	"github.com/ByLCY/ledcad/prefs"
	"github.com/ByLCY/ledcad/review"
)

// Deps 汇总服务依赖；Now 为空时使用 time.Now。
type Deps struct {
	Config    *config.Config
	Logger    *log.Logger
	Documents *export.LocalFilesystem
	Prefs     *prefs.Store
	Keys      review.KeySource
	Reviewer  *review.Reviewer
	Version   string
	Now       func() time.Time
}

type Server struct {
	cfg      *config.Config
	logger   *log.Logger
	docs     *export.LocalFilesystem
	prefs    *prefs.Store
	keys     review.KeySource
	reviewer *review.Reviewer
	version  string
	now      func() time.Time
	e        *echo.Echo
}

func New(d Deps) *Server {
	s := &Server{
		cfg:      d.Config,
		logger:   d.Logger,
		docs:     d.Documents,
		prefs:    d.Prefs,
		keys:     d.Keys,
		reviewer: d.Reviewer,
		version:  d.Version,
		now:      d.Now,
	}
	if s.cfg == nil {
		s.cfg = config.Default()
	}
	if s.logger == nil {
		s.logger = diag.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.docs == nil {
		s.docs = export.NewLocalFilesystem(s.cfg.Storage.DocumentsDir, "")
	}
	s.e = s.build()
	return s
}

// Echo 返回已注册中间件与路由的 echo 实例。
func (s *Server) Echo() *echo.Echo { return s.e }

func (s *Server) build() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger = s.logger
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","method":"${method}","uri":"${uri}",` +
			`"status":${status},"latency":"${latency_human}","bytes_out":${bytes_out}}` + "\n",
		Output: s.logger.Output(),
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/api/health"
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10,
	}))
	if s.cfg.Server.BodyLimit != "" {
		e.Use(middleware.BodyLimit(s.cfg.Server.BodyLimit))
	}

	origins := s.cfg.Server.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, s.runtimeHeader()},
		ExposeHeaders: []string{echo.HeaderContentDisposition, echo.HeaderXRequestID},
	}))

	api := e.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/export/pdf", s.handleExport("pdf"))
	api.POST("/export/svg", s.handleExport("svg"))
	api.POST("/export/dxf", s.handleExport("dxf"))
	api.POST("/export/text", s.handleExportText)
	api.POST("/review", s.handleReview)
	api.GET("/settings/key", s.handleGetKey)
	api.PUT("/settings/key", s.handleSetKey)
	api.GET("/documents/:name", s.handleDocument)
	return e
}

func (s *Server) runtimeHeader() string {
	if h := s.cfg.Export.RuntimeHeader; h != "" {
		return h
	}
	return "X-LED-Runtime"
}

// isNative 判断请求是否来自原生容器。
func (s *Server) isNative(c echo.Context) bool {
	if strings.EqualFold(strings.TrimSpace(c.Request().Header.Get(s.runtimeHeader())), "native") {
		return true
	}
	return strings.EqualFold(c.QueryParam("runtime"), "native")
}

func (s *Server) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		PreviewDPMM:    s.cfg.Review.PreviewDPMM,
		MaxPreviewEdge: s.cfg.Review.PreviewMaxEdge,
	}
}

// Start 监听配置的地址，ctx 取消后优雅关闭。
func (s *Server) Start(ctx context.Context) error {
	hs := &http.Server{
		Addr:         s.cfg.Server.Addr,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infoj(log.JSON{"event": "server.start", "addr": hs.Addr, "version": s.version})
		errCh <- s.e.StartServer(hs)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.e.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Infoj(log.JSON{"event": "server.stop"})
		return nil
	}
}
