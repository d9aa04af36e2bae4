package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ByLCY/ledcad/export"
)

// shareInstruction 由原生外壳转成系统分享面板。
type shareInstruction struct {
	File        string `json:"file"`
	URI         string `json:"uri"`
	Title       string `json:"title"`
	DialogTitle string `json:"dialogTitle"`
}

// responseSharer 把分享请求作为本次 HTTP 响应返回。
type responseSharer struct {
	c echo.Context
}

func (r responseSharer) Share(_ context.Context, opts export.ShareOptions) error {
	return r.c.JSON(http.StatusOK, shareInstruction{
		File:        opts.Title,
		URI:         opts.URL,
		Title:       opts.Title,
		DialogTitle: opts.DialogTitle,
	})
}

func (s *Server) sink(c echo.Context) *export.Sink {
	return export.NewSink(
		export.PlatformFunc(func() bool { return s.isNative(c) }),
		export.BrowserDelivery{W: c.Response()},
		export.NativeDelivery{FS: s.docs, Sharer: responseSharer{c: c}},
		export.WithClock(s.now),
		export.WithLogger(s.logger),
	)
}
