package server

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/ByLCY/ledcad/design"
	"github.com/ByLCY/ledcad/pipeline"
	"github.com/ByLCY/ledcad/review"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// handleExport 渲染请求体中的设计并通过 sink 交付。
// 浏览器请求得到附件响应，原生请求得到分享指令。
func (s *Server) handleExport(format string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		d, err := design.Decode(req.Body, req.Header.Get(echo.HeaderContentType))
		if err != nil {
			return NewBadRequestError("设计数据无效", err)
		}

		opts := s.pipelineOptions()
		r, err := pipeline.RendererFor(format, opts)
		if err != nil {
			return NewBadRequestError("不支持的导出格式", err)
		}
		_, data, err := pipeline.Render(d, r, opts)
		if err != nil {
			return NewInternalError("渲染失败", err)
		}

		if _, err := pipeline.Deliver(req.Context(), s.sink(c), r, data); err != nil {
			return NewExportError(err)
		}
		return nil
	}
}

type exportTextRequest struct {
	Content   string `json:"content"`
	Extension string `json:"extension"`
}

func (s *Server) handleExportText(c echo.Context) error {
	var body exportTextRequest
	if err := c.Bind(&body); err != nil {
		return NewBadRequestError("请求体无效", err)
	}
	if strings.TrimSpace(body.Extension) == "" {
		return NewBadRequestError("缺少 extension", nil)
	}
	if _, err := s.sink(c).ExportTextFile(c.Request().Context(), body.Content, body.Extension); err != nil {
		return NewExportError(err)
	}
	return nil
}

type reviewRequest struct {
	Image  string        `json:"image"`
	Design design.Design `json:"design"`
}

type reviewResponse struct {
	Text     string `json:"text"`
	Fallback string `json:"fallback"`
}

// handleReview 始终返回 200；模型失败以 fallback 字段表示。
func (s *Server) handleReview(c echo.Context) error {
	if s.reviewer == nil {
		return NewInternalError("AI 审查未启用", nil)
	}
	var body reviewRequest
	if err := c.Bind(&body); err != nil {
		return NewBadRequestError("请求体无效", err)
	}
	d := body.Design
	if err := d.Normalize(); err != nil {
		return NewBadRequestError("设计数据无效", err)
	}
	if d.PixelToMm == 0 {
		d.PixelToMm = 1
	}

	image := body.Image
	if image == "" {
		var err error
		image, err = pipeline.PreviewDataURL(d, s.pipelineOptions())
		if err != nil {
			return NewInternalError("生成预览失败", err)
		}
	}

	res := s.reviewer.Analyze(c.Request().Context(), image, d.Params)
	return c.JSON(http.StatusOK, reviewResponse{Text: res.Text, Fallback: res.Fallback.String()})
}

func (s *Server) handleGetKey(c echo.Context) error {
	configured := false
	if s.keys != nil {
		key, err := s.keys.Key(c.Request().Context())
		if err != nil {
			return NewInternalError("读取 API Key 失败", err)
		}
		configured = key != ""
	}
	return c.JSON(http.StatusOK, map[string]bool{"configured": configured})
}

type setKeyRequest struct {
	Key string `json:"key"`
}

func (s *Server) handleSetKey(c echo.Context) error {
	if s.prefs == nil {
		return NewInternalError("偏好存储未启用", nil)
	}
	var body setKeyRequest
	if err := c.Bind(&body); err != nil {
		return NewBadRequestError("请求体无效", err)
	}
	if err := s.prefs.Set(review.KeyName, body.Key); err != nil {
		return NewInternalError("保存 API Key 失败", err)
	}
	s.logger.Infoj(log.JSON{"event": "settings.key", "configured": strings.TrimSpace(body.Key) != ""})
	return c.JSON(http.StatusOK, map[string]bool{"configured": strings.TrimSpace(body.Key) != ""})
}

// handleDocument 回读原生路径写入文档目录的文件。
func (s *Server) handleDocument(c echo.Context) error {
	name := c.Param("name")
	path, err := s.docs.Open(name)
	if err != nil {
		return NewInternalError("文档目录未配置", err)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewNotFoundError("文档", name)
		}
		return NewInternalError("读取文档失败", err)
	}
	return c.File(path)
}
