package export

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/ByLCY/ledcad/diag"
)

// Platform 报告当前调用是否运行在原生容器中。
type Platform interface {
	IsNativePlatform() bool
}

// PlatformFunc 将普通函数适配为 Platform。
type PlatformFunc func() bool

func (f PlatformFunc) IsNativePlatform() bool { return f() }

// Sink 根据运行环境选择交付方式，每次调用只查询一次平台。
type Sink struct {
	platform Platform
	browser  Deliverer
	native   Deliverer
	now      func() time.Time
	logger   *log.Logger
}

type Option func(*Sink)

// WithClock 替换用于生成文件名的时钟。
func WithClock(now func() time.Time) Option {
	return func(s *Sink) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Sink) { s.logger = l }
}

func NewSink(platform Platform, browser, native Deliverer, opts ...Option) *Sink {
	s := &Sink{
		platform: platform,
		browser:  browser,
		native:   native,
		now:      time.Now,
		logger:   diag.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deliver 生成文件名并交付载荷，返回所用的文件名。
// 交付失败时错误不做包装，由调用方处理。
func (s *Sink) Deliver(ctx context.Context, p Payload, ext string) (string, error) {
	filename := Filename(ext, s.now())
	native := s.platform != nil && s.platform.IsNativePlatform()

	d := s.browser
	if native {
		d = s.native
	}
	s.logger.Debugj(log.JSON{"event": "export.deliver", "file": filename, "native": native, "bytes": p.Len()})
	if err := d.Deliver(ctx, p, filename); err != nil {
		return filename, err
	}
	s.logger.Infoj(log.JSON{"event": "export.delivered", "file": filename, "native": native})
	return filename, nil
}

// ExportTextFile 交付文本格式（SVG、DXF 等）。
func (s *Sink) ExportTextFile(ctx context.Context, content, ext string) (string, error) {
	return s.Deliver(ctx, TextPayload(content), ext)
}

// ExportPDFFile 交付 PDF 文档，扩展名固定为 pdf。
func (s *Sink) ExportPDFFile(ctx context.Context, data []byte) (string, error) {
	return s.Deliver(ctx, BinaryPayload(data, ContentTypePDF), "pdf")
}
