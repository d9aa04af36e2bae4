// Package pipeline 串联设计读取、布局、渲染与导出交付，供命令行与 HTTP 服务共用。
package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/ledcad/design"
	"github.com/ByLCY/ledcad/dsl"
	"github.com/ByLCY/ledcad/export"
	"github.com/ByLCY/ledcad/layout"
	"github.com/ByLCY/ledcad/renderer"
	canvasrenderer "github.com/ByLCY/ledcad/renderer/canvas"
	"github.com/ByLCY/ledcad/renderer/dxf"
)

// ErrUnsupportedFormat 表示没有对应格式的渲染器。
var ErrUnsupportedFormat = errors.New("不支持的导出格式")

// Options 控制布局样式与预览栅格化。
type Options struct {
	Build          layout.BuildOptions
	PreviewDPMM    float64
	MaxPreviewEdge int
}

// RendererFor 按扩展名选择渲染器：pdf、svg、png 走 canvas，dxf 走 DXF 写出器。
func RendererFor(format string, opts Options) (renderer.Renderer, error) {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if f == "dxf" {
		return dxf.Renderer{}, nil
	}
	cf, ok := canvasrenderer.ParseFormat(f)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		Format:         cf,
		PreviewDPMM:    opts.PreviewDPMM,
		MaxPreviewEdge: opts.MaxPreviewEdge,
	}), nil
}

// Render 对设计进行布局并渲染，返回布局结果以便输出调试 JSON。
func Render(d design.Design, r renderer.Renderer, opts Options) (*layout.Result, []byte, error) {
	if r == nil {
		return nil, nil, fmt.Errorf("renderer 不能为空")
	}
	result := layout.Build(d, opts.Build)
	data, err := r.Render(result)
	if err != nil {
		return result, nil, fmt.Errorf("渲染 %s 失败: %w", r.Extension(), err)
	}
	return result, data, nil
}

// Deliver 将渲染结果交给导出 sink；PDF 走二进制路径，文本格式走文本路径。
// sink 的错误原样返回。
func Deliver(ctx context.Context, sink *export.Sink, r renderer.Renderer, data []byte) (string, error) {
	switch {
	case r.Extension() == "pdf":
		return sink.ExportPDFFile(ctx, data)
	case r.Binary():
		return sink.Deliver(ctx, export.BinaryPayload(data, r.ContentType()), r.Extension())
	default:
		return sink.Deliver(ctx, export.TypedTextPayload(string(data), r.ContentType()), r.Extension())
	}
}

// LoadDesign 读取设计文件：.json 与 .msgpack 直接解码，其余按 DSL 解析。
func LoadDesign(path string) (design.Design, error) {
	file, err := os.Open(path)
	if err != nil {
		return design.Design{}, fmt.Errorf("无法打开设计文件 %s: %w", path, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return design.Decode(file, "application/json")
	case ".msgpack", ".mpk":
		return design.Decode(file, design.MIMEMsgpack)
	}

	doc, err := dsl.Parse(file)
	if err != nil {
		return design.Design{}, fmt.Errorf("解析 DSL 失败: %w", err)
	}
	return doc.Design()
}

// PreviewDataURL 将设计栅格化为 PNG，并以 data URL 形式返回，供 AI 审查使用。
func PreviewDataURL(d design.Design, opts Options) (string, error) {
	r, err := RendererFor("png", opts)
	if err != nil {
		return "", err
	}
	_, data, err := Render(d, r, opts)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
