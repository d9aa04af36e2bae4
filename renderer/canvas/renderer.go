package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/ledcad/design"
	"github.com/ByLCY/ledcad/layout"
	"github.com/ByLCY/ledcad/renderer"
)

// Format selects the output document type.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

const (
	defaultPreviewDPMM = 4.0
	minStrokeWidth     = 0.2
)

// Renderer draws layout results via github.com/tdewolff/canvas.
type Renderer struct {
	format  Format
	dpmm    float64
	maxEdge int
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	Format Format
	// PreviewDPMM is the raster resolution for FormatPNG in dots per millimeter.
	PreviewDPMM float64
	// MaxPreviewEdge bounds the longest PNG edge in pixels; 0 disables the bound.
	MaxPreviewEdge int
}

// NewRenderer creates a PDF renderer.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{Format: FormatPDF}) }

// NewRendererWithOptions creates a renderer for the given format.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{format: opts.Format, dpmm: opts.PreviewDPMM, maxEdge: opts.MaxPreviewEdge}
	if r.format == "" {
		r.format = FormatPDF
	}
	if r.dpmm <= 0 {
		r.dpmm = defaultPreviewDPMM
	}
	return r
}

// ParseFormat 将扩展名映射为 canvas 支持的格式。
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatPDF, FormatSVG, FormatPNG:
		return f, true
	default:
		return "", false
	}
}

// GeneratePDF 将设计直接渲染为 PDF：页面尺寸等于板材尺寸（mm），坐标按 pixelToMm 换算。
func GeneratePDF(contours []design.Contour, ledPoints []design.Point, params design.Params, pixelToMm float64) ([]byte, error) {
	result := layout.Build(design.Design{
		Contours:  contours,
		LEDPoints: ledPoints,
		Params:    params,
		PixelToMm: pixelToMm,
	}, layout.BuildOptions{})
	return NewRenderer().Render(result)
}

func (r *Renderer) Extension() string { return string(r.format) }

func (r *Renderer) Binary() bool { return r.format != FormatSVG }

func (r *Renderer) ContentType() string {
	switch r.format {
	case FormatSVG:
		return "image/svg+xml; charset=utf-8"
	case FormatPNG:
		return "image/png"
	default:
		return "application/pdf"
	}
}

// Render renders the result into a single-page document.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	page := result.Page
	c := canvas.New(page.Width, page.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与设计坐标一致

	if r.format == FormatPNG {
		drawBackground(ctx, page)
	}
	drawLines(ctx, result.Lines)
	drawCircles(ctx, result.Circles)

	switch r.format {
	case FormatSVG:
		return r.renderSVG(c, page)
	case FormatPNG:
		return r.renderPNG(c)
	default:
		return r.renderPDF(c, page, result.Meta)
	}
}

func (r *Renderer) renderPDF(c *canvas.Canvas, page layout.Page, meta layout.DocumentMeta) ([]byte, error) {
	var buf bytes.Buffer
	writer := pdf.New(&buf, page.Width, page.Height, nil)
	applyMeta(writer, meta)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderSVG(c *canvas.Canvas, page layout.Page) ([]byte, error) {
	var buf bytes.Buffer
	writer := svg.New(&buf, page.Width, page.Height, nil)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 SVG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderPNG(c *canvas.Canvas) ([]byte, error) {
	var img image.Image = rasterizer.Draw(c, canvas.DPMM(r.dpmm), canvas.DefaultColorSpace)
	if r.maxEdge > 0 {
		b := img.Bounds()
		if b.Dx() > r.maxEdge || b.Dy() > r.maxEdge {
			img = imaging.Fit(img, r.maxEdge, r.maxEdge, imaging.Lanczos)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// drawBackground 为栅格预览铺白底，PDF/SVG 保持透明。
func drawBackground(ctx *canvas.Context, page layout.Page) {
	ctx.SetFillColor(canvas.White)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(page.Width, page.Height))
}

// drawLines 逐段绘制直线（毫米单位），每段独立描边。
func drawLines(ctx *canvas.Context, lines []layout.Line) {
	ctx.SetFillColor(canvas.Transparent)
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = minStrokeWidth
		}
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

// drawCircles 以圆心定位绘制圆（canvas.Circle 以原点为圆心）。
func drawCircles(ctx *canvas.Context, circles []layout.Circle) {
	for _, c := range circles {
		w := c.StrokeWidth
		if w <= 0 {
			w = minStrokeWidth
		}
		if c.FillColor != nil {
			ctx.SetFillColor(colorFromLayout(*c.FillColor))
		} else {
			ctx.SetFillColor(canvas.Transparent)
		}
		ctx.SetStrokeColor(colorFromLayout(c.StrokeColor))
		ctx.SetStrokeWidth(w)
		ctx.DrawPath(c.CX, c.CY, canvas.Circle(c.R))
	}
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
