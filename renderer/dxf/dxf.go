// Package dxf 输出面向 CNC/激光切割的 ASCII DXF 文档（github.com/yofu/dxf，AC1015）。
// DXF 的 Y 轴向上，布局坐标以左上角为原点向下，写出时按 y' = 页面高度 - y 翻转，
// 使图形方向与 PDF/SVG 一致。
package dxf

import (
	"bytes"
	"fmt"

	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/insunit"
	"github.com/yofu/dxf/table"

	"github.com/ByLCY/ledcad/layout"
	"github.com/ByLCY/ledcad/renderer"
)

// 图层名称。
const (
	PathLayer = "PATHS"
	LEDLayer  = "LEDS"
)

// ContentType 是 DXF 文档的内容类型。
const ContentType = "application/dxf"

// Renderer 实现 renderer.Renderer。
type Renderer struct{}

var _ renderer.Renderer = Renderer{}

func (Renderer) Extension() string   { return "dxf" }
func (Renderer) ContentType() string { return ContentType }
func (Renderer) Binary() bool        { return false }

func (Renderer) Render(result *layout.Result) ([]byte, error) {
	d, err := Drawing(result)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("写入 DXF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Drawing 将布局结果转换为 DXF 图纸：轮廓线在 PATHS 图层，LED 圆在 LEDS 图层，
// 范围固定为整块板材 (0,0)-(宽,高)。
func Drawing(result *layout.Result) (*drawing.Drawing, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	page := result.Page
	flip := func(y float64) float64 { return page.Height - y }

	d := drawing.New()
	h := d.Header()
	h.InsUnit = insunit.Millimeters
	h.InsLUnit = insunit.Decimal
	h.ExtMax[0], h.ExtMax[1] = page.Width, page.Height

	if _, err := d.AddLayer(PathLayer, color.White, table.LT_CONTINUOUS, false); err != nil {
		return nil, fmt.Errorf("创建图层 %s 失败: %w", PathLayer, err)
	}
	if _, err := d.AddLayer(LEDLayer, color.Red, table.LT_CONTINUOUS, false); err != nil {
		return nil, fmt.Errorf("创建图层 %s 失败: %w", LEDLayer, err)
	}

	if err := d.ChangeLayer(PathLayer); err != nil {
		return nil, err
	}
	for _, ln := range result.Lines {
		if _, err := d.Line(ln.X1, flip(ln.Y1), 0, ln.X2, flip(ln.Y2), 0); err != nil {
			return nil, fmt.Errorf("写入 LINE 失败: %w", err)
		}
	}

	if err := d.ChangeLayer(LEDLayer); err != nil {
		return nil, err
	}
	for _, c := range result.Circles {
		if _, err := d.Circle(c.CX, flip(c.CY), 0, c.R); err != nil {
			return nil, fmt.Errorf("写入 CIRCLE 失败: %w", err)
		}
	}
	return d, nil
}
