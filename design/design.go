// Package design 定义一次导出所需的设计数据：像素空间的轮廓、LED 点位与物理参数。
// 所有值在一次导出调用内只读，导出流程不会保存或修改它们。
package design

import (
	"errors"
	"fmt"
	"strings"
)

// Point 是像素空间中的二维坐标。
type Point struct {
	X float64 `json:"x" msgpack:"x" yaml:"x"`
	Y float64 `json:"y" msgpack:"y" yaml:"y"`
}

// Contour 是招牌图形的一条闭合边界，点的顺序即绘制顺序。
// 少于 2 个点的轮廓视为退化轮廓，渲染时跳过。
type Contour struct {
	Points []Point `json:"points" msgpack:"points" yaml:"points"`
}

// Degenerate 报告轮廓是否不足以构成线段。
func (c Contour) Degenerate() bool { return len(c.Points) < 2 }

// ExportOption 选择文档中出现的图层。
type ExportOption string

const (
	PathOnly ExportOption = "PATH_ONLY"
	LEDsOnly ExportOption = "LEDS_ONLY"
	Both     ExportOption = "BOTH"
)

// ErrUnknownExportOption 表示无法识别的导出选项。
var ErrUnknownExportOption = errors.New("未知的导出选项")

// Paths 报告是否需要绘制轮廓图层。
func (o ExportOption) Paths() bool { return o == PathOnly || o == Both }

// LEDs 报告是否需要绘制 LED 图层。
func (o ExportOption) LEDs() bool { return o == LEDsOnly || o == Both }

// ParseExportOption 接受 PATH_ONLY / path-only / pathonly 等写法（大小写不敏感）。
func ParseExportOption(s string) (ExportOption, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "PATH_ONLY", "PATHONLY", "PATH", "PATHS":
		return PathOnly, nil
	case "LEDS_ONLY", "LEDSONLY", "LED_ONLY", "LEDS", "LED":
		return LEDsOnly, nil
	case "BOTH", "ALL":
		return Both, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownExportOption, s)
	}
}

// Params 描述一次导出的物理尺寸与导出意图。
// LEDSpacingMm 仅作信息用途（AI 审查提示词），不参与渲染。
type Params struct {
	CanvasWidthCm  float64      `json:"canvasWidthCm" msgpack:"canvasWidthCm" yaml:"canvasWidthCm"`
	CanvasHeightCm float64      `json:"canvasHeightCm" msgpack:"canvasHeightCm" yaml:"canvasHeightCm"`
	LEDDiameterMm  float64      `json:"ledDiameterMm" msgpack:"ledDiameterMm" yaml:"ledDiameterMm"`
	LEDSpacingMm   float64      `json:"ledSpacingMm" msgpack:"ledSpacingMm" yaml:"ledSpacingMm"`
	ExportOption   ExportOption `json:"exportOption" msgpack:"exportOption" yaml:"exportOption"`
}

// PageSizeMM 返回板材尺寸（毫米），即文档页面尺寸。
func (p Params) PageSizeMM() (width, height float64) {
	return Length{Value: p.CanvasWidthCm, Unit: UnitCM}.ToMM(), Length{Value: p.CanvasHeightCm, Unit: UnitCM}.ToMM()
}

// LEDRadiusMM 返回渲染时 LED 圆的半径（毫米）。
func (p Params) LEDRadiusMM() float64 { return p.LEDDiameterMm / 2 }

// Design 汇总一次导出调用的全部输入。
type Design struct {
	Contours  []Contour `json:"contours" msgpack:"contours" yaml:"contours"`
	LEDPoints []Point   `json:"ledPoints" msgpack:"ledPoints" yaml:"ledPoints"`
	Params    Params    `json:"params" msgpack:"params" yaml:"params"`
	PixelToMm float64   `json:"pixelToMm" msgpack:"pixelToMm" yaml:"pixelToMm"`
}

// Normalize 规范化导出选项的写法；空值按 BOTH 处理。
func (d *Design) Normalize() error {
	if d.Params.ExportOption == "" {
		d.Params.ExportOption = Both
		return nil
	}
	opt, err := ParseExportOption(string(d.Params.ExportOption))
	if err != nil {
		return err
	}
	d.Params.ExportOption = opt
	return nil
}
