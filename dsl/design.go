package dsl

import (
	"errors"
	"fmt"

	"github.com/ByLCY/ledcad/design"
)

// ErrMissingCanvas 表示描述中没有 canvas 语句。
var ErrMissingCanvas = errors.New("缺少 canvas 尺寸")

// Design 将 AST 转换为导出所需的设计数据。
// 同类语句重复出现时后者覆盖前者；contour 与 leds 语句按出现顺序累积。
func (f *File) Design() (design.Design, error) {
	d := design.Design{
		PixelToMm: 1,
		Params:    design.Params{ExportOption: design.Both},
	}
	if f == nil {
		return d, fmt.Errorf("文档为空")
	}
	hasCanvas := false
	for _, st := range f.Statements {
		switch {
		case st.Canvas != nil:
			d.Params.CanvasWidthCm = st.Canvas.Width.length().Or(design.UnitCM).ToCM()
			d.Params.CanvasHeightCm = st.Canvas.Height.length().Or(design.UnitCM).ToCM()
			hasCanvas = true
		case st.LED != nil:
			for _, prop := range st.LED.Props {
				mm := prop.Value.length().Or(design.UnitMM).ToMM()
				switch prop.Key {
				case "diameter":
					d.Params.LEDDiameterMm = mm
				case "spacing":
					d.Params.LEDSpacingMm = mm
				}
			}
		case st.Export != nil:
			opt, err := design.ParseExportOption(*st.Export)
			if err != nil {
				return d, fmt.Errorf("%s: %w", st.Pos, err)
			}
			d.Params.ExportOption = opt
		case st.Scale != nil:
			d.PixelToMm = *st.Scale
		case st.Contour != nil:
			d.Contours = append(d.Contours, design.Contour{Points: st.Contour.points()})
		case st.LEDs != nil:
			d.LEDPoints = append(d.LEDPoints, st.LEDs.points()...)
		}
	}
	if !hasCanvas {
		return d, ErrMissingCanvas
	}
	return d, nil
}

func (l *LengthLit) length() design.Length {
	if l == nil {
		return design.Length{}
	}
	unit, _ := design.ParseUnit(l.Unit)
	return design.Length{Value: l.Value, Unit: unit}
}

func (p *PointList) points() []design.Point {
	out := make([]design.Point, 0, len(p.Points))
	for _, pt := range p.Points {
		out = append(out, design.Point{X: pt.X, Y: pt.Y})
	}
	return out
}
