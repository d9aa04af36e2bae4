package layout

import (
	"github.com/ByLCY/ledcad/design"
)

const defaultCreator = "ledcad"

// Build 将像素空间的设计换算为毫米坐标的页面与图形。
// 纯函数：相同输入得到相同结果；数值参数不做校验，由调用方保证。
func Build(d design.Design, opts BuildOptions) *Result {
	width, height := d.Params.PageSizeMM()
	res := &Result{
		Page: Page{
			Width:       width,
			Height:      height,
			Orientation: orientationOf(width, height),
		},
		Meta: buildMeta(d.Params, opts.Meta, orientationOf(width, height)),
	}

	// 先路径后 LED，两个图层叠加时 LED 在上。
	if d.Params.ExportOption.Paths() {
		res.Lines = contourLines(d.Contours, d.PixelToMm, opts.pathColor(), opts.strokeWidth())
	}
	if d.Params.ExportOption.LEDs() {
		res.Circles = ledCircles(d.LEDPoints, d.PixelToMm, d.Params.LEDRadiusMM(), opts.ledColor(), opts.strokeWidth())
	}
	return res
}

func orientationOf(width, height float64) Orientation {
	if width > height {
		return Landscape
	}
	return Portrait
}

// contourLines 为每条轮廓生成首尾相连的闭合折线；不足 2 点的轮廓直接跳过。
func contourLines(contours []design.Contour, scale float64, col Color, width float64) []Line {
	var lines []Line
	for _, contour := range contours {
		if contour.Degenerate() {
			continue
		}
		pts := contour.Points
		for i := 0; i < len(pts)-1; i++ {
			lines = append(lines, segment(pts[i], pts[i+1], scale, col, width))
		}
		lines = append(lines, segment(pts[len(pts)-1], pts[0], scale, col, width))
	}
	return lines
}

func segment(a, b design.Point, scale float64, col Color, width float64) Line {
	return Line{
		X1:    a.X * scale,
		Y1:    a.Y * scale,
		X2:    b.X * scale,
		Y2:    b.Y * scale,
		Color: col,
		Width: width,
	}
}

func ledCircles(points []design.Point, scale, radius float64, col Color, strokeWidth float64) []Circle {
	circles := make([]Circle, 0, len(points))
	for _, p := range points {
		fill := col
		circles = append(circles, Circle{
			CX:          p.X * scale,
			CY:          p.Y * scale,
			R:           radius,
			StrokeColor: col,
			StrokeWidth: strokeWidth,
			FillColor:   &fill,
		})
	}
	return circles
}

func buildMeta(p design.Params, base DocumentMeta, o Orientation) DocumentMeta {
	meta := base
	if meta.Title == "" {
		meta.Title = "LED design"
	}
	if meta.Creator == "" {
		meta.Creator = defaultCreator
	}
	if meta.Subject == "" {
		meta.Subject = "LED signage board"
	}
	meta.Keywords = append(append([]string(nil), base.Keywords...), string(p.ExportOption), string(o))
	return meta
}
