package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ByLCY/ledcad/design"
)

// triangle 是测试辅助：一个三点轮廓。
func triangle() design.Contour {
	return design.Contour{Points: []design.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}}
}

func params(opt design.ExportOption) design.Params {
	return design.Params{CanvasWidthCm: 20, CanvasHeightCm: 10, LEDDiameterMm: 5, LEDSpacingMm: 10, ExportOption: opt}
}

func TestBuildPageIsBoardSize(t *testing.T) {
	res := Build(design.Design{Params: params(design.Both), PixelToMm: 1}, BuildOptions{})
	if res.Page.Width != 200 || res.Page.Height != 100 {
		t.Fatalf("页面尺寸期望 200x100，实际 %gx%g", res.Page.Width, res.Page.Height)
	}
	if res.Page.Orientation != Landscape {
		t.Fatalf("宽大于高应为横向，实际 %s", res.Page.Orientation)
	}

	p := params(design.Both)
	p.CanvasWidthCm, p.CanvasHeightCm = 10, 10
	if o := Build(design.Design{Params: p, PixelToMm: 1}, BuildOptions{}).Page.Orientation; o != Portrait {
		t.Fatalf("宽高相等应为纵向，实际 %s", o)
	}
}

// TestBuildClosesContour 验证闭合线段必须存在。
func TestBuildClosesContour(t *testing.T) {
	res := Build(design.Design{
		Contours:  []design.Contour{triangle()},
		Params:    params(design.PathOnly),
		PixelToMm: 1,
	}, BuildOptions{})

	want := [][4]float64{{0, 0, 10, 0}, {10, 0, 10, 10}, {10, 10, 0, 0}}
	if len(res.Lines) != len(want) {
		t.Fatalf("期望 %d 条线段，实际 %d", len(want), len(res.Lines))
	}
	for i, w := range want {
		ln := res.Lines[i]
		got := [4]float64{ln.X1, ln.Y1, ln.X2, ln.Y2}
		if got != w {
			t.Fatalf("线段 %d 不符: got=%v want=%v", i, got, w)
		}
		if ln.Width != DefaultStrokeWidth || ln.Color != DefaultPathColor {
			t.Fatalf("线段 %d 样式不符: %+v", i, ln)
		}
	}
}

func TestBuildScalesEveryCoordinate(t *testing.T) {
	res := Build(design.Design{
		Contours:  []design.Contour{triangle()},
		LEDPoints: []design.Point{{X: 4, Y: 6}},
		Params:    params(design.Both),
		PixelToMm: 0.5,
	}, BuildOptions{})
	if res.Lines[1].X2 != 5 || res.Lines[1].Y2 != 5 {
		t.Fatalf("坐标未按比例换算: %+v", res.Lines[1])
	}
	c := res.Circles[0]
	if c.CX != 2 || c.CY != 3 {
		t.Fatalf("LED 圆心未按比例换算: %+v", c)
	}
	// 半径来自物理直径，不受像素比例影响
	if c.R != 2.5 {
		t.Fatalf("LED 半径期望 2.5，实际 %g", c.R)
	}
	if c.FillColor == nil || *c.FillColor != DefaultLEDColor || c.StrokeColor != DefaultLEDColor {
		t.Fatalf("LED 颜色不符: %+v", c)
	}
}

func TestPathOnlyHasNoCircles(t *testing.T) {
	res := Build(design.Design{
		Contours:  []design.Contour{triangle()},
		LEDPoints: []design.Point{{X: 1, Y: 1}, {X: 2, Y: 2}},
		Params:    params(design.PathOnly),
		PixelToMm: 1,
	}, BuildOptions{})
	if len(res.Circles) != 0 {
		t.Fatalf("PATH_ONLY 不应包含圆，实际 %d", len(res.Circles))
	}
}

func TestLEDsOnlyHasNoLines(t *testing.T) {
	res := Build(design.Design{
		Contours:  []design.Contour{triangle()},
		LEDPoints: []design.Point{{X: 1, Y: 1}},
		Params:    params(design.LEDsOnly),
		PixelToMm: 1,
	}, BuildOptions{})
	if len(res.Lines) != 0 {
		t.Fatalf("LEDS_ONLY 不应包含线段，实际 %d", len(res.Lines))
	}
	if len(res.Circles) != 1 {
		t.Fatalf("期望 1 个 LED，实际 %d", len(res.Circles))
	}
}

func TestDegenerateContoursSkipped(t *testing.T) {
	res := Build(design.Design{
		Contours: []design.Contour{
			{},
			{Points: []design.Point{{X: 3, Y: 3}}},
		},
		Params:    params(design.Both),
		PixelToMm: 1,
	}, BuildOptions{})
	if len(res.Lines) != 0 {
		t.Fatalf("退化轮廓不应产生线段，实际 %d", len(res.Lines))
	}
}

func TestTwoPointContourDrawsBackAndForth(t *testing.T) {
	res := Build(design.Design{
		Contours:  []design.Contour{{Points: []design.Point{{X: 0, Y: 0}, {X: 5, Y: 0}}}},
		Params:    params(design.PathOnly),
		PixelToMm: 1,
	}, BuildOptions{})
	if len(res.Lines) != 2 {
		t.Fatalf("两点轮廓应有 2 条线段（含闭合段），实际 %d", len(res.Lines))
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	d := design.Design{
		Contours:  []design.Contour{triangle(), {Points: []design.Point{{X: 1, Y: 2}}}},
		LEDPoints: []design.Point{{X: 1, Y: 1}, {X: 7, Y: 3}},
		Params:    params(design.Both),
		PixelToMm: 0.8,
	}
	a := Build(d, BuildOptions{})
	b := Build(d, BuildOptions{})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("两次构建结果不一致:\n%+v\n%+v", a, b)
	}
}

func TestBuildOptionsOverrideStyle(t *testing.T) {
	blue := Color{B: 255}
	res := Build(design.Design{
		Contours:  []design.Contour{triangle()},
		LEDPoints: []design.Point{{X: 1, Y: 1}},
		Params:    params(design.Both),
		PixelToMm: 1,
	}, BuildOptions{StrokeWidth: 0.5, PathColor: &blue, LEDColor: &blue, Meta: DocumentMeta{Title: "Cafe"}})
	if res.Lines[0].Width != 0.5 || res.Lines[0].Color != blue {
		t.Fatalf("线段样式未覆盖: %+v", res.Lines[0])
	}
	if *res.Circles[0].FillColor != blue {
		t.Fatalf("LED 颜色未覆盖: %+v", res.Circles[0])
	}
	if res.Meta.Title != "Cafe" || res.Meta.Creator != defaultCreator {
		t.Fatalf("元信息不符: %+v", res.Meta)
	}
}

func TestWriteDebugJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	res := Build(design.Design{Contours: []design.Contour{triangle()}, Params: params(design.Both), PixelToMm: 1}, BuildOptions{})
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("写入调试 JSON 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取调试 JSON 失败: %v", err)
	}
	var dump DebugDump
	if err := json.Unmarshal(data, &dump); err != nil {
		t.Fatalf("解析调试 JSON 失败: %v", err)
	}
	if dump.Summary.Lines != 3 || dump.Result == nil || len(dump.Result.Lines) != 3 {
		t.Fatalf("调试 JSON 内容不符: %+v", dump.Summary)
	}
}

func TestSummarizeFlagsGeometryOutsideBoard(t *testing.T) {
	// 板材 200x100mm；(198,50) 处直径 5mm 的 LED 越过右边缘
	res := Build(design.Design{
		Contours:  []design.Contour{triangle()},
		LEDPoints: []design.Point{{X: 20, Y: 20}, {X: 198, Y: 50}},
		Params:    params(design.Both),
		PixelToMm: 1,
	}, BuildOptions{})
	s := Summarize(res)
	if s.Lines != 3 || s.Circles != 2 {
		t.Fatalf("数量不符: %+v", s)
	}
	if s.OutOfPage != 1 {
		t.Fatalf("越界图形应为 1，实际 %d", s.OutOfPage)
	}
	want := Bounds{MinX: 0, MinY: 0, MaxX: 200.5, MaxY: 52.5}
	if s.Bounds == nil || *s.Bounds != want {
		t.Fatalf("外接矩形期望 %+v，实际 %+v", want, s.Bounds)
	}

	if empty := Summarize(Build(design.Design{Params: params(design.Both), PixelToMm: 1}, BuildOptions{})); empty.Bounds != nil || empty.OutOfPage != 0 {
		t.Fatalf("空布局不应有外接矩形: %+v", empty)
	}
}
