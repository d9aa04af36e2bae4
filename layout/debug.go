package layout

import (
	"encoding/json"
	"math"
	"os"
)

// Bounds 是图形在页面坐标中的外接矩形（mm）。
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Summary 汇总布局：图形数量、外接矩形，以及超出板材的图形数。
type Summary struct {
	Lines     int     `json:"lines"`
	Circles   int     `json:"circles"`
	Bounds    *Bounds `json:"bounds,omitempty"` // 无图形时为空
	OutOfPage int     `json:"outOfPage"`
}

// DebugDump 是 --debug 输出的文档结构。
type DebugDump struct {
	Summary Summary `json:"summary"`
	Result  *Result `json:"result"`
}

// Summarize 统计布局结果；切割前据此发现落在板材之外的轮廓或 LED。
func Summarize(res *Result) Summary {
	s := Summary{Lines: len(res.Lines), Circles: len(res.Circles)}
	b := Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	grow := func(minX, minY, maxX, maxY float64) {
		b.MinX = math.Min(b.MinX, minX)
		b.MinY = math.Min(b.MinY, minY)
		b.MaxX = math.Max(b.MaxX, maxX)
		b.MaxY = math.Max(b.MaxY, maxY)
		if minX < 0 || minY < 0 || maxX > res.Page.Width || maxY > res.Page.Height {
			s.OutOfPage++
		}
	}
	for _, ln := range res.Lines {
		grow(math.Min(ln.X1, ln.X2), math.Min(ln.Y1, ln.Y2), math.Max(ln.X1, ln.X2), math.Max(ln.Y1, ln.Y2))
	}
	for _, c := range res.Circles {
		grow(c.CX-c.R, c.CY-c.R, c.CX+c.R, c.CY+c.R)
	}
	if s.Lines+s.Circles > 0 {
		s.Bounds = &b
	}
	return s
}

// WriteDebugJSON 将布局结果连同汇总输出为 JSON，便于检查坐标与图层。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(DebugDump{Summary: Summarize(res), Result: res}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
