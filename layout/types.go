package layout

// 该文件定义布局结果，供渲染器与调试 JSON 共用。所有长度单位均为 mm。

// Orientation 描述页面方向，仅由宽高比决定。
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Result 保存一次导出的页面与图形元素。
type Result struct {
	Page    Page         `json:"page"`
	Lines   []Line       `json:"lines"`
	Circles []Circle     `json:"circles"`
	Meta    DocumentMeta `json:"meta"`
}

// Page 即板材的物理尺寸，无边距、无缩放。
type Page struct {
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	Orientation Orientation `json:"orientation"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm）
}

// Circle 表示一个圆，CX/CY 为圆心。
type Circle struct {
	CX          float64 `json:"cx"`
	CY          float64 `json:"cy"`
	R           float64 `json:"r"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// DocumentMeta 保存文档元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
