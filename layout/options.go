package layout

// 默认样式：细黑轮廓线与红色 LED。
var (
	DefaultPathColor = Color{R: 0, G: 0, B: 0}
	DefaultLEDColor  = Color{R: 255, G: 0, B: 0}
)

// DefaultStrokeWidth 是轮廓线宽（mm）。
const DefaultStrokeWidth = 0.2

// BuildOptions 允许覆盖线宽与图层颜色，零值表示使用默认值。
type BuildOptions struct {
	StrokeWidth float64
	PathColor   *Color
	LEDColor    *Color
	Meta        DocumentMeta
}

func (o BuildOptions) strokeWidth() float64 {
	if o.StrokeWidth > 0 {
		return o.StrokeWidth
	}
	return DefaultStrokeWidth
}

func (o BuildOptions) pathColor() Color {
	if o.PathColor != nil {
		return *o.PathColor
	}
	return DefaultPathColor
}

func (o BuildOptions) ledColor() Color {
	if o.LEDColor != nil {
		return *o.LEDColor
	}
	return DefaultLEDColor
}
