package renderer

import "github.com/ByLCY/ledcad/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF、SVG 或 DXF。
// Render 返回生成的完整文档字节；Binary 为 false 时字节为 UTF-8 文本。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
	Extension() string
	ContentType() string
	Binary() bool
}
