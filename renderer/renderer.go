package renderer

import "github.com/ByLCY/plakat/layout"

// Renderer 将海报场景输出为最终文件，例如 PDF、PNG 或 SVG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(scene *layout.Scene) ([]byte, error)
	// ContentType 返回输出数据的 MIME 类型。
	ContentType() string
}
