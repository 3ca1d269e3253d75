// Package svgrenderer 直接输出 SVG 文档，变换以 transform 属性字符串保留，便于浏览器预览与调试。
package svgrenderer

import (
	"bytes"
	"fmt"
	"html"

	svg "github.com/ajstarks/svgo/float"

	"github.com/ByLCY/plakat/layout"
	"github.com/ByLCY/plakat/renderer"
)

// Renderer 把场景写成原生 SVG。
type Renderer struct{}

var _ renderer.Renderer = Renderer{}

// New 返回 SVG 渲染器。
func New() Renderer { return Renderer{} }

// ContentType 实现 renderer.Renderer。
func (Renderer) ContentType() string { return "image/svg+xml" }

// Render 按绘制顺序输出所有图元。
func (Renderer) Render(scene *layout.Scene) ([]byte, error) {
	if scene == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	w, h := scene.Canvas.Width, scene.Canvas.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %gx%g", w, h)
	}

	var buf bytes.Buffer
	doc := svg.New(&buf)
	doc.Start(w, h, fmt.Sprintf(`viewBox="0 0 %g %g"`, w, h))
	for _, p := range scene.Primitives() {
		switch v := p.(type) {
		case *layout.Rect:
			doc.Rect(v.X, v.Y, v.Width, v.Height, attr("fill", v.Fill.Hex()), attr("data-role", string(v.Role)))
		case *layout.TextRun:
			writeText(doc, v)
		case *layout.ShapeInstance:
			writeShape(doc, v)
		}
	}
	doc.End()
	return buf.Bytes(), nil
}

func writeText(doc *svg.SVG, t *layout.TextRun) {
	attrs := []string{
		attr("font-size", fmt.Sprintf("%g", t.FontSize)),
		attr("font-weight", fmt.Sprintf("%d", t.FontWeight)),
		attr("font-family", t.FontFamily),
		attr("text-anchor", string(t.Anchor)),
		attr("fill", t.Fill.Hex()),
		`xml:space="preserve"`,
	}
	if tr := t.Transform.String(); tr != "" {
		attrs = append(attrs, attr("transform", tr))
	}
	doc.Text(t.X, t.Y, t.Content, attrs...)
}

func writeShape(doc *svg.SVG, s *layout.ShapeInstance) {
	doc.Gtransform(s.Transform.String())
	for _, el := range s.Elements {
		attrs := []string{attr("fill", paint(el.Fill))}
		if el.Stroke != nil {
			attrs = append(attrs, attr("stroke", el.Stroke.Hex()))
			if el.StrokeWidth > 0 {
				attrs = append(attrs, attr("stroke-width", fmt.Sprintf("%g", el.StrokeWidth)))
			}
		}
		doc.Path(el.Path, attrs...)
	}
	doc.Gend()
}

func paint(c *layout.Color) string {
	if c == nil {
		return "none"
	}
	return c.Hex()
}

// attr 生成转义后的属性；字体名等来自配置，可能包含引号或 &。
func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}
