package canvasrenderer

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/plakat/fonts"
	"github.com/ByLCY/plakat/layout"
)

// Metrics 用真实字体度量实现 layout.Measurer。
// 场景单位为 px：请求字号 px×MmToPt 的字体面后，canvas 返回的毫米数值即等于场景单位。
type Metrics struct {
	fontPath string

	fontMu sync.Mutex
	family *canvas.FontFamily
	err    error
}

var _ layout.Measurer = (*Metrics)(nil)

// NewMetrics 创建测量器。fontPath 为空时使用内置 Go 字体（常规/中等/粗体），
// 否则所有字重都使用该字体文件。
func NewMetrics(fontPath string) *Metrics {
	return &Metrics{fontPath: fontPath}
}

// MeasureText 返回文本在画布坐标下的包围盒；字体加载失败时返回 false。
func (m *Metrics) MeasureText(t *layout.TextRun) (layout.BoundingBox, bool) {
	if t == nil || t.FontSize <= 0 {
		return layout.BoundingBox{}, false
	}
	face, err := m.Face(t.FontWeight, t.FontSize, layout.Black)
	if err != nil {
		return layout.BoundingBox{}, false
	}
	metrics := face.Metrics()
	width := face.TextWidth(t.Content)
	return layout.TextBox(t, width, metrics.Ascent, metrics.Descent), true
}

// MeasureShape 返回形状路径经变换后的外接矩形。
func (m *Metrics) MeasureShape(s *layout.ShapeInstance) (layout.BoundingBox, bool) {
	return layout.ShapeBounds(s)
}

// Face 返回指定字重与字号（px）的字体面。
func (m *Metrics) Face(weight int, sizePx float64, col layout.Color) (*canvas.FontFace, error) {
	family, err := m.ensureFamily()
	if err != nil {
		return nil, err
	}
	return family.Face(sizePx*layout.MmToPt, colorFromLayout(col), weightStyle(weight), canvas.FontNormal), nil
}

func (m *Metrics) ensureFamily() (*canvas.FontFamily, error) {
	m.fontMu.Lock()
	defer m.fontMu.Unlock()
	if m.family != nil || m.err != nil {
		return m.family, m.err
	}

	family := canvas.NewFontFamily("plakat")
	for _, style := range []canvas.FontStyle{canvas.FontRegular, canvas.FontMedium, canvas.FontBold} {
		src := m.fontPath
		if src == "" {
			src = "embed:" + styleFont(style)
		}
		data, err := fonts.Load(src)
		if err != nil {
			m.err = err
			return nil, err
		}
		if err := family.LoadFont(data, 0, style); err != nil {
			m.err = fmt.Errorf("加载字体 %s 失败: %w", src, err)
			return nil, m.err
		}
	}
	m.family = family
	return family, nil
}

// weightStyle 把 CSS 字重映射到已加载的字体样式。
func weightStyle(weight int) canvas.FontStyle {
	switch fonts.ForWeight(weight) {
	case fonts.Bold:
		return canvas.FontBold
	case fonts.Medium:
		return canvas.FontMedium
	default:
		return canvas.FontRegular
	}
}

func styleFont(style canvas.FontStyle) string {
	switch style {
	case canvas.FontBold:
		return fonts.Bold
	case canvas.FontMedium:
		return fonts.Medium
	default:
		return fonts.Regular
	}
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
