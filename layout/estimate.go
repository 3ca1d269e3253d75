package layout

import (
	"math"
	"sync"
	"unicode/utf8"

	"github.com/tdewolff/canvas"
)

// Estimator 是不依赖字体文件的近似测量器：文本宽度按字符数粗略估算，形状按路径几何计算。
// 没有真实字体后端时（例如服务端快速预览或测试）可以代替渲染器的测量。
type Estimator struct{}

var _ Measurer = Estimator{}

// MeasureText 用平均字宽估算文本包围盒，再套用图元变换。
func (Estimator) MeasureText(t *TextRun) (BoundingBox, bool) {
	if t == nil || t.FontSize <= 0 {
		return BoundingBox{}, false
	}
	width := estimateTextWidth(t.Content, t.FontSize, t.FontWeight)
	return TextBox(t, width, t.FontSize*0.8, t.FontSize*0.2), true
}

// MeasureShape 计算形状路径在画布坐标下的包围盒。
func (Estimator) MeasureShape(s *ShapeInstance) (BoundingBox, bool) {
	return ShapeBounds(s)
}

// TextBox 根据测得的前进宽度、上升部与下降部构造局部文本框，并映射到画布坐标。
func TextBox(t *TextRun, width, ascent, descent float64) BoundingBox {
	x := t.X
	if t.Anchor == AnchorMiddle {
		x -= width / 2
	}
	local := BoundingBox{X: x, Y: t.Y - ascent, Width: width, Height: ascent + descent}
	return TransformBox(t.Transform, local)
}

func estimateTextWidth(content string, fontSize float64, weight int) float64 {
	n := utf8.RuneCountInString(content)
	factor := 0.55
	if weight >= 800 {
		factor = 0.62
	}
	return fontSize * factor * float64(n)
}

var pathCache = struct {
	sync.Mutex
	paths map[string]*canvas.Path
}{paths: map[string]*canvas.Path{}}

func parsePath(d string) (*canvas.Path, bool) {
	pathCache.Lock()
	defer pathCache.Unlock()
	if p, ok := pathCache.paths[d]; ok {
		return p, p != nil
	}
	p, err := canvas.ParseSVGPath(d)
	if err != nil || p.Empty() {
		pathCache.paths[d] = nil
		return nil, false
	}
	pathCache.paths[d] = p
	return p, true
}

// ShapeBounds 返回形状实例所有子路径经变换后的外接矩形；没有可解析的路径时返回 false。
func ShapeBounds(s *ShapeInstance) (BoundingBox, bool) {
	if s == nil {
		return BoundingBox{}, false
	}
	m := s.Transform.Matrix()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	found := false
	for _, el := range s.Elements {
		p, ok := parsePath(el.Path)
		if !ok {
			continue
		}
		r := p.Copy().Transform(m).Bounds()
		minX = math.Min(minX, r.X0)
		minY = math.Min(minY, r.Y0)
		maxX = math.Max(maxX, r.X1)
		maxY = math.Max(maxY, r.Y1)
		found = true
	}
	if !found {
		return BoundingBox{}, false
	}
	return BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}
