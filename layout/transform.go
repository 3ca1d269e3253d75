package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"
)

// OpKind 标识一种几何变换。
type OpKind string

const (
	OpTranslate OpKind = "translate"
	OpRotate    OpKind = "rotate"
	OpScale     OpKind = "scale"
	OpSkewX     OpKind = "skewX"
)

// Op 是单个有序变换操作。
// translate 使用 X/Y 作为位移，scale 使用 X/Y 作为缩放系数，rotate/skewX 使用 Angle（度）。
// Pivot 非空时，该操作以 Pivot 为中心执行（先平移到中心、变换、再平移回去）。
type Op struct {
	Kind  OpKind  `json:"kind"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Angle float64 `json:"angle,omitempty"`
	Pivot *Point  `json:"pivot,omitempty"`
}

// Translate 平移。
func Translate(x, y float64) Op { return Op{Kind: OpTranslate, X: x, Y: y} }

// Rotate 绕局部原点旋转 deg 度（y 轴向下时为顺时针）。
func Rotate(deg float64) Op { return Op{Kind: OpRotate, Angle: deg} }

// RotateAbout 绕 pivot 旋转。
func RotateAbout(deg float64, pivot Point) Op {
	return Op{Kind: OpRotate, Angle: deg, Pivot: &pivot}
}

// Scale 以局部原点为中心缩放。
func Scale(sx, sy float64) Op { return Op{Kind: OpScale, X: sx, Y: sy} }

// ScaleAbout 以 pivot 为中心缩放。
func ScaleAbout(sx, sy float64, pivot Point) Op {
	return Op{Kind: OpScale, X: sx, Y: sy, Pivot: &pivot}
}

// SkewX 沿 x 轴错切 deg 度。
func SkewX(deg float64) Op { return Op{Kind: OpSkewX, Angle: deg} }

// SkewXAbout 以 pivot 为中心沿 x 轴错切。
func SkewXAbout(deg float64, pivot Point) Op {
	return Op{Kind: OpSkewX, Angle: deg, Pivot: &pivot}
}

func (op Op) core() canvas.Matrix {
	switch op.Kind {
	case OpTranslate:
		return canvas.Matrix{{1, 0, op.X}, {0, 1, op.Y}}
	case OpRotate:
		sin, cos := math.Sincos(op.Angle * math.Pi / 180)
		return canvas.Matrix{{cos, -sin, 0}, {sin, cos, 0}}
	case OpScale:
		return canvas.Matrix{{op.X, 0, 0}, {0, op.Y, 0}}
	case OpSkewX:
		return canvas.Matrix{{1, math.Tan(op.Angle * math.Pi / 180), 0}, {0, 1, 0}}
	default:
		return canvas.Identity
	}
}

// Matrix 返回该操作对应的仿射矩阵（已包含 pivot 的前后平移）。
func (op Op) Matrix() canvas.Matrix {
	if op.Pivot == nil || op.Kind == OpTranslate {
		return op.core()
	}
	p := *op.Pivot
	return Translate(p.X, p.Y).core().Mul(op.core()).Mul(Translate(-p.X, -p.Y).core())
}

func (op Op) String() string {
	var core string
	switch op.Kind {
	case OpTranslate:
		core = "translate(" + formatNumber(op.X) + " " + formatNumber(op.Y) + ")"
	case OpRotate:
		core = "rotate(" + formatNumber(op.Angle) + ")"
	case OpScale:
		core = "scale(" + formatNumber(op.X) + " " + formatNumber(op.Y) + ")"
	case OpSkewX:
		core = "skewX(" + formatNumber(op.Angle) + ")"
	default:
		return ""
	}
	if op.Pivot == nil || op.Kind == OpTranslate {
		return core
	}
	p := *op.Pivot
	return Translate(p.X, p.Y).String() + " " + core + " " + Translate(-p.X, -p.Y).String()
}

// Transform 是按顺序组合的变换列表：后面的操作在前面操作已变换的局部坐标系中执行。
// 图元上的 Transform 只会被追加，不会被替换。
type Transform []Op

// Clone 返回独立副本。
func (t Transform) Clone() Transform {
	if t == nil {
		return nil
	}
	out := make(Transform, len(t))
	copy(out, t)
	return out
}

// Append 返回在末尾追加 ops 后的新列表，不修改原切片的底层数组。
func (t Transform) Append(ops ...Op) Transform {
	out := make(Transform, 0, len(t)+len(ops))
	out = append(out, t...)
	return append(out, ops...)
}

// Matrix 把整个列表从左到右组合成一个矩阵。
func (t Transform) Matrix() canvas.Matrix {
	m := canvas.Identity
	for _, op := range t {
		m = m.Mul(op.Matrix())
	}
	return m
}

// Local 将画布坐标点映射回该变换的局部坐标系。
func (t Transform) Local(p Point) Point {
	if len(t) == 0 {
		return p
	}
	q := t.Matrix().Inv().Dot(canvas.Point{X: p.X, Y: p.Y})
	return Point{X: q.X, Y: q.Y}
}

// String 返回 SVG transform 属性字符串。
func (t Transform) String() string { return BuildTransform(t) }

// BuildTransform 将有序操作序列化为 SVG transform 字符串，各操作独立序列化后以空格连接。
func BuildTransform(ops []Op) string {
	parts := make([]string, 0, len(ops))
	for _, op := range ops {
		if s := op.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// TransformBox 把局部矩形的四个角映射到画布坐标并返回外接轴对齐矩形。
func TransformBox(t Transform, local BoundingBox) BoundingBox {
	if len(t) == 0 {
		return local
	}
	m := t.Matrix()
	corners := [4]canvas.Point{
		{X: local.X, Y: local.Y},
		{X: local.X + local.Width, Y: local.Y},
		{X: local.X, Y: local.Y + local.Height},
		{X: local.X + local.Width, Y: local.Y + local.Height},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := m.Dot(c)
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func formatNumber(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
