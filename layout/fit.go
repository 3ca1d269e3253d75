package layout

import (
	"math"

	"github.com/ByLCY/plakat/random"
)

// FitToWidth 在图元宽度超过 maxWidth 时追加一个单轴缩放，
// 缩放中心为包围盒左上角，从而保持左侧与基线对齐。
// 已旋转四分之一圈的图元改为缩放局部 y 轴，因为它才对应画布的水平方向。
// allowScaleX 为 false 时即使超宽也不处理（调用方接受溢出，倾向于纵向拉伸而非横向压缩）。
// 返回是否追加了变换；无法测量时视为不处理。
func FitToWidth(s *Scene, p Primitive, maxWidth float64, allowScaleX bool) bool {
	box, ok := s.Measure(p)
	if !ok || box.Width <= maxWidth+fitEpsilon || box.Width <= 0 {
		return false
	}
	if !allowScaleX {
		return false
	}
	return scaleAlongAxis(p, maxWidth/box.Width, Point{X: box.X, Y: box.Y}, 0)
}

// FitToHeight 用于旋转了四分之一圈的文本：纵向范围超过 maxHeight 时沿映射到画布纵向的局部轴缩放。
func FitToHeight(s *Scene, p Primitive, maxHeight float64, allowScale bool) bool {
	box, ok := s.Measure(p)
	if !ok || box.Height <= maxHeight+fitEpsilon || box.Height <= 0 {
		return false
	}
	if !allowScale {
		return false
	}
	return scaleAlongAxis(p, maxHeight/box.Height, Point{X: box.X, Y: box.Y}, 1)
}

// fitEpsilon 吸收缩放后的浮点误差，保证重复调用不再追加变换。
const fitEpsilon = 1e-6

// scaleAlongAxis 以 origin（画布坐标）为中心缩放，row 为 0 时压缩画布水平方向，为 1 时压缩纵向。
// 选择对该方向贡献更大的局部轴：未旋转时是局部 x，旋转 90°/270° 时是局部 y。
func scaleAlongAxis(p Primitive, f float64, origin Point, row int) bool {
	tr := transformOf(p)
	if tr == nil {
		return false
	}
	m := tr.Matrix()
	pivot := tr.Local(origin)
	if math.Abs(m[row][0]) >= math.Abs(m[row][1]) {
		*tr = tr.Append(ScaleAbout(f, 1, pivot))
	} else {
		*tr = tr.Append(ScaleAbout(1, f, pivot))
	}
	return true
}

// Distortion 表示一次变形调用选中的强度档位。
type Distortion int

const (
	DistortNone Distortion = iota
	DistortSubtle
	DistortStrong
	DistortExtreme
)

func (d Distortion) String() string {
	switch d {
	case DistortSubtle:
		return "subtle"
	case DistortStrong:
		return "strong"
	case DistortExtreme:
		return "extreme"
	default:
		return "none"
	}
}

// DistortionLimits 是单次变形的上限以及抽取档位的概率边界。
type DistortionLimits struct {
	MaxScaleY    float64
	MinScaleX    float64
	MaxSkew      float64
	NoDistortion float64
	SubtleBelow  float64
	StrongBelow  float64
}

// Limits 从调参中取出默认变形上限。
func (t Tuning) Limits() DistortionLimits {
	return DistortionLimits{
		MaxScaleY:    t.MaxScaleY,
		MinScaleX:    t.MinScaleX,
		MaxSkew:      t.MaxSkew,
		NoDistortion: t.NoDistortion,
		SubtleBelow:  t.SubtleBelow,
		StrongBelow:  t.StrongBelow,
	}
}

// ApplyDistortion 按概率对图元施加纵向拉伸、横向压缩与错切：
// 有 NoDistortion 的概率什么都不做；否则再抽一次决定 subtle / strong / extreme 档位。
// 变换以包围盒中心为轴心追加在已有变换之后。返回实际施加的档位。
func ApplyDistortion(s *Scene, r random.Rand, p Primitive, lim DistortionLimits) Distortion {
	if r.Float() < lim.NoDistortion {
		return DistortNone
	}
	var (
		tier                    Distortion
		scaleY, scaleX, skewDeg float64
	)
	switch roll := r.Float(); {
	case roll < lim.SubtleBelow:
		tier = DistortSubtle
		scaleY = r.Range(1.0, 1.6)
		scaleX = r.Range(0.8, 1.0)
		skewDeg = r.Range(-6, 6)
	case roll < lim.StrongBelow:
		tier = DistortStrong
		scaleY = r.Range(1.6, math.Min(2.4, lim.MaxScaleY))
		scaleX = r.Range(math.Max(lim.MinScaleX, 0.45), 0.85)
		skewDeg = r.Range(-12, 12)
	default:
		tier = DistortExtreme
		scaleY = r.Range(2.4, lim.MaxScaleY)
		scaleX = r.Range(lim.MinScaleX, 0.55)
		skewDeg = r.Range(-lim.MaxSkew, lim.MaxSkew)
	}

	box, ok := s.Measure(p)
	if !ok {
		return DistortNone
	}
	tr := transformOf(p)
	if tr == nil {
		return DistortNone
	}
	c := tr.Local(box.Center())
	*tr = tr.Append(
		Translate(c.X, c.Y),
		SkewX(skewDeg),
		Scale(scaleX, scaleY),
		Translate(-c.X, -c.Y),
	)
	return tier
}
