package layout

import (
	"github.com/ByLCY/plakat/random"
)

// OverlapReport 统计一次重叠处理中各种处理方式的次数。
type OverlapReport struct {
	Pairs       int `json:"pairs"`
	Masked      int `json:"masked"`
	InvertText  int `json:"invertText"`
	InvertShape int `json:"invertShape"`
	Unmeasured  int `json:"unmeasured"`
}

// ResolveOverlaps 检查每一对文本与顶层形状的包围盒，对相交（面积为正）的组合抽一次随机数：
// 大于 maskAbove 时在交集处追加白色遮罩矩形；大于 invertAbove 时把文本改为白色；
// 否则把形状的填充与描边全部改为白色。无法测量的图元不参与。
func ResolveOverlaps(s *Scene, r random.Rand, maskAbove, invertAbove float64) OverlapReport {
	var rep OverlapReport
	type measured[T any] struct {
		item T
		box  BoundingBox
	}

	var texts []measured[*TextRun]
	for _, t := range s.Texts() {
		box, ok := s.Measure(t)
		if !ok {
			rep.Unmeasured++
			continue
		}
		texts = append(texts, measured[*TextRun]{t, box})
	}
	var shapes []measured[*ShapeInstance]
	for _, sh := range s.Shapes() {
		box, ok := s.Measure(sh)
		if !ok {
			rep.Unmeasured++
			continue
		}
		shapes = append(shapes, measured[*ShapeInstance]{sh, box})
	}

	for _, t := range texts {
		for _, sh := range shapes {
			inter, ok := t.box.Intersect(sh.box)
			if !ok {
				continue
			}
			rep.Pairs++
			switch roll := r.Float(); {
			case roll > maskAbove:
				s.Append(&Rect{
					Role:   RoleMask,
					X:      inter.X,
					Y:      inter.Y,
					Width:  inter.Width,
					Height: inter.Height,
					Fill:   White,
				})
				rep.Masked++
			case roll > invertAbove:
				t.item.Fill = White
				rep.InvertText++
			default:
				whiteout(sh.item)
				rep.InvertShape++
			}
		}
	}
	return rep
}
