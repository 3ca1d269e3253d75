package layout

import (
	"math"
)

// AddText 构造文本图元并追加到场景最上层。不检查宽高，适配与变形由调用方负责。
func AddText(s *Scene, x, y float64, content string, size float64, anchor TextAnchor, weight int, extra Transform) *TextRun {
	if anchor == "" {
		anchor = AnchorStart
	}
	t := &TextRun{
		Content:    content,
		X:          x,
		Y:          y,
		FontSize:   size,
		FontWeight: weight,
		FontFamily: DefaultFontFamily,
		Anchor:     anchor,
		Fill:       Black,
		Transform:  extra.Clone(),
	}
	s.Append(t)
	return t
}

// PlaceShape 复制模板并放置到 center：先在原点缩放、旋转，再平移到中心。
// filled 模式为黑色填充无描边；outlined 模式为无填充黑色描边，线宽与缩放成反比且不小于 1。
func PlaceShape(s *Scene, tpl ShapeTemplate, center Point, scale, rotation float64, mode StyleMode) *ShapeInstance {
	inst := &ShapeInstance{
		Template: tpl.Name,
		Center:   center,
		Rotation: rotation,
		Scale:    scale,
		Style:    mode,
		Elements: make([]ShapeElement, len(tpl.Elements)),
		Transform: Transform{
			Translate(center.X, center.Y),
			Rotate(rotation),
			Scale(scale, scale),
		},
	}
	for i, el := range tpl.Elements {
		inst.Elements[i] = el.clone()
	}
	applyStyle(inst, mode)
	s.Append(inst)
	return inst
}

func applyStyle(inst *ShapeInstance, mode StyleMode) {
	for i := range inst.Elements {
		el := &inst.Elements[i]
		if mode == StyleOutlined {
			stroke := Black
			el.Fill = nil
			el.Stroke = &stroke
			el.StrokeWidth = outlineWidth(inst.Scale)
			continue
		}
		fill := Black
		el.Fill = &fill
		el.Stroke = nil
		el.StrokeWidth = 0
	}
}

// outlineWidth 保证缩得很小时描边仍然可见。
func outlineWidth(scale float64) float64 {
	if scale <= 0 {
		return 1
	}
	return math.Max(1, 2/scale)
}

// DuplicateWithAlternation 为 base 生成 copies 个独立副本：偶数序号填黑、奇数序号填白，
// 并追加幅度递增、方向交替的平移，形成层叠阴影效果。副本按创建顺序追加到场景最上层。
// base 无法测量时不做任何事情。
func DuplicateWithAlternation(s *Scene, base Primitive, copies int, offsetStep float64) []Primitive {
	if _, ok := s.Measure(base); !ok {
		return nil
	}
	clones := make([]Primitive, 0, max(copies, 0))
	for i := 0; i < copies; i++ {
		clone := base.Clone()
		fill := Black
		sign := 1.0
		if i%2 == 1 {
			fill = White
			sign = -1
		}
		dx := math.Round(float64(i+1) * offsetStep * sign)
		dy := math.Round(float64(i+1) * math.Max(2, offsetStep/2) * sign)
		switch c := clone.(type) {
		case *TextRun:
			c.Fill = fill
			c.Transform = c.Transform.Append(Translate(dx, dy))
		case *ShapeInstance:
			recolor(c, fill)
			c.Transform = c.Transform.Append(Translate(dx, dy))
		}
		s.Append(clone)
		clones = append(clones, clone)
	}
	return clones
}

// recolor 把形状的所有子元素改为同一颜色：已有填充或描边的属性被替换为 col。
func recolor(inst *ShapeInstance, col Color) {
	for i := range inst.Elements {
		el := &inst.Elements[i]
		if el.Fill != nil {
			f := col
			el.Fill = &f
		}
		if el.Stroke != nil {
			st := col
			el.Stroke = &st
		}
	}
}

// whiteout 把形状的填充与描边全部设为白色。
func whiteout(inst *ShapeInstance) {
	for i := range inst.Elements {
		fill, stroke := White, White
		inst.Elements[i].Fill = &fill
		inst.Elements[i].Stroke = &stroke
	}
}

func transformOf(p Primitive) *Transform {
	switch v := p.(type) {
	case *TextRun:
		return &v.Transform
	case *ShapeInstance:
		return &v.Transform
	default:
		return nil
	}
}
