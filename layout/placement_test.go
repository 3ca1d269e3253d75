package layout

import (
	"testing"
)

func TestDuplicateWithAlternation(t *testing.T) {
	s := NewScene(Canvas{Width: 300, Height: 600}, Estimator{})
	base := AddText(s, 16, 100, "HELLO", 40, AnchorStart, 900, Transform{Scale(0.8, 1)})

	clones := DuplicateWithAlternation(s, base, 4, 6)
	if len(clones) != 4 {
		t.Fatalf("应生成 4 个副本，实际 %d", len(clones))
	}
	if s.Len() != 6 {
		t.Fatalf("场景应有 背景+原件+4 副本，实际 %d", s.Len())
	}
	wantFill := []Color{Black, White, Black, White}
	wantDX := []float64{6, -12, 18, -24}
	wantDY := []float64{3, -6, 9, -12}
	for i, p := range clones {
		c, ok := p.(*TextRun)
		if !ok {
			t.Fatalf("副本 %d 类型错误: %T", i, p)
		}
		if c == base {
			t.Fatalf("副本不应与原件共享指针")
		}
		if c.Fill != wantFill[i] {
			t.Fatalf("副本 %d 填充 %v，期望 %v", i, c.Fill, wantFill[i])
		}
		if len(c.Transform) != 2 {
			t.Fatalf("副本 %d 应保留原变换并追加一次平移: %v", i, c.Transform)
		}
		last := c.Transform[1]
		if last.Kind != OpTranslate || last.X != wantDX[i] || last.Y != wantDY[i] {
			t.Fatalf("副本 %d 平移 (%g,%g)，期望 (%g,%g)", i, last.X, last.Y, wantDX[i], wantDY[i])
		}
	}
	if len(base.Transform) != 1 || base.Fill != Black {
		t.Fatalf("原件不应被修改: %+v", base)
	}
}

func TestDuplicateSkipsUnmeasurable(t *testing.T) {
	s := NewScene(Canvas{Width: 300, Height: 600}, nil)
	base := AddText(s, 16, 100, "HELLO", 40, AnchorStart, 900, nil)
	if got := DuplicateWithAlternation(s, base, 3, 4); got != nil || s.Len() != 2 {
		t.Fatalf("无法测量时不应生成副本: %v", got)
	}
}

func TestPlaceShapeStyles(t *testing.T) {
	s := NewScene(Canvas{Width: 300, Height: 600}, Estimator{})
	filled := PlaceShape(s, squareTemplate, Point{X: 100, Y: 200}, 0.5, 90, StyleFilled)
	if got := filled.Transform.String(); got != "translate(100 200) rotate(90) scale(0.5 0.5)" {
		t.Fatalf("放置变换错误: %s", got)
	}
	el := filled.Elements[0]
	if el.Fill == nil || *el.Fill != Black || el.Stroke != nil {
		t.Fatalf("filled 应为黑色填充无描边: %+v", el)
	}
	box, ok := s.Measure(filled)
	if !ok || !near(box.X, 75) || !near(box.Y, 175) || !near(box.Width, 50) {
		t.Fatalf("形状包围盒错误: %+v %v", box, ok)
	}

	outlined := PlaceShape(s, squareTemplate, Point{X: 0, Y: 0}, 4, 0, StyleOutlined)
	el = outlined.Elements[0]
	if el.Fill != nil || el.Stroke == nil || *el.Stroke != Black || el.StrokeWidth != 1 {
		t.Fatalf("outlined 应为黑色描边且线宽不小于 1: %+v", el)
	}
	thin := PlaceShape(s, squareTemplate, Point{}, 0.5, 0, StyleOutlined)
	if thin.Elements[0].StrokeWidth != 4 {
		t.Fatalf("缩小的形状描边应放大: %g", thin.Elements[0].StrokeWidth)
	}
	if squareTemplate.Elements[0].Fill != nil {
		t.Fatalf("模板不应被修改")
	}

	clones := DuplicateWithAlternation(s, filled, 2, 4)
	second := clones[1].(*ShapeInstance)
	if *second.Elements[0].Fill != White || *filled.Elements[0].Fill != Black {
		t.Fatalf("形状副本应独立着色")
	}
}
