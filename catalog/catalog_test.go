package catalog

import (
	"errors"
	"testing"

	"github.com/ByLCY/plakat/layout"
)

func TestDefaultCatalog(t *testing.T) {
	tpls := Default()
	if len(tpls) == 0 {
		t.Fatalf("内置目录不应为空")
	}
	s := layout.NewScene(layout.Canvas{Width: 300, Height: 600}, layout.Estimator{})
	for _, tpl := range tpls {
		if len(tpl.Elements) == 0 {
			t.Fatalf("形状 %s 没有路径", tpl.Name)
		}
		inst := layout.PlaceShape(s, tpl, layout.Point{X: 150, Y: 300}, 1, 0, layout.StyleFilled)
		box, ok := s.Measure(inst)
		if !ok {
			t.Fatalf("形状 %s 无法测量", tpl.Name)
		}
		if box.Width > 130 || box.Height > 130 || box.Width <= 0 || box.Height <= 0 {
			t.Fatalf("形状 %s 尺寸异常: %+v", tpl.Name, box)
		}
	}
}

func TestLoadPaints(t *testing.T) {
	tpls, err := LoadString(`catalog T v1 {
  shape dot { path "M-1 0 H1 V1 Z" fill #f00 stroke #00ff00 width 1.5 }
  shape hollow { path "M0 0 H1 V1 Z" fill none }
}`)
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if got := Names(tpls); len(got) != 2 || got[0] != "dot" || got[1] != "hollow" {
		t.Fatalf("名称顺序错误: %v", got)
	}
	el := tpls[0].Elements[0]
	if el.Fill == nil || *el.Fill != (layout.Color{R: 255}) {
		t.Fatalf("fill 解析错误: %+v", el.Fill)
	}
	if el.Stroke == nil || *el.Stroke != (layout.Color{G: 255}) || el.StrokeWidth != 1.5 {
		t.Fatalf("stroke 解析错误: %+v %g", el.Stroke, el.StrokeWidth)
	}
	if tpls[1].Elements[0].Fill != nil {
		t.Fatalf("fill none 应为空")
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadString(`catalog T v1 { shape a { path "M0 0 H1" } shape a { path "M0 0 H1" } }`)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("重名应返回 ErrDuplicate，实际 %v", err)
	}
	if _, err := LoadString(`catalog T v1 { shape a { path "Q" } }`); err == nil {
		t.Fatalf("无效路径应报错")
	}
	if _, err := LoadString(`catalog T v1 { shape a { path "" } }`); err == nil {
		t.Fatalf("空路径应报错")
	}
	if _, err := LoadString(`catalog T v1`); err == nil {
		t.Fatalf("语法错误应报错")
	}
}

func TestLoadEmptyCatalog(t *testing.T) {
	tpls, err := LoadString(`catalog Empty v1 {}`)
	if err != nil || len(tpls) != 0 {
		t.Fatalf("空目录应合法: %v %v", tpls, err)
	}
}
