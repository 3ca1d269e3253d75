package canvasrenderer

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/plakat/layout"
	"github.com/ByLCY/plakat/random"
)

func TestMetricsMeasureText(t *testing.T) {
	m := NewMetrics("")
	s := layout.NewScene(layout.Canvas{Width: 300, Height: 600}, m)

	small := layout.AddText(s, 16, 100, "HELLO", 20, layout.AnchorStart, 900, nil)
	large := layout.AddText(s, 16, 200, "HELLO", 40, layout.AnchorStart, 900, nil)
	bs, ok := s.Measure(small)
	if !ok || bs.Width <= 0 || bs.Height <= 0 {
		t.Fatalf("文本应可测量: %+v %v", bs, ok)
	}
	bl, _ := s.Measure(large)
	if math.Abs(bl.Width-2*bs.Width) > 1e-4 {
		t.Fatalf("字号加倍宽度应加倍: %g vs %g", bl.Width, bs.Width)
	}
	if bs.Y >= 100 || bs.Y+bs.Height <= 100 {
		t.Fatalf("包围盒应跨越基线: %+v", bs)
	}
	if bs.X != 16 {
		t.Fatalf("start 锚点左侧应与 x 对齐: %g", bs.X)
	}

	mid := layout.AddText(s, 150, 300, "HELLO", 20, layout.AnchorMiddle, 900, nil)
	bm, _ := s.Measure(mid)
	if math.Abs(bm.Center().X-150) > 1e-4 {
		t.Fatalf("middle 锚点应水平居中: %+v", bm)
	}

	regular := layout.AddText(s, 16, 400, "HELLO", 20, layout.AnchorStart, 400, nil)
	if br, ok := s.Measure(regular); !ok || br.Width <= 0 {
		t.Fatalf("常规字重也应可测量: %+v", br)
	}
}

func TestMetricsBadFontPath(t *testing.T) {
	m := NewMetrics("/nonexistent/font.ttf")
	s := layout.NewScene(layout.Canvas{Width: 300, Height: 600}, m)
	txt := layout.AddText(s, 16, 100, "HELLO", 20, layout.AnchorStart, 900, nil)
	if _, ok := s.Measure(txt); ok {
		t.Fatalf("字体加载失败时应不可测量")
	}
}

func sampleScene(t *testing.T, m *Metrics) *layout.Scene {
	t.Helper()
	e, err := layout.New(layout.Options{
		Measurer: m,
		Catalog: []layout.ShapeTemplate{{
			Name:     "square",
			Elements: []layout.ShapeElement{{Path: "M-50 -50 H50 V50 H-50 Z"}},
		}},
		Rand: random.New(),
	})
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}
	s, err := e.Generate("HELLO WORLD", 300, 600)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	return s
}

func TestRenderFormats(t *testing.T) {
	m := NewMetrics("")
	s := sampleScene(t, m)

	pdfData, err := NewRenderer(Options{Format: FormatPDF, Metrics: m}).Render(s)
	if err != nil {
		t.Fatalf("PDF 渲染失败: %v", err)
	}
	if !bytes.HasPrefix(pdfData, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}

	svgData, err := NewRenderer(Options{Format: FormatSVG, Metrics: m}).Render(s)
	if err != nil {
		t.Fatalf("SVG 渲染失败: %v", err)
	}
	if !strings.Contains(string(svgData), "<svg") {
		t.Fatalf("输出不是 SVG")
	}

	pngData, err := NewRenderer(Options{Format: FormatPNG, Metrics: m}).Render(s)
	if err != nil {
		t.Fatalf("PNG 渲染失败: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		t.Fatalf("PNG 解码失败: %v", err)
	}
	b := img.Bounds()
	if math.Abs(float64(b.Dx())-300) > 1 || math.Abs(float64(b.Dy())-600) > 1 {
		t.Fatalf("PNG 尺寸应约为 300x600，实际 %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer(Options{})
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("空场景应报错")
	}
	empty := layout.NewScene(layout.Canvas{}, nil)
	if _, err := r.Render(empty); err == nil {
		t.Fatalf("零尺寸画布应报错")
	}
	if r.ContentType() != "application/pdf" {
		t.Fatalf("默认格式应为 PDF: %s", r.ContentType())
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatPDF, "PNG": FormatPNG, " svg ": FormatSVG, "pdf": FormatPDF}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Fatalf("gif 不应被支持")
	}
}
