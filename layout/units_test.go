package layout

import (
	"math"
	"strings"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
	for _, px := range samples {
		back := px * PxToMm * MmToPx
		if diff := math.Abs(back - px); diff > 1e-9 {
			t.Fatalf("px→mm→px 往返误差过大: in=%gpx back=%g", px, back)
		}
	}
}

// TestLengthToConversions 覆盖 Length 在常见单位上的转换正确性（到 mm/pt）。
func TestLengthToConversions(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1in", 25.4},
		{"2.54cm", 25.4},
		{"12pt", 12 * PtToMm},
		{"96px", 25.4},
		{" 80mm ", 80},
		{"42", 42},
		{"abc", 0},
	}
	for _, c := range cases {
		if got := ParseLength(c.in).ToMM(); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("ParseLength(%q).ToMM() = %g, want %g", c.in, got, c.want)
		}
	}
	if got := (Length{Value: 10, Unit: UnitMM}).ToPT(); math.Abs(got-10*MmToPt) > 1e-9 {
		t.Fatalf("10mm 转 pt 期望 %g，实际 %g", 10*MmToPt, got)
	}
	if UnitToString(ParseLength("3cm").Unit) != "cm" {
		t.Fatalf("单位应保留为 cm")
	}
}

func TestLengthFlagValue(t *testing.T) {
	var l Length
	if err := l.Set("15cm"); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}
	if l.ToMM() != 150 || l.String() != "15cm" || l.Type() != "length" {
		t.Fatalf("长度解析错误: %v", l)
	}
	for _, bad := range []string{"", "mm", "twelve pt"} {
		if err := l.Set(bad); err == nil {
			t.Fatalf("%q 应解析失败", bad)
		}
	}
	if l.String() != "15cm" {
		t.Fatalf("解析失败时不应修改原值: %v", l)
	}
}

// TestPaperHeightMonotonic 验证纸张高度随文本长度单调不减，且不低于最小高度。
func TestPaperHeightMonotonic(t *testing.T) {
	p := DefaultPaper()
	prev := 0.0
	for n := 0; n <= 300; n++ {
		h := CanvasHeightMM(strings.Repeat("a", n), p)
		if h < p.MinHeightMM {
			t.Fatalf("len=%d 高度 %g 低于最小值 %g", n, h, p.MinHeightMM)
		}
		if h < prev {
			t.Fatalf("len=%d 高度 %g 小于前一个 %g", n, h, prev)
		}
		prev = h
	}
	if got := p.HeightMM(""); got != 150 {
		t.Fatalf("空文本高度应为 150，实际 %g", got)
	}
	// 10 个字符：150 + round(14.5) = 165
	if got := p.HeightMM("0123456789"); got != 165 {
		t.Fatalf("10 字符高度应为 165，实际 %g", got)
	}
	// 按字符而非字节计数
	if a, b := p.HeightMM("ääää"), p.HeightMM("aaaa"); a != b {
		t.Fatalf("多字节字符高度 %g != %g", a, b)
	}
}

func TestPaperToPX(t *testing.T) {
	p := DefaultPaper()
	if got := p.ToPX(25.4); math.Abs(got-96) > 1e-9 {
		t.Fatalf("25.4mm@96dpi 应为 96px，实际 %g", got)
	}
	p.DPI = 0
	if got := p.ToPX(25.4); math.Abs(got-96) > 1e-9 {
		t.Fatalf("DPI 缺省时应按 96 计算，实际 %g", got)
	}
}
