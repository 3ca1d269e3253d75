package layout

import (
	"testing"

	"github.com/ByLCY/plakat/random"
)

// upperRand 的 Int 与 Range 总是返回上界，Float 总是返回 0。
type upperRand struct{}

func (upperRand) Float() float64 { return 0 }
func (upperRand) Int(a, b int) int { return b }
func (upperRand) Range(a, b float64) float64 { return b }

func newComposition(words []string, r random.Rand) *Composition {
	return &Composition{
		Scene:  NewScene(Canvas{Width: 300, Height: 600, Background: White}, Estimator{}),
		Words:  words,
		Width:  300,
		Height: 600,
		Rand:   r,
		Tuning: DefaultTuning(),
	}
}

func TestMultiplyColumnAlternatesCase(t *testing.T) {
	c := newComposition([]string{"straße"}, &scriptedRand{})
	multiplyColumn(c)

	texts := c.Scene.Texts()
	if len(texts) != 15 {
		t.Fatalf("600px 高度应重复 15 行，实际 %d", len(texts))
	}
	if texts[0].Content != "STRASSE" || texts[1].Content != "straße" {
		t.Fatalf("行间大小写应交替: %q / %q", texts[0].Content, texts[1].Content)
	}
	if texts[0].FontWeight != 800 || texts[0].X != 16 || texts[0].Y != 36 {
		t.Fatalf("首行属性错误: %+v", texts[0])
	}
	if len(c.Scene.Shapes()) != 0 {
		t.Fatal("没有形状目录时不应放置形状")
	}
}

func TestVerticalStackLimitsLines(t *testing.T) {
	c := newComposition([]string{"A", "B", "C", "D", "E", "F"}, &scriptedRand{})
	verticalStack(c)

	var heads int
	for _, txt := range c.Scene.Texts() {
		if txt.FontWeight == 900 {
			heads++
		}
	}
	if heads != 4 {
		t.Fatalf("最多堆叠四个单词，实际 %d", heads)
	}
}

func TestGridRhythmPlacesCells(t *testing.T) {
	c := newComposition([]string{"ONE", "TWO"}, &scriptedRand{})
	c.Shapes = []ShapeTemplate{squareTemplate}
	gridRhythm(c)

	// 标题 + 2 列 × 3 行（Int 总是取下界）
	if got := len(c.Scene.Texts()); got != 7 {
		t.Fatalf("期望 7 个文本，实际 %d", got)
	}
	if got := c.Scene.Texts()[0].Content; got != "ONE TWO" {
		t.Fatalf("标题应为前三个单词，实际 %q", got)
	}
}

// assertBackdrop 检查紧挨背景的是大形状，从而所有文本都绘制在它之上。
func assertBackdrop(t *testing.T, s *Scene) *ShapeInstance {
	t.Helper()
	prims := s.Primitives()
	if len(prims) < 2 {
		t.Fatalf("场景图元过少: %d", len(prims))
	}
	back, ok := prims[1].(*ShapeInstance)
	if !ok {
		t.Fatalf("背景之后应是大形状，实际 %T", prims[1])
	}
	for i, p := range prims[2:] {
		if sh, isShape := p.(*ShapeInstance); isShape && sh.Scale > back.Scale {
			t.Fatalf("图元 %d 比背景形状更大却位于其上", i+2)
		}
	}
	return back
}

func TestVerticalStackShapeBehindText(t *testing.T) {
	// 两行各消耗两次 Float（变形、复制），第五次决定是否放大形状。
	r := &scriptedRand{floats: []float64{0, 0, 0, 0, 0.5}}
	c := newComposition([]string{"ALPHA", "BETA"}, r)
	c.Shapes = []ShapeTemplate{squareTemplate}
	verticalStack(c)

	back := assertBackdrop(t, c.Scene)
	if back.Template != "square" || back.Scale != 0.7 || back.Style != StyleFilled {
		t.Fatalf("大形状属性错误: %+v", back)
	}
	if back.Center.X != 165 || back.Center.Y != 120 {
		t.Fatalf("大形状位置错误: %+v", back.Center)
	}
	if got := len(c.Scene.Texts()); got != 2 {
		t.Fatalf("两个单词应产生两行，实际 %d", got)
	}
}

func TestMassShapeLowerBounds(t *testing.T) {
	c := newComposition([]string{"HELLO", "WORLD", "AGAIN"}, &scriptedRand{})
	c.Shapes = []ShapeTemplate{squareTemplate}
	massShape(c)

	back := assertBackdrop(t, c.Scene)
	if back.Scale != 1.0 || back.Center.X != 105 || back.Center.Y != 180 {
		t.Fatalf("骨架形状属性错误: %+v", back)
	}

	texts := c.Scene.Texts()
	if len(texts) != 2 {
		t.Fatalf("应有主标题与 1 个重复标题，实际 %d", len(texts))
	}
	main := texts[0]
	if main.Content != "HELLO WORLD" || main.FontSize != 108 || main.Anchor != AnchorMiddle || main.X != 150 || main.Y != 228 {
		t.Fatalf("主标题属性错误: %+v", main)
	}
	if len(main.Transform) != 0 {
		t.Fatalf("主标题不应被横向压缩: %v", main.Transform)
	}
	if box, _ := c.Scene.Measure(main); box.Width <= c.Width-2*c.Tuning.Padding {
		t.Fatalf("用例中主标题应超宽，实际宽度 %g", box.Width)
	}
	dup := texts[1]
	if dup.FontSize != 22 || dup.FontWeight != 700 || dup.Y != 254 {
		t.Fatalf("重复标题属性错误: %+v", dup)
	}

	shapes := c.Scene.Shapes()
	if len(shapes) != 2 {
		t.Fatalf("应有骨架与 1 个右侧小形状，实际 %d", len(shapes))
	}
	if x := shapes[1].Center.X; x != 274 {
		t.Fatalf("右侧小形状 X=%g，期望 274", x)
	}
}

func TestMassShapeUpperBounds(t *testing.T) {
	c := newComposition([]string{"HELLO", "WORLD"}, upperRand{})
	c.Shapes = []ShapeTemplate{squareTemplate}
	massShape(c)

	back := assertBackdrop(t, c.Scene)
	if back.Scale != 1.8 || back.Center.X != 195 || back.Center.Y != 330 {
		t.Fatalf("骨架形状属性错误: %+v", back)
	}

	texts := c.Scene.Texts()
	if len(texts) != 5 {
		t.Fatalf("应有主标题与 4 个重复标题，实际 %d", len(texts))
	}
	if texts[0].FontSize != 192 {
		t.Fatalf("主标题字号 %g，期望 192", texts[0].FontSize)
	}
	wantX := []float64{150, 154, 158, 162}
	prevY := texts[0].Y
	for i, dup := range texts[1:] {
		if dup.FontSize != 65 || dup.FontSize >= texts[0].FontSize {
			t.Fatalf("重复标题 %d 字号 %g，期望 65", i, dup.FontSize)
		}
		if dup.X != wantX[i] || dup.Y != prevY+96 {
			t.Fatalf("重复标题 %d 位置 (%g,%g) 错误", i, dup.X, dup.Y)
		}
		prevY = dup.Y
	}

	shapes := c.Scene.Shapes()
	if len(shapes) != 5 {
		t.Fatalf("应有骨架与 4 个右侧小形状，实际 %d", len(shapes))
	}
	lo, hi := c.Width-c.Tuning.Padding-40, c.Width-c.Tuning.Padding-10
	for _, sh := range shapes[1:] {
		if sh.Center.X < lo || sh.Center.X > hi {
			t.Fatalf("右侧形状 X=%g 不在 [%g,%g]", sh.Center.X, lo, hi)
		}
		if sh.Scale != 0.6 {
			t.Fatalf("右侧形状缩放 %g，期望 0.6", sh.Scale)
		}
	}
}
