package layout

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ByLCY/plakat/binding"
	"github.com/ByLCY/plakat/random"
)

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Measurer == nil {
		opts.Measurer = Estimator{}
	}
	e, err := New(opts)
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}
	return e
}

func lastText(t *testing.T, s *Scene) *TextRun {
	t.Helper()
	prims := s.Primitives()
	txt, ok := prims[len(prims)-1].(*TextRun)
	if !ok {
		t.Fatalf("最上层应为文本，实际 %T", prims[len(prims)-1])
	}
	return txt
}

func TestNewRequiresMeasurer(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, ErrNoMeasurer) {
		t.Fatalf("缺少测量器应返回 ErrNoMeasurer，实际 %v", err)
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	e := newTestEngine(t, Options{Catalog: []ShapeTemplate{squareTemplate}, Rand: seeded(1)})
	for _, in := range []string{"", "   \n\t"} {
		s, err := e.Generate(in, 300, 600)
		if err != nil {
			t.Fatalf("空输入不应报错: %v", err)
		}
		if s.Len() != 2 || len(s.Texts()) != 1 || len(s.Shapes()) != 0 {
			t.Fatalf("空输入应只有背景与占位文字，实际 %d 个图元", s.Len())
		}
		ph := lastText(t, s)
		if ph.Content != "type something..." || ph.X != 16 || ph.Y != 270 || ph.FontSize != 14 || ph.FontWeight != 700 {
			t.Fatalf("占位文字属性错误: %+v", ph)
		}
		if s.Recipe != "" {
			t.Fatalf("空输入不应执行配方: %s", s.Recipe)
		}
	}
}

func TestGenerateHelloWorld(t *testing.T) {
	seen := map[string]bool{}
	for seed := byte(0); seed < 40; seed++ {
		e := newTestEngine(t, Options{Catalog: []ShapeTemplate{squareTemplate}, Rand: seeded(seed)})
		s, err := e.Generate("HELLO WORLD", 300, 600)
		if err != nil {
			t.Fatalf("seed=%d 生成失败: %v", seed, err)
		}
		if s.Len() <= 2 {
			t.Fatalf("seed=%d 图元数量 %d 应大于 2", seed, s.Len())
		}
		if s.Primitives()[0] != s.Background() {
			t.Fatalf("seed=%d 背景必须在最底层", seed)
		}
		footer := lastText(t, s)
		if footer.Content != "HELLO WORLD" || footer.FontSize != 9 || footer.FontWeight != 700 {
			t.Fatalf("seed=%d 页脚错误: %+v", seed, footer)
		}
		if footer.X != 16 || footer.Y != 594 {
			t.Fatalf("seed=%d 页脚位置错误: (%g,%g)", seed, footer.X, footer.Y)
		}
		seen[s.Recipe] = true
	}
	if len(seen) < 2 {
		t.Fatalf("多次生成应覆盖不止一种配方: %v", seen)
	}
}

func TestGenerateEveryRecipe(t *testing.T) {
	for _, rc := range Recipes() {
		t.Run(rc.Name, func(t *testing.T) {
			tuning := DefaultTuning()
			tuning.RecipeWeights = map[string]float64{rc.Name: 1}
			e := newTestEngine(t, Options{
				Catalog: []ShapeTemplate{squareTemplate},
				Rand:    seeded(3),
				Tuning:  tuning,
			})
			for _, in := range []string{"solo", "one two three four five six"} {
				s, err := e.Generate(in, 300, 600)
				if err != nil {
					t.Fatalf("生成失败: %v", err)
				}
				if s.Recipe != rc.Name {
					t.Fatalf("应选中 %s，实际 %s", rc.Name, s.Recipe)
				}
				if len(s.Texts()) < 2 {
					t.Fatalf("配方至少应产生一段文字与页脚")
				}
			}
		})
	}
}

func TestGenerateWithoutCatalog(t *testing.T) {
	e := newTestEngine(t, Options{Rand: seeded(9)})
	for i := 0; i < 20; i++ {
		s, err := e.Generate("NO SHAPES HERE", 300, 600)
		if err != nil {
			t.Fatalf("生成失败: %v", err)
		}
		if n := len(s.Shapes()); n != 0 {
			t.Fatalf("空目录不应产生形状，实际 %d", n)
		}
	}
}

func TestGenerateFooterTemplate(t *testing.T) {
	tuning := DefaultTuning()
	tuning.FooterTemplate = "${words[2]} / ${recipe}"
	tuning.RecipeWeights = map[string]float64{RecipeGridRhythm: 1}
	e := newTestEngine(t, Options{Rand: seeded(5), Tuning: tuning})
	s, err := e.Generate("alpha beta gamma", 300, 600)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	if got := lastText(t, s).Content; got != "gamma / grid-rhythm" {
		t.Fatalf("页脚模板渲染错误: %q", got)
	}
}

func TestNewRejectsBadFooterTemplate(t *testing.T) {
	tuning := DefaultTuning()
	tuning.FooterTemplate = "${head"
	if _, err := New(Options{Measurer: Estimator{}, Tuning: tuning}); !errors.Is(err, binding.ErrSyntax) {
		t.Fatalf("无效模板应返回 binding.ErrSyntax，实际 %v", err)
	}
}

func TestGenerateEntropyFailure(t *testing.T) {
	e := newTestEngine(t, Options{Rand: random.NewFromReader(bytes.NewReader(nil))})
	s, err := e.Generate("HELLO", 300, 600)
	if !errors.Is(err, random.ErrEntropy) {
		t.Fatalf("熵源失败应返回 ErrEntropy，实际 %v", err)
	}
	if s != nil {
		t.Fatalf("失败时不应返回场景")
	}
}

func TestPickRecipeFallback(t *testing.T) {
	r := &scriptedRand{floats: []float64{0.5}}
	if got := PickRecipe(r, Recipes(), map[string]float64{}); got.Name != RecipeVerticalStack {
		t.Fatalf("权重全部无效时应退回第一个配方，实际 %s", got.Name)
	}
}

func TestTuningPartialDefaults(t *testing.T) {
	d := DefaultTuning()
	got := Tuning{Padding: 20}.withDefaults()
	if got.Padding != 20 {
		t.Fatalf("显式设置的 Padding 被覆盖: %g", got.Padding)
	}
	if got.NoDistortion != d.NoDistortion || got.SubtleBelow != d.SubtleBelow || got.StrongBelow != d.StrongBelow {
		t.Fatalf("未设置的变形概率应取默认值: %+v", got)
	}

	always := Tuning{Padding: 20, SubtleBelow: 0.5}.withDefaults()
	if always.NoDistortion != 0 {
		t.Fatalf("给出分档时 NoDistortion=0 应保留为总是变形，实际 %g", always.NoDistortion)
	}
}
