package layout

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ByLCY/plakat/binding"
	"github.com/ByLCY/plakat/random"
)

// ErrNoMeasurer 表示构造引擎时没有提供测量后端。
var ErrNoMeasurer = errors.New("layout: 缺少测量后端 Measurer")

const (
	placeholderSize   = 14
	placeholderWeight = 700
	footerSize        = 9
	footerWeight      = 700
)

// Engine 把输入文本组装成海报场景。同一个 Engine 可以重复调用 Generate，但不是并发安全的。
type Engine struct {
	measurer Measurer
	catalog  []ShapeTemplate
	rand     random.Rand
	tuning   Tuning
	recipes  []Recipe
	logger   *log.Logger
	footer   *binding.Template
	host     Host
	paper    Paper
}

// New 根据 Options 创建引擎。未提供随机源时使用系统熵源。
func New(opts Options) (*Engine, error) {
	if opts.Measurer == nil {
		return nil, ErrNoMeasurer
	}
	r := opts.Rand
	if r == nil {
		r = random.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tuning := opts.Tuning.withDefaults()
	footer, err := binding.Compile(tuning.FooterTemplate)
	if err != nil {
		return nil, fmt.Errorf("页脚模板无效: %w", err)
	}
	paper := opts.Paper
	if paper.WidthMM <= 0 || paper.MinHeightMM <= 0 {
		paper = DefaultPaper()
	}
	return &Engine{
		host:     opts.Host,
		paper:    paper,
		measurer: opts.Measurer,
		catalog:  opts.Catalog,
		rand:     r,
		tuning:   tuning,
		footer:   footer,
		recipes:  Recipes(),
		logger:   logger,
	}, nil
}

// Tuning 返回引擎实际使用的参数（已回填默认值）。
func (e *Engine) Tuning() Tuning { return e.tuning }

// Generate 生成一张 width×height（px）的海报场景。
// 输入为空白时返回只有背景与占位文字的场景；熵源不可用时返回 random.ErrEntropy。
func (e *Engine) Generate(text string, width, height float64) (_ *Scene, err error) {
	defer random.Guard(&err)

	scene := NewScene(Canvas{Width: width, Height: height, Background: White}, e.measurer)
	scene.ID = uuid.NewString()
	logger := e.logger.With("id", scene.ID)

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		t := AddText(scene, e.tuning.Padding, math.Round(height*0.45), e.tuning.Placeholder,
			placeholderSize, AnchorStart, placeholderWeight, nil)
		t.FontFamily = e.tuning.FontFamily
		logger.Debug("empty input, placeholder scene")
		return scene, nil
	}

	words := strings.Fields(trimmed)
	recipe := PickRecipe(e.rand, e.recipes, e.tuning.RecipeWeights)
	scene.Recipe = recipe.Name
	recipe.Compose(&Composition{
		Scene:  scene,
		Words:  words,
		Shapes: e.catalog,
		Width:  width,
		Height: height,
		Rand:   e.rand,
		Tuning: e.tuning,
	})

	rep := ResolveOverlaps(scene, e.rand, e.tuning.MaskAbove, e.tuning.InvertAbove)

	footer := e.footerText(trimmed, words, recipe.Name)
	ft := AddText(scene, e.tuning.Padding, math.Round(height-6), footer, footerSize, AnchorStart, footerWeight, nil)
	ft.FontFamily = e.tuning.FontFamily

	logger.Debug("poster generated",
		"recipe", recipe.Name,
		"words", len(words),
		"primitives", scene.Len(),
		"overlaps", rep.Pairs,
		"masked", rep.Masked,
		"invertText", rep.InvertText,
		"invertShape", rep.InvertShape,
	)
	return scene, nil
}

// footerText 用模板渲染页脚；可用变量：head（前两个单词）、text、words、recipe。
func (e *Engine) footerText(text string, words []string, recipe string) string {
	return e.footer.Execute(map[string]any{
		"head":   headline(words, 2),
		"text":   text,
		"words":  words,
		"recipe": recipe,
	})
}

// CanvasHeightMM 返回承载 text 所需的纸张高度（mm）。
func CanvasHeightMM(text string, p Paper) float64 {
	return p.HeightMM(text)
}
