package layout

import (
	"github.com/charmbracelet/log"

	"github.com/ByLCY/plakat/random"
)

// Options 配置排版阶段所需的依赖：测量后端、形状目录、随机源与调参。
type Options struct {
	Measurer Measurer
	Catalog  []ShapeTemplate
	Rand     random.Rand
	Tuning   Tuning      // 零值字段使用 DefaultTuning 中的值
	Logger   *log.Logger // 可为空

	// Host 与 Paper 只在 Engine.Compose 中使用。
	Host  Host
	Paper Paper
}

// Measurer 负责测量已加入场景的图元在画布坐标下的包围盒（包含图元自身的变换）。
// 返回 ok=false 表示暂时无法测量，调用方需要跳过依赖尺寸的逻辑。
type Measurer interface {
	MeasureText(t *TextRun) (BoundingBox, bool)
	MeasureShape(s *ShapeInstance) (BoundingBox, bool)
}

// 配方名称。
const (
	RecipeVerticalStack  = "vertical-stack"
	RecipeMassShape      = "mass-shape"
	RecipeMultiplyColumn = "multiply-column"
	RecipeGridRhythm     = "grid-rhythm"
)

// Tuning 收拢所有经验调参常量，可以由 TOML 配置覆盖。
type Tuning struct {
	Padding float64 `toml:"padding" json:"padding"` // 画布内边距（px）

	// 变形：NoDistortion 概率直接跳过；其余按 SubtleBelow/StrongBelow 分档。
	NoDistortion float64 `toml:"no_distortion" json:"noDistortion"`
	SubtleBelow  float64 `toml:"subtle_below" json:"subtleBelow"`
	StrongBelow  float64 `toml:"strong_below" json:"strongBelow"`
	MaxScaleY    float64 `toml:"max_scale_y" json:"maxScaleY"`
	MinScaleX    float64 `toml:"min_scale_x" json:"minScaleX"`
	MaxSkew      float64 `toml:"max_skew" json:"maxSkew"`

	// 重叠处理：roll > MaskAbove 加白色遮罩；roll > InvertAbove 文本反白；否则形状擦白。
	MaskAbove   float64 `toml:"mask_above" json:"maskAbove"`
	InvertAbove float64 `toml:"invert_above" json:"invertAbove"`

	// RecipeWeights 以配方名称为键的抽取权重。
	RecipeWeights map[string]float64 `toml:"recipe_weights" json:"recipeWeights"`

	Placeholder    string `toml:"placeholder" json:"placeholder"`
	FooterTemplate string `toml:"footer_template" json:"footerTemplate"`
	FontFamily     string `toml:"font_family" json:"fontFamily"`
}

// DefaultTuning 返回默认参数。
func DefaultTuning() Tuning {
	return Tuning{
		Padding:      16,
		NoDistortion: 0.45,
		SubtleBelow:  0.6,
		StrongBelow:  0.9,
		MaxScaleY:    3.5,
		MinScaleX:    0.25,
		MaxSkew:      18,
		MaskAbove:    0.66,
		InvertAbove:  0.33,
		RecipeWeights: map[string]float64{
			RecipeVerticalStack:  2,
			RecipeMassShape:      2,
			RecipeMultiplyColumn: 1,
			RecipeGridRhythm:     1,
		},
		Placeholder:    "type something...",
		FooterTemplate: "${head}",
		FontFamily:     DefaultFontFamily,
	}
}

// withDefaults 对零值字段回填默认值。
// 变形三个概率字段全为零视为未设置；想要"总是变形"时需显式给出 SubtleBelow。
func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.Padding == 0 && t.RecipeWeights == nil {
		return d
	}
	if t.Padding <= 0 {
		t.Padding = d.Padding
	}
	if t.NoDistortion == 0 && t.SubtleBelow == 0 && t.StrongBelow == 0 {
		t.NoDistortion = d.NoDistortion
	}
	if t.NoDistortion < 0 || t.NoDistortion > 1 {
		t.NoDistortion = d.NoDistortion
	}
	if t.SubtleBelow <= 0 {
		t.SubtleBelow = d.SubtleBelow
	}
	if t.StrongBelow <= t.SubtleBelow {
		t.StrongBelow = max(d.StrongBelow, t.SubtleBelow)
	}
	if t.MaxScaleY <= 0 {
		t.MaxScaleY = d.MaxScaleY
	}
	if t.MinScaleX <= 0 {
		t.MinScaleX = d.MinScaleX
	}
	if t.MaxSkew <= 0 {
		t.MaxSkew = d.MaxSkew
	}
	if t.MaskAbove <= 0 {
		t.MaskAbove = d.MaskAbove
	}
	if t.InvertAbove <= 0 || t.InvertAbove > t.MaskAbove {
		t.InvertAbove = min(d.InvertAbove, t.MaskAbove)
	}
	if len(t.RecipeWeights) == 0 {
		t.RecipeWeights = d.RecipeWeights
	}
	if t.Placeholder == "" {
		t.Placeholder = d.Placeholder
	}
	if t.FooterTemplate == "" {
		t.FooterTemplate = d.FooterTemplate
	}
	if t.FontFamily == "" {
		t.FontFamily = d.FontFamily
	}
	return t
}
