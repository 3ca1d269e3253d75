package layout

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ByLCY/plakat/random"
)

// Composition 是配方执行时可用的全部上下文。
type Composition struct {
	Scene  *Scene
	Words  []string
	Shapes []ShapeTemplate
	Width  float64
	Height float64
	Rand   random.Rand
	Tuning Tuning
}

// Recipe 是一种自包含的构图策略，只对场景产生副作用。
type Recipe struct {
	Name    string
	Compose func(c *Composition)
}

// Recipes 返回内置的四种配方，顺序固定。
func Recipes() []Recipe {
	return []Recipe{
		{Name: RecipeVerticalStack, Compose: verticalStack},
		{Name: RecipeMassShape, Compose: massShape},
		{Name: RecipeMultiplyColumn, Compose: multiplyColumn},
		{Name: RecipeGridRhythm, Compose: gridRhythm},
	}
}

// PickRecipe 按调参中的权重抽取配方；权重全部无效时退回第一个配方。
func PickRecipe(r random.Rand, recipes []Recipe, weights map[string]float64) Recipe {
	ws := make([]float64, len(recipes))
	for i, rc := range recipes {
		ws[i] = weights[rc.Name]
	}
	idx := random.Weighted(r, ws)
	if idx < 0 {
		return recipes[0]
	}
	return recipes[idx]
}

func (c *Composition) text(x, y float64, content string, size float64, anchor TextAnchor, weight int, extra Transform) *TextRun {
	t := AddText(c.Scene, x, y, content, size, anchor, weight, extra)
	t.FontFamily = c.Tuning.FontFamily
	return t
}

func (c *Composition) distort(p Primitive) Distortion {
	return ApplyDistortion(c.Scene, c.Rand, p, c.Tuning.Limits())
}

func (c *Composition) pickShape() (ShapeTemplate, bool) {
	if len(c.Shapes) == 0 {
		return ShapeTemplate{}, false
	}
	return random.Pick(c.Rand, c.Shapes), true
}

func (c *Composition) pickRotation(options ...float64) float64 {
	return random.Pick(c.Rand, options)
}

// rotatedAt 在锚点处旋转；角度为 0 时不产生变换。
func rotatedAt(deg float64, x, y float64) Transform {
	if deg == 0 {
		return nil
	}
	return Transform{RotateAbout(deg, Point{X: x, Y: y})}
}

func headline(words []string, n int) string {
	return strings.Join(words[:min(n, len(words))], " ")
}

// verticalStack：最多四个单词左对齐纵向堆叠，字号逐行缩小；背后一个大形状；底部小字重复形成节奏。
func verticalStack(c *Composition) {
	pad := c.Tuning.Padding
	headMax := math.Round(c.Height * 0.30)
	headMin := math.Round(c.Height * 0.12)
	lines := c.Words[:min(4, len(c.Words))]
	y := math.Round(c.Height * 0.16)

	for i, word := range lines {
		fi := float64(i)
		size := math.Round(c.Rand.Range(headMax*(1-fi*0.1), headMax*(0.9-fi*0.05)))
		t := c.text(pad, y, word, size, AnchorStart, 900, nil)
		FitToWidth(c.Scene, t, c.Width-pad*2, true)
		c.distort(t)
		if c.Rand.Float() > 0.4 {
			DuplicateWithAlternation(c.Scene, t, c.Rand.Int(1, 4), math.Round(size*0.03+4))
		}
		y += math.Round(size * c.Rand.Range(0.86, 1.05))
	}

	if len(c.Shapes) > 0 && c.Rand.Float() > 0.2 {
		tpl, _ := c.pickShape()
		scale := c.Rand.Range(0.7, 1.4)
		cx := math.Round(c.Width * c.Rand.Range(0.55, 0.9))
		cy := math.Round(c.Height * c.Rand.Range(0.2, 0.45))
		rot := c.pickRotation(0, 90, 270)
		mode := StyleFilled
		if scale > 0.9 {
			mode = StyleOutlined
		}
		g := PlaceShape(c.Scene, tpl, Point{X: cx, Y: cy}, scale, rot, mode)
		c.Scene.SendToBack(g)
	}

	if len(c.Words) > 1 && c.Rand.Float() > 0.3 {
		rep := c.Words[0]
		sizeSmall := math.Round(math.Max(8, headMin*0.20))
		yy := math.Round(c.Height * 0.7)
		count := c.Rand.Int(3, 8)
		for i := 0; i < count; i++ {
			x := pad + float64(c.Rand.Int(0, 6))
			ly := yy + float64(i)*math.Round(sizeSmall*1.2)
			rot := c.pickRotation(0, 90)
			t := c.text(x, ly, rep, sizeSmall, AnchorStart, 700, rotatedAt(rot, x, ly))
			if c.Rand.Float() > 0.5 {
				DuplicateWithAlternation(c.Scene, t, c.Rand.Int(1, 3), 4)
			}
		}
	}
}

// massShape：大形状作为骨架，居中标题偏向纵向拉伸，下方若干缩小的重复标题，右侧零散小形状。
func massShape(c *Composition) {
	pad := c.Tuning.Padding
	if tpl, ok := c.pickShape(); ok {
		scale := c.Rand.Range(1.0, 1.8)
		cx := math.Round(c.Width * c.Rand.Range(0.35, 0.65))
		cy := math.Round(c.Height * c.Rand.Range(0.3, 0.55))
		rot := c.pickRotation(0, 90, 270)
		g := PlaceShape(c.Scene, tpl, Point{X: cx, Y: cy}, scale, rot, StyleFilled)
		c.Scene.SendToBack(g)
	}

	head := headline(c.Words, 2)
	size := math.Round(c.Height * c.Rand.Range(0.18, 0.32))
	cxText := math.Round(c.Width / 2)
	cyText := math.Round(c.Height * c.Rand.Range(0.38, 0.5))
	main := c.text(cxText, cyText, head, size, AnchorMiddle, 900, nil)
	FitToWidth(c.Scene, main, c.Width-pad*2, false)
	if c.Rand.Float() > 0.4 {
		c.distort(main)
	}

	dupCount := c.Rand.Int(1, 4)
	for i := 0; i < dupCount; i++ {
		cyText += math.Round(size * c.Rand.Range(0.24, 0.5))
		dupSize := math.Round(size * c.Rand.Range(0.2, 0.34))
		dup := c.text(cxText+math.Round(size*0.02*float64(i)), cyText, head, dupSize, AnchorMiddle, 700, nil)
		if c.Rand.Float() > 0.3 {
			DuplicateWithAlternation(c.Scene, dup, c.Rand.Int(1, 3), 5)
		}
	}

	shapeCount := c.Rand.Int(1, 4)
	for i := 0; i < shapeCount; i++ {
		tpl, ok := c.pickShape()
		if !ok {
			break
		}
		sc := c.Rand.Range(0.08, 0.6)
		px := math.Round(c.Width - pad - c.Rand.Range(10, 40))
		py := math.Round(c.Height * c.Rand.Range(0.12, 0.88))
		rot := c.pickRotation(0, 0, 90)
		PlaceShape(c.Scene, tpl, Point{X: px, Y: py}, sc, rot, StyleFilled)
	}
}

// multiplyColumn：首个单词铺满整列，行间大小写交替；右侧可选一条旋转 90° 的长句；散落小形状作纹理。
func multiplyColumn(c *Composition) {
	pad := c.Tuning.Padding
	word := c.Words[0]
	upper := cases.Upper(language.Und).String(word)
	lower := cases.Lower(language.Und).String(word)
	repeat := max(6, int(math.Floor(c.Height/40)))
	sizeMain := math.Round(c.Height * c.Rand.Range(0.06, 0.14))
	y := math.Round(c.Height * 0.06)
	for i := 0; i < repeat; i++ {
		x := pad + math.Round(c.Rand.Range(0, 4))
		rot := c.pickRotation(0, 0, 90, 270, 0)
		content := upper
		if i%2 == 1 {
			content = lower
		}
		t := c.text(x, y, content, sizeMain, AnchorStart, 800, rotatedAt(rot, x, y))
		FitToWidth(c.Scene, t, c.Width-pad*2, true)
		if c.Rand.Float() > 0.7 {
			c.distort(t)
		}
		if c.Rand.Float() > 0.6 {
			DuplicateWithAlternation(c.Scene, t, c.Rand.Int(1, 4), math.Round(sizeMain*0.04+3))
		}
		y += math.Round(sizeMain * c.Rand.Range(0.7, 1.35))
	}

	if len(c.Words) > 1 && c.Rand.Float() > 0.3 {
		side := strings.Join(c.Words[1:], " ")
		sizeSide := math.Round(c.Height * c.Rand.Range(0.12, 0.22))
		x := math.Round(c.Width - pad/2)
		yMid := math.Round(c.Height * 0.5)
		t := c.text(x, yMid, side, sizeSide, AnchorMiddle, 900, rotatedAt(90, x, yMid))
		FitToHeight(c.Scene, t, c.Height*0.9, true)
	}

	many := c.Rand.Int(2, 6)
	for i := 0; i < many; i++ {
		tpl, ok := c.pickShape()
		if !ok {
			break
		}
		sc := c.Rand.Range(0.06, 0.3)
		cx := math.Round(c.Rand.Range(pad, c.Width-pad))
		cy := math.Round(c.Rand.Range(pad, c.Height-pad))
		rot := c.pickRotation(0, 0, 90, 270)
		PlaceShape(c.Scene, tpl, Point{X: cx, Y: cy}, sc, rot, StyleFilled)
	}
}

// gridRhythm：左侧约 55% 宽度内的强标题，右侧 2 列 × 3–7 行网格，每格随机放小形状或小字。
func gridRhythm(c *Composition) {
	pad := c.Tuning.Padding
	phrase := headline(c.Words, 3)
	size := math.Round(c.Height * c.Rand.Range(0.16, 0.26))
	y := math.Round(c.Height * c.Rand.Range(0.28, 0.42))
	main := c.text(pad, y, phrase, size, AnchorStart, 900, nil)
	FitToWidth(c.Scene, main, math.Round(c.Width*0.55)-pad, true)
	if c.Rand.Float() > 0.4 {
		c.distort(main)
	}

	const cols = 2
	rows := c.Rand.Int(3, 7)
	gap := math.Round((c.Width - c.Width*0.55 - pad*2) / cols)
	startX := math.Round(c.Width * 0.55)
	top := math.Round(c.Height * 0.12)
	rowStep := math.Round(size * 0.5)
	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			px := startX + float64(col)*gap + float64(c.Rand.Int(-6, 6))
			py := top + float64(r)*rowStep + float64(c.Rand.Int(-6, 6))
			if c.Rand.Float() > 0.5 && len(c.Shapes) > 0 {
				tpl, _ := c.pickShape()
				sc := c.Rand.Range(0.06, 0.36)
				rot := c.pickRotation(0, 0, 90)
				mode := StyleFilled
				if sc > 0.5 {
					mode = StyleOutlined
				}
				PlaceShape(c.Scene, tpl, Point{X: px, Y: py}, sc, rot, mode)
				continue
			}
			small := c.Words[c.Rand.Int(0, len(c.Words)-1)]
			rot := c.pickRotation(0, 90)
			t := c.text(px, py, small, math.Round(size*0.18), AnchorStart, 700, rotatedAt(rot, px, py))
			if c.Rand.Float() > 0.5 {
				DuplicateWithAlternation(c.Scene, t, c.Rand.Int(1, 3), 3)
			}
		}
	}
}
