// Package catalog 加载 .shapes 形状目录，并把解析结果转换为排版引擎使用的形状模板。
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/plakat/dsl"
	"github.com/ByLCY/plakat/layout"
)

//go:embed default.shapes
var defaultShapes string

// ErrDuplicate 表示目录中出现了重名的形状。
var ErrDuplicate = errors.New("catalog: 形状名称重复")

// Default 返回内置形状目录。
func Default() []layout.ShapeTemplate {
	tpls, err := LoadString(defaultShapes)
	if err != nil {
		panic(fmt.Sprintf("内置形状目录无效: %v", err))
	}
	return tpls
}

// Load 从 r 读取 .shapes 内容并转换为模板列表，顺序与声明顺序一致。
func Load(r io.Reader) ([]layout.ShapeTemplate, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析形状目录失败: %w", err)
	}
	return fromAST(doc)
}

// LoadString 与 Load 相同，输入为字符串。
func LoadString(src string) ([]layout.ShapeTemplate, error) {
	return Load(strings.NewReader(src))
}

func fromAST(doc *dsl.Catalog) ([]layout.ShapeTemplate, error) {
	seen := map[string]bool{}
	out := make([]layout.ShapeTemplate, 0, len(doc.Shapes))
	for _, sh := range doc.Shapes {
		if seen[sh.Name] {
			return nil, fmt.Errorf("%w: %s (line %d)", ErrDuplicate, sh.Name, sh.Pos.Line)
		}
		seen[sh.Name] = true

		tpl := layout.ShapeTemplate{Name: sh.Name}
		for _, el := range sh.Elements {
			e, err := toElement(el)
			if err != nil {
				return nil, fmt.Errorf("shape %s: %w", sh.Name, err)
			}
			tpl.Elements = append(tpl.Elements, e)
		}
		out = append(out, tpl)
	}
	return out, nil
}

func toElement(el *dsl.Element) (layout.ShapeElement, error) {
	d := strings.TrimSpace(string(el.Path))
	p, err := canvas.ParseSVGPath(d)
	if err != nil {
		return layout.ShapeElement{}, fmt.Errorf("line %d: 路径无效: %w", el.Pos.Line, err)
	}
	if p.Empty() {
		return layout.ShapeElement{}, fmt.Errorf("line %d: 路径为空", el.Pos.Line)
	}

	out := layout.ShapeElement{Path: d}
	if v, ok := el.Lookup("fill"); ok {
		if out.Fill, err = parsePaint(v); err != nil {
			return layout.ShapeElement{}, fmt.Errorf("line %d: fill: %w", el.Pos.Line, err)
		}
	}
	if v, ok := el.Lookup("stroke"); ok {
		if out.Stroke, err = parsePaint(v); err != nil {
			return layout.ShapeElement{}, fmt.Errorf("line %d: stroke: %w", el.Pos.Line, err)
		}
	}
	if v, ok := el.Lookup("width"); ok {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil || w < 0 {
			return layout.ShapeElement{}, fmt.Errorf("line %d: width 无效: %q", el.Pos.Line, v)
		}
		out.StrokeWidth = w
	}
	return out, nil
}

// parsePaint 解析 none、#rgb 或 #rrggbb。
func parsePaint(v string) (*layout.Color, error) {
	if v == "none" {
		return nil, nil
	}
	hex := strings.TrimPrefix(v, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, fmt.Errorf("颜色格式无效: %s", v)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("颜色格式无效: %s", v)
	}
	return &layout.Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}

// Names 返回模板名称列表。
func Names(tpls []layout.ShapeTemplate) []string {
	names := make([]string, len(tpls))
	for i, t := range tpls {
		names[i] = t.Name
	}
	return names
}
