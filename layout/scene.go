package layout

import (
	"encoding/json"
	"math"
)

// Scene 是有序的图元序列，顺序即绘制顺序（靠前的在下层）。
// 第一个元素始终是画布背景。
type Scene struct {
	Canvas Canvas
	ID     string // 生成编号，仅用于日志与调试
	Recipe string // 选中的配方；占位场景为空

	items    []Primitive
	members  map[Primitive]struct{}
	measurer Measurer
}

// NewScene 创建只包含背景矩形的新场景。measurer 可以为空，此时所有测量都视为不可用。
func NewScene(c Canvas, measurer Measurer) *Scene {
	s := &Scene{
		Canvas:   c,
		members:  map[Primitive]struct{}{},
		measurer: measurer,
	}
	s.Append(&Rect{Role: RoleBackground, Width: c.Width, Height: c.Height, Fill: c.Background})
	return s
}

// Append 把图元追加到最上层。
func (s *Scene) Append(p Primitive) Primitive {
	s.items = append(s.items, p)
	s.members[p] = struct{}{}
	return p
}

// InsertBehind 把图元插到背景之后、其他所有图元之前。
func (s *Scene) InsertBehind(p Primitive) Primitive {
	if len(s.items) == 0 {
		return s.Append(p)
	}
	s.items = append(s.items, nil)
	copy(s.items[2:], s.items[1:])
	s.items[1] = p
	s.members[p] = struct{}{}
	return p
}

// SendToBack 把已在场景中的图元移动到背景之后的最底层。
func (s *Scene) SendToBack(p Primitive) {
	for i := 1; i < len(s.items); i++ {
		if s.items[i] != p {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		s.InsertBehind(p)
		return
	}
}

// Len 返回图元数量（包含背景）。
func (s *Scene) Len() int { return len(s.items) }

// Primitives 返回按绘制顺序排列的图元切片副本。
func (s *Scene) Primitives() []Primitive {
	out := make([]Primitive, len(s.items))
	copy(out, s.items)
	return out
}

// Contains 判断图元是否已经加入场景。
func (s *Scene) Contains(p Primitive) bool {
	_, ok := s.members[p]
	return ok
}

// Background 返回背景矩形。
func (s *Scene) Background() *Rect {
	if len(s.items) == 0 {
		return nil
	}
	r, _ := s.items[0].(*Rect)
	return r
}

// Texts 返回场景中的所有文本图元。
func (s *Scene) Texts() []*TextRun {
	var out []*TextRun
	for _, p := range s.items {
		if t, ok := p.(*TextRun); ok {
			out = append(out, t)
		}
	}
	return out
}

// Shapes 返回场景中的所有顶层形状实例。
func (s *Scene) Shapes() []*ShapeInstance {
	var out []*ShapeInstance
	for _, p := range s.items {
		if sh, ok := p.(*ShapeInstance); ok {
			out = append(out, sh)
		}
	}
	return out
}

// Measure 返回图元的包围盒。图元不在场景中或测量器不可用时返回 false。
func (s *Scene) Measure(p Primitive) (BoundingBox, bool) {
	if p == nil || !s.Contains(p) {
		return BoundingBox{}, false
	}
	var (
		box BoundingBox
		ok  bool
	)
	switch v := p.(type) {
	case *Rect:
		return v.Box(), true
	case *TextRun:
		if s.measurer == nil {
			return BoundingBox{}, false
		}
		box, ok = s.measurer.MeasureText(v)
	case *ShapeInstance:
		if s.measurer == nil {
			return BoundingBox{}, false
		}
		box, ok = s.measurer.MeasureShape(v)
	}
	if !ok || !validBox(box) {
		return BoundingBox{}, false
	}
	return box, true
}

func validBox(b BoundingBox) bool {
	for _, v := range []float64{b.X, b.Y, b.Width, b.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.Width >= 0 && b.Height >= 0
}

type primitiveJSON struct {
	Kind string    `json:"kind"`
	Data Primitive `json:"data"`
}

// MarshalJSON 输出画布与带类型标记的图元列表，便于调试。
func (s *Scene) MarshalJSON() ([]byte, error) {
	items := make([]primitiveJSON, 0, len(s.items))
	for _, p := range s.items {
		items = append(items, primitiveJSON{Kind: p.Kind(), Data: p})
	}
	return json.Marshal(struct {
		ID         string          `json:"id,omitempty"`
		Recipe     string          `json:"recipe,omitempty"`
		Canvas     Canvas          `json:"canvas"`
		Primitives []primitiveJSON `json:"primitives"`
	}{ID: s.ID, Recipe: s.Recipe, Canvas: s.Canvas, Primitives: items})
}
