package layout

import (
	"math/rand/v2"

	"github.com/ByLCY/plakat/random"
)

// seeded 返回可复现的随机源。
func seeded(seed byte) *random.Source {
	return random.NewFromReader(rand.NewChaCha8([32]byte{seed}))
}

// scriptedRand 按顺序返回预设的 Float 值；Int 与 Range 总是返回下界。
type scriptedRand struct {
	floats []float64
	next   int
}

func (s *scriptedRand) Float() float64 {
	if s.next >= len(s.floats) {
		return 0
	}
	v := s.floats[s.next]
	s.next++
	return v
}

func (s *scriptedRand) Int(a, b int) int { return a }

func (s *scriptedRand) Range(a, b float64) float64 { return a }

// boxMeasurer 为指定图元返回固定包围盒，其余图元视为无法测量。
type boxMeasurer map[Primitive]BoundingBox

func (m boxMeasurer) MeasureText(t *TextRun) (BoundingBox, bool) {
	b, ok := m[t]
	return b, ok
}

func (m boxMeasurer) MeasureShape(s *ShapeInstance) (BoundingBox, bool) {
	b, ok := m[s]
	return b, ok
}

var squareTemplate = ShapeTemplate{
	Name:     "square",
	Elements: []ShapeElement{{Path: "M-50 -50 H50 V50 H-50 Z"}},
}
