package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// debugDump 是调试输出：场景本身，加上每个图元的包围盒与按种类的计数。
type debugDump struct {
	Scene  *Scene         `json:"scene"`
	Counts map[string]int `json:"counts"`
	Boxes  []*BoundingBox `json:"boxes"` // 与 scene.primitives 一一对应，无法测量时为 null
}

// EncodeDebug 以缩进 JSON 写出场景调试信息。
func EncodeDebug(w io.Writer, s *Scene) error {
	if s == nil {
		return fmt.Errorf("场景为空")
	}
	dump := debugDump{Scene: s, Counts: map[string]int{}}
	for _, p := range s.Primitives() {
		dump.Counts[p.Kind()]++
		if box, ok := s.Measure(p); ok {
			dump.Boxes = append(dump.Boxes, &box)
		} else {
			dump.Boxes = append(dump.Boxes, nil)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

// WriteDebugJSON 把 EncodeDebug 的结果写入 path。
func WriteDebugJSON(s *Scene, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return EncodeDebug(f, s)
}
