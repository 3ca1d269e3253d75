package server

import (
	"sync"
	"time"

	"github.com/ByLCY/plakat/layout"
	"github.com/ByLCY/plakat/schedule"
)

type session struct {
	id       string
	debounce *schedule.Debouncer

	mu         sync.RWMutex
	text       string // 最近一次输入
	textRev    int    // 每次输入加一
	rendered   string // 当前海报对应的文本
	renderRev  int    // 当前海报对应的输入版本
	recipe     string
	primitives int
	width      float64
	height     float64
	doc        []byte
	version    int
	lastErr    string
	updated    time.Time
}

// Status 是会话的 JSON 表示。
type Status struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Rendered   string    `json:"rendered"`
	Recipe     string    `json:"recipe,omitempty"`
	Primitives int       `json:"primitives"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Version    int       `json:"version"`
	Error      string    `json:"error,omitempty"`
	Updated    time.Time `json:"updated,omitzero"`
}

// setText 记录新输入并返回它的版本号。
func (s *session) setText(text string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.textRev++
	return s.textRev
}

func (s *session) currentText() (string, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text, s.textRev
}

// store 保存生成结果；rev 比当前海报对应的版本旧时丢弃并返回 false。
func (s *session) store(rev int, text string, scene *layout.Scene, doc []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rev < s.renderRev {
		return false
	}
	s.renderRev = rev
	s.rendered = text
	s.recipe = scene.Recipe
	s.primitives = scene.Len()
	s.width = scene.Canvas.Width
	s.height = scene.Canvas.Height
	s.doc = doc
	s.version++
	s.lastErr = ""
	s.updated = time.Now()
	return true
}

func (s *session) fail(rev int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rev < s.renderRev {
		return
	}
	s.lastErr = err.Error()
}

func (s *session) document() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

func (s *session) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		ID:         s.id,
		Text:       s.text,
		Rendered:   s.rendered,
		Recipe:     s.recipe,
		Primitives: s.primitives,
		Width:      s.width,
		Height:     s.height,
		Version:    s.version,
		Error:      s.lastErr,
		Updated:    s.updated,
	}
}
