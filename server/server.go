// Package server 提供浏览器预览用的 HTTP 接口：每个会话输入文本，防抖后重新生成海报。
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ByLCY/plakat/layout"
	"github.com/ByLCY/plakat/renderer"
	"github.com/ByLCY/plakat/schedule"
)

const maxTextBytes = 4 << 10

var errNotFound = errors.New("会话不存在")

// Options 配置预览服务。
type Options struct {
	Debounce time.Duration
	Logger   *log.Logger
}

// Server 持有共享的排版引擎与渲染器。所有会话的生成串行执行。
type Server struct {
	engine   *layout.Engine
	renderer renderer.Renderer
	window   time.Duration
	logger   *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	genMu sync.Mutex // 同一时刻只有一次生成

	mu       sync.Mutex
	sessions map[string]*session
}

// New 创建服务。engine 需要配置 Host，以便按文本长度调整纸张。
func New(engine *layout.Engine, r renderer.Renderer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		engine:   engine,
		renderer: r,
		window:   opts.Debounce,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		sessions: map[string]*session{},
	}
}

// Routes 返回 chi 路由。
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/render", s.handleRender)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleStatus)
			r.Delete("/", s.handleDelete)
			r.Put("/text", s.handleText)
			r.Post("/regenerate", s.handleRegenerate)
			r.Get("/poster", s.handlePoster)
		})
	})
	return r
}

// Close 停止所有会话中尚未执行的生成任务。
func (s *Server) Close() {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.debounce.Stop()
		delete(s.sessions, id)
	}
}

// generate 生成并渲染一张海报。
func (s *Server) generate(ctx context.Context, text string) (*layout.Scene, []byte, error) {
	s.genMu.Lock()
	defer s.genMu.Unlock()

	scene, _, err := s.engine.Compose(ctx, text)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.renderer.Render(scene)
	if err != nil {
		return nil, nil, fmt.Errorf("渲染失败: %w", err)
	}
	return scene, doc, nil
}

func (s *Server) lookup(r *http.Request) (*session, error) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNotFound, id)
	}
	return sess, nil
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess := &session{
		id:       uuid.NewString(),
		debounce: schedule.New(s.window),
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.logger.Info("session created", "session", sess.id)
	writeJSON(w, http.StatusCreated, sess.status())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.status())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	sess.debounce.Stop()
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// handleText 更新会话文本，并在防抖窗口后重新生成。
func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTextBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	text := string(body)
	rev := sess.setText(text)
	sess.debounce.Trigger(func() { s.regenerate(sess, text, rev) })
	writeJSON(w, http.StatusAccepted, sess.status())
}

// handleRegenerate 立即用当前文本重新生成。
// 与防抖任务并发时，基于旧输入的结果不会覆盖较新的海报。
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	text, rev := sess.currentText()
	s.regenerate(sess, text, rev)
	writeJSON(w, http.StatusOK, sess.status())
}

func (s *Server) regenerate(sess *session, text string, rev int) {
	start := time.Now()
	scene, doc, err := s.generate(s.ctx, text)
	if err != nil {
		s.logger.Error("generation failed", "session", sess.id, "err", err)
		sess.fail(rev, err)
		return
	}
	if !sess.store(rev, text, scene, doc) {
		s.logger.Debug("stale poster dropped", "session", sess.id, "rev", rev)
		return
	}
	s.logger.Debug("poster ready",
		"session", sess.id,
		"recipe", scene.Recipe,
		"primitives", scene.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond))
}

func (s *Server) handlePoster(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	doc := sess.document()
	if doc == nil {
		writeError(w, http.StatusNotFound, errors.New("海报尚未生成"))
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(doc)
}

// handleRender 不创建会话，直接生成一次。
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if len(text) > maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge, errors.New("文本过长"))
		return
	}
	scene, doc, err := s.generate(r.Context(), text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.Header().Set("X-Plakat-Recipe", scene.Recipe)
	w.Header().Set("X-Plakat-Id", scene.ID)
	_, _ = w.Write(doc)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": strings.TrimSpace(err.Error())})
}

func requestLogger(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			l.Debug("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"elapsed", time.Since(start).Round(time.Microsecond),
				"req", middleware.GetReqID(r.Context()))
		})
	}
}
