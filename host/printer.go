package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Printer 把文档异步写入打印队列目录，调用方不等待结果。
type Printer struct {
	dir    string
	ext    string
	logger *log.Logger

	wg sync.WaitGroup
	mu sync.Mutex
	// 已写入的文件路径，按完成顺序
	spooled []string
}

// NewPrinter 创建写入 dir 的打印机。logger 可为空。
func NewPrinter(dir string, logger *log.Logger) *Printer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Printer{dir: dir, ext: ".pdf", logger: logger}
}

// WithExt 设置输出文件扩展名，例如 ".png"。
func (p *Printer) WithExt(ext string) *Printer {
	p.ext = ext
	return p
}

// Print 触发一次打印后立即返回。写入失败只记录日志。
func (p *Printer) Print(ctx context.Context, doc []byte) {
	if len(doc) == 0 {
		return
	}
	buf := append([]byte(nil), doc...)
	name := fmt.Sprintf("plakat-%s-%s%s", time.Now().Format("20060102-150405"), uuid.NewString()[:8], p.ext)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if ctx.Err() != nil {
			p.logger.Warn("print cancelled", "file", name)
			return
		}
		path, err := p.spool(name, buf)
		if err != nil {
			p.logger.Error("print failed", "err", err)
			return
		}
		p.mu.Lock()
		p.spooled = append(p.spooled, path)
		p.mu.Unlock()
		p.logger.Info("spooled", "file", path, "bytes", len(buf))
	}()
}

func (p *Printer) spool(name string, doc []byte) (string, error) {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("创建打印目录失败: %w", err)
	}
	path := filepath.Join(p.dir, name)
	tmp := path + ".part"
	if err := os.WriteFile(tmp, doc, 0o644); err != nil {
		return "", fmt.Errorf("写入打印文件失败: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("提交打印文件失败: %w", err)
	}
	return path, nil
}

// Wait 等待所有已触发的打印任务结束。
func (p *Printer) Wait() { p.wg.Wait() }

// Spooled 返回已写入的文件路径。
func (p *Printer) Spooled() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.spooled...)
}
