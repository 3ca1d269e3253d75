package host

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ByLCY/plakat/layout"
)

func TestPaperSetHeight(t *testing.T) {
	p := NewPaper(layout.DefaultPaper())
	if got := p.Dimensions(); got.WidthPx != 302 || got.HeightPx != 567 {
		t.Fatalf("初始尺寸应为 302×567，实际 %+v", got)
	}

	dims, err := p.SetHeight(context.Background(), 254)
	if err != nil {
		t.Fatalf("SetHeight 失败: %v", err)
	}
	if dims.WidthPx != 302 || dims.HeightPx != 960 {
		t.Fatalf("254mm 应为 960px，实际 %+v", dims)
	}
	if p.Dimensions() != dims {
		t.Fatalf("Dimensions 应返回最近一次结果")
	}

	// 低于最小高度时按最小高度处理
	dims, err = p.SetHeight(context.Background(), 10)
	if err != nil || dims.HeightPx != 567 {
		t.Fatalf("低于最小高度应被抬高，实际 %+v, %v", dims, err)
	}
}

func TestPaperSetHeightErrors(t *testing.T) {
	p := NewPaper(layout.DefaultPaper())
	for _, mm := range []float64{0, -3} {
		if _, err := p.SetHeight(context.Background(), mm); !errors.Is(err, ErrInvalidHeight) {
			t.Fatalf("%g 应返回 ErrInvalidHeight，实际 %v", mm, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.SetHeight(ctx, 200); !errors.Is(err, context.Canceled) {
		t.Fatalf("已取消的 ctx 应返回 context.Canceled，实际 %v", err)
	}

	slow := NewPaper(layout.DefaultPaper()).WithSettle(time.Second)
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := slow.SetHeight(ctx, 200); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("等待布局时应响应超时，实际 %v", err)
	}
}

func TestPrinterSpools(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "spool")
	p := NewPrinter(dir, nil)
	doc := []byte("%PDF-1.7 test")
	p.Print(context.Background(), doc)
	p.Print(context.Background(), nil) // 空文档忽略
	p.Wait()

	files := p.Spooled()
	if len(files) != 1 {
		t.Fatalf("应写入 1 个文件，实际 %v", files)
	}
	if !strings.HasSuffix(files[0], ".pdf") || !strings.HasPrefix(filepath.Base(files[0]), "plakat-") {
		t.Fatalf("文件名不符合预期: %s", files[0])
	}
	got, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("读取打印文件失败: %v", err)
	}
	if !bytes.Equal(got, doc) {
		t.Fatalf("打印内容不一致")
	}
}

func TestPrinterCancelled(t *testing.T) {
	dir := t.TempDir()
	p := NewPrinter(dir, nil).WithExt(".png")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Print(ctx, []byte("x"))
	p.Wait()
	if len(p.Spooled()) != 0 {
		t.Fatalf("已取消的打印不应写入文件")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("目录应为空，实际 %d 个文件", len(entries))
	}
}
