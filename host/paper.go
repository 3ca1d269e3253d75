// Package host 实现海报的物理介质：可变高度的纸张以及打印输出。
package host

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ByLCY/plakat/layout"
)

// ErrInvalidHeight 表示请求的纸张高度不是正数。
var ErrInvalidHeight = errors.New("host: 纸张高度无效")

// Paper 是定宽、可变高的纸张。尺寸以整数像素报告。
type Paper struct {
	medium layout.Paper
	settle time.Duration

	mu   sync.Mutex
	dims layout.Dimensions
}

var _ layout.Host = (*Paper)(nil)

// NewPaper 创建纸张，初始高度为最小高度。
func NewPaper(medium layout.Paper) *Paper {
	p := &Paper{medium: medium}
	p.dims = p.measure(medium.MinHeightMM)
	return p
}

// WithSettle 设置每次调整后等待布局稳定的时间。
func (p *Paper) WithSettle(d time.Duration) *Paper {
	p.settle = d
	return p
}

// SetHeight 把纸张高度调整为 mm（不低于最小高度），等待布局稳定后返回像素尺寸。
func (p *Paper) SetHeight(ctx context.Context, mm float64) (layout.Dimensions, error) {
	if err := ctx.Err(); err != nil {
		return layout.Dimensions{}, err
	}
	if math.IsNaN(mm) || math.IsInf(mm, 0) || mm <= 0 {
		return layout.Dimensions{}, fmt.Errorf("%w: %g", ErrInvalidHeight, mm)
	}
	mm = math.Max(mm, p.medium.MinHeightMM)

	if p.settle > 0 {
		t := time.NewTimer(p.settle)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return layout.Dimensions{}, ctx.Err()
		case <-t.C:
		}
	}

	dims := p.measure(mm)
	p.mu.Lock()
	p.dims = dims
	p.mu.Unlock()
	return dims, nil
}

// Dimensions 返回最近一次调整后的尺寸。
func (p *Paper) Dimensions() layout.Dimensions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dims
}

// Medium 返回纸张参数。
func (p *Paper) Medium() layout.Paper { return p.medium }

func (p *Paper) measure(heightMM float64) layout.Dimensions {
	return layout.Dimensions{
		WidthPx:  math.Round(p.medium.ToPX(p.medium.WidthMM)),
		HeightPx: math.Round(p.medium.ToPX(heightMM)),
	}
}
