package layout

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoHost 表示调用 Compose 时没有配置布局宿主。
var ErrNoHost = errors.New("layout: 缺少布局宿主 Host")

// Dimensions 是宿主调整纸张后报告的画布像素尺寸。
type Dimensions struct {
	WidthPx  float64 `json:"widthPx"`
	HeightPx float64 `json:"heightPx"`
}

// Host 是承载海报的物理介质。SetHeight 调整纸张高度（mm），待布局稳定后返回画布像素尺寸。
type Host interface {
	SetHeight(ctx context.Context, mm float64) (Dimensions, error)
}

// Compose 按文本长度计算纸张高度，等待宿主报告画布尺寸，然后生成场景。
// 宿主调用是唯一的等待点；生成一旦开始就不会被 ctx 中断。
func (e *Engine) Compose(ctx context.Context, text string) (*Scene, Dimensions, error) {
	if e.host == nil {
		return nil, Dimensions{}, ErrNoHost
	}
	mm := CanvasHeightMM(text, e.paper)
	dim, err := e.host.SetHeight(ctx, mm)
	if err != nil {
		return nil, Dimensions{}, fmt.Errorf("调整纸张高度失败: %w", err)
	}
	e.logger.Debug("paper resized", "heightMM", mm, "widthPx", dim.WidthPx, "heightPx", dim.HeightPx)
	scene, err := e.Generate(text, dim.WidthPx, dim.HeightPx)
	if err != nil {
		return nil, dim, err
	}
	return scene, dim, nil
}

// Paper 返回引擎使用的纸张参数。
func (e *Engine) Paper() Paper { return e.paper }
