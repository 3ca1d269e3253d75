package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	tsvg "github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/plakat/layout"
	"github.com/ByLCY/plakat/renderer"
)

// Format 是输出文件格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat 解析格式名称（忽略大小写）。
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatPNG, FormatSVG:
		return f, nil
	case "":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("不支持的输出格式: %s", s)
	}
}

var transparent = color.RGBA{0, 0, 0, 0}

// Renderer draws poster scenes via github.com/tdewolff/canvas.
// 场景单位为 px，输出文档单位为 mm（按 96 DPI 换算）。
type Renderer struct {
	format  Format
	dpmm    float64
	title   string
	metrics *Metrics
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	Format Format
	// DPMM 是 PNG 的分辨率（像素/毫米）；为 0 时与场景 px 一一对应。
	DPMM float64
	// FontPath 可选，替换内置字体。
	FontPath string
	// Title 写入 PDF 元数据。
	Title string
	// Metrics 可与排版阶段共享；为空时按 FontPath 新建。
	Metrics *Metrics
}

// NewRenderer creates a canvas-based renderer.
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{
		format:  opts.Format,
		dpmm:    opts.DPMM,
		title:   opts.Title,
		metrics: opts.Metrics,
	}
	if r.format == "" {
		r.format = FormatPDF
	}
	if r.dpmm <= 0 {
		r.dpmm = layout.MmToPx
	}
	if r.metrics == nil {
		r.metrics = NewMetrics(opts.FontPath)
	}
	return r
}

// Metrics 返回渲染器使用的字体测量器，排版阶段应使用同一个实例保证尺寸一致。
func (r *Renderer) Metrics() *Metrics { return r.metrics }

// ContentType 实现 renderer.Renderer。
func (r *Renderer) ContentType() string {
	switch r.format {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "application/pdf"
	}
}

// Render renders the scene into the configured format.
func (r *Renderer) Render(scene *layout.Scene) ([]byte, error) {
	if scene == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	wMM := scene.Canvas.Width * layout.PxToMm
	hMM := scene.Canvas.Height * layout.PxToMm
	if wMM <= 0 || hMM <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %gx%g", scene.Canvas.Width, scene.Canvas.Height)
	}

	c := canvas.New(wMM, hMM)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与场景保持左上角为原点
	if err := r.drawScene(ctx, scene); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch r.format {
	case FormatPNG:
		img := rasterizer.Draw(c, canvas.DPMM(r.dpmm), canvas.DefaultColorSpace)
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	case FormatSVG:
		writer := tsvg.New(&buf, wMM, hMM, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	default:
		writer := pdf.New(&buf, wMM, hMM, nil)
		writer.SetInfo(r.title, "", scene.Recipe, "", "plakat")
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawScene(ctx *canvas.Context, scene *layout.Scene) error {
	base := canvas.Identity.Scale(layout.PxToMm, layout.PxToMm)
	for _, p := range scene.Primitives() {
		switch v := p.(type) {
		case *layout.Rect:
			ctx.SetView(base)
			r.drawRect(ctx, v)
		case *layout.TextRun:
			ctx.SetView(base.Mul(v.Transform.Matrix()))
			if err := r.drawText(ctx, v); err != nil {
				return err
			}
		case *layout.ShapeInstance:
			ctx.SetView(base.Mul(v.Transform.Matrix()))
			if err := r.drawShape(ctx, v); err != nil {
				return err
			}
		}
	}
	ctx.ResetView()
	return nil
}

func (r *Renderer) drawRect(ctx *canvas.Context, rc *layout.Rect) {
	if rc.Width <= 0 || rc.Height <= 0 {
		return
	}
	ctx.SetFillColor(colorFromLayout(rc.Fill))
	ctx.SetStrokeColor(transparent)
	ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
}

func (r *Renderer) drawText(ctx *canvas.Context, t *layout.TextRun) error {
	if t.Content == "" || t.FontSize <= 0 {
		return nil
	}
	face, err := r.metrics.Face(t.FontWeight, t.FontSize, t.Fill)
	if err != nil {
		return err
	}
	align := canvas.Left
	if t.Anchor == layout.AnchorMiddle {
		align = canvas.Center
	}
	// TextRun.Y 是基线，NewTextLine 同样以基线为原点。
	ctx.DrawText(t.X, t.Y, canvas.NewTextLine(face, t.Content, align))
	return nil
}

func (r *Renderer) drawShape(ctx *canvas.Context, s *layout.ShapeInstance) error {
	for _, el := range s.Elements {
		p, err := canvas.ParseSVGPath(el.Path)
		if err != nil {
			return fmt.Errorf("形状 %s 路径无效: %w", s.Template, err)
		}
		if el.Fill != nil {
			ctx.SetFillColor(colorFromLayout(*el.Fill))
		} else {
			ctx.SetFillColor(transparent)
		}
		if el.Stroke != nil {
			width := el.StrokeWidth
			if width <= 0 {
				width = 1
			}
			ctx.SetStrokeColor(colorFromLayout(*el.Stroke))
			ctx.SetStrokeWidth(width)
		} else {
			ctx.SetStrokeColor(transparent)
		}
		ctx.DrawPath(0, 0, p)
	}
	return nil
}
