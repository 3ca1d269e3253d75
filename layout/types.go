package layout

// 该文件定义海报场景中的图元、形状模板与包围盒，供排版、渲染与调试 JSON 共用。

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// 海报只使用黑白两色。
var (
	Black = Color{R: 0, G: 0, B: 0}
	White = Color{R: 255, G: 255, B: 255}
)

// Hex 返回 #rrggbb 形式的颜色字符串。
func (c Color) Hex() string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []int{c.R, c.G, c.B} {
		v = max(0, min(v, 255))
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0x0f]
	}
	return string(b)
}

// Point 是画布坐标系中的一个点（单位：px，y 轴向下）。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox 是测量得到的轴对齐矩形（单位：px）。
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center 返回包围盒中心。
func (b BoundingBox) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Intersect 计算两个包围盒的交集；面积不为正时返回 false。
func (b BoundingBox) Intersect(o BoundingBox) (BoundingBox, bool) {
	x1 := max(b.X, o.X)
	y1 := max(b.Y, o.Y)
	x2 := min(b.X+b.Width, o.X+o.Width)
	y2 := min(b.Y+b.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return BoundingBox{}, false
	}
	return BoundingBox{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}

// TextAnchor 对应 SVG 的 text-anchor。
type TextAnchor string

const (
	AnchorStart  TextAnchor = "start"
	AnchorMiddle TextAnchor = "middle"
)

// StyleMode 控制形状实例的着色方式。
type StyleMode string

const (
	StyleFilled   StyleMode = "filled"
	StyleOutlined StyleMode = "outlined"
)

// RectRole 区分画布背景与遮罩矩形。
type RectRole string

const (
	RoleBackground RectRole = "background"
	RoleMask       RectRole = "mask"
)

// DefaultFontFamily 是文本图元默认的字体族声明。
const DefaultFontFamily = "Helvetica, Arial, sans-serif"

// Primitive 是场景中可放置的单个元素。
type Primitive interface {
	// Kind 返回图元类型：text、shape 或 rect。
	Kind() string
	// Clone 返回一个完全独立的深拷贝。
	Clone() Primitive
}

// TextRun 表示一段单行文本。
type TextRun struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"` // 基线位置
	FontSize   float64    `json:"fontSize"`
	FontWeight int        `json:"fontWeight"`
	FontFamily string     `json:"fontFamily"`
	Anchor     TextAnchor `json:"anchor"`
	Fill       Color      `json:"fill"`
	Transform  Transform  `json:"transform,omitempty"`
}

func (t *TextRun) Kind() string { return "text" }

func (t *TextRun) Clone() Primitive {
	c := *t
	c.Transform = t.Transform.Clone()
	return &c
}

// ShapeElement 是形状模板中的一个子路径。
type ShapeElement struct {
	Path        string  `json:"path"` // SVG path data
	Fill        *Color  `json:"fill,omitempty"`   // 为空表示不填充
	Stroke      *Color  `json:"stroke,omitempty"` // 为空表示不描边
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

func (e ShapeElement) clone() ShapeElement {
	c := e
	if e.Fill != nil {
		f := *e.Fill
		c.Fill = &f
	}
	if e.Stroke != nil {
		s := *e.Stroke
		c.Stroke = &s
	}
	return c
}

// ShapeTemplate 是形状目录中的可复用矢量图形，坐标以原点为中心。
// 模板只读，放置时总是复制其元素。
type ShapeTemplate struct {
	Name     string         `json:"name"`
	Elements []ShapeElement `json:"elements"`
}

// ShapeInstance 是放置在场景中的形状副本。
type ShapeInstance struct {
	Template  string         `json:"template"`
	Center    Point          `json:"center"`
	Rotation  float64        `json:"rotation"`
	Scale     float64        `json:"scale"`
	Style     StyleMode      `json:"style"`
	Elements  []ShapeElement `json:"elements"`
	Transform Transform      `json:"transform"`
}

func (s *ShapeInstance) Kind() string { return "shape" }

func (s *ShapeInstance) Clone() Primitive {
	c := *s
	c.Elements = make([]ShapeElement, len(s.Elements))
	for i, e := range s.Elements {
		c.Elements[i] = e.clone()
	}
	c.Transform = s.Transform.Clone()
	return &c
}

// Rect 表示不带变换的填充矩形：画布背景或重叠遮罩。
type Rect struct {
	Role   RectRole `json:"role"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Fill   Color    `json:"fill"`
}

func (r *Rect) Kind() string { return "rect" }

func (r *Rect) Clone() Primitive {
	c := *r
	return &c
}

// Box 返回矩形自身的包围盒。
func (r *Rect) Box() BoundingBox {
	return BoundingBox{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Canvas 记录一次生成的画布尺寸（px）与背景色。
type Canvas struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background Color   `json:"background"`
}
