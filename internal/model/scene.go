package model

// NodeKind 场景图元判别器
type NodeKind string

const (
	KindRect  NodeKind = "rect"
	KindArc   NodeKind = "arc"
	KindLine  NodeKind = "line"
	KindText  NodeKind = "text"
	KindGroup NodeKind = "group"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node 单个可绘制图元，坐标全部已解析，渲染器无需再做布局。
// ID 稳定，供渲染层按图元绑定 hover/click 事件。
type Node struct {
	Kind NodeKind `json:"kind"`
	ID   string   `json:"id,omitempty"`

	// rect
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// arc（环形楔块，角度为度，-90 为正上方，顺时针为正）
	CX          float64 `json:"cx,omitempty"`
	CY          float64 `json:"cy,omitempty"`
	InnerRadius float64 `json:"innerRadius,omitempty"`
	OuterRadius float64 `json:"outerRadius,omitempty"`
	StartAngle  float64 `json:"startAngle,omitempty"`
	EndAngle    float64 `json:"endAngle,omitempty"`
	Percent     int     `json:"percent,omitempty"`

	// line（折线，首点 move-to，其余 line-to）
	Points      []Point `json:"points,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`

	// text
	Content  string  `json:"content,omitempty"`
	Anchor   string  `json:"anchor,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`

	Fill   string `json:"fill,omitempty"`
	Stroke string `json:"stroke,omitempty"`
	Label  string `json:"label,omitempty"`

	Children []Node `json:"children,omitempty"`
}

// Scene 几何引擎的输出：有序图元列表。RequiredViewport 在场景自然尺寸
// 超出请求视口时给出（饼图+图例组合的动态高度），渲染器据此调整容器。
type Scene struct {
	Name             string    `json:"name"`
	Width            float64   `json:"width"`
	Height           float64   `json:"height"`
	RequiredViewport *Viewport `json:"requiredViewport,omitempty"`
	Empty            bool      `json:"empty,omitempty"`
	Nodes            []Node    `json:"nodes"`
}
