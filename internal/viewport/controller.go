package viewport

import "math"

// Mode：手势状态
type Mode int

const (
	Idle Mode = iota
	Panning
	Pinching
)

func (m Mode) String() string {
	switch m {
	case Panning:
		return "panning"
	case Pinching:
		return "pinching"
	}
	return "idle"
}

// Outcome：单个输入事件的处理结果
type Outcome string

const (
	Applied  Outcome = "applied"
	Ignored  Outcome = "ignored"
	Rejected Outcome = "rejected"
)

// Point：屏幕坐标（像素）
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) finite() bool { return finite(p.X) && finite(p.Y) }

// Controller：手势状态机 {Idle, Panning, Pinching}，将指针/触摸/滚轮输入转换为导航状态
// 背景：平移使用逐事件增量（相对上一位置），捏合缩放使用逐事件比例（相对上一距离），每一步单独钳制。
// 约束：事件必须按到达顺序调用；非有限数值输入被拒绝且不改变任何内部字段；不是并发安全的，调用方负责串行化。
type Controller struct {
	state    State
	mode     Mode
	last     Point
	lastDist float64
	width    float64
	height   float64
}

// NewController：按视口尺寸初始化
func NewController(width, height float64) *Controller {
	c := &Controller{}
	if finite(width) && finite(height) && width > 0 && height > 0 {
		c.width, c.height = width, height
	} else {
		c.width, c.height = 800, 600
	}
	c.state = Initial(c.width)
	return c
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Mode() Mode   { return c.mode }

// Size：当前视口尺寸
func (c *Controller) Size() (float64, float64) { return c.width, c.height }

// Restore：以外部保存的状态覆盖当前状态；非法状态被拒绝
func (c *Controller) Restore(s State) Outcome {
	if !s.Valid() {
		return Rejected
	}
	c.state = s
	return Applied
}

// PointerDown：鼠标按下，进入平移
func (c *Controller) PointerDown(p Point) Outcome {
	if !p.finite() {
		return Rejected
	}
	c.mode = Panning
	c.last = p
	return Applied
}

// PointerMove：平移中按增量更新；非平移状态忽略
func (c *Controller) PointerMove(p Point) Outcome {
	if c.mode != Panning {
		return Ignored
	}
	return c.panTo(p)
}

// PointerUp：结束平移
func (c *Controller) PointerUp() Outcome {
	if c.mode == Idle {
		return Ignored
	}
	c.mode = Idle
	return Applied
}

// TouchStart：单指进入平移，双指进入捏合（覆盖已有的平移）
func (c *Controller) TouchStart(touches []Point) Outcome {
	switch len(touches) {
	case 1:
		return c.PointerDown(touches[0])
	case 2:
		d, ok := distance(touches[0], touches[1])
		if !ok {
			return Rejected
		}
		c.mode = Pinching
		c.lastDist = d
		return Applied
	}
	return Ignored
}

// TouchMove：双指按距离比例缩放，单指按增量平移
// 约束：上一距离为 0 时只记录新距离，不缩放（避免除零）。
func (c *Controller) TouchMove(touches []Point) Outcome {
	switch {
	case len(touches) == 2 && c.mode == Pinching:
		d, ok := distance(touches[0], touches[1])
		if !ok {
			return Rejected
		}
		if c.lastDist <= 0 {
			c.lastDist = d
			return Ignored
		}
		next, ok := c.state.Zoom(d / c.lastDist)
		if !ok {
			return Rejected
		}
		c.state = next
		c.lastDist = d
		return Applied
	case len(touches) == 1 && c.mode == Panning:
		return c.panTo(touches[0])
	}
	return Ignored
}

// TouchEnd：任一手指抬起即回到空闲，平移与捏合数据同时清空
func (c *Controller) TouchEnd() Outcome {
	c.mode = Idle
	c.lastDist = 0
	return Applied
}

// Wheel：固定比例缩放，与滚轮原始幅度无关；deltaY < 0 放大，其余缩小
func (c *Controller) Wheel(deltaY float64) Outcome {
	if !finite(deltaY) {
		return Rejected
	}
	m := WheelOut
	if -deltaY > 0 {
		m = WheelIn
	}
	return c.zoom(m)
}

// ZoomIn / ZoomOut：按钮缩放
func (c *Controller) ZoomIn() Outcome  { return c.zoom(ButtonIn) }
func (c *Controller) ZoomOut() Outcome { return c.zoom(ButtonOut) }

// Resize：视口尺寸变化（不改变导航状态）
func (c *Controller) Resize(width, height float64) Outcome {
	if !finite(width) || !finite(height) || width <= 0 || height <= 0 {
		return Rejected
	}
	c.width, c.height = width, height
	return Applied
}

// Projection：当前状态与尺寸对应的墨卡托投影
func (c *Controller) Projection() Projection {
	return Projection{
		Rotation:       c.state.Rotation,
		CenterLatitude: c.state.CenterLatitude,
		Scale:          c.state.Scale,
		Width:          c.width,
		Height:         c.height,
	}
}

func (c *Controller) zoom(factor float64) Outcome {
	next, ok := c.state.Zoom(factor)
	if !ok {
		return Rejected
	}
	c.state = next
	return Applied
}

func (c *Controller) panTo(p Point) Outcome {
	if !p.finite() {
		return Rejected
	}
	next, ok := c.state.Pan(p.X-c.last.X, p.Y-c.last.Y)
	if !ok {
		return Rejected
	}
	c.state = next
	c.last = p
	return Applied
}

func distance(a, b Point) (float64, bool) {
	if !a.finite() || !b.finite() {
		return 0, false
	}
	d := math.Hypot(a.X-b.X, a.Y-b.Y)
	return d, finite(d)
}
