package viewport

import "fmt"

// 事件类型（与浏览器事件名一致）
const (
	EventPointerDown = "pointerdown"
	EventPointerMove = "pointermove"
	EventPointerUp   = "pointerup"
	EventTouchStart  = "touchstart"
	EventTouchMove   = "touchmove"
	EventTouchEnd    = "touchend"
	EventWheel       = "wheel"
	EventZoom        = "zoom"
	EventResize      = "resize"
)

// Event：客户端上报的单个输入事件
type Event struct {
	Type      string  `json:"type"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	Touches   []Point `json:"touches,omitempty"`
	DeltaY    float64 `json:"delta_y,omitempty"`
	Direction string  `json:"direction,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
}

// Apply：分派事件到状态机
// 返回：事件处理结果；未知事件类型返回错误。
func (c *Controller) Apply(e Event) (Outcome, error) {
	switch e.Type {
	case EventPointerDown:
		return c.PointerDown(Point{X: e.X, Y: e.Y}), nil
	case EventPointerMove:
		return c.PointerMove(Point{X: e.X, Y: e.Y}), nil
	case EventPointerUp:
		return c.PointerUp(), nil
	case EventTouchStart:
		return c.TouchStart(e.Touches), nil
	case EventTouchMove:
		return c.TouchMove(e.Touches), nil
	case EventTouchEnd:
		return c.TouchEnd(), nil
	case EventWheel:
		return c.Wheel(e.DeltaY), nil
	case EventZoom:
		switch e.Direction {
		case "in":
			return c.ZoomIn(), nil
		case "out":
			return c.ZoomOut(), nil
		}
		return Rejected, fmt.Errorf("zoom direction %q", e.Direction)
	case EventResize:
		return c.Resize(e.Width, e.Height), nil
	}
	return Rejected, fmt.Errorf("unknown event type %q", e.Type)
}
