// 包 viewport：地图导航状态（水平旋转、垂直中心、缩放）与手势状态机
package viewport

import (
	"fmt"
	"math"
)

// 导航边界与常量
const (
	MinScale       = 100.0
	MaxScale       = 4000.0
	MinLatitude    = -80.0
	MaxLatitude    = 80.0
	ReferenceScale = 160.0
	MobileScale    = 140.0
	MobileWidth    = 768.0
	PanFactor      = 75.0
	WheelIn        = 1.05
	WheelOut       = 0.95
	ButtonIn       = 1.5
	ButtonOut      = 0.66
)

// State：导航状态
// 约束：每次更新后 CenterLatitude ∈ [-80, 80]、Scale ∈ [100, 4000]；Rotation 不做限制，由投影自然回绕。
type State struct {
	Rotation       float64 `json:"rotation"`
	CenterLatitude float64 `json:"center_latitude"`
	Scale          float64 `json:"scale"`
}

// Initial：初始状态；窄屏（宽度 < 768）使用较小缩放
func Initial(width float64) State {
	s := State{Scale: ReferenceScale}
	if width > 0 && width < MobileWidth {
		s.Scale = MobileScale
	}
	return s
}

// ZoomLevel：以 160 为 1× 的缩放倍数
func (s State) ZoomLevel() float64 { return s.Scale / ReferenceScale }

// ZoomLabel：界面角标文本，如 "1.0x"
func (s State) ZoomLabel() string { return fmt.Sprintf("%.1fx", s.ZoomLevel()) }

// Zoom：乘以 factor 后立即钳制
// 返回：新状态与是否接受；factor 或结果为 NaN/Inf 时拒绝并保留原状态。
func (s State) Zoom(factor float64) (State, bool) {
	if !finite(factor) {
		return s, false
	}
	next := clamp(s.Scale*factor, MinScale, MaxScale)
	if !finite(next) {
		return s, false
	}
	s.Scale = next
	return s, true
}

// Pan：按屏幕位移平移；灵敏度 75/scale，放大后平移变慢
func (s State) Pan(dx, dy float64) (State, bool) {
	if !finite(dx) || !finite(dy) {
		return s, false
	}
	k := PanFactor / s.Scale
	rot := s.Rotation + dx*k
	lat := clamp(s.CenterLatitude+dy*k, MinLatitude, MaxLatitude)
	if !finite(rot) || !finite(lat) {
		return s, false
	}
	s.Rotation = rot
	s.CenterLatitude = lat
	return s, true
}

// Valid：状态是否满足全部边界约束
func (s State) Valid() bool {
	return finite(s.Rotation) && finite(s.CenterLatitude) && finite(s.Scale) &&
		s.CenterLatitude >= MinLatitude && s.CenterLatitude <= MaxLatitude &&
		s.Scale >= MinScale && s.Scale <= MaxScale
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
