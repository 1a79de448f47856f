// 包 mapstyle：按掌握度与缩放推导每个国家的着色、描边与标签参数
package mapstyle

import (
	"fmt"
	"math"

	"global-atlas/internal/passport"
)

// 配色
const (
	ColorUnvisited = "#D6D3D1"
	ColorBronze    = "#B45309"
	ColorSilver    = "#BCC6CC"
	ColorGold      = "#EAB308"
	ColorHover     = "#A8A29E"
	ColorStroke    = "#A8A29E"
	ColorStrokeHot = "#78716C"
	ColorPressed   = "#78716C"
	ColorLabel     = "#44403C"
)

// FillColor：等级 → 填充色
func FillColor(t passport.Tier) string {
	switch t {
	case passport.TierGold:
		return ColorGold
	case passport.TierSilver:
		return ColorSilver
	case passport.TierBronze:
		return ColorBronze
	}
	return ColorUnvisited
}

// HoverFill：已访问保持本色，未访问时变深
func HoverFill(t passport.Tier) string {
	if t == passport.TierUnvisited || t == "" {
		return ColorHover
	}
	return FillColor(t)
}

// FontSize：标签字号，放大后字号下降得比缩放慢
// 约束：zoom 非正或非有限时按 1× 计算。
func FontSize(zoom float64) float64 {
	return math.Max(1.5, 24/math.Pow(safeZoom(zoom), 0.3))
}

// StrokeWidth / HoverStrokeWidth：屏幕上保持恒定线宽
func StrokeWidth(zoom float64) float64      { return 0.5 / safeZoom(zoom) }
func HoverStrokeWidth(zoom float64) float64 { return 1.5 / safeZoom(zoom) }

// Tooltip：悬停提示，带地区数；末尾空格保留
func Tooltip(name string, regions int) string {
	if regions > 0 {
		return fmt.Sprintf("%s (%d) ", name, regions)
	}
	return name + " "
}

func safeZoom(z float64) float64 {
	if math.IsNaN(z) || math.IsInf(z, 0) || z <= 0 {
		return 1
	}
	return z
}
