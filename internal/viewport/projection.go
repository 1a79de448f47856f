package viewport

import "math"

// Projection：由导航状态配置的墨卡托投影
// 背景：等价于 rotate=[Rotation,0,0]、center=[0,CenterLatitude]、scale=Scale、translate=视口中心。
// 约束：经度在旋转后回绕到 [-180, 180)；纬度输入应在 (-90, 90) 内。
type Projection struct {
	Rotation       float64
	CenterLatitude float64
	Scale          float64
	Width          float64
	Height         float64
}

// Forward：经纬度（度）→ 屏幕像素
func (p Projection) Forward(lon, lat float64) (float64, float64) {
	lambda := wrapLon(lon+p.Rotation) * math.Pi / 180
	x := p.Width/2 + p.Scale*lambda
	y := p.Height/2 - p.Scale*(mercatorY(lat)-mercatorY(p.CenterLatitude))
	return x, y
}

// Inverse：屏幕像素 → 经纬度（度）
// 返回：ok=false 表示点落在地图水平范围之外或输入非法。
func (p Projection) Inverse(x, y float64) (lon, lat float64, ok bool) {
	if !finite(x) || !finite(y) || p.Scale <= 0 {
		return 0, 0, false
	}
	rotated := (x - p.Width/2) / p.Scale * 180 / math.Pi
	if rotated < -180 || rotated > 180 {
		return 0, 0, false
	}
	m := (p.Height/2-y)/p.Scale + mercatorY(p.CenterLatitude)
	lat = (2*math.Atan(math.Exp(m)) - math.Pi/2) * 180 / math.Pi
	lon = wrapLon(rotated - p.Rotation)
	return lon, lat, finite(lat)
}

func mercatorY(latDeg float64) float64 {
	phi := latDeg * math.Pi / 180
	return math.Log(math.Tan(math.Pi/4 + phi/2))
}

func wrapLon(lon float64) float64 {
	l := math.Mod(lon+180, 360)
	if l < 0 {
		l += 360
	}
	return l - 180
}

// Legend：地图角落的提示与缩放读数
type Legend struct {
	Hint string `json:"hint"`
	Zoom string `json:"zoom"`
}

// LegendFor：窄屏提示捏合，宽屏提示滚轮
func LegendFor(width float64, s State) Legend {
	hint := "Scroll to zoom • Drag to pan"
	if width < MobileWidth {
		hint = "Pinch to zoom • Drag to pan"
	}
	return Legend{Hint: hint, Zoom: s.ZoomLabel()}
}
