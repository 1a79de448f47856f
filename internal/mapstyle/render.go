package mapstyle

import (
	"time"

	"global-atlas/internal/atlas"
	"global-atlas/internal/metrics"
	"global-atlas/internal/passport"
	"global-atlas/internal/viewport"
)

// Label：标签锚点与样式；透明度为 0 的国家不输出标签
type Label struct {
	Text     string  `json:"text"`
	Lon      float64 `json:"lon"`
	Lat      float64 `json:"lat"`
	Opacity  float64 `json:"opacity"`
	FontSize float64 `json:"font_size"`
}

// FeatureStyle：单个国家的渲染参数
type FeatureStyle struct {
	Name             string        `json:"name"`
	Regions          int           `json:"regions"`
	Tier             passport.Tier `json:"tier"`
	Fill             string        `json:"fill"`
	HoverFill        string        `json:"hover_fill"`
	PressedFill      string        `json:"pressed_fill"`
	Stroke           string        `json:"stroke"`
	HoverStroke      string        `json:"hover_stroke"`
	StrokeWidth      float64       `json:"stroke_width"`
	HoverStrokeWidth float64       `json:"hover_stroke_width"`
	Tooltip          string        `json:"tooltip"`
	Label            *Label        `json:"label,omitempty"`
}

// Frame：一次渲染的全部输出
type Frame struct {
	Zoom     float64        `json:"zoom"`
	FontSize float64        `json:"font_size"`
	Features []FeatureStyle `json:"features"`
}

// 文档注释：按当前导航状态与聚合结果推导全部国家的渲染参数
// 约束：纯函数（除耗时指标外）；要素顺序与 atlas 加载顺序一致；a 为 nil 时返回空列表。
func Render(a *atlas.Atlas, aggs passport.Aggregates, s viewport.State, policy LabelPolicy) Frame {
	start := time.Now()
	defer func() {
		metrics.RenderDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	}()

	zoom := s.ZoomLevel()
	fs := FontSize(zoom)
	out := Frame{Zoom: zoom, FontSize: fs, Features: make([]FeatureStyle, 0, a.Len())}
	if a == nil {
		return out
	}
	for _, f := range a.Features {
		n := aggs.Count(f.Name)
		tier := passport.TierFor(n)
		st := FeatureStyle{
			Name:             f.Name,
			Regions:          n,
			Tier:             tier,
			Fill:             FillColor(tier),
			HoverFill:        HoverFill(tier),
			PressedFill:      ColorPressed,
			Stroke:           ColorStroke,
			HoverStroke:      ColorStrokeHot,
			StrokeWidth:      StrokeWidth(zoom),
			HoverStrokeWidth: HoverStrokeWidth(zoom),
			Tooltip:          Tooltip(f.Name, n),
		}
		if op := policy.Opacity(f.Name, f, zoom); op > 0 {
			st.Label = &Label{Text: f.Name, Lon: f.Centroid.Lon, Lat: f.Centroid.Lat, Opacity: op, FontSize: fs}
		}
		out.Features = append(out.Features, st)
	}
	return out
}
