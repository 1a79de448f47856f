package atlas

import (
	"time"

	"global-atlas/internal/cache"
	"global-atlas/internal/metrics"
	"global-atlas/internal/viewport"
)

const tapPrecision = 6

// Hit：点击命中结果；Country 为空表示落在海洋或地图之外
type Hit struct {
	Country string  `json:"country"`
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	OnMap   bool    `json:"on_map"`
}

// 文档注释：屏幕点击 → 国家名
// 背景：客户端只上报像素坐标；服务端用会话的投影反算经纬度，再做包围盒过滤与点入多边形判定。
// 约束：结果按 geohash(6) 缓存，未命中（海洋）同样缓存；并发安全。
type Resolver struct {
	atlas *Atlas
	cache *cache.LRU[string]
}

func NewResolver(a *Atlas, size int, ttl time.Duration) *Resolver {
	return &Resolver{atlas: a, cache: cache.NewLRU[string](size, ttl)}
}

// Atlas：底层要素集（可能为 nil）
func (r *Resolver) Atlas() *Atlas { return r.atlas }

// Tap：按投影反算后定位
func (r *Resolver) Tap(p viewport.Projection, x, y float64) Hit {
	lon, lat, ok := p.Inverse(x, y)
	if !ok {
		metrics.TapResolveTotal.WithLabelValues("off_map").Inc()
		return Hit{}
	}
	h := Hit{Lon: lon, Lat: lat, OnMap: true}
	h.Country = r.Locate(Point{Lon: lon, Lat: lat})
	return h
}

// Locate：经纬度 → 国家名（空串表示未命中）
func (r *Resolver) Locate(pt Point) string {
	key := encodeGeohash(pt.Lat, pt.Lon, tapPrecision)
	if name, ok := r.cache.Get(key); ok {
		metrics.TapResolveTotal.WithLabelValues("cache").Inc()
		return name
	}
	name := ""
	if r.atlas != nil {
		for _, f := range r.atlas.Features {
			if f.Name != "" && f.Contains(pt) {
				name = f.Name
				break
			}
		}
	}
	r.cache.Set(key, name)
	if name == "" {
		metrics.TapResolveTotal.WithLabelValues("miss").Inc()
	} else {
		metrics.TapResolveTotal.WithLabelValues("hit").Inc()
	}
	return name
}
