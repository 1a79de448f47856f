package atlas

import (
	"errors"
	"fmt"
	"math"
	"os"

	geojson "github.com/paulmach/go.geojson"
)

var ErrNoFeatures = errors.New("atlas: no features")

// 文档注释：从 GeoJSON 文件加载国家要素
// 背景：边界数据来自 Natural Earth/world-atlas 导出的 FeatureCollection，国家名取 properties.name。
// 约束：文件不存在或解析失败返回错误；集合为空返回 ErrNoFeatures。
func Load(path string) (*Atlas, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read atlas: %w", err)
	}
	return Parse(b)
}

// Parse：解析 FeatureCollection 字节并计算面积、质心与包围盒
func Parse(data []byte) (*Atlas, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse atlas: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, ErrNoFeatures
	}
	features := make([]*Feature, 0, len(fc.Features))
	for _, gf := range fc.Features {
		if gf == nil {
			continue
		}
		f := &Feature{Area: math.NaN()}
		if name, ok := gf.Properties["name"].(string); ok {
			f.Name = name
		}
		f.Polys = polygonsOf(gf.Geometry)
		if f.HasGeometry() {
			f.Area = Area(f.Polys)
			f.Centroid = Centroid(f.Polys)
			f.BBox = unionBBox(f.Polys)
		}
		features = append(features, f)
	}
	if len(features) == 0 {
		return nil, ErrNoFeatures
	}
	return newAtlas(features), nil
}

func polygonsOf(g *geojson.Geometry) []Polygon {
	if g == nil {
		return nil
	}
	switch {
	case g.IsPolygon():
		if p, ok := toPolygon(g.Polygon); ok {
			return []Polygon{p}
		}
	case g.IsMultiPolygon():
		var out []Polygon
		for _, part := range g.MultiPolygon {
			if p, ok := toPolygon(part); ok {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

func toPolygon(rings [][][]float64) (Polygon, bool) {
	var poly Polygon
	for _, ring := range rings {
		rr := make([]Point, 0, len(ring))
		for _, c := range ring {
			if len(c) >= 2 {
				rr = append(rr, Point{Lon: c[0], Lat: c[1]})
			}
		}
		poly.Rings = append(poly.Rings, rr)
	}
	if len(poly.Rings) == 0 || len(poly.Rings[0]) < 3 {
		return Polygon{}, false
	}
	poly.BBox = computeBBox(poly)
	return poly, true
}

func computeBBox(p Polygon) [4]float64 {
	b := [4]float64{180, 90, -180, -90}
	for _, r := range p.Rings {
		for _, pt := range r {
			b[0] = math.Min(b[0], pt.Lon)
			b[1] = math.Min(b[1], pt.Lat)
			b[2] = math.Max(b[2], pt.Lon)
			b[3] = math.Max(b[3], pt.Lat)
		}
	}
	return b
}

func unionBBox(polys []Polygon) [4]float64 {
	b := [4]float64{180, 90, -180, -90}
	for _, p := range polys {
		b[0] = math.Min(b[0], p.BBox[0])
		b[1] = math.Min(b[1], p.BBox[1])
		b[2] = math.Max(b[2], p.BBox[2])
		b[3] = math.Max(b[3], p.BBox[3])
	}
	return b
}
