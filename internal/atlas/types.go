// 包 atlas：国家边界要素源、球面几何与屏幕点击命中
package atlas

// 文档注释：国家要素的最小数据结构
// 背景：地图着色、标签透明度与点击命中共用同一份只读要素集，加载一次常驻内存。
// 约束：几何仅支持 GeoJSON 的 Polygon/MultiPolygon；第一环为外环，其余为洞；其它几何类型保留要素但 Polys 为 nil。
type Feature struct {
	Name     string
	Polys    []Polygon
	Area     float64 // 球面面积（球面度）；无几何时为 NaN
	Centroid Point
	BBox     [4]float64 // minLon, minLat, maxLon, maxLat
}

// HasGeometry：是否有可用于判定与面积计算的多边形
func (f *Feature) HasGeometry() bool { return f != nil && len(f.Polys) > 0 }

// Polygon：按 GeoJSON 约定的环集合
type Polygon struct {
	Rings [][]Point
	BBox  [4]float64
}

// 点坐标（WGS84，度）
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Atlas：加载结果快照，只读共享
type Atlas struct {
	Features []*Feature
	byName   map[string]*Feature
}

// Lookup：按国家名查找（同名时取文件中第一个）
func (a *Atlas) Lookup(name string) (*Feature, bool) {
	if a == nil {
		return nil, false
	}
	f, ok := a.byName[name]
	return f, ok
}

func (a *Atlas) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Features)
}

func newAtlas(features []*Feature) *Atlas {
	a := &Atlas{Features: features, byName: make(map[string]*Feature, len(features))}
	for _, f := range features {
		if f.Name == "" {
			continue
		}
		if _, dup := a.byName[f.Name]; !dup {
			a.byName[f.Name] = f
		}
	}
	return a
}
