package atlas

import "math"

const radians = math.Pi / 180

// 文档注释：球面面积（球面度，单位球）
// 背景：与 d3 geoArea 相同的逐边球面三角形累加；要素面积决定小国标签的显示门槛。
// 约束：环绕向不一致时结果可能是补集（4π − a），单个多边形超过半球即按补集折回。
func Area(polys []Polygon) float64 {
	total := 0.0
	for _, p := range polys {
		sum := 0.0
		for _, ring := range p.Rings {
			sum += ringArea(ring)
		}
		if sum < 0 {
			sum += 2 * math.Pi
		}
		a := 2 * sum
		if a > 2*math.Pi {
			a = 4*math.Pi - a
		}
		total += a
	}
	return total
}

func ringArea(ring []Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	sum := 0.0
	lambda0 := ring[0].Lon * radians
	phi0 := ring[0].Lat*radians/2 + math.Pi/4
	cosPhi0, sinPhi0 := math.Cos(phi0), math.Sin(phi0)
	step := func(pt Point) {
		lambda := pt.Lon * radians
		phi := pt.Lat*radians/2 + math.Pi/4
		dLambda := lambda - lambda0
		sd := 1.0
		if dLambda < 0 {
			sd = -1
		}
		ad := sd * dLambda
		cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)
		k := sinPhi0 * sinPhi
		u := cosPhi0*cosPhi + k*math.Cos(ad)
		v := k * sd * math.Sin(ad)
		sum += math.Atan2(v, u)
		lambda0, cosPhi0, sinPhi0 = lambda, cosPhi, sinPhi
	}
	for _, pt := range ring[1:] {
		step(pt)
	}
	// 闭合回首点
	step(ring[0])
	return sum
}

// Centroid：面积最大部分外环的球面质心（边长加权），用于标签锚点
func Centroid(polys []Polygon) Point {
	best, bestArea := -1, -1.0
	for i, p := range polys {
		if a := Area([]Polygon{p}); a > bestArea {
			best, bestArea = i, a
		}
	}
	if best < 0 || len(polys[best].Rings) == 0 {
		return Point{}
	}
	ring := polys[best].Rings[0]
	var x, y, z float64
	for i := range ring {
		a := toVec(ring[i])
		b := toVec(ring[(i+1)%len(ring)])
		cx := a[1]*b[2] - a[2]*b[1]
		cy := a[2]*b[0] - a[0]*b[2]
		cz := a[0]*b[1] - a[1]*b[0]
		w := math.Atan2(math.Sqrt(cx*cx+cy*cy+cz*cz), a[0]*b[0]+a[1]*b[1]+a[2]*b[2])
		x += w * (a[0] + b[0]) / 2
		y += w * (a[1] + b[1]) / 2
		z += w * (a[2] + b[2]) / 2
	}
	if x == 0 && y == 0 && z == 0 {
		return ring[0]
	}
	return Point{
		Lon: math.Atan2(y, x) / radians,
		Lat: math.Atan2(z, math.Hypot(x, y)) / radians,
	}
}

func toVec(p Point) [3]float64 {
	lambda, phi := p.Lon*radians, p.Lat*radians
	c := math.Cos(phi)
	return [3]float64{c * math.Cos(lambda), c * math.Sin(lambda), math.Sin(phi)}
}

// 文档注释：点入多边形判定（Even-Odd）
// 约束：外环命中且不在任一洞内视为命中；边界上的点结果不保证稳定。
func pointInPoly(pt Point, poly Polygon) bool {
	if len(poly.Rings) == 0 || !pointInRing(pt, poly.Rings[0]) {
		return false
	}
	for _, hole := range poly.Rings[1:] {
		if pointInRing(pt, hole) {
			return false
		}
	}
	return true
}

// 射线法判定点是否在环内
func pointInRing(pt Point, ring []Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat
		if (yi > pt.Lat) != (yj > pt.Lat) && pt.Lon < (xj-xi)*(pt.Lat-yi)/(yj-yi+1e-12)+xi {
			inside = !inside
		}
	}
	return inside
}

// 快速包围盒过滤
func inBBox(pt Point, b [4]float64) bool {
	return pt.Lon >= b[0] && pt.Lon <= b[2] && pt.Lat >= b[1] && pt.Lat <= b[3]
}

// Contains：点是否落在要素任一多边形内
func (f *Feature) Contains(pt Point) bool {
	if !f.HasGeometry() || !inBBox(pt, f.BBox) {
		return false
	}
	for _, p := range f.Polys {
		if inBBox(pt, p.BBox) && pointInPoly(pt, p) {
			return true
		}
	}
	return false
}
