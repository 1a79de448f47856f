package mapstyle

import (
	"errors"
	"fmt"
	"math"

	"global-atlas/internal/atlas"
)

var ErrNonMonotonic = errors.New("mapstyle: label buckets not monotonic")

// MajorCountries：低缩放即显示标签的大国
var MajorCountries = []string{
	"United States of America", "Russia", "Canada", "China", "Brazil",
	"Australia", "India",
}

// Bucket：面积大于 MinArea 的国家在缩放大于 MinZoom 时以 Opacity 显示
type Bucket struct {
	MinArea float64 `json:"min_area"`
	MinZoom float64 `json:"min_zoom"`
	Opacity float64 `json:"opacity"`
}

// 文档注释：标签显示策略
// 背景：小国标签在低缩放下彼此重叠，按球面面积分档设定缩放门槛。
// 约束：Buckets 按 MinArea 严格递减且 MinZoom 严格递增；Tail 兜底最小的国家，门槛高于最后一档。
type LabelPolicy struct {
	major     map[string]struct{}
	MajorZoom float64
	MajorLow  float64
	MajorHigh float64
	Buckets   []Bucket
	Tail      Bucket
}

// DefaultPolicy：地图默认的分档
func DefaultPolicy() LabelPolicy {
	p, err := NewPolicy(MajorCountries, []Bucket{
		{MinArea: 0.05, MinZoom: 2, Opacity: 0.8},
		{MinArea: 0.005, MinZoom: 3, Opacity: 0.8},
		{MinArea: 0.001, MinZoom: 4, Opacity: 0.9},
		{MinArea: 0.0002, MinZoom: 5, Opacity: 0.9},
	}, Bucket{MinZoom: 6, Opacity: 1})
	if err != nil {
		panic(err)
	}
	return p
}

// NewPolicy：校验并构建策略
func NewPolicy(major []string, buckets []Bucket, tail Bucket) (LabelPolicy, error) {
	for i, b := range buckets {
		if b.Opacity < 0 || b.Opacity > 1 {
			return LabelPolicy{}, fmt.Errorf("bucket %d opacity %v: %w", i, b.Opacity, ErrNonMonotonic)
		}
		if i == 0 {
			continue
		}
		prev := buckets[i-1]
		if !(b.MinArea < prev.MinArea) || !(b.MinZoom > prev.MinZoom) {
			return LabelPolicy{}, fmt.Errorf("bucket %d after %d: %w", i, i-1, ErrNonMonotonic)
		}
	}
	if n := len(buckets); n > 0 && !(tail.MinZoom > buckets[n-1].MinZoom) {
		return LabelPolicy{}, fmt.Errorf("tail zoom %v: %w", tail.MinZoom, ErrNonMonotonic)
	}
	p := LabelPolicy{
		major:     make(map[string]struct{}, len(major)),
		MajorZoom: 2,
		MajorLow:  0.6,
		MajorHigh: 0.8,
		Buckets:   append([]Bucket(nil), buckets...),
		Tail:      tail,
	}
	for _, m := range major {
		p.major[m] = struct{}{}
	}
	return p, nil
}

// IsMajor：是否在大国名单内
func (p LabelPolicy) IsMajor(name string) bool {
	_, ok := p.major[name]
	return ok
}

// Opacity：标签透明度，0 表示不显示
// 约束：名称为空、无几何、面积为 NaN 或计算中发生 panic 一律返回 0；大国名单优先于几何检查。
func (p LabelPolicy) Opacity(name string, f *atlas.Feature, zoom float64) (op float64) {
	defer func() {
		if recover() != nil {
			op = 0
		}
	}()
	if name == "" {
		return 0
	}
	if p.IsMajor(name) {
		if zoom < p.MajorZoom {
			return p.MajorLow
		}
		return p.MajorHigh
	}
	if !f.HasGeometry() || math.IsNaN(f.Area) {
		return 0
	}
	for _, b := range p.Buckets {
		if f.Area > b.MinArea {
			return gate(zoom, b)
		}
	}
	return gate(zoom, p.Tail)
}

func gate(zoom float64, b Bucket) float64 {
	if zoom > b.MinZoom {
		return b.Opacity
	}
	return 0
}
