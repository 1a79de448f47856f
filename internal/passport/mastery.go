// 包 passport：访问记录存储、国家掌握度聚合与护照画廊
package passport

import (
	"sort"

	"global-atlas/internal/journal"
)

// Tier：国家掌握度等级
type Tier string

const (
	TierUnvisited Tier = "unvisited"
	TierBronze    Tier = "bronze"
	TierSilver    Tier = "silver"
	TierGold      Tier = "gold"
)

// TotalCountries：页眉计数的分母
const TotalCountries = 195

// TierFor：按不同地区数量推导等级
// 约束：地图着色与画廊徽章都只能调用此函数，不得各自实现阈值。
func TierFor(distinctRegions int) Tier {
	switch {
	case distinctRegions >= 3:
		return TierGold
	case distinctRegions == 2:
		return TierSilver
	case distinctRegions == 1:
		return TierBronze
	}
	return TierUnvisited
}

// CountryAggregate：某国家的派生统计（不落库）
type CountryAggregate struct {
	Regions   map[string]struct{}
	LastPhoto string
}

func (a CountryAggregate) Count() int { return len(a.Regions) }
func (a CountryAggregate) Tier() Tier { return TierFor(len(a.Regions)) }

// RegionList：地区集合的有序列表，便于序列化与比较
func (a CountryAggregate) RegionList() []string {
	out := make([]string, 0, len(a.Regions))
	for r := range a.Regions {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Aggregates：国家名 → 聚合结果
type Aggregates map[string]CountryAggregate

// Count：未访问国家返回 0
func (m Aggregates) Count(country string) int { return len(m[country].Regions) }

// TierOf：未访问国家返回 TierUnvisited
func (m Aggregates) TierOf(country string) Tier { return TierFor(m.Count(country)) }

// Aggregate：单次遍历构建各国家的不同地区集合
// 背景：records 为最近优先顺序；每个国家首次遇到的记录即最近追加的记录，其照片作为 LastPhoto（可能为空）。
// 约束：纯函数；地区按原文精确匹配，大小写敏感，不做归一化；地区集合与记录顺序无关。
func Aggregate(records []journal.VisitRecord) Aggregates {
	out := make(Aggregates)
	for _, r := range records {
		a, ok := out[r.Country]
		if !ok {
			a = CountryAggregate{Regions: make(map[string]struct{}), LastPhoto: r.Photo}
			out[r.Country] = a
		}
		a.Regions[r.Region] = struct{}{}
	}
	return out
}
