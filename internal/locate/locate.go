// 包 locate：按访问者 IP 推荐日志的默认国家与地区
package locate

import (
	"net"
	"strings"

	"global-atlas/internal/metrics"
)

// Suggestion：推荐结果；Country 为空表示无法推荐
type Suggestion struct {
	IP      string `json:"ip"`
	Country string `json:"country"`
	Region  string `json:"region"`
	Source  string `json:"source"`
}

// Source：单一离线库查询
type Source interface {
	Name() string
	Lookup(ip net.IP) (Suggestion, bool)
}

// 文档注释：按顺序查询多个离线库，首个命中即返回
// 背景：MaxMind 城市库给出英文国家名，可直接匹配地图要素；ip2region 作为兜底。
// 约束：nil 来源被忽略；无来源或全部未命中时返回只含 IP 的空推荐。
type Chain struct {
	list []Source
}

func NewChain(list ...Source) *Chain {
	c := &Chain{}
	for _, s := range list {
		if s != nil {
			c.list = append(c.list, s)
		}
	}
	return c
}

// Len：有效来源数
func (c *Chain) Len() int { return len(c.list) }

// Suggest：解析 IP 并逐个查询
func (c *Chain) Suggest(ip string) Suggestion {
	ip = strings.TrimSpace(ip)
	out := Suggestion{IP: ip}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		metrics.LocateLookupsTotal.WithLabelValues("invalid").Inc()
		return out
	}
	for _, s := range c.list {
		if sg, ok := s.Lookup(parsed); ok && sg.Country != "" {
			sg.IP = ip
			sg.Source = s.Name()
			sg.Country = canonicalCountry(sg.Country)
			metrics.LocateLookupsTotal.WithLabelValues(sg.Source).Inc()
			return sg
		}
	}
	metrics.LocateLookupsTotal.WithLabelValues("none").Inc()
	return out
}

// 离线库国家名 → 地图要素名
var countryAliases = map[string]string{
	"United States": "United States of America",
	"美国":            "United States of America",
	"中国":            "China",
	"日本":            "Japan",
	"俄罗斯":           "Russia",
	"巴西":            "Brazil",
	"加拿大":           "Canada",
	"澳大利亚":          "Australia",
	"印度":            "India",
}

func canonicalCountry(name string) string {
	if v, ok := countryAliases[name]; ok {
		return v
	}
	return name
}
