package locate

import (
	"fmt"
	"net"
	"strings"

	"github.com/lionsoul2014/ip2region/binding/golang/xdb"
)

// IP2Region：ip2region xdb（仅 IPv4），文件查询模式
type IP2Region struct {
	v4 *xdb.Searcher
}

func OpenIP2Region(v4Path string) (*IP2Region, error) {
	s, err := xdb.NewWithFileOnly(xdb.IPv4, v4Path)
	if err != nil {
		return nil, fmt.Errorf("open ip2region: %w", err)
	}
	return &IP2Region{v4: s}, nil
}

func (c *IP2Region) Name() string { return "ip2region" }

func (c *IP2Region) Lookup(ip net.IP) (Suggestion, bool) {
	if c == nil || c.v4 == nil || ip.To4() == nil {
		return Suggestion{}, false
	}
	region, err := c.v4.SearchByStr(ip.String())
	if err != nil || region == "" {
		return Suggestion{}, false
	}
	s := parseRegion(region)
	return s, s.Country != ""
}

func (c *IP2Region) Close() {
	if c != nil && c.v4 != nil {
		c.v4.Close()
	}
}

// parseRegion：country|region|province|city|isp；地区优先取省份，其次大区，最后城市
func parseRegion(s string) Suggestion {
	parts := strings.Split(s, "|")
	field := func(i int) string {
		if i < len(parts) {
			return safe(parts[i])
		}
		return ""
	}
	out := Suggestion{Country: field(0)}
	for _, i := range []int{2, 1, 3} {
		if v := field(i); v != "" {
			out.Region = v
			break
		}
	}
	return out
}

func safe(s string) string {
	s = strings.TrimSpace(s)
	if s == "0" || strings.EqualFold(s, "unknown") {
		return ""
	}
	return s
}
