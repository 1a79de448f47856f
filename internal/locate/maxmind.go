package locate

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
)

// GeoIP：MaxMind GeoIP2/GeoLite2 City 库
type GeoIP struct {
	db *geoip2.Reader
}

func OpenGeoIP(path string) (*GeoIP, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip: %w", err)
	}
	return &GeoIP{db: db}, nil
}

func (g *GeoIP) Name() string { return "geoip" }

// Lookup：取英文国家名与第一级行政区（缺省时取城市）
func (g *GeoIP) Lookup(ip net.IP) (Suggestion, bool) {
	if g == nil || g.db == nil {
		return Suggestion{}, false
	}
	rec, err := g.db.City(ip)
	if err != nil || rec == nil {
		return Suggestion{}, false
	}
	s := Suggestion{Country: rec.Country.Names["en"]}
	if len(rec.Subdivisions) > 0 {
		s.Region = rec.Subdivisions[0].Names["en"]
	}
	if s.Region == "" {
		s.Region = rec.City.Names["en"]
	}
	return s, s.Country != ""
}

func (g *GeoIP) Close() error {
	if g == nil || g.db == nil {
		return nil
	}
	return g.db.Close()
}

// 精简 mmdb 记录（兼容只含国家/地区字段的自建库）
type liteRecord struct {
	Country struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
	Subdivisions []struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"subdivisions"`
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
}

// MMDBLite：按原始结构读取任意 mmdb（GeoLite2-Country、DB-IP lite 等）
type MMDBLite struct {
	r *maxminddb.Reader
}

func OpenMMDBLite(path string) (*MMDBLite, error) {
	r, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mmdb: %w", err)
	}
	return &MMDBLite{r: r}, nil
}

func (m *MMDBLite) Name() string { return "mmdb_lite" }

func (m *MMDBLite) Lookup(ip net.IP) (Suggestion, bool) {
	if m == nil || m.r == nil {
		return Suggestion{}, false
	}
	var rec liteRecord
	if err := m.r.Lookup(ip, &rec); err != nil {
		return Suggestion{}, false
	}
	return fromLite(rec)
}

func fromLite(rec liteRecord) (Suggestion, bool) {
	s := Suggestion{Country: rec.Country.Names["en"]}
	if len(rec.Subdivisions) > 0 {
		s.Region = rec.Subdivisions[0].Names["en"]
	}
	if s.Region == "" {
		s.Region = rec.City.Names["en"]
	}
	return s, s.Country != ""
}

func (m *MMDBLite) Close() error {
	if m == nil || m.r == nil {
		return nil
	}
	return m.r.Close()
}
