package locate

import (
	"net"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name string
	hits map[string]Suggestion
}

func (f fakeSource) Name() string { return f.name }

func (f fakeSource) Lookup(ip net.IP) (Suggestion, bool) {
	s, ok := f.hits[ip.String()]
	return s, ok
}

func TestChainFirstHitWins(t *testing.T) {
	a := fakeSource{name: "a", hits: map[string]Suggestion{"1.1.1.1": {Country: "United States", Region: "California"}}}
	b := fakeSource{name: "b", hits: map[string]Suggestion{
		"1.1.1.1": {Country: "Elsewhere"},
		"2.2.2.2": {Country: "中国", Region: "广东省"},
	}}
	c := NewChain(nil, a, b)
	require.Equal(t, 2, c.Len())

	s := c.Suggest(" 1.1.1.1 ")
	assert.Equal(t, Suggestion{IP: "1.1.1.1", Country: "United States of America", Region: "California", Source: "a"}, s)

	s = c.Suggest("2.2.2.2")
	assert.Equal(t, "China", s.Country)
	assert.Equal(t, "b", s.Source)

	assert.Equal(t, Suggestion{IP: "3.3.3.3"}, c.Suggest("3.3.3.3"))
	assert.Equal(t, Suggestion{IP: "not-an-ip"}, c.Suggest("not-an-ip"))
}

func TestEmptyChain(t *testing.T) {
	c := NewChain()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, Suggestion{IP: "8.8.8.8"}, c.Suggest("8.8.8.8"))
}

func TestNilSourcesAreSafe(t *testing.T) {
	ip := net.ParseIP("8.8.8.8")
	var g *GeoIP
	var m *MMDBLite
	var x *IP2Region
	_, ok := g.Lookup(ip)
	assert.False(t, ok)
	_, ok = m.Lookup(ip)
	assert.False(t, ok)
	_, ok = x.Lookup(ip)
	assert.False(t, ok)
	assert.NoError(t, g.Close())
	assert.NoError(t, m.Close())
}

func TestOpenMissingFiles(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.mmdb")
	_, err := OpenGeoIP(missing)
	assert.Error(t, err)
	_, err = OpenMMDBLite(missing)
	assert.Error(t, err)
	_, err = OpenIP2Region(missing)
	assert.Error(t, err)
}

func TestParseRegion(t *testing.T) {
	assert.Equal(t, Suggestion{Country: "中国", Region: "广东省"}, parseRegion("中国|0|广东省|深圳市|电信"))
	assert.Equal(t, Suggestion{Country: "Japan", Region: "Tokyo"}, parseRegion("Japan|0|0|Tokyo|0"))
	assert.Equal(t, Suggestion{}, parseRegion("0|0|0|0|0"))
	assert.Equal(t, Suggestion{Country: "Brazil"}, parseRegion("Brazil"))
}

func TestFromLite(t *testing.T) {
	var rec liteRecord
	rec.Country.Names = map[string]string{"en": "Japan"}
	rec.City.Names = map[string]string{"en": "Osaka"}
	s, ok := fromLite(rec)
	assert.True(t, ok)
	assert.Equal(t, Suggestion{Country: "Japan", Region: "Osaka"}, s)

	_, ok = fromLite(liteRecord{})
	assert.False(t, ok)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/locate", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	assert.Equal(t, "10.0.0.9", ClientIP(r))

	r.Header.Set("Forwarded", `for="198.51.100.7";proto=https`)
	assert.Equal(t, "198.51.100.7", ClientIP(r))

	r.Header.Set("X-Real-IP", "203.0.113.4")
	assert.Equal(t, "203.0.113.4", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "192.0.2.1, 10.0.0.1")
	assert.Equal(t, "192.0.2.1", ClientIP(r))

	r = httptest.NewRequest("GET", "/locate?ip=1.2.3.4", nil)
	r.Header.Set("X-Forwarded-For", "192.0.2.1")
	assert.Equal(t, "1.2.3.4", ClientIP(r))
}
