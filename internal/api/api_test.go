package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"global-atlas/internal/atlas"
	"global-atlas/internal/blob"
	"global-atlas/internal/journal"
	"global-atlas/internal/logger"
	"global-atlas/internal/passport"
	"global-atlas/internal/viewport"
)

const testAtlas = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"Japan"},
  "geometry":{"type":"Polygon","coordinates":[[[0,0],[0,1],[1,1],[1,0],[0,0]]]}},
 {"type":"Feature","properties":{"name":"Brazil"},
  "geometry":{"type":"Polygon","coordinates":[[[-50,-10],[-50,-9],[-49,-9],[-49,-10],[-50,-10]]]}}
]}`

type fixedSource int

func (f fixedSource) IntN(n int) int { return int(f) % n }

type APISuite struct {
	suite.Suite
	blobs  *blob.Memory
	store  *passport.Store
	router http.Handler
}

func (s *APISuite) SetupTest() {
	s.blobs = blob.NewMemory()
	s.store = passport.Open(context.Background(), s.blobs, "global-atlas-entries")
	a, err := atlas.Parse([]byte(testAtlas))
	s.Require().NoError(err)
	s.router = BuildRoutes(Deps{
		Store:         s.store,
		Resolver:      atlas.NewResolver(a, 64, 0),
		Rand:          fixedSource(1),
		MaxPhotoBytes: 64,
		Log:           logger.Discard(),
	})
}

func (s *APISuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(v))
}

func (s *APISuite) TestSouvenirsAndRoll() {
	rec := s.do(http.MethodGet, "/souvenirs", nil)
	s.Equal(http.StatusOK, rec.Code)
	var list []journal.Souvenir
	s.decode(rec, &list)
	s.Len(list, 6)

	rec = s.do(http.MethodPost, "/roll", nil)
	s.Equal(http.StatusOK, rec.Code)
	var sv journal.Souvenir
	s.decode(rec, &sv)
	s.Equal(list[1], sv)
}

func (s *APISuite) TestCreateEntryFlow() {
	rec := s.do(http.MethodPost, "/entries", map[string]string{
		"country": "Japan", "region": "Tokyo", "souvenir_id": "feast", "answer": "Ramen",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var got journal.VisitRecord
	s.decode(rec, &got)
	s.Equal("Japan", got.Country)
	s.Equal("feast", got.Souvenir.ID)

	rec = s.do(http.MethodPost, "/entries", map[string]string{
		"country": "Japan", "region": "Osaka", "answer": "Takoyaki",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.decode(rec, &got)
	s.Equal(journal.Souvenirs()[1].ID, got.Souvenir.ID, "rolled with injected source")

	rec = s.do(http.MethodGet, "/entries", nil)
	var list []journal.VisitRecord
	s.decode(rec, &list)
	s.Require().Len(list, 2)
	s.Equal("Osaka", list[0].Region, "most recent first")

	raw, err := s.blobs.Get(context.Background(), "global-atlas-entries")
	s.Require().NoError(err)
	persisted, err := passport.Decode(raw)
	s.Require().NoError(err)
	s.Equal(list, persisted)
}

func (s *APISuite) TestCreateEntryValidation() {
	cases := []map[string]string{
		{"country": "Japan", "region": "  ", "answer": "x"},
		{"country": "Japan", "region": "Tokyo", "answer": ""},
		{"country": "", "region": "Tokyo", "answer": "x"},
		{"country": "Japan", "region": "Tokyo", "answer": "x", "souvenir_id": "nope"},
		{"country": "Japan", "region": "Tokyo", "answer": "x", "photo": "http://example.com/a.png"},
		{"country": "Japan", "region": "Tokyo", "answer": "x", "photo": "data:image/png;base64," + strings.Repeat("A", 100)},
	}
	for _, c := range cases {
		rec := s.do(http.MethodPost, "/entries", c)
		s.Equal(http.StatusBadRequest, rec.Code, c)
	}
	req := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)

	s.Empty(s.store.Entries())
}

func (s *APISuite) TestStatsAndPassport() {
	for _, region := range []string{"Tokyo", "Osaka", "Tokyo"} {
		rec := s.do(http.MethodPost, "/entries", map[string]string{
			"country": "Japan", "region": region, "souvenir_id": "spot", "answer": "ok",
		})
		s.Require().Equal(http.StatusCreated, rec.Code)
	}

	var stats statsResponse
	s.decode(s.do(http.MethodGet, "/stats", nil), &stats)
	s.Equal(1, stats.Visited)
	s.Equal(195, stats.Total)
	s.Equal(countryStats{Regions: []string{"Osaka", "Tokyo"}, Count: 2, Tier: passport.TierSilver}, stats.Countries["Japan"])

	var view passport.View
	s.decode(s.do(http.MethodGet, "/passport", nil), &view)
	s.False(view.Preview)
	s.Len(view.Cards, 3)
	s.Equal(passport.BadgeSilver, view.Cards[0].Badge)
	s.Equal("Tokyo (+1 more)", view.Cards[0].RegionLabel)
}

func (s *APISuite) TestEmptyPassportPreview() {
	var view passport.View
	s.decode(s.do(http.MethodGet, "/passport", nil), &view)
	s.True(view.Preview)
	s.Len(view.Cards, 2)
	s.Equal(0, view.Visited)
}

func (s *APISuite) TestViewportLifecycle() {
	rec := s.do(http.MethodPost, "/viewport", map[string]float64{"width": 1024, "height": 768})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var vp viewportResponse
	s.decode(rec, &vp)
	s.NotEmpty(vp.ID)
	s.Equal(160.0, vp.State.Scale)
	s.Equal("Scroll to zoom • Drag to pan", vp.Legend.Hint)

	rec = s.do(http.MethodPost, "/viewport/"+vp.ID+"/events", eventsRequest{Events: []viewport.Event{
		{Type: viewport.EventTouchStart, Touches: []viewport.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}},
		{Type: viewport.EventTouchMove, Touches: []viewport.Point{{X: 0, Y: 0}, {X: 200, Y: 0}}},
		{Type: viewport.EventTouchEnd},
		{Type: viewport.EventPointerMove, X: 5, Y: 5},
		{Type: "keydown"},
	}})
	s.Require().Equal(http.StatusOK, rec.Code)
	var ev eventsResponse
	s.decode(rec, &ev)
	s.Equal(320.0, ev.State.Scale)
	s.Equal(3, ev.Applied)
	s.Equal(1, ev.Ignored)
	s.Equal(1, ev.Rejected)
	s.Equal("2.0x", ev.Legend.Zoom)
	s.Equal("idle", ev.Mode)

	rec = s.do(http.MethodGet, "/viewport/"+vp.ID, nil)
	s.decode(rec, &vp)
	s.Equal(320.0, vp.State.Scale)
}

func (s *APISuite) TestRenderAndTap() {
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/entries", map[string]string{
		"country": "Japan", "region": "Tokyo", "souvenir_id": "spot", "answer": "ok",
	}).Code)

	var vp viewportResponse
	s.decode(s.do(http.MethodPost, "/viewport", map[string]float64{"width": 1024, "height": 768}), &vp)

	var frame renderResponse
	s.decode(s.do(http.MethodGet, "/viewport/"+vp.ID+"/render", nil), &frame)
	s.Require().Len(frame.Features, 2)
	s.Equal("Japan", frame.Features[0].Name)
	s.Equal("#B45309", frame.Features[0].Fill)
	s.Equal("Japan (1) ", frame.Features[0].Tooltip)
	s.Nil(frame.Features[0].Label)
	s.NotNil(frame.Features[1].Label, "major country labelled at 1x")

	proj := viewport.Projection{Scale: 160, Width: 1024, Height: 768}
	x, y := proj.Forward(0.5, 0.5)
	var tap tapResponse
	path := "/viewport/" + vp.ID + "/tap?x=" + ftoa(x) + "&y=" + ftoa(y)
	s.decode(s.do(http.MethodGet, path, nil), &tap)
	s.Equal("Japan", tap.Country)
	s.Equal(1, tap.Regions)
	s.Equal(passport.TierBronze, tap.Tier)

	s.decode(s.do(http.MethodGet, "/viewport/"+vp.ID+"/tap?x=512&y=10", nil), &tap)
	s.Equal("", tap.Country)

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/viewport/"+vp.ID+"/tap?x=abc", nil).Code)
}

func (s *APISuite) TestUnknownViewport() {
	for _, p := range []string{"/viewport/nope", "/viewport/nope/render", "/viewport/nope/tap?x=1&y=1"} {
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, p, nil).Code, p)
	}
	s.Equal(http.StatusNotFound, s.do(http.MethodPost, "/viewport/nope/events", eventsRequest{}).Code)
}

func (s *APISuite) TestLocateWithoutSources() {
	req := httptest.NewRequest(http.MethodGet, "/locate?ip=8.8.8.8", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"ip":"8.8.8.8","country":"","region":"","source":""}`, rec.Body.String())
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func TestConfigScript(t *testing.T) {
	rec := httptest.NewRecorder()
	ConfigScript("/api", "https://forms.example.com/it's").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config.js", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "window.__API_BASE__='/api'") {
		t.Fatalf("missing api base: %s", body)
	}
	if !strings.Contains(body, `window.__FEEDBACK_URL__='https://forms.example.com/it\'s'`) {
		t.Fatalf("feedback url not escaped: %s", body)
	}
	if !strings.Contains(body, "window.__COMMIT_SHA__=") {
		t.Fatalf("missing commit: %s", body)
	}
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
