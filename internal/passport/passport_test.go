package passport

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"global-atlas/internal/blob"
	"global-atlas/internal/journal"
)

const key = "global-atlas-entries"

func rec(country, region, answer string) journal.VisitRecord {
	return journal.VisitRecord{Country: country, Region: region, Answer: answer}
}

func TestTierFor(t *testing.T) {
	cases := map[int]Tier{0: TierUnvisited, 1: TierBronze, 2: TierSilver, 3: TierGold, 4: TierGold, 50: TierGold}
	for n, want := range cases {
		assert.Equal(t, want, TierFor(n), "n=%d", n)
	}
	order := map[Tier]int{TierUnvisited: 0, TierBronze: 1, TierSilver: 2, TierGold: 3}
	for n := 0; n < 10; n++ {
		assert.LessOrEqual(t, order[TierFor(n)], order[TierFor(n+1)])
	}
}

func TestAggregateScenarios(t *testing.T) {
	t.Run("two regions make silver", func(t *testing.T) {
		aggs := Aggregate([]journal.VisitRecord{rec("Japan", "Osaka", "y"), rec("Japan", "Tokyo", "x")})
		assert.Equal(t, []string{"Osaka", "Tokyo"}, aggs["Japan"].RegionList())
		assert.Equal(t, TierSilver, aggs.TierOf("Japan"))
	})
	t.Run("duplicate region collapses", func(t *testing.T) {
		aggs := Aggregate([]journal.VisitRecord{rec("Brazil", "Rio", "a"), rec("Brazil", "Rio", "b"), rec("Brazil", "Bahia", "c")})
		assert.Equal(t, 2, aggs.Count("Brazil"))
		assert.Equal(t, TierSilver, aggs.TierOf("Brazil"))
	})
	t.Run("region match is case sensitive", func(t *testing.T) {
		aggs := Aggregate([]journal.VisitRecord{rec("Peru", "Lima", "a"), rec("Peru", "lima", "b"), rec("Peru", "LIMA", "c")})
		assert.Equal(t, TierGold, aggs.TierOf("Peru"))
	})
	t.Run("unknown country is unvisited", func(t *testing.T) {
		assert.Equal(t, TierUnvisited, Aggregate(nil).TierOf("Chad"))
	})
}

func TestAggregateOrderIndependent(t *testing.T) {
	recs := []journal.VisitRecord{
		rec("Japan", "Tokyo", "1"), rec("Japan", "Kyoto", "2"), rec("Brazil", "Rio", "3"),
		rec("Japan", "Tokyo", "4"), rec("Chile", "Santiago", "5"), rec("Brazil", "Bahia", "6"),
	}
	want := Aggregate(recs)
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 20; i++ {
		shuffled := append([]journal.VisitRecord(nil), recs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Aggregate(shuffled)
		require.Len(t, got, len(want))
		for c, a := range want {
			assert.Equal(t, a.RegionList(), got[c].RegionList())
		}
	}
}

func TestAggregateLastPhotoIsMostRecent(t *testing.T) {
	newest := journal.VisitRecord{Country: "Japan", Region: "Osaka", Answer: "b", Photo: "data:image/png;base64,NEW"}
	older := journal.VisitRecord{Country: "Japan", Region: "Tokyo", Answer: "a", Photo: "data:image/png;base64,OLD"}
	assert.Equal(t, newest.Photo, Aggregate([]journal.VisitRecord{newest, older})["Japan"].LastPhoto)

	noPhoto := rec("Japan", "Nara", "c")
	assert.Empty(t, Aggregate([]journal.VisitRecord{noPhoto, newest})["Japan"].LastPhoto)
}

type failingBlob struct{ *blob.Memory }

func (failingBlob) Set(context.Context, string, string) error { return errors.New("disk full") }

type StoreSuite struct {
	suite.Suite
	ctx   context.Context
	blobs *blob.Memory
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.blobs = blob.NewMemory()
}

func TestStoreSuite(t *testing.T) { suite.Run(t, new(StoreSuite)) }

func (s *StoreSuite) TestEmptyWhenMissing() {
	st := Open(s.ctx, s.blobs, key)
	s.Empty(st.Entries())
	s.NotNil(st.Entries())
}

func (s *StoreSuite) TestCorruptTreatedAsEmpty() {
	for _, raw := range []string{"{not json", `{"country":"Japan"}`, "null", ""} {
		s.Require().NoError(s.blobs.Set(s.ctx, key, raw))
		st := Open(s.ctx, s.blobs, key)
		s.Empty(st.Entries(), "raw=%q", raw)
	}
}

func (s *StoreSuite) TestAppendPrependsAndPersists() {
	st := Open(s.ctx, s.blobs, key)
	s.Require().NoError(st.Append(s.ctx, rec("Japan", "Tokyo", "x")))
	s.Require().NoError(st.Append(s.ctx, rec("Japan", "Osaka", "y")))

	entries := st.Entries()
	s.Require().Len(entries, 2)
	s.Equal("Osaka", entries[0].Region)
	s.Equal(TierSilver, st.Aggregates().TierOf("Japan"))

	reloaded := Open(s.ctx, s.blobs, key)
	s.Equal(entries, reloaded.Entries())
}

func (s *StoreSuite) TestRoundTripPreservesFields() {
	st := Open(s.ctx, s.blobs, key)
	souvenir, _ := journal.SouvenirByID("legend")
	r := journal.VisitRecord{Country: "Ghana", Region: "Accra", Souvenir: souvenir, Answer: "Anansi", Photo: "data:image/jpeg;base64,/9j/"}
	s.Require().NoError(st.Append(s.ctx, rec("Ghana", "Kumasi", "first")))
	s.Require().NoError(st.Append(s.ctx, r))

	got := Open(s.ctx, s.blobs, key).Entries()
	s.Require().Len(got, 2)
	s.Equal(r, got[0])
}

func (s *StoreSuite) TestSaveFailureKeepsMemory() {
	st := Open(s.ctx, failingBlob{s.blobs}, key)
	err := st.Append(s.ctx, rec("Kenya", "Nairobi", "x"))
	s.Require().Error(err)
	s.Equal(1, st.Len())
	s.Equal(TierBronze, st.Aggregates().TierOf("Kenya"))
}

func (s *StoreSuite) TestEntriesReturnsCopy() {
	st := Open(s.ctx, s.blobs, key)
	s.Require().NoError(st.Append(s.ctx, rec("Japan", "Tokyo", "x")))
	e := st.Entries()
	e[0].Region = "changed"
	s.Equal("Tokyo", st.Entries()[0].Region)
}

func TestEncodeEmpty(t *testing.T) {
	s, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)
}

func TestGallery(t *testing.T) {
	t.Run("preview when empty", func(t *testing.T) {
		v := Gallery(nil, Aggregate(nil))
		assert.True(t, v.Preview)
		assert.Equal(t, 0, v.Visited)
		assert.Equal(t, TotalCountries, v.Total)
		require.Len(t, v.Cards, 2)
		for _, c := range v.Cards {
			assert.Equal(t, BadgeExample, c.Badge)
			assert.True(t, c.Example)
		}
		assert.Equal(t, "🗾", v.Cards[0].Placeholder)
	})

	t.Run("badges follow shared tier rule", func(t *testing.T) {
		recs := []journal.VisitRecord{
			rec("Brazil", "Bahia", "c"), rec("Brazil", "Rio", "b"), rec("Brazil", "Recife", "a"),
			rec("Japan", "Tokyo", "x"),
		}
		aggs := Aggregate(recs)
		v := Gallery(recs, aggs)
		assert.False(t, v.Preview)
		assert.Equal(t, 2, v.Visited)
		require.Len(t, v.Cards, 4)

		assert.Equal(t, BadgeGold, v.Cards[0].Badge)
		assert.Equal(t, aggs.TierOf("Brazil"), v.Cards[0].Tier)
		assert.Equal(t, "Bahia (+2 more)", v.Cards[0].RegionLabel)
		assert.Equal(t, BadgeBronze, v.Cards[3].Badge)
		assert.Equal(t, "Tokyo", v.Cards[3].RegionLabel)
		assert.Equal(t, "🗾", v.Cards[3].Placeholder)
	})
}
