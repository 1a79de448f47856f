package blob

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"global-atlas/internal/config"
	"global-atlas/internal/migrate"
	"global-atlas/internal/utils"
)

// StoreSuite：所有实现共用的契约测试
type StoreSuite struct {
	suite.Suite
	newStore func(t *testing.T) Store
	store    Store
	ctx      context.Context
}

func (s *StoreSuite) SetupTest() {
	s.store = s.newStore(s.T())
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *StoreSuite) TestMissingKey() {
	_, err := s.store.Get(s.ctx, "global-atlas-entries")
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *StoreSuite) TestSetOverwritesAndDeletes() {
	s.Require().NoError(s.store.Set(s.ctx, "k", "[]"))
	s.Require().NoError(s.store.Set(s.ctx, "k", `[{"country":"Japan"}]`))

	v, err := s.store.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.Equal(`[{"country":"Japan"}]`, v)

	s.Require().NoError(s.store.Delete(s.ctx, "k"))
	_, err = s.store.Get(s.ctx, "k")
	s.ErrorIs(err, ErrNotFound)

	s.NoError(s.store.Delete(s.ctx, "k"))
}

func (s *StoreSuite) TestKeysAreIndependent() {
	s.Require().NoError(s.store.Set(s.ctx, "a", "1"))
	s.Require().NoError(s.store.Set(s.ctx, "b", "2"))
	a, _ := s.store.Get(s.ctx, "a")
	b, _ := s.store.Get(s.ctx, "b")
	s.Equal("1", a)
	s.Equal("2", b)
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(t *testing.T) Store { return NewMemory() }})
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(t *testing.T) Store {
		db, err := utils.OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		if err := migrate.EnsureSchema(db); err != nil {
			t.Fatalf("schema: %v", err)
		}
		return NewSQL(db, SQLite)
	}})
}

func TestPlaceholderRewrite(t *testing.T) {
	pg := NewSQL(nil, Postgres)
	lite := NewSQL(nil, SQLite)
	q := `SELECT value FROM _atlas_kv WHERE key=$1 AND note='$'`
	if got := pg.q(q); got != q {
		t.Fatalf("postgres query rewritten: %s", got)
	}
	if got, want := lite.q(q), `SELECT value FROM _atlas_kv WHERE key=? AND note='$'`; got != want {
		t.Fatalf("sqlite rewrite = %s, want %s", got, want)
	}
}

func TestOpenByBackend(t *testing.T) {
	ctx := context.Background()

	st, err := Open(ctx, config.Config{StoreBackend: config.BackendMemory})
	require.NoError(t, err)
	require.IsType(t, &Memory{}, st)

	path := filepath.Join(t.TempDir(), "nested", "atlas.db")
	st, err = Open(ctx, config.Config{StoreBackend: config.BackendSQLite, SQLitePath: path})
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "k", "[]"))
	v, err := st.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "[]", v)
	require.NoError(t, st.Close())

	_, err = Open(ctx, config.Config{StoreBackend: "etcd"})
	require.Error(t, err)
}
