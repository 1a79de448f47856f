package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect：SQL 方言差异仅在占位符
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// SQL：基于 database/sql 的实现，表结构见 migrate.EnsureSchema（_atlas_kv）
// 背景：postgres 通过 lib/pq，sqlite 通过 modernc.org/sqlite；两者均支持 ON CONFLICT 覆盖写。
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQL(db *sql.DB, d Dialect) *SQL { return &SQL{db: db, dialect: d} }

func (s *SQL) q(query string) string {
	if s.dialect != SQLite {
		return query
	}
	// $1..$9 → ?；本包查询参数不超过两个
	out := make([]byte, 0, len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' && i+1 < len(query) && query[i+1] >= '1' && query[i+1] <= '9' {
			out = append(out, '?')
			i++
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.q(`SELECT value FROM _atlas_kv WHERE key=$1`), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kv get %s: %w", key, err)
	}
	return v, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO _atlas_kv(key, value, updated_at)
        VALUES($1, $2, CURRENT_TIMESTAMP)
        ON CONFLICT (key) DO UPDATE SET value=excluded.value, updated_at=CURRENT_TIMESTAMP`), key, value)
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM _atlas_kv WHERE key=$1`), key); err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Close() error { return s.db.Close() }
