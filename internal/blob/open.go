package blob

import (
	"context"
	"fmt"

	"global-atlas/internal/config"
	"global-atlas/internal/logger"
	"global-atlas/internal/migrate"
	"global-atlas/internal/utils"
)

// 文档注释：按 STORE_BACKEND 打开持久化后端
// 背景：服务与管理命令共用同一套打开逻辑，保证两边看到同一份数据。
// 约束：sqlite/postgres 打开后自动建表；redis 打开后 Ping 一次，失败即返回错误。
func Open(ctx context.Context, c config.Config) (Store, error) {
	l := logger.L()
	switch c.StoreBackend {
	case config.BackendMemory:
		l.Info("store_backend", "backend", c.StoreBackend)
		return NewMemory(), nil
	case config.BackendSQLite:
		db, err := utils.OpenSQLite(c.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := migrate.EnsureSchema(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		l.Info("store_backend", "backend", c.StoreBackend, "path", c.SQLitePath)
		return NewSQL(db, SQLite), nil
	case config.BackendPostgres:
		db, err := utils.OpenPostgres(c.PG)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := migrate.EnsureSchema(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		l.Info("store_backend", "backend", c.StoreBackend, "host", c.PG.Host, "db", c.PG.DB)
		return NewSQL(db, Postgres), nil
	case config.BackendRedis:
		rc := utils.OpenRedis(c.Redis)
		if err := rc.Ping(ctx).Err(); err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		l.Info("store_backend", "backend", c.StoreBackend, "addr", c.Redis.Addr())
		return NewRedis(rc, "atlas:"), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", c.StoreBackend)
}
