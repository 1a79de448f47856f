package utils

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"global-atlas/internal/config"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// OpenPostgres：按配置打开 postgres 连接池
func OpenPostgres(pg config.Postgres) (*sql.DB, error) {
	db, err := sql.Open("postgres", pg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(pg.MaxOpenConns)
	db.SetMaxIdleConns(pg.MaxIdleConns)
	return db, nil
}

// OpenSQLite：打开本地 sqlite 文件，目录不存在时创建
// 约束：单连接写入，避免 SQLITE_BUSY；开启 WAL 以便 CLI 与服务同时读取。
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite wal: %w", err)
	}
	return db, nil
}
