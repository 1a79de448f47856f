package migrate

import (
	"database/sql"
	"fmt"

	"global-atlas/internal/logger"
)

// EnsureSchema：首次运行自动创建键值表
// 背景：postgres 与 sqlite 共用同一份 DDL，只使用两者共同支持的类型与默认值。
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；重复执行无副作用。
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _atlas_kv (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("schema stmt %d: %w", i, err)
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
