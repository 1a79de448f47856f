// 包 utils：外部连接工具（postgres / sqlite / redis / 自签证书）
package utils

import (
	"global-atlas/internal/config"
	"global-atlas/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedis：按配置打开 Redis 客户端；连接是惰性的，调用方自行 Ping
func OpenRedis(r config.Redis) *redis.Client {
	logger.L().Debug("redis_env", "addr", r.Addr(), "db", r.DB)
	return redis.NewClient(&redis.Options{Addr: r.Addr(), Password: r.Pass, DB: r.DB})
}
