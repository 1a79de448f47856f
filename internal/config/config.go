// 包 config：集中读取环境变量配置，避免各模块散落 os.Getenv 与默认值
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// 存储后端标识
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config：进程级配置快照
// 背景：启动时一次性解析，之后只读传递给各模块；字段与环境变量一一对应。
// 约束：默认值与前端原型保持一致（存储键 global-atlas-entries）。
type Config struct {
	Addr    string `env:"ADDR" envDefault:":8080"`
	APIBase string `env:"API_BASE" envDefault:"/api"`
	UIDist  string `env:"UI_DIST"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite"`
	StoreKey     string `env:"STORE_KEY" envDefault:"global-atlas-entries"`
	SQLitePath   string `env:"SQLITE_PATH"`

	PG    Postgres
	Redis Redis

	AtlasGeoJSON  string `env:"ATLAS_GEOJSON"`
	GeoIPPath     string `env:"GEOIP_PATH"`
	MMDBLitePath  string `env:"MMDB_LITE_PATH"`
	IP2RegionV4   string `env:"IP2REGION_V4_PATH"`
	MaxPhotoBytes int    `env:"MAX_PHOTO_BYTES" envDefault:"2097152"`
	FeedbackURL   string `env:"FEEDBACK_URL"`

	ViewportSessionTTL time.Duration `env:"VIEWPORT_SESSION_TTL" envDefault:"30m"`
	ViewportSessionMax int           `env:"VIEWPORT_SESSION_MAX" envDefault:"1024"`
	TapCacheTTL        time.Duration `env:"TAP_CACHE_TTL" envDefault:"1h"`
	TapCacheSize       int           `env:"TAP_CACHE_SIZE" envDefault:"4096"`

	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	RateLimitQPS     int  `env:"RATE_LIMIT_QPS" envDefault:"50"`

	TLSEnable   bool   `env:"TLS_ENABLE" envDefault:"false"`
	TLSCertPath string `env:"TLS_CERT_PATH"`
	TLSKeyPath  string `env:"TLS_KEY_PATH"`
}

// Postgres：连接参数
type Postgres struct {
	Host         string `env:"PG_HOST" envDefault:"localhost"`
	Port         string `env:"PG_PORT" envDefault:"5432"`
	User         string `env:"PG_USER" envDefault:"postgres"`
	Password     string `env:"PG_PASSWORD"`
	DB           string `env:"PG_DB" envDefault:"atlas"`
	SSLMode      string `env:"PG_SSLMODE" envDefault:"disable"`
	MaxOpenConns int    `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int    `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
}

// DSN：拼接 postgres 连接串；密码为空时省略
func (p Postgres) DSN() string {
	dsn := "postgres://" + p.User
	if p.Password != "" {
		dsn += ":" + p.Password
	}
	dsn += "@" + p.Host + ":" + p.Port + "/" + p.DB + "?sslmode=" + p.SSLMode
	return dsn
}

// Redis：连接参数；REDIS_DB 仅接受非负整数
type Redis struct {
	Host string `env:"REDIS_HOST" envDefault:"127.0.0.1"`
	Port string `env:"REDIS_PORT" envDefault:"6379"`
	Pass string `env:"REDIS_PASS"`
	DB   int    `env:"REDIS_DB" envDefault:"0"`
}

func (r Redis) Addr() string { return r.Host + ":" + r.Port }

// Load：加载 .env 文件后解析环境变量
// 背景：.env 缺失不是错误；已存在的进程环境变量优先于文件内容（godotenv 不覆盖）。
func Load() (Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	return Parse()
}

// Parse：仅解析当前进程环境变量并补齐派生默认值
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.UIDist == "" {
		c.UIDist = filepath.Join("ui", "dist")
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join("data", "atlas.db")
	}
	if c.AtlasGeoJSON == "" {
		c.AtlasGeoJSON = filepath.Join("data", "atlas", "countries.geojson")
	}
	if c.TLSCertPath == "" {
		c.TLSCertPath = filepath.Join("data", "certs", "server.crt")
	}
	if c.TLSKeyPath == "" {
		c.TLSKeyPath = filepath.Join("data", "certs", "server.key")
	}
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	c.APIBase = "/" + strings.Trim(c.APIBase, "/")
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.StoreKey == "" {
		return fmt.Errorf("STORE_KEY must not be empty")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("REDIS_DB must be >= 0, got %d", c.Redis.DB)
	}
	if c.MaxPhotoBytes < 0 {
		return fmt.Errorf("MAX_PHOTO_BYTES must be >= 0, got %d", c.MaxPhotoBytes)
	}
	return nil
}
