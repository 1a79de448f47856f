// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"

	"global-atlas/internal/api"
	"global-atlas/internal/atlas"
	"global-atlas/internal/blob"
	"global-atlas/internal/config"
	"global-atlas/internal/locate"
	"global-atlas/internal/logger"
	"global-atlas/internal/metrics"
	"global-atlas/internal/middleware"
	"global-atlas/internal/passport"
	"global-atlas/internal/utils"
)

func main() {
	cfg, err := config.Load()
	// 日志初始化
	l := logger.Setup()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	l.Debug("log_init_ok")
	l.Debug("config_api_base", "base", cfg.APIBase)
	l.Debug("config_ui_dir", "dir", cfg.UIDist)

	ctx := context.Background()
	blobs, err := blob.Open(ctx, cfg)
	if err != nil {
		l.Error("store_open_error", "backend", cfg.StoreBackend, "err", err)
		os.Exit(1)
	}
	defer blobs.Close()
	st := passport.Open(ctx, blobs, cfg.StoreKey)

	// 背景：边界文件缺失时地图着色与点击命中退化为空，不影响日志与画廊接口
	var countries *atlas.Atlas
	if a, err := atlas.Load(cfg.AtlasGeoJSON); err == nil {
		countries = a
		l.Info("atlas_ready", "path", cfg.AtlasGeoJSON, "features", a.Len())
	} else {
		l.Error("atlas_load_error", "path", cfg.AtlasGeoJSON, "err", err)
	}
	resolver := atlas.NewResolver(countries, cfg.TapCacheSize, cfg.TapCacheTTL)

	locator, closers := openLocator(cfg)
	defer func() {
		for _, c := range closers {
			c()
		}
	}()

	apiRoutes := api.BuildRoutes(api.Deps{
		Store:         st,
		Resolver:      resolver,
		Locator:       locator,
		MaxPhotoBytes: cfg.MaxPhotoBytes,
		SessionTTL:    cfg.ViewportSessionTTL,
		SessionMax:    cfg.ViewportSessionMax,
		WriteLimit:    middleware.RateLimit(cfg.RateLimitEnabled, cfg.RateLimitQPS),
		Log:           logger.Component("api"),
	})

	mux := http.NewServeMux()
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, apiRoutes))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())
	mux.HandleFunc("/config.js", api.ConfigScript(cfg.APIBase, cfg.FeedbackURL))
	mux.Handle("/", http.FileServer(http.Dir(cfg.UIDist)))

	handler := logger.AccessMiddleware(l)(mux)
	s := &http.Server{Addr: cfg.Addr, Handler: handler}
	if cfg.TLSEnable {
		if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "global-atlas.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		if err := s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath); err != nil {
			l.Error("server_error", "err", err)
		}
		return
	}
	l.Info("listening", "addr", cfg.Addr)
	if err := s.ListenAndServe(); err != nil {
		l.Error("server_error", "err", err)
	}
}

// 文档注释：按配置组装离线 IP 库查询链（城市库 → 精简 mmdb → ip2region）
// 约束：任一库打开失败只记录日志并跳过；返回的关闭函数由调用方在退出时执行。
func openLocator(cfg config.Config) (*locate.Chain, []func()) {
	l := logger.L()
	var list []locate.Source
	var closers []func()
	if cfg.GeoIPPath != "" {
		if g, err := locate.OpenGeoIP(cfg.GeoIPPath); err == nil {
			list = append(list, g)
			closers = append(closers, func() { _ = g.Close() })
			l.Info("geoip_ready", "path", cfg.GeoIPPath)
		} else {
			l.Error("geoip_error", "err", err)
		}
	}
	if cfg.MMDBLitePath != "" {
		if m, err := locate.OpenMMDBLite(cfg.MMDBLitePath); err == nil {
			list = append(list, m)
			closers = append(closers, func() { _ = m.Close() })
			l.Info("mmdb_lite_ready", "path", cfg.MMDBLitePath)
		} else {
			l.Error("mmdb_lite_error", "err", err)
		}
	}
	if cfg.IP2RegionV4 != "" {
		if x, err := locate.OpenIP2Region(cfg.IP2RegionV4); err == nil {
			list = append(list, x)
			closers = append(closers, x.Close)
			l.Info("ip2region_ready", "path", cfg.IP2RegionV4)
		} else {
			l.Error("ip2region_error", "err", err)
		}
	}
	if len(list) == 0 {
		l.Info("locate_disabled")
	}
	return locate.NewChain(list...), closers
}
