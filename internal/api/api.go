// 包 api：集中注册 HTTP API 路由，主入口按 API_BASE 前缀挂载
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"global-atlas/internal/atlas"
	"global-atlas/internal/journal"
	"global-atlas/internal/locate"
	"global-atlas/internal/logger"
	"global-atlas/internal/mapstyle"
	"global-atlas/internal/passport"
)

// Journal：访问记录存储（passport.Store 满足此接口）
type Journal interface {
	Entries() []journal.VisitRecord
	Aggregates() passport.Aggregates
	Append(ctx context.Context, rec journal.VisitRecord) error
}

// Deps：路由依赖；Resolver 与 Locator 可为 nil
type Deps struct {
	Store         Journal
	Resolver      *atlas.Resolver
	Locator       *locate.Chain
	Rand          journal.IntSource
	Policy        *mapstyle.LabelPolicy
	MaxPhotoBytes int
	SessionTTL    time.Duration
	SessionMax    int
	// 写接口限流（nil 表示不限流）
	WriteLimit func(http.Handler) http.Handler
	Log        *slog.Logger
}

type server struct {
	store    Journal
	resolver *atlas.Resolver
	locator  *locate.Chain
	rand     journal.IntSource
	policy   mapstyle.LabelPolicy
	maxPhoto int
	sessions *sessions
	log      *slog.Logger
}

// 文档注释：构建 API 路由
// 背景：日志、画廊与视口会话共用一套路由；写接口单独分组以便限流。
// 约束：返回的处理器以根路径为基准，由调用方 StripPrefix(API_BASE) 后挂载；/metrics 与 /config.js 由主入口注册。
func BuildRoutes(d Deps) http.Handler {
	s := &server{
		store:    d.Store,
		resolver: d.Resolver,
		locator:  d.Locator,
		rand:     d.Rand,
		maxPhoto: d.MaxPhotoBytes,
		sessions: newSessions(d.SessionMax, d.SessionTTL),
		log:      d.Log,
	}
	if s.rand == nil {
		s.rand = journal.DefaultSource
	}
	if s.locator == nil {
		s.locator = locate.NewChain()
	}
	if s.resolver == nil {
		s.resolver = atlas.NewResolver(nil, 1, 0)
	}
	if d.Policy != nil {
		s.policy = *d.Policy
	} else {
		s.policy = mapstyle.DefaultPolicy()
	}
	if s.log == nil {
		s.log = logger.Component("api")
	}
	limit := d.WriteLimit
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()
	r.Get("/souvenirs", s.handleSouvenirs)
	r.Get("/entries", s.handleListEntries)
	r.Get("/stats", s.handleStats)
	r.Get("/passport", s.handlePassport)
	r.Get("/locate", s.handleLocate)
	r.Get("/viewport/{id}", s.handleGetViewport)
	r.Get("/viewport/{id}/render", s.handleRender)
	r.Get("/viewport/{id}/tap", s.handleTap)
	r.Group(func(w chi.Router) {
		w.Use(limit)
		w.Post("/roll", s.handleRoll)
		w.Post("/entries", s.handleCreateEntry)
		w.Post("/viewport", s.handleCreateViewport)
		w.Post("/viewport/{id}/events", s.handleViewportEvents)
	})
	return r
}
