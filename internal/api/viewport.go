package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"global-atlas/internal/atlas"
	"global-atlas/internal/cache"
	"global-atlas/internal/mapstyle"
	"global-atlas/internal/metrics"
	"global-atlas/internal/passport"
	"global-atlas/internal/viewport"
)

// 单次上报的事件数上限
const maxEventsPerBatch = 512

// session：单个浏览器视口的手势状态机；同一会话的事件串行应用
type session struct {
	mu  sync.Mutex
	ctl *viewport.Controller
}

type sessions struct {
	lru *cache.LRU[*session]
}

func newSessions(max int, ttl time.Duration) *sessions {
	if max <= 0 {
		max = 1024
	}
	l := cache.NewLRU[*session](max, ttl)
	l.OnEvict(func(string, *session) { metrics.ViewportSessions.Dec() })
	return &sessions{lru: l}
}

func (ss *sessions) create(width, height float64) (string, *session) {
	id := uuid.NewString()
	s := &session{ctl: viewport.NewController(width, height)}
	ss.lru.Set(id, s)
	metrics.ViewportSessions.Inc()
	return id, s
}

func (ss *sessions) get(id string) (*session, bool) { return ss.lru.Get(id) }

type viewportResponse struct {
	ID     string          `json:"id"`
	State  viewport.State  `json:"state"`
	Mode   string          `json:"mode"`
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	Legend viewport.Legend `json:"legend"`
}

type eventsRequest struct {
	Events []viewport.Event `json:"events"`
}

type eventsResponse struct {
	viewportResponse
	Applied  int `json:"applied"`
	Ignored  int `json:"ignored"`
	Rejected int `json:"rejected"`
}

type tapResponse struct {
	atlas.Hit
	Regions int           `json:"regions"`
	Tier    passport.Tier `json:"tier"`
}

type renderResponse struct {
	State viewport.State `json:"state"`
	mapstyle.Frame
}

func snapshot(id string, c *viewport.Controller) viewportResponse {
	w, h := c.Size()
	return viewportResponse{
		ID:     id,
		State:  c.State(),
		Mode:   c.Mode().String(),
		Width:  w,
		Height: h,
		Legend: viewport.LegendFor(w, c.State()),
	}
}

// 会话查找失败时已写出 404
func (s *server) session(w http.ResponseWriter, r *http.Request) (string, *session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown viewport")
		return id, nil, false
	}
	return id, sess, true
}

func (s *server) handleCreateViewport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, sess := s.sessions.create(req.Width, req.Height)
	s.log.Debug("viewport_created", "id", id, "width", req.Width, "height", req.Height)
	writeJSON(w, http.StatusCreated, snapshot(id, sess.ctl))
}

func (s *server) handleGetViewport(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	out := snapshot(id, sess.ctl)
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

// 文档注释：按到达顺序应用一批手势事件
// 约束：单个事件被拒绝不影响后续事件；每个事件后状态都满足边界约束。
func (s *server) handleViewportEvents(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req eventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Events) > maxEventsPerBatch {
		writeError(w, http.StatusRequestEntityTooLarge, "too many events")
		return
	}
	var out eventsResponse
	sess.mu.Lock()
	for i, e := range req.Events {
		res, err := sess.ctl.Apply(e)
		typ := e.Type
		if err != nil {
			typ = "unknown"
			s.log.Debug("viewport_event_rejected", "id", id, "index", i, "err", err)
		}
		metrics.ViewportEventsTotal.WithLabelValues(typ, string(res)).Inc()
		switch res {
		case viewport.Applied:
			out.Applied++
		case viewport.Ignored:
			out.Ignored++
		default:
			out.Rejected++
		}
	}
	out.viewportResponse = snapshot(id, sess.ctl)
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	st := sess.ctl.State()
	sess.mu.Unlock()
	frame := mapstyle.Render(s.resolver.Atlas(), s.store.Aggregates(), st, s.policy)
	writeJSON(w, http.StatusOK, renderResponse{State: st, Frame: frame})
}

func (s *server) handleTap(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}
	sess.mu.Lock()
	proj := sess.ctl.Projection()
	sess.mu.Unlock()
	hit := s.resolver.Tap(proj, x, y)
	out := tapResponse{Hit: hit, Tier: passport.TierUnvisited}
	if hit.Country != "" {
		aggs := s.store.Aggregates()
		out.Regions = aggs.Count(hit.Country)
		out.Tier = passport.TierFor(out.Regions)
	}
	writeJSON(w, http.StatusOK, out)
}
