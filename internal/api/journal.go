package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"global-atlas/internal/journal"
	"global-atlas/internal/metrics"
	"global-atlas/internal/passport"
)

// 请求体预留给照片以外字段的余量
const bodySlack = 64 << 10

type createEntryRequest struct {
	Country    string `json:"country"`
	Region     string `json:"region"`
	SouvenirID string `json:"souvenir_id"`
	Answer     string `json:"answer"`
	Photo      string `json:"photo"`
}

type countryStats struct {
	Regions   []string      `json:"regions"`
	Count     int           `json:"count"`
	Tier      passport.Tier `json:"tier"`
	LastPhoto string        `json:"last_photo,omitempty"`
}

type statsResponse struct {
	Visited   int                     `json:"visited"`
	Total     int                     `json:"total"`
	Countries map[string]countryStats `json:"countries"`
}

func (s *server) handleSouvenirs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, journal.Souvenirs())
}

func (s *server) handleRoll(w http.ResponseWriter, r *http.Request) {
	sv := journal.Roll(s.rand)
	metrics.RollsTotal.WithLabelValues(sv.ID).Inc()
	writeJSON(w, http.StatusOK, sv)
}

func (s *server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Entries())
}

// 文档注释：提交一条日志
// 背景：按地区 → 掷骰（或指定题目）→ 回答的顺序走完录入流程，再追加到存储。
// 约束：校验失败返回 400；存储写入失败不影响 201（记录已在内存中生效）。
func (s *server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	if s.maxPhoto > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(s.maxPhoto)+bodySlack)
	}
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.reject(w, "body", "invalid request body")
		return
	}
	rec, err := s.draft(req)
	if err != nil {
		s.reject(w, rejectReason(err), err.Error())
		return
	}
	if err := s.store.Append(r.Context(), rec); err != nil {
		s.log.Warn("entry_persist_deferred", "country", rec.Country, "err", err)
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *server) draft(req createEntryRequest) (journal.VisitRecord, error) {
	d, err := journal.NewDraft(req.Country, s.maxPhoto)
	if err != nil {
		return journal.VisitRecord{}, err
	}
	if err := d.SetRegion(req.Region); err != nil {
		return journal.VisitRecord{}, err
	}
	var sv journal.Souvenir
	if req.SouvenirID == "" {
		sv, err = d.Roll(s.rand)
	} else {
		sv, err = d.Choose(req.SouvenirID)
	}
	if err != nil {
		return journal.VisitRecord{}, err
	}
	if req.SouvenirID == "" {
		metrics.RollsTotal.WithLabelValues(sv.ID).Inc()
	}
	if err := d.Answer(req.Answer, req.Photo); err != nil {
		return journal.VisitRecord{}, err
	}
	return d.Finish()
}

func (s *server) reject(w http.ResponseWriter, reason, msg string) {
	metrics.EntriesRejectedTotal.WithLabelValues(reason).Inc()
	s.log.Debug("entry_rejected", "reason", reason, "err", msg)
	writeError(w, http.StatusBadRequest, msg)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, journal.ErrEmptyCountry):
		return "country"
	case errors.Is(err, journal.ErrEmptyRegion):
		return "region"
	case errors.Is(err, journal.ErrEmptyAnswer):
		return "answer"
	case errors.Is(err, journal.ErrUnknownSouvenir):
		return "souvenir"
	case errors.Is(err, journal.ErrPhotoFormat):
		return "photo_format"
	case errors.Is(err, journal.ErrPhotoTooLarge):
		return "photo_size"
	}
	return "other"
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	aggs := s.store.Aggregates()
	out := statsResponse{Visited: len(aggs), Total: passport.TotalCountries, Countries: make(map[string]countryStats, len(aggs))}
	for name, a := range aggs {
		out.Countries[name] = countryStats{
			Regions:   a.RegionList(),
			Count:     a.Count(),
			Tier:      a.Tier(),
			LastPhoto: a.LastPhoto,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handlePassport(w http.ResponseWriter, r *http.Request) {
	recs := s.store.Entries()
	writeJSON(w, http.StatusOK, passport.Gallery(recs, passport.Aggregate(recs)))
}
