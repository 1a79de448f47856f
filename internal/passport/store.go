package passport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"global-atlas/internal/blob"
	"global-atlas/internal/journal"
	"global-atlas/internal/logger"
	"global-atlas/internal/metrics"
)

// Store：访问记录的内存有序列表，启动时加载一次，每次追加后整体回写
// 背景：持久化层视为不透明的“单键 → JSON 文本”存储，与浏览器 local storage 语义相同。
// 约束：内存列表最近优先；写入失败只记录日志与指标，内存状态在本进程内仍然有效；HTTP 并发访问由 mu 串行化。
type Store struct {
	mu      sync.RWMutex
	blobs   blob.Store
	key     string
	entries []journal.VisitRecord
	log     *slog.Logger
}

// Open：绑定存储并加载已有记录
func Open(ctx context.Context, blobs blob.Store, key string) *Store {
	s := &Store{blobs: blobs, key: key, log: logger.Component("passport")}
	s.entries = s.Load(ctx)
	s.log.Info("store_loaded", "key", key, "entries", len(s.entries))
	return s
}

// Load：从持久化存储读取记录序列
// 约束：键缺失、空值或 JSON 不合法均返回空序列而非错误；不修改内存状态。
func (s *Store) Load(ctx context.Context) []journal.VisitRecord {
	raw, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, blob.ErrNotFound) {
			s.log.Warn("store_load_error", "key", s.key, "err", err)
		}
		return []journal.VisitRecord{}
	}
	recs, err := Decode(raw)
	if err != nil {
		metrics.StoreLoadCorruptTotal.Inc()
		s.log.Warn("store_load_corrupt", "key", s.key, "err", err)
		return []journal.VisitRecord{}
	}
	return recs
}

// Append：插入到序列头部后整体回写
// 返回：仅表示持久化失败；无论返回值如何，记录都已进入内存序列。
func (s *Store) Append(ctx context.Context, rec journal.VisitRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]journal.VisitRecord, 0, len(s.entries)+1)
	next = append(next, rec)
	next = append(next, s.entries...)
	s.entries = next
	metrics.EntriesAppendedTotal.Inc()
	s.log.Debug("store_append", "country", rec.Country, "region", rec.Region, "entries", len(next))
	if err := s.save(ctx, next); err != nil {
		metrics.StoreSaveFailTotal.Inc()
		s.log.Error("store_save_error", "key", s.key, "err", err)
		return err
	}
	return nil
}

func (s *Store) save(ctx context.Context, recs []journal.VisitRecord) error {
	b, err := Encode(recs)
	if err != nil {
		return err
	}
	return s.blobs.Set(ctx, s.key, b)
}

// Entries：当前序列的副本（最近优先）
func (s *Store) Entries() []journal.VisitRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]journal.VisitRecord, len(s.entries))
	copy(out, s.entries)
	return out
}

// Aggregates：每次调用都从全量记录重新计算，不缓存
func (s *Store) Aggregates() Aggregates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Aggregate(s.entries)
}

// Len：记录条数
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Decode：解析持久化文本；空白文本视为空序列
func Decode(raw string) ([]journal.VisitRecord, error) {
	recs := []journal.VisitRecord{}
	if len(raw) == 0 {
		return recs, nil
	}
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return []journal.VisitRecord{}, fmt.Errorf("decode entries: %w", err)
	}
	if recs == nil {
		recs = []journal.VisitRecord{}
	}
	return recs, nil
}

// Encode：序列化为持久化文本；空序列编码为 []
func Encode(recs []journal.VisitRecord) (string, error) {
	if recs == nil {
		recs = []journal.VisitRecord{}
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("encode entries: %w", err)
	}
	return string(b), nil
}
