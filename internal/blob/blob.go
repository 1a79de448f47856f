// 包 blob：单键不透明文本存储，对应浏览器 local storage 的“键 → 序列化文本”语义
package blob

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound：键不存在
var ErrNotFound = errors.New("blob: not found")

// Store：键值文本存储契约
// 约束：Get 在键缺失时返回 ErrNotFound；Set 覆盖写入整条值；实现需并发安全。
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Memory：进程内实现，用于测试与 STORE_BACKEND=memory
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemory() *Memory { return &Memory{m: make(map[string]string)} }

func (s *Memory) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *Memory) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *Memory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *Memory) Close() error { return nil }
