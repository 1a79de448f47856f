// 包 cache：进程内带 TTL 的 LRU 缓存
package cache

import (
	"container/list"
	"sync"
	"time"
)

// 文档注释：带过期时间的 LRU（键为字符串）
// 背景：视口会话与点击命中结果都按热点短周期复用，淘汰最久未访问项并按 TTL 失效。
// 约束：capacity <= 0 时视为 1；ttl <= 0 表示不过期；并发安全。
type LRU[V any] struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	lst  *list.List
	dict map[string]*list.Element
	now  func() time.Time
	// 被淘汰或过期移除时回调（持锁调用，不可重入缓存）
	onEvict func(k string, v V)
}

type entry[V any] struct {
	k   string
	v   V
	exp time.Time
}

func NewLRU[V any](capacity int, ttl time.Duration) *LRU[V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRU[V]{cap: capacity, ttl: ttl, lst: list.New(), dict: make(map[string]*list.Element), now: time.Now}
}

// OnEvict：设置淘汰回调
func (c *LRU[V]) OnEvict(fn func(k string, v V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

func (c *LRU[V]) Get(k string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero V
	e, ok := c.dict[k]
	if !ok {
		return zero, false
	}
	it := e.Value.(entry[V])
	if c.expired(it) {
		c.remove(e)
		return zero, false
	}
	c.lst.MoveToFront(e)
	return it.v, true
}

// Set：写入并刷新 TTL；超出容量时淘汰队尾
func (c *LRU[V]) Set(k string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := entry[V]{k: k, v: v, exp: c.now().Add(c.ttl)}
	if e, ok := c.dict[k]; ok {
		e.Value = it
		c.lst.MoveToFront(e)
		return
	}
	c.dict[k] = c.lst.PushFront(it)
	for c.lst.Len() > c.cap {
		c.remove(c.lst.Back())
	}
}

func (c *LRU[V]) Delete(k string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.dict[k]; ok {
		c.remove(e)
	}
}

// Len：当前条目数（含尚未被访问清理的过期项）
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}

func (c *LRU[V]) expired(it entry[V]) bool {
	return c.ttl > 0 && !c.now().Before(it.exp)
}

func (c *LRU[V]) remove(e *list.Element) {
	it := e.Value.(entry[V])
	c.lst.Remove(e)
	delete(c.dict, it.k)
	if c.onEvict != nil {
		c.onEvict(it.k, it.v)
	}
}
