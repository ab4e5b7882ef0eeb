package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Memory 是内存缓存层：固定条目上限 + 固定 TTL。
// 过期时间锚定在写入时刻，读取只刷新 LRU 顺序、不会续命；
// 容量超限时淘汰最久未访问的条目。被淘汰/过期的条目对调用方
// 只表现为下一次 miss，从不作为错误暴露。
type Memory struct {
	items *ttlcache.Cache[string, []byte]
}

// NewMemory 创建内存缓存层并启动后台清理协程。
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	items := ttlcache.New[string, []byte](
		ttlcache.WithTTL[string, []byte](ttl),
		ttlcache.WithCapacity[string, []byte](uint64(maxEntries)),
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go items.Start()
	return &Memory{items: items}
}

// Get 返回 key 对应的正文；过期或不存在时 ok 为 false。
func (m *Memory) Get(key string) ([]byte, bool) {
	item := m.items.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Set 写入正文并以当前时刻为过期起点。
func (m *Memory) Set(key string, payload []byte) {
	m.items.Set(key, payload, ttlcache.DefaultTTL)
}

// Len 返回当前未过期条目数，主要供测试使用。
func (m *Memory) Len() int {
	return m.items.Len()
}

// Stop 终止后台清理协程。
func (m *Memory) Stop() {
	m.items.Stop()
}
