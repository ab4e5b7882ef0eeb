package cache

import (
	"context"
	"errors"
)

// Manager 独占管理内存层与磁盘层，是唯一允许写入两层的组件。
// 查找顺序：内存 → 磁盘（命中则回填内存）→ miss；
// 写入顺序：先磁盘、后内存，磁盘失败时内存保持不变，
// 保证内存中出现的值一定已经落盘。
type Manager struct {
	memory *Memory
	disk   Store
}

// NewManager 组合两层缓存，memory 与 disk 均不可为空。
func NewManager(memory *Memory, disk Store) *Manager {
	return &Manager{
		memory: memory,
		disk:   disk,
	}
}

// Lookup 返回 key 对应的正文及命中层级；两层都未命中时返回 TierNone。
// 磁盘命中会以 write-through 方式回填内存层，后续请求免去磁盘 IO。
func (m *Manager) Lookup(ctx context.Context, key string) ([]byte, Tier, error) {
	if payload, ok := m.memory.Get(key); ok {
		return payload, TierMemory, nil
	}

	payload, err := m.disk.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, TierNone, nil
		}
		return nil, TierNone, err
	}

	m.memory.Set(key, payload)
	return payload, TierDisk, nil
}

// Store 持久化正文。磁盘写入失败时直接返回错误且不污染内存层。
func (m *Manager) Store(ctx context.Context, key string, payload []byte) error {
	if err := m.disk.Put(ctx, key, payload); err != nil {
		return err
	}
	m.memory.Set(key, payload)
	return nil
}

// Close 释放内存层的后台资源。
func (m *Manager) Close() {
	m.memory.Stop()
}
