package cache

import (
	"context"
	"errors"
)

// Store 负责管理磁盘缓存的读写。磁盘布局遵循：
//
//	<StoragePath>/<key>    # 转换后的脚本正文
//
// 每个条目仅由正文文件组成，key 即文件名，不附带索引或元数据文件。
type Store interface {
	// Get 以 read-if-exists 语义返回缓存正文。若不存在则返回 ErrNotFound，
	// 避免「先判断存在、再读取」之间的竞态。
	Get(ctx context.Context, key string) ([]byte, error)

	// Put 将正文写入缓存。实现需通过临时文件 + rename 保证写入原子性，
	// 并在失败时清理临时文件。
	Put(ctx context.Context, key string, payload []byte) error
}

// ErrNotFound 表示缓存不存在。
var ErrNotFound = errors.New("cache entry not found")

// Tier 标识一次查找命中的缓存层级，用于日志与 X-Cache 头。
type Tier string

const (
	// TierNone 表示两层都未命中。
	TierNone Tier = ""
	// TierMemory 表示内存层命中。
	TierMemory Tier = "memory"
	// TierDisk 表示磁盘层命中（并已回填内存层）。
	TierDisk Tier = "disk"
)
