package relay

import (
	"encoding/base64"
	"net/url"
)

// CacheKey 将已验证的 URL 映射为缓存键。采用 base64 URL-safe 编码而非
// 摘要哈希：编码是单射的（不存在碰撞），同时保留原始 URL 便于排障。
// 输出只含 [A-Za-z0-9_-]，可以直接用作 map 键与单段文件名。
func CacheKey(u *url.URL) string {
	return base64.RawURLEncoding.EncodeToString([]byte(u.String()))
}
