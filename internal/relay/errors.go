package relay

import (
	"errors"
	"fmt"
)

// 客户端错误：请求本身不合法，重试无意义。
var (
	ErrMissingURL     = errors.New("url query parameter required")
	ErrMalformedURL   = errors.New("malformed url")
	ErrHostNotAllowed = errors.New("host not allowed")
)

// UpstreamError 表示回源失败：网络错误、超时或非 2xx 状态。
// StatusCode 为 0 时代表请求本身未能完成。
type UpstreamError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: upstream status %d", e.URL, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StorageError 表示抓取与转换都成功、但落盘失败。
// 此时内存层保持不变，整个请求按失败处理。
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cache store: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
