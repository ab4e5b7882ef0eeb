package relay

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/es5relay/es5relay/internal/version"
)

// Fetcher 负责从远端源站取回原始脚本，测试中以假实现替换。
type Fetcher interface {
	Fetch(ctx context.Context, target *url.URL) ([]byte, error)
}

// HTTPFetcher 复用共享的 http.Client（超时由 client 统一控制），
// 单次 GET，不做重试。
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher 构造 HTTPFetcher，client 不能为空。
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// Fetch 执行一次回源请求。网络失败、超时与非 2xx 状态统一折叠为
// *UpstreamError，由上层映射成网关类错误响应。
func (f *HTTPFetcher) Fetch(ctx context.Context, target *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, &UpstreamError{URL: target.String(), Err: err}
	}
	req.Header.Set("User-Agent", "es5relay/"+version.Version)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{URL: target.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &UpstreamError{URL: target.String(), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{URL: target.String(), Err: err}
	}
	return body, nil
}
