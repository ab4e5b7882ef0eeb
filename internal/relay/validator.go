package relay

import (
	"fmt"
	"net/url"
	"strings"
)

// Allowlist 保存允许回源的主机集合，条目在构造时统一小写。
// Validate 是纯函数：除返回值外没有任何副作用。
type Allowlist struct {
	hosts map[string]struct{}
}

// NewAllowlist 根据配置构建白名单，忽略空白条目。
func NewAllowlist(hosts []string) Allowlist {
	set := make(map[string]struct{}, len(hosts))
	for _, host := range hosts {
		trimmed := strings.ToLower(strings.TrimSpace(host))
		if trimmed == "" {
			continue
		}
		set[trimmed] = struct{}{}
	}
	return Allowlist{hosts: set}
}

// Len 返回白名单条目数。
func (a Allowlist) Len() int {
	return len(a.hosts)
}

// Validate 校验原始输入是一个合法的绝对 http(s) URL，且主机在白名单内。
// 主机名在比较前统一小写，路径与查询串原样保留。
func (a Allowlist) Validate(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrMissingURL
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedURL, trimmed)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrMalformedURL, parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrMalformedURL)
	}

	host := strings.ToLower(parsed.Hostname())
	if _, ok := a.hosts[host]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, host)
	}
	return parsed, nil
}
