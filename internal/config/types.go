package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// Config 描述进程的全部运行时行为，启动时读取一次，不支持热更新。
type Config struct {
	ListenPort      int      `mapstructure:"ListenPort"`
	Production      bool     `mapstructure:"Production"`
	AllowedOrigins  string   `mapstructure:"AllowedOrigins"`
	AllowedHosts    string   `mapstructure:"AllowedHosts"`
	StoragePath     string   `mapstructure:"StoragePath"`
	CacheTTL        Duration `mapstructure:"CacheTTL"`
	CacheMaxEntries int      `mapstructure:"CacheMaxEntries"`
	UpstreamTimeout Duration `mapstructure:"UpstreamTimeout"`
	TransformTarget string   `mapstructure:"TransformTarget"`
	LogLevel        string   `mapstructure:"LogLevel"`
	LogFilePath     string   `mapstructure:"LogFilePath"`
	LogMaxSize      int      `mapstructure:"LogMaxSize"`
	LogMaxBackups   int      `mapstructure:"LogMaxBackups"`
	LogCompress     bool     `mapstructure:"LogCompress"`
}

// AllowedHostList 将逗号分隔的主机白名单拆分并统一小写。
func (c Config) AllowedHostList() []string {
	return splitCommaList(c.AllowedHosts, true)
}

// AllowedOriginList 将逗号分隔的跨域来源列表拆分，保留原始大小写。
func (c Config) AllowedOriginList() []string {
	return splitCommaList(c.AllowedOrigins, false)
}

func splitCommaList(raw string, lower bool) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		if lower {
			trimmed = strings.ToLower(trimmed)
		}
		result = append(result, trimmed)
	}
	return result
}

// Mode 输出 `production` 或 `development`，供启动日志字段使用。
func (c Config) Mode() string {
	if c.Production {
		return "production"
	}
	return "development"
}
