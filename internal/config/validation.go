package config

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var supportedTransformTargets = map[string]struct{}{
	"es5":    {},
	"es2015": {},
	"es2016": {},
	"es2017": {},
}

const supportedTransformTargetList = "es5|es2015|es2016|es2017"

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return newFieldError("ListenPort", "必须在 1-65535")
	}
	if c.StoragePath == "" {
		return newFieldError("StoragePath", "不能为空")
	}
	if c.CacheTTL.DurationValue() <= 0 {
		return newFieldError("CacheTTL", "必须大于 0")
	}
	if c.CacheMaxEntries <= 0 {
		return newFieldError("CacheMaxEntries", "必须大于 0")
	}
	if c.UpstreamTimeout.DurationValue() <= 0 {
		return newFieldError("UpstreamTimeout", "必须大于 0")
	}
	if len(c.AllowedHostList()) == 0 {
		return newFieldError("AllowedHosts", "至少需要一个允许的主机")
	}
	if _, ok := supportedTransformTargets[c.TransformTarget]; !ok {
		return newFieldError("TransformTarget", "仅支持 "+supportedTransformTargetList)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return newFieldError("LogLevel", "无法识别的日志级别")
	}
	if c.LogMaxSize < 0 {
		return newFieldError("LogMaxSize", "不能为负数")
	}
	if c.LogMaxBackups < 0 {
		return newFieldError("LogMaxBackups", "不能为负数")
	}

	return nil
}
