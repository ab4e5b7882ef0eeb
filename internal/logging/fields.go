package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action 等基础字段，便于不同入口复用。
func BaseFields(action string) logrus.Fields {
	return logrus.Fields{
		"action": action,
	}
}

// RequestFields 提供 url/缓存命中层级等字段，供中继请求日志复用。
func RequestFields(rawURL, cacheTier string, status int) logrus.Fields {
	return logrus.Fields{
		"url":        rawURL,
		"cache_tier": cacheTier,
		"status":     status,
	}
}
