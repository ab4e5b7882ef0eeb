package relay

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/es5relay/es5relay/internal/cache"
	"github.com/es5relay/es5relay/internal/logging"
	"github.com/es5relay/es5relay/internal/server"
	"github.com/es5relay/es5relay/internal/transform"
)

const (
	scriptContentType = "application/javascript; charset=utf-8"
	// 已缓存的正文对同一个键永远不变，可以放心给出一年期 immutable。
	immutableCacheControl = "public, max-age=31536000, immutable"
	cacheTierHeader       = "X-Relay-Cache"
)

// Handler 负责 orchestrate “校验 → 查缓存 → 回源 → 转换 → 落盘” 的全流程，
// 对外暴露 Fiber handler，内部复用共享的缓存管理器与 Fetcher。
type Handler struct {
	logger      *logrus.Logger
	allowlist   Allowlist
	cache       *cache.Manager
	fetcher     Fetcher
	transformer transform.Transformer
	flights     singleflight.Group
}

// NewHandler 组装中继处理器，所有依赖显式注入，便于测试替换。
func NewHandler(
	logger *logrus.Logger,
	allowlist Allowlist,
	manager *cache.Manager,
	fetcher Fetcher,
	transformer transform.Transformer,
) *Handler {
	return &Handler{
		logger:      logger,
		allowlist:   allowlist,
		cache:       manager,
		fetcher:     fetcher,
		transformer: transformer,
	}
}

// Handle 实现主路由。任何阶段出错都会输出结构化日志并返回对应状态码。
func (h *Handler) Handle(c fiber.Ctx) error {
	started := time.Now()
	requestID := server.RequestID(c)
	raw := c.Query("url")

	validated, err := h.allowlist.Validate(raw)
	if err != nil {
		return h.respondRejected(c, raw, requestID, started, err)
	}

	key := CacheKey(validated)
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	payload, tier, err := h.cache.Lookup(ctx, key)
	if err != nil {
		h.logResult(raw, string(cache.TierNone), fiber.StatusInternalServerError, started, err)
		return writeError(c, fiber.StatusInternalServerError, "cache_read_failed")
	}
	if tier != cache.TierNone {
		return h.serveScript(c, raw, payload, string(tier), requestID, started)
	}

	// 并发 miss 通过 singleflight 折叠成一次回源，所有等待方共享结果。
	// 领队请求断开不应连累同一个 key 上的等待方，且结果无论如何都值得
	// 落盘，因此回填脱离请求自身的取消信号执行。
	value, err, _ := h.flights.Do(key, func() (interface{}, error) {
		return h.fillCache(context.WithoutCancel(ctx), validated, key)
	})
	if err != nil {
		return h.respondFillFailed(c, raw, requestID, started, err)
	}

	return h.serveScript(c, raw, value.([]byte), "miss", requestID, started)
}

// fillCache 执行一次完整的 miss 流水线：回源 → 转换 → 两层落盘。
// 回源或转换失败时缓存保持原样，绝不写入半成品。
func (h *Handler) fillCache(ctx context.Context, validated *url.URL, key string) ([]byte, error) {
	raw, err := h.fetcher.Fetch(ctx, validated)
	if err != nil {
		return nil, err
	}

	transformed, err := h.transformer.Transform(string(raw))
	if err != nil {
		return nil, err
	}

	payload := []byte(transformed)
	if err := h.cache.Store(ctx, key, payload); err != nil {
		return nil, &StorageError{Err: err}
	}
	return payload, nil
}

func (h *Handler) serveScript(c fiber.Ctx, raw string, payload []byte, tier, requestID string, started time.Time) error {
	c.Set(fiber.HeaderContentType, scriptContentType)
	c.Set(fiber.HeaderCacheControl, immutableCacheControl)
	c.Set(cacheTierHeader, tier)
	if requestID != "" {
		c.Set("X-Request-ID", requestID)
	}

	h.logResult(raw, tier, fiber.StatusOK, started, nil)
	return c.Status(fiber.StatusOK).Send(payload)
}

func (h *Handler) respondRejected(c fiber.Ctx, raw, requestID string, started time.Time, err error) error {
	status := fiber.StatusBadRequest
	code := "invalid_url"
	if errors.Is(err, ErrHostNotAllowed) {
		status = fiber.StatusForbidden
		code = "host_not_allowed"
	}

	h.logResult(raw, string(cache.TierNone), status, started, err)
	if requestID != "" {
		c.Set("X-Request-ID", requestID)
	}
	return writeError(c, status, code)
}

func (h *Handler) respondFillFailed(c fiber.Ctx, raw, requestID string, started time.Time, err error) error {
	status := fiber.StatusInternalServerError
	code := "internal_error"

	var upstreamErr *UpstreamError
	var transformErr *transform.Error
	var storageErr *StorageError
	switch {
	case errors.As(err, &upstreamErr):
		status = fiber.StatusBadGateway
		code = "upstream_fetch_failed"
	case errors.As(err, &transformErr):
		status = fiber.StatusBadGateway
		code = "transform_failed"
	case errors.As(err, &storageErr):
		status = fiber.StatusInternalServerError
		code = "cache_write_failed"
	}

	h.logResult(raw, string(cache.TierNone), status, started, err)
	if requestID != "" {
		c.Set("X-Request-ID", requestID)
	}
	return writeError(c, status, code)
}

func (h *Handler) logResult(raw, tier string, status int, started time.Time, err error) {
	fields := logging.RequestFields(raw, tier, status)
	fields["action"] = "relay"
	fields["duration_ms"] = time.Since(started).Milliseconds()

	entry := h.logger.WithFields(fields)
	if err != nil {
		entry.WithError(err).Warn("relay_failed")
		return
	}
	entry.Info("relay_ok")
}

func writeError(c fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(fiber.Map{"error": code})
}
