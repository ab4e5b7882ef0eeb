package server

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ScriptHandler describes the component responsible for serving the relay
// route. It allows injecting fake handlers during tests.
type ScriptHandler interface {
	Handle(fiber.Ctx) error
}

// ScriptHandlerFunc adapts a function to the ScriptHandler interface.
type ScriptHandlerFunc func(fiber.Ctx) error

// Handle makes ScriptHandlerFunc satisfy ScriptHandler.
func (f ScriptHandlerFunc) Handle(c fiber.Ctx) error {
	return f(c)
}

// AppOptions controls how the Fiber application should behave.
type AppOptions struct {
	Logger         *logrus.Logger
	Relay          ScriptHandler
	AllowedOrigins []string
	Production     bool
	ListenPort     int
}

const contextKeyRequestID = "_es5relay_request_id"

// RelayPath 是主路由的路径，供集成测试与文档复用。
const RelayPath = "/proxy-es5"

// NewApp builds a Fiber application with the middleware chain, the liveness
// probe, the relay route, and structured error handling.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Relay == nil {
		return nil, errors.New("relay handler is required")
	}
	if opts.ListenPort <= 0 {
		return nil, fmt.Errorf("invalid listen port: %d", opts.ListenPort)
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		ErrorHandler:  newErrorHandler(opts.Logger, opts.Production),
	})

	app.Use(recover.New())
	if len(opts.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: opts.AllowedOrigins,
			AllowMethods: []string{fiber.MethodGet, fiber.MethodHead},
		}))
	}
	app.Use(requestIDMiddleware())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("es5relay ok")
	})
	app.Get(RelayPath, opts.Relay.Handle)

	app.Use(notFoundHandler(opts.Logger))

	return app, nil
}

// requestIDMiddleware 为每个请求生成 UUID，并回写 X-Request-ID 头。
func requestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)
		return c.Next()
	}
}

// notFoundHandler 按调用方的 Accept 偏好返回 JSON 或纯文本的 404。
func notFoundHandler(logger *logrus.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		logger.WithFields(logrus.Fields{
			"action": "route_lookup",
			"path":   string(c.Request().URI().Path()),
		}).Warn("route not found")

		c.Status(fiber.StatusNotFound)
		if c.Accepts("json") != "" {
			return c.JSON(fiber.Map{"error": "not_found"})
		}
		return c.SendString("not found")
	}
}

// newErrorHandler 把未捕获的失败统一转成结构化响应；
// 诊断细节只在非生产模式下随响应返回。
func newErrorHandler(logger *logrus.Logger, production bool) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}

		logger.WithError(err).WithFields(logrus.Fields{
			"action": "request_error",
			"status": status,
			"path":   string(c.Request().URI().Path()),
		}).Error("request failed")

		body := fiber.Map{"error": "internal_error"}
		if !production {
			body["detail"] = err.Error()
		}
		return c.Status(status).JSON(body)
	}
}

// RequestID returns the request identifier stored by the middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}
