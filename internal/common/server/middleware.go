package server

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/CarTrax/CarTrax/internal/common/logger"
	"github.com/CarTrax/CarTrax/internal/common/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// Recovery keeps a handler panic from taking the process down, and logs the
// stack.
func Recovery(log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if log != nil {
					log.Errorf("panic in http handler path=%s err=%v stack=%s", c.Path(), r, string(debug.Stack()))
				}
				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
			}
		}()
		return c.Next()
	}
}

// AccessLog records cost/status for every request.
func AccessLog(log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		cost := time.Since(start)

		if log != nil {
			fields := map[string]interface{}{
				"method": c.Method(),
				"path":   c.Path(),
				"status": c.Response().StatusCode(),
				"cost":   cost.String(),
			}
			if err != nil {
				fields["error"] = err.Error()
				log.WithFields(fields).Warn("http request failed")
			} else {
				log.WithFields(fields).Info("http request ok")
			}
		}

		return err
	}
}

// Tracing is a minimal OpenTracing server middleware:
// - extracts a parent span context from the inbound HTTP headers
// - starts a server span and stores it in the user context, so handlers can
//   use opentracing.StartSpanFromContext downstream
func Tracing(serviceName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tracer := opentracing.GlobalTracer()

		header := make(http.Header)
		for k, vs := range c.GetReqHeaders() {
			for _, v := range vs {
				header.Add(k, v)
			}
		}

		var span opentracing.Span
		operation := c.Method() + " " + c.Path()
		if parent, err := tracer.Extract(opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(header)); err == nil {
			span = tracer.StartSpan(operation, ext.RPCServerOption(parent))
		} else {
			span = tracer.StartSpan(operation)
		}
		defer span.Finish()

		ext.SpanKindRPCServer.Set(span)
		ext.HTTPMethod.Set(span, c.Method())
		ext.HTTPUrl.Set(span, c.OriginalURL())
		ext.Component.Set(span, "http")
		if serviceName != "" {
			span.SetTag("service", serviceName)
		}

		c.SetUserContext(opentracing.ContextWithSpan(c.UserContext(), span))
		err := c.Next()

		ext.HTTPStatusCode.Set(span, uint16(c.Response().StatusCode()))
		if err != nil {
			ext.Error.Set(span, true)
		}
		return err
	}
}

// RateLimit rejects requests with 429 once the limiter runs dry.
func RateLimit(limiter middleware.RateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !limiter.Allow(c.Context()) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
		}
		return c.Next()
	}
}
