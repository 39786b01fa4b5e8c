package middleware

import (
	"strings"
	"time"

	"github.com/go-arcade/quizhub/pkg/http"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

type writerFunc func(p []byte) (int, error)

func (w writerFunc) Write(p []byte) (int, error) {
	return w(p)
}

// tips: 这里的路径是不需要记录日志的路径
var excludedPaths = []string{
	"/health",
	"/metrics",
	"/api/telegram/webhook",
}

func AccessLogMiddleware(httpConfig *http.Http) fiber.Handler {
	if httpConfig != nil && !httpConfig.AccessLog {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return logger.New(logger.Config{
		TimeFormat: time.RFC3339,
		TimeZone:   "Local",
		Format:     "rid:[${locals:request_id}] ip:[${ip}] method:[${method}] path:[${path}] status:[${status}] latency:[${latency}] query:[${queryParams}] error:[${error}] ua:[${ua}]",
		Next: func(c *fiber.Ctx) bool {
			path := c.Path()
			for _, rule := range excludedPaths {
				if path == rule {
					return true
				}
			}
			return false
		},
		Output: writerFunc(func(p []byte) (int, error) {
			log.Debug(strings.TrimSpace(string(p)))
			return len(p), nil
		}),
	})
}
