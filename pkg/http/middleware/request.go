package middleware

import (
	"github.com/go-arcade/quizhub/internal/engine/consts"
	"github.com/go-arcade/quizhub/pkg/id"
	"github.com/gofiber/fiber/v2"
)

const headerRequestId = "X-Request-Id"

func RequestMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestId := c.Get(headerRequestId)
		if requestId == "" {
			requestId = id.GetUUID()
		}
		c.Set(headerRequestId, requestId)
		c.Locals(consts.REQUEST_ID, requestId)
		return c.Next()
	}
}
