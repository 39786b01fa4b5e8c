package middleware

import (
	"github.com/go-arcade/quizhub/internal/engine/consts"
	httpx "github.com/go-arcade/quizhub/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// UnifiedResponseMiddleware wraps handler results set in Locals into the
// {code, detail, msg} envelope. Error responses are written by handlers.
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusBadRequest {
			return nil
		}

		// 业务逻辑正确, 设置响应数据
		if detail := c.Locals(consts.DETAIL); detail != nil {
			return httpx.WithRepJSON(c, detail)
		}

		// 业务逻辑正确, 无响应数据, 只返回结果
		if c.Locals(consts.OPERATION) != nil {
			return httpx.WithRepNotDetail(c)
		}
		return nil
	}
}
