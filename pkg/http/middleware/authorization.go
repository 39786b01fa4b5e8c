package middleware

import (
	"errors"
	"strings"

	"github.com/go-arcade/quizhub/internal/engine/consts"
	"github.com/go-arcade/quizhub/pkg/http"
	"github.com/go-arcade/quizhub/pkg/http/jwt"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// AuthorizationMiddleware requires a valid bearer access token.
func AuthorizationMiddleware(secretKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get(fiber.HeaderAuthorization)
		if aToken == "" {
			return http.WithRepErrMsg(c, http.TokenBeEmpty.Code, http.TokenBeEmpty.Msg, c.Path())
		}

		// 按空格分割
		parts := strings.SplitN(aToken, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return http.WithRepErrMsg(c, http.InvalidToken.Code, http.InvalidToken.Msg, c.Path())
		}

		claims, err := jwt.ParseToken(parts[1], secretKey)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
			}
			log.Debugw("parse token failed", "error", err)
			return http.WithRepErrMsg(c, http.InvalidToken.Code, http.InvalidToken.Msg, c.Path())
		}

		c.Locals(consts.CLAIMS, claims)
		return c.Next()
	}
}

// CurrentUserId returns the authenticated user id.
func CurrentUserId(c *fiber.Ctx) (uint64, bool) {
	claims, ok := c.Locals(consts.CLAIMS).(*jwt.AuthClaims)
	if !ok || claims == nil {
		return 0, false
	}
	return claims.UserId, true
}
