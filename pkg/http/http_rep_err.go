package http

import (
	"github.com/gofiber/fiber/v2"
)

type ResponseErr struct {
	ErrCode int    `json:"code"`
	ErrMsg  any    `json:"errMsg"`
	Path    string `json:"path,omitempty"`
}

// WithRepErrMsg writes an error body with the HTTP status registered for code.
func WithRepErrMsg(c *fiber.Ctx, code int, errMsg string, path string) error {
	c.Status(StatusOf(code))
	return c.JSON(ResponseErr{
		ErrCode: code,
		ErrMsg:  errMsg,
		Path:    path,
	})
}

// WithRepErr writes a registered error response.
func WithRepErr(c *fiber.Ctx, rep *Response) error {
	return WithRepErrMsg(c, rep.Code, rep.Msg, c.Path())
}
