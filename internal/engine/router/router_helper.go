package router

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-arcade/quizhub/internal/engine/consts"
	"github.com/go-arcade/quizhub/internal/engine/service"
	"github.com/go-arcade/quizhub/pkg/http"
	"github.com/go-arcade/quizhub/pkg/http/jwt"
	"github.com/go-arcade/quizhub/pkg/http/middleware"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/gofiber/fiber/v2"
)

var errBinding = errors.New("bad request")

// errResponse maps service and token errors to response codes.
func errResponse(err error) *http.Response {
	switch {
	case errors.Is(err, service.ErrUserNotExist):
		return http.UserNotExist
	case errors.Is(err, service.ErrIncorrectPassword):
		return http.UserIncorrectPassword
	case errors.Is(err, jwt.ErrTokenExpired):
		return http.TokenExpired
	case errors.Is(err, jwt.ErrInvalidToken):
		return http.InvalidToken
	case errors.Is(err, service.ErrNotFound):
		return http.NotFound
	case errors.Is(err, service.ErrAccessDenied):
		return http.PermissionDenied
	case errors.Is(err, service.ErrConflict):
		return http.Conflict
	case errors.Is(err, service.ErrValidation), errors.Is(err, errBinding):
		return http.BadRequest
	case errors.Is(err, service.ErrExternalService):
		return http.ExternalServiceFailed
	default:
		return http.InternalError
	}
}

func fail(c *fiber.Ctx, err error) error {
	rep := errResponse(err)
	if rep == http.InternalError {
		log.Errorw("request failed", "path", c.Path(), "rid", c.Locals(consts.REQUEST_ID), "error", err)
		return http.WithRepErr(c, rep)
	}
	return http.WithRepErrMsg(c, rep.Code, err.Error(), c.Path())
}

// bind parses the body and runs struct validation.
func (rt *Router) bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fmt.Errorf("%w: %v", errBinding, err)
	}
	if err := rt.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errBinding, err)
	}
	return nil
}

func paramId(c *fiber.Ctx, name string) (uint64, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", errBinding, name, c.Params(name))
	}
	return v, nil
}

func userId(c *fiber.Ctx) uint64 {
	uid, _ := middleware.CurrentUserId(c)
	return uid
}

func detail(c *fiber.Ctx, v any) error {
	c.Locals(consts.DETAIL, v)
	return nil
}

func operation(c *fiber.Ctx) error {
	c.Locals(consts.OPERATION, "")
	return nil
}
