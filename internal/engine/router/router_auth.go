package router

import (
	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) authRouter(r fiber.Router) {
	authGroup := r.Group("/auth")
	{
		authGroup.Post("/sign-up", rt.signUp)
		authGroup.Post("/sign-in", rt.signIn)
		authGroup.Post("/refresh", rt.refresh)
	}
}

func (rt *Router) signUp(c *fiber.Ctx) error {
	var req model.SignUpReq
	if err := rt.bind(c, &req); err != nil {
		return fail(c, err)
	}

	tokens, err := rt.Services.User.SignUp(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, tokens)
}

func (rt *Router) signIn(c *fiber.Ctx) error {
	var req model.SignInReq
	if err := rt.bind(c, &req); err != nil {
		return fail(c, err)
	}

	tokens, err := rt.Services.User.SignIn(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, tokens)
}

func (rt *Router) refresh(c *fiber.Ctx) error {
	var req model.RefreshReq
	if err := rt.bind(c, &req); err != nil {
		return fail(c, err)
	}

	tokens, err := rt.Services.User.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, tokens)
}
