package router

import (
	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) userRouter(r fiber.Router, auth fiber.Handler) {
	userGroup := r.Group("/users", auth)
	{
		// 当前用户，需在 /:userId 之前注册
		userGroup.Get("/me", rt.currentUser)
		userGroup.Get("/", rt.listUsers)
		userGroup.Get("/:userId", rt.getUser)
		userGroup.Put("/:userId", rt.updateUser)
		userGroup.Delete("/:userId", rt.deleteUser)

		userGroup.Get("/:userId/teams", rt.listUserTeams)
		userGroup.Get("/:userId/teams/:teamId/role", rt.getUserRole)
	}
}

func (rt *Router) currentUser(c *fiber.Ctx) error {
	user, err := rt.Services.User.GetUserById(c.UserContext(), userId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, user)
}

func (rt *Router) listUsers(c *fiber.Ctx) error {
	users, err := rt.Services.User.ListUsers(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return detail(c, users)
}

func (rt *Router) getUser(c *fiber.Ctx) error {
	uid, err := paramId(c, "userId")
	if err != nil {
		return fail(c, err)
	}

	user, err := rt.Services.User.GetUserById(c.UserContext(), uid)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, user)
}

func (rt *Router) updateUser(c *fiber.Ctx) error {
	uid, err := paramId(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	var req model.UpdateUserReq
	if err := rt.bind(c, &req); err != nil {
		return fail(c, err)
	}

	user, err := rt.Services.User.UpdateUser(c.UserContext(), userId(c), uid, &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, user)
}

func (rt *Router) deleteUser(c *fiber.Ctx) error {
	uid, err := paramId(c, "userId")
	if err != nil {
		return fail(c, err)
	}

	if err := rt.Services.User.DeleteUser(c.UserContext(), userId(c), uid); err != nil {
		return fail(c, err)
	}
	return operation(c)
}

func (rt *Router) listUserTeams(c *fiber.Ctx) error {
	uid, err := paramId(c, "userId")
	if err != nil {
		return fail(c, err)
	}

	teams, err := rt.Services.Team.ListTeamsByUser(c.UserContext(), uid)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, teams)
}

func (rt *Router) getUserRole(c *fiber.Ctx) error {
	uid, err := paramId(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	teamId, err := paramId(c, "teamId")
	if err != nil {
		return fail(c, err)
	}

	role, err := rt.Services.Team.GetUserRole(c.UserContext(), uid, teamId)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, fiber.Map{"role": role})
}
