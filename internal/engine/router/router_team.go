package router

import (
	"fmt"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) teamRouter(r fiber.Router, auth fiber.Handler) {
	teamGroup := r.Group("/teams", auth)
	{
		teamGroup.Post("/", rt.createTeam)
		teamGroup.Get("/", rt.listTeams)

		// 邀请码
		teamGroup.Get("/invite/:inviteCode", rt.getTeamByInviteCode)
		teamGroup.Post("/join", rt.joinTeam)
		teamGroup.Post("/leave", rt.leaveTeam)

		teamGroup.Get("/:teamId", rt.getTeam)
		teamGroup.Put("/:teamId", rt.updateTeam)
		teamGroup.Delete("/:teamId", rt.deleteTeam)

		// 成员
		teamGroup.Get("/:teamId/members", rt.listMembers)
		teamGroup.Post("/:teamId/members", rt.addMember)
		teamGroup.Put("/:teamId/members/:userId", rt.updateMemberRole)
		teamGroup.Delete("/:teamId/members/:userId", rt.removeMember)

		teamGroup.Get("/:teamId/events", rt.listTeamEvents)

		// 通知设置
		teamGroup.Get("/:teamId/notifications", rt.getNotificationSettings)
		teamGroup.Put("/:teamId/notifications", rt.updateNotificationSettings)
		teamGroup.Delete("/:teamId/notifications", rt.resetNotificationSettings)
		teamGroup.Post("/:teamId/notifications/ping", rt.pingTeamChat)
	}
}

func (rt *Router) createTeam(c *fiber.Ctx) error {
	var req model.CreateTeamReq
	if err := rt.bind(c, &req); err != nil {
		return fail(c, err)
	}

	uid := userId(c)
	team, err := rt.Services.Team.CreateTeam(c.UserContext(), &req, &uid)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, team)
}

func (rt *Router) listTeams(c *fiber.Ctx) error {
	teams, err := rt.Services.Team.ListTeams(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return detail(c, teams)
}

func (rt *Router) getTeam(c *fiber.Ctx) error {
	teamId, err := paramId(c, "teamId")
	if err != nil {
		return fail(c, err)
	}

	team, err := rt.Services.Team.GetTeamById(c.UserContext(), teamId)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, team)
}

func (rt *Router) getTeamByInviteCode(c *fiber.Ctx) error {
	team, err := rt.Services.Team.GetTeamByInviteCode(c.UserContext(), c.Params("inviteCode"))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, team)
}

func (rt *Router) updateTeam(c *fiber.Ctx) error {
	teamId, err := paramId(c, "teamId")
	if err != nil {
		return fail(c, err)
	}
	var req model.UpdateTeamReq
	if err := rt.bind(c, &req); err != nil {
		return fail(c, err)
	}

	team, err := rt.Services.Team.UpdateTeam(c.UserContext(), userId(c), teamId, &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, team)
}

func (rt *Router) deleteTeam(c *fiber.Ctx) error {
	teamId, err := paramId(c, "teamId")
	if err != nil {
		return fail(c, err)
	}

	if err := rt.Services.Team.DeleteTeam(c.UserContext(), userId(c), teamId); err != nil {
		return fail(c, err)
	}
	return operation(c)
}

func (rt *Router) joinTeam(c *fiber.Ctx) error {
	var req model.InviteCodeReq
	if err := rt.bind(c, &req); err != nil {
		return fail(c, err)
	}

	team, err := rt.Services.Team.JoinTeam(c.UserContext(), userId(c), req.InviteCode)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, team)
}

func (rt *Router) leaveTeam(c *fiber.Ctx) error {
	var req model.InviteCodeReq
	if err := rt.bind(c, &req); err != nil {
		return fail(c, err)
	}

	if err := rt.Services.Team.LeaveTeam(c.UserContext(), userId(c), req.InviteCode); err != nil {
		return fail(c, err)
	}
	return operation(c)
}

func (rt *Router) listMembers(c *fiber.Ctx) error {
	teamId, err := paramId(c, "teamId")
	if err != nil {
		return fail(c, err)
	}

	members, err := rt.Services.Team.ListMembers(c.UserContext(), teamId)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, members)
}

func (rt *Router) addMember(c *fiber.Ctx) error {
	teamId, err := paramId(c, "teamId")
	if err != nil {
		return fail(c, err)
	}
	var req model.AddMemberReq
	if err := rt.bind(c, &req); err != nil {
		return fail(c, err)
	}

	member, err := rt.Services.Team.AddMember(c.UserContext(), userId(c), teamId, &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, member)
}

func (rt *Router) updateMemberRole(c *fiber.Ctx) error {
	teamId, err := paramId(c, "teamId")
	if err != nil {
		return fail(c, err)
	}
	uid, err := paramId(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	var req model.UpdateMemberRoleReq
	if err := rt.bind(c, &req); err != nil {
		return fail(c, err)
	}

	if err := rt.Services.Team.UpdateMemberRole(c.UserContext(), userId(c), teamId, uid, req.Role); err != nil {
		return fail(c, err)
	}
	return operation(c)
}

func (rt *Router) removeMember(c *fiber.Ctx) error {
	teamId, err := paramId(c, "teamId")
	if err != nil {
		return fail(c, err)
	}
	uid, err := paramId(c, "userId")
	if err != nil {
		return fail(c, err)
	}

	if err := rt.Services.Team.RemoveMember(c.UserContext(), userId(c), teamId, uid); err != nil {
		return fail(c, err)
	}
	return operation(c)
}

// listTeamEvents 分页查询，Content-Range 形如 "events 0-9/42"
func (rt *Router) listTeamEvents(c *fiber.Ctx) error {
	teamId, err := paramId(c, "teamId")
	if err != nil {
		return fail(c, err)
	}

	q := &model.EventQuery{
		TeamId:        teamId,
		Page:          c.QueryInt("page", 0),
		Size:          c.QueryInt("size", 0),
		Sort:          c.Query("sort"),
		Search:        c.Query("search"),
		CurrentUserId: userId(c),
	}
	page, err := rt.Services.Event.ListByTeam(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentRange, contentRange(page))
	return detail(c, page)
}

func contentRange[T any](p *model.Page[T]) string {
	from := int64(p.Page) * int64(p.Size)
	to := from
	if n := len(p.Items); n > 0 {
		to = from + int64(n) - 1
	}
	return fmt.Sprintf("events %d-%d/%d", from, to, p.Total)
}
