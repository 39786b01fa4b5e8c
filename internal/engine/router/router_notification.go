package router

import (
	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) getNotificationSettings(c *fiber.Ctx) error {
	teamId, err := paramId(c, "teamId")
	if err != nil {
		return fail(c, err)
	}

	settings, err := rt.Services.NotificationSettings.GetSettings(c.UserContext(), teamId)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, settings)
}

func (rt *Router) updateNotificationSettings(c *fiber.Ctx) error {
	teamId, err := paramId(c, "teamId")
	if err != nil {
		return fail(c, err)
	}
	var req model.UpdateNotificationSettingsReq
	if err := rt.bind(c, &req); err != nil {
		return fail(c, err)
	}

	settings, err := rt.Services.NotificationSettings.UpdateSettings(c.UserContext(), userId(c), teamId, &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, settings)
}

func (rt *Router) resetNotificationSettings(c *fiber.Ctx) error {
	teamId, err := paramId(c, "teamId")
	if err != nil {
		return fail(c, err)
	}

	settings, err := rt.Services.NotificationSettings.ResetSettings(c.UserContext(), userId(c), teamId)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, settings)
}

// pingTeamChat 向团队聊天发送测试消息，返回是否成功
func (rt *Router) pingTeamChat(c *fiber.Ctx) error {
	teamId, err := paramId(c, "teamId")
	if err != nil {
		return fail(c, err)
	}

	ok, err := rt.Services.NotificationSettings.Ping(c.UserContext(), userId(c), teamId)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, fiber.Map{"ok": ok})
}
