package router

import (
	"crypto/subtle"

	"github.com/go-arcade/quizhub/internal/engine/bot"
	"github.com/go-arcade/quizhub/pkg/http"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/gofiber/fiber/v2"
)

const headerTelegramSecret = "X-Telegram-Bot-Api-Secret-Token"

func (rt *Router) telegramRouter(r fiber.Router) {
	r.Post("/telegram/webhook", rt.telegramWebhook)
}

// telegramWebhook always answers 200 once the update is accepted so that
// telegram does not redeliver it.
func (rt *Router) telegramWebhook(c *fiber.Ctx) error {
	if rt.Bot == nil {
		return http.WithRepErr(c, http.NotFound)
	}
	if rt.webhookSecret != "" &&
		subtle.ConstantTimeCompare([]byte(c.Get(headerTelegramSecret)), []byte(rt.webhookSecret)) != 1 {
		return http.WithRepErr(c, http.Unauthorized)
	}

	var update bot.Update
	if err := c.BodyParser(&update); err != nil {
		return http.WithRepErrMsg(c, http.BadRequest.Code, err.Error(), c.Path())
	}
	if err := rt.Bot.Handle(c.UserContext(), &update); err != nil {
		log.Errorw("handle telegram update failed", "updateId", update.UpdateId, "error", err)
	}
	return operation(c)
}
