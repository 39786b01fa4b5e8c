package bot

import (
	"time"

	"github.com/go-arcade/quizhub/internal/engine/service"
	"github.com/go-arcade/quizhub/internal/pkg/notify"
	"github.com/go-arcade/quizhub/internal/pkg/notify/channel"
	"github.com/google/wire"
)

// ProviderSet 机器人相关
var ProviderSet = wire.NewSet(
	NewSessionStore,
	ProvideBot,
	ProvidePoller,
)

// ProvideBot replies through the telegram channel directly, independent of
// the team notification routing.
func ProvideBot(services *service.Services, sessions *SessionStore, conf *notify.Config, loc *time.Location) *Bot {
	return NewBot(services, sessions, channel.NewTelegramChannel(conf.Telegram, conf.RequestTimeout())).WithLocation(loc)
}

func ProvidePoller(conf *notify.Config, bot *Bot) *Poller {
	return NewPoller(conf.Telegram, bot)
}
