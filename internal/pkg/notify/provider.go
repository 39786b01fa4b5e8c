package notify

import (
	"time"

	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/internal/pkg/notify/channel"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/google/wire"
)

// ProviderSet provides notify layer related dependencies
var ProviderSet = wire.NewSet(
	ProvideGateway,
	ProvideDispatcher,
	wire.Bind(new(Gateway), new(*Router)),
)

// ProvideGateway 按配置注册 telegram 与 whatsapp 通道
func ProvideGateway(conf *Config) *Router {
	conf.SetDefaults()
	r := NewRouter(conf.DefaultChannel)

	timeout := conf.RequestTimeout()
	if conf.Telegram.BotToken != "" {
		r.Register(ChannelTypeTelegram, channel.NewTelegramChannel(conf.Telegram, timeout))
	}
	if conf.WhatsApp.Enabled() {
		r.Register(ChannelTypeWhatsApp, channel.NewWhatsAppChannel(conf.WhatsApp, timeout))
	}

	log.Infow("notify gateway initialized",
		"default", conf.DefaultChannel,
		"telegram", conf.Telegram.BotToken != "",
		"whatsapp", conf.WhatsApp.Enabled())
	return r
}

func ProvideDispatcher(gateway Gateway, repos *repo.Repositories, conf *Config, loc *time.Location) *Dispatcher {
	return NewDispatcher(gateway, repos.NotificationSettings, repos.Team, conf.RequestTimeout()).WithLocation(loc)
}
