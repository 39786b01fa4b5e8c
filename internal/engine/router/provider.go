package router

import (
	"github.com/go-arcade/quizhub/internal/engine/bot"
	"github.com/go-arcade/quizhub/internal/engine/job"
	"github.com/go-arcade/quizhub/internal/engine/service"
	"github.com/go-arcade/quizhub/internal/pkg/notify"
	"github.com/go-arcade/quizhub/pkg/http"
	"github.com/google/wire"
)

// ProviderSet 提供路由相关的依赖
var ProviderSet = wire.NewSet(ProvideRouter)

// ProvideRouter 活动时间按提醒任务的时区解析
func ProvideRouter(httpConf *http.Http, services *service.Services, b *bot.Bot, notifyConf *notify.Config, reminder *job.ReminderConfig) (*Router, error) {
	loc, err := reminder.Location()
	if err != nil {
		return nil, err
	}
	return NewRouter(httpConf, services, b, notifyConf.Telegram.WebhookSecret, loc), nil
}
