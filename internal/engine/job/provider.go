package job

import (
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/internal/pkg/notify"
	"github.com/go-arcade/quizhub/pkg/cache"
	"github.com/google/wire"
)

// ProviderSet 定时任务
var ProviderSet = wire.NewSet(ProvideReminderJob)

// ProvideReminderJob 提醒任务，窗口锁复用缓存层的锁实现
func ProvideReminderJob(conf *ReminderConfig, repos *repo.Repositories, dispatcher *notify.Dispatcher, locker cache.Locker) (*ReminderJob, error) {
	return NewReminderJob(conf, repos, dispatcher, locker)
}
