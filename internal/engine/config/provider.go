package config

import (
	"time"

	"github.com/go-arcade/quizhub/internal/engine/job"
	"github.com/go-arcade/quizhub/internal/pkg/notify"
	"github.com/go-arcade/quizhub/pkg/cache"
	"github.com/go-arcade/quizhub/pkg/database"
	"github.com/go-arcade/quizhub/pkg/http"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/go-arcade/quizhub/pkg/metrics"
	"github.com/go-arcade/quizhub/pkg/storage"
	"github.com/google/wire"
)

// ProviderSet 提供配置相关的依赖
var ProviderSet = wire.NewSet(
	Load,
	ProvideAppConfig,
	ProvideLogConf,
	ProvideHttpConf,
	ProvideDatabaseConf,
	ProvideRedisConf,
	ProvideStorageConf,
	ProvideNotifyConf,
	ProvideReminderConf,
	ProvideMetricsConf,
	ProvideLocation,
)

func ProvideAppConfig(m *Manager) *AppConfig {
	cfg := m.Config()
	return &cfg
}

func ProvideLogConf(c *AppConfig) *log.Conf { return &c.Log }
func ProvideHttpConf(c *AppConfig) *http.Http { return &c.Http }
func ProvideDatabaseConf(c *AppConfig) database.Database { return c.Database }
func ProvideRedisConf(c *AppConfig) cache.Redis { return c.Redis }
func ProvideStorageConf(c *AppConfig) *storage.Storage { return &c.Storage }
func ProvideNotifyConf(c *AppConfig) *notify.Config { return &c.Notify }
func ProvideReminderConf(c *AppConfig) *job.ReminderConfig { return &c.Reminder }
func ProvideMetricsConf(c *AppConfig) metrics.MetricsConfig { return c.Metrics }

// ProvideLocation 活动时间的参考时区，与提醒任务一致
func ProvideLocation(c *AppConfig) (*time.Location, error) {
	return c.Reminder.Location()
}
