// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/go-arcade/quizhub/internal/engine/bot"
	"github.com/go-arcade/quizhub/internal/engine/config"
	"github.com/go-arcade/quizhub/internal/engine/job"
	"github.com/go-arcade/quizhub/internal/engine/router"
	"github.com/go-arcade/quizhub/pkg/cache"
	"github.com/go-arcade/quizhub/pkg/cron"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/go-arcade/quizhub/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// cronLockTTL bounds how long one instance may hold a job's tick.
const cronLockTTL = 50 * time.Second

type App struct {
	Conf     *config.Manager
	Router   *router.Router
	Poller   *bot.Poller
	Metrics  *metrics.Server
	Reminder *job.ReminderJob
	Locker   cache.Locker
	Logger   *log.Logger
}

func NewApp(
	conf *config.Manager,
	rt *router.Router,
	poller *bot.Poller,
	metricsServer *metrics.Server,
	reminder *job.ReminderJob,
	locker cache.Locker,
	logger *log.Logger,
) *App {
	return &App{
		Conf:     conf,
		Router:   rt,
		Poller:   poller,
		Metrics:  metricsServer,
		Reminder: reminder,
		Locker:   locker,
		Logger:   logger,
	}
}

// Run serves HTTP, the telegram poller, metrics and the reminder scheduler
// until ctx is cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	cfg := a.Conf.Config()
	loc, err := cfg.Reminder.Location()
	if err != nil {
		return err
	}

	scheduler := cron.Init(cron.WithLocation(loc), cron.WithLocker(a.Locker, cronLockTTL))
	if err := a.Reminder.Register(scheduler); err != nil {
		return err
	}

	a.Conf.OnChange(a.applyChange)
	a.Conf.Watch()

	httpApp := a.Router.Router()
	addr := cfg.Http.Addr()
	shutdownTimeout := time.Duration(cfg.Http.ShutdownTimeout) * time.Second

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infow("HTTP listener started", "address", addr)
		if err := listen(httpApp, cfg.Http.TLS.CertFile, cfg.Http.TLS.KeyFile, addr); err != nil {
			log.Errorw("HTTP listener failed", "address", addr, "error", err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		if err := httpApp.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Errorw("HTTP server shutdown error", "error", err)
			return err
		}
		log.Info("HTTP server shut down gracefully")
		return nil
	})
	g.Go(func() error { return a.Poller.Run(ctx) })
	g.Go(func() error { return a.Metrics.Run(ctx) })
	g.Go(func() error {
		scheduler.Start()
		log.Infow("scheduler started", "jobs", scheduler.Names(), "timezone", loc.String())
		<-ctx.Done()
		// 等待正在执行的提醒结束
		scheduler.Stop()
		log.Info("scheduler stopped")
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info("server shutdown complete")
	return err
}

func listen(app *fiber.App, certFile, keyFile, addr string) error {
	if certFile != "" && keyFile != "" {
		return app.ListenTLS(addr, certFile, keyFile)
	}
	return app.Listen(addr)
}

// applyChange hot-applies the settings that can change without a restart.
func (a *App) applyChange(prev, next config.AppConfig) {
	if prev.Log.Level != next.Log.Level {
		log.SetLevel(next.Log.Level)
		log.Infow("log level changed", "from", prev.Log.Level, "to", next.Log.Level)
	}
	if prev.Reminder.Enabled != next.Reminder.Enabled {
		a.Reminder.SetEnabled(next.Reminder.Enabled)
	}
}
