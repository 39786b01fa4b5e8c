//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-arcade/quizhub/internal/bootstrap"
	"github.com/go-arcade/quizhub/internal/engine/bot"
	"github.com/go-arcade/quizhub/internal/engine/config"
	"github.com/go-arcade/quizhub/internal/engine/job"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/internal/engine/router"
	"github.com/go-arcade/quizhub/internal/engine/service"
	"github.com/go-arcade/quizhub/internal/pkg/notify"
	imagestore "github.com/go-arcade/quizhub/internal/pkg/storage"
	"github.com/go-arcade/quizhub/pkg/cache"
	"github.com/go-arcade/quizhub/pkg/database"
	"github.com/go-arcade/quizhub/pkg/http"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/go-arcade/quizhub/pkg/metrics"
	"github.com/go-arcade/quizhub/pkg/storage"
	"github.com/google/wire"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// 配置层
		config.ProviderSet,
		log.ProviderSet,
		http.ProviderSet,
		// 基础设施
		database.ProviderSet,
		cache.ProviderSet,
		storage.ProviderSet,
		imagestore.ProviderSet,
		// 仓储层
		repo.ProviderSet,
		// 通知与业务
		notify.ProviderSet,
		service.ProviderSet,
		job.ProviderSet,
		bot.ProviderSet,
		// 路由层
		router.ProviderSet,
		metrics.ProviderSet,
		// 应用层
		bootstrap.NewApp,
	))
}
