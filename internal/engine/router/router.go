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

package router

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/quizhub/internal/engine/bot"
	"github.com/go-arcade/quizhub/internal/engine/service"
	"github.com/go-arcade/quizhub/pkg/http"
	"github.com/go-arcade/quizhub/pkg/http/middleware"
	"github.com/go-arcade/quizhub/pkg/version"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Router struct {
	Http     *http.Http
	Services *service.Services
	Bot      *bot.Bot

	// webhookSecret 为空时不校验 X-Telegram-Bot-Api-Secret-Token
	webhookSecret string
	// loc 解析不带时区的活动时间
	loc      *time.Location
	validate *validator.Validate
}

func NewRouter(httpConf *http.Http, services *service.Services, b *bot.Bot, webhookSecret string, loc *time.Location) *Router {
	if loc == nil {
		loc = time.UTC
	}
	return &Router{
		Http:          httpConf,
		Services:      services,
		Bot:           b,
		webhookSecret: webhookSecret,
		loc:           loc,
		validate:      validator.New(),
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "QuizHub",
		DisableStartupMessage: true,
		ReadTimeout:           time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(rt.Http.IdleTimeout) * time.Second,
		BodyLimit:             rt.Http.BodyLimit * 1024 * 1024,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
	})

	app.Use(
		middleware.ExceptionMiddleware,
		middleware.RequestMiddleware(),
		middleware.CorsMiddleware(),
		middleware.AccessLogMiddleware(rt.Http),
		middleware.UnifiedResponseMiddleware(),
	)

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// 版本信息
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group("/api")
	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey)
	rt.authRouter(api)
	rt.userRouter(api, auth)
	rt.teamRouter(api, auth)
	rt.eventRouter(api, auth)
	rt.telegramRouter(api)

	// 找不到路径时的处理，必须在所有路由注册之后
	app.Use(func(c *fiber.Ctx) error {
		return http.WithRepErrMsg(c, http.NotFound.Code, "request path not found", c.Path())
	})

	return app
}
