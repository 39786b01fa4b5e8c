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

package notify

import (
	"context"
	"time"

	"github.com/go-arcade/quizhub/internal/pkg/notify/channel"
)

// ChannelType represents the notification channel type
type ChannelType string

const (
	ChannelTypeTelegram ChannelType = "telegram"
	ChannelTypeWhatsApp ChannelType = "whatsapp"
)

// Kind is the reason a message is sent.
type Kind string

const (
	KindRegistration   Kind = "registration"
	KindUnregistration Kind = "unregistration"
	KindSummary        Kind = "summary"
	KindPing           Kind = "ping"
)

// Gateway sends a text message to a chat.
type Gateway interface {
	Send(ctx context.Context, chatId, text string) error
}

// Config 通知配置
type Config struct {
	Telegram       channel.TelegramConfig
	WhatsApp       channel.WhatsAppConfig
	DefaultChannel ChannelType
	Timeout        int // 秒
}

func (c *Config) SetDefaults() {
	if c.DefaultChannel == "" {
		c.DefaultChannel = ChannelTypeTelegram
	}
	if c.Timeout <= 0 {
		c.Timeout = 10
	}
	c.Telegram.SetDefaults()
}

// RequestTimeout is the per-send timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
