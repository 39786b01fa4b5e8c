package channel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/go-arcade/quizhub/pkg/retry"
	"github.com/go-resty/resty/v2"
)

const DefaultTelegramAPI = "https://api.telegram.org"

// TelegramConfig 机器人配置，Mode 为 webhook 或 polling
type TelegramConfig struct {
	BotToken      string
	Mode          string
	WebhookSecret string
	APIBase       string
}

func (c *TelegramConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "webhook"
	}
	if c.APIBase == "" {
		c.APIBase = DefaultTelegramAPI
	}
}

// TelegramChannel sends messages through the Bot API.
type TelegramChannel struct {
	botToken string
	apiBase  string
	client   *resty.Client
}

func NewTelegramChannel(conf TelegramConfig, timeout time.Duration) *TelegramChannel {
	conf.SetDefaults()
	return &TelegramChannel{
		botToken: conf.BotToken,
		apiBase:  strings.TrimRight(conf.APIBase, "/"),
		client:   resty.New().SetTimeout(timeout),
	}
}

type telegramResp struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send sends message to a chat id.
func (c *TelegramChannel) Send(ctx context.Context, chatId, text string) error {
	if c.botToken == "" {
		return ErrNotConfigured
	}

	return retry.Do(ctx, func(ctx context.Context) error {
		var result telegramResp
		resp, err := c.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]any{
				"chat_id": chatId,
				"text":    text,
			}).
			SetResult(&result).
			SetError(&result).
			ForceContentType("application/json").
			Post(c.methodURL("sendMessage"))
		if err != nil {
			log.Warnw("telegram send request failed", "chatId", chatId, "error", err)
			return fmt.Errorf("telegram send: %w", err)
		}
		if resp.IsError() || !result.Ok {
			return classify(resp, fmt.Errorf("telegram send failed: status=%d description=%s", resp.StatusCode(), result.Description))
		}
		return nil
	}, retryOptions()...)
}

func (c *TelegramChannel) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.botToken, method)
}
