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

// WhatsAppConfig Green API 实例配置
type WhatsAppConfig struct {
	BaseURL    string
	InstanceId string
	Token      string
}

func (c WhatsAppConfig) Enabled() bool {
	return c.BaseURL != "" && c.InstanceId != "" && c.Token != ""
}

// WhatsAppChannel sends group messages through Green API.
type WhatsAppChannel struct {
	conf   WhatsAppConfig
	client *resty.Client
}

func NewWhatsAppChannel(conf WhatsAppConfig, timeout time.Duration) *WhatsAppChannel {
	conf.BaseURL = strings.TrimRight(conf.BaseURL, "/")
	return &WhatsAppChannel{
		conf:   conf,
		client: resty.New().SetTimeout(timeout),
	}
}

type greenApiResp struct {
	IdMessage string `json:"idMessage"`
	Message   string `json:"message"`
}

func (c *WhatsAppChannel) Send(ctx context.Context, chatId, text string) error {
	if !c.conf.Enabled() {
		return ErrNotConfigured
	}

	chatId = NormalizeWhatsAppChatId(chatId)
	url := fmt.Sprintf("%s/waInstance%s/sendMessage/%s", c.conf.BaseURL, c.conf.InstanceId, c.conf.Token)

	return retry.Do(ctx, func(ctx context.Context) error {
		var result greenApiResp
		resp, err := c.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]string{
				"chatId":  chatId,
				"message": text,
			}).
			SetResult(&result).
			SetError(&result).
			ForceContentType("application/json").
			Post(url)
		if err != nil {
			log.Warnw("whatsapp send request failed", "chatId", chatId, "error", err)
			return fmt.Errorf("whatsapp send: %w", err)
		}
		if resp.IsError() {
			return classify(resp, fmt.Errorf("whatsapp send failed: status=%d message=%s", resp.StatusCode(), result.Message))
		}
		return nil
	}, retryOptions()...)
}

// NormalizeWhatsAppChatId strips the "wa:" prefix and turns a bare group id
// into <id>@g.us.
func NormalizeWhatsAppChatId(chatId string) string {
	chatId = strings.TrimPrefix(chatId, "wa:")
	if strings.HasSuffix(chatId, "@g.us") || strings.HasSuffix(chatId, "@c.us") {
		return chatId
	}
	return chatId + "@g.us"
}
