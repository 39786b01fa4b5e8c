package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-arcade/quizhub/internal/pkg/notify/channel"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/go-arcade/quizhub/pkg/safe"
	"github.com/go-resty/resty/v2"
)

const (
	ModeWebhook = "webhook"
	ModePolling = "polling"

	pollTimeout  = 30 // 秒，长轮询
	pollBackoff  = 3 * time.Second
	pollMaxBatch = 100
)

type updatesResp struct {
	Ok          bool      `json:"ok"`
	Description string    `json:"description"`
	Result      []*Update `json:"result"`
}

// Poller pulls updates with getUpdates when the bot runs in polling mode.
type Poller struct {
	bot     *Bot
	client  *resty.Client
	url     string
	enabled bool
	offset  int64
	backoff time.Duration
}

func NewPoller(conf channel.TelegramConfig, bot *Bot) *Poller {
	conf.SetDefaults()
	return &Poller{
		bot:     bot,
		client:  resty.New().SetTimeout(time.Duration(pollTimeout+10) * time.Second),
		url:     fmt.Sprintf("%s/bot%s/getUpdates", strings.TrimRight(conf.APIBase, "/"), conf.BotToken),
		enabled: conf.BotToken != "" && conf.Mode == ModePolling,
		backoff: pollBackoff,
	}
}

// Run polls until ctx is done. It returns nil immediately unless polling is enabled.
func (p *Poller) Run(ctx context.Context) error {
	if !p.enabled {
		log.Info("telegram poller is disabled")
		return nil
	}
	log.Info("telegram poller started")

	for {
		if ctx.Err() != nil {
			log.Info("telegram poller stopped")
			return nil
		}

		updates, err := p.poll(ctx, pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Warnw("telegram getUpdates failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(p.backoff):
			}
			continue
		}
		p.dispatch(ctx, updates)
	}
}

func (p *Poller) dispatch(ctx context.Context, updates []*Update) {
	for _, u := range updates {
		if u.UpdateId >= p.offset {
			p.offset = u.UpdateId + 1
		}
		err := safe.DoErr(func() error { return p.bot.Handle(ctx, u) })
		if err != nil {
			log.Errorw("handle telegram update failed", "updateId", u.UpdateId, "error", err)
		}
	}
}

func (p *Poller) poll(ctx context.Context, timeout int) ([]*Update, error) {
	var result updatesResp
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"offset":          fmt.Sprint(p.offset),
			"timeout":         fmt.Sprint(timeout),
			"limit":           fmt.Sprint(pollMaxBatch),
			"allowed_updates": `["message"]`,
		}).
		SetResult(&result).
		SetError(&result).
		ForceContentType("application/json").
		Get(p.url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() || !result.Ok {
		return nil, fmt.Errorf("getUpdates: status=%d description=%s", resp.StatusCode(), result.Description)
	}
	return result.Result, nil
}
