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
	"errors"
	"fmt"
	"time"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/go-arcade/quizhub/pkg/metrics"
	"gorm.io/gorm"
)

// ErrNoChat is returned by Ping when the team has no chat configured.
var ErrNoChat = errors.New("team has no chat configured")

// Dispatcher composes team notifications and hands them to the gateway.
// Delivery is best effort: Dispatch never returns an error.
type Dispatcher struct {
	gateway  Gateway
	settings repo.INotificationSettingsRepository
	teams    repo.ITeamRepository
	timeout  time.Duration
	// loc 消息中的活动时间按此时区展示
	loc      *time.Location
}

func NewDispatcher(gateway Gateway, settings repo.INotificationSettingsRepository, teams repo.ITeamRepository, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		gateway:  gateway,
		settings: settings,
		teams:    teams,
		timeout:  timeout,
		loc:      time.UTC,
	}
}

// WithLocation sets the zone event dates are rendered in.
func (d *Dispatcher) WithLocation(loc *time.Location) *Dispatcher {
	if loc != nil {
		d.loc = loc
	}
	return d
}

// Dispatch sends a notification of the given kind about event. Summary
// expects event.Registrations to be loaded.
func (d *Dispatcher) Dispatch(ctx context.Context, event *model.Event, participant string, kind Kind) {
	s, err := d.settings.GetSettings(ctx, event.TeamId)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorw("load notification settings failed", "teamId", event.TeamId, "error", err)
		}
		return
	}

	switch kind {
	case KindRegistration:
		if !s.RegistrationNotificationEnabled {
			return
		}
	case KindUnregistration:
		if !s.UnregisterNotificationEnabled {
			return
		}
	}

	team, err := d.teams.GetTeamById(ctx, event.TeamId)
	if err != nil {
		log.Errorw("load team failed", "teamId", event.TeamId, "error", err)
		return
	}
	if team.ChatId == nil || *team.ChatId == "" {
		log.Debugw("team has no chat, skip notification", "teamId", team.ID, "kind", kind)
		return
	}

	var text string
	if kind == KindSummary {
		text = BuildEventSummary(event, d.loc)
	} else {
		text = BuildActionMessage(event, participant, kind, d.loc)
	}

	if err := d.send(ctx, *team.ChatId, text, kind); err != nil {
		log.Errorw("send notification failed", "teamId", team.ID, "eventId", event.ID, "kind", kind, "error", err)
	}
}

// Ping sends a test message to the team chat and reports the outcome.
func (d *Dispatcher) Ping(ctx context.Context, team *model.Team) error {
	if team.ChatId == nil || *team.ChatId == "" {
		return ErrNoChat
	}
	return d.send(ctx, *team.ChatId, PingText, KindPing)
}

func (d *Dispatcher) send(ctx context.Context, chatId, text string, kind Kind) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	ch := d.channelName(chatId)
	if err := d.gateway.Send(ctx, chatId, text); err != nil {
		metrics.NotificationsFailedTotal.WithLabelValues(ch, string(kind)).Inc()
		return fmt.Errorf("send to %s chat %s: %w", ch, chatId, err)
	}
	metrics.NotificationsSentTotal.WithLabelValues(ch, string(kind)).Inc()
	return nil
}

func (d *Dispatcher) channelName(chatId string) string {
	if r, ok := d.gateway.(interface{ ChannelFor(string) ChannelType }); ok {
		return string(r.ChannelFor(chatId))
	}
	return "default"
}
