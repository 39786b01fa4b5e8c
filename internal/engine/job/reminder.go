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

package job

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-arcade/quizhub/internal/engine/consts"
	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/internal/pkg/notify"
	"github.com/go-arcade/quizhub/pkg/cron"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/go-arcade/quizhub/pkg/metrics"
	"github.com/go-arcade/quizhub/pkg/safe"
)

const windowLockPrefix = "quizhub:reminder:window:"

// Notifier sends event summaries.
type Notifier interface {
	Dispatch(ctx context.Context, event *model.Event, participant string, kind notify.Kind)
}

// ReminderJob sends a summary for every event that starts exactly
// hoursBefore (or the fixed offset) from the current minute. Windows are
// one minute wide and a missed tick is not caught up.
type ReminderJob struct {
	settings    repo.INotificationSettingsRepository
	events      repo.IEventRepository
	notifier    Notifier
	locker      cron.Locker
	spec        string
	fixedOffset int
	loc         *time.Location
	now         func() time.Time
	enabled     atomic.Bool
}

func NewReminderJob(conf *ReminderConfig, repos *repo.Repositories, notifier Notifier, locker cron.Locker) (*ReminderJob, error) {
	conf.SetDefaults()
	loc, err := conf.Location()
	if err != nil {
		return nil, err
	}

	j := &ReminderJob{
		settings:    repos.NotificationSettings,
		events:      repos.Event,
		notifier:    notifier,
		locker:      locker,
		spec:        conf.Spec,
		fixedOffset: conf.FixedOffsetHours,
		loc:         loc,
		now:         time.Now,
	}
	j.enabled.Store(conf.Enabled)
	return j, nil
}

// Register adds the job to the scheduler.
func (j *ReminderJob) Register(c *cron.Cron) error {
	if err := c.AddFunc(j.spec, consts.ReminderJobName, j.Run); err != nil {
		return fmt.Errorf("register reminder job: %w", err)
	}
	log.Infow("reminder job registered", "spec", j.spec, "timezone", j.loc.String(), "enabled", j.enabled.Load())
	return nil
}

// SetEnabled toggles the job without touching the schedule.
func (j *ReminderJob) SetEnabled(enabled bool) {
	if j.enabled.Swap(enabled) != enabled {
		log.Infow("reminder job toggled", "enabled", enabled)
	}
}

func (j *ReminderJob) Enabled() bool {
	return j.enabled.Load()
}

func (j *ReminderJob) Run() {
	if !j.enabled.Load() {
		return
	}
	j.Tick(context.Background(), j.now())
}

// Tick processes the minute containing now and returns the number of
// summaries dispatched.
func (j *ReminderJob) Tick(ctx context.Context, now time.Time) int {
	now = now.In(j.loc).Truncate(time.Minute)

	if j.locker != nil {
		// 同一分钟窗口只允许一个实例处理，锁不主动释放
		key := windowLockPrefix + strconv.FormatInt(now.Unix(), 10)
		_, ok, err := j.locker.TryLock(ctx, key, 2*time.Minute)
		if err != nil {
			log.Errorw("reminder window lock failed", "window", now, "error", err)
			return 0
		}
		if !ok {
			log.Debugw("reminder window already processed", "window", now)
			return 0
		}
	}

	list, err := j.settings.ListReminderEnabled(ctx)
	if err != nil {
		log.Errorw("list reminder settings failed", "error", err)
		return 0
	}

	sent := 0
	for _, s := range list {
		for _, offset := range Offsets(s.ReminderHoursBefore, j.fixedOffset) {
			sent += j.remind(ctx, s.TeamId, now, offset)
		}
	}
	if sent > 0 {
		log.Infow("reminders dispatched", "window", now.Format(time.DateTime), "count", sent)
	}
	return sent
}

func (j *ReminderJob) remind(ctx context.Context, teamId uint64, now time.Time, offset int) int {
	from := now.Add(time.Duration(offset) * time.Hour)
	events, err := j.events.ListEventsInWindow(ctx, teamId, from, from.Add(time.Minute))
	if err != nil {
		log.Errorw("list events for reminder failed", "teamId", teamId, "offset", offset, "error", err)
		return 0
	}

	sent := 0
	for _, e := range events {
		err := safe.Do(func() {
			j.notifier.Dispatch(ctx, e, "", notify.KindSummary)
		})
		if err != nil {
			log.Errorw("send reminder failed", "teamId", teamId, "eventId", e.ID, "error", err)
			continue
		}
		metrics.RemindersDispatchedTotal.WithLabelValues(strconv.Itoa(offset)).Inc()
		sent++
	}
	return sent
}

// Offsets returns the distinct positive reminder offsets in hours.
func Offsets(hoursBefore, fixed int) []int {
	var out []int
	if hoursBefore > 0 {
		out = append(out, hoursBefore)
	}
	if fixed > 0 && fixed != hoursBefore {
		out = append(out, fixed)
	}
	return out
}
