package job

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/internal/pkg/notify"
	"github.com/go-arcade/quizhub/pkg/cache"
	"github.com/go-arcade/quizhub/pkg/cron"
	"github.com/go-arcade/quizhub/pkg/database"
	"github.com/go-arcade/quizhub/pkg/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []uint64
	panics map[uint64]bool
}

func (n *recordingNotifier) Dispatch(_ context.Context, e *model.Event, _ string, kind notify.Kind) {
	if n.panics[e.ID] {
		panic("gateway exploded")
	}
	if kind != notify.KindSummary {
		return
	}
	n.mu.Lock()
	n.events = append(n.events, e.ID)
	n.mu.Unlock()
}

var eventStart = time.Date(2024, 1, 5, 19, 0, 0, 0, time.UTC)

type fixture struct {
	ctx      context.Context
	repos    *repo.Repositories
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	return &fixture{
		ctx:      context.Background(),
		repos:    repo.NewRepositories(database.NewGormDB(dbtest.New(t))),
		notifier: &recordingNotifier{panics: map[uint64]bool{}},
	}
}

func (f *fixture) job(t *testing.T, locker cron.Locker) *ReminderJob {
	j, err := NewReminderJob(&ReminderConfig{Enabled: true, Timezone: "UTC", FixedOffsetHours: 1}, f.repos, f.notifier, locker)
	require.NoError(t, err)
	return j
}

func (f *fixture) team(t *testing.T, code string, hours int, enabled bool) *model.Team {
	team := &model.Team{Name: code, InviteCode: code}
	require.NoError(t, f.repos.Team.CreateTeam(f.ctx, team, nil))
	s, err := f.repos.NotificationSettings.GetSettings(f.ctx, team.ID)
	require.NoError(t, err)
	s.ReminderHoursBefore = hours
	s.EventReminderEnabled = enabled
	require.NoError(t, f.repos.NotificationSettings.SaveSettings(f.ctx, s))
	return team
}

func (f *fixture) event(t *testing.T, team *model.Team, at time.Time) *model.Event {
	e := &model.Event{Name: "Quiz", DateTime: at, Location: "Bar", TeamId: team.ID, RegistrationOpen: true}
	require.NoError(t, f.repos.Event.CreateEvent(f.ctx, e))
	return e
}

func TestReminderJob_Windowing(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "AAAAAA", 24, true)
	ev := f.event(t, team, eventStart)
	j := f.job(t, nil)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"exact offset", eventStart.Add(-24 * time.Hour), 1},
		{"seconds are truncated", eventStart.Add(-24*time.Hour + 42*time.Second), 1},
		{"one minute early", eventStart.Add(-24*time.Hour - time.Minute), 0},
		{"one minute late", eventStart.Add(-24*time.Hour + time.Minute), 0},
		{"fixed one hour offset", eventStart.Add(-time.Hour), 1},
		{"two hours before", eventStart.Add(-2 * time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(f.notifier.events)
			assert.Equal(t, tt.want, j.Tick(f.ctx, tt.now))
			assert.Len(t, f.notifier.events, before+tt.want)
			if tt.want > 0 {
				assert.Equal(t, ev.ID, f.notifier.events[len(f.notifier.events)-1])
			}
		})
	}
}

func TestReminderJob_SkipsDisabledTeams(t *testing.T) {
	f := newFixture(t)
	on := f.team(t, "AAAAAA", 3, true)
	off := f.team(t, "BBBBBB", 3, false)
	f.event(t, on, eventStart)
	f.event(t, off, eventStart)
	// event of an enabled team at another time
	f.event(t, on, eventStart.Add(time.Hour))

	assert.Equal(t, 1, f.job(t, nil).Tick(f.ctx, eventStart.Add(-3*time.Hour)))
}

func TestReminderJob_OffsetsCoincide(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "AAAAAA", 1, true)
	f.event(t, team, eventStart)

	assert.Equal(t, 1, f.job(t, nil).Tick(f.ctx, eventStart.Add(-time.Hour)))
}

func TestReminderJob_FailureDoesNotAbortTick(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "AAAAAA", 24, true)
	other := f.team(t, "BBBBBB", 24, true)
	bad := f.event(t, team, eventStart)
	good1 := f.event(t, team, eventStart.Add(30*time.Second))
	good2 := f.event(t, other, eventStart)
	f.notifier.panics[bad.ID] = true

	assert.Equal(t, 2, f.job(t, nil).Tick(f.ctx, eventStart.Add(-24*time.Hour)))
	assert.ElementsMatch(t, []uint64{good1.ID, good2.ID}, f.notifier.events)
}

func TestReminderJob_WindowLock(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "AAAAAA", 24, true)
	f.event(t, team, eventStart)

	locker := cache.NewLocalLocker()
	a, b := f.job(t, locker), f.job(t, locker)
	now := eventStart.Add(-24 * time.Hour)

	assert.Equal(t, 1, a.Tick(f.ctx, now))
	assert.Equal(t, 0, b.Tick(f.ctx, now.Add(10*time.Second)))
	assert.Len(t, f.notifier.events, 1)
}

func TestReminderJob_Disabled(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "AAAAAA", 24, true)
	f.event(t, team, eventStart)

	j := f.job(t, nil)
	j.now = func() time.Time { return eventStart.Add(-24 * time.Hour) }
	j.SetEnabled(false)
	j.Run()
	assert.Empty(t, f.notifier.events)

	j.SetEnabled(true)
	j.Run()
	assert.Len(t, f.notifier.events, 1)
}

func TestReminderJob_Register(t *testing.T) {
	f := newFixture(t)
	c := cron.New(cron.WithLocation(time.UTC))
	require.NoError(t, f.job(t, nil).Register(c))
	assert.Contains(t, c.Names(), "event-reminder")
}

func TestOffsets(t *testing.T) {
	assert.Equal(t, []int{24, 1}, Offsets(24, 1))
	assert.Equal(t, []int{1}, Offsets(1, 1))
	assert.Equal(t, []int{24}, Offsets(24, 0))
	assert.Empty(t, Offsets(0, 0))
}
