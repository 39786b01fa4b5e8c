package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration_EndToEnd(t *testing.T) {
	e := newTestEnv(t)
	mod := e.user(t, "moderator", model.GlobalRoleUser)
	alice := e.user(t, "alice", model.GlobalRoleUser)
	stranger := e.user(t, "stranger", model.GlobalRoleUser)

	// team with default settings and the creator as moderator
	team := e.team(t, "Quiz Club", ptr("chat1"), mod)
	settings, err := e.svc.NotificationSettings.GetSettings(e.ctx, team.ID)
	require.NoError(t, err)
	assert.True(t, settings.RegistrationNotificationEnabled)
	assert.True(t, settings.UnregisterNotificationEnabled)
	assert.True(t, settings.EventReminderEnabled)
	assert.Equal(t, 24, settings.ReminderHoursBefore)
	role, err := e.svc.Team.GetUserRole(e.ctx, mod.ID, team.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TeamRoleModerator, role)

	ev := e.event(t, mod, team, "Friday Quiz", time.Date(2024, 1, 5, 19, 0, 0, 0, time.UTC))

	reg, err := e.svc.Registration.Register(e.ctx, ev.ID, "Alice A.", alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, registrationCount(t, e, ev.ID))
	msgs := e.gw.sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, "chat1", msgs[0].chatId)
	assert.Contains(t, msgs[0].text, "Регистрация на мероприятие")
	assert.Contains(t, msgs[0].text, "Alice A.")

	_, err = e.svc.Registration.Register(e.ctx, ev.ID, "Alice A.", alice.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualValues(t, 1, registrationCount(t, e, ev.ID))

	err = e.svc.Registration.Unregister(e.ctx, ev.ID, reg.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.EqualValues(t, 1, registrationCount(t, e, ev.ID))

	require.NoError(t, e.svc.Registration.Unregister(e.ctx, ev.ID, reg.ID, mod.ID))
	assert.Zero(t, registrationCount(t, e, ev.ID))
	msgs = e.gw.sent()
	require.Len(t, msgs, 2)
	assert.Equal(t, "chat1", msgs[1].chatId)
	assert.Contains(t, msgs[1].text, "Отмена регистрации")
}

func TestRegistration_Uniqueness(t *testing.T) {
	e := newTestEnv(t)
	mod := e.user(t, "mod", model.GlobalRoleUser)
	bob := e.user(t, "bob", model.GlobalRoleUser)
	team := e.team(t, "Quiz Club", nil, mod)
	ev := e.event(t, mod, team, "Friday Quiz", quizNight)
	other := e.event(t, mod, team, "Saturday Quiz", quizNight.Add(24*time.Hour))

	_, err := e.svc.Registration.Register(e.ctx, ev.ID, "Alice A.", mod.ID)
	require.NoError(t, err)

	for _, name := range []string{"Alice A.", "alice a.", "  ALICE   A. "} {
		_, err = e.svc.Registration.Register(e.ctx, ev.ID, name, bob.ID)
		assert.ErrorIs(t, err, ErrConflict, name)
	}
	assert.EqualValues(t, 1, registrationCount(t, e, ev.ID))

	// a different account may register under another name
	_, err = e.svc.Registration.Register(e.ctx, ev.ID, "Bob B.", mod.ID)
	require.NoError(t, err)
	// the same name on another event is fine
	_, err = e.svc.Registration.Register(e.ctx, other.ID, "Alice A.", bob.ID)
	require.NoError(t, err)

	_, err = e.svc.Registration.Register(e.ctx, ev.ID, "   ", bob.ID)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = e.svc.Registration.Register(e.ctx, 9999, "X", bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.svc.Registration.Register(e.ctx, ev.ID, "X", 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

// staleCheckRegistrations misses existing rows, as a concurrent insert
// landing between the check and the create would.
type staleCheckRegistrations struct {
	repo.IRegistrationRepository
}

func (staleCheckRegistrations) CheckNameRegistered(context.Context, uint64, string) (bool, error) {
	return false, nil
}

func TestRegistration_UniqueIndexRejectsDuplicate(t *testing.T) {
	e := newTestEnv(t)
	mod := e.user(t, "mod", model.GlobalRoleUser)
	bob := e.user(t, "bob", model.GlobalRoleUser)
	team := e.team(t, "Quiz Club", ptr("chat1"), mod)
	ev := e.event(t, mod, team, "Friday Quiz", quizNight)

	_, err := e.svc.Registration.Register(e.ctx, ev.ID, "Alice A.", mod.ID)
	require.NoError(t, err)

	e.svc.Registration.registrations = staleCheckRegistrations{e.repos.Registration}
	_, err = e.svc.Registration.Register(e.ctx, ev.ID, "alice  A.", bob.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualValues(t, 1, registrationCount(t, e, ev.ID))
	// 冲突不发送通知
	assert.Len(t, e.gw.sent(), 1)
}

func TestRegistration_ConcurrentSameName(t *testing.T) {
	e := newTestEnv(t)
	mod := e.user(t, "mod", model.GlobalRoleUser)
	team := e.team(t, "Quiz Club", nil, mod)
	ev := e.event(t, mod, team, "Friday Quiz", quizNight)

	const n = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
		others    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.svc.Registration.Register(e.ctx, ev.ID, "Alice A.", mod.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
	assert.EqualValues(t, 1, registrationCount(t, e, ev.ID))
}

func TestRegistration_LimitIsNotEnforced(t *testing.T) {
	e := newTestEnv(t)
	mod := e.user(t, "mod", model.GlobalRoleUser)
	team := e.team(t, "Quiz Club", nil, mod)
	ev, err := e.svc.Event.CreateEvent(e.ctx, mod.ID, &model.EventCreateReq{
		Name: "Tiny", DateTime: quizNight, Location: "x", TeamId: team.ID, RegistrationLimit: ptr(1),
	}, nil)
	require.NoError(t, err)

	for _, n := range []string{"A", "B", "C"} {
		_, err := e.svc.Registration.Register(e.ctx, ev.ID, n, mod.ID)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 3, registrationCount(t, e, ev.ID))
}

func TestRegistration_UnregisterAuthorization(t *testing.T) {
	tests := []struct {
		name    string
		actor   string
		wantErr error
	}{
		{"global admin", "admin", nil},
		{"team moderator", "mod", nil},
		{"owner", "owner", nil},
		{"team member", "member", ErrAccessDenied},
		{"outsider", "outsider", ErrAccessDenied},
		{"global moderator", "gmod", ErrAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			users := map[string]*model.User{
				"admin":    e.user(t, "admin", model.GlobalRoleAdmin),
				"mod":      e.user(t, "mod", model.GlobalRoleUser),
				"owner":    e.user(t, "owner", model.GlobalRoleUser),
				"member":   e.user(t, "member", model.GlobalRoleUser),
				"outsider": e.user(t, "outsider", model.GlobalRoleUser),
				"gmod":     e.user(t, "gmod", model.GlobalRoleModerator),
			}
			team := e.team(t, "Quiz Club", nil, users["mod"])
			e.member(t, team, users["owner"], model.TeamRoleUser)
			e.member(t, team, users["member"], model.TeamRoleUser)
			ev := e.event(t, users["mod"], team, "Friday Quiz", quizNight)
			reg, err := e.svc.Registration.Register(e.ctx, ev.ID, "Owner O.", users["owner"].ID)
			require.NoError(t, err)

			err = e.svc.Registration.Unregister(e.ctx, ev.ID, reg.ID, users[tt.actor].ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.EqualValues(t, 1, registrationCount(t, e, ev.ID))
				return
			}
			require.NoError(t, err)
			assert.Zero(t, registrationCount(t, e, ev.ID))
		})
	}
}

func TestRegistration_UnregisterNotFound(t *testing.T) {
	e := newTestEnv(t)
	mod := e.user(t, "mod", model.GlobalRoleUser)
	team := e.team(t, "Quiz Club", nil, mod)
	ev := e.event(t, mod, team, "Friday Quiz", quizNight)
	other := e.event(t, mod, team, "Other", quizNight)
	reg, err := e.svc.Registration.Register(e.ctx, other.ID, "A", mod.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, e.svc.Registration.Unregister(e.ctx, 9999, reg.ID, mod.ID), ErrNotFound)
	assert.ErrorIs(t, e.svc.Registration.Unregister(e.ctx, ev.ID, 9999, mod.ID), ErrNotFound)
	// registration of another event
	assert.ErrorIs(t, e.svc.Registration.Unregister(e.ctx, ev.ID, reg.ID, mod.ID), ErrNotFound)
	assert.ErrorIs(t, e.svc.Registration.Unregister(e.ctx, other.ID, reg.ID, 9999), ErrNotFound)
}

func TestRegistration_NotificationFailureDoesNotFail(t *testing.T) {
	e := newTestEnv(t)
	e.gw.err = errors.New("telegram is down")
	mod := e.user(t, "mod", model.GlobalRoleUser)
	team := e.team(t, "Quiz Club", ptr("chat1"), mod)
	ev := e.event(t, mod, team, "Friday Quiz", quizNight)

	reg, err := e.svc.Registration.Register(e.ctx, ev.ID, "A", mod.ID)
	require.NoError(t, err)
	require.NoError(t, e.svc.Registration.Unregister(e.ctx, ev.ID, reg.ID, mod.ID))
}

func TestRegistration_SendSummary(t *testing.T) {
	e := newTestEnv(t)
	mod := e.user(t, "mod", model.GlobalRoleUser)
	plain := e.user(t, "plain", model.GlobalRoleUser)
	team := e.team(t, "Quiz Club", ptr("chat1"), mod)
	ev := e.event(t, mod, team, "Friday Quiz", quizNight)

	s, err := e.repos.NotificationSettings.GetSettings(e.ctx, team.ID)
	require.NoError(t, err)
	s.RegistrationNotificationEnabled = false
	require.NoError(t, e.repos.NotificationSettings.SaveSettings(e.ctx, s))

	_, err = e.svc.Registration.Register(e.ctx, ev.ID, "Alice A.", plain.ID)
	require.NoError(t, err)
	assert.Empty(t, e.gw.sent())

	assert.ErrorIs(t, e.svc.Registration.SendSummary(e.ctx, ev.ID, plain.ID), ErrAccessDenied)
	require.NoError(t, e.svc.Registration.SendSummary(e.ctx, ev.ID, mod.ID))
	msgs := e.gw.sent()
	require.Len(t, msgs, 1)
	assert.True(t, strings.Contains(msgs[0].text, "1. Alice A."))
}
