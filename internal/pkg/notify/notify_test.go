package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/pkg/database"
	"github.com/go-arcade/quizhub/pkg/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	chatId string
	text   string
}

type recordingGateway struct {
	mu   sync.Mutex
	msgs []sent
	err  error
}

func (g *recordingGateway) Send(_ context.Context, chatId, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.msgs = append(g.msgs, sent{chatId: chatId, text: text})
	return nil
}

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (*repo.Repositories, *recordingGateway, *Dispatcher) {
	repos := repo.NewRepositories(database.NewGormDB(dbtest.New(t)))
	gw := &recordingGateway{}
	return repos, gw, NewDispatcher(gw, repos.NotificationSettings, repos.Team, time.Second)
}

func newEvent(teamId uint64) *model.Event {
	return &model.Event{
		Name:     "Friday Quiz",
		DateTime: time.Date(2024, 1, 5, 19, 0, 0, 0, time.UTC),
		Location: "Bar 42",
		TeamId:   teamId,
	}
}

func TestRouter_ChannelFor(t *testing.T) {
	r := NewRouter(ChannelTypeTelegram)
	tests := []struct {
		chatId string
		want   ChannelType
	}{
		{"-1001234", ChannelTypeTelegram},
		{"chat1", ChannelTypeTelegram},
		{"120363@g.us", ChannelTypeWhatsApp},
		{"7999@c.us", ChannelTypeWhatsApp},
		{"wa:120363", ChannelTypeWhatsApp},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.ChannelFor(tt.chatId), tt.chatId)
	}
}

func TestRouter_Send(t *testing.T) {
	tg, wa := &recordingGateway{}, &recordingGateway{}
	r := NewRouter(ChannelTypeTelegram)
	r.Register(ChannelTypeTelegram, tg)
	r.Register(ChannelTypeWhatsApp, wa)

	require.NoError(t, r.Send(context.Background(), "-100", "a"))
	require.NoError(t, r.Send(context.Background(), "wa:1", "b"))
	assert.Len(t, tg.msgs, 1)
	assert.Len(t, wa.msgs, 1)

	empty := NewRouter(ChannelTypeTelegram)
	assert.Error(t, empty.Send(context.Background(), "-100", "a"))
}

func TestBuildActionMessage(t *testing.T) {
	e := newEvent(1)
	e.AlbumLink = ptr("https://photos/1")

	msg := BuildActionMessage(e, "Alice A.", KindRegistration, time.UTC)
	assert.Contains(t, msg, "✅ Регистрация на мероприятие!")
	assert.Contains(t, msg, "📌 Мероприятие: Friday Quiz")
	assert.Contains(t, msg, "👤 Участник: Alice A.")
	assert.Contains(t, msg, "📅 Дата: 05.01.2024 19:00")
	assert.Contains(t, msg, "📍 Место: Bar 42")
	assert.Contains(t, msg, "📸 Альбом: https://photos/1")

	msg = BuildActionMessage(newEvent(1), "Bob", KindUnregistration, time.UTC)
	assert.Contains(t, msg, "❌ Отмена регистрации!")
	assert.NotContains(t, msg, "Альбом")
}

func TestBuildEventSummary(t *testing.T) {
	t.Run("no participants", func(t *testing.T) {
		msg := BuildEventSummary(newEvent(1), time.UTC)
		assert.Contains(t, msg, "Пока никто не зарегистрировался")
	})

	t.Run("without limit", func(t *testing.T) {
		e := newEvent(1)
		e.Price = ptr("500 ₽")
		e.Registrations = []model.Registration{{FullName: "A"}, {FullName: "B"}}
		msg := BuildEventSummary(e, time.UTC)
		assert.Contains(t, msg, "💰 Цена: 500 ₽")
		assert.Contains(t, msg, "1. A\n2. B")
		assert.NotContains(t, msg, "Резерв")
	})

	t.Run("limit splits reserve", func(t *testing.T) {
		e := newEvent(1)
		e.RegistrationLimit = ptr(2)
		e.Registrations = []model.Registration{{FullName: "A"}, {FullName: "B"}, {FullName: "C"}, {FullName: "D"}}
		msg := BuildEventSummary(e, time.UTC)
		assert.Contains(t, msg, "Основной состав:\n1. A\n2. B")
		assert.Contains(t, msg, "Резерв:\n3. C\n4. D")
	})

	t.Run("limit not reached", func(t *testing.T) {
		e := newEvent(1)
		e.RegistrationLimit = ptr(5)
		e.Registrations = []model.Registration{{FullName: "A"}}
		msg := BuildEventSummary(e, time.UTC)
		assert.Contains(t, msg, "Основной состав:\n1. A")
		assert.NotContains(t, msg, "Резерв")
	})
}

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()
	repos, gw, d := setup(t)

	team := &model.Team{Name: "Quiz Club", InviteCode: "ABCDEF", ChatId: ptr("chat1")}
	require.NoError(t, repos.Team.CreateTeam(ctx, team, nil))
	e := newEvent(team.ID)

	d.Dispatch(ctx, e, "Alice A.", KindRegistration)
	require.Len(t, gw.msgs, 1)
	assert.Equal(t, "chat1", gw.msgs[0].chatId)

	s, err := repos.NotificationSettings.GetSettings(ctx, team.ID)
	require.NoError(t, err)
	s.RegistrationNotificationEnabled = false
	s.UnregisterNotificationEnabled = false
	require.NoError(t, repos.NotificationSettings.SaveSettings(ctx, s))

	d.Dispatch(ctx, e, "Alice A.", KindRegistration)
	d.Dispatch(ctx, e, "Alice A.", KindUnregistration)
	assert.Len(t, gw.msgs, 1)

	// summary is never gated
	d.Dispatch(ctx, e, "", KindSummary)
	assert.Len(t, gw.msgs, 2)
}

func TestFormatDate(t *testing.T) {
	msk := time.FixedZone("MSK", 3*3600)
	at := time.Date(2024, 1, 5, 16, 0, 0, 0, time.UTC)

	assert.Equal(t, "05.01.2024 19:00", FormatDate(at, msk))
	assert.Equal(t, "05.01.2024 16:00", FormatDate(at, nil))
	assert.Equal(t, "05.01.2024 16:00", FormatDate(at.In(msk), time.UTC))
}

func TestDispatcher_RendersInLocation(t *testing.T) {
	ctx := context.Background()
	repos, gw, d := setup(t)
	msk := time.FixedZone("MSK", 3*3600)
	d.WithLocation(msk)

	team := &model.Team{Name: "Quiz Club", InviteCode: "ABCDEF", ChatId: ptr("chat1")}
	require.NoError(t, repos.Team.CreateTeam(ctx, team, nil))

	// 驱动按 UTC 返回的时间
	e := newEvent(team.ID)
	e.DateTime = time.Date(2024, 1, 5, 16, 0, 0, 0, time.UTC)
	d.Dispatch(ctx, e, "Alice", KindRegistration)
	d.Dispatch(ctx, e, "", KindSummary)

	require.Len(t, gw.msgs, 2)
	for _, m := range gw.msgs {
		assert.Contains(t, m.text, "📅 Дата: 05.01.2024 19:00")
	}
}

func TestDispatcher_NoChatOrSettings(t *testing.T) {
	ctx := context.Background()
	repos, gw, d := setup(t)

	noChat := &model.Team{Name: "Silent", InviteCode: "QWERTY"}
	require.NoError(t, repos.Team.CreateTeam(ctx, noChat, nil))
	d.Dispatch(ctx, newEvent(noChat.ID), "Bob", KindRegistration)

	d.Dispatch(ctx, newEvent(9999), "Bob", KindRegistration)
	assert.Empty(t, gw.msgs)
}

func TestDispatcher_GatewayFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	repos, gw, d := setup(t)
	gw.err = errors.New("boom")

	team := &model.Team{Name: "Quiz Club", InviteCode: "ABCDEF", ChatId: ptr("chat1")}
	require.NoError(t, repos.Team.CreateTeam(ctx, team, nil))

	assert.NotPanics(t, func() {
		d.Dispatch(ctx, newEvent(team.ID), "Alice", KindRegistration)
	})
	assert.Error(t, d.Ping(ctx, team))
}

func TestDispatcher_Ping(t *testing.T) {
	ctx := context.Background()
	_, gw, d := setup(t)

	assert.ErrorIs(t, d.Ping(ctx, &model.Team{}), ErrNoChat)
	require.NoError(t, d.Ping(ctx, &model.Team{ChatId: ptr("chat1")}))
	require.Len(t, gw.msgs, 1)
	assert.Equal(t, PingText, gw.msgs[0].text)
}
