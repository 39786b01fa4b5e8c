package service

import (
	"context"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/internal/pkg/notify"
	"github.com/go-arcade/quizhub/pkg/database"
	"github.com/go-arcade/quizhub/pkg/database/dbtest"
	httpx "github.com/go-arcade/quizhub/pkg/http"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	chatId string
	text   string
}

type recordingGateway struct {
	mu   sync.Mutex
	msgs []sentMessage
	err  error
}

func (g *recordingGateway) Send(_ context.Context, chatId, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.msgs = append(g.msgs, sentMessage{chatId: chatId, text: text})
	return nil
}

func (g *recordingGateway) sent() []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]sentMessage(nil), g.msgs...)
}

type fakeImages struct {
	url   string
	err   error
	calls int
}

func (f *fakeImages) Upload(_ context.Context, _ *multipart.FileHeader) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type testEnv struct {
	ctx    context.Context
	repos  *repo.Repositories
	svc    *Services
	gw     *recordingGateway
	images *fakeImages
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := repo.NewRepositories(database.NewGormDB(dbtest.New(t)))
	gw := &recordingGateway{}
	images := &fakeImages{url: "https://cdn.example.com/posters/abc.png"}
	dispatcher := notify.NewDispatcher(gw, repos.NotificationSettings, repos.Team, time.Second)
	auth := &httpx.Auth{SecretKey: "test-secret", AccessExpire: 60, RefreshExpire: 120}

	return &testEnv{
		ctx:    context.Background(),
		repos:  repos,
		svc:    NewServices(repos, auth, images, dispatcher),
		gw:     gw,
		images: images,
	}
}

func (e *testEnv) user(t *testing.T, username string, role model.GlobalRole) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
		Password: "x",
		Role:     role,
	}
	require.NoError(t, e.repos.User.CreateUser(e.ctx, u))
	return u
}

func (e *testEnv) team(t *testing.T, name string, chatId *string, creator *model.User) *model.Team {
	t.Helper()
	var creatorId *uint64
	if creator != nil {
		creatorId = &creator.ID
	}
	team, err := e.svc.Team.CreateTeam(e.ctx, &model.CreateTeamReq{Name: name, ChatId: chatId}, creatorId)
	require.NoError(t, err)
	return team
}

func (e *testEnv) member(t *testing.T, team *model.Team, u *model.User, role model.TeamRole) {
	t.Helper()
	require.NoError(t, e.repos.TeamMember.AddMember(e.ctx, &model.TeamMember{TeamId: team.ID, UserId: u.ID, Role: role}))
}

func (e *testEnv) event(t *testing.T, moderator *model.User, team *model.Team, name string, at time.Time) *model.Event {
	t.Helper()
	ev, err := e.svc.Event.CreateEvent(e.ctx, moderator.ID, &model.EventCreateReq{
		Name:     name,
		DateTime: at,
		Location: "Bar 42",
		TeamId:   team.ID,
	}, nil)
	require.NoError(t, err)
	return ev
}

func ptr[T any](v T) *T { return &v }

func registrationCount(t *testing.T, e *testEnv, eventId uint64) int64 {
	t.Helper()
	n, err := e.repos.Registration.CountByEvent(e.ctx, eventId)
	require.NoError(t, err)
	return n
}
