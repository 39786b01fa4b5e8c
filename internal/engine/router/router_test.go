package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-arcade/quizhub/internal/engine/bot"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/internal/engine/service"
	"github.com/go-arcade/quizhub/internal/pkg/notify"
	"github.com/go-arcade/quizhub/pkg/cache"
	"github.com/go-arcade/quizhub/pkg/database"
	"github.com/go-arcade/quizhub/pkg/database/dbtest"
	httpx "github.com/go-arcade/quizhub/pkg/http"
	"github.com/go-arcade/quizhub/pkg/http/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "hook-secret"

type recordingGateway struct {
	mu    sync.Mutex
	texts []string
}

func (g *recordingGateway) Send(_ context.Context, _ string, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.texts = append(g.texts, text)
	return nil
}

func (g *recordingGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.texts)
}

type fixture struct {
	t       *testing.T
	app     *fiber.App
	gateway *recordingGateway
	botOut  *recordingGateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := repo.NewRepositories(database.NewGormDB(dbtest.New(t)))
	gateway := &recordingGateway{}
	dispatcher := notify.NewDispatcher(gateway, repos.NotificationSettings, repos.Team, time.Second)

	conf := &httpx.Http{Auth: httpx.Auth{SecretKey: "router-secret"}}
	conf.SetDefaults()
	services := service.NewServices(repos, &conf.Auth, nil, dispatcher)

	botOut := &recordingGateway{}
	b := bot.NewBot(services, bot.NewSessionStore(cache.NewFastCache(cache.FastCacheConfig{})), botOut)

	rt := NewRouter(conf, services, b, webhookSecret, time.UTC)
	return &fixture{t: t, app: rt.Router(), gateway: gateway, botOut: botOut}
}

type result struct {
	status int
	header map[string]string
	body   map[string]any
}

func (f *fixture) do(method, path, token string, body io.Reader, contentType string) *result {
	f.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	defer resp.Body.Close()

	r := &result{status: resp.StatusCode, header: map[string]string{}}
	for k := range resp.Header {
		r.header[k] = resp.Header.Get(k)
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(f.t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(f.t, json.Unmarshal(raw, &r.body))
	}
	return r
}

func (f *fixture) json(method, path, token string, payload any) *result {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(f.t, err)
		body = bytes.NewReader(data)
	}
	return f.do(method, path, token, body, fiber.MIMEApplicationJSON)
}

func (f *fixture) multipart(method, path, token string, fields map[string]string, image []byte) *result {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(f.t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "poster.png")
		require.NoError(f.t, err)
		_, _ = part.Write(image)
	}
	require.NoError(f.t, w.Close())
	return f.do(method, path, token, &buf, w.FormDataContentType())
}

// signUp returns an access token and the user id.
func (f *fixture) signUp(username string) (string, uint64) {
	r := f.json("POST", "/api/auth/sign-up", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"fullName": strings.ToUpper(username),
		"password": "secret-pass",
	})
	require.Equal(f.t, 200, r.status, r.body)
	token := r.body["detail"].(map[string]any)["accessToken"].(string)

	claims, err := jwt.ParseToken(token, "router-secret")
	require.NoError(f.t, err)
	return token, claims.UserId
}

func detailMap(r *result) map[string]any {
	m, _ := r.body["detail"].(map[string]any)
	return m
}

func (f *fixture) createTeam(token, name string) uint64 {
	r := f.json("POST", "/api/teams", token, map[string]any{"name": name, "chatId": "-100500"})
	require.Equal(f.t, 200, r.status, r.body)
	return uint64(detailMap(r)["id"].(float64))
}

func (f *fixture) createEvent(token string, teamId uint64, name, at string) uint64 {
	r := f.multipart("POST", "/api/events", token, map[string]string{
		"name":     name,
		"dateTime": at,
		"location": "Bar",
		"teamId":   fmt.Sprint(teamId),
	}, nil)
	require.Equal(f.t, 200, r.status, r.body)
	return uint64(detailMap(r)["id"].(float64))
}

func TestHealthAndVersion(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 200, f.do("GET", "/health", "", nil, "").status)
	assert.Equal(t, 200, f.do("GET", "/version", "", nil, "").status)

	r := f.do("GET", "/nope", "", nil, "")
	assert.Equal(t, 404, r.status)
	assert.EqualValues(t, httpx.NotFound.Code, r.body["code"])
}

func TestAuthFlow(t *testing.T) {
	f := newFixture(t)
	token, uid := f.signUp("alice")

	r := f.json("GET", "/api/users/me", token, nil)
	require.Equal(t, 200, r.status)
	assert.EqualValues(t, uid, detailMap(r)["id"])
	assert.Equal(t, "USER", detailMap(r)["role"])
	assert.NotContains(t, detailMap(r), "password")

	r = f.json("POST", "/api/auth/sign-up", "", map[string]any{
		"username": "alice", "email": "other@example.com", "fullName": "A", "password": "secret-pass",
	})
	assert.Equal(t, 409, r.status)

	r = f.json("POST", "/api/auth/sign-in", "", map[string]any{"username": "alice", "password": "wrong-pass"})
	assert.Equal(t, 401, r.status)
	assert.EqualValues(t, httpx.UserIncorrectPassword.Code, r.body["code"])

	r = f.json("POST", "/api/auth/sign-in", "", map[string]any{"username": "alice", "password": "secret-pass"})
	require.Equal(t, 200, r.status)
	refresh := detailMap(r)["refreshToken"].(string)

	r = f.json("POST", "/api/auth/refresh", "", map[string]any{"refreshToken": refresh})
	assert.Equal(t, 200, r.status)
	r = f.json("POST", "/api/auth/refresh", "", map[string]any{"refreshToken": token})
	assert.Equal(t, 401, r.status)
	assert.EqualValues(t, httpx.InvalidToken.Code, r.body["code"])
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t)
	r := f.json("GET", "/api/teams", "", nil)
	assert.Equal(t, 401, r.status)
	assert.EqualValues(t, httpx.TokenBeEmpty.Code, r.body["code"])
}

func TestValidation(t *testing.T) {
	f := newFixture(t)
	r := f.json("POST", "/api/auth/sign-up", "", map[string]any{"username": "al"})
	assert.Equal(t, 400, r.status)
	assert.EqualValues(t, httpx.BadRequest.Code, r.body["code"])

	token, _ := f.signUp("alice")
	r = f.json("GET", "/api/teams/abc", token, nil)
	assert.Equal(t, 400, r.status)
}

func TestTeamAndMembership(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.signUp("owner")
	guest, guestId := f.signUp("guest")
	teamId := f.createTeam(owner, "Знатоки")

	r := f.json("GET", fmt.Sprintf("/api/teams/%d", teamId), guest, nil)
	require.Equal(t, 200, r.status)
	code := detailMap(r)["inviteCode"].(string)
	assert.Len(t, code, 6)

	r = f.json("GET", "/api/teams/invite/"+strings.ToLower(code), guest, nil)
	assert.Equal(t, 200, r.status)

	r = f.json("POST", "/api/teams/join", guest, map[string]any{"inviteCode": code})
	require.Equal(t, 200, r.status)

	r = f.json("GET", fmt.Sprintf("/api/users/%d/teams/%d/role", guestId, teamId), guest, nil)
	require.Equal(t, 200, r.status)
	assert.Equal(t, "USER", detailMap(r)["role"])

	// 普通成员不能修改团队
	r = f.json("PUT", fmt.Sprintf("/api/teams/%d", teamId), guest, map[string]any{"name": "X"})
	assert.Equal(t, 403, r.status)
	assert.EqualValues(t, httpx.PermissionDenied.Code, r.body["code"])

	r = f.json("PUT", fmt.Sprintf("/api/teams/%d/members/%d", teamId, guestId), owner, map[string]any{"role": "MODERATOR"})
	assert.Equal(t, 200, r.status)

	r = f.json("GET", fmt.Sprintf("/api/teams/%d/members", teamId), owner, nil)
	require.Equal(t, 200, r.status)
	assert.Len(t, r.body["detail"], 2)

	r = f.json("POST", "/api/teams/leave", guest, map[string]any{"inviteCode": code})
	assert.Equal(t, 200, r.status)
	r = f.json("POST", "/api/teams/leave", guest, map[string]any{"inviteCode": code})
	assert.Equal(t, 404, r.status)

	r = f.json("GET", "/api/teams/999", owner, nil)
	assert.Equal(t, 404, r.status)
}

func TestEventsAndRegistrations(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.signUp("owner")
	guest, _ := f.signUp("guest")
	teamId := f.createTeam(owner, "Знатоки")

	r := f.multipart("POST", "/api/events", guest, map[string]string{
		"name": "Quiz", "dateTime": "2030-05-01T19:00", "location": "Bar", "teamId": fmt.Sprint(teamId),
	}, nil)
	assert.Equal(t, 403, r.status)

	r = f.multipart("POST", "/api/events", owner, map[string]string{
		"name": "Quiz", "dateTime": "tomorrow", "location": "Bar", "teamId": fmt.Sprint(teamId),
	}, nil)
	assert.Equal(t, 400, r.status)

	first := f.createEvent(owner, teamId, "Quiz #1", "2030-05-01T19:00")
	f.createEvent(owner, teamId, "Quiz #2", "2030-05-08T19:00:00")

	r = f.json("GET", fmt.Sprintf("/api/events/%d", first), guest, nil)
	require.Equal(t, 200, r.status)
	assert.Equal(t, "2030-05-01T19:00:00Z", detailMap(r)["dateTime"])

	r = f.multipart("PUT", fmt.Sprintf("/api/events/%d", first), owner, map[string]string{"price": "500"}, nil)
	require.Equal(t, 200, r.status)
	assert.Equal(t, "500", detailMap(r)["price"])
	assert.Equal(t, "Quiz #1", detailMap(r)["name"])

	r = f.json("POST", fmt.Sprintf("/api/events/%d/registrations", first), guest, map[string]any{"fullName": "Иван  Петров"})
	require.Equal(t, 200, r.status)
	regId := uint64(detailMap(r)["id"].(float64))

	r = f.json("POST", fmt.Sprintf("/api/events/%d/registrations", first), owner, map[string]any{"fullName": "иван петров"})
	assert.Equal(t, 409, r.status)

	r = f.json("GET", fmt.Sprintf("/api/teams/%d/events?size=1&sort=dateTime,asc", teamId), guest, nil)
	require.Equal(t, 200, r.status)
	assert.Equal(t, "events 0-0/2", r.header["Content-Range"])
	items := detailMap(r)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, true, items[0].(map[string]any)["isRegistered"])

	r = f.json("GET", fmt.Sprintf("/api/teams/%d/events?sort=price,asc", teamId), guest, nil)
	assert.Equal(t, 400, r.status)

	r = f.json("DELETE", fmt.Sprintf("/api/events/%d/registrations/%d", first, regId), guest, nil)
	assert.Equal(t, 200, r.status)

	r = f.json("DELETE", fmt.Sprintf("/api/events/%d", first), owner, nil)
	assert.Equal(t, 200, r.status)
	r = f.json("GET", fmt.Sprintf("/api/events/%d", first), owner, nil)
	assert.Equal(t, 404, r.status)
}

func TestNotificationSettings(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.signUp("owner")
	teamId := f.createTeam(owner, "Знатоки")
	path := fmt.Sprintf("/api/teams/%d/notifications", teamId)

	r := f.json("GET", path, owner, nil)
	require.Equal(t, 200, r.status)
	assert.EqualValues(t, 24, detailMap(r)["reminderHoursBefore"])

	r = f.json("PUT", path, owner, map[string]any{"reminderHoursBefore": 500})
	assert.Equal(t, 400, r.status)

	r = f.json("PUT", path, owner, map[string]any{"reminderHoursBefore": 3, "eventReminderEnabled": false})
	require.Equal(t, 200, r.status)
	assert.EqualValues(t, 3, detailMap(r)["reminderHoursBefore"])

	r = f.json("DELETE", path, owner, nil)
	require.Equal(t, 200, r.status)
	assert.EqualValues(t, 24, detailMap(r)["reminderHoursBefore"])
	assert.Equal(t, true, detailMap(r)["eventReminderEnabled"])

	r = f.json("POST", path+"/ping", owner, nil)
	require.Equal(t, 200, r.status)
	assert.Equal(t, true, detailMap(r)["ok"])
	assert.Equal(t, 1, f.gateway.count())
}

func TestTelegramWebhook(t *testing.T) {
	f := newFixture(t)
	update := `{"update_id":1,"message":{"message_id":1,"from":{"id":7,"is_bot":false,"first_name":"A"},"chat":{"id":-1,"type":"group"},"text":"/инфо"}}`

	req := httptest.NewRequest("POST", "/api/telegram/webhook", strings.NewReader(update))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req = httptest.NewRequest("POST", "/api/telegram/webhook", strings.NewReader(update))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	req.Header.Set(headerTelegramSecret, webhookSecret)
	resp, err = f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, f.botOut.count())
}

func TestErrResponse(t *testing.T) {
	tests := []struct {
		err  error
		want *httpx.Response
	}{
		{fmt.Errorf("%w: event 1", service.ErrNotFound), httpx.NotFound},
		{service.ErrAccessDenied, httpx.PermissionDenied},
		{service.ErrConflict, httpx.Conflict},
		{service.ErrValidation, httpx.BadRequest},
		{errBinding, httpx.BadRequest},
		{service.ErrExternalService, httpx.ExternalServiceFailed},
		{service.ErrUserNotExist, httpx.UserNotExist},
		{jwt.ErrTokenExpired, httpx.TokenExpired},
		{errors.New("db down"), httpx.InternalError},
	}
	for _, tt := range tests {
		assert.Same(t, tt.want, errResponse(tt.err), tt.err.Error())
	}
}

func TestParseDateTime(t *testing.T) {
	msk := time.FixedZone("MSK", 3*3600)

	got, err := parseDateTime("2030-05-01T19:00", msk)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 5, 1, 16, 0, 0, 0, time.UTC), got.UTC())

	got, err = parseDateTime("2030-05-01T19:00:00Z", msk)
	require.NoError(t, err)
	assert.Equal(t, 19, got.UTC().Hour())

	_, err = parseDateTime("01.05.2030", msk)
	assert.Error(t, err)
}
