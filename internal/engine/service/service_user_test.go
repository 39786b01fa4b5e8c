package service

import (
	"testing"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/pkg/http/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_SignUpAndSignIn(t *testing.T) {
	e := newTestEnv(t)
	req := &model.SignUpReq{Username: "alice", Email: "alice@example.com", FullName: "Alice A.", Password: "secret1"}

	pair, err := e.svc.User.SignUp(e.ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := jwt.ParseToken(pair.AccessToken, "test-secret")
	require.NoError(t, err)
	user, err := e.svc.User.GetUserById(e.ctx, claims.UserId)
	require.NoError(t, err)
	assert.Equal(t, model.GlobalRoleUser, user.Role)
	assert.NotEqual(t, "secret1", user.Password)

	_, err = e.svc.User.SignUp(e.ctx, req)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = e.svc.User.SignUp(e.ctx, &model.SignUpReq{Username: "alice2", Email: "ALICE@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = e.svc.User.SignIn(e.ctx, &model.SignInReq{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	_, err = e.svc.User.SignIn(e.ctx, &model.SignInReq{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrIncorrectPassword)
	_, err = e.svc.User.SignIn(e.ctx, &model.SignInReq{Username: "bob", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserNotExist)

	refreshed, err := e.svc.User.Refresh(e.ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	_, err = e.svc.User.Refresh(e.ctx, pair.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestUserService_UpdateUser(t *testing.T) {
	e := newTestEnv(t)
	admin := e.user(t, "admin", model.GlobalRoleAdmin)
	alice := e.user(t, "alice", model.GlobalRoleUser)
	bob := e.user(t, "bob", model.GlobalRoleUser)

	u, err := e.svc.User.UpdateUser(e.ctx, alice.ID, alice.ID, &model.UpdateUserReq{FullName: ptr("Alice Liddell"), TelegramId: ptr(int64(42))})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", u.FullName)
	assert.EqualValues(t, 42, *u.TelegramId)

	_, err = e.svc.User.UpdateUser(e.ctx, bob.ID, bob.ID, &model.UpdateUserReq{TelegramId: ptr(int64(42))})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = e.svc.User.UpdateUser(e.ctx, bob.ID, alice.ID, &model.UpdateUserReq{FullName: ptr("x")})
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = e.svc.User.UpdateUser(e.ctx, alice.ID, alice.ID, &model.UpdateUserReq{Role: ptr(model.GlobalRoleAdmin)})
	assert.ErrorIs(t, err, ErrAccessDenied)

	u, err = e.svc.User.UpdateUser(e.ctx, admin.ID, alice.ID, &model.UpdateUserReq{Role: ptr(model.GlobalRoleModerator)})
	require.NoError(t, err)
	assert.Equal(t, model.GlobalRoleModerator, u.Role)

	_, err = e.svc.User.UpdateUser(e.ctx, admin.ID, alice.ID, &model.UpdateUserReq{Role: ptr(model.GlobalRole("ROOT"))})
	assert.ErrorIs(t, err, ErrValidation)

	linked, err := e.svc.User.GetUserByTelegramId(e.ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, linked.ID)
}

func TestUserService_DeleteUserCascades(t *testing.T) {
	e := newTestEnv(t)
	admin := e.user(t, "admin", model.GlobalRoleAdmin)
	mod := e.user(t, "mod", model.GlobalRoleUser)
	alice := e.user(t, "alice", model.GlobalRoleUser)
	team := e.team(t, "Quiz Club", nil, mod)
	e.member(t, team, alice, model.TeamRoleUser)
	ev := e.event(t, mod, team, "Friday Quiz", quizNight)
	_, err := e.svc.Registration.Register(e.ctx, ev.ID, "Alice A.", alice.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, e.svc.User.DeleteUser(e.ctx, mod.ID, alice.ID), ErrAccessDenied)
	require.NoError(t, e.svc.User.DeleteUser(e.ctx, admin.ID, alice.ID))

	_, err = e.svc.User.GetUserById(e.ctx, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, registrationCount(t, e, ev.ID))
	members, err := e.svc.Team.ListMembers(e.ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	require.NoError(t, e.svc.User.DeleteUser(e.ctx, mod.ID, mod.ID))
}
