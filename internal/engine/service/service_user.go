package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	httpx "github.com/go-arcade/quizhub/pkg/http"
	"github.com/go-arcade/quizhub/pkg/http/jwt"
	"github.com/go-arcade/quizhub/pkg/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	users repo.IUserRepository
	auth  *httpx.Auth
}

func NewUserService(repos *repo.Repositories, auth *httpx.Auth) *UserService {
	return &UserService{users: repos.User, auth: auth}
}

// SignUp 注册新用户，全局角色为 USER
func (s *UserService) SignUp(ctx context.Context, req *model.SignUpReq) (*jwt.TokenPair, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, invalid("username, email and password are required")
	}

	exists, err := s.users.CheckUsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username failed: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: username %q is taken", ErrConflict, username)
	}
	exists, err = s.users.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email failed: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email %q is taken", ErrConflict, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username: username,
		Email:    email,
		FullName: strings.TrimSpace(req.FullName),
		Password: string(hash),
		Role:     model.GlobalRoleUser,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		log.Errorw("create user failed", "username", username, "error", err)
		return nil, fmt.Errorf("create user failed: %w", err)
	}

	log.Infow("success sign up", "userId", user.ID, "username", username)
	return s.issue(user.ID)
}

func (s *UserService) SignIn(ctx context.Context, req *model.SignInReq) (*jwt.TokenPair, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotExist
		}
		return nil, fmt.Errorf("get user failed: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return s.issue(user.ID)
}

// Refresh exchanges a refresh token for a new pair.
func (s *UserService) Refresh(_ context.Context, refreshToken string) (*jwt.TokenPair, error) {
	return jwt.RefreshToken(refreshToken, s.auth.SecretKey, s.auth.AccessExpire, s.auth.RefreshExpire)
}

func (s *UserService) issue(userId uint64) (*jwt.TokenPair, error) {
	pair, err := jwt.GenToken(userId, []byte(s.auth.SecretKey), s.auth.AccessExpire, s.auth.RefreshExpire)
	if err != nil {
		return nil, fmt.Errorf("generate token failed: %w", err)
	}
	return pair, nil
}

func (s *UserService) GetUserById(ctx context.Context, userId uint64) (*model.User, error) {
	user, err := s.users.GetUserById(ctx, userId)
	if err != nil {
		return nil, lookupErr(err, "user", userId)
	}
	return user, nil
}

func (s *UserService) GetUserByTelegramId(ctx context.Context, telegramId int64) (*model.User, error) {
	user, err := s.users.GetUserByTelegramId(ctx, telegramId)
	if err != nil {
		return nil, lookupErr(err, "telegram user", telegramId)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return users, nil
}

// UpdateUser: a user edits their own profile; only a global ADMIN changes roles.
func (s *UserService) UpdateUser(ctx context.Context, actorId, userId uint64, req *model.UpdateUserReq) (*model.User, error) {
	actor, err := s.GetUserById(ctx, actorId)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetUserById(ctx, userId); err != nil {
		return nil, err
	}
	if actorId != userId && !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: cannot edit another user", ErrAccessDenied)
	}

	updates := make(map[string]any)
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, invalid("full name cannot be blank")
		}
		updates["full_name"] = name
	}
	if req.TelegramId != nil {
		updates["telegram_id"] = *req.TelegramId
	}
	if req.Role != nil {
		if !actor.Role.IsAdmin() {
			return nil, fmt.Errorf("%w: only an admin can change roles", ErrAccessDenied)
		}
		if !req.Role.Valid() {
			return nil, invalid("unknown role %q", *req.Role)
		}
		updates["role"] = *req.Role
	}

	if len(updates) > 0 {
		if err := s.users.UpdateUser(ctx, userId, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, fmt.Errorf("%w: telegram account is linked to another user", ErrConflict)
			}
			log.Errorw("update user failed", "userId", userId, "error", err)
			return nil, fmt.Errorf("update user failed: %w", err)
		}
	}
	return s.GetUserById(ctx, userId)
}

// DeleteUser removes the user with their memberships and registrations.
func (s *UserService) DeleteUser(ctx context.Context, actorId, userId uint64) error {
	actor, err := s.GetUserById(ctx, actorId)
	if err != nil {
		return err
	}
	if actorId != userId && !actor.Role.IsAdmin() {
		return fmt.Errorf("%w: cannot delete another user", ErrAccessDenied)
	}
	if _, err := s.GetUserById(ctx, userId); err != nil {
		return err
	}

	if err := s.users.DeleteUser(ctx, userId); err != nil {
		log.Errorw("delete user failed", "userId", userId, "error", err)
		return fmt.Errorf("delete user failed: %w", err)
	}
	log.Infow("success delete user", "userId", userId, "actorId", actorId)
	return nil
}
