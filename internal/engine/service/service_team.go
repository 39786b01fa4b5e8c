package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/pkg/log"
	"gorm.io/gorm"
)

const (
	inviteCodeLength   = 6
	inviteCodeAttempts = 20
	inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type TeamService struct {
	teams   repo.ITeamRepository
	members repo.ITeamMemberRepository
	users   repo.IUserRepository
	policy  *AccessPolicy

	newInviteCode func() string
}

func NewTeamService(repos *repo.Repositories, policy *AccessPolicy) *TeamService {
	return &TeamService{
		teams:         repos.Team,
		members:       repos.TeamMember,
		users:         repos.User,
		policy:        policy,
		newInviteCode: randomInviteCode,
	}
}

func randomInviteCode() string {
	b := make([]byte, inviteCodeLength)
	for i := range b {
		b[i] = inviteCodeAlphabet[rand.IntN(len(inviteCodeAlphabet))]
	}
	return string(b)
}

// CreateTeam 创建团队，同时创建默认通知设置，创建者成为 MODERATOR
func (s *TeamService) CreateTeam(ctx context.Context, req *model.CreateTeamReq, creatorId *uint64) (*model.Team, error) {
	// 1. 参数校验
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("team name is required")
	}
	var chatId *string
	if req.ChatId != nil && strings.TrimSpace(*req.ChatId) != "" {
		c := strings.TrimSpace(*req.ChatId)
		chatId = &c
	}

	if creatorId != nil {
		if _, err := s.users.GetUserById(ctx, *creatorId); err != nil {
			return nil, lookupErr(err, "user", *creatorId)
		}
	}

	// 2. 同一会话内名称不可重复
	if chatId != nil {
		exists, err := s.teams.CheckTeamNameExistsInChat(ctx, *chatId, name)
		if err != nil {
			return nil, fmt.Errorf("check team name failed: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: team %q already exists in chat %s", ErrConflict, name, *chatId)
		}
	}

	// 3. 生成邀请码
	code, err := s.generateInviteCode(ctx)
	if err != nil {
		return nil, err
	}

	// 4. 事务内创建团队、设置与成员关系
	team := &model.Team{Name: name, InviteCode: code, ChatId: chatId}
	if err := s.teams.CreateTeam(ctx, team, creatorId); err != nil {
		log.Errorw("create team failed", "name", name, "error", err)
		return nil, fmt.Errorf("create team failed: %w", err)
	}

	log.Infow("success create team", "teamId", team.ID, "name", name, "inviteCode", code)
	return team, nil
}

func (s *TeamService) generateInviteCode(ctx context.Context) (string, error) {
	for range inviteCodeAttempts {
		code := s.newInviteCode()
		exists, err := s.teams.CheckInviteCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check invite code failed: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: no free invite code after %d attempts", ErrConflict, inviteCodeAttempts)
}

func (s *TeamService) GetTeamById(ctx context.Context, teamId uint64) (*model.Team, error) {
	team, err := s.teams.GetTeamById(ctx, teamId)
	if err != nil {
		return nil, lookupErr(err, "team", teamId)
	}
	return team, nil
}

func (s *TeamService) GetTeamByInviteCode(ctx context.Context, code string) (*model.Team, error) {
	team, err := s.teams.GetTeamByInviteCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, lookupErr(err, "invite code", code)
	}
	return team, nil
}

func (s *TeamService) GetTeamByChatId(ctx context.Context, chatId string) (*model.Team, error) {
	team, err := s.teams.GetTeamByChatId(ctx, chatId)
	if err != nil {
		return nil, lookupErr(err, "team of chat", chatId)
	}
	return team, nil
}

func (s *TeamService) ListTeams(ctx context.Context) ([]*model.Team, error) {
	teams, err := s.teams.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams failed: %w", err)
	}
	return teams, nil
}

func (s *TeamService) ListTeamsByUser(ctx context.Context, userId uint64) ([]*model.Team, error) {
	if _, err := s.users.GetUserById(ctx, userId); err != nil {
		return nil, lookupErr(err, "user", userId)
	}
	teams, err := s.teams.ListTeamsByUserId(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("list teams of user %d failed: %w", userId, err)
	}
	return teams, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, actorId, teamId uint64, req *model.UpdateTeamReq) (*model.Team, error) {
	if err := s.policy.RequireModerator(ctx, actorId, teamId); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("team name cannot be blank")
		}
		updates["name"] = name
	}
	if req.ChatId != nil {
		// 空字符串表示解除绑定
		if c := strings.TrimSpace(*req.ChatId); c == "" {
			updates["chat_id"] = nil
		} else {
			updates["chat_id"] = c
		}
	}

	if len(updates) > 0 {
		if err := s.teams.UpdateTeam(ctx, teamId, updates); err != nil {
			log.Errorw("update team failed", "teamId", teamId, "error", err)
			return nil, fmt.Errorf("update team failed: %w", err)
		}
	}
	return s.GetTeamById(ctx, teamId)
}

// DeleteTeam removes the team with its events, registrations, members and settings.
func (s *TeamService) DeleteTeam(ctx context.Context, actorId, teamId uint64) error {
	if err := s.policy.RequireModerator(ctx, actorId, teamId); err != nil {
		return err
	}
	return s.deleteTeam(ctx, teamId)
}

func (s *TeamService) deleteTeam(ctx context.Context, teamId uint64) error {
	if err := s.teams.DeleteTeam(ctx, teamId); err != nil {
		log.Errorw("delete team failed", "teamId", teamId, "error", err)
		return fmt.Errorf("delete team failed: %w", err)
	}
	log.Infow("success delete team", "teamId", teamId)
	return nil
}

// JoinTeam adds a USER membership. Joining twice is a no-op.
func (s *TeamService) JoinTeam(ctx context.Context, userId uint64, inviteCode string) (*model.Team, error) {
	team, err := s.GetTeamByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserById(ctx, userId); err != nil {
		return nil, lookupErr(err, "user", userId)
	}

	_, err = s.members.GetMember(ctx, team.ID, userId)
	if err == nil {
		return team, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get membership failed: %w", err)
	}

	m := &model.TeamMember{TeamId: team.ID, UserId: userId, Role: model.TeamRoleUser}
	if err := s.members.AddMember(ctx, m); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		log.Errorw("join team failed", "teamId", team.ID, "userId", userId, "error", err)
		return nil, fmt.Errorf("join team failed: %w", err)
	}
	log.Infow("user joined team", "teamId", team.ID, "userId", userId)
	return team, nil
}

func (s *TeamService) LeaveTeam(ctx context.Context, userId uint64, inviteCode string) error {
	team, err := s.GetTeamByInviteCode(ctx, inviteCode)
	if err != nil {
		return err
	}
	n, err := s.members.RemoveMember(ctx, team.ID, userId)
	if err != nil {
		return fmt.Errorf("leave team failed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: user %d is not a member of team %d", ErrNotFound, userId, team.ID)
	}
	return nil
}

func (s *TeamService) ListMembers(ctx context.Context, teamId uint64) ([]*model.TeamMemberDetail, error) {
	exists, err := s.teams.CheckTeamExists(ctx, teamId)
	if err != nil {
		return nil, fmt.Errorf("check team failed: %w", err)
	}
	if !exists {
		return nil, notFound("team", teamId)
	}
	members, err := s.members.ListMembers(ctx, teamId)
	if err != nil {
		return nil, fmt.Errorf("list members failed: %w", err)
	}
	return members, nil
}

// GetUserRole returns the user's role inside the team.
func (s *TeamService) GetUserRole(ctx context.Context, userId, teamId uint64) (model.TeamRole, error) {
	m, err := s.members.GetMember(ctx, teamId, userId)
	if err != nil {
		return "", lookupErr(err, "membership of user", userId)
	}
	return m.Role, nil
}

func (s *TeamService) AddMember(ctx context.Context, actorId, teamId uint64, req *model.AddMemberReq) (*model.TeamMember, error) {
	role := req.Role
	if role == "" {
		role = model.TeamRoleUser
	}
	if err := s.checkGrant(ctx, actorId, teamId, role); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserById(ctx, req.UserId); err != nil {
		return nil, lookupErr(err, "user", req.UserId)
	}

	m := &model.TeamMember{TeamId: teamId, UserId: req.UserId, Role: role}
	if err := s.members.AddMember(ctx, m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user %d is already a member of team %d", ErrConflict, req.UserId, teamId)
		}
		return nil, fmt.Errorf("add member failed: %w", err)
	}
	return m, nil
}

func (s *TeamService) UpdateMemberRole(ctx context.Context, actorId, teamId, userId uint64, role model.TeamRole) error {
	if err := s.checkGrant(ctx, actorId, teamId, role); err != nil {
		return err
	}
	if _, err := s.members.GetMember(ctx, teamId, userId); err != nil {
		return lookupErr(err, "membership of user", userId)
	}
	if err := s.members.UpdateMemberRole(ctx, teamId, userId, role); err != nil {
		return fmt.Errorf("update member role failed: %w", err)
	}
	log.Infow("member role updated", "teamId", teamId, "userId", userId, "role", role)
	return nil
}

func (s *TeamService) RemoveMember(ctx context.Context, actorId, teamId, userId uint64) error {
	if err := s.policy.RequireModerator(ctx, actorId, teamId); err != nil {
		return err
	}
	n, err := s.members.RemoveMember(ctx, teamId, userId)
	if err != nil {
		return fmt.Errorf("remove member failed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: user %d is not a member of team %d", ErrNotFound, userId, teamId)
	}
	return nil
}

// checkGrant: moderators manage members, only team or global admins grant ADMIN.
func (s *TeamService) checkGrant(ctx context.Context, actorId, teamId uint64, role model.TeamRole) error {
	if !role.Valid() {
		return invalid("unknown team role %q", role)
	}
	if err := s.policy.RequireModerator(ctx, actorId, teamId); err != nil {
		return err
	}
	if role != model.TeamRoleAdmin {
		return nil
	}
	ok, err := s.policy.IsTeamAdmin(ctx, actorId, teamId)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: only an admin can grant the ADMIN role", ErrAccessDenied)
	}
	return nil
}
