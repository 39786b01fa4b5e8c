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

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"gorm.io/gorm"
)

// AccessPolicy decides who may act on team scoped resources. A user
// without a membership in the team is never a moderator; this is a plain
// false, not an error.
type AccessPolicy struct {
	users   repo.IUserRepository
	teams   repo.ITeamRepository
	members repo.ITeamMemberRepository
}

func NewAccessPolicy(repos *repo.Repositories) *AccessPolicy {
	return &AccessPolicy{
		users:   repos.User,
		teams:   repos.Team,
		members: repos.TeamMember,
	}
}

// IsModerator reports whether the user is a global ADMIN or holds a
// MODERATOR/ADMIN membership in the team.
func (p *AccessPolicy) IsModerator(ctx context.Context, userId, teamId uint64) (bool, error) {
	user, err := p.users.GetUserById(ctx, userId)
	if err != nil {
		return false, lookupErr(err, "user", userId)
	}
	return p.isModerator(ctx, user, teamId)
}

func (p *AccessPolicy) isModerator(ctx context.Context, user *model.User, teamId uint64) (bool, error) {
	exists, err := p.teams.CheckTeamExists(ctx, teamId)
	if err != nil {
		return false, fmt.Errorf("check team %d: %w", teamId, err)
	}
	if !exists {
		return false, notFound("team", teamId)
	}

	if user.Role.IsAdmin() {
		return true, nil
	}

	role, err := p.teamRole(ctx, user.ID, teamId)
	if err != nil {
		return false, err
	}
	return role.Elevated(), nil
}

// IsTeamAdmin reports whether the user may grant the team ADMIN role.
func (p *AccessPolicy) IsTeamAdmin(ctx context.Context, userId, teamId uint64) (bool, error) {
	user, err := p.users.GetUserById(ctx, userId)
	if err != nil {
		return false, lookupErr(err, "user", userId)
	}
	if user.Role.IsAdmin() {
		return true, nil
	}
	role, err := p.teamRole(ctx, userId, teamId)
	if err != nil {
		return false, err
	}
	return role == model.TeamRoleAdmin, nil
}

// teamRole returns "" when the user is not a member.
func (p *AccessPolicy) teamRole(ctx context.Context, userId, teamId uint64) (model.TeamRole, error) {
	m, err := p.members.GetMember(ctx, teamId, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get membership team=%d user=%d: %w", teamId, userId, err)
	}
	return m.Role, nil
}

func (p *AccessPolicy) CanModifyEvent(ctx context.Context, userId uint64, event *model.Event) (bool, error) {
	return p.IsModerator(ctx, userId, event.TeamId)
}

// CanUnregister: global ADMIN, a moderator of the event's team, or the
// registrant.
func (p *AccessPolicy) CanUnregister(ctx context.Context, actor *model.User, reg *model.Registration, event *model.Event) (bool, error) {
	if actor.Role.IsAdmin() || reg.RegistrantId == actor.ID {
		return true, nil
	}
	return p.isModerator(ctx, actor, event.TeamId)
}

// RequireModerator returns ErrAccessDenied when IsModerator is false.
func (p *AccessPolicy) RequireModerator(ctx context.Context, userId, teamId uint64) error {
	ok, err := p.IsModerator(ctx, userId, teamId)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user %d is not a moderator of team %d", ErrAccessDenied, userId, teamId)
	}
	return nil
}
