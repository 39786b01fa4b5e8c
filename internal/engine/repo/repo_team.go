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

package repo

import (
	"context"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/pkg/database"
	"gorm.io/gorm"
)

type ITeamRepository interface {
	// CreateTeam 在同一事务中创建团队、默认通知设置以及创建者的 MODERATOR 成员关系
	CreateTeam(ctx context.Context, t *model.Team, creatorId *uint64) error
	UpdateTeam(ctx context.Context, teamId uint64, updates map[string]any) error
	// DeleteTeam 级联删除报名、活动、成员、通知设置和团队本身
	DeleteTeam(ctx context.Context, teamId uint64) error
	GetTeamById(ctx context.Context, teamId uint64) (*model.Team, error)
	GetTeamByInviteCode(ctx context.Context, code string) (*model.Team, error)
	GetTeamByChatId(ctx context.Context, chatId string) (*model.Team, error)
	ListTeams(ctx context.Context) ([]*model.Team, error)
	ListTeamsByUserId(ctx context.Context, userId uint64) ([]*model.Team, error)
	CheckTeamExists(ctx context.Context, teamId uint64) (bool, error)
	CheckInviteCodeExists(ctx context.Context, code string) (bool, error)
	CheckTeamNameExistsInChat(ctx context.Context, chatId, name string) (bool, error)
}

type TeamRepo struct {
	database.IDatabase
}

func NewTeamRepo(db database.IDatabase) ITeamRepository {
	return &TeamRepo{IDatabase: db}
}

func (r *TeamRepo) CreateTeam(ctx context.Context, t *model.Team, creatorId *uint64) error {
	return r.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		if err := tx.Create(model.DefaultNotificationSettings(t.ID)).Error; err != nil {
			return err
		}
		if creatorId == nil {
			return nil
		}
		return tx.Create(&model.TeamMember{
			TeamId: t.ID,
			UserId: *creatorId,
			Role:   model.TeamRoleModerator,
		}).Error
	})
}

func (r *TeamRepo) UpdateTeam(ctx context.Context, teamId uint64, updates map[string]any) error {
	return r.Database().WithContext(ctx).Model(&model.Team{}).
		Where("id = ?", teamId).
		Updates(updates).Error
}

func (r *TeamRepo) DeleteTeam(ctx context.Context, teamId uint64) error {
	return r.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eventIds := tx.Model(&model.Event{}).Select("id").Where("team_id = ?", teamId)
		if err := tx.Where("event_id IN (?)", eventIds).Delete(&model.Registration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamId).Delete(&model.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamId).Delete(&model.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamId).Delete(&model.TeamNotificationSettings{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Team{}, teamId).Error
	})
}

func (r *TeamRepo) GetTeamById(ctx context.Context, teamId uint64) (*model.Team, error) {
	var t model.Team
	if err := r.Database().WithContext(ctx).First(&t, teamId).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepo) GetTeamByInviteCode(ctx context.Context, code string) (*model.Team, error) {
	var t model.Team
	err := r.Database().WithContext(ctx).Where("invite_code = ?", code).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTeamByChatId returns the oldest team bound to the chat.
func (r *TeamRepo) GetTeamByChatId(ctx context.Context, chatId string) (*model.Team, error) {
	var t model.Team
	err := r.Database().WithContext(ctx).Where("chat_id = ?", chatId).Order("id ASC").First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepo) ListTeams(ctx context.Context) ([]*model.Team, error) {
	var teams []*model.Team
	err := r.Database().WithContext(ctx).Order("id ASC").Find(&teams).Error
	return teams, err
}

func (r *TeamRepo) ListTeamsByUserId(ctx context.Context, userId uint64) ([]*model.Team, error) {
	var teams []*model.Team
	err := r.Database().WithContext(ctx).
		Joins("JOIN t_team_member m ON m.team_id = t_team.id").
		Where("m.user_id = ?", userId).
		Order("t_team.id ASC").
		Find(&teams).Error
	return teams, err
}

func (r *TeamRepo) CheckTeamExists(ctx context.Context, teamId uint64) (bool, error) {
	var count int64
	err := r.Database().WithContext(ctx).Model(&model.Team{}).Where("id = ?", teamId).Count(&count).Error
	return count > 0, err
}

func (r *TeamRepo) CheckInviteCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.Database().WithContext(ctx).Model(&model.Team{}).Where("invite_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *TeamRepo) CheckTeamNameExistsInChat(ctx context.Context, chatId, name string) (bool, error) {
	var count int64
	err := r.Database().WithContext(ctx).Model(&model.Team{}).
		Where("chat_id = ? AND LOWER(name) = LOWER(?)", chatId, name).
		Count(&count).Error
	return count > 0, err
}
