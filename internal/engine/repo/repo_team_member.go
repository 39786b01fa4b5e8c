package repo

import (
	"context"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/pkg/database"
)

type ITeamMemberRepository interface {
	AddMember(ctx context.Context, m *model.TeamMember) error
	GetMember(ctx context.Context, teamId, userId uint64) (*model.TeamMember, error)
	UpdateMemberRole(ctx context.Context, teamId, userId uint64, role model.TeamRole) error
	RemoveMember(ctx context.Context, teamId, userId uint64) (int64, error)
	ListMembers(ctx context.Context, teamId uint64) ([]*model.TeamMemberDetail, error)
}

type TeamMemberRepo struct {
	database.IDatabase
}

func NewTeamMemberRepo(db database.IDatabase) ITeamMemberRepository {
	return &TeamMemberRepo{IDatabase: db}
}

func (r *TeamMemberRepo) AddMember(ctx context.Context, m *model.TeamMember) error {
	return r.Database().WithContext(ctx).Create(m).Error
}

func (r *TeamMemberRepo) GetMember(ctx context.Context, teamId, userId uint64) (*model.TeamMember, error) {
	var m model.TeamMember
	err := r.Database().WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamId, userId).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *TeamMemberRepo) UpdateMemberRole(ctx context.Context, teamId, userId uint64, role model.TeamRole) error {
	return r.Database().WithContext(ctx).Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamId, userId).
		Update("role", role).Error
}

func (r *TeamMemberRepo) RemoveMember(ctx context.Context, teamId, userId uint64) (int64, error) {
	res := r.Database().WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamId, userId).
		Delete(&model.TeamMember{})
	return res.RowsAffected, res.Error
}

func (r *TeamMemberRepo) ListMembers(ctx context.Context, teamId uint64) ([]*model.TeamMemberDetail, error) {
	var members []*model.TeamMemberDetail
	err := r.Database().WithContext(ctx).
		Table("t_team_member m").
		Select("m.user_id, u.username, u.full_name, u.email, m.role").
		Joins("JOIN t_user u ON u.id = m.user_id").
		Where("m.team_id = ?", teamId).
		Order("m.id ASC").
		Scan(&members).Error
	return members, err
}
