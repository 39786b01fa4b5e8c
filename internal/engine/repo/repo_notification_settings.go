package repo

import (
	"context"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/pkg/database"
)

type INotificationSettingsRepository interface {
	GetSettings(ctx context.Context, teamId uint64) (*model.TeamNotificationSettings, error)
	SaveSettings(ctx context.Context, s *model.TeamNotificationSettings) error
	// ListReminderEnabled 返回开启活动提醒的团队设置
	ListReminderEnabled(ctx context.Context) ([]*model.TeamNotificationSettings, error)
}

type NotificationSettingsRepo struct {
	database.IDatabase
}

func NewNotificationSettingsRepo(db database.IDatabase) INotificationSettingsRepository {
	return &NotificationSettingsRepo{IDatabase: db}
}

func (r *NotificationSettingsRepo) GetSettings(ctx context.Context, teamId uint64) (*model.TeamNotificationSettings, error) {
	var s model.TeamNotificationSettings
	if err := r.Database().WithContext(ctx).Where("team_id = ?", teamId).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *NotificationSettingsRepo) SaveSettings(ctx context.Context, s *model.TeamNotificationSettings) error {
	return r.Database().WithContext(ctx).Save(s).Error
}

func (r *NotificationSettingsRepo) ListReminderEnabled(ctx context.Context) ([]*model.TeamNotificationSettings, error) {
	var list []*model.TeamNotificationSettings
	err := r.Database().WithContext(ctx).
		Where("event_reminder_enabled = ?", true).
		Order("team_id ASC").
		Find(&list).Error
	return list, err
}
