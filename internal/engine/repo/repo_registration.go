package repo

import (
	"context"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/pkg/database"
)

type IRegistrationRepository interface {
	// CreateRegistration 重复的 (event_id, name_key) 返回 gorm.ErrDuplicatedKey
	CreateRegistration(ctx context.Context, reg *model.Registration) error
	GetRegistrationById(ctx context.Context, registrationId uint64) (*model.Registration, error)
	CheckNameRegistered(ctx context.Context, eventId uint64, nameKey string) (bool, error)
	DeleteRegistration(ctx context.Context, registrationId uint64) error
	CountByEvent(ctx context.Context, eventId uint64) (int64, error)
}

type RegistrationRepo struct {
	database.IDatabase
}

func NewRegistrationRepo(db database.IDatabase) IRegistrationRepository {
	return &RegistrationRepo{IDatabase: db}
}

func (r *RegistrationRepo) CreateRegistration(ctx context.Context, reg *model.Registration) error {
	return r.Database().WithContext(ctx).Create(reg).Error
}

func (r *RegistrationRepo) GetRegistrationById(ctx context.Context, registrationId uint64) (*model.Registration, error) {
	var reg model.Registration
	if err := r.Database().WithContext(ctx).First(&reg, registrationId).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepo) CheckNameRegistered(ctx context.Context, eventId uint64, nameKey string) (bool, error) {
	var count int64
	err := r.Database().WithContext(ctx).Model(&model.Registration{}).
		Where("event_id = ? AND name_key = ?", eventId, nameKey).
		Count(&count).Error
	return count > 0, err
}

func (r *RegistrationRepo) DeleteRegistration(ctx context.Context, registrationId uint64) error {
	return r.Database().WithContext(ctx).Delete(&model.Registration{}, registrationId).Error
}

func (r *RegistrationRepo) CountByEvent(ctx context.Context, eventId uint64) (int64, error) {
	var count int64
	err := r.Database().WithContext(ctx).Model(&model.Registration{}).Where("event_id = ?", eventId).Count(&count).Error
	return count, err
}
