package repo

import (
	"context"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/pkg/database"
	"gorm.io/gorm"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	UpdateUser(ctx context.Context, userId uint64, updates map[string]any) error
	// DeleteUser 同一事务中删除成员关系与报名记录
	DeleteUser(ctx context.Context, userId uint64) error
	GetUserById(ctx context.Context, userId uint64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByTelegramId(ctx context.Context, telegramId int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	CheckUsernameExists(ctx context.Context, username string) (bool, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
}

type UserRepo struct {
	database.IDatabase
}

func NewUserRepo(db database.IDatabase) IUserRepository {
	return &UserRepo{IDatabase: db}
}

func (r *UserRepo) CreateUser(ctx context.Context, u *model.User) error {
	return r.Database().WithContext(ctx).Create(u).Error
}

func (r *UserRepo) UpdateUser(ctx context.Context, userId uint64, updates map[string]any) error {
	return r.Database().WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).Updates(updates).Error
}

func (r *UserRepo) DeleteUser(ctx context.Context, userId uint64) error {
	return r.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userId).Delete(&model.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("registrant_id = ?", userId).Delete(&model.Registration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, userId).Error
	})
}

func (r *UserRepo) GetUserById(ctx context.Context, userId uint64) (*model.User, error) {
	var u model.User
	if err := r.Database().WithContext(ctx).First(&u, userId).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.Database().WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetUserByTelegramId(ctx context.Context, telegramId int64) (*model.User, error) {
	var u model.User
	if err := r.Database().WithContext(ctx).Where("telegram_id = ?", telegramId).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ListUsers(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.Database().WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepo) CheckUsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.Database().WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *UserRepo) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.Database().WithContext(ctx).Model(&model.User{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error
	return count > 0, err
}
