package model

import (
	"time"

	"github.com/go-arcade/quizhub/pkg/database"
)

type BaseModel struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Page 分页结果
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

func init() {
	database.RegisterModels(
		&User{},
		&Team{},
		&TeamMember{},
		&Event{},
		&Registration{},
		&TeamNotificationSettings{},
	)
}
