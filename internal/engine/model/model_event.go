package model

import "time"

type Event struct {
	BaseModel
	Name              string         `gorm:"column:name;size:255;not null" json:"name"`
	DateTime          time.Time      `gorm:"column:date_time;not null;index" json:"dateTime"`
	Location          string         `gorm:"column:location;size:255;not null" json:"location"`
	Description       *string        `gorm:"column:description;type:text" json:"description,omitempty"`
	PosterUrl         *string        `gorm:"column:poster_url;size:512" json:"posterUrl,omitempty"`
	AlbumLink         *string        `gorm:"column:album_link;size:512" json:"albumLink,omitempty"`
	Result            *string        `gorm:"column:result;size:255" json:"result,omitempty"`
	Price             *string        `gorm:"column:price;size:64" json:"price,omitempty"`
	TeamId            uint64         `gorm:"column:team_id;not null;index" json:"teamId"` // 创建后不可修改
	RegistrationOpen  bool           `gorm:"column:registration_open;not null" json:"registrationOpen"`
	Hidden            bool           `gorm:"column:hidden;not null" json:"hidden"`
	RegistrationLimit *int           `gorm:"column:registration_limit" json:"registrationLimit,omitempty"` // 仅用于汇总中区分主阵容与替补
	Registrations     []Registration `gorm:"foreignKey:EventId" json:"registrations"`
}

func (Event) TableName() string {
	return "t_event"
}

// EventCreateReq 创建活动；TeamId 为所属团队
type EventCreateReq struct {
	Name              string    `json:"name" validate:"required,max=255"`
	DateTime          time.Time `json:"dateTime" validate:"required"`
	Location          string    `json:"location" validate:"required,max=255"`
	Description       *string   `json:"description"`
	AlbumLink         *string   `json:"albumLink" validate:"omitempty,max=512"`
	Result            *string   `json:"result" validate:"omitempty,max=255"`
	Price             *string   `json:"price" validate:"omitempty,max=64"`
	TeamId            uint64    `json:"teamId" validate:"required"`
	RegistrationOpen  *bool     `json:"registrationOpen"`
	Hidden            *bool     `json:"hidden"`
	RegistrationLimit *int      `json:"registrationLimit" validate:"omitempty,gt=0"`
}

// EventUpdateReq 部分更新，nil 字段保持原值
type EventUpdateReq struct {
	Name              *string    `json:"name" validate:"omitempty,min=1,max=255"`
	DateTime          *time.Time `json:"dateTime"`
	Location          *string    `json:"location" validate:"omitempty,min=1,max=255"`
	Description       *string    `json:"description"`
	AlbumLink         *string    `json:"albumLink" validate:"omitempty,max=512"`
	Result            *string    `json:"result" validate:"omitempty,max=255"`
	Price             *string    `json:"price" validate:"omitempty,max=64"`
	RegistrationOpen  *bool      `json:"registrationOpen"`
	Hidden            *bool      `json:"hidden"`
	RegistrationLimit *int       `json:"registrationLimit" validate:"omitempty,gt=0"`
}

// EventQuery 团队活动列表查询
type EventQuery struct {
	TeamId        uint64
	Page          int    // 从 0 开始
	Size          int
	Sort          string // "field,dir"，如 "dateTime,desc"
	Search        string
	CurrentUserId uint64
}

// EventResp 列表项，附带当前用户是否已报名
type EventResp struct {
	Event
	IsRegistered bool `json:"isRegistered"`
}
