package model

import "strings"

// Registration 报名记录；同一活动下全名（忽略大小写）唯一
type Registration struct {
	BaseModel
	EventId      uint64 `gorm:"column:event_id;not null;uniqueIndex:uk_event_name" json:"eventId"`
	FullName     string `gorm:"column:full_name;size:255;not null" json:"fullName"`
	NameKey      string `gorm:"column:name_key;size:255;not null;uniqueIndex:uk_event_name" json:"-"`
	RegistrantId uint64 `gorm:"column:registrant_id;not null;index" json:"registrantId"`
}

func (Registration) TableName() string {
	return "t_registration"
}

// NormalizeName is the comparison key for duplicate detection.
func NormalizeName(fullName string) string {
	return strings.ToLower(strings.Join(strings.Fields(fullName), " "))
}

type RegisterReq struct {
	FullName string `json:"fullName" validate:"required,max=255"`
}
