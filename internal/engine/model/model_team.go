package model

type Team struct {
	BaseModel
	Name       string  `gorm:"column:name;size:255;not null" json:"name"`
	InviteCode string  `gorm:"column:invite_code;size:16;uniqueIndex;not null" json:"inviteCode"` // 邀请码，创建后不变
	ChatId     *string `gorm:"column:chat_id;size:128;index" json:"chatId,omitempty"`              // 通知目标会话
}

func (Team) TableName() string {
	return "t_team"
}

type CreateTeamReq struct {
	Name   string  `json:"name" validate:"required,max=255"`
	ChatId *string `json:"chatId" validate:"omitempty,max=128"`
}

type UpdateTeamReq struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=255"`
	ChatId *string `json:"chatId" validate:"omitempty,max=128"`
}

type InviteCodeReq struct {
	InviteCode string `json:"inviteCode" validate:"required,len=6"`
}
