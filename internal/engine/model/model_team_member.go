package model

// TeamMember 用户在团队内的成员关系，(team_id, user_id) 唯一
type TeamMember struct {
	BaseModel
	TeamId uint64   `gorm:"column:team_id;not null;uniqueIndex:uk_team_user" json:"teamId"`
	UserId uint64   `gorm:"column:user_id;not null;uniqueIndex:uk_team_user;index" json:"userId"`
	Role   TeamRole `gorm:"column:role;size:16;not null" json:"role"`
}

func (TeamMember) TableName() string {
	return "t_team_member"
}

// TeamMemberDetail 成员列表项
type TeamMemberDetail struct {
	UserId   uint64   `json:"userId"`
	Username string   `json:"username"`
	FullName string   `json:"fullName"`
	Email    string   `json:"email"`
	Role     TeamRole `json:"role"`
}

type AddMemberReq struct {
	UserId uint64   `json:"userId" validate:"required"`
	Role   TeamRole `json:"role"`
}

type UpdateMemberRoleReq struct {
	Role TeamRole `json:"role" validate:"required"`
}
