package model

type User struct {
	BaseModel
	Username   string     `gorm:"column:username;size:64;uniqueIndex;not null" json:"username"`
	Email      string     `gorm:"column:email;size:128;uniqueIndex;not null" json:"email"`
	FullName   string     `gorm:"column:full_name;size:255" json:"fullName"`
	Password   string     `gorm:"column:password;size:255;not null" json:"-"` // bcrypt
	Role       GlobalRole `gorm:"column:role;size:16;not null" json:"role"`
	TelegramId *int64     `gorm:"column:telegram_id;uniqueIndex" json:"telegramId,omitempty"`
}

func (User) TableName() string {
	return "t_user"
}

type SignUpReq struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email,max=128"`
	FullName string `json:"fullName" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type SignInReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UpdateUserReq struct {
	FullName   *string     `json:"fullName" validate:"omitempty,min=1,max=255"`
	Role       *GlobalRole `json:"role"`
	TelegramId *int64      `json:"telegramId"`
}
