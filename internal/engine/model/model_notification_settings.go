package model

const DefaultReminderHoursBefore = 24

// TeamNotificationSettings 团队通知设置，与团队一对一
type TeamNotificationSettings struct {
	BaseModel
	TeamId                          uint64 `gorm:"column:team_id;not null;uniqueIndex" json:"teamId"`
	RegistrationNotificationEnabled bool   `gorm:"column:registration_notification_enabled;not null" json:"registrationNotificationEnabled"`
	UnregisterNotificationEnabled   bool   `gorm:"column:unregister_notification_enabled;not null" json:"unregisterNotificationEnabled"`
	EventReminderEnabled            bool   `gorm:"column:event_reminder_enabled;not null" json:"eventReminderEnabled"`
	ReminderHoursBefore             int    `gorm:"column:reminder_hours_before;not null" json:"reminderHoursBefore"`
}

func (TeamNotificationSettings) TableName() string {
	return "t_team_notification_settings"
}

// DefaultNotificationSettings 团队创建时的默认设置
func DefaultNotificationSettings(teamId uint64) *TeamNotificationSettings {
	return &TeamNotificationSettings{
		TeamId:                          teamId,
		RegistrationNotificationEnabled: true,
		UnregisterNotificationEnabled:   true,
		EventReminderEnabled:            true,
		ReminderHoursBefore:             DefaultReminderHoursBefore,
	}
}

type UpdateNotificationSettingsReq struct {
	RegistrationNotificationEnabled *bool `json:"registrationNotificationEnabled"`
	UnregisterNotificationEnabled   *bool `json:"unregisterNotificationEnabled"`
	EventReminderEnabled            *bool `json:"eventReminderEnabled"`
	ReminderHoursBefore             *int  `json:"reminderHoursBefore" validate:"omitempty,min=1,max=168"`
}
