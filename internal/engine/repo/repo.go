package repo

import (
	"github.com/go-arcade/quizhub/pkg/database"
)

// Repositories 聚合所有仓储
type Repositories struct {
	User                 IUserRepository
	Team                 ITeamRepository
	TeamMember           ITeamMemberRepository
	Event                IEventRepository
	Registration         IRegistrationRepository
	NotificationSettings INotificationSettingsRepository
}

func NewRepositories(db database.IDatabase) *Repositories {
	return &Repositories{
		User:                 NewUserRepo(db),
		Team:                 NewTeamRepo(db),
		TeamMember:           NewTeamMemberRepo(db),
		Event:                NewEventRepo(db),
		Registration:         NewRegistrationRepo(db),
		NotificationSettings: NewNotificationSettingsRepo(db),
	}
}
