package service

import (
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/internal/pkg/notify"
	httpx "github.com/go-arcade/quizhub/pkg/http"
)

// Services 聚合所有业务服务
type Services struct {
	Policy               *AccessPolicy
	User                 *UserService
	Team                 *TeamService
	Event                *EventService
	Registration         *RegistrationService
	NotificationSettings *NotificationSettingsService
}

func NewServices(repos *repo.Repositories, auth *httpx.Auth, images ImageUploader, dispatcher *notify.Dispatcher) *Services {
	policy := NewAccessPolicy(repos)
	return &Services{
		Policy:               policy,
		User:                 NewUserService(repos, auth),
		Team:                 NewTeamService(repos, policy),
		Event:                NewEventService(repos, policy, images),
		Registration:         NewRegistrationService(repos, policy, dispatcher),
		NotificationSettings: NewNotificationSettingsService(repos, policy, dispatcher),
	}
}
