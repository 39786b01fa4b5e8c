package service

import (
	"context"
	"fmt"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/pkg/log"
)

const (
	minReminderHours = 1
	maxReminderHours = 168
)

// Pinger sends a test message to a team chat.
type Pinger interface {
	Ping(ctx context.Context, team *model.Team) error
}

type NotificationSettingsService struct {
	settings repo.INotificationSettingsRepository
	teams    repo.ITeamRepository
	policy   *AccessPolicy
	pinger   Pinger
}

func NewNotificationSettingsService(repos *repo.Repositories, policy *AccessPolicy, pinger Pinger) *NotificationSettingsService {
	return &NotificationSettingsService{
		settings: repos.NotificationSettings,
		teams:    repos.Team,
		policy:   policy,
		pinger:   pinger,
	}
}

func (s *NotificationSettingsService) GetSettings(ctx context.Context, teamId uint64) (*model.TeamNotificationSettings, error) {
	settings, err := s.settings.GetSettings(ctx, teamId)
	if err != nil {
		return nil, lookupErr(err, "notification settings of team", teamId)
	}
	return settings, nil
}

// UpdateSettings applies the non-nil fields. Requires a moderator.
func (s *NotificationSettingsService) UpdateSettings(ctx context.Context, actorId, teamId uint64, req *model.UpdateNotificationSettingsReq) (*model.TeamNotificationSettings, error) {
	if err := s.policy.RequireModerator(ctx, actorId, teamId); err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(ctx, teamId)
	if err != nil {
		return nil, err
	}

	if req.ReminderHoursBefore != nil {
		h := *req.ReminderHoursBefore
		if h < minReminderHours || h > maxReminderHours {
			return nil, invalid("reminder hours must be between %d and %d", minReminderHours, maxReminderHours)
		}
		settings.ReminderHoursBefore = h
	}
	if req.RegistrationNotificationEnabled != nil {
		settings.RegistrationNotificationEnabled = *req.RegistrationNotificationEnabled
	}
	if req.UnregisterNotificationEnabled != nil {
		settings.UnregisterNotificationEnabled = *req.UnregisterNotificationEnabled
	}
	if req.EventReminderEnabled != nil {
		settings.EventReminderEnabled = *req.EventReminderEnabled
	}

	if err := s.settings.SaveSettings(ctx, settings); err != nil {
		log.Errorw("save notification settings failed", "teamId", teamId, "error", err)
		return nil, fmt.Errorf("save notification settings failed: %w", err)
	}
	return settings, nil
}

// ResetSettings restores the defaults.
func (s *NotificationSettingsService) ResetSettings(ctx context.Context, actorId, teamId uint64) (*model.TeamNotificationSettings, error) {
	if err := s.policy.RequireModerator(ctx, actorId, teamId); err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(ctx, teamId)
	if err != nil {
		return nil, err
	}

	def := model.DefaultNotificationSettings(teamId)
	def.ID = settings.ID
	def.CreatedAt = settings.CreatedAt
	if err := s.settings.SaveSettings(ctx, def); err != nil {
		return nil, fmt.Errorf("reset notification settings failed: %w", err)
	}
	return def, nil
}

// Ping sends a test message to the team chat. Delivery problems are
// reported as false, not as an error.
func (s *NotificationSettingsService) Ping(ctx context.Context, actorId, teamId uint64) (bool, error) {
	if err := s.policy.RequireModerator(ctx, actorId, teamId); err != nil {
		return false, err
	}
	team, err := s.teams.GetTeamById(ctx, teamId)
	if err != nil {
		return false, lookupErr(err, "team", teamId)
	}
	if err := s.pinger.Ping(ctx, team); err != nil {
		log.Warnw("ping team chat failed", "teamId", teamId, "error", err)
		return false, nil
	}
	return true, nil
}
