// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/internal/pkg/notify"
	"github.com/go-arcade/quizhub/pkg/log"
	"gorm.io/gorm"
)

// Notifier delivers team notifications. It never fails the caller.
type Notifier interface {
	Dispatch(ctx context.Context, event *model.Event, participant string, kind notify.Kind)
}

type RegistrationService struct {
	events        repo.IEventRepository
	users         repo.IUserRepository
	registrations repo.IRegistrationRepository
	policy        *AccessPolicy
	notifier      Notifier
}

func NewRegistrationService(repos *repo.Repositories, policy *AccessPolicy, notifier Notifier) *RegistrationService {
	return &RegistrationService{
		events:        repos.Event,
		users:         repos.User,
		registrations: repos.Registration,
		policy:        policy,
		notifier:      notifier,
	}
}

// Register adds fullName to the event. The registration limit only shapes
// the summary and is not enforced here.
//
// Names are compared case-insensitively with whitespace runs folded, so
// "Alice  A." and "alice a." count as the same participant. The unique
// (event_id, name_key) index backs the check under concurrent calls.
func (s *RegistrationService) Register(ctx context.Context, eventId uint64, fullName string, userId uint64) (*model.Registration, error) {
	fullName = strings.Join(strings.Fields(fullName), " ")
	if fullName == "" {
		return nil, invalid("full name is required")
	}

	event, err := s.events.GetEventById(ctx, eventId)
	if err != nil {
		return nil, lookupErr(err, "event", eventId)
	}
	if _, err := s.users.GetUserById(ctx, userId); err != nil {
		return nil, lookupErr(err, "user", userId)
	}

	nameKey := model.NormalizeName(fullName)
	exists, err := s.registrations.CheckNameRegistered(ctx, eventId, nameKey)
	if err != nil {
		return nil, fmt.Errorf("check registration failed: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %q is already registered for event %d", ErrConflict, fullName, eventId)
	}

	reg := &model.Registration{
		EventId:      eventId,
		FullName:     fullName,
		NameKey:      nameKey,
		RegistrantId: userId,
	}
	if err := s.registrations.CreateRegistration(ctx, reg); err != nil {
		// 并发注册由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %q is already registered for event %d", ErrConflict, fullName, eventId)
		}
		log.Errorw("create registration failed", "eventId", eventId, "userId", userId, "error", err)
		return nil, fmt.Errorf("create registration failed: %w", err)
	}

	log.Infow("success register", "eventId", eventId, "registrationId", reg.ID, "userId", userId)
	s.notifier.Dispatch(ctx, event, fullName, notify.KindRegistration)
	return reg, nil
}

// Unregister removes a registration. Allowed for a global ADMIN, a team
// moderator or the registrant.
func (s *RegistrationService) Unregister(ctx context.Context, eventId, registrationId, actorId uint64) error {
	event, err := s.events.GetEventById(ctx, eventId)
	if err != nil {
		return lookupErr(err, "event", eventId)
	}
	reg, err := s.registrations.GetRegistrationById(ctx, registrationId)
	if err != nil {
		return lookupErr(err, "registration", registrationId)
	}
	if reg.EventId != eventId {
		return notFound("registration", registrationId)
	}
	actor, err := s.users.GetUserById(ctx, actorId)
	if err != nil {
		return lookupErr(err, "user", actorId)
	}

	ok, err := s.policy.CanUnregister(ctx, actor, reg, event)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user %d cannot unregister registration %d", ErrAccessDenied, actorId, registrationId)
	}

	if err := s.registrations.DeleteRegistration(ctx, registrationId); err != nil {
		log.Errorw("delete registration failed", "registrationId", registrationId, "error", err)
		return fmt.Errorf("delete registration failed: %w", err)
	}

	log.Infow("success unregister", "eventId", eventId, "registrationId", registrationId, "actorId", actorId)
	s.notifier.Dispatch(ctx, event, reg.FullName, notify.KindUnregistration)
	return nil
}

// SendSummary lets a moderator push the current roster to the team chat.
func (s *RegistrationService) SendSummary(ctx context.Context, eventId, actorId uint64) error {
	event, err := s.events.GetEventById(ctx, eventId)
	if err != nil {
		return lookupErr(err, "event", eventId)
	}
	if err := s.policy.RequireModerator(ctx, actorId, event.TeamId); err != nil {
		return err
	}
	s.notifier.Dispatch(ctx, event, "", notify.KindSummary)
	return nil
}
