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

package repo

import (
	"context"
	"strings"
	"time"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/pkg/database"
	"gorm.io/gorm"
)

type IEventRepository interface {
	CreateEvent(ctx context.Context, e *model.Event) error
	// SaveEvent 保存活动本身的字段，不触碰报名记录
	SaveEvent(ctx context.Context, e *model.Event) error
	// DeleteEvent 同一事务中删除报名记录与活动
	DeleteEvent(ctx context.Context, eventId uint64) error
	GetEventById(ctx context.Context, eventId uint64) (*model.Event, error)
	// ListEvents orderBy 必须是调用方校验过的列名与方向
	ListEvents(ctx context.Context, q *model.EventQuery, orderBy string) ([]*model.Event, int64, error)
	// ListEventsInWindow 返回 date_time 位于 [from, to) 的活动
	ListEventsInWindow(ctx context.Context, teamId uint64, from, to time.Time) ([]*model.Event, error)
	ListUpcomingEvents(ctx context.Context, teamId uint64, after time.Time, limit int) ([]*model.Event, error)
	// RegisteredEventIds 返回 eventIds 中 userId 有报名记录的活动
	RegisteredEventIds(ctx context.Context, userId uint64, eventIds []uint64) (map[uint64]bool, error)
}

type EventRepo struct {
	database.IDatabase
}

func NewEventRepo(db database.IDatabase) IEventRepository {
	return &EventRepo{IDatabase: db}
}

func preloadRegistrations(db *gorm.DB) *gorm.DB {
	return db.Preload("Registrations", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

func (r *EventRepo) CreateEvent(ctx context.Context, e *model.Event) error {
	return r.Database().WithContext(ctx).Omit("Registrations").Create(e).Error
}

func (r *EventRepo) SaveEvent(ctx context.Context, e *model.Event) error {
	return r.Database().WithContext(ctx).Omit("Registrations").Save(e).Error
}

func (r *EventRepo) DeleteEvent(ctx context.Context, eventId uint64) error {
	return r.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventId).Delete(&model.Registration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Event{}, eventId).Error
	})
}

func (r *EventRepo) GetEventById(ctx context.Context, eventId uint64) (*model.Event, error) {
	var e model.Event
	if err := preloadRegistrations(r.Database().WithContext(ctx)).First(&e, eventId).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// likeEscaper escapes LIKE wildcards with '!', which both MySQL and SQLite accept.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (r *EventRepo) ListEvents(ctx context.Context, q *model.EventQuery, orderBy string) ([]*model.Event, int64, error) {
	var (
		events []*model.Event
		total  int64
	)

	db := r.Database().WithContext(ctx).Model(&model.Event{}).Where("team_id = ?", q.TeamId)
	if q.Search != "" {
		db = db.Where("LOWER(name) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(q.Search))+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := preloadRegistrations(db).
		Order(orderBy).
		Order("id ASC").
		Offset(q.Page * q.Size).
		Limit(q.Size).
		Find(&events).Error
	return events, total, err
}

func (r *EventRepo) ListEventsInWindow(ctx context.Context, teamId uint64, from, to time.Time) ([]*model.Event, error) {
	var events []*model.Event
	err := preloadRegistrations(r.Database().WithContext(ctx)).
		Where("team_id = ? AND date_time >= ? AND date_time < ?", teamId, from, to).
		Order("date_time ASC, id ASC").
		Find(&events).Error
	return events, err
}

func (r *EventRepo) ListUpcomingEvents(ctx context.Context, teamId uint64, after time.Time, limit int) ([]*model.Event, error) {
	var events []*model.Event
	err := r.Database().WithContext(ctx).
		Where("team_id = ? AND date_time >= ? AND hidden = ?", teamId, after, false).
		Order("date_time ASC, id ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *EventRepo) RegisteredEventIds(ctx context.Context, userId uint64, eventIds []uint64) (map[uint64]bool, error) {
	result := make(map[uint64]bool, len(eventIds))
	if userId == 0 || len(eventIds) == 0 {
		return result, nil
	}

	var ids []uint64
	err := r.Database().WithContext(ctx).Model(&model.Registration{}).
		Distinct("event_id").
		Where("registrant_id = ? AND event_id IN ?", userId, eventIds).
		Pluck("event_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
