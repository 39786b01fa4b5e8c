package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/internal/engine/repo"
	"github.com/go-arcade/quizhub/internal/pkg/storage"
	"github.com/go-arcade/quizhub/pkg/log"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 500
	DefaultSort     = "dateTime,desc"
)

// sortColumns 可排序字段白名单
var sortColumns = map[string]string{
	"id":       "id",
	"name":     "name",
	"dateTime": "date_time",
	"location": "location",
}

// ImageUploader stores event artwork and returns its URL.
type ImageUploader interface {
	Upload(ctx context.Context, fh *multipart.FileHeader) (string, error)
}

type EventService struct {
	events repo.IEventRepository
	policy *AccessPolicy
	images ImageUploader
}

func NewEventService(repos *repo.Repositories, policy *AccessPolicy, images ImageUploader) *EventService {
	return &EventService{
		events: repos.Event,
		policy: policy,
		images: images,
	}
}

// CreateEvent 创建活动，需要团队管理权限
func (s *EventService) CreateEvent(ctx context.Context, actorId uint64, req *model.EventCreateReq, image *multipart.FileHeader) (*model.Event, error) {
	// 1. 参数校验
	name, location := strings.TrimSpace(req.Name), strings.TrimSpace(req.Location)
	switch {
	case name == "":
		return nil, invalid("event name is required")
	case location == "":
		return nil, invalid("event location is required")
	case req.DateTime.IsZero():
		return nil, invalid("event dateTime is required")
	case req.TeamId == 0:
		return nil, invalid("event teamId is required")
	case req.RegistrationLimit != nil && *req.RegistrationLimit <= 0:
		return nil, invalid("registration limit must be positive")
	}

	// 2. 权限校验，团队不存在时返回 NotFound
	if err := s.policy.RequireModerator(ctx, actorId, req.TeamId); err != nil {
		return nil, err
	}

	// 3. 上传海报
	var posterUrl *string
	if image != nil {
		url, err := s.upload(ctx, image)
		if err != nil {
			return nil, err
		}
		posterUrl = &url
	}

	event := &model.Event{
		Name:              name,
		DateTime:          req.DateTime,
		Location:          location,
		Description:       req.Description,
		PosterUrl:         posterUrl,
		AlbumLink:         req.AlbumLink,
		Result:            req.Result,
		Price:             req.Price,
		TeamId:            req.TeamId,
		RegistrationOpen:  true,
		RegistrationLimit: req.RegistrationLimit,
	}
	if req.RegistrationOpen != nil {
		event.RegistrationOpen = *req.RegistrationOpen
	}
	if req.Hidden != nil {
		event.Hidden = *req.Hidden
	}

	if err := s.events.CreateEvent(ctx, event); err != nil {
		log.Errorw("create event failed", "teamId", req.TeamId, "name", name, "error", err)
		return nil, fmt.Errorf("create event failed: %w", err)
	}

	log.Infow("success create event", "eventId", event.ID, "teamId", event.TeamId)
	return event, nil
}

// UpdateEvent applies the non-nil fields of req. The team never changes.
func (s *EventService) UpdateEvent(ctx context.Context, actorId, eventId uint64, req *model.EventUpdateReq, image *multipart.FileHeader) (*model.Event, error) {
	event, err := s.events.GetEventById(ctx, eventId)
	if err != nil {
		return nil, lookupErr(err, "event", eventId)
	}
	if err := s.policy.RequireModerator(ctx, actorId, event.TeamId); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("event name cannot be blank")
		}
		event.Name = name
	}
	if req.Location != nil {
		location := strings.TrimSpace(*req.Location)
		if location == "" {
			return nil, invalid("event location cannot be blank")
		}
		event.Location = location
	}
	if req.DateTime != nil {
		if req.DateTime.IsZero() {
			return nil, invalid("event dateTime cannot be zero")
		}
		event.DateTime = *req.DateTime
	}
	if req.RegistrationLimit != nil {
		if *req.RegistrationLimit <= 0 {
			return nil, invalid("registration limit must be positive")
		}
		event.RegistrationLimit = req.RegistrationLimit
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.AlbumLink != nil {
		event.AlbumLink = req.AlbumLink
	}
	if req.Result != nil {
		event.Result = req.Result
	}
	if req.Price != nil {
		event.Price = req.Price
	}
	if req.RegistrationOpen != nil {
		event.RegistrationOpen = *req.RegistrationOpen
	}
	if req.Hidden != nil {
		event.Hidden = *req.Hidden
	}

	if image != nil {
		url, err := s.upload(ctx, image)
		if err != nil {
			return nil, err
		}
		event.PosterUrl = &url
	}

	if err := s.events.SaveEvent(ctx, event); err != nil {
		log.Errorw("update event failed", "eventId", eventId, "error", err)
		return nil, fmt.Errorf("update event failed: %w", err)
	}
	return event, nil
}

// DeleteEvent removes the event together with its registrations.
func (s *EventService) DeleteEvent(ctx context.Context, eventId, actorId uint64) error {
	event, err := s.events.GetEventById(ctx, eventId)
	if err != nil {
		return lookupErr(err, "event", eventId)
	}
	if err := s.policy.RequireModerator(ctx, actorId, event.TeamId); err != nil {
		return err
	}

	if err := s.events.DeleteEvent(ctx, eventId); err != nil {
		log.Errorw("delete event failed", "eventId", eventId, "error", err)
		return fmt.Errorf("delete event failed: %w", err)
	}
	log.Infow("success delete event", "eventId", eventId, "registrations", len(event.Registrations))
	return nil
}

func (s *EventService) GetEventById(ctx context.Context, eventId uint64) (*model.Event, error) {
	event, err := s.events.GetEventById(ctx, eventId)
	if err != nil {
		return nil, lookupErr(err, "event", eventId)
	}
	return event, nil
}

// ListByTeam returns one page of the team's events, each flagged with
// whether q.CurrentUserId has registered.
func (s *EventService) ListByTeam(ctx context.Context, q *model.EventQuery) (*model.Page[*model.EventResp], error) {
	if q.Page < 0 {
		return nil, invalid("page must not be negative")
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	orderBy, err := ParseSort(q.Sort)
	if err != nil {
		return nil, err
	}
	q.Search = strings.TrimSpace(q.Search)

	events, total, err := s.events.ListEvents(ctx, q, orderBy)
	if err != nil {
		log.Errorw("list events failed", "teamId", q.TeamId, "error", err)
		return nil, fmt.Errorf("list events failed: %w", err)
	}

	ids := make([]uint64, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	registered, err := s.events.RegisteredEventIds(ctx, q.CurrentUserId, ids)
	if err != nil {
		return nil, fmt.Errorf("load registrations of user %d: %w", q.CurrentUserId, err)
	}

	items := make([]*model.EventResp, 0, len(events))
	for _, e := range events {
		items = append(items, &model.EventResp{Event: *e, IsRegistered: registered[e.ID]})
	}
	return &model.Page[*model.EventResp]{
		Items: items,
		Total: total,
		Page:  q.Page,
		Size:  q.Size,
	}, nil
}

// ListUpcoming returns the team's visible events starting after now, soonest first.
func (s *EventService) ListUpcoming(ctx context.Context, teamId uint64, now time.Time, limit int) ([]*model.Event, error) {
	events, err := s.events.ListUpcomingEvents(ctx, teamId, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events of team %d: %w", teamId, err)
	}
	return events, nil
}

// ParseSort turns "field,dir" into an ORDER BY clause over whitelisted columns.
func ParseSort(sort string) (string, error) {
	if strings.TrimSpace(sort) == "" {
		sort = DefaultSort
	}
	field, dir, _ := strings.Cut(sort, ",")
	column, ok := sortColumns[strings.TrimSpace(field)]
	if !ok {
		return "", invalid("unsupported sort field %q", field)
	}

	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return column + " ASC", nil
	case "desc":
		return column + " DESC", nil
	default:
		return "", invalid("unsupported sort direction %q", dir)
	}
}

func (s *EventService) upload(ctx context.Context, image *multipart.FileHeader) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("%w: image store is not configured", ErrExternalService)
	}
	url, err := s.images.Upload(ctx, image)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return "", fmt.Errorf("%w: %v", ErrValidation, err)
		}
		log.Errorw("upload event image failed", "filename", image.Filename, "error", err)
		return "", fmt.Errorf("%w: upload image: %v", ErrExternalService, err)
	}
	return url, nil
}
