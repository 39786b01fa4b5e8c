package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/quizhub/internal/engine/consts"
	"github.com/go-arcade/quizhub/pkg/cache"
	"github.com/redis/go-redis/v9"
)

// Session is the conversation of one telegram user.
type Session struct {
	State  State  `json:"state"`
	ChatId string `json:"chatId,omitempty"`
	TeamId uint64 `json:"teamId,omitempty"`
}

// SessionStore keeps sessions in the shared cache. Idle sessions are not stored.
type SessionStore struct {
	cache cache.ICache
	ttl   time.Duration
}

func NewSessionStore(c cache.ICache) *SessionStore {
	return &SessionStore{cache: c, ttl: consts.BotSessionTTL}
}

func sessionKey(userId int64) string {
	return consts.BotSessionKey + strconv.FormatInt(userId, 10)
}

func (s *SessionStore) Load(ctx context.Context, userId int64) (*Session, error) {
	data, err := s.cache.Get(ctx, sessionKey(userId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Session{State: StateIdle}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load bot session %d: %w", userId, err)
	}

	sess := new(Session)
	if err := sonic.Unmarshal(data, sess); err != nil {
		// 损坏的会话直接视为空闲
		return &Session{State: StateIdle}, nil
	}
	return sess, nil
}

func (s *SessionStore) Save(ctx context.Context, userId int64, sess *Session) error {
	if sess.State == StateIdle {
		return s.Clear(ctx, userId)
	}
	data, err := sonic.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, sessionKey(userId), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save bot session %d: %w", userId, err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, userId int64) error {
	return s.cache.Del(ctx, sessionKey(userId)).Err()
}
