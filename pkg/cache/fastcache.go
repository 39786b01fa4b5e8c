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

package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// FastCacheConfig holds fastcache configuration
type FastCacheConfig struct {
	MaxBytes int // default 16MB
}

// FastCache is an in-process ICache over VictoriaMetrics fastcache.
// Expiration is checked lazily on read.
type FastCache struct {
	cache *fastcache.Cache
	mu    sync.RWMutex
	ttls  map[string]time.Time
	now   func() time.Time
}

// NewFastCache creates a new FastCache instance
func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 16 * 1024 * 1024
	}
	return &FastCache{
		cache: fastcache.New(maxBytes),
		ttls:  make(map[string]time.Time),
		now:   time.Now,
	}
}

func (fc *FastCache) Get(_ context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(context.Background(), "get", key)

	fc.mu.RLock()
	exp, hasTTL := fc.ttls[key]
	value, ok := fc.cache.HasGet(nil, []byte(key))
	fc.mu.RUnlock()

	if !ok || (hasTTL && fc.now().After(exp)) {
		if ok {
			fc.delete(key)
		}
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(string(value))
	return cmd
}

func (fc *FastCache) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(context.Background(), "set", key)

	data, err := toBytes(value)
	if err != nil {
		cmd.SetErr(err)
		return cmd
	}

	fc.mu.Lock()
	fc.cache.Set([]byte(key), data)
	if expiration > 0 {
		fc.ttls[key] = fc.now().Add(expiration)
	} else {
		delete(fc.ttls, key)
	}
	fc.mu.Unlock()

	cmd.SetVal("OK")
	return cmd
}

func (fc *FastCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(context.Background(), "del")
	var n int64
	for _, key := range keys {
		if fc.delete(key) {
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func (fc *FastCache) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(context.Background(), "expire", key)

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if !fc.cache.Has([]byte(key)) {
		cmd.SetVal(false)
		return cmd
	}
	fc.ttls[key] = fc.now().Add(expiration)
	cmd.SetVal(true)
	return cmd
}

func (fc *FastCache) delete(key string) bool {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	existed := fc.cache.Has([]byte(key))
	fc.cache.Del([]byte(key))
	delete(fc.ttls, key)
	return existed
}

func toBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case fmt.Stringer:
		return []byte(v.String()), nil
	default:
		data, err := sonic.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode cache value: %w", err)
		}
		return data, nil
	}
}
