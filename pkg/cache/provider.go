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
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

// defaultLocalMaxBytes is the default cache size (32MB)
const defaultLocalMaxBytes = 32 * 1024 * 1024

// ProviderSet 提供缓存依赖（Redis 或本地 FastCache）
var ProviderSet = wire.NewSet(
	ProvideRedis,
	ProvideICache,
	ProvideLocker,
)

// ProvideRedis 提供 Redis 实例，mode=none 时返回 nil
func ProvideRedis(conf Redis) (*redis.Client, func(), error) {
	client, err := NewRedis(conf)
	if err != nil {
		return nil, nil, err
	}
	return client, func() {
		if client != nil {
			_ = client.Close()
		}
	}, nil
}

// ProvideICache 提供 ICache 接口实例，未配置 Redis 时退化为 FastCache
func ProvideICache(client *redis.Client) ICache {
	if client == nil {
		return NewFastCache(FastCacheConfig{MaxBytes: defaultLocalMaxBytes})
	}
	return NewRedisCache(client)
}

// ProvideLocker 提供分布式锁，未配置 Redis 时使用进程内锁
func ProvideLocker(client *redis.Client) Locker {
	if client == nil {
		return NewLocalLocker()
	}
	return NewRedisLocker(client)
}
