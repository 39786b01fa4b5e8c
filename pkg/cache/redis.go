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
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/redis/go-redis/v9"
)

const ModeNone = "none"

type Redis struct {
	Mode             string // single | sentinel | none
	Address          string
	Password         string
	DB               int
	PoolSize         int
	UseTLS           bool
	MasterName       string
	SentinelUsername string
	SentinelPassword string
	DialTimeout      time.Duration // 连接超时（秒）
	ReadTimeout      time.Duration // 读超时（秒）
	WriteTimeout     time.Duration // 写超时（秒）
}

// SetDefaults fills zero values.
func (r *Redis) SetDefaults() {
	if r.Mode == "" {
		r.Mode = ModeNone
	}
	if r.PoolSize <= 0 {
		r.PoolSize = 10
	}
	if r.DialTimeout <= 0 {
		r.DialTimeout = 5
	}
	if r.ReadTimeout <= 0 {
		r.ReadTimeout = 3
	}
	if r.WriteTimeout <= 0 {
		r.WriteTimeout = 3
	}
}

// Enabled reports whether a redis server is configured.
func (r Redis) Enabled() bool {
	return r.Mode != "" && r.Mode != ModeNone
}

// NewRedis connects to redis. Mode "none" yields a nil client, and callers
// fall back to in-process implementations.
func NewRedis(cfg Redis) (*redis.Client, error) {
	var redisClient *redis.Client
	switch cfg.Mode {
	case "", ModeNone:
		log.Infow("redis disabled, using local cache and locks")
		return nil, nil
	case "single":
		opts := &redis.Options{
			Addr:         cfg.Address,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  cfg.DialTimeout * time.Second,
			ReadTimeout:  cfg.ReadTimeout * time.Second,
			WriteTimeout: cfg.WriteTimeout * time.Second,
		}
		if cfg.UseTLS {
			opts.TLSConfig = &tls.Config{}
		}
		redisClient = redis.NewClient(opts)
	case "sentinel":
		opts := &redis.FailoverOptions{
			MasterName:       cfg.MasterName,
			SentinelAddrs:    strings.Split(cfg.Address, ","),
			Password:         cfg.Password,
			DB:               cfg.DB,
			PoolSize:         cfg.PoolSize,
			SentinelUsername: cfg.SentinelUsername,
			SentinelPassword: cfg.SentinelPassword,
			DialTimeout:      cfg.DialTimeout * time.Second,
			ReadTimeout:      cfg.ReadTimeout * time.Second,
			WriteTimeout:     cfg.WriteTimeout * time.Second,
		}
		if cfg.UseTLS {
			opts.TLSConfig = &tls.Config{}
		}
		redisClient = redis.NewFailoverClient(opts)
	default:
		return nil, fmt.Errorf("illegal redis mode: %s", cfg.Mode)
	}

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Errorw("failed to connect redis", "error", err)
		return nil, err
	}

	log.Infow("redis connected", "mode", cfg.Mode)
	return redisClient, nil
}
