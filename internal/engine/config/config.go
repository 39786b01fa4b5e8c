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

package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/quizhub/internal/engine/job"
	"github.com/go-arcade/quizhub/internal/pkg/notify"
	"github.com/go-arcade/quizhub/pkg/cache"
	"github.com/go-arcade/quizhub/pkg/database"
	"github.com/go-arcade/quizhub/pkg/http"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/go-arcade/quizhub/pkg/metrics"
	"github.com/go-arcade/quizhub/pkg/storage"
	"github.com/spf13/viper"
)

// envPrefix 环境变量前缀，如 QUIZHUB_HTTP_PORT
const envPrefix = "QUIZHUB"

type AppConfig struct {
	Log      log.Conf
	Http     http.Http
	Database database.Database
	Redis    cache.Redis
	Storage  storage.Storage
	Notify   notify.Config
	Reminder job.ReminderConfig
	Metrics  metrics.MetricsConfig
}

func (c *AppConfig) SetDefaults() {
	def := log.SetDefaults()
	if c.Log.Output == "" {
		c.Log.Output = def.Output
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Level
	}
	if c.Log.Path == "" {
		c.Log.Path = def.Path
	}
	if c.Log.Filename == "" {
		c.Log.Filename = def.Filename
	}
	c.Http.SetDefaults()
	c.Database.SetDefaults()
	c.Redis.SetDefaults()
	c.Notify.SetDefaults()
	c.Reminder.SetDefaults()
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9090
	}
}

// Manager owns the loaded configuration and re-reads it on file changes.
type Manager struct {
	v    *viper.Viper
	path string

	mu       sync.RWMutex
	cfg      AppConfig
	handlers []func(prev, next AppConfig)
}

// Load reads a TOML file. Environment variables override file values.
func Load(path string) (*Manager, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	m := &Manager{v: v, path: path}
	cfg, err := m.decode()
	if err != nil {
		return nil, err
	}
	m.cfg = cfg
	return m, nil
}

func (m *Manager) decode() (AppConfig, error) {
	var cfg AppConfig
	if err := m.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	cfg.SetDefaults()
	return cfg, nil
}

// Config returns a snapshot of the current configuration.
func (m *Manager) Config() AppConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// OnChange registers a handler run after every successful reload.
func (m *Manager) OnChange(fn func(prev, next AppConfig)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, fn)
}

// Watch starts watching the file. Only settings read through handlers
// take effect at runtime; the rest need a restart.
func (m *Manager) Watch() {
	m.v.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration changed, reloading", "file", e.Name, "op", e.Op.String())
		if err := m.reload(); err != nil {
			log.Errorw("reload configuration failed", "error", err)
		}
	})
	m.v.WatchConfig()
}

func (m *Manager) reload() error {
	next, err := m.decode()
	if err != nil {
		return err
	}

	m.mu.Lock()
	prev := m.cfg
	m.cfg = next
	handlers := append([]func(prev, next AppConfig){}, m.handlers...)
	m.mu.Unlock()

	for _, fn := range handlers {
		fn(prev, next)
	}
	return nil
}
