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

package cron

import (
	"errors"
	"sync"
)

var (
	// ErrNotInitialized is returned when trying to use global cron before initialization
	ErrNotInitialized = errors.New("global cron instance is not initialized")
)

var (
	globalCron *Cron
	globalMu   sync.RWMutex
)

// Init initializes the global cron instance. Later calls are ignored.
func Init(opts ...OpOption) *Cron {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCron == nil {
		globalCron = New(opts...)
	}
	return globalCron
}

// Get returns the global cron instance, nil before Init.
func Get() *Cron {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalCron
}

// Start starts the global cron scheduler
func Start() {
	if c := Get(); c != nil {
		c.Start()
	}
}

// Stop stops the global cron scheduler and waits for running jobs.
func Stop() {
	if c := Get(); c != nil {
		c.Stop()
	}
}

// AddFunc adds a named func to the global cron instance
func AddFunc(spec, name string, cmd func()) error {
	c := Get()
	if c == nil {
		return ErrNotInitialized
	}
	return c.AddFunc(spec, name, cmd)
}

// Remove removes a job from the global cron instance
func Remove(name string) error {
	c := Get()
	if c == nil {
		return ErrNotInitialized
	}
	return c.Remove(name)
}
