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

package statemachine

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Event triggers a state transition in the FSM.
type Event string

// StateHook is triggered when entering a state.
type StateHook[T comparable] func(from T, event Event) error

// ErrInvalidTransition is returned when no transition is defined for (state, event).
var ErrInvalidTransition = errors.New("invalid state transition")

// StateMachine is a small generic FSM. The transition table is built once
// and shared; the current state is per instance.
type StateMachine[T comparable] struct {
	mu sync.RWMutex

	currentState T

	validTransitions map[T][]T
	eventTransitions map[transitionKey[T]]T
	onEnter          map[T][]StateHook[T]
}

type transitionKey[T comparable] struct {
	From  T
	Event Event
}

// New creates a new StateMachine instance.
func New[T comparable]() *StateMachine[T] {
	return &StateMachine[T]{
		validTransitions: make(map[T][]T),
		eventTransitions: make(map[transitionKey[T]]T),
		onEnter:          make(map[T][]StateHook[T]),
	}
}

// NewWithState creates a new StateMachine with an initial state.
func NewWithState[T comparable](initial T) *StateMachine[T] {
	sm := New[T]()
	sm.currentState = initial
	return sm
}

// AddEventTransition registers: on event in state from, move to state to.
func (sm *StateMachine[T]) AddEventTransition(from T, event Event, to T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.eventTransitions[transitionKey[T]{From: from, Event: event}] = to
	if !slices.Contains(sm.validTransitions[from], to) {
		sm.validTransitions[from] = append(sm.validTransitions[from], to)
	}
	return sm
}

// OnEnter registers a hook run after entering state.
func (sm *StateMachine[T]) OnEnter(state T, hook StateHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onEnter[state] = append(sm.onEnter[state], hook)
	return sm
}

// CanTransition checks if a transition from one state to another is valid.
func (sm *StateMachine[T]) CanTransition(from, to T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Contains(sm.validTransitions[from], to)
}

// Current returns the current state.
func (sm *StateMachine[T]) Current() T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// SetCurrent sets the current state without triggering hooks.
func (sm *StateMachine[T]) SetCurrent(state T) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.currentState = state
}

// Fire applies event to the current state. Enter hooks run after the
// state changed; a hook error is returned but the transition stands.
func (sm *StateMachine[T]) Fire(event Event) (T, error) {
	sm.mu.Lock()
	from := sm.currentState
	to, ok := sm.eventTransitions[transitionKey[T]{From: from, Event: event}]
	if !ok {
		sm.mu.Unlock()
		return from, fmt.Errorf("%w: %v --%s-->", ErrInvalidTransition, from, event)
	}
	sm.currentState = to
	hooks := slices.Clone(sm.onEnter[to])
	sm.mu.Unlock()

	for _, hook := range hooks {
		if err := hook(from, event); err != nil {
			return to, err
		}
	}
	return to, nil
}

// Clone copies the transition table with a new current state.
func (sm *StateMachine[T]) Clone(state T) *StateMachine[T] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	c := NewWithState(state)
	for k, v := range sm.eventTransitions {
		c.eventTransitions[k] = v
	}
	for k, v := range sm.validTransitions {
		c.validTransitions[k] = slices.Clone(v)
	}
	for k, v := range sm.onEnter {
		c.onEnter[k] = slices.Clone(v)
	}
	return c
}
