/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package debounce provides an explicit debounced-task type. A burst of
// Trigger calls collapses into a single run of the task after the window
// elapses; Flush runs a pending task immediately for deterministic tests and
// save-on-exit hooks.
package debounce

import (
	"sync"
	"time"
)

// Task coalesces invocations of fn: each Trigger (re)starts the window and
// fn runs once when it expires. Safe for concurrent use.
type Task struct {
	mu      sync.Mutex
	window  time.Duration
	fn      func()
	timer   *time.Timer
	pending bool
	stopped bool
}

// New returns a Task running fn at most once per settled window.
func New(window time.Duration, fn func()) *Task {
	return &Task{window: window, fn: fn}
}

// Trigger schedules (or reschedules) the task to run after the window.
func (t *Task) Trigger() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending = true
	if t.timer == nil {
		t.timer = time.AfterFunc(t.window, t.fire)
		return
	}
	t.timer.Reset(t.window)
}

func (t *Task) fire() {
	t.mu.Lock()
	if t.stopped || !t.pending {
		t.mu.Unlock()
		return
	}
	t.pending = false
	fn := t.fn
	t.mu.Unlock()
	fn()
}

// Flush runs a pending task immediately and cancels the timer. A no-op when
// nothing is pending.
func (t *Task) Flush() {
	t.mu.Lock()
	if !t.pending || t.stopped {
		t.mu.Unlock()
		return
	}
	t.pending = false
	if t.timer != nil {
		t.timer.Stop()
	}
	fn := t.fn
	t.mu.Unlock()
	fn()
}

// Pending reports whether a run is scheduled.
func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Stop cancels any pending run and prevents future triggers. The pending
// task is discarded, not run; call Flush first to persist it.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.pending = false
	if t.timer != nil {
		t.timer.Stop()
	}
}
