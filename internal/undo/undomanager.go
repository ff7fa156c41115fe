/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"
)

// Snapshot is a reversible workspace state blob for one language. Blob
// content is opaque to the manager; size is estimated as len(Blob).
type Snapshot struct {
	Language string
	Blob     []byte
	TS       time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerLanguage limits snapshots kept per language (0 means unlimited).
	MaxPerLanguage int
	// MinInterval coalesces snapshots captured within the interval for the
	// same language, replacing the previous one instead of pushing a new
	// entry. Continuous drags then cost one undo step, not hundreds.
	MinInterval time.Duration
}

// Manager provides in-memory undo/redo stacks per language with memory
// safeguards. Safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex
	// per-language stacks
	undo map[string][]Snapshot
	redo map[string][]Snapshot
	// accounting
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// Push records a snapshot. If within MinInterval of the last snapshot for
// the same language, it replaces that one. Clears the language's redo stack.
func (m *Manager) Push(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[s.Language]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			m.totalBytes -= len(last.Blob)
			m.totalBytes += len(s.Blob)
			stack[n-1] = s
			m.undo[s.Language] = stack
			m.redo[s.Language] = nil
			m.enforceCapsLocked(s.Language)
			return
		}
	}
	stack = append(stack, s)
	m.undo[s.Language] = stack
	m.totalBytes += len(s.Blob)
	// any new change invalidates redo for the language
	m.redo[s.Language] = nil
	m.enforceCapsLocked(s.Language)
}

// Undo pops the language's undo stack and returns the snapshot to restore.
// current is the caller's present state; it lands on the redo stack so a
// following Redo brings it back.
func (m *Manager) Undo(language string, current []byte) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[language]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[language] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Blob)
	m.redo[language] = append(m.redo[language], Snapshot{Language: language, Blob: current, TS: time.Now()})
	return s, true
}

// Redo pops the language's redo stack and returns the snapshot to restore,
// pushing current back onto the undo stack.
func (m *Manager) Redo(language string, current []byte) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[language]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[language] = r[:len(r)-1]
	m.undo[language] = append(m.undo[language], Snapshot{Language: language, Blob: current, TS: time.Now()})
	m.totalBytes += len(current)
	m.enforceCapsLocked(language)
	return s, true
}

// Clear drops both stacks for a language to free memory, e.g. after a
// language switch replaces the whole workspace.
func (m *Manager) Clear(language string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[language] {
		m.totalBytes -= len(s.Blob)
	}
	delete(m.undo, language)
	delete(m.redo, language)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, languages int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	languages = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, languages, totalSnapshots
}

func (m *Manager) enforceCapsLocked(language string) {
	if m.cfg.MaxPerLanguage > 0 {
		stack := m.undo[language]
		if len(stack) > m.cfg.MaxPerLanguage {
			toDrop := len(stack) - m.cfg.MaxPerLanguage
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Blob)
			}
			m.undo[language] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// global memory cap: prune oldest across all languages
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestLang := ""
		oldestIdx := -1
		var oldestTS time.Time
		for lang, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if oldestIdx == -1 || stack[0].TS.Before(oldestTS) {
				oldestLang = lang
				oldestIdx = 0
				oldestTS = stack[0].TS
			}
		}
		if oldestIdx == -1 {
			break
		}
		stack := m.undo[oldestLang]
		m.totalBytes -= len(stack[0].Blob)
		m.undo[oldestLang] = stack[1:]
		if len(m.undo[oldestLang]) == 0 {
			delete(m.undo, oldestLang)
		}
	}
}
