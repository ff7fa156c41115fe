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
	"testing"
	"time"
)

func snap(lang, blob string, ts time.Time) Snapshot {
	return Snapshot{Language: lang, Blob: []byte(blob), TS: ts}
}

// The stacks model states: Push records the state before a mutation, Undo
// returns it while parking the caller's current state for Redo.
func TestPushUndoRedoCycle(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	base := time.Now()
	m.Push(snap("en", "s1", base))
	m.Push(snap("en", "s2", base.Add(time.Second)))

	s, ok := m.Undo("en", []byte("s3"))
	if !ok || string(s.Blob) != "s2" {
		t.Fatalf("undo = %q ok=%v", s.Blob, ok)
	}
	s, ok = m.Redo("en", []byte("s2"))
	if !ok || string(s.Blob) != "s3" {
		t.Fatalf("redo = %q ok=%v", s.Blob, ok)
	}
	if _, ok := m.Redo("en", []byte("s3")); ok {
		t.Fatalf("second redo should be empty")
	}
	// the redo round-trip restored the undo stack
	s, ok = m.Undo("en", []byte("s3"))
	if !ok || string(s.Blob) != "s2" {
		t.Fatalf("undo after redo = %q ok=%v", s.Blob, ok)
	}
}

func TestStacksAreLanguageScoped(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	base := time.Now()
	m.Push(snap("en", "en1", base))
	m.Push(snap("zh-CN", "zh1", base))

	if _, ok := m.Undo("es", []byte("cur")); ok {
		t.Fatalf("undo for untouched language")
	}
	s, ok := m.Undo("zh-CN", []byte("cur"))
	if !ok || string(s.Blob) != "zh1" {
		t.Fatalf("zh undo = %q", s.Blob)
	}
	s, ok = m.Undo("en", []byte("cur"))
	if !ok || string(s.Blob) != "en1" {
		t.Fatalf("en undo = %q", s.Blob)
	}
}

func TestCoalescingWithinInterval(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Second})
	base := time.Now()
	m.Push(snap("en", "a", base))
	m.Push(snap("en", "b", base.Add(100*time.Millisecond))) // replaces "a"
	m.Push(snap("en", "c", base.Add(2*time.Second)))        // new entry

	_, _, total := m.Stats()
	if total != 2 {
		t.Fatalf("snapshot count = %d, want 2", total)
	}
	s, _ := m.Undo("en", []byte("cur"))
	if string(s.Blob) != "c" {
		t.Fatalf("top = %q", s.Blob)
	}
	s, _ = m.Undo("en", []byte("cur"))
	if string(s.Blob) != "b" {
		t.Fatalf("coalesced entry = %q, want b", s.Blob)
	}
}

func TestPushInvalidatesRedo(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	base := time.Now()
	m.Push(snap("en", "s1", base))
	m.Push(snap("en", "s2", base.Add(time.Second)))
	if _, ok := m.Undo("en", []byte("cur")); !ok {
		t.Fatalf("undo failed")
	}
	m.Push(snap("en", "s3", base.Add(2*time.Second)))
	if _, ok := m.Redo("en", []byte("cur")); ok {
		t.Fatalf("redo survived a new push")
	}
}

func TestPerLanguageDepthCap(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond, MaxPerLanguage: 2})
	base := time.Now()
	for i, b := range []string{"s1", "s2", "s3"} {
		m.Push(snap("en", b, base.Add(time.Duration(i)*time.Second)))
	}
	_, _, total := m.Stats()
	if total != 2 {
		t.Fatalf("count after cap = %d", total)
	}
	s, _ := m.Undo("en", []byte("cur"))
	if string(s.Blob) != "s3" {
		t.Fatalf("cap dropped the wrong end: %q", s.Blob)
	}
}

func TestGlobalByteCapPrunesOldest(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond, MaxBytes: 10})
	base := time.Now()
	m.Push(snap("en", "aaaaaa", base))                   // 6 bytes
	m.Push(snap("zh-CN", "bbbbbb", base.Add(time.Hour))) // 6 bytes, over cap
	bytes, _, total := m.Stats()
	if bytes > 10 {
		t.Fatalf("accounting over cap: %d", bytes)
	}
	if total != 1 {
		t.Fatalf("count = %d", total)
	}
	if _, ok := m.Undo("en", []byte("cur")); ok {
		t.Fatalf("oldest snapshot should have been pruned")
	}
	if _, ok := m.Undo("zh-CN", []byte("cur")); !ok {
		t.Fatalf("newest snapshot lost")
	}
}

func TestClearFreesAccounting(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	base := time.Now()
	m.Push(snap("en", "abc", base))
	m.Clear("en")
	bytes, langs, total := m.Stats()
	if bytes != 0 || langs != 0 || total != 0 {
		t.Fatalf("stats after clear: %d %d %d", bytes, langs, total)
	}
}
