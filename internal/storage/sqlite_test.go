/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"testing"

	"tokendesk/internal/domain"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(t.TempDir())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreKV(t *testing.T) {
	s := openTestSQLite(t)

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := s.Set("workspace_en", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("workspace_en", []byte("v2")); err != nil {
		t.Fatalf("set replace: %v", err)
	}
	data, ok, err := s.Get("workspace_en")
	if err != nil || !ok || string(data) != "v2" {
		t.Fatalf("get: %q ok=%v err=%v", data, ok, err)
	}
	if err := s.Set("workspace_es", []byte("x")); err != nil {
		t.Fatalf("set: %v", err)
	}
	keys, err := s.Keys()
	if err != nil || len(keys) != 2 {
		t.Fatalf("keys = %v err=%v", keys, err)
	}
	if err := s.Delete("workspace_en"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get("workspace_en"); ok {
		t.Fatalf("deleted key still present")
	}
}

func TestSQLiteRevisionHistory(t *testing.T) {
	s := openTestSQLite(t)

	for _, v := range []string{"v1", "v2", "v3"} {
		if err := s.Set("workspace_en", []byte(v)); err != nil {
			t.Fatalf("set %s: %v", v, err)
		}
	}
	data, _, ok, err := s.LatestRevision("workspace_en")
	if err != nil || !ok || string(data) != "v3" {
		t.Fatalf("latest revision: %q ok=%v err=%v", data, ok, err)
	}
	n, err := s.RevisionCount("workspace_en")
	if err != nil || n != 3 {
		t.Fatalf("revision count = %d err=%v", n, err)
	}
	if err := s.PruneRevisions("workspace_en", 1); err != nil {
		t.Fatalf("prune: %v", err)
	}
	n, _ = s.RevisionCount("workspace_en")
	if n != 1 {
		t.Fatalf("after prune count = %d", n)
	}
	data, _, ok, _ = s.LatestRevision("workspace_en")
	if !ok || string(data) != "v3" {
		t.Fatalf("prune dropped the newest revision: %q", data)
	}

	if _, _, ok, _ := s.LatestRevision("workspace_xx"); ok {
		t.Fatalf("revision for unknown key")
	}
}

// The codec runs unchanged over the SQLite backend.
func TestSQLiteWorkspaceRoundTrip(t *testing.T) {
	s := openTestSQLite(t)
	ws := domain.Empty("en")
	ws.Widgets = append(ws.Widgets, domain.WidgetInstance{
		ID: "w1", Type: "swap", ZIndex: 1,
		Position: domain.Vec{X: 10, Y: 20},
		Size:     domain.Size{Width: 400, Height: 400},
		Config:   map[string]any{"slippage": 0.5},
		State:    map[string]any{},
	})
	if err := SaveWorkspace(s, ws); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok := LoadWorkspace(s, "en")
	if !ok || len(got.Widgets) != 1 || got.Widgets[0].ID != "w1" {
		t.Fatalf("round trip failed: ok=%v %+v", ok, got.Widgets)
	}
}

func TestSQLitePathLayout(t *testing.T) {
	root := t.TempDir()
	s, err := OpenSQLite(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = s.Close() }()
	if _, err := os.Stat(SQLitePath(root)); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}
