/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// memTokenStore keeps tokens in memory for tests.
type memTokenStore struct{ m map[string]string }

func (s *memTokenStore) Get(service, key string) (string, error) {
	v, ok := s.m[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (s *memTokenStore) Set(service, key, value string) error {
	if s.m == nil {
		s.m = map[string]string{}
	}
	s.m[service+"/"+key] = value
	return nil
}
func (s *memTokenStore) Delete(service, key string) error {
	delete(s.m, service+"/"+key)
	return nil
}

func useTempConfig(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Setenv("AppData", t.TempDir())
	} else {
		t.Setenv("HOME", t.TempDir())
	}
	old := tokenStore
	tokenStore = &memTokenStore{}
	t.Cleanup(func() { tokenStore = old })
}

func TestDefaultsWhenNoFile(t *testing.T) {
	useTempConfig(t)
	cfg, tok, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Defaults()
	if cfg != want {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if tok != "" {
		t.Fatalf("token = %q", tok)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	useTempConfig(t)
	cfg := Defaults()
	cfg.General.Language = "zh-CN"
	cfg.Canvas.AutosaveMs = 750
	cfg.Storage.Backend = "file"
	cfg.Sync.Enabled = true
	cfg.Sync.BaseURL = "https://sync.example.com"
	cfg.Logging.Level = "debug"

	if err := Save(cfg, "secret-token"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, tok, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.General.Language != "zh-CN" || got.Canvas.AutosaveMs != 750 || got.Storage.Backend != "file" {
		t.Fatalf("round trip: %+v", got)
	}
	if !got.Sync.Enabled || got.Sync.BaseURL != "https://sync.example.com" {
		t.Fatalf("sync section: %+v", got.Sync)
	}
	if tok != "secret-token" {
		t.Fatalf("token = %q", tok)
	}

	// the token must not be in the YAML file
	path, _ := ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if bytes.Contains(data, []byte("secret-token")) {
		t.Fatalf("token leaked into config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	useTempConfig(t)
	t.Setenv(EnvLanguage, "es")
	t.Setenv(EnvAutosaveMs, "250")
	t.Setenv(EnvStorageBackend, "FILE")
	t.Setenv(EnvSyncEnabled, "yes")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.General.Language != "es" {
		t.Fatalf("language = %q", cfg.General.Language)
	}
	if cfg.Canvas.AutosaveMs != 250 {
		t.Fatalf("autosave = %d", cfg.Canvas.AutosaveMs)
	}
	if cfg.Storage.Backend != "file" {
		t.Fatalf("backend = %q", cfg.Storage.Backend)
	}
	if !cfg.Sync.Enabled {
		t.Fatalf("sync not enabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}

	if env, ok := EnvOverrideFor("general.language"); !ok || env != EnvLanguage {
		t.Fatalf("override marker: %q %v", env, ok)
	}
	if _, ok := EnvOverrideFor("sync.base_url"); ok {
		t.Fatalf("unset env reported as override")
	}
}

func TestInvalidAutosaveEnvIgnored(t *testing.T) {
	useTempConfig(t)
	t.Setenv(EnvAutosaveMs, "not-a-number")
	cfg, _, _ := Load()
	if cfg.Canvas.AutosaveMs != Defaults().Canvas.AutosaveMs {
		t.Fatalf("autosave = %d", cfg.Canvas.AutosaveMs)
	}
	t.Setenv(EnvAutosaveMs, "-5")
	cfg, _, _ = Load()
	if cfg.Canvas.AutosaveMs != Defaults().Canvas.AutosaveMs {
		t.Fatalf("negative autosave accepted: %d", cfg.Canvas.AutosaveMs)
	}
}

func TestMergeKeepsUnsetFieldsAtDefaults(t *testing.T) {
	useTempConfig(t)
	path, _ := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// a sparse file only setting the language
	if err := os.WriteFile(path, []byte("general:\n  language: de\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.General.Language != "de" {
		t.Fatalf("language = %q", cfg.General.Language)
	}
	if cfg.Canvas.AutosaveMs != Defaults().Canvas.AutosaveMs || cfg.Storage.Backend != "sqlite" {
		t.Fatalf("sparse file clobbered defaults: %+v", cfg)
	}
}

func TestClearToken(t *testing.T) {
	useTempConfig(t)
	if err := Save(Defaults(), "tok"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := ClearToken(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	_, tok, _ := Load()
	if tok != "" {
		t.Fatalf("token survived clear: %q", tok)
	}
}

func TestDurationHelpers(t *testing.T) {
	c := CanvasConfig{AutosaveMs: 0}
	if c.AutosaveWindow().Milliseconds() != int64(Defaults().Canvas.AutosaveMs) {
		t.Fatalf("autosave window = %v", c.AutosaveWindow())
	}
	s := SyncConfig{TimeoutMs: 2500}
	if s.EffectiveTimeout().Milliseconds() != 2500 {
		t.Fatalf("timeout = %v", s.EffectiveTimeout())
	}
}
