/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads and saves the user-editable application settings:
// a YAML file in the per-user config directory, with environment variables
// as read-only runtime overrides. The sync token never touches the file; it
// lives in the OS keychain.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

type GeneralConfig struct {
	Language       string `yaml:"language"` // workspace language opened at startup
	Theme          string `yaml:"theme"`    // "system" | "light" | "dark"
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
}

type CanvasConfig struct {
	AutosaveMs    int `yaml:"autosave_ms"`    // debounce window for snapshot writes
	UndoDepth     int `yaml:"undo_depth"`     // snapshots kept per language, 0 unlimited
	UndoMaxBytes  int `yaml:"undo_max_bytes"` // global undo memory cap
	RevisionsKeep int `yaml:"revisions_keep"` // sqlite revision history per workspace
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // "sqlite" | "file"
	Dir     string `yaml:"dir"`     // data directory; empty means the per-user default
}

type SyncConfig struct {
	Enabled     bool   `yaml:"enabled"`
	BaseURL     string `yaml:"base_url"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	TLSInsecure bool   `yaml:"tls_insecure"`
	// Token is not stored on disk; it lives in the OS keychain.
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AppConfig is the persisted configuration. config_version bumps when the
// structure changes incompatibly.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Storage       StorageConfig `yaml:"storage"`
	Sync          SyncConfig    `yaml:"sync"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Language: "en", Theme: "system", TelemetryOptIn: false},
		Canvas:        CanvasConfig{AutosaveMs: 500, UndoDepth: 100, UndoMaxBytes: 16 * 1024 * 1024, RevisionsKeep: 20},
		Storage:       StorageConfig{Backend: "sqlite", Dir: ""},
		Sync:          SyncConfig{Enabled: false, BaseURL: "http://localhost:8080", TimeoutMs: 15000, TLSInsecure: false},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvLanguage       = "TDK_LANGUAGE"
	EnvAutosaveMs     = "TDK_AUTOSAVE_MS"
	EnvStorageBackend = "TDK_STORAGE_BACKEND"
	EnvStorageDir     = "TDK_STORAGE_DIR"
	EnvSyncEnabled    = "TDK_SYNC_ENABLED"
	EnvSyncURL        = "TDK_SYNC_URL"
	EnvSyncTimeoutMs  = "TDK_SYNC_TIMEOUT_MS"
	EnvSyncTLSInsec   = "TDK_SYNC_TLS_INSECURE"
	EnvTelemetryOptIn = "TDK_TELEMETRY_OPT_IN"
	EnvLogLevel       = "TDK_LOG_LEVEL"
	EnvLogFormat      = "TDK_LOG_FORMAT"
	EnvLogSource      = "TDK_LOG_SOURCE"
	EnvLogFile        = "TDK_LOG_FILE"
)

// Service/keys for the OS keyring.
const (
	keyringService = "TokenDesk"
	keyringToken   = "sync_token"
)

// TokenStore abstracts the keyring so tests can stub it.
type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

var tokenStore TokenStore = osKeyring{}

// osKeyring stores the token in the OS keychain via zalando/go-keyring.
type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "TokenDesk")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "TokenDesk")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "tokendesk")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. The sync token comes from the keyring and is
// returned separately so it never sits in the struct.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the config YAML and persists a non-empty token into the OS
// keyring.
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return err
		}
	}
	return nil
}

// ClearToken removes the sync token from the keyring.
func ClearToken() error {
	return tokenStore.Delete(keyringService, keyringToken)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if strings.TrimSpace(src.General.Language) != "" {
		dst.General.Language = strings.TrimSpace(src.General.Language)
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans copy directly from the file so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if src.Canvas.AutosaveMs > 0 {
		dst.Canvas.AutosaveMs = src.Canvas.AutosaveMs
	}
	if src.Canvas.UndoDepth > 0 {
		dst.Canvas.UndoDepth = src.Canvas.UndoDepth
	}
	if src.Canvas.UndoMaxBytes > 0 {
		dst.Canvas.UndoMaxBytes = src.Canvas.UndoMaxBytes
	}
	if src.Canvas.RevisionsKeep > 0 {
		dst.Canvas.RevisionsKeep = src.Canvas.RevisionsKeep
	}
	if src.Storage.Backend != "" {
		dst.Storage.Backend = strings.ToLower(strings.TrimSpace(src.Storage.Backend))
	}
	if strings.TrimSpace(src.Storage.Dir) != "" {
		dst.Storage.Dir = strings.TrimSpace(src.Storage.Dir)
	}
	dst.Sync.Enabled = src.Sync.Enabled
	if src.Sync.BaseURL != "" {
		dst.Sync.BaseURL = src.Sync.BaseURL
	}
	if src.Sync.TimeoutMs != 0 {
		dst.Sync.TimeoutMs = src.Sync.TimeoutMs
	}
	dst.Sync.TLSInsecure = src.Sync.TLSInsecure
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvLanguage)); v != "" {
		cfg.General.Language = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAutosaveMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Canvas.AutosaveMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorageBackend)); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorageDir)); v != "" {
		cfg.Storage.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSyncEnabled)); v != "" {
		cfg.Sync.Enabled = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSyncURL)); v != "" {
		cfg.Sync.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSyncTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sync.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSyncTLSInsec)); v != "" {
		cfg.Sync.TLSInsecure = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// EnvOverrideFor returns the env var name when the keyed field is currently
// overridden by the environment. The settings UI uses it to mark fields
// read-only.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"general.language":         EnvLanguage,
		"general.telemetry_opt_in": EnvTelemetryOptIn,
		"canvas.autosave_ms":       EnvAutosaveMs,
		"storage.backend":          EnvStorageBackend,
		"storage.dir":              EnvStorageDir,
		"sync.enabled":             EnvSyncEnabled,
		"sync.base_url":            EnvSyncURL,
		"sync.timeout_ms":          EnvSyncTimeoutMs,
		"sync.tls_insecure":        EnvSyncTLSInsec,
		"logging.level":            EnvLogLevel,
		"logging.format":           EnvLogFormat,
		"logging.source":           EnvLogSource,
		"logging.file":             EnvLogFile,
	}
	env, ok := names[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// AutosaveWindow returns the canvas debounce window as a duration.
func (c CanvasConfig) AutosaveWindow() time.Duration {
	if c.AutosaveMs <= 0 {
		return time.Duration(Defaults().Canvas.AutosaveMs) * time.Millisecond
	}
	return time.Duration(c.AutosaveMs) * time.Millisecond
}

// EffectiveTimeout returns the sync client timeout.
func (s SyncConfig) EffectiveTimeout() time.Duration {
	if s.TimeoutMs <= 0 {
		return time.Duration(Defaults().Sync.TimeoutMs) * time.Millisecond
	}
	return time.Duration(s.TimeoutMs) * time.Millisecond
}
