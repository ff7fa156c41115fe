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
	"encoding/json"
	"log/slog"
	"time"

	"tokendesk/internal/domain"
	applog "tokendesk/internal/log"
)

// WorkspaceKeyPrefix derives the store key from a language tag. The prefix
// is part of the stored-data contract; existing snapshots depend on it.
const WorkspaceKeyPrefix = "workspace_"

// WorkspaceKey returns the store key for a language's workspace.
func WorkspaceKey(language string) string { return WorkspaceKeyPrefix + language }

// SaveWorkspace stamps the snapshot (version, lastModified) and writes it
// under the language-derived key. The returned error is always a *Error;
// callers at the persistence boundary log it and carry on — a failed save
// must never fail the mutation that triggered it.
func SaveWorkspace(s Store, ws domain.Workspace) error {
	ws.Version = domain.SnapshotVersion
	ws.LastModified = time.Now().UnixMilli()
	if ws.Widgets == nil {
		ws.Widgets = []domain.WidgetInstance{}
	}
	if ws.Annotations == nil {
		ws.Annotations = []domain.Annotation{}
	}
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return &Error{Op: "write", Key: WorkspaceKey(ws.Language), Err: err}
	}
	data = append(data, '\n')
	if err := s.Set(WorkspaceKey(ws.Language), data); err != nil {
		if se, ok := err.(*Error); ok {
			return se
		}
		return &Error{Op: "write", Key: WorkspaceKey(ws.Language), Err: err}
	}
	return nil
}

// rawSnapshot mirrors the stored shape with optional fields as pointers so
// each one defaults independently when missing.
type rawSnapshot struct {
	Language     string              `json:"language"`
	Widgets      json.RawMessage     `json:"widgets"`
	Annotations  []domain.Annotation `json:"annotations"`
	Viewport     *domain.Viewport    `json:"viewport"`
	Zoom         *float64            `json:"zoom"`
	Pan          *domain.Vec         `json:"pan"`
	Version      int                 `json:"version"`
	LastModified int64               `json:"lastModified"`
}

// LoadWorkspace reads the snapshot for a language. ok is false — and the
// caller falls back to the empty workspace — when the key is absent, the
// text does not parse, the shape fails schema validation, or the widgets
// field is missing or not an array. Missing annotations, viewport, zoom and
// pan each default independently. Never panics or propagates parse errors.
func LoadWorkspace(s Store, language string) (domain.Workspace, bool) {
	l := applog.WithComponent("storage")
	key := WorkspaceKey(language)
	data, ok, err := s.Get(key)
	if err != nil {
		l.Warn("workspace read failed", slog.String("key", key), slog.Any("err", err))
		return domain.Workspace{}, false
	}
	if !ok {
		return domain.Workspace{}, false
	}
	if err := validateSnapshot(data); err != nil {
		l.Warn("workspace snapshot rejected", slog.String("key", key), slog.Any("err", err))
		return domain.Workspace{}, false
	}
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		l.Warn("workspace snapshot unparseable", slog.String("key", key), slog.Any("err", err))
		return domain.Workspace{}, false
	}
	var widgets []domain.WidgetInstance
	if err := json.Unmarshal(raw.Widgets, &widgets); err != nil {
		l.Warn("workspace widgets unparseable", slog.String("key", key), slog.Any("err", err))
		return domain.Workspace{}, false
	}
	if widgets == nil {
		widgets = []domain.WidgetInstance{}
	}

	ws := domain.Empty(language)
	ws.Widgets = widgets
	if raw.Annotations != nil {
		ws.Annotations = raw.Annotations
	}
	if raw.Viewport != nil {
		ws.Viewport = *raw.Viewport
	}
	if raw.Zoom != nil {
		ws.Zoom = domain.ClampZoom(*raw.Zoom)
	}
	if raw.Pan != nil {
		ws.Pan = *raw.Pan
	}
	ws.Version = raw.Version
	ws.LastModified = raw.LastModified
	return ws, true
}
