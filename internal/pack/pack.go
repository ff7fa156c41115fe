/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package pack bundles stored workspaces into a portable .zip archive and
// restores them, for backups and for moving a desk between machines.
package pack

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	applog "tokendesk/internal/log"
	"tokendesk/internal/storage"
	"tokendesk/internal/version"
)

const manifestName = "tokendesk.manifest.txt"

// Export writes every stored workspace into destZipPath. Snapshots land
// under workspaces/<language>.json; a small manifest at the archive root
// records provenance for human inspection.
func Export(st storage.Store, destZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("pack"), "export").With(slog.String("zip", destZipPath))
	if strings.TrimSpace(destZipPath) == "" {
		return 0, errors.New("destZipPath is required")
	}

	keys, err := st.Keys()
	if err != nil {
		return 0, fmt.Errorf("list workspaces: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return 0, fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return 0, fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)
	defer func() { _ = zw.Close() }()

	manifest := fmt.Sprintf("TokenDesk Workspace Pack\nCreated: %s\nVersion: %s\n\nContents: one JSON snapshot per workspace language.\n",
		time.Now().Format(time.RFC3339), version.String())
	w, err := zw.Create(manifestName)
	if err != nil {
		return 0, fmt.Errorf("add manifest: %w", err)
	}
	if _, err := w.Write([]byte(manifest)); err != nil {
		return 0, fmt.Errorf("write manifest: %w", err)
	}

	added := 0
	for _, key := range keys {
		lang, ok := strings.CutPrefix(key, storage.WorkspaceKeyPrefix)
		if !ok || lang == "" {
			continue
		}
		data, found, err := st.Get(key)
		if err != nil {
			l.Error("read workspace failed", slog.String("key", key), slog.Any("err", err))
			return added, fmt.Errorf("read %s: %w", key, err)
		}
		if !found {
			continue
		}
		fw, err := zw.Create("workspaces/" + lang + ".json")
		if err != nil {
			return added, err
		}
		if _, err := fw.Write(data); err != nil {
			return added, err
		}
		added++
	}
	l.Info("workspace pack exported", slog.Int("workspaces", added))
	return added, nil
}

// Import restores workspaces from a pack archive. Existing workspaces are
// skipped unless overwrite is set. Returns the count of restored workspaces.
func Import(st storage.Store, packZipPath string, overwrite bool) (int, error) {
	l := applog.WithOperation(applog.WithComponent("pack"), "import").With(slog.String("zip", packZipPath))
	if strings.TrimSpace(packZipPath) == "" {
		return 0, errors.New("packZipPath is required")
	}

	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	imported := 0
	for _, f := range r.File {
		name := path.Clean(f.Name)
		if name == manifestName || f.FileInfo().IsDir() {
			continue
		}
		rest, ok := strings.CutPrefix(name, "workspaces/")
		if !ok || strings.Contains(rest, "/") {
			l.Warn("skip unexpected entry", slog.String("name", f.Name))
			continue
		}
		lang, ok := strings.CutSuffix(rest, ".json")
		if !ok || lang == "" {
			l.Warn("skip unexpected entry", slog.String("name", f.Name))
			continue
		}

		key := storage.WorkspaceKey(lang)
		if !overwrite {
			if _, exists, err := st.Get(key); err == nil && exists {
				l.Warn("skip existing workspace", slog.String("language", lang))
				continue
			}
		}

		rc, err := f.Open()
		if err != nil {
			return imported, err
		}
		data, err := io.ReadAll(io.LimitReader(rc, 32<<20))
		_ = rc.Close()
		if err != nil {
			return imported, err
		}
		if !json.Valid(data) {
			l.Warn("skip corrupt snapshot", slog.String("language", lang))
			continue
		}
		if err := st.Set(key, data); err != nil {
			return imported, fmt.Errorf("restore %s: %w", lang, err)
		}
		imported++
	}
	l.Info("workspace pack imported", slog.Int("workspaces", imported))
	return imported, nil
}
