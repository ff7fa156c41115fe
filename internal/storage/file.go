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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// BackupsDirName holds timestamped copies of replaced snapshots.
	BackupsDirName = "backups"

	snapshotExt = ".json"
)

// FileStore keeps one JSON document per key under a root directory, with
// transactional temp-then-rename writes and a timestamped backup of the
// previous document before each replacement.
type FileStore struct {
	Root string
}

// NewFileStore creates the root (and backups) directories if needed.
func NewFileStore(root string) (*FileStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("store root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, BackupsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &FileStore{Root: root}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.Root, sanitizeKey(key)+snapshotExt)
}

// sanitizeKey maps a store key to a safe file name component. Keys are
// language-derived ("workspace_en", "workspace_zh-CN"); anything outside a
// conservative set is replaced so a hostile language tag cannot escape the
// store directory.
func sanitizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('~')
		}
	}
	return b.String()
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &Error{Op: "read", Key: key, Err: err}
	}
	return data, true, nil
}

// Set writes the document transactionally: backup the current file (if any),
// write to a temp file in the same directory, fsync, then rename over the
// target.
func (s *FileStore) Set(key string, data []byte) error {
	target := s.path(key)
	if _, err := os.Stat(target); err == nil {
		stamp := time.Now().Format("20060102-150405.000000000")
		bpath := filepath.Join(s.Root, BackupsDirName, fmt.Sprintf("%s.%s.bak", sanitizeKey(key), stamp))
		if err := copyFile(target, bpath); err != nil {
			return &Error{Op: "write", Key: key, Err: fmt.Errorf("backup current snapshot: %w", err)}
		}
	}
	temp := filepath.Join(s.Root, fmt.Sprintf(".%s.tmp-%d", sanitizeKey(key), os.Getpid()))
	if err := writeFileSync(temp, data); err != nil {
		return &Error{Op: "write", Key: key, Err: err}
	}
	// On Windows, rename cannot replace an existing file.
	if _, err := os.Stat(target); err == nil {
		_ = os.Remove(target)
	}
	if err := os.Rename(temp, target); err != nil {
		_ = os.Remove(temp)
		return &Error{Op: "write", Key: key, Err: err}
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *FileStore) Keys() ([]string, error) {
	ents, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, &Error{Op: "read", Key: "", Err: err}
	}
	var keys []string
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, snapshotExt) || strings.HasPrefix(name, ".") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, snapshotExt))
	}
	return keys, nil
}

// writeFileSync writes data to path and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
