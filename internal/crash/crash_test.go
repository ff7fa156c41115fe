/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeSaver struct {
	saved int
	lang  string
}

func (f *fakeSaver) SaveNow() error   { f.saved++; return nil }
func (f *fakeSaver) Language() string { return f.lang }

func TestRecoverWritesReportAndSaves(t *testing.T) {
	dir := t.TempDir()
	saver := &fakeSaver{lang: "zh-CN"}

	exitCode := -1
	old := exitFn
	exitFn = func(code int) { exitCode = code }
	defer func() { exitFn = old }()

	func() {
		defer func() { Recover(saver, dir) }()
		panic("boom")
	}()

	if exitCode != 2 {
		t.Fatalf("exit code = %d", exitCode)
	}
	if saver.saved != 1 {
		t.Fatalf("workspace not saved on crash")
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var report string
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), "crash-") && strings.HasSuffix(e.Name(), ".log") {
			report = filepath.Join(dir, e.Name())
		}
	}
	if report == "" {
		t.Fatalf("no crash report in %v", ents)
	}
	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	text := string(data)
	for _, want := range []string{"Panic: boom", "Stack:", "Workspace: zh-CN"} {
		if !strings.Contains(text, want) {
			t.Fatalf("report missing %q:\n%s", want, text)
		}
	}
}

func TestRecoverNoPanicIsNoop(t *testing.T) {
	called := false
	old := exitFn
	exitFn = func(int) { called = true }
	defer func() { exitFn = old }()

	func() {
		defer func() { Recover(nil, t.TempDir()) }()
	}()
	if called {
		t.Fatalf("Recover exited without a panic")
	}
}

func TestRecoverNilSaver(t *testing.T) {
	old := exitFn
	exitFn = func(int) {}
	defer func() { exitFn = old }()

	func() {
		defer func() { Recover(nil, t.TempDir()) }()
		panic("no saver")
	}()
}
