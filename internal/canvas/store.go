/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package canvas holds the workspace store: the single mutable owner of one
// language's widget set, annotation layer and view transform. Every mutation
// schedules a debounced save; reads hand out deep copies so callers can never
// reach into live state. The store is safe for concurrent use.
package canvas

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tokendesk/internal/debounce"
	"tokendesk/internal/domain"
	"tokendesk/internal/layout"
	applog "tokendesk/internal/log"
	"tokendesk/internal/registry"
	"tokendesk/internal/storage"
	"tokendesk/internal/undo"
	"tokendesk/internal/vector"
)

// DefaultDebounceWindow is how long after the last mutation the snapshot is
// written. Long enough to swallow a drag, short enough to survive a close.
const DefaultDebounceWindow = 500 * time.Millisecond

// DefaultWidgetPos is where a widget lands when no drop position is given.
var DefaultWidgetPos = domain.Vec{X: 100, Y: 100}

// DuplicateOffset separates a duplicate from its source.
var DuplicateOffset = domain.Vec{X: 20, Y: 20}

// Options configures a Store. Only Store is required; everything else has a
// production default and exists so tests can pin time, IDs and persistence.
type Options struct {
	Store    storage.Store
	Language string // default "en"

	DebounceWindow  time.Duration     // default DefaultDebounceWindow
	Clock           func() time.Time  // default time.Now
	NewID           func() string     // default uuid.NewString
	ValidateAddress func(string) bool // default layout.ValidAddress
	ReportError     func(err error)   // persistence failures, after logging
	Undo            *undo.Manager     // nil disables undo/redo
}

// Store owns the current workspace and persists it through the configured
// storage backend. Construct with New; the zero value is not usable.
type Store struct {
	opts  Options
	log   *slog.Logger
	saver *debounce.Task

	mu sync.Mutex
	ws domain.Workspace
}

// New loads the workspace for opts.Language (falling back to the empty
// workspace when the snapshot is absent or unreadable) and returns a ready
// store.
func New(opts Options) *Store {
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = DefaultDebounceWindow
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.ValidateAddress == nil {
		opts.ValidateAddress = layout.ValidAddress
	}
	s := &Store{opts: opts, log: applog.WithComponent("canvas")}
	s.saver = debounce.New(opts.DebounceWindow, s.persist)
	ws, ok := storage.LoadWorkspace(opts.Store, opts.Language)
	if !ok {
		ws = domain.Empty(opts.Language)
	}
	s.ws = ws
	return s
}

// Language returns the active workspace language.
func (s *Store) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.Language
}

// Workspace returns a deep copy of the current workspace.
func (s *Store) Workspace() domain.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.Clone()
}

// Widget returns a deep copy of one widget instance.
func (s *Store) Widget(id string) (domain.WidgetInstance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.ws.Widgets[i].Clone(), true
	}
	return domain.WidgetInstance{}, false
}

// WidgetsByZ returns deep copies of all widgets ordered back to front.
func (s *Store) WidgetsByZ() []domain.WidgetInstance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.WidgetInstance, len(s.ws.Widgets))
	for i, w := range s.ws.Widgets {
		out[i] = w.Clone()
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].ZIndex > out[j].ZIndex; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// AddWidget places a new instance of the given type. ok is false for a type
// the registry does not know. pos nil means the default drop position. The
// new widget is frontmost: its z-index exceeds every existing one.
func (s *Store) AddWidget(t domain.WidgetType, pos *domain.Vec) (domain.WidgetInstance, bool) {
	def, ok := registry.Get(t)
	if !ok {
		s.log.Warn("unknown widget type", slog.String("type", string(t)))
		return domain.WidgetInstance{}, false
	}
	p := DefaultWidgetPos
	if pos != nil {
		p = *pos
	}
	s.mu.Lock()
	s.pushUndoLocked()
	w := s.newWidgetLocked(t, p, def.DefaultSize, registry.DefaultConfig(t))
	s.ws.Widgets = append(s.ws.Widgets, w)
	s.mu.Unlock()
	s.saver.Trigger()
	return w.Clone(), true
}

// newWidgetLocked builds a widget with a fresh ID, the next z-index and
// stamped timestamps.
func (s *Store) newWidgetLocked(t domain.WidgetType, pos domain.Vec, size domain.Size, cfg map[string]any) domain.WidgetInstance {
	now := s.opts.Clock().UnixMilli()
	return domain.WidgetInstance{
		ID:        s.opts.NewID(),
		Type:      t,
		Position:  pos,
		Size:      size,
		ZIndex:    s.nextZLocked(),
		Config:    cfg,
		State:     map[string]any{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Store) nextZLocked() int {
	max := 0
	for _, w := range s.ws.Widgets {
		if w.ZIndex > max {
			max = w.ZIndex
		}
	}
	return max + 1
}

func (s *Store) indexLocked(id string) int {
	for i := range s.ws.Widgets {
		if s.ws.Widgets[i].ID == id {
			return i
		}
	}
	return -1
}

// RemoveWidget deletes an instance. Removing an unknown id is a no-op.
func (s *Store) RemoveWidget(id string) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.pushUndoLocked()
	s.ws.Widgets = append(s.ws.Widgets[:i], s.ws.Widgets[i+1:]...)
	s.mu.Unlock()
	s.saver.Trigger()
}

// UpdateWidget applies a partial update to one instance and advances its
// updatedAt stamp. Returns false when the id is unknown.
func (s *Store) UpdateWidget(id string, patch domain.WidgetPatch) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.pushUndoLocked()
	w := &s.ws.Widgets[i]
	if patch.Position != nil {
		w.Position = *patch.Position
	}
	if patch.Size != nil {
		w.Size = *patch.Size
	}
	if patch.ZIndex != nil {
		w.ZIndex = *patch.ZIndex
	}
	if patch.Config != nil {
		w.Config = domain.CloneMap(patch.Config)
	}
	if patch.State != nil {
		w.State = domain.CloneMap(patch.State)
	}
	w.UpdatedAt = s.opts.Clock().UnixMilli()
	s.mu.Unlock()
	s.saver.Trigger()
	return true
}

// BringToFront raises a widget above all others.
func (s *Store) BringToFront(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	z := s.nextZLocked()
	if s.ws.Widgets[i].ZIndex == z-1 {
		s.mu.Unlock() // already frontmost
		return true
	}
	s.pushUndoLocked()
	s.ws.Widgets[i].ZIndex = z
	s.ws.Widgets[i].UpdatedAt = s.opts.Clock().UnixMilli()
	s.mu.Unlock()
	s.saver.Trigger()
	return true
}

// DuplicateWidget clones an instance with a fresh identity: new id, slight
// positional offset, frontmost z-index and its own config/state copies.
func (s *Store) DuplicateWidget(id string) (domain.WidgetInstance, bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		s.log.Warn("duplicate of unknown widget", slog.String("id", id))
		return domain.WidgetInstance{}, false
	}
	s.pushUndoLocked()
	src := s.ws.Widgets[i]
	dup := s.newWidgetLocked(src.Type,
		domain.Vec{X: src.Position.X + DuplicateOffset.X, Y: src.Position.Y + DuplicateOffset.Y},
		src.Size, domain.CloneMap(src.Config))
	dup.State = domain.CloneMap(src.State)
	s.ws.Widgets = append(s.ws.Widgets, dup)
	s.mu.Unlock()
	s.saver.Trigger()
	return dup.Clone(), true
}

// SetZoom clamps z into the allowed range, applies it and returns the
// effective value.
func (s *Store) SetZoom(z float64) float64 {
	z = domain.ClampZoom(z)
	s.mu.Lock()
	s.ws.Zoom = z
	s.mu.Unlock()
	s.saver.Trigger()
	return z
}

// SetPan sets the pan offset. The canvas is infinite; no bounds apply.
func (s *Store) SetPan(p domain.Vec) {
	s.mu.Lock()
	s.ws.Pan = p
	s.mu.Unlock()
	s.saver.Trigger()
}

// SetViewport records the on-screen viewport extent.
func (s *Store) SetViewport(v domain.Viewport) {
	s.mu.Lock()
	s.ws.Viewport = v
	s.mu.Unlock()
	s.saver.Trigger()
}

// View returns the current transform between canvas and device coordinates.
func (s *Store) View() vector.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return vector.Transform{Zoom: s.ws.Zoom, Pan: s.ws.Pan}
}

// AddAnnotation appends a finished annotation, assigning an id and timestamp
// when the caller left them empty. Returns the stored copy.
func (s *Store) AddAnnotation(a domain.Annotation) domain.Annotation {
	if a.ID == "" {
		a.ID = s.opts.NewID()
	}
	if a.Timestamp == 0 {
		a.Timestamp = s.opts.Clock().UnixMilli()
	}
	s.mu.Lock()
	s.pushUndoLocked()
	s.ws.Annotations = append(s.ws.Annotations, a.Clone())
	s.mu.Unlock()
	s.saver.Trigger()
	return a
}

// RemoveAnnotation deletes one annotation by id.
func (s *Store) RemoveAnnotation(id string) bool {
	s.mu.Lock()
	for i := range s.ws.Annotations {
		if s.ws.Annotations[i].ID == id {
			s.pushUndoLocked()
			s.ws.Annotations = append(s.ws.Annotations[:i], s.ws.Annotations[i+1:]...)
			s.mu.Unlock()
			s.saver.Trigger()
			return true
		}
	}
	s.mu.Unlock()
	return false
}

// ClearAnnotations drops the whole annotation layer. A no-op when empty.
func (s *Store) ClearAnnotations() {
	s.mu.Lock()
	if len(s.ws.Annotations) == 0 {
		s.mu.Unlock()
		return
	}
	s.pushUndoLocked()
	s.ws.Annotations = []domain.Annotation{}
	s.mu.Unlock()
	s.saver.Trigger()
}

// Annotations returns deep copies in paint order.
func (s *Store) Annotations() []domain.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Annotation, len(s.ws.Annotations))
	for i, a := range s.ws.Annotations {
		out[i] = a.Clone()
	}
	return out
}

// SetLanguage switches the active workspace. The departing workspace is
// saved synchronously before the target language's snapshot is loaded, so a
// rapid switch-and-close loses nothing. Switching to the current language is
// a no-op.
func (s *Store) SetLanguage(lang string) {
	s.mu.Lock()
	if lang == s.ws.Language {
		s.mu.Unlock()
		return
	}
	old := s.ws.Clone()
	ws, ok := storage.LoadWorkspace(s.opts.Store, lang)
	if !ok {
		ws = domain.Empty(lang)
	}
	s.ws = ws
	s.mu.Unlock()
	s.write(old)
}

// Save schedules a debounced snapshot write.
func (s *Store) Save() { s.saver.Trigger() }

// Flush writes any pending snapshot immediately.
func (s *Store) Flush() { s.saver.Flush() }

// SaveNow bypasses the debounce window and persists the current workspace
// synchronously, returning the storage error if any. Crash handlers use it.
func (s *Store) SaveNow() error {
	s.mu.Lock()
	ws := s.ws.Clone()
	s.mu.Unlock()
	return storage.SaveWorkspace(s.opts.Store, ws)
}

// Close flushes pending work and stops the autosaver. The store must not be
// used afterwards.
func (s *Store) Close() {
	s.saver.Flush()
	s.saver.Stop()
}

// persist is the debounced autosave body.
func (s *Store) persist() {
	s.mu.Lock()
	ws := s.ws.Clone()
	s.mu.Unlock()
	s.write(ws)
}

// write stores one workspace snapshot. Persistence failures are logged and
// reported but never propagate: the in-memory state remains authoritative
// and the next save retries.
func (s *Store) write(ws domain.Workspace) {
	if err := storage.SaveWorkspace(s.opts.Store, ws); err != nil {
		s.log.Warn("workspace save failed",
			slog.String("language", ws.Language), slog.Any("err", err))
		if s.opts.ReportError != nil {
			s.opts.ReportError(err)
		}
	}
}

// Undo restores the state before the most recent mutation. Returns false
// when no undo manager is configured or the stack is empty.
func (s *Store) Undo() bool { return s.restore((*undo.Manager).Undo) }

// Redo reverses the most recent Undo.
func (s *Store) Redo() bool { return s.restore((*undo.Manager).Redo) }

func (s *Store) restore(pop func(*undo.Manager, string, []byte) (undo.Snapshot, bool)) bool {
	if s.opts.Undo == nil {
		return false
	}
	s.mu.Lock()
	cur, err := json.Marshal(s.ws)
	if err != nil {
		s.mu.Unlock()
		return false
	}
	snap, ok := pop(s.opts.Undo, s.ws.Language, cur)
	if !ok {
		s.mu.Unlock()
		return false
	}
	var ws domain.Workspace
	if err := json.Unmarshal(snap.Blob, &ws); err != nil {
		s.mu.Unlock()
		s.log.Warn("undo snapshot unparseable", slog.Any("err", err))
		return false
	}
	if ws.Widgets == nil {
		ws.Widgets = []domain.WidgetInstance{}
	}
	if ws.Annotations == nil {
		ws.Annotations = []domain.Annotation{}
	}
	s.ws = ws
	s.mu.Unlock()
	s.saver.Trigger()
	return true
}

// pushUndoLocked records the pre-mutation state. View changes (zoom, pan,
// viewport) skip this on purpose: undo steps track content, not the camera.
func (s *Store) pushUndoLocked() {
	if s.opts.Undo == nil {
		return
	}
	blob, err := json.Marshal(s.ws)
	if err != nil {
		return
	}
	s.opts.Undo.Push(undo.Snapshot{Language: s.ws.Language, Blob: blob, TS: s.opts.Clock()})
}
