/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package annotate

import (
	"fmt"
	"testing"

	"tokendesk/internal/domain"
)

// memSurface is a minimal in-memory annotation sink.
type memSurface struct {
	anns []domain.Annotation
	next int
}

func (m *memSurface) AddAnnotation(a domain.Annotation) domain.Annotation {
	m.next++
	a.ID = fmt.Sprintf("a%d", m.next)
	m.anns = append(m.anns, a)
	return a
}

func (m *memSurface) RemoveAnnotation(id string) bool {
	for i := range m.anns {
		if m.anns[i].ID == id {
			m.anns = append(m.anns[:i], m.anns[i+1:]...)
			return true
		}
	}
	return false
}

func (m *memSurface) Annotations() []domain.Annotation {
	return append([]domain.Annotation(nil), m.anns...)
}

func v(x, y float64) domain.Vec { return domain.Vec{X: x, Y: y} }

func TestPencilStroke(t *testing.T) {
	m := &memSurface{}
	c := NewController(m, nil)
	c.SetTool(ToolPencil)

	if c.Drawing() {
		t.Fatalf("drawing before press")
	}
	c.PointerDown(v(0, 0))
	if !c.Drawing() {
		t.Fatalf("not drawing after press")
	}
	c.PointerMove(v(10, 5))
	c.PointerMove(v(20, 10))
	a, ok := c.PointerUp(v(20, 10))
	if !ok {
		t.Fatalf("stroke discarded")
	}
	if c.Drawing() {
		t.Fatalf("still drawing after release")
	}
	want := []float64{0, 0, 10, 5, 20, 10}
	if len(a.Points) != len(want) {
		t.Fatalf("points = %v", a.Points)
	}
	for i := range want {
		if a.Points[i] != want[i] {
			t.Fatalf("points = %v, want %v", a.Points, want)
		}
	}
	if a.Type != domain.AnnotationPencil || a.Color != DefaultStyle.Color {
		t.Fatalf("annotation = %+v", a)
	}
}

func TestPencilClickWithoutDragDiscarded(t *testing.T) {
	m := &memSurface{}
	c := NewController(m, nil)
	c.SetTool(ToolPencil)
	c.PointerDown(v(5, 5))
	if _, ok := c.PointerUp(v(5, 5)); ok {
		t.Fatalf("zero-length stroke committed")
	}
	if len(m.anns) != 0 {
		t.Fatalf("surface received %d annotations", len(m.anns))
	}
}

// An arrow is always two endpoints; intermediate moves only slide the tip.
func TestArrowKeepsEndpointsOnly(t *testing.T) {
	m := &memSurface{}
	c := NewController(m, nil)
	c.SetTool(ToolArrow)
	c.PointerDown(v(1, 2))
	c.PointerMove(v(50, 50))
	c.PointerMove(v(80, 20))
	a, ok := c.PointerUp(v(100, 40))
	if !ok {
		t.Fatalf("arrow discarded")
	}
	want := []float64{1, 2, 100, 40}
	if len(a.Points) != 4 {
		t.Fatalf("points = %v", a.Points)
	}
	for i := range want {
		if a.Points[i] != want[i] {
			t.Fatalf("points = %v, want %v", a.Points, want)
		}
	}
}

func TestHighlightNormalizesAndThresholds(t *testing.T) {
	m := &memSurface{}
	c := NewController(m, nil)
	c.SetTool(ToolHighlight)

	// dragged up-left: rect still has positive extent
	c.PointerDown(v(100, 80))
	a, ok := c.PointerUp(v(40, 30))
	if !ok || a.Rect == nil {
		t.Fatalf("highlight discarded")
	}
	if a.Rect.X != 40 || a.Rect.Y != 30 || a.Rect.Width != 60 || a.Rect.Height != 50 {
		t.Fatalf("rect = %+v", a.Rect)
	}

	// a tiny accidental drag is dropped
	c.PointerDown(v(0, 0))
	if _, ok := c.PointerUp(v(4, 4)); ok {
		t.Fatalf("sub-threshold highlight committed")
	}

	// one large dimension is enough
	c.PointerDown(v(0, 0))
	if _, ok := c.PointerUp(v(30, 2)); !ok {
		t.Fatalf("wide flat highlight discarded")
	}
}

func TestTextPromptFlow(t *testing.T) {
	m := &memSurface{}
	text, ok := "note to self", true
	c := NewController(m, func() (string, bool) { return text, ok })
	c.SetTool(ToolText)

	c.PointerDown(v(7, 9))
	if c.Drawing() {
		t.Fatalf("text tool entered drawing state")
	}
	if len(m.anns) != 1 {
		t.Fatalf("annotations = %d", len(m.anns))
	}
	a := m.anns[0]
	if a.Type != domain.AnnotationText || a.Text != "note to self" {
		t.Fatalf("annotation = %+v", a)
	}
	if a.Position == nil || a.Position.X != 7 || a.Position.Y != 9 {
		t.Fatalf("position = %+v", a.Position)
	}

	// cancelled or blank prompts place nothing
	ok = false
	c.PointerDown(v(1, 1))
	ok, text = true, "   "
	c.PointerDown(v(1, 1))
	if len(m.anns) != 1 {
		t.Fatalf("cancelled prompt placed an annotation")
	}
}

func TestEraserRemovesTopmost(t *testing.T) {
	m := &memSurface{}
	m.AddAnnotation(domain.Annotation{Type: domain.AnnotationHighlight, Rect: &domain.Rect{X: 0, Y: 0, Width: 100, Height: 100}})
	m.AddAnnotation(domain.Annotation{Type: domain.AnnotationHighlight, Rect: &domain.Rect{X: 40, Y: 40, Width: 100, Height: 100}})

	c := NewController(m, nil)
	c.SetTool(ToolEraser)
	c.PointerDown(v(50, 50)) // inside both; the later one wins
	if len(m.anns) != 1 || m.anns[0].ID != "a1" {
		t.Fatalf("wrong annotation erased: %+v", m.anns)
	}
	c.PointerDown(v(-500, -500)) // miss
	if len(m.anns) != 1 {
		t.Fatalf("miss erased something")
	}
}

func TestCancelAndToolSwitchAbort(t *testing.T) {
	m := &memSurface{}
	c := NewController(m, nil)
	c.SetTool(ToolPencil)
	c.PointerDown(v(0, 0))
	c.PointerMove(v(10, 10))
	c.Cancel()
	if c.Drawing() {
		t.Fatalf("cancel left drawing state")
	}
	if _, ok := c.PointerUp(v(10, 10)); ok {
		t.Fatalf("release after cancel committed")
	}

	c.PointerDown(v(0, 0))
	c.PointerMove(v(10, 10))
	c.SetTool(ToolArrow) // switching tools mid-stroke aborts
	if c.Drawing() {
		t.Fatalf("tool switch kept the stroke")
	}
	if len(m.anns) != 0 {
		t.Fatalf("aborted strokes committed: %d", len(m.anns))
	}
}

func TestPreviewTracksCursor(t *testing.T) {
	c := NewController(&memSurface{}, nil)
	if _, ok := c.Preview(); ok {
		t.Fatalf("preview while idle")
	}
	c.SetTool(ToolHighlight)
	c.PointerDown(v(10, 10))
	c.PointerMove(v(60, 40))
	p, ok := c.Preview()
	if !ok || p.Rect == nil {
		t.Fatalf("no preview mid-stroke")
	}
	if p.Rect.Width != 50 || p.Rect.Height != 30 {
		t.Fatalf("preview rect = %+v", p.Rect)
	}
}
