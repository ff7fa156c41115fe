/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package domain defines the core data model of the canvas workspace:
// widget instances placed on an infinite canvas, the freehand annotation
// layer drawn on top, and the per-language workspace snapshot that is
// persisted. The JSON tags define the stored snapshot shape; readers must
// stay tolerant of missing optional fields (see storage).
package domain

// Zoom bounds for the view transform. Zoom is always clamped into this
// range; pan is intentionally unconstrained (infinite canvas).
const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// ClampZoom forces z into [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// SnapshotVersion is written into every persisted workspace snapshot.
const SnapshotVersion = 1

// Vec is a point or offset in canvas coordinates (unscaled, unpanned).
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a widget extent in canvas units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle in canvas coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// WidgetType identifies one widget kind from the registry's fixed set.
type WidgetType string

// Category groups widget types in the tool library.
type Category string

const (
	CategoryChart     Category = "chart"
	CategoryDiscovery Category = "discovery"
	CategoryAnalysis  Category = "analysis"
	CategoryExecution Category = "execution"
	CategoryFeed      Category = "feed"
	CategoryUtility   Category = "utility"
)

// WidgetInstance is one placed widget on the canvas. Position and Size are
// stored in canvas coordinates and never change with pan or zoom. ZIndex is
// unique across all instances of a workspace and strictly increases with
// every add or duplicate. Config holds widget-type-specific settings seeded
// from the registry defaults; State is widget-internal runtime data.
type WidgetInstance struct {
	ID        string         `json:"id"`
	Type      WidgetType     `json:"type"`
	Position  Vec            `json:"position"`
	Size      Size           `json:"size"`
	ZIndex    int            `json:"zIndex"`
	Config    map[string]any `json:"config"`
	State     map[string]any `json:"state"`
	CreatedAt int64          `json:"createdAt"` // ms epoch, immutable
	UpdatedAt int64          `json:"updatedAt"` // ms epoch, advances on every mutation
}

// Clone returns a deep copy. Config and State are copied recursively so the
// copy can be mutated without affecting the original.
func (w WidgetInstance) Clone() WidgetInstance {
	c := w
	c.Config = CloneMap(w.Config)
	c.State = CloneMap(w.State)
	return c
}

// AnnotationType enumerates the drawable annotation kinds.
type AnnotationType string

const (
	AnnotationPencil    AnnotationType = "pencil"
	AnnotationArrow     AnnotationType = "arrow"
	AnnotationHighlight AnnotationType = "highlight"
	AnnotationText      AnnotationType = "text"
)

// Annotation is one markup object on the workspace. The payload depends on
// Type: pencil and arrow carry a flat [x0,y0,x1,y1,...] point list (an arrow
// always has exactly two endpoints), highlight carries Rect, text carries
// Text plus Position. Annotations are painted in insertion order.
type Annotation struct {
	ID          string         `json:"id"`
	Type        AnnotationType `json:"type"`
	Points      []float64      `json:"points,omitempty"`
	Rect        *Rect          `json:"rect,omitempty"`
	Text        string         `json:"text,omitempty"`
	Position    *Vec           `json:"position,omitempty"`
	Color       string         `json:"color"`
	StrokeWidth float64        `json:"strokeWidth"`
	Timestamp   int64          `json:"timestamp"` // ms epoch
}

// Clone returns a deep copy of the annotation.
func (a Annotation) Clone() Annotation {
	c := a
	if a.Points != nil {
		c.Points = append([]float64(nil), a.Points...)
	}
	if a.Rect != nil {
		r := *a.Rect
		c.Rect = &r
	}
	if a.Position != nil {
		p := *a.Position
		c.Position = &p
	}
	return c
}

// Viewport records the last known on-screen viewport extent. It is metadata
// only; the view transform lives in Zoom and Pan.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Workspace is the unit of persistence: everything one language's canvas
// holds. Workspaces for different languages are fully isolated.
type Workspace struct {
	Language     string           `json:"language"`
	Widgets      []WidgetInstance `json:"widgets"`
	Annotations  []Annotation     `json:"annotations"`
	Viewport     Viewport         `json:"viewport"`
	Zoom         float64          `json:"zoom"`
	Pan          Vec              `json:"pan"`
	Version      int              `json:"version"`
	LastModified int64            `json:"lastModified"` // ms epoch
}

// Empty returns the default workspace for a language: no widgets, no
// annotations, zoom 1, pan at the origin.
func Empty(language string) Workspace {
	return Workspace{
		Language:    language,
		Widgets:     []WidgetInstance{},
		Annotations: []Annotation{},
		Zoom:        1,
		Version:     SnapshotVersion,
	}
}

// Clone returns a deep copy of the whole workspace.
func (w Workspace) Clone() Workspace {
	c := w
	c.Widgets = make([]WidgetInstance, len(w.Widgets))
	for i, wi := range w.Widgets {
		c.Widgets[i] = wi.Clone()
	}
	c.Annotations = make([]Annotation, len(w.Annotations))
	for i, a := range w.Annotations {
		c.Annotations[i] = a.Clone()
	}
	return c
}

// WidgetPatch is a partial update applied to one widget instance. Nil fields
// are left untouched. Config and State replace the instance's maps wholesale
// (deep-copied on apply).
type WidgetPatch struct {
	Position *Vec
	Size     *Size
	ZIndex   *int
	Config   map[string]any
	State    map[string]any
}

// CloneMap deep-copies a schema-less config/state map, recursing into nested
// maps and slices as produced by a JSON round trip. A nil input yields an
// empty map so instances never share storage.
func CloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneMap(t)
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}
