/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package annotate turns raw pointer gestures into finished annotations: a
// small state machine that is idle until a press starts a stroke and commits
// or discards it on release. All coordinates are canvas coordinates; the
// input layer applies the view transform before calling in.
package annotate

import (
	"strings"

	"tokendesk/internal/domain"
	"tokendesk/internal/vector"
)

// Tool selects what a pointer gesture produces.
type Tool string

const (
	ToolNone      Tool = ""
	ToolPencil    Tool = "pencil"
	ToolArrow     Tool = "arrow"
	ToolHighlight Tool = "highlight"
	ToolText      Tool = "text"
	ToolEraser    Tool = "eraser"
)

// A highlight narrower and shorter than this on release is treated as an
// accidental click and discarded.
const minHighlightExtent = 5.0

// Style is the stroke appearance applied to committed annotations.
type Style struct {
	Color       string
	StrokeWidth float64
}

// DefaultStyle is used until the toolbar changes it.
var DefaultStyle = Style{Color: "#ff0000", StrokeWidth: 2}

// Surface is the annotation sink the controller commits into. canvas.Store
// implements it.
type Surface interface {
	AddAnnotation(a domain.Annotation) domain.Annotation
	RemoveAnnotation(id string) bool
	Annotations() []domain.Annotation
}

// PromptText asks the user for annotation text. ok false aborts the
// placement. Injected so the state machine stays free of UI toolkit code.
type PromptText func() (text string, ok bool)

// Controller drives annotation input for one surface. Not safe for
// concurrent use; pointer events arrive on one goroutine.
type Controller struct {
	surface Surface
	prompt  PromptText

	tool  Tool
	style Style

	drawing bool
	anchor  domain.Vec
	cursor  domain.Vec
	points  []float64
}

// NewController returns an idle controller with no tool armed. prompt may be
// nil when the text tool is never offered.
func NewController(surface Surface, prompt PromptText) *Controller {
	return &Controller{surface: surface, prompt: prompt, style: DefaultStyle}
}

// SetTool arms a tool, aborting any stroke in progress.
func (c *Controller) SetTool(t Tool) {
	c.Cancel()
	c.tool = t
}

// Tool returns the armed tool.
func (c *Controller) Tool() Tool { return c.tool }

// SetStyle changes the stroke style for subsequent annotations.
func (c *Controller) SetStyle(s Style) { c.style = s }

// Style returns the stroke style applied to new annotations.
func (c *Controller) Style() Style { return c.style }

// Drawing reports whether a stroke is in progress.
func (c *Controller) Drawing() bool { return c.drawing }

// PointerDown begins a gesture at p. Text placement and erasing complete
// immediately; the stroke tools enter the drawing state.
func (c *Controller) PointerDown(p domain.Vec) {
	switch c.tool {
	case ToolPencil:
		c.drawing = true
		c.anchor = p
		c.cursor = p
		c.points = []float64{p.X, p.Y}
	case ToolArrow, ToolHighlight:
		c.drawing = true
		c.anchor = p
		c.cursor = p
		c.points = nil
	case ToolText:
		c.placeText(p)
	case ToolEraser:
		c.eraseAt(p)
	}
}

// PointerMove extends the stroke in progress. Ignored while idle.
func (c *Controller) PointerMove(p domain.Vec) {
	if !c.drawing {
		return
	}
	c.cursor = p
	if c.tool == ToolPencil {
		c.points = append(c.points, p.X, p.Y)
	}
}

// PointerUp ends the gesture at p and commits the annotation when it passes
// the tool's minimum-extent check. Returns the committed annotation, or ok
// false for a discarded stroke or an idle release.
func (c *Controller) PointerUp(p domain.Vec) (domain.Annotation, bool) {
	if !c.drawing {
		return domain.Annotation{}, false
	}
	c.drawing = false
	c.cursor = p

	switch c.tool {
	case ToolPencil:
		// a press with no movement leaves a single point; drop it
		if len(c.points) <= 2 {
			c.points = nil
			return domain.Annotation{}, false
		}
		a := c.surface.AddAnnotation(domain.Annotation{
			Type:        domain.AnnotationPencil,
			Points:      c.points,
			Color:       c.style.Color,
			StrokeWidth: c.style.StrokeWidth,
		})
		c.points = nil
		return a, true
	case ToolArrow:
		a := c.surface.AddAnnotation(domain.Annotation{
			Type:        domain.AnnotationArrow,
			Points:      []float64{c.anchor.X, c.anchor.Y, p.X, p.Y},
			Color:       c.style.Color,
			StrokeWidth: c.style.StrokeWidth,
		})
		return a, true
	case ToolHighlight:
		r := vector.NormalizedRect(c.anchor, p)
		if r.Width <= minHighlightExtent && r.Height <= minHighlightExtent {
			return domain.Annotation{}, false
		}
		a := c.surface.AddAnnotation(domain.Annotation{
			Type:        domain.AnnotationHighlight,
			Rect:        &r,
			Color:       c.style.Color,
			StrokeWidth: c.style.StrokeWidth,
		})
		return a, true
	}
	return domain.Annotation{}, false
}

// Cancel aborts any stroke in progress without committing.
func (c *Controller) Cancel() {
	c.drawing = false
	c.points = nil
}

// Preview returns the in-progress annotation for the render layer to draw
// under the cursor. ok false while idle.
func (c *Controller) Preview() (domain.Annotation, bool) {
	if !c.drawing {
		return domain.Annotation{}, false
	}
	switch c.tool {
	case ToolPencil:
		return domain.Annotation{
			Type:        domain.AnnotationPencil,
			Points:      append([]float64(nil), c.points...),
			Color:       c.style.Color,
			StrokeWidth: c.style.StrokeWidth,
		}, true
	case ToolArrow:
		return domain.Annotation{
			Type:        domain.AnnotationArrow,
			Points:      []float64{c.anchor.X, c.anchor.Y, c.cursor.X, c.cursor.Y},
			Color:       c.style.Color,
			StrokeWidth: c.style.StrokeWidth,
		}, true
	case ToolHighlight:
		r := vector.NormalizedRect(c.anchor, c.cursor)
		return domain.Annotation{
			Type:        domain.AnnotationHighlight,
			Rect:        &r,
			Color:       c.style.Color,
			StrokeWidth: c.style.StrokeWidth,
		}, true
	}
	return domain.Annotation{}, false
}

func (c *Controller) placeText(p domain.Vec) {
	if c.prompt == nil {
		return
	}
	text, ok := c.prompt()
	if !ok || strings.TrimSpace(text) == "" {
		return
	}
	c.surface.AddAnnotation(domain.Annotation{
		Type:        domain.AnnotationText,
		Text:        text,
		Position:    &domain.Vec{X: p.X, Y: p.Y},
		Color:       c.style.Color,
		StrokeWidth: c.style.StrokeWidth,
	})
}

// eraseAt removes the topmost annotation under p, honoring paint order so
// the one drawn last wins.
func (c *Controller) eraseAt(p domain.Vec) {
	anns := c.surface.Annotations()
	if i := vector.HitTopmost(anns, p); i >= 0 {
		c.surface.RemoveAnnotation(anns[i].ID)
	}
}
