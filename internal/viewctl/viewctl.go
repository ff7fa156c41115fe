/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package viewctl translates wheel, drag and key input into view transform
// changes on the workspace store. Pointer positions are device coordinates.
package viewctl

import (
	"tokendesk/internal/domain"
	"tokendesk/internal/vector"
)

// WheelZoomFactor scales wheel delta into a zoom increment: a typical
// 100-unit notch changes zoom by 0.1.
const WheelZoomFactor = 0.001

// ArrowPanStep is the device-pixel distance one arrow key press scrolls.
const ArrowPanStep = 50.0

// View is the store surface the controller drives. canvas.Store implements
// it.
type View interface {
	SetZoom(z float64) float64
	SetPan(p domain.Vec)
	View() vector.Transform
}

// Controller holds the transient drag state for one canvas view. Not safe
// for concurrent use.
type Controller struct {
	view View

	panning bool
	// anchor is pointer minus pan at drag start; pan follows the pointer
	// keeping that difference constant.
	anchor domain.Vec
}

func NewController(view View) *Controller { return &Controller{view: view} }

// Wheel handles a scroll event at the device position p. With the zoom
// modifier held the wheel zooms around p, keeping the canvas point under the
// cursor stationary; without it the wheel scrolls the canvas.
func (c *Controller) Wheel(deltaX, deltaY float64, zoomModifier bool, p domain.Vec) {
	t := c.view.View()
	if !zoomModifier {
		c.view.SetPan(domain.Vec{X: t.Pan.X - deltaX, Y: t.Pan.Y - deltaY})
		return
	}
	target := t.Zoom + -deltaY*WheelZoomFactor
	applied := c.view.SetZoom(target)
	// re-anchor so the canvas point under the cursor stays put
	cp := t.ToCanvas(p)
	c.view.SetPan(domain.Vec{X: p.X - cp.X*applied, Y: p.Y - cp.Y*applied})
}

// StartPan begins a pan drag (middle button, or pan-key plus primary
// button) at device position p.
func (c *Controller) StartPan(p domain.Vec) {
	t := c.view.View()
	c.panning = true
	c.anchor = domain.Vec{X: p.X - t.Pan.X, Y: p.Y - t.Pan.Y}
}

// MovePan continues a pan drag. Ignored when no drag is active.
func (c *Controller) MovePan(p domain.Vec) {
	if !c.panning {
		return
	}
	c.view.SetPan(domain.Vec{X: p.X - c.anchor.X, Y: p.Y - c.anchor.Y})
}

// EndPan finishes the drag.
func (c *Controller) EndPan() { c.panning = false }

// Panning reports whether a pan drag is active.
func (c *Controller) Panning() bool { return c.panning }

// Nudge scrolls the view one arrow-key step in the given unit direction:
// dx=1 scrolls right, dy=1 scrolls down. Content moves opposite the scroll.
func (c *Controller) Nudge(dx, dy int) {
	t := c.view.View()
	c.view.SetPan(domain.Vec{
		X: t.Pan.X - float64(dx)*ArrowPanStep,
		Y: t.Pan.Y - float64(dy)*ArrowPanStep,
	})
}

// ZoomAt applies an absolute zoom level anchored at device position p, used
// by toolbar zoom buttons and pinch gestures.
func (c *Controller) ZoomAt(z float64, p domain.Vec) float64 {
	t := c.view.View()
	applied := c.view.SetZoom(z)
	cp := t.ToCanvas(p)
	c.view.SetPan(domain.Vec{X: p.X - cp.X*applied, Y: p.Y - cp.Y*applied})
	return applied
}

// Reset restores the identity view: zoom 1, origin pan.
func (c *Controller) Reset() {
	c.view.SetZoom(1)
	c.view.SetPan(domain.Vec{})
}
