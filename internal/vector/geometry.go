/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package vector holds 2D geometry for the canvas: rect math, the
// canvas/device view transform and annotation hit-testing.
package vector

import (
	"math"

	"tokendesk/internal/domain"
)

// NormalizedRect returns the rect spanning anchor and p with non-negative
// width and height, regardless of drag direction.
func NormalizedRect(anchor, p domain.Vec) domain.Rect {
	return domain.Rect{
		X:      math.Min(anchor.X, p.X),
		Y:      math.Min(anchor.Y, p.Y),
		Width:  math.Abs(p.X - anchor.X),
		Height: math.Abs(p.Y - anchor.Y),
	}
}

// Contains reports whether p lies inside r (edges inclusive).
func Contains(r domain.Rect, p domain.Vec) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.Width && p.Y <= r.Y+r.Height
}

// Inflate grows r by d on every side (negative shrinks).
func Inflate(r domain.Rect, d float64) domain.Rect {
	return domain.Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Dist returns the euclidean distance between two points.
func Dist(a, b domain.Vec) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// SegmentDist returns the distance from p to the segment a-b.
func SegmentDist(p, a, b domain.Vec) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Dist(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Dist(p, domain.Vec{X: a.X + t*dx, Y: a.Y + t*dy})
}

// Transform is the pure view transform of the canvas. Pan is a screen-space
// offset; zoom scales canvas units to device pixels:
//
//	device = canvas*zoom + pan
//	canvas = (device - pan) / zoom
//
// The transform never touches stored widget geometry.
type Transform struct {
	Zoom float64
	Pan  domain.Vec
}

// ToDevice maps a canvas point to device coordinates.
func (t Transform) ToDevice(p domain.Vec) domain.Vec {
	return domain.Vec{X: p.X*t.Zoom + t.Pan.X, Y: p.Y*t.Zoom + t.Pan.Y}
}

// ToCanvas maps a device point to canvas coordinates by inverting the
// current pan and zoom. A zero zoom is treated as 1 to avoid dividing
// by zero on an uninitialized transform.
func (t Transform) ToCanvas(p domain.Vec) domain.Vec {
	z := t.Zoom
	if z == 0 {
		z = 1
	}
	return domain.Vec{X: (p.X - t.Pan.X) / z, Y: (p.Y - t.Pan.Y) / z}
}
