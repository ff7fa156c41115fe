/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package vector

import "tokendesk/internal/domain"

// hitSlop widens stroke hit areas so thin lines stay clickable.
const hitSlop = 6.0

// textHitExtent approximates the clickable box of a text annotation.
var textHitExtent = domain.Size{Width: 120, Height: 24}

// HitAnnotation reports whether the canvas point p hits the annotation.
// Used by click-to-delete in annotation mode.
func HitAnnotation(a domain.Annotation, p domain.Vec) bool {
	switch a.Type {
	case domain.AnnotationPencil:
		for i := 0; i+3 < len(a.Points); i += 2 {
			s := domain.Vec{X: a.Points[i], Y: a.Points[i+1]}
			e := domain.Vec{X: a.Points[i+2], Y: a.Points[i+3]}
			if SegmentDist(p, s, e) <= a.StrokeWidth/2+hitSlop {
				return true
			}
		}
		// single-point stroke degenerates to a dot
		if len(a.Points) == 2 {
			return Dist(p, domain.Vec{X: a.Points[0], Y: a.Points[1]}) <= a.StrokeWidth/2+hitSlop
		}
		return false
	case domain.AnnotationArrow:
		if len(a.Points) != 4 {
			return false
		}
		s := domain.Vec{X: a.Points[0], Y: a.Points[1]}
		e := domain.Vec{X: a.Points[2], Y: a.Points[3]}
		return SegmentDist(p, s, e) <= a.StrokeWidth/2+hitSlop
	case domain.AnnotationHighlight:
		if a.Rect == nil {
			return false
		}
		return Contains(Inflate(*a.Rect, hitSlop/2), p)
	case domain.AnnotationText:
		if a.Position == nil {
			return false
		}
		box := domain.Rect{X: a.Position.X, Y: a.Position.Y, Width: textHitExtent.Width, Height: textHitExtent.Height}
		return Contains(box, p)
	default:
		return false
	}
}

// HitTopmost returns the index of the last (topmost painted) annotation hit
// by p, or -1 when none is hit.
func HitTopmost(annotations []domain.Annotation, p domain.Vec) int {
	for i := len(annotations) - 1; i >= 0; i-- {
		if HitAnnotation(annotations[i], p) {
			return i
		}
	}
	return -1
}
