/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export renders workspace snapshots to PDF and PNG for sharing:
// widget frames with their titles plus the annotation layer, laid out in
// canvas coordinates cropped to the content.
package export

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"tokendesk/internal/domain"
	"tokendesk/internal/registry"
)

// ContentMargin is the whitespace around the content bounds, canvas units.
const ContentMargin = 40.0

// DefaultStrokeColor is used for annotations with an unparseable color.
var DefaultStrokeColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}

// ContentBounds returns the canvas rectangle that encloses every widget and
// annotation plus the margin. ok is false for an empty workspace.
func ContentBounds(ws domain.Workspace) (domain.Rect, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	for _, w := range ws.Widgets {
		grow(w.Position.X, w.Position.Y)
		grow(w.Position.X+w.Size.Width, w.Position.Y+w.Size.Height)
	}
	for _, a := range ws.Annotations {
		switch {
		case len(a.Points) >= 2:
			for i := 0; i+1 < len(a.Points); i += 2 {
				grow(a.Points[i], a.Points[i+1])
			}
		case a.Rect != nil:
			grow(a.Rect.X, a.Rect.Y)
			grow(a.Rect.X+a.Rect.Width, a.Rect.Y+a.Rect.Height)
		case a.Position != nil:
			grow(a.Position.X, a.Position.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return domain.Rect{}, false
	}
	return domain.Rect{
		X:      minX - ContentMargin,
		Y:      minY - ContentMargin,
		Width:  maxX - minX + 2*ContentMargin,
		Height: maxY - minY + 2*ContentMargin,
	}, true
}

// widgetsByZ returns the widgets back to front for painting.
func widgetsByZ(ws domain.Workspace) []domain.WidgetInstance {
	out := append([]domain.WidgetInstance(nil), ws.Widgets...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// widgetTitle labels a widget frame: the registry title, or the raw type for
// instances whose type is no longer registered.
func widgetTitle(w domain.WidgetInstance) string {
	if d, ok := registry.Get(w.Type); ok {
		return d.Title
	}
	return string(w.Type)
}

// parseHexColor reads #rgb and #rrggbb annotation colors.
func parseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		s = fmt.Sprintf("%c%c%c%c%c%c", s[0], s[0], s[1], s[1], s[2], s[2])
	case 6:
	default:
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

func strokeColor(a domain.Annotation) color.RGBA {
	if c, ok := parseHexColor(a.Color); ok {
		return c
	}
	return DefaultStrokeColor
}
