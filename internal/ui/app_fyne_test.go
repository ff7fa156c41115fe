//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"math"
	"testing"

	cstore "tokendesk/internal/canvas"
	"tokendesk/internal/domain"
	"tokendesk/internal/registry"
	"tokendesk/internal/storage"
)

func TestParseAnnotationColor(t *testing.T) {
	c := parseAnnotationColor("#00a0ff")
	if c.R != 0x00 || c.G != 0xa0 || c.B != 0xff {
		t.Fatalf("parsed %+v", c)
	}
	fallback := parseAnnotationColor("red")
	if fallback.R != 255 || fallback.G != 0 {
		t.Fatalf("fallback = %+v", fallback)
	}
}

func TestArrowBarbsSymmetric(t *testing.T) {
	barbs := arrowBarbs(0, 0, 100, 0)
	if len(barbs) != 2 {
		t.Fatalf("barbs = %v", barbs)
	}
	// symmetric about the shaft
	if math.Abs(barbs[0].Y+barbs[1].Y) > 1e-9 {
		t.Fatalf("barbs not symmetric: %v", barbs)
	}
	if barbs[0].X >= 100 || barbs[1].X >= 100 {
		t.Fatalf("barbs should trail the tip: %v", barbs)
	}
	if arrowBarbs(5, 5, 5, 5) != nil {
		t.Fatalf("zero-length arrow should have no barbs")
	}
}

func TestWidgetAtHonorsZOrder(t *testing.T) {
	store := cstore.New(cstore.Options{Store: storage.NewMemStore(), Language: "en"})
	defer store.Close()
	wc := NewWorkspaceCanvas(store)

	pos := domain.Vec{X: 0, Y: 0}
	a, _ := store.AddWidget(registry.PriceChart, &pos)
	b, _ := store.AddWidget(registry.Swap, &pos)

	hit, ok := wc.widgetAt(domain.Vec{X: 10, Y: 10})
	if !ok || hit.ID != b.ID {
		t.Fatalf("topmost widget = %+v, want %s", hit, b.ID)
	}

	store.BringToFront(a.ID)
	hit, ok = wc.widgetAt(domain.Vec{X: 10, Y: 10})
	if !ok || hit.ID != a.ID {
		t.Fatalf("after raise, topmost = %+v, want %s", hit, a.ID)
	}

	if _, ok := wc.widgetAt(domain.Vec{X: -500, Y: -500}); ok {
		t.Fatalf("hit on empty canvas")
	}
}
