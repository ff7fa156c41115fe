/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package layout

import (
	"math/rand"
	"strings"
	"testing"

	"tokendesk/internal/domain"
)

func rectsOverlap(ax, ay, aw, ah, bx, by, bw, bh float64) bool {
	return ax < bx+bw && bx < ax+aw && ay < by+bh && by < ay+ah
}

func TestFastBuyGeometry(t *testing.T) {
	p := FastBuy(domain.Vec{X: 0, Y: 0})

	if p.Overview.X <= p.Chart.X {
		t.Fatalf("overview must sit right of chart: %+v", p)
	}
	if p.Overview.Y != p.Chart.Y {
		t.Fatalf("overview must be top-aligned with chart: %+v", p)
	}
	if p.Swap.X != p.Overview.X {
		t.Fatalf("swap must share overview x: %+v", p)
	}
	if p.Swap.Y <= p.Overview.Y {
		t.Fatalf("swap must sit below overview: %+v", p)
	}
	if got := p.Overview.X - (p.Chart.X + ChartWidth); got != Spacing {
		t.Fatalf("chart/overview gap = %v", got)
	}
	if got := p.Swap.Y - (p.Overview.Y + OverviewHeight); got != Spacing {
		t.Fatalf("overview/swap gap = %v", got)
	}
}

// Placement is a pure translation of the center: no pair of widgets may
// overlap for any center.
func TestFastBuyNoOverlapAnyCenter(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		c := domain.Vec{X: (rng.Float64() - 0.5) * 1e6, Y: (rng.Float64() - 0.5) * 1e6}
		p := FastBuy(c)
		if rectsOverlap(p.Chart.X, p.Chart.Y, ChartWidth, ChartHeight, p.Overview.X, p.Overview.Y, OverviewWidth, OverviewHeight) {
			t.Fatalf("chart overlaps overview at center %+v", c)
		}
		if rectsOverlap(p.Chart.X, p.Chart.Y, ChartWidth, ChartHeight, p.Swap.X, p.Swap.Y, SwapWidth, SwapHeight) {
			t.Fatalf("chart overlaps swap at center %+v", c)
		}
		if rectsOverlap(p.Overview.X, p.Overview.Y, OverviewWidth, OverviewHeight, p.Swap.X, p.Swap.Y, SwapWidth, SwapHeight) {
			t.Fatalf("overview overlaps swap at center %+v", c)
		}
	}
}

func TestFastBuyDeterministic(t *testing.T) {
	c := domain.Vec{X: 123.5, Y: -42}
	if FastBuy(c) != FastBuy(c) {
		t.Fatalf("placement not deterministic")
	}
}

func TestValidAddress(t *testing.T) {
	valid := []string{
		"So11111111111111111111111111111111111111112",
		"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		strings.Repeat("1", 32),
		strings.Repeat("z", 44),
	}
	for _, s := range valid {
		if !ValidAddress(s) {
			t.Errorf("ValidAddress(%q) = false", s)
		}
	}
	invalid := []string{
		"",
		"invalid",
		strings.Repeat("1", 31),
		strings.Repeat("1", 45),
		strings.Repeat("1", 31) + "0", // 0 not in base58
		strings.Repeat("1", 31) + "O",
		strings.Repeat("1", 31) + "I",
		strings.Repeat("1", 31) + "l",
		strings.Repeat("1", 31) + " ",
		strings.Repeat("1", 31) + "!",
	}
	for _, s := range invalid {
		if ValidAddress(s) {
			t.Errorf("ValidAddress(%q) = true", s)
		}
	}
}
