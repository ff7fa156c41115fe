/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package layout holds the pure placement math for composite widget flows
// and the address shape check used to gate them.
package layout

import "tokendesk/internal/domain"

// Fixed sizes of the fast-buy trio and the gap between them. These must stay
// in sync with the registry defaults for the corresponding widget types.
const (
	ChartWidth     = 800
	ChartHeight    = 600
	OverviewWidth  = 400
	OverviewHeight = 300
	SwapWidth      = 400
	SwapHeight     = 400
	Spacing        = 20
)

// FastBuyPlacement is the computed position of each widget in the fast-buy
// trio, in canvas coordinates.
type FastBuyPlacement struct {
	Chart    domain.Vec
	Overview domain.Vec
	Swap     domain.Vec
}

// FastBuy returns the deterministic, non-overlapping placement for the
// chart/overview/swap trio centered around center: the chart sits left of
// center, the overview to the chart's right (top-aligned), and the swap
// directly below the overview sharing its x.
func FastBuy(center domain.Vec) FastBuyPlacement {
	totalWidth := float64(ChartWidth + Spacing + OverviewWidth)
	chart := domain.Vec{
		X: center.X - totalWidth/2,
		Y: center.Y - float64(ChartHeight)/2,
	}
	overview := domain.Vec{
		X: chart.X + ChartWidth + Spacing,
		Y: chart.Y,
	}
	swap := domain.Vec{
		X: overview.X,
		Y: overview.Y + OverviewHeight + Spacing,
	}
	return FastBuyPlacement{Chart: chart, Overview: overview, Swap: swap}
}

// Address length bounds for the base58 shape check.
const (
	minAddressLen = 32
	maxAddressLen = 44
)

// ValidAddress reports whether s looks like a base58-encoded identifier:
// 32 to 44 characters from the base58 alphabet (no 0, O, I or l). This is a
// shape check for opaque identifiers, not a chain-specific validation;
// callers that need a different policy swap in their own validator.
func ValidAddress(s string) bool {
	if len(s) < minAddressLen || len(s) > maxAddressLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isBase58(s[i]) {
			return false
		}
	}
	return true
}

func isBase58(c byte) bool {
	switch {
	case c >= '1' && c <= '9':
		return true
	case c >= 'A' && c <= 'Z':
		return c != 'I' && c != 'O'
	case c >= 'a' && c <= 'z':
		return c != 'l'
	default:
		return false
	}
}
