/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"errors"

	"tokendesk/internal/domain"
	"tokendesk/internal/layout"
	"tokendesk/internal/registry"
	"tokendesk/internal/vector"
)

// ErrInvalidAddress rejects a fast-buy for input that does not look like a
// token address.
var ErrInvalidAddress = errors.New("invalid token address")

// FastBuyResult names the three widgets a fast-buy creates.
type FastBuyResult struct {
	Chart     domain.WidgetInstance
	Overview  domain.WidgetInstance
	Swap      domain.WidgetInstance
	Placement layout.FastBuyPlacement
}

// FastBuy validates a pasted token address and, in one step, places a price
// chart, a token overview and a swap widget pre-configured for that token.
// center is the canvas point to arrange them around; nil means the middle of
// the current viewport. The three widgets stack in creation order: chart
// lowest, swap on top.
func (s *Store) FastBuy(address string, center *domain.Vec) (FastBuyResult, error) {
	if !s.opts.ValidateAddress(address) {
		return FastBuyResult{}, ErrInvalidAddress
	}
	s.mu.Lock()
	c := s.viewCenterLocked()
	if center != nil {
		c = *center
	}
	pl := layout.FastBuy(c)

	s.pushUndoLocked()
	chartCfg := registry.DefaultConfig(registry.PriceChart)
	chartCfg["address"] = address
	chart := s.newWidgetLocked(registry.PriceChart, pl.Chart,
		domain.Size{Width: layout.ChartWidth, Height: layout.ChartHeight}, chartCfg)
	s.ws.Widgets = append(s.ws.Widgets, chart)

	overviewCfg := registry.DefaultConfig(registry.TokenOverview)
	overviewCfg["address"] = address
	overview := s.newWidgetLocked(registry.TokenOverview, pl.Overview,
		domain.Size{Width: layout.OverviewWidth, Height: layout.OverviewHeight}, overviewCfg)
	s.ws.Widgets = append(s.ws.Widgets, overview)

	swapCfg := registry.DefaultConfig(registry.Swap)
	swapCfg["outputMint"] = address
	swap := s.newWidgetLocked(registry.Swap, pl.Swap,
		domain.Size{Width: layout.SwapWidth, Height: layout.SwapHeight}, swapCfg)
	s.ws.Widgets = append(s.ws.Widgets, swap)
	s.mu.Unlock()
	s.saver.Trigger()

	return FastBuyResult{
		Chart:     chart.Clone(),
		Overview:  overview.Clone(),
		Swap:      swap.Clone(),
		Placement: pl,
	}, nil
}

// viewCenterLocked maps the middle of the last known viewport into canvas
// coordinates. With no recorded viewport this is the canvas point currently
// under the device origin's neighborhood, which degrades gracefully.
func (s *Store) viewCenterLocked() domain.Vec {
	t := vector.Transform{Zoom: s.ws.Zoom, Pan: s.ws.Pan}
	mid := domain.Vec{X: s.ws.Viewport.Width / 2, Y: s.ws.Viewport.Height / 2}
	return t.ToCanvas(mid)
}
