/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package registry is the static widget definition table: for every widget
// type it fixes the category, default/min/max sizes and the default config a
// new instance is seeded with. Pure lookups, no state.
package registry

import "tokendesk/internal/domain"

// Definition describes one widget type.
type Definition struct {
	Type          domain.WidgetType
	Category      domain.Category
	Title         string
	DefaultSize   domain.Size
	MinSize       domain.Size
	MaxSize       *domain.Size // nil means unbounded
	DefaultConfig map[string]any
}

// Widget type identifiers. The fast-buy flow depends on PriceChart,
// TokenOverview and Swap keeping their default sizes in sync with the layout
// constants in internal/layout.
const (
	PriceChart     domain.WidgetType = "price-chart"
	MarketHeatmap  domain.WidgetType = "market-heatmap"
	TrendingTokens domain.WidgetType = "trending-tokens"
	TokenScreener  domain.WidgetType = "token-screener"
	TokenOverview  domain.WidgetType = "token-overview"
	Portfolio      domain.WidgetType = "portfolio"
	Swap           domain.WidgetType = "swap"
	LimitOrder     domain.WidgetType = "limit-order"
	NewsFeed       domain.WidgetType = "news-feed"
	TwitterFeed    domain.WidgetType = "twitter-feed"
	Notes          domain.WidgetType = "notes"
	Watchlist      domain.WidgetType = "watchlist"
)

// WrappedSolMint is the default input asset for new swap widgets.
const WrappedSolMint = "So11111111111111111111111111111111111111112"

// DefaultSlippagePct is the default slippage for new swap widgets, percent.
const DefaultSlippagePct = 0.5

var definitions = map[domain.WidgetType]Definition{
	PriceChart: {
		Type: PriceChart, Category: domain.CategoryChart, Title: "Price Chart",
		DefaultSize: domain.Size{Width: 800, Height: 600},
		MinSize:     domain.Size{Width: 400, Height: 300},
		DefaultConfig: map[string]any{
			"address":  "",
			"interval": "15m",
			"theme":    "dark",
		},
	},
	MarketHeatmap: {
		Type: MarketHeatmap, Category: domain.CategoryChart, Title: "Market Heatmap",
		DefaultSize: domain.Size{Width: 600, Height: 400},
		MinSize:     domain.Size{Width: 300, Height: 200},
		DefaultConfig: map[string]any{
			"metric": "volume24h",
			"limit":  100.0,
		},
	},
	TrendingTokens: {
		Type: TrendingTokens, Category: domain.CategoryDiscovery, Title: "Trending Tokens",
		DefaultSize: domain.Size{Width: 400, Height: 500},
		MinSize:     domain.Size{Width: 300, Height: 300},
		DefaultConfig: map[string]any{
			"window": "1h",
			"limit":  20.0,
		},
	},
	TokenScreener: {
		Type: TokenScreener, Category: domain.CategoryDiscovery, Title: "Token Screener",
		DefaultSize: domain.Size{Width: 700, Height: 500},
		MinSize:     domain.Size{Width: 400, Height: 300},
		DefaultConfig: map[string]any{
			"minLiquidity": 10000.0,
			"sortBy":       "volume24h",
		},
	},
	TokenOverview: {
		Type: TokenOverview, Category: domain.CategoryAnalysis, Title: "Token Overview",
		DefaultSize: domain.Size{Width: 400, Height: 300},
		MinSize:     domain.Size{Width: 300, Height: 200},
		DefaultConfig: map[string]any{
			"address": "",
		},
	},
	Portfolio: {
		Type: Portfolio, Category: domain.CategoryAnalysis, Title: "Portfolio",
		DefaultSize: domain.Size{Width: 500, Height: 400},
		MinSize:     domain.Size{Width: 350, Height: 250},
		DefaultConfig: map[string]any{
			"wallet":   "",
			"currency": "USD",
		},
	},
	Swap: {
		Type: Swap, Category: domain.CategoryExecution, Title: "Swap",
		DefaultSize: domain.Size{Width: 400, Height: 400},
		MinSize:     domain.Size{Width: 320, Height: 360},
		MaxSize:     &domain.Size{Width: 600, Height: 700},
		DefaultConfig: map[string]any{
			"inputMint":  WrappedSolMint,
			"outputMint": "",
			"slippage":   DefaultSlippagePct,
		},
	},
	LimitOrder: {
		Type: LimitOrder, Category: domain.CategoryExecution, Title: "Limit Order",
		DefaultSize: domain.Size{Width: 400, Height: 450},
		MinSize:     domain.Size{Width: 320, Height: 380},
		MaxSize:     &domain.Size{Width: 600, Height: 750},
		DefaultConfig: map[string]any{
			"inputMint":  WrappedSolMint,
			"outputMint": "",
			"expiry":     "7d",
		},
	},
	NewsFeed: {
		Type: NewsFeed, Category: domain.CategoryFeed, Title: "News Feed",
		DefaultSize: domain.Size{Width: 400, Height: 600},
		MinSize:     domain.Size{Width: 300, Height: 300},
		DefaultConfig: map[string]any{
			"sources": []any{},
		},
	},
	TwitterFeed: {
		Type: TwitterFeed, Category: domain.CategoryFeed, Title: "Twitter Feed",
		DefaultSize: domain.Size{Width: 400, Height: 600},
		MinSize:     domain.Size{Width: 300, Height: 300},
		DefaultConfig: map[string]any{
			"handle": "",
		},
	},
	Notes: {
		Type: Notes, Category: domain.CategoryUtility, Title: "Notes",
		DefaultSize: domain.Size{Width: 300, Height: 300},
		MinSize:     domain.Size{Width: 200, Height: 150},
		DefaultConfig: map[string]any{
			"fontSize": 14.0,
		},
	},
	Watchlist: {
		Type: Watchlist, Category: domain.CategoryUtility, Title: "Watchlist",
		DefaultSize: domain.Size{Width: 350, Height: 450},
		MinSize:     domain.Size{Width: 250, Height: 250},
		DefaultConfig: map[string]any{
			"addresses": []any{},
		},
	},
}

// categoryOrder fixes the tool library ordering.
var categoryOrder = []domain.Category{
	domain.CategoryChart,
	domain.CategoryDiscovery,
	domain.CategoryAnalysis,
	domain.CategoryExecution,
	domain.CategoryFeed,
	domain.CategoryUtility,
}

// typeOrder fixes a stable listing order inside and across categories.
var typeOrder = []domain.WidgetType{
	PriceChart, MarketHeatmap,
	TrendingTokens, TokenScreener,
	TokenOverview, Portfolio,
	Swap, LimitOrder,
	NewsFeed, TwitterFeed,
	Notes, Watchlist,
}

// Get returns the definition for a widget type.
func Get(t domain.WidgetType) (Definition, bool) {
	d, ok := definitions[t]
	return d, ok
}

// IsValidType reports whether s names a registered widget type.
func IsValidType(s string) bool {
	_, ok := definitions[domain.WidgetType(s)]
	return ok
}

// ByCategory returns the definitions of one category in registry order.
func ByCategory(c domain.Category) []Definition {
	var out []Definition
	for _, t := range typeOrder {
		if d := definitions[t]; d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the fixed category set in display order.
func Categories() []domain.Category {
	return append([]domain.Category(nil), categoryOrder...)
}

// Types returns all registered widget types in registry order.
func Types() []domain.WidgetType {
	return append([]domain.WidgetType(nil), typeOrder...)
}

// DefaultConfig returns an independent copy of the default config for t.
// Instances must never share the registry's map.
func DefaultConfig(t domain.WidgetType) map[string]any {
	d, ok := definitions[t]
	if !ok {
		return map[string]any{}
	}
	return domain.CloneMap(d.DefaultConfig)
}

// ClampSize bounds a requested size by the type's min and (when present) max
// size. Used by the interactive resize path; the store itself does not
// enforce widget sizes.
func ClampSize(t domain.WidgetType, s domain.Size) domain.Size {
	d, ok := definitions[t]
	if !ok {
		return s
	}
	if s.Width < d.MinSize.Width {
		s.Width = d.MinSize.Width
	}
	if s.Height < d.MinSize.Height {
		s.Height = d.MinSize.Height
	}
	if d.MaxSize != nil {
		if s.Width > d.MaxSize.Width {
			s.Width = d.MaxSize.Width
		}
		if s.Height > d.MaxSize.Height {
			s.Height = d.MaxSize.Height
		}
	}
	return s
}
