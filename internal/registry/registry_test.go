/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package registry

import (
	"testing"

	"tokendesk/internal/domain"
)

// Every definition must satisfy the size invariants: default >= min, and
// max >= default when a max is set.
func TestDefinitionSizeInvariants(t *testing.T) {
	for _, typ := range Types() {
		d, ok := Get(typ)
		if !ok {
			t.Fatalf("type %q listed but not registered", typ)
		}
		if d.DefaultSize.Width < d.MinSize.Width || d.DefaultSize.Height < d.MinSize.Height {
			t.Errorf("%s: default size %+v below min %+v", typ, d.DefaultSize, d.MinSize)
		}
		if d.MaxSize != nil {
			if d.MaxSize.Width < d.DefaultSize.Width || d.MaxSize.Height < d.DefaultSize.Height {
				t.Errorf("%s: max size %+v below default %+v", typ, *d.MaxSize, d.DefaultSize)
			}
		}
	}
}

func TestEveryTypeBelongsToExactlyOneKnownCategory(t *testing.T) {
	known := map[domain.Category]bool{}
	for _, c := range Categories() {
		known[c] = true
	}
	seen := map[domain.WidgetType]int{}
	for _, c := range Categories() {
		for _, d := range ByCategory(c) {
			seen[d.Type]++
		}
	}
	for _, typ := range Types() {
		d, _ := Get(typ)
		if !known[d.Category] {
			t.Errorf("%s: unknown category %q", typ, d.Category)
		}
		if seen[typ] != 1 {
			t.Errorf("%s: appears %d times across categories", typ, seen[typ])
		}
	}
}

func TestIsValidType(t *testing.T) {
	if !IsValidType("price-chart") || !IsValidType("swap") {
		t.Fatalf("known types rejected")
	}
	for _, s := range []string{"", "bogus", "Price-Chart", "chart "} {
		if IsValidType(s) {
			t.Fatalf("IsValidType(%q) = true", s)
		}
	}
}

func TestDefaultConfigIsIndependentCopy(t *testing.T) {
	a := DefaultConfig(Swap)
	b := DefaultConfig(Swap)
	a["slippage"] = 99.0
	if b["slippage"] != DefaultSlippagePct {
		t.Fatalf("default config maps are shared")
	}
	d, _ := Get(Swap)
	if d.DefaultConfig["slippage"] != DefaultSlippagePct {
		t.Fatalf("registry default mutated")
	}
	if a["inputMint"] != WrappedSolMint {
		t.Fatalf("swap input mint default missing")
	}
}

func TestDefaultConfigUnknownType(t *testing.T) {
	m := DefaultConfig("nope")
	if m == nil || len(m) != 0 {
		t.Fatalf("unknown type should yield empty map, got %v", m)
	}
}

func TestClampSize(t *testing.T) {
	got := ClampSize(Swap, domain.Size{Width: 10, Height: 10})
	d, _ := Get(Swap)
	if got != d.MinSize {
		t.Fatalf("undersize not clamped to min: %+v", got)
	}
	got = ClampSize(Swap, domain.Size{Width: 9999, Height: 9999})
	if got != *d.MaxSize {
		t.Fatalf("oversize not clamped to max: %+v", got)
	}
	in := domain.Size{Width: 420, Height: 420}
	if got := ClampSize(Swap, in); got != in {
		t.Fatalf("in-range size changed: %+v", got)
	}
	// unknown type passes through
	if got := ClampSize("nope", in); got != in {
		t.Fatalf("unknown type should not clamp")
	}
}
