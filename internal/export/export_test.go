/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"tokendesk/internal/domain"
	"tokendesk/internal/registry"
)

func sampleWorkspace() domain.Workspace {
	ws := domain.Empty("en")
	ws.Widgets = append(ws.Widgets,
		domain.WidgetInstance{
			ID: "w1", Type: registry.PriceChart, ZIndex: 1,
			Position: domain.Vec{X: 0, Y: 0},
			Size:     domain.Size{Width: 800, Height: 600},
		},
		domain.WidgetInstance{
			ID: "w2", Type: registry.Swap, ZIndex: 2,
			Position: domain.Vec{X: 820, Y: 0},
			Size:     domain.Size{Width: 400, Height: 400},
		},
	)
	ws.Annotations = append(ws.Annotations,
		domain.Annotation{ID: "a1", Type: domain.AnnotationPencil, Points: []float64{10, 10, 50, 60, 90, 30}, Color: "#ff0000", StrokeWidth: 2},
		domain.Annotation{ID: "a2", Type: domain.AnnotationArrow, Points: []float64{100, 100, 300, 250}, Color: "#00f", StrokeWidth: 2},
		domain.Annotation{ID: "a3", Type: domain.AnnotationHighlight, Rect: &domain.Rect{X: 50, Y: 50, Width: 200, Height: 100}, Color: "#ffee00"},
		domain.Annotation{ID: "a4", Type: domain.AnnotationText, Text: "look here", Position: &domain.Vec{X: 400, Y: 500}, Color: "#000000"},
	)
	return ws
}

func TestContentBounds(t *testing.T) {
	ws := sampleWorkspace()
	b, ok := ContentBounds(ws)
	if !ok {
		t.Fatalf("no bounds for populated workspace")
	}
	if b.X != -ContentMargin || b.Y != -ContentMargin {
		t.Fatalf("origin = %v,%v", b.X, b.Y)
	}
	// rightmost content is the swap widget at 820+400
	if b.Width != 1220+2*ContentMargin {
		t.Fatalf("width = %v", b.Width)
	}
	if b.Height != 600+2*ContentMargin {
		t.Fatalf("height = %v", b.Height)
	}

	if _, ok := ContentBounds(domain.Empty("en")); ok {
		t.Fatalf("empty workspace has bounds")
	}
}

func TestContentBoundsAnnotationsOnly(t *testing.T) {
	ws := domain.Empty("en")
	ws.Annotations = append(ws.Annotations,
		domain.Annotation{Type: domain.AnnotationText, Text: "x", Position: &domain.Vec{X: -100, Y: 200}})
	b, ok := ContentBounds(ws)
	if !ok {
		t.Fatalf("annotation-only workspace has no bounds")
	}
	if b.X != -100-ContentMargin || b.Y != 200-ContentMargin {
		t.Fatalf("bounds = %+v", b)
	}
}

func TestWritePDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "workspace.pdf")
	if err := WritePDF(sampleWorkspace(), out, PDFOptions{}); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("not a pdf: %q", data[:8])
	}
}

func TestWritePDFEmptyWorkspace(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.pdf")
	if err := WritePDF(domain.Empty("en"), out, PDFOptions{}); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
}

func TestWritePNGDimensions(t *testing.T) {
	out := filepath.Join(t.TempDir(), "workspace.png")
	if err := WritePNG(sampleWorkspace(), out, PNGOptions{Scale: 0.5}); err != nil {
		t.Fatalf("write png: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b, _ := ContentBounds(sampleWorkspace())
	wantW, wantH := int(b.Width*0.5), int(b.Height*0.5)
	if img.Bounds().Dx() != wantW || img.Bounds().Dy() != wantH {
		t.Fatalf("size = %dx%d, want %dx%d", img.Bounds().Dx(), img.Bounds().Dy(), wantW, wantH)
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		r, g int
	}{
		{"#ff0000", true, 255, 0},
		{"#0f0", true, 0, 255},
		{" #FF8800 ", true, 255, 136},
		{"red", false, 0, 0},
		{"#zzz", false, 0, 0},
		{"", false, 0, 0},
	}
	for _, c := range cases {
		got, ok := parseHexColor(c.in)
		if ok != c.ok {
			t.Fatalf("%q: ok=%v", c.in, ok)
		}
		if ok && (int(got.R) != c.r || int(got.G) != c.g) {
			t.Fatalf("%q: got %+v", c.in, got)
		}
	}
}
