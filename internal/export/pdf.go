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
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"tokendesk/internal/domain"
)

// PDFOptions controls PDF export. Units are points; one canvas unit maps to
// one point. Built-in Helvetica keeps text vector without font embedding.
type PDFOptions struct {
	Title string // document title; defaults to the workspace language
}

// WritePDF renders the workspace as a single-page PDF sized to its content
// and writes it to outPath, creating parent directories as needed. An empty
// workspace exports a small blank page.
func WritePDF(ws domain.Workspace, outPath string, opt PDFOptions) error {
	bounds, ok := ContentBounds(ws)
	if !ok {
		bounds = domain.Rect{Width: 400, Height: 300}
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: bounds.Width, Ht: bounds.Height},
		OrientationStr: "",
	})
	title := opt.Title
	if title == "" {
		title = fmt.Sprintf("Workspace %s", ws.Language)
	}
	pdf.SetTitle(title, false)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: bounds.Width, Ht: bounds.Height})

	// map canvas coordinates into the cropped page
	tx := func(x float64) float64 { return x - bounds.X }
	ty := func(y float64) float64 { return y - bounds.Y }

	// widget frames, back to front
	for _, w := range widgetsByZ(ws) {
		x, y := tx(w.Position.X), ty(w.Position.Y)
		pdf.SetFillColor(245, 245, 248)
		pdf.SetDrawColor(60, 60, 70)
		pdf.SetLineWidth(1)
		pdf.Rect(x, y, w.Size.Width, w.Size.Height, "FD")
		// title bar
		pdf.SetFillColor(228, 228, 236)
		pdf.Rect(x, y, w.Size.Width, 24, "F")
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Text(x+8, y+16, widgetTitle(w))
		pdf.SetFont("Helvetica", "", 12)
	}

	// annotation layer in paint order
	for _, a := range ws.Annotations {
		c := strokeColor(a)
		pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		width := a.StrokeWidth
		if width <= 0 {
			width = 1
		}
		pdf.SetLineWidth(width)
		switch a.Type {
		case domain.AnnotationPencil, domain.AnnotationArrow:
			for i := 0; i+3 < len(a.Points); i += 2 {
				pdf.Line(tx(a.Points[i]), ty(a.Points[i+1]), tx(a.Points[i+2]), ty(a.Points[i+3]))
			}
			if a.Type == domain.AnnotationArrow && len(a.Points) == 4 {
				drawArrowHead(pdf, tx(a.Points[0]), ty(a.Points[1]), tx(a.Points[2]), ty(a.Points[3]))
			}
		case domain.AnnotationHighlight:
			if a.Rect != nil {
				pdf.SetAlpha(0.3, "Normal")
				pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
				pdf.Rect(tx(a.Rect.X), ty(a.Rect.Y), a.Rect.Width, a.Rect.Height, "F")
				pdf.SetAlpha(1, "Normal")
			}
		case domain.AnnotationText:
			if a.Position != nil {
				pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
				pdf.Text(tx(a.Position.X), ty(a.Position.Y), a.Text)
				pdf.SetTextColor(0, 0, 0)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// drawArrowHead adds two short barbs at the arrow tip.
func drawArrowHead(pdf *gofpdf.Fpdf, x0, y0, x1, y1 float64) {
	const barb = 10.0
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length*barb, dy/length*barb
	// rotate the reversed unit vector by +-30 degrees
	const cos, sin = 0.866, 0.5
	pdf.Line(x1, y1, x1-(ux*cos-uy*sin), y1-(uy*cos+ux*sin))
	pdf.Line(x1, y1, x1-(ux*cos+uy*sin), y1-(uy*cos-ux*sin))
}
