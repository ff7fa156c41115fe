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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"tokendesk/internal/domain"
)

// PNGOptions controls PNG export. Scale maps canvas units to pixels; 1 when
// zero or negative.
type PNGOptions struct {
	Scale float64
}

// WritePNG rasterizes the workspace into a single PNG cropped to its
// content and writes it to outPath. An empty workspace exports a small
// blank image.
func WritePNG(ws domain.Workspace, outPath string, opt PNGOptions) error {
	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}
	bounds, ok := ContentBounds(ws)
	if !ok {
		bounds = domain.Rect{Width: 400, Height: 300}
	}
	pixW := int(math.Round(bounds.Width * scale))
	pixH := int(math.Round(bounds.Height * scale))
	if pixW < 1 {
		pixW = 1
	}
	if pixH < 1 {
		pixH = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	px := func(x float64) int { return int(math.Round((x - bounds.X) * scale)) }
	py := func(y float64) int { return int(math.Round((y - bounds.Y) * scale)) }

	frameFill := color.RGBA{245, 245, 248, 255}
	frameLine := color.RGBA{60, 60, 70, 255}
	barFill := color.RGBA{228, 228, 236, 255}
	for _, w := range widgetsByZ(ws) {
		x0, y0 := px(w.Position.X), py(w.Position.Y)
		x1 := px(w.Position.X + w.Size.Width)
		y1 := py(w.Position.Y + w.Size.Height)
		fillRect(img, x0, y0, x1-1, y1-1, frameFill)
		barH := int(math.Round(24 * scale))
		fillRect(img, x0, y0, x1-1, y0+barH-1, barFill)
		strokeRect(img, x0, y0, x1-1, y1-1, frameLine)
		drawLabel(img, x0+int(8*scale), y0+int(16*scale), widgetTitle(w), frameLine)
	}

	for _, a := range ws.Annotations {
		c := strokeColor(a)
		switch a.Type {
		case domain.AnnotationPencil, domain.AnnotationArrow:
			for i := 0; i+3 < len(a.Points); i += 2 {
				drawLine(img, px(a.Points[i]), py(a.Points[i+1]), px(a.Points[i+2]), py(a.Points[i+3]), c)
			}
		case domain.AnnotationHighlight:
			if a.Rect != nil {
				blendRect(img, px(a.Rect.X), py(a.Rect.Y),
					px(a.Rect.X+a.Rect.Width)-1, py(a.Rect.Y+a.Rect.Height)-1, c)
			}
		case domain.AnnotationText:
			if a.Position != nil {
				drawLabel(img, px(a.Position.X), py(a.Position.Y), a.Text, c)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// drawLabel renders text with the built-in 7x13 bitmap face; the baseline
// sits at (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, col color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// strokeRect draws a 1px rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// blendRect lays a translucent highlight over the pixels in the rectangle.
func blendRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	over := color.RGBA{col.R, col.G, col.B, 77} // ~30% opacity
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	src := &image.Uniform{C: over}
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(img.Bounds())
	draw.Draw(img, r, src, image.Point{}, draw.Over)
}

// drawLine is a basic Bresenham segment.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.SetRGBA(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
