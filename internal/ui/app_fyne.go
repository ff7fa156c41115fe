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
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"tokendesk/internal/annotate"
	cstore "tokendesk/internal/canvas"
	"tokendesk/internal/config"
	"tokendesk/internal/crash"
	"tokendesk/internal/domain"
	"tokendesk/internal/export"
	applog "tokendesk/internal/log"
	"tokendesk/internal/registry"
	"tokendesk/internal/storage"
	"tokendesk/internal/undo"
	"tokendesk/internal/vector"
	"tokendesk/internal/viewctl"
)

// supportedLanguages drives the language switcher. The current config
// language is inserted if it is not listed.
var supportedLanguages = []string{"en", "es", "fr", "de", "pt", "ja", "ko", "zh-CN"}

// Run starts the Fyne desktop workspace on the given storage backend.
func Run(cfg config.AppConfig, st storage.Store, dataDir string) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("language", cfg.General.Language))

	undoMgr := undo.NewManager(undo.Config{
		MaxBytes:       cfg.Canvas.UndoMaxBytes,
		MaxPerLanguage: cfg.Canvas.UndoDepth,
		MinInterval:    300 * time.Millisecond,
	})

	fyneApp := app.NewWithID("tokendesk")
	w := fyneApp.NewWindow("TokenDesk")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1280)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")

	store := cstore.New(cstore.Options{
		Store:          st,
		Language:       cfg.General.Language,
		DebounceWindow: cfg.Canvas.AutosaveWindow(),
		Undo:           undoMgr,
		ReportError: func(err error) {
			// called from the debounce goroutine
			fyne.Do(func() { status.SetText(fmt.Sprintf("Save failed: %v", err)) })
		},
	})
	defer store.Close()
	defer func() { crash.Recover(store, filepath.Join(dataDir, "crashes")) }()

	wc := NewWorkspaceCanvas(store)
	wc.OnPlaceText = func(p domain.Vec) {
		entry := widget.NewEntry()
		dialog.ShowForm("Add Text Note", "Add", "Cancel",
			[]*widget.FormItem{widget.NewFormItem("Text", entry)},
			func(ok bool) {
				if !ok || entry.Text == "" {
					return
				}
				style := wc.draw.Style()
				store.AddAnnotation(domain.Annotation{
					Type:        domain.AnnotationText,
					Text:        entry.Text,
					Position:    &domain.Vec{X: p.X, Y: p.Y},
					Color:       style.Color,
					StrokeWidth: style.StrokeWidth,
				})
				wc.Refresh()
			}, w)
	}

	updateStatus := func() {
		ws := store.Workspace()
		status.SetText(fmt.Sprintf("%s · zoom %.0f%% · %d widgets · %d notes",
			ws.Language, ws.Zoom*100, len(ws.Widgets), len(ws.Annotations)))
	}
	wc.OnChange = updateStatus

	// Toolbar row: drawing tool, stroke style, fast buy, language.
	toolSelect := widget.NewSelect([]string{"Select", "Pencil", "Arrow", "Highlight", "Text", "Eraser"}, func(s string) {
		switch s {
		case "Pencil":
			wc.SetTool(annotate.ToolPencil)
		case "Arrow":
			wc.SetTool(annotate.ToolArrow)
		case "Highlight":
			wc.SetTool(annotate.ToolHighlight)
		case "Text":
			wc.SetTool(annotate.ToolText)
		case "Eraser":
			wc.SetTool(annotate.ToolEraser)
		default:
			wc.SetTool(annotate.ToolNone)
		}
	})
	toolSelect.SetSelected("Select")

	colorSelect := widget.NewSelect([]string{"#ff0000", "#00a000", "#0066ff", "#ffaa00", "#ffffff"}, func(s string) {
		st := wc.draw.Style()
		st.Color = s
		wc.draw.SetStyle(st)
	})
	colorSelect.SetSelected(annotate.DefaultStyle.Color)

	buyEntry := widget.NewEntry()
	buyEntry.SetPlaceHolder("Token mint address")
	buyButton := widget.NewButton("Fast Buy", func() {
		res, err := store.FastBuy(buyEntry.Text, nil)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		buyEntry.SetText("")
		wc.Refresh()
		updateStatus()
		l.Info("fast buy placed",
			slog.String("chart", res.Chart.ID),
			slog.String("swap", res.Swap.ID))
	})

	langs := supportedLanguages
	if !containsString(langs, cfg.General.Language) {
		langs = append([]string{cfg.General.Language}, langs...)
	}
	langSelect := widget.NewSelect(langs, func(lang string) {
		if lang == store.Language() {
			return
		}
		store.SetLanguage(lang)
		wc.ClearSelection()
		wc.Refresh()
		updateStatus()
	})
	langSelect.SetSelected(store.Language())

	toolbar := container.NewHBox(
		widget.NewLabel("Tool:"), toolSelect,
		widget.NewLabel("Color:"), colorSelect,
		widget.NewSeparator(),
		buyEntry, buyButton,
		widget.NewSeparator(),
		widget.NewLabel("Workspace:"), langSelect,
	)

	w.SetMainMenu(buildMainMenu(w, store, wc, updateStatus, l))

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyUp:
			wc.view.Nudge(0, 1)
		case fyne.KeyDown:
			wc.view.Nudge(0, -1)
		case fyne.KeyLeft:
			wc.view.Nudge(1, 0)
		case fyne.KeyRight:
			wc.view.Nudge(-1, 0)
		case fyne.KeyDelete, fyne.KeyBackspace:
			wc.RemoveSelected()
		case fyne.KeyEscape:
			wc.draw.Cancel()
		default:
			return
		}
		wc.Refresh()
		updateStatus()
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		if store.Undo() {
			wc.ClearSelection()
			wc.Refresh()
			updateStatus()
		}
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		if store.Redo() {
			wc.ClearSelection()
			wc.Refresh()
			updateStatus()
		}
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		if err := store.SaveNow(); err != nil {
			status.SetText(fmt.Sprintf("Save failed: %v", err))
			return
		}
		status.SetText("Saved")
	})

	w.SetContent(container.NewBorder(toolbar, status, nil, nil, wc))
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		store.SetViewport(domain.Viewport{Width: float64(wc.Size().Width), Height: float64(wc.Size().Height)})
		if err := store.SaveNow(); err != nil {
			l.Error("final save failed", slog.Any("err", err))
		}
		w.Close()
	})

	updateStatus()
	w.ShowAndRun()
	return nil
}

func buildMainMenu(w fyne.Window, store *cstore.Store, wc *WorkspaceCanvas, updateStatus func(), l *slog.Logger) *fyne.MainMenu {
	saveItem := fyne.NewMenuItem("Save Now", func() {
		if err := store.SaveNow(); err != nil {
			dialog.ShowError(err, w)
		}
	})
	exportPDF := fyne.NewMenuItem("Export PDF…", func() {
		showExport(w, "pdf", func(path string) error {
			return export.WritePDF(store.Workspace(), path, export.PDFOptions{})
		}, l)
	})
	exportPNG := fyne.NewMenuItem("Export PNG…", func() {
		showExport(w, "png", func(path string) error {
			return export.WritePNG(store.Workspace(), path, export.PNGOptions{})
		}, l)
	})
	fileMenu := fyne.NewMenu("File", saveItem, fyne.NewMenuItemSeparator(), exportPDF, exportPNG)

	undoItem := fyne.NewMenuItem("Undo", func() {
		if store.Undo() {
			wc.ClearSelection()
			wc.Refresh()
			updateStatus()
		}
	})
	redoItem := fyne.NewMenuItem("Redo", func() {
		if store.Redo() {
			wc.ClearSelection()
			wc.Refresh()
			updateStatus()
		}
	})
	clearNotes := fyne.NewMenuItem("Clear Annotations", func() {
		store.ClearAnnotations()
		wc.Refresh()
		updateStatus()
	})
	editMenu := fyne.NewMenu("Edit", undoItem, redoItem, fyne.NewMenuItemSeparator(), clearNotes)

	zoomIn := fyne.NewMenuItem("Zoom In", func() { wc.ZoomStep(1.25); updateStatus() })
	zoomOut := fyne.NewMenuItem("Zoom Out", func() { wc.ZoomStep(1 / 1.25); updateStatus() })
	zoomReset := fyne.NewMenuItem("Reset View", func() {
		wc.view.Reset()
		wc.Refresh()
		updateStatus()
	})
	viewMenu := fyne.NewMenu("View", zoomIn, zoomOut, zoomReset)

	// Widgets menu mirrors the registry, grouped by category.
	var catItems []*fyne.MenuItem
	for _, cat := range registry.Categories() {
		defs := registry.ByCategory(cat)
		items := make([]*fyne.MenuItem, 0, len(defs))
		for _, def := range defs {
			t := def.Type
			items = append(items, fyne.NewMenuItem(def.Title, func() {
				if _, ok := store.AddWidget(t, nil); ok {
					wc.Refresh()
					updateStatus()
				}
			}))
		}
		ci := fyne.NewMenuItem(string(cat), nil)
		ci.ChildMenu = fyne.NewMenu(string(cat), items...)
		catItems = append(catItems, ci)
	}
	widgetsMenu := fyne.NewMenu("Widgets", catItems...)

	return fyne.NewMainMenu(fileMenu, editMenu, viewMenu, widgetsMenu)
}

func showExport(w fyne.Window, ext string, write func(path string) error, l *slog.Logger) {
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if uc == nil {
			return
		}
		path := uc.URI().Path()
		_ = uc.Close()
		if err := write(path); err != nil {
			l.Error("export failed", slog.String("path", path), slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		l.Info("exported workspace", slog.String("path", path))
	}, w)
	fd.SetFilter(fstorage.NewExtensionFileFilter([]string{"." + ext}))
	fd.SetFileName("workspace." + ext)
	fd.Show()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// --- workspace canvas widget ---

type dragKind int

const (
	dragIdle dragKind = iota
	dragPan
	dragMove
	dragDraw
)

// WorkspaceCanvas renders the widget layer and the annotation layer under the
// view transform, and routes pointer gestures to the drawing and view
// controllers.
type WorkspaceCanvas struct {
	widget.BaseWidget

	store *cstore.Store
	view  *viewctl.Controller
	draw  *annotate.Controller

	tool     annotate.Tool // ToolNone selects and pans
	selected string        // widget ID, empty when nothing selected

	drag        dragKind
	dragWidget  string
	widgetStart domain.Vec
	pointStart  domain.Vec // canvas coords at drag start
	lastPoint   domain.Vec // canvas coords of last pointer event

	OnPlaceText func(p domain.Vec)
	OnChange    func()
}

func NewWorkspaceCanvas(store *cstore.Store) *WorkspaceCanvas {
	wc := &WorkspaceCanvas{
		store: store,
		view:  viewctl.NewController(store),
	}
	// text placement goes through OnPlaceText; the controller never prompts
	wc.draw = annotate.NewController(store, nil)
	wc.ExtendBaseWidget(wc)
	return wc
}

func (wc *WorkspaceCanvas) SetTool(t annotate.Tool) {
	wc.draw.SetTool(t)
	wc.tool = t
	wc.drag = dragIdle
}

func (wc *WorkspaceCanvas) ClearSelection() { wc.selected = "" }

// RemoveSelected deletes the selected widget, if any.
func (wc *WorkspaceCanvas) RemoveSelected() {
	if wc.selected == "" {
		return
	}
	wc.store.RemoveWidget(wc.selected)
	wc.selected = ""
}

// ZoomStep zooms by factor anchored at the widget center.
func (wc *WorkspaceCanvas) ZoomStep(factor float64) {
	sz := wc.Size()
	center := domain.Vec{X: float64(sz.Width) / 2, Y: float64(sz.Height) / 2}
	t := wc.store.View()
	wc.view.ZoomAt(t.Zoom*factor, center)
	wc.Refresh()
}

func (wc *WorkspaceCanvas) toCanvas(pos fyne.Position) domain.Vec {
	return wc.store.View().ToCanvas(domain.Vec{X: float64(pos.X), Y: float64(pos.Y)})
}

// widgetAt returns the topmost widget under the canvas point.
func (wc *WorkspaceCanvas) widgetAt(p domain.Vec) (domain.WidgetInstance, bool) {
	byZ := wc.store.WidgetsByZ()
	for i := len(byZ) - 1; i >= 0; i-- {
		wi := byZ[i]
		r := domain.Rect{X: wi.Position.X, Y: wi.Position.Y, Width: wi.Size.Width, Height: wi.Size.Height}
		if p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height {
			return wi, true
		}
	}
	return domain.WidgetInstance{}, false
}

// Tapped selects a widget, or applies the instant tools (text, eraser).
func (wc *WorkspaceCanvas) Tapped(e *fyne.PointEvent) {
	p := wc.toCanvas(e.Position)
	switch wc.tool {
	case annotate.ToolText:
		if wc.OnPlaceText != nil {
			wc.OnPlaceText(p)
		}
	case annotate.ToolEraser:
		wc.draw.PointerDown(p)
		wc.Refresh()
	case annotate.ToolNone:
		if wi, ok := wc.widgetAt(p); ok {
			wc.selected = wi.ID
		} else {
			wc.selected = ""
		}
		wc.Refresh()
	}
	if wc.OnChange != nil {
		wc.OnChange()
	}
}

// DoubleTapped raises the tapped widget to the front.
func (wc *WorkspaceCanvas) DoubleTapped(e *fyne.PointEvent) {
	if wc.tool != annotate.ToolNone {
		return
	}
	p := wc.toCanvas(e.Position)
	if wi, ok := wc.widgetAt(p); ok {
		wc.store.BringToFront(wi.ID)
		wc.selected = wi.ID
		wc.Refresh()
	}
}

func (wc *WorkspaceCanvas) Dragged(e *fyne.DragEvent) {
	dev := domain.Vec{X: float64(e.Position.X), Y: float64(e.Position.Y)}
	p := wc.toCanvas(e.Position)

	switch wc.tool {
	case annotate.ToolPencil, annotate.ToolArrow, annotate.ToolHighlight:
		if wc.drag != dragDraw {
			wc.drag = dragDraw
			start := wc.toCanvas(fyne.NewPos(e.Position.X-e.Dragged.DX, e.Position.Y-e.Dragged.DY))
			wc.draw.PointerDown(start)
		}
		wc.draw.PointerMove(p)
		wc.lastPoint = p
	case annotate.ToolNone:
		if wc.drag == dragIdle {
			startDev := fyne.NewPos(e.Position.X-e.Dragged.DX, e.Position.Y-e.Dragged.DY)
			start := wc.toCanvas(startDev)
			if wi, ok := wc.widgetAt(start); ok {
				wc.drag = dragMove
				wc.dragWidget = wi.ID
				wc.widgetStart = wi.Position
				wc.pointStart = start
				wc.selected = wi.ID
			} else {
				wc.drag = dragPan
				wc.view.StartPan(domain.Vec{X: float64(startDev.X), Y: float64(startDev.Y)})
			}
		}
		switch wc.drag {
		case dragMove:
			pos := domain.Vec{
				X: wc.widgetStart.X + (p.X - wc.pointStart.X),
				Y: wc.widgetStart.Y + (p.Y - wc.pointStart.Y),
			}
			wc.store.UpdateWidget(wc.dragWidget, domain.WidgetPatch{Position: &pos})
		case dragPan:
			wc.view.MovePan(dev)
		}
	default:
		return
	}
	wc.Refresh()
}

func (wc *WorkspaceCanvas) DragEnd() {
	switch wc.drag {
	case dragDraw:
		wc.draw.PointerUp(wc.lastPoint)
	case dragPan:
		wc.view.EndPan()
	}
	wc.drag = dragIdle
	wc.Refresh()
	if wc.OnChange != nil {
		wc.OnChange()
	}
}

// Scrolled pans the canvas. Zoom goes through the View menu and ZoomStep.
func (wc *WorkspaceCanvas) Scrolled(e *fyne.ScrollEvent) {
	dev := domain.Vec{X: float64(e.Position.X), Y: float64(e.Position.Y)}
	wc.view.Wheel(float64(e.Scrolled.DX), float64(e.Scrolled.DY), false, dev)
	wc.Refresh()
	if wc.OnChange != nil {
		wc.OnChange()
	}
}

func (wc *WorkspaceCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 24, G: 26, B: 32, A: 255})
	r := &workspaceRenderer{wc: wc, bg: bg}
	r.rebuild()
	return r
}

func (wc *WorkspaceCanvas) MinSize() fyne.Size { return fyne.NewSize(800, 600) }

// --- renderer ---

var categoryFill = map[domain.Category]color.RGBA{
	domain.CategoryChart:     {R: 46, G: 64, B: 92, A: 255},
	domain.CategoryDiscovery: {R: 48, G: 80, B: 60, A: 255},
	domain.CategoryAnalysis:  {R: 84, G: 62, B: 44, A: 255},
	domain.CategoryExecution: {R: 92, G: 48, B: 56, A: 255},
	domain.CategoryFeed:      {R: 62, G: 52, B: 86, A: 255},
	domain.CategoryUtility:   {R: 56, G: 56, B: 60, A: 255},
}

var selectionStroke = color.RGBA{R: 0, G: 170, B: 255, A: 255}

type workspaceRenderer struct {
	wc      *WorkspaceCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *workspaceRenderer) Destroy()                     {}
func (r *workspaceRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *workspaceRenderer) MinSize() fyne.Size           { return r.wc.MinSize() }

func (r *workspaceRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.rebuild()
}

func (r *workspaceRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.wc)
}

// rebuild regenerates the object list from the store. Objects are positioned
// directly in device coordinates.
func (r *workspaceRenderer) rebuild() {
	t := r.wc.store.View()
	objs := []fyne.CanvasObject{r.bg}

	for _, wi := range r.wc.store.WidgetsByZ() {
		dev := t.ToDevice(wi.Position)
		w := float32(wi.Size.Width * t.Zoom)
		h := float32(wi.Size.Height * t.Zoom)

		fill := categoryFill[domain.CategoryUtility]
		title := string(wi.Type)
		if def, ok := registry.Get(wi.Type); ok {
			title = def.Title
			if c, ok := categoryFill[def.Category]; ok {
				fill = c
			}
		}

		rect := canvas.NewRectangle(fill)
		rect.StrokeColor = color.RGBA{R: 120, G: 126, B: 140, A: 255}
		rect.StrokeWidth = 1
		if wi.ID == r.wc.selected {
			rect.StrokeColor = selectionStroke
			rect.StrokeWidth = 2
		}
		rect.Move(fyne.NewPos(float32(dev.X), float32(dev.Y)))
		rect.Resize(fyne.NewSize(w, h))
		objs = append(objs, rect)

		label := canvas.NewText(title, color.White)
		label.TextSize = 12
		label.Move(fyne.NewPos(float32(dev.X)+6, float32(dev.Y)+4))
		objs = append(objs, label)
	}

	for _, a := range r.wc.store.Annotations() {
		objs = append(objs, annotationObjects(a, t)...)
	}
	if prev, ok := r.wc.draw.Preview(); ok {
		objs = append(objs, annotationObjects(prev, t)...)
	}

	r.objects = objs
}

func annotationObjects(a domain.Annotation, t vector.Transform) []fyne.CanvasObject {
	col := parseAnnotationColor(a.Color)
	sw := float32(a.StrokeWidth)
	if sw <= 0 {
		sw = 2
	}
	var objs []fyne.CanvasObject

	line := func(x0, y0, x1, y1 float64) {
		l := canvas.NewLine(col)
		l.StrokeWidth = sw
		p0 := t.ToDevice(domain.Vec{X: x0, Y: y0})
		p1 := t.ToDevice(domain.Vec{X: x1, Y: y1})
		l.Position1 = fyne.NewPos(float32(p0.X), float32(p0.Y))
		l.Position2 = fyne.NewPos(float32(p1.X), float32(p1.Y))
		objs = append(objs, l)
	}

	switch a.Type {
	case domain.AnnotationPencil:
		for i := 0; i+3 < len(a.Points); i += 2 {
			line(a.Points[i], a.Points[i+1], a.Points[i+2], a.Points[i+3])
		}
	case domain.AnnotationArrow:
		if len(a.Points) == 4 {
			x0, y0, x1, y1 := a.Points[0], a.Points[1], a.Points[2], a.Points[3]
			line(x0, y0, x1, y1)
			for _, barb := range arrowBarbs(x0, y0, x1, y1) {
				line(x1, y1, barb.X, barb.Y)
			}
		}
	case domain.AnnotationHighlight:
		if a.Rect != nil {
			fill := col
			fill.A = 70
			rect := canvas.NewRectangle(fill)
			dev := t.ToDevice(domain.Vec{X: a.Rect.X, Y: a.Rect.Y})
			rect.Move(fyne.NewPos(float32(dev.X), float32(dev.Y)))
			rect.Resize(fyne.NewSize(float32(a.Rect.Width*t.Zoom), float32(a.Rect.Height*t.Zoom)))
			objs = append(objs, rect)
		}
	case domain.AnnotationText:
		if a.Position != nil {
			txt := canvas.NewText(a.Text, col)
			txt.TextSize = 14
			dev := t.ToDevice(*a.Position)
			txt.Move(fyne.NewPos(float32(dev.X), float32(dev.Y)))
			objs = append(objs, txt)
		}
	}
	return objs
}

// arrowBarbs returns the two barb endpoints of an arrow head at (x1,y1),
// in canvas coordinates.
func arrowBarbs(x0, y0, x1, y1 float64) []domain.Vec {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}
	const barb = 12.0
	angle := math.Atan2(dy, dx)
	return []domain.Vec{
		{X: x1 - barb*math.Cos(angle-math.Pi/6), Y: y1 - barb*math.Sin(angle-math.Pi/6)},
		{X: x1 - barb*math.Cos(angle+math.Pi/6), Y: y1 - barb*math.Sin(angle+math.Pi/6)},
	}
}

// parseAnnotationColor parses #rrggbb; anything else falls back to red.
func parseAnnotationColor(s string) color.RGBA {
	if len(s) == 7 && s[0] == '#' {
		if v, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
		}
	}
	return color.RGBA{R: 255, A: 255}
}
