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
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"invitestudio/internal/assets"
	"invitestudio/internal/backend"
	"invitestudio/internal/canvas"
	"invitestudio/internal/config"
	"invitestudio/internal/crash"
	"invitestudio/internal/gesture"
	applog "invitestudio/internal/log"
	"invitestudio/internal/publish"
	"invitestudio/internal/render"
	"invitestudio/internal/studio"
	"invitestudio/internal/telemetry"
	"invitestudio/internal/vector"
)

// Design surface in canvas units. Portrait, matching the published card
// aspect ratio.
const (
	designWidth  = float32(360)
	designHeight = float32(640)
)

// Run starts the desktop editor.
func Run() error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting studio")

	cfg, token, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
	}
	if cfg.General.TelemetryOptIn {
		tcfg := telemetry.FromEnv()
		tcfg.OptIn = true
		telemetry.NewDefault(tcfg)
	}

	store := canvas.NewStore()
	home, _ := os.UserHomeDir()
	defer func() { crash.Recover(home, store) }()

	session := studio.NewSession(store)
	engine := gesture.NewEngine(store)
	renderer := render.NewRenderer()

	var loader *assets.Loader
	if cache, cerr := assets.OpenCache(home); cerr != nil {
		l.Warn("asset cache unavailable, fetching without cache", slog.Any("err", cerr))
		loader = assets.NewLoader(nil)
	} else {
		defer func() { _ = cache.Close() }()
		loader = assets.NewLoader(cache)
	}

	client := backend.NewClient(cfg.Backend.BaseURL, token, cfg.Backend.EffectiveTimeout())
	photos := assets.NewPhotoClient(cfg.Backend.PhotoSearchURL, os.Getenv("IVS_PHOTO_API_KEY"))
	pipeline := publish.NewPipeline(session, engine, renderer, client, loader.Image)

	fyneApp := app.NewWithID("invitestudio")
	w := fyneApp.NewWindow("Invite Studio")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 480)
	winH := prefs.IntWithFallback("window.height", 820)
	if winW < 400 {
		winW = 400
	}
	if winH < 700 {
		winH = 700
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	sc := NewStudioCanvas(session, engine, renderer, loader.Image, designWidth, designHeight)
	loader.OnLoad = func(string) { fyne.Do(sc.Refresh) }
	pipeline.AfterHide = func() { sc.Refresh() }
	store.Subscribe(func(canvas.Canvas) { sc.Refresh() })

	status := widget.NewLabel("Ready")

	center := vector.Pt{X: designWidth / 2, Y: designHeight / 2}
	addElement := func(kind canvas.Kind, init canvas.Init) {
		id, err := store.Add(kind, init.At(center))
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		session.TapElement(id)
		telemetry.Event("element_added", map[string]any{"kind": kind.String()})
		sc.Refresh()
	}

	addTextBtn := widget.NewButton("Text", func() {
		entry := widget.NewEntry()
		entry.SetPlaceHolder("Your text")
		form := dialog.NewForm("Add Text", "Add", "Cancel", []*widget.FormItem{
			widget.NewFormItem("Text", entry),
		}, func(ok bool) {
			if !ok || entry.Text == "" {
				return
			}
			addElement(canvas.KindText, canvas.Init{Text: canvas.TextAttrs{Content: entry.Text, FontSize: 32}})
		}, w)
		form.Resize(fyne.NewSize(320, 160))
		form.Show()
	})

	addShapeBtn := widget.NewButton("Shape", func() {
		var d dialog.Dialog
		grid := container.NewGridWithColumns(3)
		for _, k := range studio.ShapeCatalog {
			kind := k
			grid.Add(widget.NewButton(string(kind), func() {
				addElement(canvas.KindShape, canvas.Init{
					Shape: canvas.ShapeAttrs{Shape: kind},
					Color: "#2196f3",
				})
				d.Hide()
			}))
		}
		d = dialog.NewCustom("Add Shape", "Cancel", grid, w)
		d.Show()
	})

	addIconBtn := widget.NewButton("Icon", func() {
		var d dialog.Dialog
		grid := container.NewGridWithColumns(3)
		for _, name := range studio.IconCatalog {
			thumb := name
			grid.Add(widget.NewButton(thumb, func() {
				addElement(canvas.KindIcon, canvas.Init{
					Icon:  canvas.IconAttrs{Thumbnail: thumb},
					Color: "#ffc107",
				})
				d.Hide()
			}))
		}
		d = dialog.NewCustom("Add Icon", "Cancel", grid, w)
		d.Show()
	})

	addPhotoBtn := widget.NewButton("Photo", func() {
		showPhotoSearch(w, photos, loader, addElement, store, sc)
	})

	backgroundBtn := widget.NewButton("Background", func() {
		var d dialog.Dialog
		grid := container.NewGridWithColumns(5)
		for _, hex := range studio.ColorPalette {
			c := hex
			grid.Add(widget.NewButton(c, func() {
				store.SetBackgroundColor(c)
				d.Hide()
			}))
		}
		d = dialog.NewCustom("Background Color", "Cancel", grid, w)
		d.Show()
	})

	editBtn := widget.NewButton("Edit Text", func() {
		ed, err := session.OpenContentEditor()
		if err != nil {
			status.SetText("Select a text element first")
			return
		}
		entry := widget.NewMultiLineEntry()
		entry.SetText(ed.Draft())
		form := dialog.NewForm("Edit Text", "Done", "Cancel", []*widget.FormItem{
			widget.NewFormItem("Text", entry),
		}, func(ok bool) {
			if !ok {
				ed.Cancel()
				return
			}
			ed.SetDraft(entry.Text)
			ed.Commit()
			sc.Refresh()
		}, w)
		form.Resize(fyne.NewSize(340, 220))
		form.Show()
	})

	styleBtn := widget.NewButton("More Options", func() {
		kind, err := session.OpenMoreOptions()
		if err != nil {
			status.SetText("Select an element first")
			return
		}
		switch kind {
		case studio.EditorTextStyle:
			showTextStyle(w, session, sc)
		case studio.EditorShapeStyle:
			showShapeStyle(w, session, sc)
		case studio.EditorImageFilters:
			showImageFilters(w, session, sc)
		}
	})

	deleteBtn := widget.NewButton("Delete", func() {
		sc.RemoveSelected()
	})

	publishBtn := widget.NewButton("Publish", func() {
		showPublish(w, pipeline, sc, status)
	})

	sc.OnChange = func() {
		if id := session.SelectedID(); id != "" {
			status.SetText("Selected: " + id[:8])
		} else {
			status.SetText("Ready")
		}
	}

	toolbar := container.NewHBox(
		addTextBtn, addShapeBtn, addIconBtn, addPhotoBtn, backgroundBtn,
		widget.NewSeparator(),
		editBtn, styleBtn, deleteBtn,
		widget.NewSeparator(),
		publishBtn,
	)

	w.SetContent(container.NewBorder(container.NewHScroll(toolbar), status, nil, nil, sc))

	// Persist preferences on close
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	telemetry.Event("studio_opened", nil)
	w.ShowAndRun()
	return nil
}

// showTextStyle presents the staged text style panel. Nothing is written to
// the canvas until Done.
func showTextStyle(w fyne.Window, session *studio.Session, sc *StudioCanvas) {
	ed, err := session.TextStyle()
	if err != nil {
		dialog.ShowError(err, w)
		return
	}
	colorSel := widget.NewSelect(studio.ColorPalette, nil)
	colorSel.SetSelected(ed.Color)
	familySel := widget.NewSelect(studio.FontFamilies, nil)
	familySel.SetSelected(ed.FontFamily)
	weightSel := widget.NewSelect([]string{"regular", "bold"}, nil)
	if ed.FontWeight >= 700 {
		weightSel.SetSelected("bold")
	} else {
		weightSel.SetSelected("regular")
	}
	size := widget.NewSlider(8, 120)
	size.SetValue(float64(ed.FontSize))
	shadow := widget.NewCheck("Shadow", nil)
	shadow.SetChecked(ed.Effect.Shadow)
	outline := widget.NewCheck("Outline", nil)
	outline.SetChecked(ed.Effect.Outline)

	form := dialog.NewForm("Text Style", "Done", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Color", colorSel),
		widget.NewFormItem("Font", familySel),
		widget.NewFormItem("Weight", weightSel),
		widget.NewFormItem("Size", size),
		widget.NewFormItem("", shadow),
		widget.NewFormItem("", outline),
	}, func(ok bool) {
		if !ok {
			ed.Cancel()
			return
		}
		if colorSel.Selected != "" {
			ed.Color = colorSel.Selected
		}
		if familySel.Selected != "" {
			ed.FontFamily = familySel.Selected
		}
		ed.FontWeight = studio.FontWeights[weightSel.Selected]
		ed.FontSize = float32(size.Value)
		ed.Effect = canvas.TextEffect{Shadow: shadow.Checked, Outline: outline.Checked}
		ed.Done()
		sc.Refresh()
	}, w)
	form.Resize(fyne.NewSize(360, 320))
	form.Show()
}

// showShapeStyle presents the live shape style panel. Every change lands on
// the canvas immediately; closing just dismisses the panel.
func showShapeStyle(w fyne.Window, session *studio.Session, sc *StudioCanvas) {
	ed, err := session.ShapeStyle()
	if err != nil {
		dialog.ShowError(err, w)
		return
	}
	colorSel := widget.NewSelect(studio.ColorPalette, func(hex string) {
		ed.SetColor(hex)
		sc.Refresh()
	})
	var shapeNames []string
	for _, k := range studio.ShapeCatalog {
		shapeNames = append(shapeNames, string(k))
	}
	shapeSel := widget.NewSelect(shapeNames, func(name string) {
		ed.SetShape(canvas.ShapeKind(name))
		sc.Refresh()
	})
	styleSel := widget.NewSelect([]string{"fill", "stroke"}, func(name string) {
		ed.SetStyle(canvas.ShapeStyle(name))
		sc.Refresh()
	})
	opacity := widget.NewSlider(0, 1)
	opacity.Step = 0.05
	opacity.SetValue(1)
	opacity.OnChanged = func(v float64) {
		ed.SetOpacity(float32(v))
		sc.Refresh()
	}
	shadow := widget.NewCheck("Shadow", func(on bool) {
		ed.SetShadow(on)
		sc.Refresh()
	})

	content := widget.NewForm(
		widget.NewFormItem("Color", colorSel),
		widget.NewFormItem("Shape", shapeSel),
		widget.NewFormItem("Style", styleSel),
		widget.NewFormItem("Opacity", opacity),
		widget.NewFormItem("", shadow),
	)
	d := dialog.NewCustom("Shape Style", "Done", content, w)
	d.SetOnClosed(func() {
		ed.Close()
		sc.Refresh()
	})
	d.Resize(fyne.NewSize(360, 300))
	d.Show()
}

// showImageFilters presents the live image filter panel.
func showImageFilters(w fyne.Window, session *studio.Session, sc *StudioCanvas) {
	ed, err := session.ImageFilters()
	if err != nil {
		dialog.ShowError(err, w)
		return
	}
	blur := widget.NewSlider(0, 20)
	blur.Step = 0.5
	blur.OnChanged = func(v float64) {
		ed.SetBlur(float32(v))
		sc.Refresh()
	}
	gray := widget.NewCheck("Grayscale", func(on bool) {
		ed.SetGrayscale(on)
		sc.Refresh()
	})
	fitSel := widget.NewSelect([]string{"cover", "contain", "fill"}, func(name string) {
		ed.SetFit(canvas.ImageFit(name))
		sc.Refresh()
	})
	opacity := widget.NewSlider(0, 1)
	opacity.Step = 0.05
	opacity.SetValue(1)
	opacity.OnChanged = func(v float64) {
		ed.SetOpacity(float32(v))
		sc.Refresh()
	}

	content := widget.NewForm(
		widget.NewFormItem("Blur", blur),
		widget.NewFormItem("", gray),
		widget.NewFormItem("Fit", fitSel),
		widget.NewFormItem("Opacity", opacity),
	)
	d := dialog.NewCustom("Image Filters", "Done", content, w)
	d.SetOnClosed(func() {
		ed.Close()
		sc.Refresh()
	})
	d.Resize(fyne.NewSize(360, 280))
	d.Show()
}

// showPhotoSearch runs a stock photo query and lets the user insert a result
// as an element or set it as the canvas background.
func showPhotoSearch(w fyne.Window, photos *assets.PhotoClient, loader *assets.Loader,
	addElement func(canvas.Kind, canvas.Init), store *canvas.Store, sc *StudioCanvas) {
	if photos.BaseURL == "" {
		dialog.ShowInformation("Photo Search", "No photo search endpoint configured.", w)
		return
	}
	query := widget.NewEntry()
	query.SetPlaceHolder("Search photos")
	asBackground := widget.NewCheck("Use as background", nil)
	results := container.NewVBox()
	var d dialog.Dialog

	fill := func(page assets.PhotoPage, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		results.RemoveAll()
		for _, p := range page.Photos {
			photo := p
			label := photo.Alt
			if label == "" {
				label = "photo " + strconv.FormatInt(photo.ID, 10)
			}
			results.Add(widget.NewButton(label, func() {
				if asBackground.Checked {
					store.SetBackgroundImage(photo.Medium)
					loader.Image(photo.Medium)
					sc.Refresh()
				} else {
					var natural vector.Size
					if nw, nh, ok := loader.NaturalSize(photo.Medium); ok {
						natural = vector.Size{W: float32(nw), H: float32(nh)}
					}
					addElement(canvas.KindImage, canvas.Init{
						Image:        canvas.ImageAttrs{URL: photo.Medium},
						ImageNatural: natural,
					})
				}
				d.Hide()
			}))
		}
		if len(page.Photos) == 0 {
			results.Add(widget.NewLabel("No results"))
		}
	}
	run := func(fetch func(context.Context) (assets.PhotoPage, error)) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			page, err := fetch(ctx)
			fyne.Do(func() { fill(page, err) })
		}()
	}
	runSearch := func() {
		run(func(ctx context.Context) (assets.PhotoPage, error) {
			page, err := photos.Search(ctx, query.Text, 1, 12)
			telemetry.Event("photo_search", map[string]any{"results": len(page.Photos)})
			return page, err
		})
	}
	query.OnSubmitted = func(string) { runSearch() }
	searchBtn := widget.NewButton("Search", runSearch)

	// Seed the gallery with curated picks before the first query.
	run(func(ctx context.Context) (assets.PhotoPage, error) {
		return photos.Curated(ctx, 1, 12)
	})

	content := container.NewBorder(
		container.NewVBox(container.NewBorder(nil, nil, nil, searchBtn, query), asBackground),
		nil, nil, nil,
		container.NewVScroll(results),
	)
	d = dialog.NewCustom("Photo Search", "Close", content, w)
	d.Resize(fyne.NewSize(380, 420))
	d.Show()
}

// showPublish captures a snapshot (with selection controls hidden), shows the
// preview, and uploads on confirm.
func showPublish(w fyne.Window, pipeline *publish.Pipeline, sc *StudioCanvas, status *widget.Label) {
	if _, err := pipeline.Capture(publish.CaptureOptions{
		Width:        int(designWidth * 2),
		Height:       int(designHeight * 2),
		Scale:        2,
		PreviewWidth: 320,
	}); err != nil {
		dialog.ShowError(err, w)
		return
	}
	sc.Refresh()

	img := fynecanvas.NewImageFromImage(pipeline.Preview())
	img.FillMode = fynecanvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(320, 320*designHeight/designWidth))

	title := widget.NewEntry()
	title.SetPlaceHolder("Design title")
	category := widget.NewEntry()
	category.SetText("1")

	content := container.NewBorder(nil, widget.NewForm(
		widget.NewFormItem("Title", title),
		widget.NewFormItem("Category", category),
	), nil, nil, img)

	dialog.ShowCustomConfirm("Publish Design", "Publish", "Cancel", content, func(ok bool) {
		if !ok {
			pipeline.Reset()
			sc.Refresh()
			return
		}
		catID, cerr := strconv.ParseInt(category.Text, 10, 64)
		if cerr != nil {
			catID = 1
		}
		status.SetText("Publishing...")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			res, perr := pipeline.Publish(ctx, catID, title.Text)
			fyne.Do(func() {
				if perr != nil {
					status.SetText("Publish failed")
					dialog.ShowError(perr, w)
					return
				}
				telemetry.Event("design_published", map[string]any{"design_id": res.DesignID})
				status.SetText(fmt.Sprintf("Published design %d", res.DesignID))
				dialog.ShowInformation("Published", fmt.Sprintf("Design stored with id %d.", res.DesignID), w)
				sc.Refresh()
			})
		}()
	}, w)
}
