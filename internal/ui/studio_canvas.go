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
	"image/color"
	"math"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"invitestudio/internal/canvas"
	"invitestudio/internal/gesture"
	"invitestudio/internal/render"
	"invitestudio/internal/studio"
	"invitestudio/internal/vector"
)

// dragMode represents the current interaction kind.
// dragNone: idle; dragPan: background pan; dragMove: moving selection;
// dragScale*: corner scaling; dragRotate: rotation handle.
type dragMode int

const (
	dragNone dragMode = iota
	dragPan
	dragMove
	dragScaleNW
	dragScaleNE
	dragScaleSW
	dragScaleSE
	dragRotate
)

// StudioCanvas shows the composed design and routes pointer input into the
// selection session and the gesture engine. Desktop mapping of touch
// gestures: dragging the body moves, corner handles scale, the top handle
// rotates, the wheel zooms the viewport.
type StudioCanvas struct {
	widget.BaseWidget

	session  *studio.Session
	engine   *gesture.Engine
	renderer *render.Renderer
	images   render.ImageSource
	taps     gesture.TapFilter

	// Design size in canvas units; the viewport centers and zooms it.
	designW, designH float32
	zoom             float32
	offsetX, offsetY float32

	// live holds in-flight gesture transforms, keyed by element id.
	live map[string]gesture.Transform

	// guides are alignment hints shown while moving an element.
	guides []vector.GuideLine

	dragMode dragMode
	dragID   string

	// OnChange fires after selection or canvas content changed, so the
	// surrounding chrome can sync its buttons.
	OnChange func()
}

func NewStudioCanvas(session *studio.Session, engine *gesture.Engine, renderer *render.Renderer, images render.ImageSource, designW, designH float32) *StudioCanvas {
	sc := &StudioCanvas{
		session:  session,
		engine:   engine,
		renderer: renderer,
		images:   images,
		designW:  designW,
		designH:  designH,
		zoom:     1,
		live:     make(map[string]gesture.Transform),
	}
	engine.OnLive = func(id string, t gesture.Transform) {
		sc.live[id] = t
		sc.Refresh()
	}
	sc.ExtendBaseWidget(sc)
	return sc
}

func (sc *StudioCanvas) PreferredSize() fyne.Size { return fyne.NewSize(420, 700) }

func (sc *StudioCanvas) originAndScale() (cx, cy, scale float32) {
	size := sc.Size()
	scale = sc.zoom
	cx = size.Width/2 - sc.designW*scale/2 + sc.offsetX
	cy = size.Height/2 - sc.designH*scale/2 + sc.offsetY
	return cx, cy, scale
}

func (sc *StudioCanvas) toScreen(pt vector.Pt) fyne.Position {
	cx, cy, s := sc.originAndScale()
	return fyne.NewPos(cx+pt.X*s, cy+pt.Y*s)
}

func (sc *StudioCanvas) toCanvas(pos fyne.Position) vector.Pt {
	cx, cy, s := sc.originAndScale()
	return vector.Pt{X: (pos.X - cx) / s, Y: (pos.Y - cy) / s}
}

// poseFor returns the element's current visual transform: the in-flight
// gesture when one is active, otherwise the carried baseline.
func (sc *StudioCanvas) poseFor(id string) gesture.Transform {
	if t, ok := sc.live[id]; ok {
		return t
	}
	s, r := sc.engine.Baseline(id)
	return gesture.Transform{Scale: s, Rotate: r}
}

// renderTransforms builds the transform map for one compose pass.
func (sc *StudioCanvas) renderTransforms(c canvas.Canvas) map[string]gesture.Transform {
	out := make(map[string]gesture.Transform, len(c.Elements))
	for i := range c.Elements {
		id := c.Elements[i].ID
		t := sc.poseFor(id)
		if t.TX != 0 || t.TY != 0 || t.Scale != 1 || t.Rotate != 0 {
			out[id] = t
		}
	}
	return out
}

// hitTest returns the top-most element under the canvas point, testing
// against the transformed box.
func (sc *StudioCanvas) hitTest(p vector.Pt) string {
	c := sc.session.Store().Snapshot()
	for i := len(c.Elements) - 1; i >= 0; i-- {
		el := &c.Elements[i]
		inv := sc.poseFor(el.ID).Matrix(el.Position).Invert()
		if el.Box().Contains(inv.Apply(p)) {
			return el.ID
		}
	}
	return ""
}

// screenBox returns the axis-aligned screen bounds of the selected element's
// transformed box.
func (sc *StudioCanvas) screenBox(el *canvas.Element) fRect {
	m := sc.poseFor(el.ID).Matrix(el.Position)
	b := el.Box()
	corners := []vector.Pt{
		{X: b.X, Y: b.Y},
		{X: b.X + b.W, Y: b.Y},
		{X: b.X + b.W, Y: b.Y + b.H},
		{X: b.X, Y: b.Y + b.H},
	}
	first := sc.toScreen(m.Apply(corners[0]))
	minX, minY := first.X, first.Y
	maxX, maxY := first.X, first.Y
	for _, p := range corners[1:] {
		q := sc.toScreen(m.Apply(p))
		if q.X < minX {
			minX = q.X
		}
		if q.Y < minY {
			minY = q.Y
		}
		if q.X > maxX {
			maxX = q.X
		}
		if q.Y > maxY {
			maxY = q.Y
		}
	}
	return fRect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// fRect is a light-weight rectangle for handle geometry.
type fRect struct{ X, Y, Width, Height float32 }

func (r fRect) contains(pos fyne.Position) bool {
	return pos.X >= r.X && pos.X <= r.X+r.Width && pos.Y >= r.Y && pos.Y <= r.Y+r.Height
}

const handleSize = float32(10)

// handleRects returns the selection overlay geometry in screen coordinates.
func (sc *StudioCanvas) handleRects() (bbox fRect, corners [4]fRect, rot fRect, ok bool) {
	id := sc.session.SelectedID()
	if id == "" || sc.session.ControlsHidden() {
		return fRect{}, [4]fRect{}, fRect{}, false
	}
	el, found := sc.session.Store().Snapshot().Find(id)
	if !found {
		return fRect{}, [4]fRect{}, fRect{}, false
	}
	bbox = sc.screenBox(&el)
	h := handleSize
	// Order: NW, NE, SW, SE.
	corners = [4]fRect{
		{X: bbox.X - h/2, Y: bbox.Y - h/2, Width: h, Height: h},
		{X: bbox.X + bbox.Width - h/2, Y: bbox.Y - h/2, Width: h, Height: h},
		{X: bbox.X - h/2, Y: bbox.Y + bbox.Height - h/2, Width: h, Height: h},
		{X: bbox.X + bbox.Width - h/2, Y: bbox.Y + bbox.Height - h/2, Width: h, Height: h},
	}
	rot = fRect{X: bbox.X + bbox.Width/2 - 6, Y: bbox.Y - 28, Width: 12, Height: 12}
	return bbox, corners, rot, true
}

// Tapped selects the element under the pointer or clears the selection.
// Presses are debounced so the release at the end of a drag never selects.
func (sc *StudioCanvas) Tapped(e *fyne.PointEvent) {
	if !sc.taps.Press(time.Now(), 0, 0) {
		return
	}
	if id := sc.hitTest(sc.toCanvas(e.Position)); id != "" {
		sc.session.TapElement(id)
	} else {
		sc.session.TapBackground()
	}
	sc.Refresh()
	if sc.OnChange != nil {
		sc.OnChange()
	}
}

func (sc *StudioCanvas) Dragged(e *fyne.DragEvent) {
	pos := e.Position
	if sc.dragMode == dragNone {
		if _, corners, rot, ok := sc.handleRects(); ok {
			switch {
			case rot.contains(pos):
				sc.dragMode = dragRotate
			case corners[0].contains(pos):
				sc.dragMode = dragScaleNW
			case corners[1].contains(pos):
				sc.dragMode = dragScaleNE
			case corners[2].contains(pos):
				sc.dragMode = dragScaleSW
			case corners[3].contains(pos):
				sc.dragMode = dragScaleSE
			}
		}
		if sc.dragMode == dragNone {
			if id := sc.hitTest(sc.toCanvas(pos)); id != "" && id == sc.session.SelectedID() {
				sc.dragMode = dragMove
			} else {
				sc.dragMode = dragPan
			}
		}
		if sc.dragMode != dragPan {
			sc.dragID = sc.session.SelectedID()
			if sc.dragID != "" {
				sc.engine.Begin(sc.dragID)
			}
		}
	}

	switch sc.dragMode {
	case dragPan:
		sc.offsetX += e.Dragged.DX
		sc.offsetY += e.Dragged.DY
		sc.Refresh()
	case dragMove:
		_, _, s := sc.originAndScale()
		sc.engine.Pan(sc.dragID, e.Dragged.DX/s, e.Dragged.DY/s)
		sc.updateGuides()
	case dragScaleNW, dragScaleNE, dragScaleSW, dragScaleSE:
		sc.pinchFromDrag(e)
	case dragRotate:
		sc.rotateFromDrag(e)
	}
}

// pinchFromDrag converts a corner-handle drag into a scale factor: the ratio
// of the pointer's distance to the element center before and after the step.
func (sc *StudioCanvas) pinchFromDrag(e *fyne.DragEvent) {
	el, ok := sc.session.Store().Snapshot().Find(sc.dragID)
	if !ok {
		return
	}
	center := sc.toScreen(sc.poseFor(el.ID).Matrix(el.Position).Apply(el.Position))
	cur := e.Position
	prev := fyne.NewPos(cur.X-e.Dragged.DX, cur.Y-e.Dragged.DY)
	d0 := float32(math.Hypot(float64(prev.X-center.X), float64(prev.Y-center.Y)))
	d1 := float32(math.Hypot(float64(cur.X-center.X), float64(cur.Y-center.Y)))
	if d0 < 1 || d1 < 1 {
		return
	}
	sc.engine.Pinch(sc.dragID, d1/d0)
}

// rotateFromDrag converts a rotation-handle drag into an angle delta around
// the element center.
func (sc *StudioCanvas) rotateFromDrag(e *fyne.DragEvent) {
	el, ok := sc.session.Store().Snapshot().Find(sc.dragID)
	if !ok {
		return
	}
	center := sc.toScreen(sc.poseFor(el.ID).Matrix(el.Position).Apply(el.Position))
	cur := e.Position
	prev := fyne.NewPos(cur.X-e.Dragged.DX, cur.Y-e.Dragged.DY)
	a0 := math.Atan2(float64(prev.Y-center.Y), float64(prev.X-center.X))
	a1 := math.Atan2(float64(cur.Y-center.Y), float64(cur.X-center.X))
	sc.engine.Rotate(sc.dragID, float32(a1-a0))
}

// updateGuides recomputes alignment hints for the element being moved,
// against the design frame and every other element's committed box.
func (sc *StudioCanvas) updateGuides() {
	sc.guides = nil
	t, ok := sc.live[sc.dragID]
	if !ok {
		return
	}
	c := sc.session.Store().Snapshot()
	el, found := c.Find(sc.dragID)
	if !found {
		return
	}
	moving := el.Box()
	moving.X += t.TX
	moving.Y += t.TY

	anchors := []vector.Anchor{{Rect: vector.R(0, 0, sc.designW, sc.designH), Weight: 2}}
	for i := range c.Elements {
		if c.Elements[i].ID == sc.dragID {
			continue
		}
		anchors = append(anchors, vector.Anchor{Rect: c.Elements[i].Box(), Weight: 1})
	}
	_, sc.guides = vector.ComputeSmartGuides(moving, anchors, vector.SnapOptions{
		Threshold:     6,
		SnapToEdges:   true,
		SnapToCenters: true,
	})
}

func (sc *StudioCanvas) DragEnd() {
	if sc.dragMode != dragPan && sc.dragID != "" {
		sc.engine.End(sc.dragID)
		delete(sc.live, sc.dragID)
	}
	sc.guides = nil
	sc.dragMode = dragNone
	sc.dragID = ""
	sc.Refresh()
	if sc.OnChange != nil {
		sc.OnChange()
	}
}

// Scrolled zooms the viewport. Element transforms are untouched; this is
// purely a view operation.
func (sc *StudioCanvas) Scrolled(e *fyne.ScrollEvent) {
	sc.zoom += e.Scrolled.DY * 0.05
	if sc.zoom < 0.25 {
		sc.zoom = 0.25
	}
	if sc.zoom > 4.0 {
		sc.zoom = 4.0
	}
	sc.Refresh()
}

// RemoveSelected deletes the selection and drops its gesture state.
func (sc *StudioCanvas) RemoveSelected() {
	if id := sc.session.Delete(); id != "" {
		sc.engine.Forget(id)
		delete(sc.live, id)
	}
	sc.Refresh()
	if sc.OnChange != nil {
		sc.OnChange()
	}
}

func (sc *StudioCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := fynecanvas.NewRectangle(color.NRGBA{R: 0x26, G: 0x26, B: 0x2b, A: 0xff})

	img := fynecanvas.NewImageFromImage(nil)
	img.FillMode = fynecanvas.ImageFillStretch
	img.ScaleMode = fynecanvas.ImageScalePixels

	bbox := fynecanvas.NewRectangle(color.NRGBA{})
	bbox.StrokeColor = color.NRGBA{R: 0x00, G: 0xaa, B: 0xff, A: 0xff}
	bbox.StrokeWidth = 1
	bbox.Hide()

	var handles []*fynecanvas.Rectangle
	for i := 0; i < 4; i++ {
		h := fynecanvas.NewRectangle(color.NRGBA{R: 0x00, G: 0xaa, B: 0xff, A: 0xff})
		h.Hide()
		handles = append(handles, h)
	}
	rot := fynecanvas.NewCircle(color.NRGBA{R: 0xff, G: 0xaa, B: 0x00, A: 0xff})
	rot.Hide()

	var guides [2]*fynecanvas.Line
	for i := range guides {
		g := fynecanvas.NewLine(color.NRGBA{R: 0xe9, G: 0x1e, B: 0x63, A: 0xff})
		g.StrokeWidth = 1
		g.Hide()
		guides[i] = g
	}

	objs := []fyne.CanvasObject{bg, img, bbox}
	for _, h := range handles {
		objs = append(objs, h)
	}
	objs = append(objs, rot)
	for _, g := range guides {
		objs = append(objs, g)
	}

	return &studioCanvasRenderer{sc: sc, objects: objs, bg: bg, img: img, bbox: bbox, handles: handles, rot: rot, guides: guides}
}

type studioCanvasRenderer struct {
	sc      *StudioCanvas
	objects []fyne.CanvasObject
	bg      *fynecanvas.Rectangle
	img     *fynecanvas.Image
	bbox    *fynecanvas.Rectangle
	handles []*fynecanvas.Rectangle
	rot     *fynecanvas.Circle
	guides  [2]*fynecanvas.Line
}

func (r *studioCanvasRenderer) Destroy()                     {}
func (r *studioCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *studioCanvasRenderer) MinSize() fyne.Size           { return r.sc.PreferredSize() }
func (r *studioCanvasRenderer) Refresh() {
	r.Layout(r.sc.Size())
	fynecanvas.Refresh(r.sc)
}

func (r *studioCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	cx, cy, s := r.sc.originAndScale()
	w := int(r.sc.designW * s)
	h := int(r.sc.designH * s)
	if w < 1 || h < 1 {
		return
	}
	snap := r.sc.session.Store().Snapshot()
	r.img.Image = r.sc.renderer.Compose(snap, r.sc.renderTransforms(snap), render.Options{
		Width:  w,
		Height: h,
		Scale:  s,
		Images: r.sc.images,
	})
	r.img.Resize(fyne.NewSize(float32(w), float32(h)))
	r.img.Move(fyne.NewPos(cx, cy))
	r.img.Refresh()

	if bbox, corners, rot, ok := r.sc.handleRects(); ok {
		r.bbox.Show()
		r.bbox.Resize(fyne.NewSize(bbox.Width, bbox.Height))
		r.bbox.Move(fyne.NewPos(bbox.X, bbox.Y))
		for i := range r.handles {
			r.handles[i].Show()
			r.handles[i].Resize(fyne.NewSize(corners[i].Width, corners[i].Height))
			r.handles[i].Move(fyne.NewPos(corners[i].X, corners[i].Y))
		}
		r.rot.Show()
		r.rot.Resize(fyne.NewSize(rot.Width, rot.Height))
		r.rot.Move(fyne.NewPos(rot.X, rot.Y))
	} else {
		r.bbox.Hide()
		for _, h := range r.handles {
			h.Hide()
		}
		r.rot.Hide()
	}

	for i, line := range r.guides {
		if i < len(r.sc.guides) {
			g := r.sc.guides[i]
			line.Position1 = r.sc.toScreen(g.From)
			line.Position2 = r.sc.toScreen(g.To)
			line.Show()
			line.Refresh()
		} else {
			line.Hide()
		}
	}
}
