/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render rasterizes a canvas into an image. The same compositor
// backs both the on-screen preview and the capture pipeline, so what is
// exported is what was shown. Selection handles and other controls are a UI
// concern and are never drawn here.
package render

import (
	"image"
	"image/color"
	"log/slog"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"invitestudio/internal/canvas"
	"invitestudio/internal/gesture"
	applog "invitestudio/internal/log"
	"invitestudio/internal/vector"
)

// ImageSource resolves an image URL to decoded pixels. A nil source, or a
// nil result, renders a placeholder so composition never blocks on the
// network.
type ImageSource func(url string) image.Image

// Options controls one composition pass.
type Options struct {
	Width, Height int
	// Scale converts canvas units to output pixels; 1 when zero.
	Scale  float32
	Images ImageSource
}

// Renderer composites canvases. It is safe to reuse across frames; the font
// library caches parsed fonts.
type Renderer struct {
	fonts *FontLibrary
	log   *slog.Logger
}

func NewRenderer() *Renderer {
	return &Renderer{fonts: NewFontLibrary(), log: applog.WithComponent("render")}
}

// Compose draws the background and every element in document order. Elements
// with a live transform in the live map are drawn at their transformed pose;
// all others at their committed pose.
func (r *Renderer) Compose(c canvas.Canvas, live map[string]gesture.Transform, opts Options) *image.NRGBA {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	dst := imaging.New(opts.Width, opts.Height, backgroundColor(c))
	if c.BackgroundImage != "" && opts.Images != nil {
		if src := opts.Images(c.BackgroundImage); src != nil {
			cover := imaging.Fill(src, opts.Width, opts.Height, imaging.Center, imaging.Lanczos)
			dst = imaging.Paste(dst, cover, image.Point{})
		}
	}
	for i := range c.Elements {
		el := &c.Elements[i]
		sprite := r.sprite(el, scale, opts.Images)
		if sprite == nil {
			continue
		}
		m := vector.Identity
		if t, ok := live[el.ID]; ok {
			m = t.Matrix(el.Position)
		}
		drawSprite(dst, sprite, el.Box(), m, scale, el.Opacity)
	}
	return dst
}

func backgroundColor(c canvas.Canvas) color.NRGBA {
	if col, ok := vector.ParseHex(c.BackgroundColor); ok {
		return color.NRGBA{R: col.R, G: col.G, B: col.B, A: col.A}
	}
	return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}

func elementColor(el *canvas.Element) color.NRGBA {
	if col, ok := vector.ParseHex(el.Color); ok {
		return color.NRGBA{R: col.R, G: col.G, B: col.B, A: col.A}
	}
	return color.NRGBA{A: 0xff}
}

// sprite renders the element at its committed size into its own layer, in
// sprite-local pixels. Transform and opacity are applied at composite time.
func (r *Renderer) sprite(el *canvas.Element, scale float32, images ImageSource) *image.NRGBA {
	w := int(math.Round(float64(el.Size.W * scale)))
	h := int(math.Round(float64(el.Size.H * scale)))
	if w <= 0 || h <= 0 {
		return nil
	}
	layer := image.NewNRGBA(image.Rect(0, 0, w, h))
	switch el.Kind {
	case canvas.KindText:
		r.drawText(layer, el, scale)
	case canvas.KindShape:
		drawShape(layer, el, scale)
	case canvas.KindImage:
		drawImage(layer, el, images)
	case canvas.KindIcon:
		drawIcon(layer, el)
	}
	return layer
}

func (r *Renderer) drawText(layer *image.NRGBA, el *canvas.Element, scale float32) {
	face, err := r.fonts.Face(el.Text.FontFamily, el.Text.FontWeight, el.Text.FontSize*scale)
	if err != nil {
		r.log.Warn("font resolve failed", slog.String("family", el.Text.FontFamily), slog.Any("err", err))
		return
	}
	defer face.Close()
	col := elementColor(el)
	lines := strings.Split(el.Text.Content, "\n")
	met := face.Metrics()
	lineH := met.Height.Round()
	totalH := lineH * len(lines)
	b := layer.Bounds()
	y := (b.Dy()-totalH)/2 + met.Ascent.Round()
	for _, line := range lines {
		d := &font.Drawer{Dst: layer, Src: image.NewUniform(col), Face: face}
		x := (float32(b.Dx()) - advance(d, line)) / 2
		if el.Text.Effect.Shadow {
			sh := &font.Drawer{Dst: layer, Src: image.NewUniform(color.NRGBA{A: 0x66}), Face: face}
			off := met.Height.Round() / 10
			if off < 1 {
				off = 1
			}
			sh.Dot = fixed.P(int(x)+off, y+off)
			sh.DrawString(line)
		}
		if el.Text.Effect.Outline {
			ol := &font.Drawer{Dst: layer, Src: image.NewUniform(color.NRGBA{A: 0xff}), Face: face}
			for _, d2 := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				ol.Dot = fixed.P(int(x)+d2[0], y+d2[1])
				ol.DrawString(line)
			}
		}
		d.Dot = fixed.P(int(x), y)
		d.DrawString(line)
		y += lineH
	}
}

func drawShape(layer *image.NRGBA, el *canvas.Element, scale float32) {
	b := layer.Bounds()
	r := vector.R(0, 0, float32(b.Dx()), float32(b.Dy()))
	col := elementColor(el)
	sw := el.Shape.StrokeWidth * scale
	if el.Shape.Style == canvas.StyleStroke {
		if sw < 1 {
			sw = 1
		}
		r = r.Inset(sw/2+1, sw/2+1)
	} else {
		r = r.Inset(1, 1)
	}
	pts := shapePath(el.Shape.Shape, r)
	if el.Shape.Effect.Shadow {
		off := float32(b.Dy()) * 0.03
		if off < 2 {
			off = 2
		}
		shadow := make([]vector.Pt, len(pts))
		for i, p := range pts {
			shadow[i] = vector.Pt{X: p.X + off, Y: p.Y + off}
		}
		fillPolygon(layer, shadow, color.NRGBA{A: 0x55})
	}
	if el.Shape.Style == canvas.StyleStroke {
		strokePolygon(layer, pts, sw, col)
	} else {
		fillPolygon(layer, pts, col)
	}
}

func drawImage(layer *image.NRGBA, el *canvas.Element, images ImageSource) {
	b := layer.Bounds()
	var src image.Image
	if images != nil {
		src = images(el.Image.URL)
	}
	if src == nil {
		drawPlaceholder(layer)
		return
	}
	var fitted *image.NRGBA
	switch el.Image.Fit {
	case canvas.FitContain:
		fitted = imaging.Fit(src, b.Dx(), b.Dy(), imaging.Lanczos)
	case canvas.FitFill:
		fitted = imaging.Resize(src, b.Dx(), b.Dy(), imaging.Lanczos)
	default: // FitCover
		fitted = imaging.Fill(src, b.Dx(), b.Dy(), imaging.Center, imaging.Lanczos)
	}
	if el.Image.Blur > 0 {
		fitted = imaging.Blur(fitted, float64(el.Image.Blur))
	}
	if el.Image.Grayscale {
		fitted = imaging.Grayscale(fitted)
	}
	pos := image.Pt((b.Dx()-fitted.Bounds().Dx())/2, (b.Dy()-fitted.Bounds().Dy())/2)
	res := imaging.Paste(imaging.New(b.Dx(), b.Dy(), color.NRGBA{}), fitted, pos)
	copy(layer.Pix, res.Pix)
}

// drawPlaceholder marks a not-yet-loaded image with a light box and border.
func drawPlaceholder(layer *image.NRGBA) {
	b := layer.Bounds()
	r := vector.R(0, 0, float32(b.Dx()), float32(b.Dy()))
	pts := shapePath(canvas.ShapeSquare, r.Inset(1, 1))
	fillPolygon(layer, pts, color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff})
	strokePolygon(layer, pts, 2, color.NRGBA{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff})
}

// iconShape maps built-in icon thumbnails to shape outlines.
func iconShape(thumbnail string) canvas.ShapeKind {
	switch thumbnail {
	case "heart":
		return canvas.ShapeHeart
	case "diamond":
		return canvas.ShapeDiamond
	case "hexagon":
		return canvas.ShapeHexagon
	case "pentagon":
		return canvas.ShapePentagon
	}
	return canvas.ShapeStar
}

func drawIcon(layer *image.NRGBA, el *canvas.Element) {
	b := layer.Bounds()
	r := vector.R(0, 0, float32(b.Dx()), float32(b.Dy()))
	// Contain margin so rotated icons keep their tips inside the box.
	r = r.Inset(float32(b.Dx())*0.05, float32(b.Dy())*0.05)
	fillPolygon(layer, shapePath(iconShape(el.Icon.Thumbnail), r), elementColor(el))
}

// drawSprite composites the sprite over dst under the element's pose. The
// mapping is inverted per destination pixel with nearest sampling; m is the
// live transform in canvas coordinates (identity for committed elements).
func drawSprite(dst *image.NRGBA, sprite *image.NRGBA, box vector.Rect, m vector.Affine2D, scale, opacity float32) {
	if opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	inv := m.Invert()
	// Destination bounds from the transformed box corners.
	corners := []vector.Pt{
		{X: box.X, Y: box.Y},
		{X: box.X + box.W, Y: box.Y},
		{X: box.X + box.W, Y: box.Y + box.H},
		{X: box.X, Y: box.Y + box.H},
	}
	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, p := range corners {
		q := m.Apply(p)
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
	db := dst.Bounds()
	x0 := int(math.Floor(float64(minX * scale)))
	y0 := int(math.Floor(float64(minY * scale)))
	x1 := int(math.Ceil(float64(maxX * scale)))
	y1 := int(math.Ceil(float64(maxY * scale)))
	if x0 < db.Min.X {
		x0 = db.Min.X
	}
	if y0 < db.Min.Y {
		y0 = db.Min.Y
	}
	if x1 > db.Max.X {
		x1 = db.Max.X
	}
	if y1 > db.Max.Y {
		y1 = db.Max.Y
	}
	sb := sprite.Bounds()
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			// Destination pixel center back to canvas coords, then to the
			// element's committed frame.
			p := inv.Apply(vector.Pt{
				X: (float32(x) + 0.5) / scale,
				Y: (float32(y) + 0.5) / scale,
			})
			sx := int((p.X - box.X) * scale)
			sy := int((p.Y - box.Y) * scale)
			if sx < sb.Min.X || sx >= sb.Max.X || sy < sb.Min.Y || sy >= sb.Max.Y {
				continue
			}
			c := sprite.NRGBAAt(sx, sy)
			if c.A == 0 {
				continue
			}
			c.A = uint8(float32(c.A) * opacity)
			blendNRGBA(dst, x, y, c)
		}
	}
}
