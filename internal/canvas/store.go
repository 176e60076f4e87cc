/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"errors"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"

	applog "invitestudio/internal/log"
	"invitestudio/internal/vector"
)

// Size defaults applied when an Init omits Size.
const (
	defaultShapeSide  = float32(120)
	defaultIconSide   = float32(96)
	defaultFontSize   = float32(28)
	textGlyphFactor   = float32(0.56) // average glyph advance as a fraction of font size
	textPadding       = float32(16)
	// MaxImageDimension bounds both the decoded bitmap and the element box;
	// untyped so pixel (int) and canvas-unit (float32) callers share it.
	MaxImageDimension = 640
)

// ErrPositionRequired is returned by Add when the initial attrs carry no position.
var ErrPositionRequired = errors.New("canvas: initial position is required")

// Init supplies initial attributes for Add. Position is mandatory; Size is
// computed from the variant when zero. Exactly the variant matching the kind
// is consulted.
type Init struct {
	Position vector.Pt
	HasPos   bool
	Size     vector.Size
	Color    string
	Opacity  float32 // 0 means "default 1"
	Text     TextAttrs
	Shape    ShapeAttrs
	Image    ImageAttrs
	// ImageNatural is the decoded natural size, used to derive the element
	// box for image elements (clamped to MaxImageDimension).
	ImageNatural vector.Size
	Icon         IconAttrs
}

// At is shorthand for setting the mandatory position.
func (in Init) At(p vector.Pt) Init {
	in.Position = p
	in.HasPos = true
	return in
}

// Store owns the canvas state for one editing session. It is constructed
// explicitly and passed by reference; there is no package-global state, so
// multiple editor sessions can coexist. Mutations are synchronous and each
// produces a new immutable snapshot observable via Snapshot/Subscribe.
type Store struct {
	canvas  Canvas
	version uint64
	subs    []func(Canvas)
	log     *slog.Logger
}

// NewStore creates an empty session with a white background.
func NewStore() *Store {
	return &Store{
		canvas: Canvas{BackgroundColor: "#ffffff"},
		log:    applog.WithComponent("canvas"),
	}
}

// Version increases by one on every committed mutation.
func (s *Store) Version() uint64 { return s.version }

// Snapshot returns a deep copy of the current canvas.
func (s *Store) Snapshot() Canvas {
	c := s.canvas
	c.Elements = make([]Element, len(s.canvas.Elements))
	for i, e := range s.canvas.Elements {
		c.Elements[i] = e.clone()
	}
	return c
}

// Subscribe registers fn to be called synchronously after every mutation with
// a fresh snapshot.
func (s *Store) Subscribe(fn func(Canvas)) {
	s.subs = append(s.subs, fn)
}

func (s *Store) bump() {
	s.version++
	if len(s.subs) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.subs {
		fn(snap)
	}
}

// Add appends a new element and returns its freshly generated id. Elements
// are always appended: "on top" means "added later".
func (s *Store) Add(kind Kind, init Init) (string, error) {
	if !init.HasPos {
		return "", ErrPositionRequired
	}
	el := Element{
		ID:       uuid.NewString(),
		Kind:     kind,
		Position: init.Position,
		Size:     init.Size,
		Color:    init.Color,
		Opacity:  init.Opacity,
	}
	if el.Opacity <= 0 {
		el.Opacity = 1
	}
	if el.Opacity > 1 {
		el.Opacity = 1
	}
	if el.Color == "" {
		el.Color = "#000000"
	}
	switch kind {
	case KindText:
		t := init.Text
		if t.FontSize <= 0 {
			t.FontSize = defaultFontSize
		}
		if t.FontWeight == 0 {
			t.FontWeight = 400
		}
		el.Text = &t
		if el.Size.W <= 0 || el.Size.H <= 0 {
			el.Size = estimateTextSize(t)
		}
	case KindShape:
		sh := init.Shape
		if sh.Shape == "" {
			sh.Shape = ShapeSquare
		}
		if sh.Style == "" {
			sh.Style = StyleFill
		}
		if sh.Style == StyleStroke && sh.StrokeWidth <= 0 {
			sh.StrokeWidth = 4
		}
		el.Shape = &sh
		if el.Size.W <= 0 || el.Size.H <= 0 {
			el.Size = vector.Size{W: defaultShapeSide, H: defaultShapeSide}
		}
	case KindImage:
		img := init.Image
		if img.Fit == "" {
			img.Fit = FitCover
		}
		el.Image = &img
		if el.Size.W <= 0 || el.Size.H <= 0 {
			el.Size = clampImageSize(init.ImageNatural)
		}
	case KindIcon:
		ic := init.Icon
		el.Icon = &ic
		if el.Size.W <= 0 || el.Size.H <= 0 {
			el.Size = vector.Size{W: defaultIconSide, H: defaultIconSide}
		}
	}
	s.canvas.Elements = append(s.canvas.Elements, el)
	s.log.Debug("element added", slog.String("id", el.ID), slog.String("kind", kind.String()))
	s.bump()
	return el.ID, nil
}

// Update shallow-merges patch into the element with the given id. A missing
// id is a silent no-op.
func (s *Store) Update(id string, patch Patch) {
	idx := s.index(id)
	if idx < 0 {
		s.log.Debug("update for unknown element", slog.String("id", id))
		return
	}
	el := &s.canvas.Elements[idx]
	if patch.Position != nil {
		el.Position = *patch.Position
	}
	if patch.Size != nil {
		sz := *patch.Size
		if sz.W < 0 {
			sz.W = 0
		}
		if sz.H < 0 {
			sz.H = 0
		}
		el.Size = sz
	}
	if patch.Color != nil {
		el.Color = *patch.Color
	}
	if patch.Opacity != nil {
		op := *patch.Opacity
		if op < 0 {
			op = 0
		}
		if op > 1 {
			op = 1
		}
		el.Opacity = op
	}
	if patch.Text != nil && el.Text != nil {
		mergeText(el.Text, patch.Text)
	}
	if patch.Shape != nil && el.Shape != nil {
		mergeShape(el.Shape, patch.Shape)
	}
	if patch.Image != nil && el.Image != nil {
		mergeImage(el.Image, patch.Image)
	}
	if patch.Icon != nil && el.Icon != nil && patch.Icon.Thumbnail != nil {
		el.Icon.Thumbnail = *patch.Icon.Thumbnail
	}
	s.bump()
}

// Remove deletes the element; idempotent when the id is already absent.
// List order of the remaining elements is preserved.
func (s *Store) Remove(id string) {
	idx := s.index(id)
	if idx < 0 {
		return
	}
	s.canvas.Elements = append(s.canvas.Elements[:idx], s.canvas.Elements[idx+1:]...)
	s.log.Debug("element removed", slog.String("id", id))
	s.bump()
}

// SetBackgroundColor sets the background fill and clears any background image.
func (s *Store) SetBackgroundColor(hex string) {
	s.canvas.BackgroundColor = hex
	s.canvas.BackgroundImage = ""
	s.bump()
}

// SetBackgroundImage sets a background image URL; empty reverts to color.
func (s *Store) SetBackgroundImage(url string) {
	s.canvas.BackgroundImage = url
	s.bump()
}

// SetDesignID records the server-assigned design reference after a
// successful publish.
func (s *Store) SetDesignID(id string) {
	s.canvas.DesignID = id
	s.bump()
}

func (s *Store) index(id string) int {
	for i := range s.canvas.Elements {
		if s.canvas.Elements[i].ID == id {
			return i
		}
	}
	return -1
}

// estimateTextSize derives a box from content length and font size: rune
// count times an average glyph width plus padding, one line high.
func estimateTextSize(t TextAttrs) vector.Size {
	runes := utf8.RuneCountInString(t.Content)
	if runes == 0 {
		runes = 1
	}
	w := float32(runes)*t.FontSize*textGlyphFactor + textPadding
	h := t.FontSize*1.3 + textPadding/2
	return vector.Size{W: w, H: h}
}

// clampImageSize scales a natural size down so neither side exceeds
// MaxImageDimension, preserving aspect ratio.
func clampImageSize(natural vector.Size) vector.Size {
	if natural.W <= 0 || natural.H <= 0 {
		return vector.Size{W: 240, H: 240}
	}
	scale := float32(1)
	if natural.W > MaxImageDimension {
		scale = MaxImageDimension / natural.W
	}
	if natural.H*scale > MaxImageDimension {
		scale = MaxImageDimension / natural.H
	}
	return vector.Size{W: natural.W * scale, H: natural.H * scale}
}

func mergeText(dst *TextAttrs, p *TextPatch) {
	if p.Content != nil {
		dst.Content = *p.Content
	}
	if p.FontFamily != nil {
		dst.FontFamily = *p.FontFamily
	}
	if p.FontWeight != nil {
		dst.FontWeight = *p.FontWeight
	}
	if p.FontSize != nil && *p.FontSize > 0 {
		dst.FontSize = *p.FontSize
	}
	if p.Effect != nil {
		dst.Effect = *p.Effect
	}
}

func mergeShape(dst *ShapeAttrs, p *ShapePatch) {
	if p.Shape != nil {
		dst.Shape = *p.Shape
	}
	if p.Style != nil {
		dst.Style = *p.Style
	}
	if p.StrokeWidth != nil && *p.StrokeWidth >= 0 {
		dst.StrokeWidth = *p.StrokeWidth
	}
	if p.StrokeJoin != nil {
		dst.StrokeJoin = *p.StrokeJoin
	}
	if p.StrokeCap != nil {
		dst.StrokeCap = *p.StrokeCap
	}
	if p.Effect != nil {
		dst.Effect = *p.Effect
	}
}

func mergeImage(dst *ImageAttrs, p *ImagePatch) {
	if p.URL != nil {
		dst.URL = *p.URL
	}
	if p.Fit != nil {
		dst.Fit = *p.Fit
	}
	if p.Blur != nil && *p.Blur >= 0 {
		dst.Blur = *p.Blur
	}
	if p.Grayscale != nil {
		dst.Grayscale = *p.Grayscale
	}
}
