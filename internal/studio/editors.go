/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package studio

// Editor panels. Two policies exist and both matter for whether Cancel means
// anything:
//
//   - live panels (shape style, image filters) write every micro-change
//     straight into the store; closing the sheet keeps the last value.
//   - staged panels (text content, text inline style) hold a draft and write
//     only on Commit; Cancel leaves the model at its pre-edit value.

import (
	"invitestudio/internal/canvas"
)

// OpenContentEditor transitions selected -> editing(text-content) and returns
// the staged editor. Only valid for text elements.
func (s *Session) OpenContentEditor() (*TextContentEditor, error) {
	if s.mode != ModeSelected {
		return nil, ErrNothingSelected
	}
	el, ok := s.store.Snapshot().Find(s.id)
	if !ok {
		s.toIdle()
		return nil, ErrNothingSelected
	}
	if el.Kind != canvas.KindText {
		return nil, ErrNotText
	}
	s.mode = ModeEditing
	s.editor = EditorTextContent
	return &TextContentEditor{s: s, id: s.id, draft: el.Text.Content}, nil
}

// TextContentEditor stages free-text edits; the canvas is untouched until
// Commit.
type TextContentEditor struct {
	s     *Session
	id    string
	draft string
}

func (e *TextContentEditor) Draft() string        { return e.draft }
func (e *TextContentEditor) SetDraft(text string) { e.draft = text }

// Commit writes the draft into the model and closes the editor.
func (e *TextContentEditor) Commit() {
	e.s.store.Update(e.id, canvas.Patch{Text: &canvas.TextPatch{Content: &e.draft}})
	e.s.CloseEditor()
}

// Cancel closes the editor leaving the model at its pre-edit value.
func (e *TextContentEditor) Cancel() {
	e.s.CloseEditor()
}

// TextStyle returns the staged inline style editor; valid while
// editing(text-style) is open (via OpenMoreOptions on a text element).
func (s *Session) TextStyle() (*TextStyleEditor, error) {
	if s.mode != ModeEditing || s.editor != EditorTextStyle {
		return nil, ErrWrongEditor
	}
	el, ok := s.store.Snapshot().Find(s.id)
	if !ok {
		s.toIdle()
		return nil, ErrWrongEditor
	}
	return &TextStyleEditor{
		s:          s,
		id:         s.id,
		Color:      el.Color,
		FontFamily: el.Text.FontFamily,
		FontWeight: el.Text.FontWeight,
		FontSize:   el.Text.FontSize,
		Effect:     el.Text.Effect,
	}, nil
}

// TextStyleEditor stages color/font/weight/size/effect; Cancel discards,
// Done commits in one update.
type TextStyleEditor struct {
	s  *Session
	id string

	Color      string
	FontFamily string
	FontWeight int
	FontSize   float32
	Effect     canvas.TextEffect
}

// Done commits the staged values and closes the editor.
func (e *TextStyleEditor) Done() {
	e.s.store.Update(e.id, canvas.Patch{
		Color: &e.Color,
		Text: &canvas.TextPatch{
			FontFamily: &e.FontFamily,
			FontWeight: &e.FontWeight,
			FontSize:   &e.FontSize,
			Effect:     &e.Effect,
		},
	})
	e.s.CloseEditor()
}

// Cancel closes the editor without writing any staged value.
func (e *TextStyleEditor) Cancel() {
	e.s.CloseEditor()
}

// ShapeStyle returns the live shape style editor; valid while
// editing(shape-style) is open.
func (s *Session) ShapeStyle() (*ShapeStyleEditor, error) {
	if s.mode != ModeEditing || s.editor != EditorShapeStyle {
		return nil, ErrWrongEditor
	}
	return &ShapeStyleEditor{s: s, id: s.id}, nil
}

// ShapeStyleEditor applies every change immediately; there is no cancel.
type ShapeStyleEditor struct {
	s  *Session
	id string
}

func (e *ShapeStyleEditor) SetColor(hex string) {
	e.s.store.Update(e.id, canvas.Patch{Color: &hex})
}

func (e *ShapeStyleEditor) SetOpacity(v float32) {
	e.s.store.Update(e.id, canvas.Patch{Opacity: &v})
}

func (e *ShapeStyleEditor) SetShape(k canvas.ShapeKind) {
	e.s.store.Update(e.id, canvas.Patch{Shape: &canvas.ShapePatch{Shape: &k}})
}

func (e *ShapeStyleEditor) SetStyle(st canvas.ShapeStyle) {
	e.s.store.Update(e.id, canvas.Patch{Shape: &canvas.ShapePatch{Style: &st}})
}

func (e *ShapeStyleEditor) SetStrokeWidth(w float32) {
	e.s.store.Update(e.id, canvas.Patch{Shape: &canvas.ShapePatch{StrokeWidth: &w}})
}

func (e *ShapeStyleEditor) SetShadow(on bool) {
	e.s.store.Update(e.id, canvas.Patch{Shape: &canvas.ShapePatch{Effect: &canvas.ShapeEffect{Shadow: on}}})
}

// Close dismisses the sheet; the last applied values stay in the model.
func (e *ShapeStyleEditor) Close() { e.s.CloseEditor() }

// ImageFilters returns the live image filter editor; valid while
// editing(image-filters) is open.
func (s *Session) ImageFilters() (*ImageFilterEditor, error) {
	if s.mode != ModeEditing || s.editor != EditorImageFilters {
		return nil, ErrWrongEditor
	}
	return &ImageFilterEditor{s: s, id: s.id}, nil
}

// ImageFilterEditor applies every change immediately.
type ImageFilterEditor struct {
	s  *Session
	id string
}

func (e *ImageFilterEditor) SetBlur(radius float32) {
	e.s.store.Update(e.id, canvas.Patch{Image: &canvas.ImagePatch{Blur: &radius}})
}

func (e *ImageFilterEditor) SetGrayscale(on bool) {
	e.s.store.Update(e.id, canvas.Patch{Image: &canvas.ImagePatch{Grayscale: &on}})
}

func (e *ImageFilterEditor) SetFit(fit canvas.ImageFit) {
	e.s.store.Update(e.id, canvas.Patch{Image: &canvas.ImagePatch{Fit: &fit}})
}

func (e *ImageFilterEditor) SetOpacity(v float32) {
	e.s.store.Update(e.id, canvas.Patch{Opacity: &v})
}

// Close dismisses the sheet; the last applied values stay in the model.
func (e *ImageFilterEditor) Close() { e.s.CloseEditor() }
