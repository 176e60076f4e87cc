/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package studio tracks which element is selected and which editor panel is
// open for one editing session. At most one element is selected and at most
// one editor is open at any time.
package studio

import (
	"errors"
	"log/slog"

	"invitestudio/internal/canvas"
	applog "invitestudio/internal/log"
)

// Mode is the top-level interaction state.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeSelected
	ModeEditing
)

// EditorKind identifies the open editor panel while in ModeEditing.
type EditorKind uint8

const (
	EditorNone EditorKind = iota
	EditorTextContent
	EditorTextStyle
	EditorShapeStyle
	EditorImageFilters
)

var (
	ErrNothingSelected = errors.New("studio: nothing selected")
	ErrNotText         = errors.New("studio: selected element is not text")
	ErrWrongEditor     = errors.New("studio: requested editor is not open")
)

// Session owns the selection state machine for one canvas store. It is
// constructed per editing session and passed by reference; no globals.
type Session struct {
	store  *canvas.Store
	mode   Mode
	id     string
	editor EditorKind

	// controlsHidden suppresses selection overlays in rendered output;
	// set by the capture pipeline right before a snapshot.
	controlsHidden bool

	log *slog.Logger
}

func NewSession(store *canvas.Store) *Session {
	return &Session{store: store, log: applog.WithComponent("studio")}
}

func (s *Session) Store() *canvas.Store { return s.store }

// State returns the current mode, the selected/edited element id (empty when
// idle), and the open editor kind (EditorNone unless editing).
func (s *Session) State() (Mode, string, EditorKind) {
	return s.mode, s.id, s.editor
}

// SelectedID returns the selected element id, or "" when idle.
func (s *Session) SelectedID() string { return s.id }

// TapElement handles a press on an element: selects it, or deselects when it
// is already the selection. Selecting a new element implicitly deselects any
// prior one; an open editor is closed.
func (s *Session) TapElement(id string) {
	if _, ok := s.store.Snapshot().Find(id); !ok {
		return
	}
	if s.mode == ModeSelected && s.id == id {
		s.toIdle()
		return
	}
	s.mode = ModeSelected
	s.id = id
	s.editor = EditorNone
	s.log.Debug("selected", slog.String("id", id))
}

// TapBackground handles a press outside any element: clears the selection.
func (s *Session) TapBackground() {
	s.toIdle()
}

// Delete removes the selected element and returns its id so callers can drop
// related transient state (gesture baselines). No-op when idle.
func (s *Session) Delete() string {
	if s.mode == ModeIdle {
		return ""
	}
	id := s.id
	s.store.Remove(id)
	s.toIdle()
	s.log.Debug("deleted", slog.String("id", id))
	return id
}

// OpenMoreOptions transitions selected -> editing with the style editor that
// matches the element's kind.
func (s *Session) OpenMoreOptions() (EditorKind, error) {
	if s.mode != ModeSelected {
		return EditorNone, ErrNothingSelected
	}
	el, ok := s.store.Snapshot().Find(s.id)
	if !ok {
		s.toIdle()
		return EditorNone, ErrNothingSelected
	}
	kind := styleEditorFor(el.Kind)
	s.mode = ModeEditing
	s.editor = kind
	return kind, nil
}

// styleEditorFor maps element kinds to their style panel. Icons share the
// shape style panel (color/opacity).
func styleEditorFor(k canvas.Kind) EditorKind {
	switch k {
	case canvas.KindText:
		return EditorTextStyle
	case canvas.KindShape, canvas.KindIcon:
		return EditorShapeStyle
	case canvas.KindImage:
		return EditorImageFilters
	}
	return EditorShapeStyle
}

// CloseEditor ends any editing and clears the selection, matching the
// "editor close returns to idle" behavior.
func (s *Session) CloseEditor() {
	s.toIdle()
}

func (s *Session) toIdle() {
	s.mode = ModeIdle
	s.id = ""
	s.editor = EditorNone
}

// HideControls suppresses selection overlays; used right before capture so
// control pixels never end up in the exported image.
func (s *Session) HideControls() { s.controlsHidden = true }

// ShowControls restores overlay rendering after a capture.
func (s *Session) ShowControls() { s.controlsHidden = false }

// ControlsHidden reports whether overlays are suppressed.
func (s *Session) ControlsHidden() bool { return s.controlsHidden }
