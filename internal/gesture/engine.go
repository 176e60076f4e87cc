/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gesture converts pointer/multi-touch input into element transforms.
// Pan, pinch and rotation run as independent accumulators that may all change
// within the same event tick; their combined effect is one transform tuple
// applied translate -> scale -> rotate about the element center.
package gesture

import (
	"log/slog"

	"invitestudio/internal/canvas"
	applog "invitestudio/internal/log"
	"invitestudio/internal/vector"
)

// MinScale is the smallest scale the commit layer accepts. Live pinch values
// below it are clamped at commit, never rejected.
const MinScale = float32(0.1)

// Transform is the live, uncommitted visual transform of one element during
// an active gesture. TX/TY are offsets from the committed position; Scale and
// Rotate are absolute (baseline carried over from previous gestures).
type Transform struct {
	TX, TY float32
	Scale  float32
	Rotate float32
}

// Matrix builds the affine for rendering the element at its live transform.
func (t Transform) Matrix(committedCenter vector.Pt) vector.Affine2D {
	return vector.AboutCenter(committedCenter, t.TX, t.TY, t.Scale, t.Rotate)
}

// baseline carries per-element scale/rotation across gestures. It lives here,
// keyed by element id, and is never written into the canvas store: the
// committed model only ever learns about position.
type baseline struct {
	scale  float32
	rotate float32
}

type active struct {
	startPos    vector.Pt // committed position at gesture start
	dx, dy      float32   // pan accumulator
	savedScale  float32   // baseline at gesture start
	scaleFactor float32   // pinch accumulator (multiplier)
	savedRot    float32   // baseline at gesture start
	rotDelta    float32   // rotation accumulator (radians)
}

// Engine tracks gestures per element. Gestures on different elements are
// independent; all methods are called from the UI event loop (single thread).
type Engine struct {
	store     *canvas.Store
	baselines map[string]baseline
	active    map[string]*active
	log       *slog.Logger

	// OnLive, when set, receives every live transform update for visual
	// feedback. It must not mutate the store.
	OnLive func(id string, t Transform)
}

func NewEngine(store *canvas.Store) *Engine {
	return &Engine{
		store:     store,
		baselines: make(map[string]baseline),
		active:    make(map[string]*active),
		log:       applog.WithComponent("gesture"),
	}
}

// Begin snapshots the element's committed position and its saved
// scale/rotation as the gesture baseline. Beginning while already active
// restarts the gesture from current committed state.
func (g *Engine) Begin(id string) {
	el, ok := g.store.Snapshot().Find(id)
	if !ok {
		return
	}
	base := g.baselineFor(id)
	g.active[id] = &active{
		startPos:    el.Position,
		savedScale:  base.scale,
		scaleFactor: 1,
		savedRot:    base.rotate,
	}
}

// Pan accumulates a drag delta.
func (g *Engine) Pan(id string, dx, dy float32) {
	a, ok := g.active[id]
	if !ok {
		return
	}
	a.dx += dx
	a.dy += dy
	g.emit(id, a)
}

// Pinch accumulates a scale multiplier relative to the gesture start.
func (g *Engine) Pinch(id string, factor float32) {
	a, ok := g.active[id]
	if !ok {
		return
	}
	a.scaleFactor *= factor
	g.emit(id, a)
}

// Rotate accumulates a rotation delta in radians.
func (g *Engine) Rotate(id string, delta float32) {
	a, ok := g.active[id]
	if !ok {
		return
	}
	a.rotDelta += delta
	g.emit(id, a)
}

// Live returns the current transform tuple and whether a gesture is active.
func (g *Engine) Live(id string) (Transform, bool) {
	a, ok := g.active[id]
	if !ok {
		return Transform{}, false
	}
	return a.transform(), true
}

// End commits the final position into the store and feeds scale/rotation
// back into the per-element baseline for the next gesture.
func (g *Engine) End(id string) {
	a, ok := g.active[id]
	if !ok {
		return
	}
	delete(g.active, id)
	t := a.transform()
	scale := t.Scale
	if scale < MinScale {
		scale = MinScale
	}
	g.baselines[id] = baseline{scale: scale, rotate: t.Rotate}
	pos := vector.Pt{X: a.startPos.X + a.dx, Y: a.startPos.Y + a.dy}
	g.store.Update(id, canvas.Patch{Position: &pos})
	g.log.Debug("gesture committed",
		slog.String("id", id),
		slog.Float64("x", float64(pos.X)),
		slog.Float64("y", float64(pos.Y)))
}

// Cancel discards the transient transform without committing anything; the
// element stays at its last committed position. Used when a gesture is
// interrupted (e.g. the app loses focus mid-pinch).
func (g *Engine) Cancel(id string) {
	delete(g.active, id)
}

// Forget drops all transient state for an element; call after Remove.
func (g *Engine) Forget(id string) {
	delete(g.active, id)
	delete(g.baselines, id)
}

// Baseline reports the carried scale/rotation for an element. Used by the
// renderer so an idle element keeps its pinched size between gestures.
func (g *Engine) Baseline(id string) (scale, rotate float32) {
	b := g.baselineFor(id)
	return b.scale, b.rotate
}

func (g *Engine) baselineFor(id string) baseline {
	if b, ok := g.baselines[id]; ok {
		return b
	}
	return baseline{scale: 1}
}

func (g *Engine) emit(id string, a *active) {
	if g.OnLive != nil {
		g.OnLive(id, a.transform())
	}
}

func (a *active) transform() Transform {
	return Transform{
		TX:     a.dx,
		TY:     a.dy,
		Scale:  a.savedScale * a.scaleFactor,
		Rotate: a.savedRot + a.rotDelta,
	}
}
