/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"math"
	"testing"

	"invitestudio/internal/canvas"
	"invitestudio/internal/vector"
)

func newStoreWithText(t *testing.T, at vector.Pt) (*canvas.Store, string) {
	t.Helper()
	s := canvas.NewStore()
	id, err := s.Add(canvas.KindText, canvas.Init{Text: canvas.TextAttrs{Content: "hi"}}.At(at))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	return s, id
}

func TestPanCommitsPosition(t *testing.T) {
	s, id := newStoreWithText(t, vector.Pt{X: 100, Y: 100})
	g := NewEngine(s)
	g.Begin(id)
	g.Pan(id, 20, -10)
	g.End(id)
	el, _ := s.Snapshot().Find(id)
	if el.Position.X != 120 || el.Position.Y != 90 {
		t.Fatalf("unexpected committed position: %+v", el.Position)
	}
}

func TestLiveTransformDoesNotTouchModel(t *testing.T) {
	s, id := newStoreWithText(t, vector.Pt{X: 100, Y: 100})
	g := NewEngine(s)
	v := s.Version()
	g.Begin(id)
	g.Pan(id, 50, 50)
	g.Pinch(id, 2)
	g.Rotate(id, 1)
	if s.Version() != v {
		t.Fatalf("live updates must not mutate the store")
	}
	tr, ok := g.Live(id)
	if !ok || tr.TX != 50 || tr.TY != 50 || tr.Scale != 2 || tr.Rotate != 1 {
		t.Fatalf("unexpected live transform: %+v", tr)
	}
}

func TestSameTickOrderIndependence(t *testing.T) {
	run := func(apply func(g *Engine, id string)) vector.Pt {
		s, id := newStoreWithText(t, vector.Pt{X: 100, Y: 100})
		g := NewEngine(s)
		g.Begin(id)
		apply(g, id)
		g.End(id)
		el, _ := s.Snapshot().Find(id)
		return el.Position
	}
	a := run(func(g *Engine, id string) {
		g.Pan(id, 10, 5)
		g.Pinch(id, 1.5)
		g.Rotate(id, 0.3)
	})
	b := run(func(g *Engine, id string) {
		g.Rotate(id, 0.3)
		g.Pinch(id, 1.5)
		g.Pan(id, 10, 5)
	})
	if a != b {
		t.Fatalf("committed position depends on same-tick event order: %+v vs %+v", a, b)
	}
}

func TestChronologicalTicksAccumulate(t *testing.T) {
	s, id := newStoreWithText(t, vector.Pt{X: 0, Y: 0})
	g := NewEngine(s)
	g.Begin(id)
	g.Pan(id, 10, 0)
	g.Pan(id, 15, 5)
	g.End(id)
	el, _ := s.Snapshot().Find(id)
	if el.Position.X != 25 || el.Position.Y != 5 {
		t.Fatalf("deltas must accumulate across ticks: %+v", el.Position)
	}
}

func TestPinchBaselineCarriesAcrossGestures(t *testing.T) {
	s, id := newStoreWithText(t, vector.Pt{X: 0, Y: 0})
	g := NewEngine(s)
	g.Begin(id)
	g.Pinch(id, 2)
	g.End(id)
	g.Begin(id)
	g.Pinch(id, 1.5)
	tr, _ := g.Live(id)
	if tr.Scale != 3 {
		t.Fatalf("second pinch should start from saved scale: %v", tr.Scale)
	}
	g.End(id)
	if sc, _ := g.Baseline(id); sc != 3 {
		t.Fatalf("baseline not carried: %v", sc)
	}
	// scale never reaches the committed model
	el, _ := s.Snapshot().Find(id)
	if el.Size.W == 0 || el.Position.X != 0 {
		t.Fatalf("scale leaked into the model: %+v", el)
	}
}

func TestScaleClampedAtCommit(t *testing.T) {
	s, id := newStoreWithText(t, vector.Pt{X: 0, Y: 0})
	g := NewEngine(s)
	g.Begin(id)
	g.Pinch(id, 0.01)
	g.End(id)
	if sc, _ := g.Baseline(id); sc != MinScale {
		t.Fatalf("committed scale should clamp to %v, got %v", MinScale, sc)
	}
}

func TestCancelRevertsToCommitted(t *testing.T) {
	s, id := newStoreWithText(t, vector.Pt{X: 100, Y: 100})
	g := NewEngine(s)
	g.Begin(id)
	g.Pan(id, 40, 40)
	g.Pinch(id, 3)
	g.Cancel(id)
	el, _ := s.Snapshot().Find(id)
	if el.Position.X != 100 || el.Position.Y != 100 {
		t.Fatalf("cancel must not commit: %+v", el.Position)
	}
	if _, ok := g.Live(id); ok {
		t.Fatalf("cancelled gesture still live")
	}
	if sc, _ := g.Baseline(id); sc != 1 {
		t.Fatalf("cancel must not advance the baseline: %v", sc)
	}
}

func TestGesturesOnDistinctElementsAreIndependent(t *testing.T) {
	s := canvas.NewStore()
	a, _ := s.Add(canvas.KindShape, canvas.Init{}.At(vector.Pt{X: 10, Y: 10}))
	b, _ := s.Add(canvas.KindShape, canvas.Init{}.At(vector.Pt{X: 90, Y: 90}))
	g := NewEngine(s)
	g.Begin(a)
	g.Begin(b)
	g.Pan(a, 5, 0)
	g.Pan(b, 0, 7)
	g.End(a)
	g.End(b)
	snap := s.Snapshot()
	ea, _ := snap.Find(a)
	eb, _ := snap.Find(b)
	if ea.Position != (vector.Pt{X: 15, Y: 10}) || eb.Position != (vector.Pt{X: 90, Y: 97}) {
		t.Fatalf("cross-talk between elements: %+v %+v", ea.Position, eb.Position)
	}
}

func TestOnLiveReceivesUpdates(t *testing.T) {
	s, id := newStoreWithText(t, vector.Pt{X: 0, Y: 0})
	g := NewEngine(s)
	var got []Transform
	g.OnLive = func(_ string, tr Transform) { got = append(got, tr) }
	g.Begin(id)
	g.Pan(id, 1, 1)
	g.Pinch(id, 1.1)
	if len(got) != 2 {
		t.Fatalf("expected 2 live updates, got %d", len(got))
	}
}

func TestTransformMatrixMovesCenter(t *testing.T) {
	tr := Transform{TX: 20, TY: -10, Scale: 2, Rotate: 0.5}
	m := tr.Matrix(vector.Pt{X: 100, Y: 100})
	p := m.Apply(vector.Pt{X: 100, Y: 100})
	if math.Abs(float64(p.X-120)) > 1e-3 || math.Abs(float64(p.Y-90)) > 1e-3 {
		t.Fatalf("center should land at (120,90): %+v", p)
	}
}

func TestBeginUnknownElementIsNoop(t *testing.T) {
	s := canvas.NewStore()
	g := NewEngine(s)
	g.Begin("missing")
	g.Pan("missing", 5, 5)
	g.End("missing")
	if s.Version() != 0 {
		t.Fatalf("unknown element gesture mutated the store")
	}
}
