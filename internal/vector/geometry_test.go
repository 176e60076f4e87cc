/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 { // (1*2+10, 1*3+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
}

func TestInvertRoundTrips(t *testing.T) {
	m := Translate(30, -12).Mul(Rotate(0.4)).Mul(Scale(2, 2))
	p := Pt{17, 23}
	q := m.Invert().Apply(m.Apply(p))
	if math.Abs(float64(q.X-p.X)) > 1e-3 || math.Abs(float64(q.Y-p.Y)) > 1e-3 {
		t.Fatalf("inverse did not round trip: %+v vs %+v", q, p)
	}
}

func TestInvertSingularIsIdentity(t *testing.T) {
	if got := (Scale(0, 0)).Invert(); got != Identity {
		t.Fatalf("singular inverse should be identity, got %+v", got)
	}
}

func TestAboutCenterTranslatesCenter(t *testing.T) {
	c := Pt{100, 100}
	m := AboutCenter(c, 20, -10, 2, 0.7)
	// The element center must land exactly on the translated center
	// regardless of scale and rotation.
	got := m.Apply(c)
	if math.Abs(float64(got.X-120)) > 1e-3 || math.Abs(float64(got.Y-90)) > 1e-3 {
		t.Fatalf("center moved to %+v, want (120, 90)", got)
	}
}

func TestAboutCenterScalesAroundCenter(t *testing.T) {
	c := Pt{50, 50}
	m := AboutCenter(c, 0, 0, 2, 0)
	got := m.Apply(Pt{60, 50})
	if math.Abs(float64(got.X-70)) > 1e-3 || math.Abs(float64(got.Y-50)) > 1e-3 {
		t.Fatalf("scale about center wrong: %+v", got)
	}
}

func TestFitContain(t *testing.T) {
	// wide image into a square box: full width, centered vertically
	fit := FitContain(Size{W: 200, H: 100}, R(0, 0, 100, 100))
	if fit.W != 100 || fit.H != 50 || fit.X != 0 || fit.Y != 25 {
		t.Fatalf("unexpected contain fit: %+v", fit)
	}
	// tall image into a wide box: full height, centered horizontally
	fit = FitContain(Size{W: 50, H: 100}, R(10, 10, 200, 100))
	if fit.H != 100 || fit.W != 50 || fit.X != 85 || fit.Y != 10 {
		t.Fatalf("unexpected contain fit: %+v", fit)
	}
	// degenerate intrinsic size falls back to the box
	if fit := FitContain(Size{}, R(1, 2, 3, 4)); fit != R(1, 2, 3, 4) {
		t.Fatalf("degenerate fit should return box, got %+v", fit)
	}
}

func TestUnion(t *testing.T) {
	u := R(0, 0, 10, 10).Union(R(5, 5, 10, 10))
	if u != R(0, 0, 15, 15) {
		t.Fatalf("unexpected union: %+v", u)
	}
}
