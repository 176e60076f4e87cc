/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"testing"

	"invitestudio/internal/vector"
)

func addText(t *testing.T, s *Store, content string, at vector.Pt) string {
	t.Helper()
	id, err := s.Add(KindText, Init{Text: TextAttrs{Content: content}}.At(at))
	if err != nil {
		t.Fatalf("add text: %v", err)
	}
	return id
}

func TestAddGeneratesUniqueIDs(t *testing.T) {
	s := NewStore()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := addText(t, s, "hello", vector.Pt{X: 10, Y: 10})
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestAddRequiresPosition(t *testing.T) {
	s := NewStore()
	if _, err := s.Add(KindShape, Init{Shape: ShapeAttrs{Shape: ShapeStar}}); err != ErrPositionRequired {
		t.Fatalf("expected ErrPositionRequired, got %v", err)
	}
	if n := len(s.Snapshot().Elements); n != 0 {
		t.Fatalf("failed add must not append, have %d elements", n)
	}
}

func TestAddDefaults(t *testing.T) {
	s := NewStore()
	id, err := s.Add(KindShape, Init{}.At(vector.Pt{X: 50, Y: 50}))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	el, ok := s.Snapshot().Find(id)
	if !ok {
		t.Fatalf("element missing")
	}
	if el.Opacity != 1 {
		t.Fatalf("default opacity should be 1, got %v", el.Opacity)
	}
	if el.Shape == nil || el.Shape.Shape != ShapeSquare || el.Shape.Style != StyleFill {
		t.Fatalf("unexpected shape defaults: %+v", el.Shape)
	}
	if el.Size.W <= 0 || el.Size.H <= 0 {
		t.Fatalf("size defaults missing: %+v", el.Size)
	}
	if el.Kind != KindShape || el.Text != nil || el.Image != nil || el.Icon != nil {
		t.Fatalf("variant pointers inconsistent: %+v", el)
	}
}

func TestTextSizeGrowsWithContent(t *testing.T) {
	s := NewStore()
	short := addText(t, s, "hi", vector.Pt{X: 0, Y: 0})
	long := addText(t, s, "a considerably longer headline", vector.Pt{X: 0, Y: 0})
	snap := s.Snapshot()
	a, _ := snap.Find(short)
	b, _ := snap.Find(long)
	if b.Size.W <= a.Size.W {
		t.Fatalf("longer text should estimate wider: %v vs %v", b.Size.W, a.Size.W)
	}
}

func TestImageSizeClampedPreservingAspect(t *testing.T) {
	s := NewStore()
	id, err := s.Add(KindImage, Init{
		Image:        ImageAttrs{URL: "https://example.com/p.jpg"},
		ImageNatural: vector.Size{W: 3200, H: 1600},
	}.At(vector.Pt{X: 0, Y: 0}))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	el, _ := s.Snapshot().Find(id)
	if el.Size.W != MaxImageDimension {
		t.Fatalf("width should clamp to max, got %v", el.Size.W)
	}
	if el.Size.H != MaxImageDimension/2 {
		t.Fatalf("aspect not preserved: %+v", el.Size)
	}
}

func TestUpdateShallowMerge(t *testing.T) {
	s := NewStore()
	id := addText(t, s, "hello", vector.Pt{X: 10, Y: 20})
	s.Update(id, Patch{Color: Ptr("#ff0000")})
	el, _ := s.Snapshot().Find(id)
	if el.Color != "#ff0000" {
		t.Fatalf("color not updated: %q", el.Color)
	}
	if el.Position.X != 10 || el.Position.Y != 20 {
		t.Fatalf("omitted fields must be preserved: %+v", el.Position)
	}
	if el.Text.Content != "hello" {
		t.Fatalf("variant attrs must be preserved: %q", el.Text.Content)
	}
}

func TestUpdateEmptyPatchIsIdentity(t *testing.T) {
	s := NewStore()
	id := addText(t, s, "hello", vector.Pt{X: 10, Y: 20})
	before, _ := s.Snapshot().Find(id)
	s.Update(id, Patch{})
	after, _ := s.Snapshot().Find(id)
	if before.Position != after.Position || before.Size != after.Size ||
		before.Color != after.Color || before.Opacity != after.Opacity ||
		*before.Text != *after.Text {
		t.Fatalf("empty patch changed the element:\n%+v\n%+v", before, after)
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	s := NewStore()
	id := addText(t, s, "hello", vector.Pt{X: 10, Y: 20})
	patch := Patch{Position: Ptr(vector.Pt{X: 5, Y: 5}), Opacity: Ptr(float32(0.5))}
	s.Update(id, patch)
	first, _ := s.Snapshot().Find(id)
	s.Update(id, patch)
	second, _ := s.Snapshot().Find(id)
	if first.Position != second.Position || first.Opacity != second.Opacity {
		t.Fatalf("repeated update diverged: %+v vs %+v", first, second)
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	s := NewStore()
	addText(t, s, "hello", vector.Pt{X: 1, Y: 1})
	v := s.Version()
	s.Update("missing", Patch{Color: Ptr("#123456")})
	if s.Version() != v {
		t.Fatalf("unknown id must not bump the version")
	}
}

func TestUpdateClampsOpacity(t *testing.T) {
	s := NewStore()
	id := addText(t, s, "x", vector.Pt{})
	s.Update(id, Patch{Opacity: Ptr(float32(3))})
	if el, _ := s.Snapshot().Find(id); el.Opacity != 1 {
		t.Fatalf("opacity not clamped high: %v", el.Opacity)
	}
	s.Update(id, Patch{Opacity: Ptr(float32(-1))})
	if el, _ := s.Snapshot().Find(id); el.Opacity != 0 {
		t.Fatalf("opacity not clamped low: %v", el.Opacity)
	}
}

func TestRemoveIsIdempotentAndPreservesOrder(t *testing.T) {
	s := NewStore()
	a := addText(t, s, "a", vector.Pt{})
	b := addText(t, s, "b", vector.Pt{})
	c := addText(t, s, "c", vector.Pt{})
	s.Remove(b)
	s.Remove(b) // second remove is a no-op
	snap := s.Snapshot()
	if len(snap.Elements) != 2 || snap.Elements[0].ID != a || snap.Elements[1].ID != c {
		t.Fatalf("unexpected order after remove: %+v", snap.Elements)
	}
}

func TestReAddAppendsWithNewID(t *testing.T) {
	s := NewStore()
	first := addText(t, s, "first", vector.Pt{X: 1, Y: 1})
	addText(t, s, "second", vector.Pt{X: 2, Y: 2})
	s.Remove(first)
	again := addText(t, s, "first", vector.Pt{X: 1, Y: 1})
	if again == first {
		t.Fatalf("re-added element must get a fresh id")
	}
	snap := s.Snapshot()
	if snap.Elements[len(snap.Elements)-1].ID != again {
		t.Fatalf("re-added element must append at the end")
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := NewStore()
	id := addText(t, s, "hello", vector.Pt{})
	snap := s.Snapshot()
	snap.Elements[0].Text.Content = "mutated"
	el, _ := s.Snapshot().Find(id)
	if el.Text.Content != "hello" {
		t.Fatalf("snapshot mutation leaked into the store")
	}
}

func TestSubscribeSeesEveryMutation(t *testing.T) {
	s := NewStore()
	var calls int
	var last Canvas
	s.Subscribe(func(c Canvas) { calls++; last = c })
	id := addText(t, s, "x", vector.Pt{})
	s.Update(id, Patch{Color: Ptr("#ffffff")})
	s.Remove(id)
	if calls != 3 {
		t.Fatalf("expected 3 notifications, got %d", calls)
	}
	if len(last.Elements) != 0 {
		t.Fatalf("final snapshot should be empty: %+v", last.Elements)
	}
}

func TestBackgroundColorClearsImage(t *testing.T) {
	s := NewStore()
	s.SetBackgroundImage("https://example.com/bg.jpg")
	s.SetBackgroundColor("#fafafa")
	snap := s.Snapshot()
	if snap.BackgroundImage != "" || snap.BackgroundColor != "#fafafa" {
		t.Fatalf("unexpected background: %+v", snap)
	}
}

func TestElementBoxIsCenteredOnPosition(t *testing.T) {
	e := Element{Position: vector.Pt{X: 100, Y: 50}, Size: vector.Size{W: 40, H: 20}}
	box := e.Box()
	if box != vector.R(80, 40, 40, 20) {
		t.Fatalf("unexpected box: %+v", box)
	}
}
