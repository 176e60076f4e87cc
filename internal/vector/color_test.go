/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestParseHexForms(t *testing.T) {
	cases := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#ff0000", Color{255, 0, 0, 255}, true},
		{"00ff00", Color{0, 255, 0, 255}, true},
		{"#fff", Color{255, 255, 255, 255}, true},
		{"#11223344", Color{0x11, 0x22, 0x33, 0x44}, true},
		{"  #000000 ", Color{0, 0, 0, 255}, true},
		{"", Black, false},
		{"#12345", Black, false},
		{"#gggggg", Black, false},
	}
	for _, c := range cases {
		got, ok := ParseHex(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParseHex(%q) = %+v,%v want %+v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, s := range []string{"#1a2b3c", "#000000", "#ffffff", "#0a0b0c7f"} {
		c, ok := ParseHex(s)
		if !ok {
			t.Fatalf("parse %q failed", s)
		}
		if c.Hex() != s {
			t.Fatalf("round trip %q -> %q", s, c.Hex())
		}
	}
}

func TestWithOpacity(t *testing.T) {
	c := White.WithOpacity(0.5)
	if c.A != 127 {
		t.Fatalf("unexpected alpha: %d", c.A)
	}
	if White.WithOpacity(2).A != 255 || White.WithOpacity(-1).A != 0 {
		t.Fatalf("opacity not clamped")
	}
}
