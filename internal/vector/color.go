/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Colors, hex parsing, and stroke/fill paint definitions. Element colors are
// carried as hex strings in the model; rendering converts through Color.

import (
	"fmt"
	"strings"
)

type Color struct{ R, G, B, A uint8 }

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{0, 0, 0, 0}
)

// ParseHex parses #RGB, #RRGGBB, and #RRGGBBAA (leading # optional).
// Invalid input returns opaque black and false.
func ParseHex(s string) (Color, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	var c Color
	c.A = 255
	switch len(h) {
	case 3:
		var r, g, b uint8
		if _, err := fmt.Sscanf(h, "%1x%1x%1x", &r, &g, &b); err != nil {
			return Black, false
		}
		c.R, c.G, c.B = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(h, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return Black, false
		}
	case 8:
		if _, err := fmt.Sscanf(h, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return Black, false
		}
	default:
		return Black, false
	}
	return c, true
}

// Hex formats the color as #RRGGBB, or #RRGGBBAA when not fully opaque.
func (c Color) Hex() string {
	if c.A != 255 {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// WithOpacity scales the alpha channel by f in [0,1].
func (c Color) WithOpacity(f float32) Color {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	c.A = uint8(float32(c.A) * f)
	return c
}

type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

type LineJoin uint8

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

type Stroke struct {
	Color   Color
	Width   float32
	Cap     LineCap
	Join    LineJoin
	Enabled bool
}

type Fill struct {
	Color   Color
	Enabled bool
}
