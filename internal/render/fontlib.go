/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
)

// FontLibrary maps family/weight to embedded Go fonts. Faces are derived per
// size; parsed fonts are cached. Unknown families fall back to the regular
// face so text always renders.
type FontLibrary struct {
	mu    sync.Mutex
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	bold   bool
}

// boldWeight is the lowest numeric weight rendered with the bold face.
const boldWeight = 600

func NewFontLibrary() *FontLibrary {
	return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)}
}

func (fl *FontLibrary) parsed(family string, weight int) (*opentype.Font, error) {
	key := fontKey{family: family, bold: weight >= boldWeight}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if f, ok := fl.fonts[key]; ok {
		return f, nil
	}
	f, err := opentype.Parse(ttfFor(key))
	if err != nil {
		return nil, fmt.Errorf("parse embedded font %s: %w", family, err)
	}
	fl.fonts[key] = f
	return f, nil
}

func ttfFor(key fontKey) []byte {
	switch key.family {
	case "Go Medium":
		return gomedium.TTF
	case "Go Smallcaps":
		return gosmallcaps.TTF
	}
	if key.bold {
		return gobold.TTF
	}
	return goregular.TTF
}

// Face resolves a concrete face at the given pixel size (72 DPI, so points
// and pixels coincide).
func (fl *FontLibrary) Face(family string, weight int, sizePx float32) (font.Face, error) {
	if sizePx <= 0 {
		sizePx = 12
	}
	f, err := fl.parsed(family, weight)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("derive face %s@%v: %w", family, sizePx, err)
	}
	return face, nil
}

// advance measures a string in whole pixels.
func advance(d *font.Drawer, s string) float32 {
	return float32(d.MeasureString(s) >> 6) // fixed.Int26_6 to px
}
