/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"image"
	"image/color"
	"testing"

	"invitestudio/internal/canvas"
	"invitestudio/internal/gesture"
	"invitestudio/internal/vector"
)

func squareElement(id string, at vector.Pt, side float32, hex string) canvas.Element {
	return canvas.Element{
		ID:       id,
		Kind:     canvas.KindShape,
		Position: at,
		Size:     vector.Size{W: side, H: side},
		Color:    hex,
		Opacity:  1,
		Shape:    &canvas.ShapeAttrs{Shape: canvas.ShapeSquare, Style: canvas.StyleFill},
	}
}

func TestComposeBackgroundColor(t *testing.T) {
	r := NewRenderer()
	img := r.Compose(canvas.Canvas{BackgroundColor: "#ff0000"}, nil, Options{Width: 20, Height: 20})
	if got := img.NRGBAAt(10, 10); got.R != 0xff || got.G != 0 || got.B != 0 {
		t.Fatalf("background pixel = %+v", got)
	}
}

func TestComposeDefaultsToWhite(t *testing.T) {
	r := NewRenderer()
	img := r.Compose(canvas.Canvas{}, nil, Options{Width: 8, Height: 8})
	if got := img.NRGBAAt(4, 4); got.R != 0xff || got.G != 0xff || got.B != 0xff {
		t.Fatalf("default background pixel = %+v", got)
	}
}

func TestComposeFilledSquareAtCommittedPose(t *testing.T) {
	r := NewRenderer()
	c := canvas.Canvas{
		BackgroundColor: "#ffffff",
		Elements:        []canvas.Element{squareElement("s1", vector.Pt{X: 50, Y: 50}, 40, "#0000ff")},
	}
	img := r.Compose(c, nil, Options{Width: 100, Height: 100})
	if got := img.NRGBAAt(50, 50); got.B != 0xff || got.R != 0 {
		t.Fatalf("square center pixel = %+v", got)
	}
	if got := img.NRGBAAt(5, 5); got.R != 0xff || got.G != 0xff {
		t.Fatalf("corner should stay background, got %+v", got)
	}
}

func TestComposeAppliesLiveTranslation(t *testing.T) {
	r := NewRenderer()
	c := canvas.Canvas{
		BackgroundColor: "#ffffff",
		Elements:        []canvas.Element{squareElement("s1", vector.Pt{X: 30, Y: 50}, 20, "#0000ff")},
	}
	live := map[string]gesture.Transform{
		"s1": {TX: 40, TY: 0, Scale: 1, Rotate: 0},
	}
	img := r.Compose(c, live, Options{Width: 100, Height: 100})
	if got := img.NRGBAAt(70, 50); got.B != 0xff {
		t.Fatalf("translated center pixel = %+v", got)
	}
	if got := img.NRGBAAt(30, 50); got.B == 0xff && got.R == 0 {
		t.Fatalf("element still drawn at committed pose: %+v", got)
	}
}

func TestComposeAppliesLiveScale(t *testing.T) {
	r := NewRenderer()
	c := canvas.Canvas{
		BackgroundColor: "#ffffff",
		Elements:        []canvas.Element{squareElement("s1", vector.Pt{X: 50, Y: 50}, 20, "#0000ff")},
	}
	live := map[string]gesture.Transform{
		"s1": {Scale: 3, Rotate: 0},
	}
	img := r.Compose(c, live, Options{Width: 100, Height: 100})
	// A point outside the committed box but inside the scaled one.
	if got := img.NRGBAAt(75, 50); got.B != 0xff {
		t.Fatalf("scaled pixel = %+v", got)
	}
}

func TestComposeZeroOpacitySkipsElement(t *testing.T) {
	r := NewRenderer()
	el := squareElement("s1", vector.Pt{X: 50, Y: 50}, 40, "#0000ff")
	el.Opacity = 0
	img := r.Compose(canvas.Canvas{BackgroundColor: "#ffffff", Elements: []canvas.Element{el}}, nil, Options{Width: 100, Height: 100})
	if got := img.NRGBAAt(50, 50); got.B != 0xff || got.R != 0xff {
		t.Fatalf("zero-opacity element drew pixels: %+v", got)
	}
}

func TestComposeElementsInDocumentOrder(t *testing.T) {
	r := NewRenderer()
	c := canvas.Canvas{
		BackgroundColor: "#ffffff",
		Elements: []canvas.Element{
			squareElement("below", vector.Pt{X: 50, Y: 50}, 40, "#0000ff"),
			squareElement("above", vector.Pt{X: 50, Y: 50}, 40, "#ff0000"),
		},
	}
	img := r.Compose(c, nil, Options{Width: 100, Height: 100})
	if got := img.NRGBAAt(50, 50); got.R != 0xff || got.B == 0xff {
		t.Fatalf("later element should cover earlier one, got %+v", got)
	}
}

func TestComposeImagePlaceholderWithoutSource(t *testing.T) {
	r := NewRenderer()
	c := canvas.Canvas{
		BackgroundColor: "#ffffff",
		Elements: []canvas.Element{{
			ID:       "img1",
			Kind:     canvas.KindImage,
			Position: vector.Pt{X: 50, Y: 50},
			Size:     vector.Size{W: 60, H: 40},
			Opacity:  1,
			Image:    &canvas.ImageAttrs{URL: "https://example.test/x.jpg"},
		}},
	}
	img := r.Compose(c, nil, Options{Width: 100, Height: 100})
	got := img.NRGBAAt(50, 50)
	if got.R != 0xe0 || got.G != 0xe0 || got.B != 0xe0 {
		t.Fatalf("placeholder pixel = %+v", got)
	}
}

func TestComposeImageUsesSource(t *testing.T) {
	r := NewRenderer()
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.SetNRGBA(x, y, color.NRGBA{G: 0xff, A: 0xff})
		}
	}
	c := canvas.Canvas{
		BackgroundColor: "#ffffff",
		Elements: []canvas.Element{{
			ID:       "img1",
			Kind:     canvas.KindImage,
			Position: vector.Pt{X: 50, Y: 50},
			Size:     vector.Size{W: 40, H: 40},
			Opacity:  1,
			Image:    &canvas.ImageAttrs{URL: "https://example.test/x.jpg", Fit: canvas.FitCover},
		}},
	}
	source := func(url string) image.Image {
		if url != "https://example.test/x.jpg" {
			t.Fatalf("unexpected url %q", url)
		}
		return src
	}
	img := r.Compose(c, nil, Options{Width: 100, Height: 100, Images: source})
	if got := img.NRGBAAt(50, 50); got.G != 0xff || got.R == 0xff {
		t.Fatalf("image pixel = %+v", got)
	}
}

func TestComposeTextDrawsInk(t *testing.T) {
	r := NewRenderer()
	c := canvas.Canvas{
		BackgroundColor: "#ffffff",
		Elements: []canvas.Element{{
			ID:       "t1",
			Kind:     canvas.KindText,
			Position: vector.Pt{X: 60, Y: 40},
			Size:     vector.Size{W: 100, H: 44},
			Color:    "#000000",
			Opacity:  1,
			Text:     &canvas.TextAttrs{Content: "HELLO", FontFamily: "Go", FontWeight: 400, FontSize: 28},
		}},
	}
	img := r.Compose(c, nil, Options{Width: 120, Height: 80})
	ink := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := img.NRGBAAt(x, y)
			if p.R < 0x80 && p.G < 0x80 && p.B < 0x80 {
				ink++
			}
		}
	}
	if ink < 20 {
		t.Fatalf("expected dark text pixels, found %d", ink)
	}
}

func TestShapePathCounts(t *testing.T) {
	r := vector.R(0, 0, 100, 100)
	cases := []struct {
		kind canvas.ShapeKind
		want int
	}{
		{canvas.ShapeSquare, 4},
		{canvas.ShapeTriangle, 3},
		{canvas.ShapeDiamond, 4},
		{canvas.ShapePentagon, 5},
		{canvas.ShapeHexagon, 6},
		{canvas.ShapeOctagon, 8},
		{canvas.ShapeStar, 10},
	}
	for _, c := range cases {
		if got := len(shapePath(c.kind, r)); got != c.want {
			t.Fatalf("%v: %d vertices, want %d", c.kind, got, c.want)
		}
	}
	if got := len(shapePath(canvas.ShapeCircle, r)); got < 24 {
		t.Fatalf("circle should be finely segmented, got %d vertices", got)
	}
}

func TestFillPolygonStaysInsideOutline(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	pts := shapePath(canvas.ShapeTriangle, vector.R(0, 0, 40, 40))
	fillPolygon(img, pts, color.NRGBA{R: 0xff, A: 0xff})
	if got := img.NRGBAAt(20, 30); got.R != 0xff {
		t.Fatalf("interior pixel not filled: %+v", got)
	}
	if got := img.NRGBAAt(2, 2); got.A != 0 {
		t.Fatalf("exterior pixel filled: %+v", got)
	}
}
