/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package canvas holds the element data model and the per-session store for
// one editable composition. Paint order equals list order; later = on top.
package canvas

import (
	"invitestudio/internal/vector"
)

// Kind discriminates the element variants. Rendering and editing switch on it
// exhaustively; adding a kind is a compile-visible change.
type Kind uint8

const (
	KindText Kind = iota
	KindShape
	KindImage
	KindIcon
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindShape:
		return "shape"
	case KindImage:
		return "image"
	case KindIcon:
		return "icon"
	}
	return "unknown"
}

// ShapeKind names the built-in shape geometries.
type ShapeKind string

const (
	ShapeSquare   ShapeKind = "square"
	ShapeCircle   ShapeKind = "circle"
	ShapeTriangle ShapeKind = "triangle"
	ShapePentagon ShapeKind = "pentagon"
	ShapeHexagon  ShapeKind = "hexagon"
	ShapeStar     ShapeKind = "star"
	ShapeHeart    ShapeKind = "heart"
	ShapeDiamond  ShapeKind = "diamond"
	ShapeOctagon  ShapeKind = "octagon"
)

// ShapeStyle selects filled or outlined rendering.
type ShapeStyle string

const (
	StyleFill   ShapeStyle = "fill"
	StyleStroke ShapeStyle = "stroke"
)

// ImageFit selects how image pixels map into the element box.
type ImageFit string

const (
	FitCover   ImageFit = "cover"
	FitContain ImageFit = "contain"
	FitFill    ImageFit = "fill"
)

// TextEffect is optional decoration for text elements.
type TextEffect struct {
	Shadow  bool
	Outline bool
}

// TextAttrs are the text-variant attributes.
type TextAttrs struct {
	Content    string
	FontFamily string
	FontWeight int // 400 regular, 700 bold
	FontSize   float32
	Effect     TextEffect
}

// ShapeEffect is optional decoration for shape elements.
type ShapeEffect struct {
	Shadow bool
}

// ShapeAttrs are the shape-variant attributes.
type ShapeAttrs struct {
	Shape       ShapeKind
	Style       ShapeStyle
	StrokeWidth float32
	StrokeJoin  vector.LineJoin
	StrokeCap   vector.LineCap
	Effect      ShapeEffect
}

// ImageAttrs are the image-variant attributes.
type ImageAttrs struct {
	URL       string
	Fit       ImageFit
	Blur      float32
	Grayscale bool
}

// IconAttrs are the icon-variant attributes. Thumbnail names a built-in
// vector source rendered contain-fit into the element box.
type IconAttrs struct {
	Thumbnail string
}

// Element is one placed object. Position is the committed center of the
// element's box; it never reflects an in-flight gesture. Exactly one variant
// pointer is non-nil, matching Kind.
type Element struct {
	ID       string
	Kind     Kind
	Position vector.Pt
	Size     vector.Size
	Color    string // hex fill/foreground
	Opacity  float32
	Text     *TextAttrs
	Shape    *ShapeAttrs
	Image    *ImageAttrs
	Icon     *IconAttrs
}

// Box is the committed, axis-aligned bounding box around Position.
func (e Element) Box() vector.Rect {
	return vector.R(e.Position.X-e.Size.W/2, e.Position.Y-e.Size.H/2, e.Size.W, e.Size.H)
}

// clone deep-copies the element so snapshots cannot alias store state.
func (e Element) clone() Element {
	c := e
	if e.Text != nil {
		t := *e.Text
		c.Text = &t
	}
	if e.Shape != nil {
		s := *e.Shape
		c.Shape = &s
	}
	if e.Image != nil {
		i := *e.Image
		c.Image = &i
	}
	if e.Icon != nil {
		i := *e.Icon
		c.Icon = &i
	}
	return c
}

// Canvas is an immutable snapshot of one composition: the ordered element
// list plus background and the server-assigned design reference (once
// published).
type Canvas struct {
	Elements        []Element
	BackgroundColor string
	BackgroundImage string
	DesignID        string
}

// Find returns the element with the given id and whether it exists.
func (c Canvas) Find(id string) (Element, bool) {
	for _, e := range c.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

// Patch carries a shallow merge for Update; nil fields are left untouched.
type Patch struct {
	Position *vector.Pt
	Size     *vector.Size
	Color    *string
	Opacity  *float32
	Text     *TextPatch
	Shape    *ShapePatch
	Image    *ImagePatch
	Icon     *IconPatch
}

type TextPatch struct {
	Content    *string
	FontFamily *string
	FontWeight *int
	FontSize   *float32
	Effect     *TextEffect
}

type ShapePatch struct {
	Shape       *ShapeKind
	Style       *ShapeStyle
	StrokeWidth *float32
	StrokeJoin  *vector.LineJoin
	StrokeCap   *vector.LineCap
	Effect      *ShapeEffect
}

type ImagePatch struct {
	URL       *string
	Fit       *ImageFit
	Blur      *float32
	Grayscale *bool
}

type IconPatch struct {
	Thumbnail *string
}

// Ptr is a convenience for building patches inline.
func Ptr[T any](v T) *T { return &v }
