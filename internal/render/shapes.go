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
	"math"
	"sort"

	"invitestudio/internal/canvas"
	"invitestudio/internal/vector"
)

const circleSegments = 48

// shapePath returns the closed outline of a shape inscribed in r, as a
// polygon in the rect's coordinate space. Curved shapes are approximated by
// short segments.
func shapePath(kind canvas.ShapeKind, r vector.Rect) []vector.Pt {
	c := r.Center()
	rx := r.W / 2
	ry := r.H / 2
	switch kind {
	case canvas.ShapeSquare:
		return []vector.Pt{
			{X: r.X, Y: r.Y},
			{X: r.X + r.W, Y: r.Y},
			{X: r.X + r.W, Y: r.Y + r.H},
			{X: r.X, Y: r.Y + r.H},
		}
	case canvas.ShapeCircle:
		pts := make([]vector.Pt, 0, circleSegments)
		for i := 0; i < circleSegments; i++ {
			a := 2 * math.Pi * float64(i) / circleSegments
			pts = append(pts, vector.Pt{
				X: c.X + rx*float32(math.Cos(a)),
				Y: c.Y + ry*float32(math.Sin(a)),
			})
		}
		return pts
	case canvas.ShapeTriangle:
		return []vector.Pt{
			{X: c.X, Y: r.Y},
			{X: r.X + r.W, Y: r.Y + r.H},
			{X: r.X, Y: r.Y + r.H},
		}
	case canvas.ShapePentagon:
		return regularPolygon(c, rx, ry, 5)
	case canvas.ShapeHexagon:
		return regularPolygon(c, rx, ry, 6)
	case canvas.ShapeOctagon:
		return regularPolygon(c, rx, ry, 8)
	case canvas.ShapeStar:
		return starPolygon(c, rx, ry, 5)
	case canvas.ShapeDiamond:
		return []vector.Pt{
			{X: c.X, Y: r.Y},
			{X: r.X + r.W, Y: c.Y},
			{X: c.X, Y: r.Y + r.H},
			{X: r.X, Y: c.Y},
		}
	case canvas.ShapeHeart:
		return heartPolygon(c, rx, ry)
	}
	return shapePath(canvas.ShapeSquare, r)
}

// regularPolygon places n vertices on the inscribing ellipse, first vertex
// pointing up.
func regularPolygon(c vector.Pt, rx, ry float32, n int) []vector.Pt {
	pts := make([]vector.Pt, 0, n)
	for i := 0; i < n; i++ {
		a := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
		pts = append(pts, vector.Pt{
			X: c.X + rx*float32(math.Cos(a)),
			Y: c.Y + ry*float32(math.Sin(a)),
		})
	}
	return pts
}

// starPolygon alternates outer and inner vertices; the inner radius ratio
// matches a classic five-pointed star.
func starPolygon(c vector.Pt, rx, ry float32, points int) []vector.Pt {
	const innerRatio = 0.4
	pts := make([]vector.Pt, 0, points*2)
	for i := 0; i < points*2; i++ {
		a := math.Pi*float64(i)/float64(points) - math.Pi/2
		fx, fy := rx, ry
		if i%2 == 1 {
			fx *= innerRatio
			fy *= innerRatio
		}
		pts = append(pts, vector.Pt{
			X: c.X + fx*float32(math.Cos(a)),
			Y: c.Y + fy*float32(math.Sin(a)),
		})
	}
	return pts
}

// heartPolygon samples the classic parametric heart curve, scaled into the
// inscribing ellipse.
func heartPolygon(c vector.Pt, rx, ry float32) []vector.Pt {
	const segments = 64
	pts := make([]vector.Pt, 0, segments)
	for i := 0; i < segments; i++ {
		t := 2 * math.Pi * float64(i) / segments
		// x in [-16,16], y in about [-17,12] with y up; flip for screen.
		x := 16 * math.Pow(math.Sin(t), 3)
		y := 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
		pts = append(pts, vector.Pt{
			X: c.X + rx*float32(x/17),
			Y: c.Y - ry*float32(y/17),
		})
	}
	return pts
}

// fillPolygon rasterizes pts with an even-odd scanline fill, blending col
// over the destination.
func fillPolygon(img *image.NRGBA, pts []vector.Pt, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	b := img.Bounds()
	y0 := int(math.Floor(float64(minY)))
	y1 := int(math.Ceil(float64(maxY)))
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}
	xs := make([]float64, 0, 8)
	for y := y0; y < y1; y++ {
		sy := float64(y) + 0.5
		xs = xs[:0]
		for i := range pts {
			a := pts[i]
			bp := pts[(i+1)%len(pts)]
			ay, by := float64(a.Y), float64(bp.Y)
			if (ay <= sy && by > sy) || (by <= sy && ay > sy) {
				t := (sy - ay) / (by - ay)
				xs = append(xs, float64(a.X)+t*(float64(bp.X)-float64(a.X)))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i] - 0.5))
			x1 := int(math.Floor(xs[i+1] - 0.5))
			if x0 < b.Min.X {
				x0 = b.Min.X
			}
			if x1 >= b.Max.X {
				x1 = b.Max.X - 1
			}
			for x := x0; x <= x1; x++ {
				blendNRGBA(img, x, y, col)
			}
		}
	}
}

// strokePolygon draws the closed outline with the given width by filling one
// quad per edge plus a small square at each joint.
func strokePolygon(img *image.NRGBA, pts []vector.Pt, width float32, col color.NRGBA) {
	if len(pts) < 2 {
		return
	}
	if width < 1 {
		width = 1
	}
	half := width / 2
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		// unit normal
		nx, ny := -dy/l*half, dx/l*half
		fillPolygon(img, []vector.Pt{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		}, col)
		fillPolygon(img, []vector.Pt{
			{X: a.X - half, Y: a.Y - half},
			{X: a.X + half, Y: a.Y - half},
			{X: a.X + half, Y: a.Y + half},
			{X: a.X - half, Y: a.Y + half},
		}, col)
	}
}

// blendNRGBA composites col over the pixel at x,y (source-over).
func blendNRGBA(img *image.NRGBA, x, y int, col color.NRGBA) {
	if col.A == 0 {
		return
	}
	if col.A == 0xff {
		img.SetNRGBA(x, y, col)
		return
	}
	dst := img.NRGBAAt(x, y)
	sa := uint32(col.A)
	da := uint32(dst.A)
	outA := sa + da*(255-sa)/255
	if outA == 0 {
		img.SetNRGBA(x, y, color.NRGBA{})
		return
	}
	blend := func(s, d uint8) uint8 {
		return uint8((uint32(s)*sa + uint32(d)*da*(255-sa)/255) / outA)
	}
	img.SetNRGBA(x, y, color.NRGBA{
		R: blend(col.R, dst.R),
		G: blend(col.G, dst.G),
		B: blend(col.B, dst.B),
		A: uint8(outA),
	})
}
