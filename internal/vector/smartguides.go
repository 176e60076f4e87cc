/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Smart guides and snapping for dragging elements on the canvas. UI-agnostic
// and deterministic so the behavior is unit-testable.

import "math"

// SnapOptions controls which guide candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum distance (canvas units) at which snapping
	// occurs. Typical UI values are 6-8 points.
	Threshold     float32
	SnapToEdges   bool
	SnapToCenters bool
}

// Anchor is a static reference rect (another element's box or the canvas
// frame). Weight biases selection when distances tie; 1 when unsure.
type Anchor struct {
	Rect   Rect
	Weight float32
}

// GuideLine describes a visual guide generated during a snap alignment.
// Orientation is "vertical" or "horizontal"; Kind is "edge" or "center".
// Values are rounded to 3 decimal places for determinism.
type GuideLine struct {
	Orientation string
	Kind        string
	Position    float32
	From        Pt
	To          Pt
}

// ComputeSmartGuides computes snapping adjustments for a moving element box
// against a set of anchors. It returns the snapped box and any guide lines to
// render. Snapping happens independently in X and Y.
func ComputeSmartGuides(moving Rect, anchors []Anchor, opts SnapOptions) (Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	var bestX, bestY snapCandidate
	bestX.dist = math.MaxFloat32
	bestY.dist = math.MaxFloat32

	mL, mR, mT, mB := moving.X, moving.X+moving.W, moving.Y, moving.Y+moving.H
	mCX, mCY := moving.X+moving.W/2, moving.Y+moving.H/2

	for _, a := range anchors {
		aL, aR, aT, aB := a.Rect.X, a.Rect.X+a.Rect.W, a.Rect.Y, a.Rect.Y+a.Rect.H
		aCX, aCY := a.Rect.X+a.Rect.W/2, a.Rect.Y+a.Rect.H/2

		if opts.SnapToEdges {
			for _, pair := range [][2]float32{{mL, aL}, {mR, aR}, {mL, aR}, {mR, aL}} {
				bestX.consider(pair[0]-pair[1], opts.Threshold, a.Weight, vGuide(pair[1], moving, a.Rect, "edge"))
			}
			for _, pair := range [][2]float32{{mT, aT}, {mB, aB}, {mT, aB}, {mB, aT}} {
				bestY.consider(pair[0]-pair[1], opts.Threshold, a.Weight, hGuide(pair[1], moving, a.Rect, "edge"))
			}
		}
		if opts.SnapToCenters {
			bestX.consider(mCX-aCX, opts.Threshold, a.Weight, vGuide(aCX, moving, a.Rect, "center"))
			bestY.consider(mCY-aCY, opts.Threshold, a.Weight, hGuide(aCY, moving, a.Rect, "center"))
		}
	}

	snapped := moving
	var guides []GuideLine
	if bestX.dist <= opts.Threshold {
		snapped.X = FloatRound(moving.X-bestX.delta, 3)
		guides = append(guides, bestX.guide)
	}
	if bestY.dist <= opts.Threshold {
		snapped.Y = FloatRound(moving.Y-bestY.delta, 3)
		guides = append(guides, bestY.guide)
	}
	return snapped, guides
}

type snapCandidate struct {
	delta float32
	dist  float32
	guide GuideLine
}

func (c *snapCandidate) consider(delta, threshold, weight float32, g GuideLine) {
	dist := float32(math.Abs(float64(delta)))
	if dist > threshold {
		return
	}
	if weight < 1 {
		weight = 1
	}
	if dist/weight < c.dist {
		c.dist = dist
		c.delta = delta
		c.guide = g
	}
}

func vGuide(x float32, a, b Rect, kind string) GuideLine {
	minY := min(a.Y, b.Y)
	maxY := max(a.Y+a.H, b.Y+b.H)
	x = FloatRound(x, 3)
	return GuideLine{Orientation: "vertical", Kind: kind, Position: x, From: Pt{x, minY}, To: Pt{x, maxY}}
}

func hGuide(y float32, a, b Rect, kind string) GuideLine {
	minX := min(a.X, b.X)
	maxX := max(a.X+a.W, b.X+b.W)
	y = FloatRound(y, 3)
	return GuideLine{Orientation: "horizontal", Kind: kind, Position: y, From: Pt{minX, y}, To: Pt{maxX, y}}
}
