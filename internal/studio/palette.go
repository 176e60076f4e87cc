/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package studio

import "invitestudio/internal/canvas"

// Built-in catalogs backing the editor panels.

// ColorPalette is the swatch row shown in every style panel.
var ColorPalette = []string{
	"#000000", "#ffffff", "#f44336", "#e91e63", "#9c27b0",
	"#3f51b5", "#2196f3", "#00bcd4", "#009688", "#4caf50",
	"#cddc39", "#ffc107", "#ff9800", "#795548", "#607d8b",
}

// FontFamilies lists the families offered by the text style panel. The
// renderer maps unknown families to the default face.
var FontFamilies = []string{
	"Go", "Go Medium", "Go Smallcaps",
}

// FontWeights maps panel labels to numeric weights.
var FontWeights = map[string]int{
	"regular": 400,
	"bold":    700,
}

// ShapeCatalog is the add-shape picker, in display order.
var ShapeCatalog = []canvas.ShapeKind{
	canvas.ShapeSquare, canvas.ShapeCircle, canvas.ShapeTriangle,
	canvas.ShapePentagon, canvas.ShapeHexagon, canvas.ShapeStar,
	canvas.ShapeHeart, canvas.ShapeDiamond, canvas.ShapeOctagon,
}

// IconCatalog names the built-in icon thumbnails; each resolves to a vector
// source in the renderer.
var IconCatalog = []string{
	"star", "heart", "diamond", "hexagon", "pentagon",
}
