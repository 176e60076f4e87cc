/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"math"
	"time"
)

// Tap debouncing policy: a touch sequence counts as a press only when the
// pointer barely moved, was released quickly, and enough time passed since
// the last accepted press. This keeps the release at the end of a drag from
// being misread as a new select-tap.
const (
	TapMaxMovement = float32(5) // px
	TapMaxDuration = 200 * time.Millisecond
	TapRefractory  = 300 * time.Millisecond // min gap between accepted presses
)

// TapFilter accepts or rejects touch sequences as presses. Zero value is
// ready to use; now is overridable for tests.
type TapFilter struct {
	lastAccepted time.Time
	now          func() time.Time
}

// Press reports whether a touch that started at start, ended now, and moved
// (dx,dy) overall counts as a press.
func (f *TapFilter) Press(start time.Time, dx, dy float32) bool {
	clock := f.now
	if clock == nil {
		clock = time.Now
	}
	end := clock()

	moved := float32(math.Hypot(float64(dx), float64(dy)))
	if moved >= TapMaxMovement {
		return false
	}
	if end.Sub(start) >= TapMaxDuration {
		return false
	}
	if !f.lastAccepted.IsZero() && end.Sub(f.lastAccepted) < TapRefractory {
		return false
	}
	f.lastAccepted = end
	return true
}
