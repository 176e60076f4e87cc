/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package publish turns the current canvas into a JPEG and ships it to the
// backend. Capture and upload are separate steps so the user can review the
// preview before anything leaves the device.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"strconv"

	"github.com/disintegration/imaging"

	"invitestudio/internal/backend"
	"invitestudio/internal/canvas"
	"invitestudio/internal/gesture"
	applog "invitestudio/internal/log"
	"invitestudio/internal/render"
	"invitestudio/internal/studio"
)

// State is the pipeline phase. Failed uploads return to StateCaptured so the
// user can retry from the same snapshot.
type State uint8

const (
	StateIdle State = iota
	StateCapturing
	StateCaptured
	StateUploading
	StatePublished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateCaptured:
		return "captured"
	case StateUploading:
		return "uploading"
	case StatePublished:
		return "published"
	}
	return "unknown"
}

var (
	ErrNotCaptured = errors.New("publish: nothing captured")
	ErrBusy        = errors.New("publish: operation in progress")
)

const jpegQuality = 90

// CaptureOptions sizes the snapshot and its preview.
type CaptureOptions struct {
	Width, Height int
	// Scale converts canvas units to snapshot pixels; 1 when zero.
	Scale float32
	// PreviewWidth is the on-screen preview width in pixels, typically the
	// screen width minus horizontal padding. Preview height follows the
	// snapshot aspect ratio. Zero skips the preview.
	PreviewWidth int
}

// Result describes a completed publish.
type Result struct {
	DesignID int64
	URL      string
	FileName string
}

// Pipeline drives capture and publish for one session.
type Pipeline struct {
	session  *studio.Session
	engine   *gesture.Engine
	renderer *render.Renderer
	client   *backend.Client
	images   render.ImageSource

	// AfterHide runs between hiding the selection controls and rendering,
	// so a UI can flush a frame without overlays first.
	AfterHide func()

	state    State
	captured *image.NRGBA
	preview  *image.NRGBA
	log      *slog.Logger
}

func NewPipeline(session *studio.Session, engine *gesture.Engine, renderer *render.Renderer, client *backend.Client, images render.ImageSource) *Pipeline {
	return &Pipeline{
		session:  session,
		engine:   engine,
		renderer: renderer,
		client:   client,
		images:   images,
		log:      applog.WithComponent("publish"),
	}
}

// carriedTransforms maps every element with a saved scale or rotation to its
// baseline transform, so the snapshot matches the on-screen pose. Committed
// positions need no entry; only scale and rotation live outside the store.
func (p *Pipeline) carriedTransforms(c canvas.Canvas) map[string]gesture.Transform {
	if p.engine == nil {
		return nil
	}
	var out map[string]gesture.Transform
	for i := range c.Elements {
		id := c.Elements[i].ID
		s, r := p.engine.Baseline(id)
		if s == 1 && r == 0 {
			continue
		}
		if out == nil {
			out = make(map[string]gesture.Transform)
		}
		out[id] = gesture.Transform{Scale: s, Rotate: r}
	}
	return out
}

func (p *Pipeline) State() State { return p.state }

// Preview returns the scaled preview from the last capture, or nil.
func (p *Pipeline) Preview() *image.NRGBA { return p.preview }

// Snapshot returns the full-size capture, or nil.
func (p *Pipeline) Snapshot() *image.NRGBA { return p.captured }

// Capture renders the canvas without selection controls, at each element's
// carried pose, and stores the snapshot plus a preview. Re-capturing
// replaces any earlier snapshot.
func (p *Pipeline) Capture(opts CaptureOptions) (*image.NRGBA, error) {
	if p.state == StateCapturing || p.state == StateUploading {
		return nil, ErrBusy
	}
	p.state = StateCapturing
	p.session.HideControls()
	defer p.session.ShowControls()
	if p.AfterHide != nil {
		p.AfterHide()
	}

	snap := p.session.Store().Snapshot()
	img := p.renderer.Compose(snap, p.carriedTransforms(snap), render.Options{
		Width:  opts.Width,
		Height: opts.Height,
		Scale:  opts.Scale,
		Images: p.images,
	})
	p.captured = img
	p.preview = nil
	if opts.PreviewWidth > 0 && img.Bounds().Dx() > 0 {
		ph := opts.PreviewWidth * img.Bounds().Dy() / img.Bounds().Dx()
		p.preview = imaging.Resize(img, opts.PreviewWidth, ph, imaging.Lanczos)
	}
	p.state = StateCaptured
	p.log.Info("captured",
		slog.Int("w", img.Bounds().Dx()),
		slog.Int("h", img.Bounds().Dy()),
	)
	return img, nil
}

// Publish encodes the captured snapshot, uploads it and registers the
// design. The canvas learns its design id only after both calls succeed; a
// failure leaves the snapshot in place for a retry and returns one error.
func (p *Pipeline) Publish(ctx context.Context, categoryID int64, title string) (Result, error) {
	switch p.state {
	case StateCaptured, StatePublished:
	case StateUploading, StateCapturing:
		return Result{}, ErrBusy
	default:
		return Result{}, ErrNotCaptured
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, p.captured, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Result{}, fmt.Errorf("encode jpeg: %w", err)
	}

	p.state = StateUploading
	up, err := p.client.UploadImage(ctx, buf.Bytes())
	if err != nil {
		p.state = StateCaptured
		p.log.Warn("upload failed", slog.Any("err", err))
		return Result{}, fmt.Errorf("publish: %w", err)
	}
	id, err := p.client.StoreDesign(ctx, categoryID, up.FileName, title)
	if err != nil {
		p.state = StateCaptured
		p.log.Warn("design store failed", slog.Any("err", err))
		return Result{}, fmt.Errorf("publish: %w", err)
	}

	p.session.Store().SetDesignID(strconv.FormatInt(id, 10))
	p.state = StatePublished
	p.log.Info("published", slog.Int64("design_id", id))
	return Result{DesignID: id, URL: up.URL, FileName: up.FileName}, nil
}

// Reset drops the snapshot and returns the pipeline to idle.
func (p *Pipeline) Reset() {
	if p.state == StateCapturing || p.state == StateUploading {
		return
	}
	p.captured = nil
	p.preview = nil
	p.state = StateIdle
}
