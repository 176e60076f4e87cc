/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	// Register decoders for the formats photo services actually serve.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"invitestudio/internal/canvas"
	applog "invitestudio/internal/log"
)

const (
	fetchTimeout = 15 * time.Second
	// maxFetchBytes bounds a single download; stock photos are re-encoded
	// server-side and stay well under this.
	maxFetchBytes = 32 << 20
)

// Loader resolves image URLs to decoded pixels. Decoded images are held in
// memory for the session; raw bytes go through the SQLite cache when one is
// attached. Image is non-blocking and suitable as a render source.
type Loader struct {
	mu      sync.Mutex
	images  map[string]image.Image
	pending map[string]bool

	cache  *Cache // may be nil
	client *http.Client
	log    *slog.Logger

	// OnLoad fires after a background fetch lands, so the UI can redraw.
	OnLoad func(url string)
}

// NewLoader builds a loader; cache may be nil to run memory-only.
func NewLoader(cache *Cache) *Loader {
	return &Loader{
		images:  make(map[string]image.Image),
		pending: make(map[string]bool),
		cache:   cache,
		client:  &http.Client{Timeout: fetchTimeout},
		log:     applog.WithComponent("assets"),
	}
}

// Image returns the decoded image for url when already loaded, and nil
// otherwise. A miss kicks off one background fetch; concurrent callers for
// the same url share it.
func (l *Loader) Image(url string) image.Image {
	if url == "" {
		return nil
	}
	l.mu.Lock()
	if img, ok := l.images[url]; ok {
		l.mu.Unlock()
		return img
	}
	if l.pending[url] {
		l.mu.Unlock()
		return nil
	}
	l.pending[url] = true
	l.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if _, err := l.Fetch(ctx, url); err != nil {
			l.log.Warn("image fetch failed", slog.String("url", url), slog.Any("err", err))
			l.mu.Lock()
			delete(l.pending, url)
			l.mu.Unlock()
			return
		}
		if l.OnLoad != nil {
			l.OnLoad(url)
		}
	}()
	return nil
}

// Fetch loads url synchronously: memory, then cache, then HTTP. The decoded
// image is clamped to the canvas maximum dimension and retained.
func (l *Loader) Fetch(ctx context.Context, url string) (image.Image, error) {
	l.mu.Lock()
	if img, ok := l.images[url]; ok {
		l.mu.Unlock()
		return img, nil
	}
	l.mu.Unlock()

	data, err := l.bytesFor(ctx, url)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	b := img.Bounds()
	if b.Dx() > canvas.MaxImageDimension || b.Dy() > canvas.MaxImageDimension {
		img = imaging.Fit(img, canvas.MaxImageDimension, canvas.MaxImageDimension, imaging.Lanczos)
	}

	l.mu.Lock()
	l.images[url] = img
	delete(l.pending, url)
	l.mu.Unlock()
	return img, nil
}

func (l *Loader) bytesFor(ctx context.Context, url string) ([]byte, error) {
	if l.cache != nil {
		if data, ok, err := l.cache.Get(ctx, url); err != nil {
			l.log.Warn("cache read failed", slog.String("url", url), slog.Any("err", err))
		} else if ok {
			return data, nil
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if l.cache != nil {
		if err := l.cache.Put(ctx, url, data); err != nil {
			l.log.Warn("cache write failed", slog.String("url", url), slog.Any("err", err))
		}
	}
	return data, nil
}

// NaturalSize reports the decoded size for a loaded url; ok=false while the
// image is still loading.
func (l *Loader) NaturalSize(url string) (w, h int, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.images[url]
	if !ok {
		return 0, 0, false
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), true
}
