/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry sends anonymous usage events and crash reports.
// Everything here is opt-in and best effort: with no endpoint
// configured, or opt-in unset, every call is a no-op.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	applog "invitestudio/internal/log"
	"invitestudio/internal/version"
)

// queueCap bounds the pending-event channel so a dead endpoint cannot
// grow memory; overflow events are dropped.
const queueCap = 64

// Config controls whether and where events are sent.
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

// FromEnv builds a Config from the IVS_TELEMETRY_* environment:
// IVS_TELEMETRY_OPT_IN enables sending ("1"/"true"/"yes"/"on"),
// IVS_TELEMETRY_URL and IVS_CRASH_UPLOAD_URL name the endpoints,
// IVS_TELEMETRY_TIMEOUT_MS overrides the 1500ms request timeout, and
// IVS_TELEMETRY_DEBUG logs each send attempt.
func FromEnv() Config {
	cfg := Config{
		OptIn:        parseBool(os.Getenv("IVS_TELEMETRY_OPT_IN")),
		EventsURL:    strings.TrimSpace(os.Getenv("IVS_TELEMETRY_URL")),
		CrashURL:     strings.TrimSpace(os.Getenv("IVS_CRASH_UPLOAD_URL")),
		Timeout:      1500 * time.Millisecond,
		DebugLogging: os.Getenv("IVS_TELEMETRY_DEBUG") != "",
	}
	if ms := strings.TrimSpace(os.Getenv("IVS_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Client queues events and posts them from a background goroutine.
// Callers never block; failed sends are dropped.
type Client struct {
	cfg   Config
	log   *slog.Logger
	httpc *http.Client
	queue chan any
	once  sync.Once
	done  chan struct{}
}

var defaultClient *Client
var defaultOnce sync.Once

// InitDefault lazily builds the package-level client from the environment.
func InitDefault() {
	defaultOnce.Do(func() {
		NewDefault(FromEnv())
	})
}

// NewDefault installs cfg as the package-level client.
func NewDefault(cfg Config) {
	defaultClient = New(cfg)
}

// New starts a client and its sender goroutine.
func New(cfg Config) *Client {
	c := &Client{
		cfg:   cfg,
		log:   applog.WithComponent("telemetry"),
		httpc: &http.Client{Timeout: cfg.Timeout},
		queue: make(chan any, queueCap),
		done:  make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events would actually be sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Enabled reports whether the default client would send events.
func Enabled() bool {
	InitDefault()
	return defaultClient.Enabled()
}

// Event queues a named event, such as "element_added" or
// "design_published". Props must not contain personal data.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	payload := map[string]any{
		"name":    name,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"version": version.String(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range props {
		payload[k] = v
	}
	select {
	case c.queue <- payload:
	default:
		// queue full, drop
	}
}

// Event queues a named event on the default client.
func Event(name string, props map[string]any) { InitDefault(); defaultClient.Event(name, props) }

// Flush waits up to half a second for the queue to drain, typically
// right before shutdown.
func (c *Client) Flush(ctx context.Context) {
	deadline := time.Now().Add(500 * time.Millisecond)
	for {
		if len(c.queue) == 0 || time.Now().After(deadline) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(25 * time.Millisecond):
		}
	}
}

// Close stops the sender goroutine. Pending events are discarded.
func (c *Client) Close() { c.once.Do(func() { close(c.done) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.done:
			return
		case item := <-c.queue:
			c.send(item)
		}
	}
}

func (c *Client) send(item any) {
	buf, _ := json.Marshal(item)
	req, err := http.NewRequest(http.MethodPost, c.cfg.EventsURL, bytes.NewReader(buf))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		if c.cfg.DebugLogging {
			c.log.Debug("event send failed", slog.Any("err", err))
		}
		return
	}
	_ = resp.Body.Close()
	if c.cfg.DebugLogging {
		c.log.Debug("event sent")
	}
}

// UploadCrash posts a serialized crash report to the crash endpoint.
// Reports only go out when the user opted in and a CrashURL is set.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	go func(b []byte) {
		req, err := http.NewRequest(http.MethodPost, c.cfg.CrashURL, bytes.NewReader(b))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
		resp, err := c.httpc.Do(req)
		if err != nil {
			if c.cfg.DebugLogging {
				c.log.Debug("crash upload failed", slog.Any("err", err))
			}
			return
		}
		_ = resp.Body.Close()
		if c.cfg.DebugLogging {
			c.log.Debug("crash report uploaded")
		}
	}(append([]byte(nil), report...))
}

// UploadCrash posts a crash report through the default client.
func UploadCrash(report []byte) { InitDefault(); defaultClient.UploadCrash(report) }
