/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.ConfigVersion != 1 {
		t.Fatalf("unexpected config version: %d", cfg.ConfigVersion)
	}
	if cfg.Backend.TimeoutMs != 10000 {
		t.Fatalf("unexpected default timeout: %d", cfg.Backend.TimeoutMs)
	}
	if cfg.General.TelemetryOptIn {
		t.Fatalf("telemetry must default to opt-out")
	}
}

func TestMergeIntoKeepsDefaultsForEmptyFields(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Backend: BackendConfig{BaseURL: "https://api.example.com"}}
	mergeInto(&dst, &src)
	if dst.Backend.BaseURL != "https://api.example.com" {
		t.Fatalf("base url not merged: %q", dst.Backend.BaseURL)
	}
	if dst.Backend.TimeoutMs != 10000 {
		t.Fatalf("timeout should keep default, got %d", dst.Backend.TimeoutMs)
	}
	if dst.Logging.Level != "info" {
		t.Fatalf("logging level should keep default, got %q", dst.Logging.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvBackendURL, "https://override.example.com")
	t.Setenv(EnvBackendTimeoutMs, "2500")
	t.Setenv(EnvLogLevel, "DEBUG")
	cfg := Defaults()
	applyEnvOverrides(&cfg)
	if cfg.Backend.BaseURL != "https://override.example.com" {
		t.Fatalf("env url override not applied: %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutMs != 2500 {
		t.Fatalf("env timeout override not applied: %d", cfg.Backend.TimeoutMs)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("env log level not lowered: %q", cfg.Logging.Level)
	}
}

func TestEffectiveTimeout(t *testing.T) {
	if d := (BackendConfig{TimeoutMs: 2500}).EffectiveTimeout(); d != 2500*time.Millisecond {
		t.Fatalf("unexpected timeout: %v", d)
	}
	if d := (BackendConfig{}).EffectiveTimeout(); d != 10*time.Second {
		t.Fatalf("zero timeout should fall back to default, got %v", d)
	}
	if d := (BackendConfig{TimeoutMs: -5}).EffectiveTimeout(); d != 10*time.Second {
		t.Fatalf("negative timeout should fall back to default, got %v", d)
	}
}
