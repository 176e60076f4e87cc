/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package backend is a minimal HTTP client for the publishing API. The
// backend is opaque to the app: one call uploads the rendered JPEG, one call
// registers the design. Responses are validated against embedded JSON
// schemas before any field is trusted.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	applog "invitestudio/internal/log"
)

// Client talks to the publishing backend. A zero token sends unauthenticated
// requests; the server decides whether those are allowed.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
	log     *slog.Logger
}

// NewClient creates a backend client. baseURL may include a trailing slash;
// it will be normalized.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: timeout},
		log:     applog.WithComponent("backend"),
	}
}

// UploadedImage is the result of a successful image upload.
type UploadedImage struct {
	URL      string
	FileName string
}

const uploadSchema = `{
	"type": "object",
	"required": ["data"],
	"properties": {
		"data": {
			"type": "object",
			"required": ["url", "file_name"],
			"properties": {
				"url": {"type": "string", "minLength": 1},
				"file_name": {"type": "string", "minLength": 1}
			}
		}
	}
}`

const designSchema = `{
	"type": "object",
	"required": ["data"],
	"properties": {
		"data": {
			"type": "object",
			"required": ["design"],
			"properties": {
				"design": {
					"type": "object",
					"required": ["id"],
					"properties": {
						"id": {"type": "integer"}
					}
				}
			}
		}
	}
}`

// UploadImage posts the rendered JPEG as one multipart request and returns
// the stored image's URL and server-side file name. There is no retry; the
// caller surfaces the failure and the user triggers publishing again.
func (c *Client) UploadImage(ctx context.Context, jpeg []byte) (UploadedImage, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "image.jpg")
	if err != nil {
		return UploadedImage{}, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := fw.Write(jpeg); err != nil {
		return UploadedImage{}, fmt.Errorf("write multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadedImage{}, fmt.Errorf("close multipart: %w", err)
	}

	raw, err := c.post(ctx, "/image-upload", mw.FormDataContentType(), &body)
	if err != nil {
		return UploadedImage{}, err
	}
	if err := validate(uploadSchema, raw); err != nil {
		return UploadedImage{}, fmt.Errorf("image upload response: %w", err)
	}
	var env struct {
		Data struct {
			URL      string `json:"url"`
			FileName string `json:"file_name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return UploadedImage{}, fmt.Errorf("decode upload response: %w", err)
	}
	c.log.Info("image uploaded", slog.String("file", env.Data.FileName))
	return UploadedImage{URL: env.Data.URL, FileName: env.Data.FileName}, nil
}

// StoreDesign registers an uploaded image as a design and returns the new
// design id.
func (c *Client) StoreDesign(ctx context.Context, categoryID int64, fileName, title string) (int64, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := map[string]string{
		"category_id": strconv.FormatInt(categoryID, 10),
		"image":       fileName,
		"title":       title,
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return 0, fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("close multipart: %w", err)
	}

	raw, err := c.post(ctx, "/designs/store", mw.FormDataContentType(), &body)
	if err != nil {
		return 0, err
	}
	if err := validate(designSchema, raw); err != nil {
		return 0, fmt.Errorf("design store response: %w", err)
	}
	var env struct {
		Data struct {
			Design struct {
				ID int64 `json:"id"`
			} `json:"design"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return 0, fmt.Errorf("decode design response: %w", err)
	}
	c.log.Info("design stored", slog.Int64("id", env.Data.Design.ID))
	return env.Data.Design.ID, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server POST %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("server POST %s: %s", path, resp.Status)
	}
	return raw, nil
}

func validate(schema string, doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema violation: %s", strings.Join(msgs, "; "))
	}
	return nil
}
