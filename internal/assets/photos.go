/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Photo is one stock-photo search hit. Medium is sized for canvas use;
// Original backs the final export.
type Photo struct {
	ID           int64
	Original     string
	Medium       string
	Photographer string
	Alt          string
}

// PhotoPage is one page of search results.
type PhotoPage struct {
	Photos  []Photo
	Page    int
	HasNext bool
}

// PhotoClient queries a Pexels-compatible photo search API.
type PhotoClient struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

// NewPhotoClient creates a photo search client. baseURL may include a
// trailing slash; it will be normalized.
func NewPhotoClient(baseURL, apiKey string) *PhotoClient {
	return &PhotoClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type photoEnvelope struct {
	Photos []struct {
		ID  int64 `json:"id"`
		Src struct {
			Original string `json:"original"`
			Medium   string `json:"medium"`
		} `json:"src"`
		Photographer string `json:"photographer"`
		Alt          string `json:"alt"`
	} `json:"photos"`
	Page     int    `json:"page"`
	NextPage string `json:"next_page"`
}

// Search runs one paginated query. Pages start at 1; perPage defaults to 30
// when zero.
func (c *PhotoClient) Search(ctx context.Context, query string, page, perPage int) (PhotoPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 30
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return c.fetch(ctx, "/search?"+q.Encode())
}

// Curated returns the editors' picks feed, used to seed the picker before
// the first query.
func (c *PhotoClient) Curated(ctx context.Context, page, perPage int) (PhotoPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 30
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return c.fetch(ctx, "/curated?"+q.Encode())
}

func (c *PhotoClient) fetch(ctx context.Context, path string) (PhotoPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return PhotoPage{}, err
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", c.APIKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return PhotoPage{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return PhotoPage{}, fmt.Errorf("photo search: %s", resp.Status)
	}
	var env photoEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return PhotoPage{}, fmt.Errorf("photo search decode: %w", err)
	}
	out := PhotoPage{Page: env.Page, HasNext: env.NextPage != ""}
	for _, p := range env.Photos {
		out.Photos = append(out.Photos, Photo{
			ID:           p.ID,
			Original:     p.Src.Original,
			Medium:       p.Src.Medium,
			Photographer: p.Photographer,
			Alt:          p.Alt,
		})
	}
	return out, nil
}
