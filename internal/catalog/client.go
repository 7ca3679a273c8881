// Copyright 2021 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package catalog is a client for the remote firmware catalog.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/firedevel/blobsaver/api"
)

// DefaultURL is the base URL of the public catalog's device endpoint.
const DefaultURL = "https://api.ipsw.me/v4/device"

// FetchError is returned when a device's firmware listing could not be
// fetched or understood.
type FetchError struct {
	Identifier string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch firmware listing for %q: %v", e.Identifier, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Listing is the catalog's JSON representation of a device and its firmwares.
type Listing struct {
	Name        string     `json:"name"`
	Identifier  string     `json:"identifier"`
	BoardConfig string     `json:"boardconfig"`
	Firmwares   []Firmware `json:"firmwares"`
}

// Firmware is one entry of a Listing.
type Firmware struct {
	Identifier string `json:"identifier"`
	Version    string `json:"version"`
	BuildID    string `json:"buildid"`
	Signed     bool   `json:"signed"`
}

// Client fetches firmware listings.
type Client struct {
	// BaseURL is the device endpoint, e.g. DefaultURL.
	BaseURL *url.URL
	// HTTP is used for requests. http.DefaultClient is used if nil.
	HTTP *http.Client
}

// DeviceURL returns the URL listing firmwares for identifier.
func (c *Client) DeviceURL(identifier string) *url.URL {
	u := c.BaseURL.JoinPath(identifier)
	u.RawQuery = url.Values{"type": {"ipsw"}}.Encode()
	return u
}

// Listing fetches and decodes the raw listing for identifier.
func (c *Client) Listing(ctx context.Context, identifier string) (*Listing, error) {
	raw, err := c.fetch(ctx, identifier)
	if err != nil {
		return nil, &FetchError{Identifier: identifier, Err: err}
	}
	l, err := ParseListing(raw)
	if err != nil {
		return nil, &FetchError{Identifier: identifier, Err: err}
	}
	return l, nil
}

// Firmwares returns the firmware candidates for identifier in listing order.
// Every candidate carries the device-level board config from the listing.
func (c *Client) Firmwares(ctx context.Context, identifier string) ([]api.FirmwareCandidate, error) {
	l, err := c.Listing(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return l.Candidates(), nil
}

// Candidates converts the listing's firmwares.
func (l *Listing) Candidates() []api.FirmwareCandidate {
	r := make([]api.FirmwareCandidate, 0, len(l.Firmwares))
	for _, f := range l.Firmwares {
		r = append(r, api.FirmwareCandidate{
			Version:     f.Version,
			BuildID:     f.BuildID,
			BoardConfig: l.BoardConfig,
			Signed:      f.Signed,
		})
	}
	return r
}

// ParseListing decodes a raw catalog response.
func ParseListing(raw []byte) (*Listing, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("empty response")
	}
	var l Listing
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}
	if l.BoardConfig == "" {
		return nil, fmt.Errorf("listing has no boardconfig")
	}
	return &l, nil
}

// Raw fetches the undecoded listing for identifier.
func (c *Client) Raw(ctx context.Context, identifier string) ([]byte, error) {
	raw, err := c.fetch(ctx, identifier)
	if err != nil {
		return nil, &FetchError{Identifier: identifier, Err: err}
	}
	return raw, nil
}

func (c *Client) fetch(ctx context.Context, identifier string) ([]byte, error) {
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DeviceURL(identifier).String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status %q", resp.Status)
	}
	return body, nil
}
