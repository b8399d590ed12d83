// Package snapshot downloads a schema snapshot (device classes and entity
// types) from a Thingpedia-compatible server.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrHTTPStatus is returned when the server answers with a non-2xx status.
var ErrHTTPStatus = errors.New("snapshot: unexpected HTTP status")

// Options selects which snapshot to download.
type Options struct {
	// Locale is the 2-letter language code, e.g. "en".
	Locale string

	// Snapshot is the snapshot identifier; "-1" selects the latest.
	Snapshot string

	// DeveloperKey, when set, is sent with every request.
	DeveloperKey string
}

// Snapshot is the downloaded document. Payloads are kept verbatim.
type Snapshot struct {
	Devices  json.RawMessage `json:"devices"`
	Entities json.RawMessage `json:"entities"`
}

// Client downloads snapshots.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a Client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 5 * time.Minute},
	}
}

// DevicesURL returns the URL of the device snapshot.
func (c *Client) DevicesURL(opts Options) string {
	q := url.Values{}
	q.Set("meta", "1")
	q.Set("locale", opts.Locale)

	if opts.DeveloperKey != "" {
		q.Set("developer_key", opts.DeveloperKey)
	}

	return c.BaseURL + "/api/v3/snapshot/" + url.PathEscape(opts.Snapshot) + "?" + q.Encode()
}

// EntitiesURL returns the URL of the entity type listing.
func (c *Client) EntitiesURL(opts Options) string {
	q := url.Values{}
	q.Set("snapshot", opts.Snapshot)
	q.Set("locale", opts.Locale)

	if opts.DeveloperKey != "" {
		q.Set("developer_key", opts.DeveloperKey)
	}

	return c.BaseURL + "/api/v3/entities/all?" + q.Encode()
}

// Download fetches devices and entities concurrently.
func (c *Client) Download(ctx context.Context, opts Options) (*Snapshot, error) {
	if opts.Locale == "" {
		opts.Locale = "en"
	}

	if opts.Snapshot == "" {
		opts.Snapshot = "-1"
	}

	var snap Snapshot

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		data, err := c.fetchData(egCtx, c.DevicesURL(opts))
		if err != nil {
			return fmt.Errorf("devices: %w", err)
		}

		snap.Devices = data

		return nil
	})

	eg.Go(func() error {
		data, err := c.fetchData(egCtx, c.EntitiesURL(opts))
		if err != nil {
			return fmt.Errorf("entities: %w", err)
		}

		snap.Entities = data

		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &snap, nil
}

// fetchData GETs u and returns the "data" member of the JSON envelope.
func (c *Client) fetchData(ctx context.Context, u string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return envelope.Data, nil
}

// Write encodes the snapshot as a single JSON document.
func Write(w io.Writer, snap *Snapshot) error {
	return json.NewEncoder(w).Encode(snap)
}
