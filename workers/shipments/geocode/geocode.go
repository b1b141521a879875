// Package geocode resolves a postal address to coordinates. The engine only
// calls it when a shipment's coordinates are still uninitialized, so results
// act as a cache in the shipment row itself.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shipment-sync-service/config"
)

type Geocoder interface {
	Lookup(ctx context.Context, address string) (latitude, longitude float64, err error)
}

type Client struct {
	config *config.GeocodeApiConfig
	client *http.Client
}

func NewClient(cfg *config.GeocodeApiConfig) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *Client) Lookup(ctx context.Context, address string) (float64, float64, error) {
	u, err := url.Parse(c.config.BaseUri + "/geocode/json")
	if err != nil {
		return 0, 0, err
	}
	q := u.Query()
	q.Set("address", CleanAddress(address))
	q.Set("key", c.config.ApiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return 0, 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var response struct {
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return 0, 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(response.Results) == 0 {
		return 0, 0, fmt.Errorf("no geocode result for %q", address)
	}

	location := response.Results[0].Geometry.Location
	return location.Lat, location.Lng, nil
}

// CleanAddress spells out trailing country codes the geocoder chokes on.
func CleanAddress(s string) string {
	for code, name := range map[string]string{
		"DE": "Germany",
		"GB": "Great Britian",
	} {
		if strings.HasSuffix(s, " "+code) {
			return strings.TrimSuffix(s, code) + name
		}
	}
	return s
}
