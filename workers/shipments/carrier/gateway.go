package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"shipment-sync-service/config"
)

// ErrUnsupportedCarrier is returned when the gateway has no tracking support
// for a carrier. Callers may fall back to scraping the carrier's public
// tracking page.
var ErrUnsupportedCarrier = errors.New("carrier not supported by tracking gateway")

// Gateway creates shipping labels, queries tracking status, registers
// tracking webhooks and schedules pickups with the carrier aggregation API.
type Gateway interface {
	CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error)
	PurchaseLabel(ctx context.Context, rateId string) (*Label, error)
	CreateCustomsItem(ctx context.Context, item CustomsItem) (*CustomsItem, error)
	GetTrackingStatus(ctx context.Context, carrier, trackingNumber string) (*TrackingInfo, error)
	RegisterTrackingWebhook(ctx context.Context, carrier, trackingNumber string) (*TrackingInfo, error)
	ListCarrierAccounts(ctx context.Context) ([]CarrierAccount, error)
	CreatePickup(ctx context.Context, req PickupRequest) (*Pickup, error)
}

type Client struct {
	config *config.CarrierApiConfig
	client *http.Client
}

func NewClient(cfg *config.CarrierApiConfig) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *Client) CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error) {
	var shipment Shipment
	if err := c.do(ctx, http.MethodPost, "/shipments", req, &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (c *Client) PurchaseLabel(ctx context.Context, rateId string) (*Label, error) {
	body := map[string]any{
		"rate":            rateId,
		"async":           false,
		"label_file_type": "PDF",
	}
	var label Label
	if err := c.do(ctx, http.MethodPost, "/transactions", body, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

func (c *Client) CreateCustomsItem(ctx context.Context, item CustomsItem) (*CustomsItem, error) {
	var created CustomsItem
	if err := c.do(ctx, http.MethodPost, "/customs/items", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) GetTrackingStatus(ctx context.Context, carrier, trackingNumber string) (*TrackingInfo, error) {
	endpoint := fmt.Sprintf("/tracks/%s/%s", url.PathEscape(carrier), url.PathEscape(trackingNumber))
	var info TrackingInfo
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) RegisterTrackingWebhook(ctx context.Context, carrier, trackingNumber string) (*TrackingInfo, error) {
	body := map[string]string{
		"carrier":         carrier,
		"tracking_number": trackingNumber,
	}
	var info TrackingInfo
	if err := c.do(ctx, http.MethodPost, "/tracks", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) ListCarrierAccounts(ctx context.Context) ([]CarrierAccount, error) {
	var response struct {
		Results []CarrierAccount `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/carrier_accounts", nil, &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}

func (c *Client) CreatePickup(ctx context.Context, req PickupRequest) (*Pickup, error) {
	var pickup Pickup
	if err := c.do(ctx, http.MethodPost, "/pickups", req, &pickup); err != nil {
		return nil, err
	}
	return &pickup, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	u, err := url.Parse(c.config.BaseUri + endpoint)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("X-Request-Id", uuid.New().String())

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s", ErrUnsupportedCarrier, string(bodyBytes))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
