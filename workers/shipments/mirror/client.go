package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shipment-sync-service/config"
	"shipment-sync-service/workers/shipments/models"
)

type Client struct {
	config *config.MirrorApiConfig
	client *http.Client
}

func NewClient(cfg *config.MirrorApiConfig) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

type record struct {
	Id     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

type recordList struct {
	Records []record `json:"records"`
	Offset  string   `json:"offset"`
}

func (c *Client) GetOutbound(ctx context.Context, shipment *models.OutboundShipment) (*OutboundFields, error) {
	formula := fmt.Sprintf(`AND({email}="%s",{created_time}="%s")`,
		escapeFormulaValue(shipment.Email), shipment.CreatedTime.UTC().Format(time.RFC3339))
	endpoint := fmt.Sprintf("/%s/%s?filterByFormula=%s&maxRecords=1",
		c.config.BaseId, url.PathEscape(c.config.OutboundTable), url.QueryEscape(formula))

	var list recordList
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, err
	}
	if len(list.Records) == 0 {
		return nil, nil
	}

	rec := list.Records[0]
	fields := &OutboundFields{
		RecordId:    rec.Id,
		LocalPickup: boolField(rec.Fields, "local_pickup"),
		PickupLinks: stringListField(rec.Fields, "link_to_package_pickup"),
		Notes:       stringField(rec.Fields, "notes"),
	}
	return fields, nil
}

func (c *Client) WriteOutbound(ctx context.Context, shipment *models.OutboundShipment) error {
	fields := map[string]any{
		"email":                 shipment.Email,
		"created_time":          shipment.CreatedTime.UTC().Format(time.RFC3339),
		"name":                  shipment.Name,
		"contents":              shipment.Contents,
		"address_formatted":     shipment.AddressFormatted,
		"status":                string(shipment.Status),
		"carrier":               shipment.Carrier,
		"tracking_number":       shipment.TrackingNumber,
		"tracking_link":         shipment.TrackingLink,
		"branded_tracking_link": shipment.BrandedTrackingLink,
		"tracking_status":       shipment.TrackingStatus,
		"label_link":            shipment.LabelLink,
		"cost":                  shipment.Cost,
		"messages":              shipment.Messages,
	}
	if shipment.Eta != nil {
		fields["eta"] = shipment.Eta.UTC().Format(time.RFC3339)
	}
	if shipment.ShippedTime != nil {
		fields["shipped_time"] = shipment.ShippedTime.UTC().Format(time.RFC3339)
	}
	if shipment.DeliveredTime != nil {
		fields["delivered_time"] = shipment.DeliveredTime.UTC().Format(time.RFC3339)
	}
	if shipment.PickupDate != nil {
		fields["pickup_date"] = shipment.PickupDate.Format("2006-01-02")
	}

	recordId, err := c.write(ctx, c.config.OutboundTable, shipment.MirrorRecordId, fields)
	if err != nil {
		return err
	}
	shipment.MirrorRecordId = recordId
	return nil
}

func (c *Client) ListInbound(ctx context.Context) ([]models.InboundShipment, error) {
	var shipments []models.InboundShipment
	offset := ""
	for {
		endpoint := fmt.Sprintf("/%s/%s", c.config.BaseId, url.PathEscape(c.config.InboundTable))
		if offset != "" {
			endpoint += "?offset=" + url.QueryEscape(offset)
		}

		var list recordList
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
			return nil, err
		}

		for _, rec := range list.Records {
			shipments = append(shipments, models.InboundShipment{
				MirrorRecordId: rec.Id,
				Carrier:        stringField(rec.Fields, "carrier"),
				TrackingNumber: stringField(rec.Fields, "tracking_number"),
				TrackingStatus: stringField(rec.Fields, "tracking_status"),
				Name:           stringField(rec.Fields, "name"),
				Notes:          stringField(rec.Fields, "notes"),
				ShippedTime:    timeField(rec.Fields, "shipped_time"),
				DeliveredTime:  timeField(rec.Fields, "delivered_time"),
				Eta:            timeField(rec.Fields, "eta"),
				Messages:       stringField(rec.Fields, "messages"),
			})
		}

		if list.Offset == "" {
			return shipments, nil
		}
		offset = list.Offset
	}
}

func (c *Client) WriteInbound(ctx context.Context, shipment *models.InboundShipment) error {
	fields := map[string]any{
		"carrier":               shipment.Carrier,
		"tracking_number":       shipment.TrackingNumber,
		"tracking_link":         shipment.TrackingLink,
		"branded_tracking_link": shipment.BrandedTrackingLink,
		"tracking_status":       shipment.TrackingStatus,
		"messages":              shipment.Messages,
	}
	if shipment.Eta != nil {
		fields["eta"] = shipment.Eta.UTC().Format(time.RFC3339)
	}
	if shipment.ShippedTime != nil {
		fields["shipped_time"] = shipment.ShippedTime.UTC().Format(time.RFC3339)
	}
	if shipment.DeliveredTime != nil {
		fields["delivered_time"] = shipment.DeliveredTime.UTC().Format(time.RFC3339)
	}

	recordId, err := c.write(ctx, c.config.InboundTable, shipment.MirrorRecordId, fields)
	if err != nil {
		return err
	}
	shipment.MirrorRecordId = recordId
	return nil
}

func (c *Client) LinkPickup(ctx context.Context, pickup *models.PackagePickup) error {
	for _, recordId := range pickup.ShipmentLinks {
		if recordId == "" {
			continue
		}
		fields := map[string]any{
			"link_to_package_pickup": []string{pickup.CarrierPickupId},
		}
		if _, err := c.write(ctx, c.config.OutboundTable, recordId, fields); err != nil {
			return err
		}
	}
	return nil
}

// write creates the record when recordId is empty and patches it otherwise,
// returning the record id.
func (c *Client) write(ctx context.Context, table, recordId string, fields map[string]any) (string, error) {
	method := http.MethodPost
	endpoint := fmt.Sprintf("/%s/%s", c.config.BaseId, url.PathEscape(table))
	if recordId != "" {
		method = http.MethodPatch
		endpoint += "/" + url.PathEscape(recordId)
	}

	var saved record
	if err := c.do(ctx, method, endpoint, record{Fields: fields}, &saved); err != nil {
		return "", err
	}
	return saved.Id, nil
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
	req.Header.Set("Authorization", "Bearer "+c.config.ApiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

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

// escapeFormulaValue escapes backslashes and quotes so a value cannot break
// out of its quoted formula literal.
func escapeFormulaValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func boolField(fields map[string]any, key string) bool {
	if v, ok := fields[key].(bool); ok {
		return v
	}
	return false
}

func stringListField(fields map[string]any, key string) []string {
	raw, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func timeField(fields map[string]any, key string) *time.Time {
	s, ok := fields[key].(string)
	if !ok || s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
