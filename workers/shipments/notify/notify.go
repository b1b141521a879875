// Package notify sends transactional email. Sends are best-effort: the
// engine logs failures and moves on, since mail is not part of the
// consistency-critical path.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shipment-sync-service/config"
)

type Message struct {
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	To      []string `json:"to"`
	Cc      []string `json:"cc,omitempty"`
	Bcc     []string `json:"bcc,omitempty"`
	From    string   `json:"from"`
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

type Client struct {
	config *config.MailerApiConfig
	client *http.Client
}

func NewClient(cfg *config.MailerApiConfig) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = c.config.From
	}

	encoded, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseUri+"/mail/send", bytes.NewReader(encoded))
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
	return nil
}
